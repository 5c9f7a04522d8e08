package service

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sekha-ai/sekha-workbench/internal/events"
	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
	"github.com/sekha-ai/sekha-workbench/pkg/metrics"
)

// ErrEmptySelection is returned when a batch operation is requested with
// nothing selected.
var ErrEmptySelection = errors.New("no conversations selected")

// BatchService applies one operation to every currently selected
// conversation. The selection is cleared after the batch commits; on
// failure it is left intact so the user can retry.
type BatchService struct {
	client    sekha.Client
	selection *SelectionManager
	tags      *TagManager
	publisher *events.Publisher
	logger    *logger.Logger
}

// NewBatchService creates a new batch service.
func NewBatchService(client sekha.Client, sel *SelectionManager, tags *TagManager, pub *events.Publisher, log *logger.Logger) *BatchService {
	return &BatchService{
		client:    client,
		selection: sel,
		tags:      tags,
		publisher: pub,
		logger:    log,
	}
}

// Pin sets every selected conversation's status to pinned.
func (s *BatchService) Pin(ctx context.Context) (int, error) {
	return s.setStatus(ctx, model.StatusPinned)
}

// Unpin sets every selected conversation's status back to active.
func (s *BatchService) Unpin(ctx context.Context) (int, error) {
	return s.setStatus(ctx, model.StatusActive)
}

// Archive sets every selected conversation's status to archived.
func (s *BatchService) Archive(ctx context.Context) (int, error) {
	return s.setStatus(ctx, model.StatusArchived)
}

// Move moves every selected conversation to folder.
func (s *BatchService) Move(ctx context.Context, folder string) (int, error) {
	return s.run(ctx, "move", model.EventTypeBatchUpdated, func(ctx context.Context, id string) error {
		return s.client.Update(ctx, id, &model.UpdateConversationRequest{Folder: folder})
	})
}

// Delete permanently deletes every selected conversation.
func (s *BatchService) Delete(ctx context.Context) (int, error) {
	return s.run(ctx, "delete", model.EventTypeBatchDeleted, s.client.Delete)
}

// AddTags adds tags to every selected conversation.
func (s *BatchService) AddTags(ctx context.Context, tags []string) (int, error) {
	return s.run(ctx, "tag", model.EventTypeBatchUpdated, func(ctx context.Context, id string) error {
		return s.tags.AddTags(ctx, id, tags)
	})
}

func (s *BatchService) setStatus(ctx context.Context, status model.Status) (int, error) {
	return s.run(ctx, string(status), model.EventTypeBatchUpdated, func(ctx context.Context, id string) error {
		return s.client.SetStatus(ctx, id, status)
	})
}

func (s *BatchService) run(ctx context.Context, op string, eventType model.EventType, apply func(ctx context.Context, id string) error) (int, error) {
	ids := s.selection.Selected()
	if len(ids) == 0 {
		return 0, ErrEmptySelection
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return apply(gctx, id)
		})
	}
	if err := g.Wait(); err != nil {
		return 0, err
	}

	s.selection.Clear()

	metrics.BatchOpsTotal.WithLabelValues(op).Inc()
	s.logger.Info("batch operation completed",
		zap.String("operation", op),
		zap.Int("count", len(ids)),
	)

	s.publisher.Publish(ctx, &model.WorkbenchEvent{
		Type:            eventType,
		ConversationIDs: ids,
		Metadata:        map[string]any{"operation": op},
	})

	return len(ids), nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sekha-ai/sekha-workbench/internal/events"
	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
	"github.com/sekha-ai/sekha-workbench/pkg/metrics"
)

// ErrInsufficientSources is returned when a merge is requested with fewer
// than two source conversations. Detected before any network call.
var ErrInsufficientSources = errors.New("at least 2 conversations are required to merge")

// ErrDuplicateSources is returned when the same conversation ID appears
// more than once in a merge request. Also detected before any network
// call.
var ErrDuplicateSources = errors.New("merge source IDs must be distinct")

// MergeService combines multiple existing conversations into exactly one
// new conversation under a deterministic ordering policy.
type MergeService struct {
	client    sekha.Client
	publisher *events.Publisher
	logger    *logger.Logger
}

// NewMergeService creates a new merge service. The publisher may be nil.
func NewMergeService(client sekha.Client, pub *events.Publisher, log *logger.Logger) *MergeService {
	return &MergeService{
		client:    client,
		publisher: pub,
		logger:    log,
	}
}

// Merge fetches the source conversations, combines their messages under
// opts.SortBy, unions their tags, and creates the merged conversation.
// Sources are deleted only after the create succeeds, and only when
// opts.DeleteOriginals is set; per-source delete failures are reported in
// the result rather than failing the merge.
func (s *MergeService) Merge(ctx context.Context, ids []string, opts model.MergeOptions) (*model.MergeResult, error) {
	if len(ids) < 2 {
		return nil, ErrInsufficientSources
	}
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return nil, ErrDuplicateSources
		}
		seen[id] = struct{}{}
	}

	// Fetch concurrently, recombine in input order. Input order drives
	// label derivation, folder fallback and conversation-mode separators.
	sources := make([]*model.Conversation, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			conv, err := s.client.Get(gctx, id)
			if err != nil {
				return err
			}
			sources[i] = conv
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	label := opts.Label
	if label == "" {
		label = mergedLabel(sources)
	}

	folder := opts.Folder
	if folder == "" {
		folder = sources[0].Folder
	}
	if folder == "" {
		folder = "/"
	}

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = model.MergeSortChronological
	}

	var messages []model.Message
	switch sortBy {
	case model.MergeSortConversation:
		messages = combineByConversation(sources)
	case model.MergeSortChronological:
		messages = combineChronologically(sources)
	default:
		return nil, fmt.Errorf("unknown sort policy %q", sortBy)
	}

	var tags []string
	for _, conv := range sources {
		tags = stableUnion(tags, conv.Tags)
	}

	merged, err := s.client.Create(ctx, &model.CreateConversationRequest{
		Label:    label,
		Folder:   folder,
		Messages: messages,
		Tags:     tags,
	})
	if err != nil {
		return nil, err
	}

	result := &model.MergeResult{Conversation: merged}
	if opts.DeleteOriginals {
		result.Deleted, result.DeleteFailures = s.deleteSources(ctx, ids)
	}

	metrics.MergesTotal.WithLabelValues(string(sortBy)).Inc()
	s.logger.Info("conversations merged",
		zap.Strings("source_ids", ids),
		zap.String("merged_id", merged.ID),
		zap.Int("messages", len(messages)),
		zap.Int("delete_failures", len(result.DeleteFailures)),
	)

	s.publisher.Publish(ctx, &model.WorkbenchEvent{
		Type:            model.EventTypeMerged,
		ConversationIDs: append(append([]string{}, ids...), merged.ID),
		Metadata:        map[string]any{"sort_by": string(sortBy)},
	})

	return result, nil
}

// deleteSources deletes every source in parallel, recording outcomes in
// input order.
func (s *MergeService) deleteSources(ctx context.Context, ids []string) ([]string, []model.DeleteFailure) {
	errs := make([]error, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			errs[i] = s.client.Delete(ctx, id)
		}(i, id)
	}
	wg.Wait()

	var deleted []string
	var failures []model.DeleteFailure
	for i, id := range ids {
		if errs[i] != nil {
			failures = append(failures, model.DeleteFailure{
				ConversationID: id,
				Reason:         errs[i].Error(),
			})
			continue
		}
		deleted = append(deleted, id)
	}
	return deleted, failures
}

// combineChronologically flattens all source messages into one sequence
// stable-sorted by timestamp ascending. Messages without a timestamp sort
// as the zero time and keep their original relative order.
func combineChronologically(sources []*model.Conversation) []model.Message {
	var all []model.Message
	for _, conv := range sources {
		all = append(all, conv.Messages...)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return messageTime(all[i]).Before(messageTime(all[j]))
	})
	return all
}

// combineByConversation emits each source's messages verbatim, preceded
// by a system-role separator naming the source.
func combineByConversation(sources []*model.Conversation) []model.Message {
	var all []model.Message
	for _, conv := range sources {
		all = append(all, model.Message{
			Role:    model.RoleSystem,
			Content: model.Text(fmt.Sprintf("--- From conversation: %s ---", conv.Label)),
		})
		all = append(all, conv.Messages...)
	}
	return all
}

func messageTime(msg model.Message) time.Time {
	if msg.Timestamp == nil {
		return time.Time{}
	}
	return *msg.Timestamp
}

// mergedLabel derives a label from the first 3 non-empty source labels.
func mergedLabel(sources []*model.Conversation) string {
	var labels []string
	for _, conv := range sources {
		if conv.Label != "" {
			labels = append(labels, conv.Label)
			if len(labels) == 3 {
				break
			}
		}
	}
	if len(labels) == 0 {
		return fmt.Sprintf("Merged Conversation - %s", time.Now().Format("2006-01-02"))
	}
	out := "Merged: " + labels[0]
	for _, l := range labels[1:] {
		out += ", " + l
	}
	return out
}

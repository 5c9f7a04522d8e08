package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

const (
	// StreamName is the name of the workbench event stream.
	StreamName = "WORKBENCH"

	// SubjectPrefix is the prefix for all workbench subjects.
	SubjectPrefix = "workbench"
)

// Publisher writes workbench events to JetStream. A nil Publisher is
// valid and drops all events, so callers never need to branch on whether
// eventing is configured.
type Publisher struct {
	client *Client
	logger *logger.Logger
}

// NewPublisher creates a publisher over an established NATS client.
func NewPublisher(client *Client, log *logger.Logger) *Publisher {
	return &Publisher{client: client, logger: log}
}

// EnsureStream ensures the workbench stream exists.
func (p *Publisher) EnsureStream(ctx context.Context) error {
	js := p.client.JetStream()

	_, err := js.Stream(ctx, StreamName)
	if err == nil {
		return nil
	}

	_, err = js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{fmt.Sprintf("%s.>", SubjectPrefix)},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      30 * 24 * time.Hour,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Description: "Workbench operation events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}
	return nil
}

// EventSubject returns the subject for an event type.
func EventSubject(eventType model.EventType) string {
	return fmt.Sprintf("%s.%s", SubjectPrefix, eventType)
}

// Publish writes the event to the stream, filling in ID and CreatedAt.
// Publish failures are logged, not returned: eventing is advisory and
// must never fail a committed operation.
func (p *Publisher) Publish(ctx context.Context, event *model.WorkbenchEvent) {
	if p == nil {
		return
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to marshal event", zap.Error(err))
		return
	}

	ack, err := p.client.JetStream().Publish(ctx, EventSubject(event.Type), data)
	if err != nil {
		p.logger.Warn("failed to publish event",
			zap.String("type", string(event.Type)),
			zap.Error(err),
		)
		return
	}
	event.Sequence = ack.Sequence
}

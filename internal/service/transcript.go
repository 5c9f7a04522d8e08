package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/sekha-ai/sekha-workbench/internal/events"
	"github.com/sekha-ai/sekha-workbench/internal/model"
	"github.com/sekha-ai/sekha-workbench/internal/sekha"
	"github.com/sekha-ai/sekha-workbench/pkg/logger"
)

// ErrEmptyTranscript is returned when no messages could be parsed from an
// import request.
var ErrEmptyTranscript = errors.New("no conversation found in transcript")

// ImportService turns a plain-text transcript into a stored conversation.
type ImportService struct {
	client    sekha.Client
	publisher *events.Publisher
	logger    *logger.Logger
}

// NewImportService creates a new import service.
func NewImportService(client sekha.Client, pub *events.Publisher, log *logger.Logger) *ImportService {
	return &ImportService{
		client:    client,
		publisher: pub,
		logger:    log,
	}
}

// Import parses a transcript and creates a conversation from it.
func (s *ImportService) Import(ctx context.Context, transcript, label, folder string) (*model.Conversation, error) {
	messages := ParseTranscript(transcript)
	if len(messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	conv, err := s.client.Create(ctx, &model.CreateConversationRequest{
		Label:    label,
		Folder:   folder,
		Messages: messages,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("transcript imported",
		zap.String("conversation_id", conv.ID),
		zap.Int("messages", len(messages)),
	)
	s.publisher.Publish(ctx, &model.WorkbenchEvent{
		Type:            model.EventTypeImported,
		ConversationIDs: []string{conv.ID},
	})
	return conv, nil
}

// ParseTranscript splits a transcript into messages on "User:",
// "Assistant:" and "System:" markers. Lines before the first marker are
// ignored; continuation lines are folded into the current message.
func ParseTranscript(content string) []model.Message {
	var messages []model.Message
	var role model.Role
	var buf []string

	flush := func() {
		if role == "" || len(buf) == 0 {
			return
		}
		text := strings.TrimSpace(strings.Join(buf, "\n"))
		if text != "" {
			messages = append(messages, model.Message{
				Role:    role,
				Content: model.Text(text),
			})
		}
	}

	for _, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		var next model.Role
		var rest string
		switch {
		case strings.HasPrefix(trimmed, "User:"):
			next, rest = model.RoleUser, strings.TrimPrefix(trimmed, "User:")
		case strings.HasPrefix(trimmed, "Assistant:"):
			next, rest = model.RoleAssistant, strings.TrimPrefix(trimmed, "Assistant:")
		case strings.HasPrefix(trimmed, "System:"):
			next, rest = model.RoleSystem, strings.TrimPrefix(trimmed, "System:")
		}

		if next != "" {
			flush()
			role = next
			buf = []string{strings.TrimSpace(rest)}
			continue
		}
		if role != "" && trimmed != "" {
			buf = append(buf, line)
		}
	}
	flush()

	return messages
}

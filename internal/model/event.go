package model

import (
	"time"
)

// EventType represents the type of workbench event.
type EventType string

const (
	EventTypeMerged       EventType = "conversation.merged"
	EventTypeImported     EventType = "conversation.imported"
	EventTypeTagsAdded    EventType = "tags.added"
	EventTypeTagsRemoved  EventType = "tags.removed"
	EventTypeBatchUpdated EventType = "batch.updated"
	EventTypeBatchDeleted EventType = "batch.deleted"
)

// WorkbenchEvent is published to the event stream after a workbench
// operation commits against the memory service.
type WorkbenchEvent struct {
	ID              string         `json:"id"`
	Type            EventType      `json:"type"`
	ConversationIDs []string       `json:"conversation_ids,omitempty"`
	Metadata        map[string]any `json:"metadata,omitempty"`
	CreatedAt       time.Time      `json:"created_at"`
	Sequence        uint64         `json:"sequence,omitempty"`
}

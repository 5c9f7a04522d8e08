package model

import (
	"encoding/json"
	"time"
)

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Message represents one turn in a conversation. Messages are immutable
// once created; merge operations copy them, never mutate them.
type Message struct {
	Role      Role       `json:"role"`
	Content   Content    `json:"content"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Content is either plain text or an opaque structured value. The memory
// service stores structured content as arbitrary JSON; the workbench never
// interprets it beyond rendering it through Display.
type Content struct {
	text string
	raw  json.RawMessage
}

// Text returns plain-text content.
func Text(s string) Content {
	return Content{text: s}
}

// Structured returns content wrapping an opaque JSON value.
func Structured(raw json.RawMessage) Content {
	return Content{raw: raw}
}

// IsStructured reports whether the content carries a structured value.
func (c Content) IsStructured() bool {
	return c.raw != nil
}

// Display returns the canonical display string: the text itself for plain
// content, the compact JSON encoding for structured content.
func (c Content) Display() string {
	if c.raw != nil {
		return string(c.raw)
	}
	return c.text
}

// MarshalJSON encodes plain content as a JSON string and structured
// content as its original JSON value.
func (c Content) MarshalJSON() ([]byte, error) {
	if c.raw != nil {
		return c.raw, nil
	}
	return json.Marshal(c.text)
}

// UnmarshalJSON decodes a JSON string into plain content; any other JSON
// value is kept verbatim as structured content.
func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content{text: s}
		return nil
	}
	raw := make(json.RawMessage, len(data))
	copy(raw, data)
	*c = Content{raw: raw}
	return nil
}

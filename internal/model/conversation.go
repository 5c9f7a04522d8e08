// Package model defines data structures for the Sekha workbench.
package model

import (
	"time"
)

// Status represents the lifecycle status of a conversation.
type Status string

const (
	StatusActive   Status = "active"
	StatusPinned   Status = "pinned"
	StatusArchived Status = "archived"
)

// Conversation represents a stored conversation in the Sekha memory service.
type Conversation struct {
	ID        string    `json:"id"`
	Label     string    `json:"label"`
	Folder    string    `json:"folder,omitempty"`
	Status    Status    `json:"status,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	Messages  []Message `json:"messages"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateConversationRequest is the request to create a new conversation.
type CreateConversationRequest struct {
	Label    string    `json:"label"`
	Folder   string    `json:"folder,omitempty"`
	Messages []Message `json:"messages"`
	Tags     []string  `json:"tags,omitempty"`
}

// UpdateConversationRequest is the request to update a conversation.
// Zero-valued fields are left unchanged by the service; Tags is sent as
// null when nil, which the service also treats as no change. An empty
// non-nil slice clears the tag set.
type UpdateConversationRequest struct {
	Label  string   `json:"label,omitempty"`
	Folder string   `json:"folder,omitempty"`
	Tags   []string `json:"tags"`
}

// ListOptions controls a conversation listing call.
type ListOptions struct {
	Limit  int    `json:"limit"`
	Folder string `json:"folder,omitempty"`
	Status Status `json:"status,omitempty"`
}

// ListConversationsResponse is the response for listing conversations.
type ListConversationsResponse struct {
	Conversations []Conversation `json:"conversations"`
	Total         int            `json:"total"`
}

// QueryRequest is a semantic search request against the memory service.
type QueryRequest struct {
	Query string `json:"query"`
	Limit int    `json:"limit,omitempty"`
}

// QueryResult is a single scored search hit.
type QueryResult struct {
	ConversationID string  `json:"conversation_id"`
	Label          string  `json:"label"`
	Folder         string  `json:"folder,omitempty"`
	Score          float64 `json:"score"`
	Snippet        string  `json:"snippet,omitempty"`
}

// QueryResponse is the response for a semantic search.
type QueryResponse struct {
	Results []QueryResult `json:"results"`
}

// MergeSort selects the message ordering policy for a merge.
type MergeSort string

const (
	// MergeSortChronological interleaves all source messages by timestamp.
	MergeSortChronological MergeSort = "chronological"
	// MergeSortConversation keeps each source intact behind a separator.
	MergeSortConversation MergeSort = "conversation"
)

// MergeOptions configures a single merge call.
type MergeOptions struct {
	Label           string    `json:"label,omitempty"`
	Folder          string    `json:"folder,omitempty"`
	DeleteOriginals bool      `json:"delete_originals,omitempty"`
	SortBy          MergeSort `json:"sort_by,omitempty"`
}

// DeleteFailure records a source conversation that could not be deleted
// after a successful merge.
type DeleteFailure struct {
	ConversationID string `json:"conversation_id"`
	Reason         string `json:"reason"`
}

// MergeResult is the outcome of a merge. The merged conversation always
// exists when a result is returned; cleanup of the sources may still have
// partially failed, which DeleteFailures makes explicit.
type MergeResult struct {
	Conversation   *Conversation   `json:"conversation"`
	Deleted        []string        `json:"deleted,omitempty"`
	DeleteFailures []DeleteFailure `json:"delete_failures,omitempty"`
}

// TagStat is a tag with its occurrence count across conversations.
type TagStat struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

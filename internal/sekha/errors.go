package sekha

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a conversation ID does not resolve at the
// memory service. Checked with errors.Is.
var ErrNotFound = errors.New("conversation not found")

// ServiceError is any non-404 failure reported by the memory service.
// The workbench never retries; retry and backoff belong to the service
// client transport, invisible to callers.
type ServiceError struct {
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("sekha: request failed with status %d", e.StatusCode)
	}
	return fmt.Sprintf("sekha: %s (status %d)", e.Message, e.StatusCode)
}

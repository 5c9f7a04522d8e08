package middleware

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// ValidateConversationID validates a conversation ID. IDs are assigned by
// the memory service and treated as opaque.
func ValidateConversationID(id string) error {
	if id == "" {
		return errors.New("conversation ID cannot be empty")
	}
	if len(id) > 128 {
		return errors.New("conversation ID exceeds maximum length")
	}
	if strings.ContainsAny(id, " \t\n/") {
		return errors.New("invalid conversation ID format")
	}
	return nil
}

// ValidateLabel validates a conversation label.
func ValidateLabel(label string) error {
	if len(label) > 256 {
		return errors.New("label exceeds maximum length")
	}
	if !utf8.ValidString(label) {
		return errors.New("label must be valid UTF-8")
	}
	return nil
}

// ValidateFolder validates a folder path.
func ValidateFolder(folder string) error {
	if folder == "" {
		return nil
	}
	if !strings.HasPrefix(folder, "/") {
		return errors.New("folder must start with /")
	}
	if len(folder) > 512 {
		return errors.New("folder exceeds maximum length")
	}
	return nil
}

// ValidateTags validates a tag list.
func ValidateTags(tags []string) error {
	if len(tags) == 0 {
		return errors.New("at least one tag is required")
	}
	for _, tag := range tags {
		if strings.TrimSpace(tag) == "" {
			return errors.New("tags cannot be empty")
		}
		if len(tag) > 64 {
			return errors.New("tag exceeds maximum length")
		}
		if !utf8.ValidString(tag) {
			return errors.New("tags must be valid UTF-8")
		}
	}
	return nil
}

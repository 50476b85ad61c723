// Package utils provides validation of externally supplied identifiers.
// Collection names and document IDs arrive from the stream and the HTTP
// API; they end up in log lines and storage keys, so control characters
// and unbounded lengths are rejected up front.
package utils

import (
	"strings"
	"unicode"
)

const (
	// MaxCollectionNameLength bounds collection names.
	MaxCollectionNameLength = 64
	// MaxDocumentIDLength bounds document IDs.
	MaxDocumentIDLength = 256
)

// ValidationError reports why an identifier was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// ValidateCollectionName checks that a collection name is usable as a
// storage key: lowercase alphanumerics, dash and underscore only.
func ValidateCollectionName(name string) error {
	if name == "" {
		return &ValidationError{Field: "collection", Message: "name is required"}
	}
	if len(name) > MaxCollectionNameLength {
		return &ValidationError{Field: "collection", Message: "name too long"}
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '-' || r == '_':
		default:
			return &ValidationError{Field: "collection", Message: "name must be lowercase alphanumeric, dash or underscore"}
		}
	}
	return nil
}

// ValidateDocumentID rejects document IDs with control characters or
// excessive length. Anything printable is otherwise allowed since IDs are
// opaque to the indexer.
func ValidateDocumentID(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "document_id", Message: "id is required"}
	}
	if len(id) > MaxDocumentIDLength {
		return &ValidationError{Field: "document_id", Message: "id too long"}
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return &ValidationError{Field: "document_id", Message: "id contains control characters"}
		}
	}
	return nil
}

package domain

import (
	"strings"
	"testing"
)

func TestNewDocumentRecord(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		collection string
		documentID string
		wantErr    bool
	}{
		{
			name:       "valid record",
			userID:     "user-123",
			collection: "articles",
			documentID: "doc-1",
			wantErr:    false,
		},
		{
			name:       "valid record with empty userID",
			userID:     "",
			collection: "articles",
			documentID: "doc-2",
			wantErr:    false,
		},
		{
			name:       "empty collection should fail",
			userID:     "user-123",
			collection: "",
			documentID: "doc-1",
			wantErr:    true,
		},
		{
			name:       "empty document ID should fail",
			userID:     "user-123",
			collection: "articles",
			documentID: "",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := NewDocumentRecord(tt.userID, tt.collection, tt.documentID, nil)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewDocumentRecord() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if err != nil {
				return
			}
			if record.Collection() != tt.collection {
				t.Errorf("Collection() = %v, want %v", record.Collection(), tt.collection)
			}
			if record.DocumentID() != tt.documentID {
				t.Errorf("DocumentID() = %v, want %v", record.DocumentID(), tt.documentID)
			}
			if record.UserID() != tt.userID {
				t.Errorf("UserID() = %v, want %v", record.UserID(), tt.userID)
			}
		})
	}
}

func TestChunkRecord_TextPreview(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "short text unchanged",
			text: "hello world",
			want: "hello world",
		},
		{
			name: "exactly at limit unchanged",
			text: strings.Repeat("a", 40),
			want: strings.Repeat("a", 40),
		},
		{
			name: "long text truncated",
			text: strings.Repeat("a", 41),
			want: strings.Repeat("a", 40) + "...",
		},
		{
			name: "multibyte runes not split",
			text: strings.Repeat("あ", 41),
			want: strings.Repeat("あ", 40) + "...",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunk := NewChunkRecord(tt.text, MissingVectors())
			if got := chunk.TextPreview(); got != tt.want {
				t.Errorf("TextPreview() = %q, want %q", got, tt.want)
			}
		})
	}
}

package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestContextLogger_WithContext_BusinessKeys(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	cl := NewContextLogger(logger)

	ctx := context.Background()
	ctx = WithDocumentID(ctx, "doc-123")
	ctx = WithCollection(ctx, "articles")
	ctx = WithEventID(ctx, "evt-789")

	cl.WithContext(ctx).Info("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	tests := []struct {
		key      string
		expected string
	}{
		{"ingest.document.id", "doc-123"},
		{"ingest.collection", "articles"},
		{"ingest.event.id", "evt-789"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := logEntry[tt.key]
			if !ok {
				t.Errorf("expected key %q to be present in log", tt.key)
				return
			}
			if got != tt.expected {
				t.Errorf("expected %q to be %q, got %q", tt.key, tt.expected, got)
			}
		})
	}
}

func TestContextLogger_WithContext_PartialKeys(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewJSONHandler(&buf, nil)
	logger := slog.New(handler)
	cl := NewContextLogger(logger)

	ctx := context.Background()
	ctx = WithDocumentID(ctx, "doc-only")

	cl.WithContext(ctx).Info("test message")

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if got, ok := logEntry["ingest.document.id"]; !ok || got != "doc-only" {
		t.Errorf("expected ingest.document.id to be 'doc-only', got %v", got)
	}

	for _, key := range []string{"ingest.collection", "ingest.event.id"} {
		if _, ok := logEntry[key]; ok {
			t.Errorf("expected key %q to not be present in log", key)
		}
	}
}

func TestContextLogger_LogError(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithCollection(context.Background(), "articles")
	cl.LogError(ctx, "upsert_vectors", context.DeadlineExceeded)

	var logEntry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("failed to parse log output: %v", err)
	}

	if logEntry["operation"] != "upsert_vectors" {
		t.Errorf("operation = %v, want upsert_vectors", logEntry["operation"])
	}
	if logEntry["ingest.collection"] != "articles" {
		t.Errorf("ingest.collection = %v, want articles", logEntry["ingest.collection"])
	}
}

package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"embedding-indexer/domain"
	"embedding-indexer/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockVectorStore implements port.VectorStore for testing.
type mockVectorStore struct {
	collections map[string]bool
	entries     []domain.EmbeddingEntry
	upsertErr   error
}

func (m *mockVectorStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	return m.collections[name], nil
}

func (m *mockVectorStore) ProvisionCollection(ctx context.Context, name string, dimension int) error {
	m.collections[name] = true
	return nil
}

func (m *mockVectorStore) UpsertVectors(ctx context.Context, entries []domain.EmbeddingEntry) error {
	if m.upsertErr != nil {
		return m.upsertErr
	}
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *mockVectorStore) CountVectors(ctx context.Context, collection string) (int64, error) {
	return int64(len(m.entries)), nil
}

func newHandler(store *mockVectorStore) *EmbeddingsEventHandler {
	uc := usecase.NewStoreEmbeddingsUsecase(store, slog.Default(), usecase.Options{VectorDim: 2})
	return NewEmbeddingsEventHandler(uc, slog.Default(), 0)
}

func embeddingsEvent(t *testing.T, payload DocumentEmbeddingsPayload) Event {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return Event{
		MessageID: "1-0",
		EventID:   "evt-1",
		EventType: EventTypeDocumentEmbeddings,
		Payload:   raw,
	}
}

func TestEmbeddingsEventHandler_ValidRecord(t *testing.T) {
	store := &mockVectorStore{collections: map[string]bool{"articles": true}}
	h := newHandler(store)

	event := embeddingsEvent(t, DocumentEmbeddingsPayload{
		UserID:     "user-1",
		Collection: "articles",
		DocumentID: "doc-1",
		Chunks: []ChunkPayload{
			{Chunk: "A", Vectors: [][]float32{{0.1, 0.2}}},
			{Chunk: "C", Vectors: [][]float32{{0.3, 0.4}}},
		},
	})

	err := h.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Len(t, store.entries, 2)
}

func TestEmbeddingsEventHandler_NullVectorsBecomeMissing(t *testing.T) {
	store := &mockVectorStore{collections: map[string]bool{"articles": true}}
	h := newHandler(store)

	// Hand-written JSON so the vectors field is an explicit null on one
	// chunk and absent on another.
	raw := []byte(`{
		"user_id": "user-1",
		"collection": "articles",
		"document_id": "doc-1",
		"chunks": [
			{"chunk": "A", "vectors": [[0.1, 0.2]]},
			{"chunk": "B", "vectors": null},
			{"chunk": "C"},
			{"chunk": "D", "vectors": []}
		]
	}`)

	err := h.HandleEvent(context.Background(), Event{
		EventID:   "evt-2",
		EventType: EventTypeDocumentEmbeddings,
		Payload:   raw,
	})
	require.NoError(t, err)
	// Only chunk A survives validation.
	require.Len(t, store.entries, 1)
	assert.Equal(t, "A", store.entries[0].ChunkText)
}

func TestEmbeddingsEventHandler_UndecodablePayloadAcked(t *testing.T) {
	store := &mockVectorStore{collections: map[string]bool{"articles": true}}
	h := newHandler(store)

	err := h.HandleEvent(context.Background(), Event{
		EventID:   "evt-3",
		EventType: EventTypeDocumentEmbeddings,
		Payload:   json.RawMessage(`{not json`),
	})
	assert.NoError(t, err, "undecodable payloads must be acked, not retried")
	assert.Empty(t, store.entries)
}

func TestEmbeddingsEventHandler_InvalidRecordAcked(t *testing.T) {
	store := &mockVectorStore{collections: map[string]bool{"articles": true}}
	h := newHandler(store)

	event := embeddingsEvent(t, DocumentEmbeddingsPayload{
		UserID:     "user-1",
		Collection: "", // fails domain validation
		DocumentID: "doc-1",
	})

	err := h.HandleEvent(context.Background(), event)
	assert.NoError(t, err)
	assert.Empty(t, store.entries)
}

func TestEmbeddingsEventHandler_StoreFailureRetried(t *testing.T) {
	store := &mockVectorStore{
		collections: map[string]bool{"articles": true},
		upsertErr:   errors.New("storage error"),
	}
	h := newHandler(store)

	event := embeddingsEvent(t, DocumentEmbeddingsPayload{
		Collection: "articles",
		DocumentID: "doc-1",
		Chunks:     []ChunkPayload{{Chunk: "A", Vectors: [][]float32{{0.1, 0.2}}}},
	})

	err := h.HandleEvent(context.Background(), event)
	assert.Error(t, err, "store failures must propagate so the message stays pending")
}

func TestEmbeddingsEventHandler_UnknownEventTypeSkipped(t *testing.T) {
	store := &mockVectorStore{collections: map[string]bool{"articles": true}}
	h := newHandler(store)

	err := h.HandleEvent(context.Background(), Event{
		EventID:   "evt-4",
		EventType: "DocumentParsed",
		Payload:   json.RawMessage(`{}`),
	})
	assert.NoError(t, err)
	assert.Empty(t, store.entries)
}

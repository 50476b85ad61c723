package rest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"embedding-indexer/domain"
	"embedding-indexer/usecase"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockVectorStore struct {
	collections map[string]bool
	entries     []domain.EmbeddingEntry
	upsertErr   error
}

func (m *mockVectorStore) CollectionExists(ctx context.Context, name string) (bool, error) {
	return m.collections[name], nil
}

func (m *mockVectorStore) ProvisionCollection(ctx context.Context, name string, dimension int) error {
	if m.collections == nil {
		m.collections = make(map[string]bool)
	}
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

func newTestHandler(store *mockVectorStore) *Handler {
	uc := usecase.NewStoreEmbeddingsUsecase(store, nil, usecase.Options{VectorDim: 2})
	return NewHandler(uc, store, nil)
}

func doJSON(t *testing.T, handler echo.HandlerFunc, method, target, body string, pathParams map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	for k, v := range pathParams {
		c.SetParamNames(k)
		c.SetParamValues(v)
	}
	require.NoError(t, handler(c))
	return rec
}

func TestUpsertDocument(t *testing.T) {
	store := &mockVectorStore{collections: map[string]bool{"articles": true}}
	h := newTestHandler(store)

	body := `{
		"user_id": "user-1",
		"collection": "articles",
		"document_id": "doc-1",
		"chunks": [
			{"chunk": "A", "vectors": [[0.1, 0.2]]},
			{"chunk": "B", "vectors": null},
			{"chunk": "C", "vectors": [[0.3, 0.4]]}
		]
	}`

	rec := doJSON(t, h.UpsertDocument, http.MethodPost, "/v1/documents", body, nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"upserted": 2, "skipped_chunks": 1, "halted": false}`, rec.Body.String())
	assert.Len(t, store.entries, 2)
}

func TestUpsertDocument_UnknownCollection(t *testing.T) {
	store := &mockVectorStore{}
	h := newTestHandler(store)

	body := `{"collection": "nowhere", "document_id": "doc-1", "chunks": []}`
	rec := doJSON(t, h.UpsertDocument, http.MethodPost, "/v1/documents", body, nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, store.entries)
}

func TestUpsertDocument_InvalidRecord(t *testing.T) {
	store := &mockVectorStore{collections: map[string]bool{"articles": true}}
	h := newTestHandler(store)

	// Missing document_id fails domain validation.
	body := `{"collection": "articles", "chunks": []}`
	rec := doJSON(t, h.UpsertDocument, http.MethodPost, "/v1/documents", body, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpsertDocument_StorageError(t *testing.T) {
	store := &mockVectorStore{
		collections: map[string]bool{"articles": true},
		upsertErr:   &domain.VectorStoreError{Op: "UpsertVectors", Err: "storage error"},
	}
	h := newTestHandler(store)

	body := `{"collection": "articles", "document_id": "doc-1", "chunks": [{"chunk": "A", "vectors": [[0.1, 0.2]]}]}`
	rec := doJSON(t, h.UpsertDocument, http.MethodPost, "/v1/documents", body, nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProvisionCollection(t *testing.T) {
	store := &mockVectorStore{}
	h := newTestHandler(store)

	rec := doJSON(t, h.ProvisionCollection, http.MethodPost, "/v1/collections",
		`{"name": "articles", "dimension": 768}`, nil)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, store.collections["articles"])
}

func TestProvisionCollection_Validation(t *testing.T) {
	h := newTestHandler(&mockVectorStore{})

	tests := []struct {
		name string
		body string
	}{
		{"missing name", `{"dimension": 768}`},
		{"zero dimension", `{"name": "articles"}`},
		{"negative dimension", `{"name": "articles", "dimension": -1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h.ProvisionCollection, http.MethodPost, "/v1/collections", tt.body, nil)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestCollectionStats(t *testing.T) {
	store := &mockVectorStore{
		collections: map[string]bool{"articles": true},
		entries:     []domain.EmbeddingEntry{{}, {}, {}},
	}
	h := newTestHandler(store)

	rec := doJSON(t, h.CollectionStats, http.MethodGet, "/v1/collections/articles/stats", "",
		map[string]string{"name": "articles"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"collection": "articles", "vectors": 3}`, rec.Body.String())
}

func TestCollectionStats_NotFound(t *testing.T) {
	h := newTestHandler(&mockVectorStore{})

	rec := doJSON(t, h.CollectionStats, http.MethodGet, "/v1/collections/nowhere/stats", "",
		map[string]string{"name": "nowhere"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealth(t *testing.T) {
	h := newTestHandler(&mockVectorStore{})

	rec := doJSON(t, h.Health, http.MethodGet, "/health", "", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

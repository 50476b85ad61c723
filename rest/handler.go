// Package rest exposes the HTTP ingest and management API.
package rest

import (
	"log/slog"
	"net/http"

	"embedding-indexer/domain"
	"embedding-indexer/port"
	"embedding-indexer/usecase"
	"embedding-indexer/utils"

	"github.com/labstack/echo/v4"
)

// Handler contains all HTTP handlers for the embedding indexer.
type Handler struct {
	storeUsecase *usecase.StoreEmbeddingsUsecase
	vectorStore  port.VectorStore
	logger       *slog.Logger
}

// NewHandler creates a new Handler.
func NewHandler(storeUsecase *usecase.StoreEmbeddingsUsecase, vectorStore port.VectorStore, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		storeUsecase: storeUsecase,
		vectorStore:  vectorStore,
		logger:       logger,
	}
}

// ChunkRequest mirrors the stream wire form: a null or omitted vectors
// field is distinct from an empty list.
type ChunkRequest struct {
	Chunk   string      `json:"chunk"`
	Vectors [][]float32 `json:"vectors"`
}

type UpsertDocumentRequest struct {
	UserID     string         `json:"user_id"`
	Collection string         `json:"collection"`
	DocumentID string         `json:"document_id"`
	Chunks     []ChunkRequest `json:"chunks"`
}

type UpsertDocumentResponse struct {
	Upserted      int  `json:"upserted"`
	SkippedChunks int  `json:"skipped_chunks"`
	Halted        bool `json:"halted"`
}

type ProvisionCollectionRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
}

type CollectionStatsResponse struct {
	Collection string `json:"collection"`
	Vectors    int64  `json:"vectors"`
}

// UpsertDocument stores the embeddings of one DocumentRecord.
// (POST /v1/documents)
func (h *Handler) UpsertDocument(c echo.Context) error {
	var req UpsertDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}

	if err := utils.ValidateDocumentID(req.DocumentID); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	chunks := make([]domain.ChunkRecord, 0, len(req.Chunks))
	for _, ch := range req.Chunks {
		chunks = append(chunks, domain.NewChunkRecord(ch.Chunk, domain.VectorPayloadOf(ch.Vectors)))
	}

	record, err := domain.NewDocumentRecord(req.UserID, req.Collection, req.DocumentID, chunks)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	result, err := h.storeUsecase.Execute(c.Request().Context(), record)
	if err != nil {
		h.logger.Error("failed to store document embeddings",
			"document_id", req.DocumentID,
			"collection", req.Collection,
			"error", err,
		)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "storage error"})
	}

	if result.Dropped {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "collection not provisioned"})
	}

	return c.JSON(http.StatusOK, UpsertDocumentResponse{
		Upserted:      result.UpsertedCount,
		SkippedChunks: result.SkippedChunks,
		Halted:        result.Halted,
	})
}

// ProvisionCollection registers a collection so records targeting it are
// accepted. Repeating the call is a no-op.
// (POST /v1/collections)
func (h *Handler) ProvisionCollection(c echo.Context) error {
	var req ProvisionCollectionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if err := utils.ValidateCollectionName(req.Name); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}
	if req.Dimension <= 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "dimension must be positive"})
	}

	if err := h.vectorStore.ProvisionCollection(c.Request().Context(), req.Name, req.Dimension); err != nil {
		h.logger.Error("failed to provision collection", "collection", req.Name, "error", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "storage error"})
	}

	return c.JSON(http.StatusCreated, map[string]string{"status": "provisioned"})
}

// CollectionStats reports the number of vectors stored in a collection.
// (GET /v1/collections/:name/stats)
func (h *Handler) CollectionStats(c echo.Context) error {
	name := c.Param("name")

	exists, err := h.vectorStore.CollectionExists(c.Request().Context(), name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "storage error"})
	}
	if !exists {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "collection not provisioned"})
	}

	count, err := h.vectorStore.CountVectors(c.Request().Context(), name)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "storage error"})
	}

	return c.JSON(http.StatusOK, CollectionStatsResponse{
		Collection: name,
		Vectors:    count,
	})
}

// Health is the liveness probe.
// (GET /health)
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

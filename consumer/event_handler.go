package consumer

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"embedding-indexer/domain"
	"embedding-indexer/usecase"
	appOtel "embedding-indexer/utils/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// EventTypeDocumentEmbeddings carries one DocumentRecord from the upstream
// embedding stage.
const EventTypeDocumentEmbeddings = "DocumentEmbeddings"

// ChunkPayload is the wire form of one chunk. A null or omitted vectors
// field decodes to a nil slice, an explicit [] to an empty one; the
// distinction is preserved into the domain payload.
type ChunkPayload struct {
	Chunk   string      `json:"chunk"`
	Vectors [][]float32 `json:"vectors"`
}

// DocumentEmbeddingsPayload is the wire form of a DocumentRecord.
type DocumentEmbeddingsPayload struct {
	UserID     string         `json:"user_id"`
	Collection string         `json:"collection"`
	DocumentID string         `json:"document_id"`
	Chunks     []ChunkPayload `json:"chunks"`
}

// ToDomain converts the wire payload into a validated DocumentRecord.
func (p *DocumentEmbeddingsPayload) ToDomain() (*domain.DocumentRecord, error) {
	chunks := make([]domain.ChunkRecord, 0, len(p.Chunks))
	for _, c := range p.Chunks {
		chunks = append(chunks, domain.NewChunkRecord(c.Chunk, domain.VectorPayloadOf(c.Vectors)))
	}
	return domain.NewDocumentRecord(p.UserID, p.Collection, p.DocumentID, chunks)
}

// EmbeddingsEventHandler forwards DocumentEmbeddings events to the store
// usecase. Malformed payloads are dropped with a log entry and acked;
// returning an error is reserved for store failures so redelivery only
// happens when a retry can succeed.
type EmbeddingsEventHandler struct {
	storeUsecase *usecase.StoreEmbeddingsUsecase
	logger       *slog.Logger
	// storeTimeout bounds a single record's trip to the store. Zero means
	// no bound beyond the consumer's context.
	storeTimeout time.Duration
}

// NewEmbeddingsEventHandler creates a new EmbeddingsEventHandler.
func NewEmbeddingsEventHandler(storeUsecase *usecase.StoreEmbeddingsUsecase, logger *slog.Logger, storeTimeout time.Duration) *EmbeddingsEventHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &EmbeddingsEventHandler{
		storeUsecase: storeUsecase,
		logger:       logger,
		storeTimeout: storeTimeout,
	}
}

// HandleEvent processes a single event.
func (h *EmbeddingsEventHandler) HandleEvent(ctx context.Context, event Event) error {
	switch event.EventType {
	case EventTypeDocumentEmbeddings:
		return h.handleDocumentEmbeddings(ctx, event)
	default:
		h.logger.Warn("unknown event type, skipping",
			"event_type", event.EventType,
			"event_id", event.EventID,
		)
		return nil
	}
}

func (h *EmbeddingsEventHandler) handleDocumentEmbeddings(ctx context.Context, event Event) error {
	var payload DocumentEmbeddingsPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		// Redelivery cannot fix a payload that does not decode; drop it.
		h.logger.Error("dropping undecodable DocumentEmbeddings payload",
			"event_id", event.EventID,
			"error", err,
		)
		recordError(ctx, "decode_payload")
		return nil
	}

	record, err := payload.ToDomain()
	if err != nil {
		h.logger.Warn("dropping invalid DocumentEmbeddings record",
			"event_id", event.EventID,
			"error", err,
		)
		recordError(ctx, "validate_record")
		return nil
	}

	if h.storeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.storeTimeout)
		defer cancel()
	}

	start := time.Now()
	result, err := h.storeUsecase.Execute(ctx, record)
	if err != nil {
		recordError(ctx, "store_embeddings")
		return err
	}
	recordStoreResult(ctx, result, time.Since(start))

	h.logger.Info("record processed",
		"document_id", record.DocumentID(),
		"collection", record.Collection(),
		"upserted", result.UpsertedCount,
		"skipped_chunks", result.SkippedChunks,
		"halted", result.Halted,
		"dropped", result.Dropped,
	)
	return nil
}

// recordStoreResult records metrics for one processed record.
func recordStoreResult(ctx context.Context, result *usecase.StoreResult, duration time.Duration) {
	m := appOtel.Metrics
	if m == nil {
		return
	}
	if result.UpsertedCount > 0 {
		m.VectorsUpserted.Add(ctx, int64(result.UpsertedCount))
	}
	if result.SkippedChunks > 0 {
		m.ChunksSkipped.Add(ctx, int64(result.SkippedChunks))
	}
	if result.Dropped {
		m.DocumentsDropped.Add(ctx, 1)
	}
	m.StoreDuration.Record(ctx, duration.Seconds())
}

// recordError records an error metric.
func recordError(ctx context.Context, operation string) {
	m := appOtel.Metrics
	if m == nil {
		return
	}
	m.ErrorsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("operation", operation)))
}

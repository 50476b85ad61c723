package otel

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds all OTel metric instruments for embedding-indexer.
var Metrics *EmbeddingIndexerMetrics

// EmbeddingIndexerMetrics contains all metric instruments.
type EmbeddingIndexerMetrics struct {
	VectorsUpserted  metric.Int64Counter
	ChunksSkipped    metric.Int64Counter
	DocumentsDropped metric.Int64Counter
	ErrorsTotal      metric.Int64Counter
	StoreDuration    metric.Float64Histogram
}

// InitMetrics initializes all metric instruments.
func InitMetrics() error {
	meter := otel.Meter("embedding-indexer")

	vectorsUpserted, err := meter.Int64Counter("embedding_indexer_vectors_upserted_total",
		metric.WithDescription("Total number of vectors upserted into the store"),
	)
	if err != nil {
		return err
	}

	chunksSkipped, err := meter.Int64Counter("embedding_indexer_chunks_skipped_total",
		metric.WithDescription("Total number of chunks skipped due to absent, empty or malformed vectors"),
	)
	if err != nil {
		return err
	}

	documentsDropped, err := meter.Int64Counter("embedding_indexer_documents_dropped_total",
		metric.WithDescription("Total number of records dropped for unprovisioned collections"),
	)
	if err != nil {
		return err
	}

	errorsTotal, err := meter.Int64Counter("embedding_indexer_errors_total",
		metric.WithDescription("Total number of errors"),
	)
	if err != nil {
		return err
	}

	storeDuration, err := meter.Float64Histogram("embedding_indexer_store_duration_seconds",
		metric.WithDescription("Per-record store processing duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return err
	}

	Metrics = &EmbeddingIndexerMetrics{
		VectorsUpserted:  vectorsUpserted,
		ChunksSkipped:    chunksSkipped,
		DocumentsDropped: documentsDropped,
		ErrorsTotal:      errorsTotal,
		StoreDuration:    storeDuration,
	}

	return nil
}

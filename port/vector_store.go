package port

import (
	"context"

	"embedding-indexer/domain"
)

// VectorStore is the downstream sink for validated embedding entries.
// UpsertVectors must be idempotent keyed by
// (collection, document ID, chunk index, vector index).
type VectorStore interface {
	CollectionExists(ctx context.Context, name string) (bool, error)
	ProvisionCollection(ctx context.Context, name string, dimension int) error
	UpsertVectors(ctx context.Context, entries []domain.EmbeddingEntry) error
	CountVectors(ctx context.Context, collection string) (int64, error)
}

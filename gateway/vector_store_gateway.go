package gateway

import (
	"context"

	"embedding-indexer/domain"
	"embedding-indexer/driver"
)

// VectorDriver is the driver-level surface the gateway forwards to.
type VectorDriver interface {
	EnsureSchema(ctx context.Context) error
	CollectionExists(ctx context.Context, name string) (bool, error)
	ProvisionCollection(ctx context.Context, name string, dimension int) error
	UpsertVectors(ctx context.Context, points []driver.VectorPointDriver) error
	CountVectors(ctx context.Context, collection string) (int64, error)
}

// VectorStoreGateway adapts the pgvector driver to the domain-facing
// port.VectorStore contract.
type VectorStoreGateway struct {
	driver VectorDriver
}

func NewVectorStoreGateway(driver VectorDriver) *VectorStoreGateway {
	return &VectorStoreGateway{
		driver: driver,
	}
}

// EnsureSchema prepares the underlying storage.
func (g *VectorStoreGateway) EnsureSchema(ctx context.Context) error {
	if err := g.driver.EnsureSchema(ctx); err != nil {
		return &domain.VectorStoreError{
			Op:  "EnsureSchema",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *VectorStoreGateway) CollectionExists(ctx context.Context, name string) (bool, error) {
	exists, err := g.driver.CollectionExists(ctx, name)
	if err != nil {
		return false, &domain.VectorStoreError{
			Op:  "CollectionExists",
			Err: err.Error(),
		}
	}
	return exists, nil
}

func (g *VectorStoreGateway) ProvisionCollection(ctx context.Context, name string, dimension int) error {
	if err := g.driver.ProvisionCollection(ctx, name, dimension); err != nil {
		return &domain.VectorStoreError{
			Op:  "ProvisionCollection",
			Err: err.Error(),
		}
	}
	return nil
}

func (g *VectorStoreGateway) UpsertVectors(ctx context.Context, entries []domain.EmbeddingEntry) error {
	if len(entries) == 0 {
		return nil
	}

	points := make([]driver.VectorPointDriver, len(entries))
	for i, e := range entries {
		points[i] = driver.VectorPointDriver{
			Collection:  e.Collection,
			DocumentID:  e.DocumentID,
			ChunkIndex:  e.ChunkIndex,
			VectorIndex: e.VectorIndex,
			UserID:      e.UserID,
			ChunkText:   e.ChunkText,
			Embedding:   e.Vector,
		}
	}

	if err := g.driver.UpsertVectors(ctx, points); err != nil {
		return &domain.VectorStoreError{
			Op:  "UpsertVectors",
			Err: err.Error(),
		}
	}

	return nil
}

func (g *VectorStoreGateway) CountVectors(ctx context.Context, collection string) (int64, error) {
	count, err := g.driver.CountVectors(ctx, collection)
	if err != nil {
		return 0, &domain.VectorStoreError{
			Op:  "CountVectors",
			Err: err.Error(),
		}
	}
	return count, nil
}

package driver

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
	pgxvector "github.com/pgvector/pgvector-go/pgx"
)

// PoolConfig holds tunable parameters for the PostgreSQL connection pool.
type PoolConfig struct {
	MaxConns int
	MinConns int
}

// NewPool creates a pgx connection pool with pgvector types registered on
// every connection.
func NewPool(ctx context.Context, dsn string, opts ...PoolConfig) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, &DriverError{Op: "NewPool", Err: "failed to parse config: " + err.Error()}
	}

	if len(opts) > 0 && opts[0].MaxConns > 0 {
		config.MaxConns = int32(opts[0].MaxConns)
	} else {
		config.MaxConns = 10
	}
	if len(opts) > 0 && opts[0].MinConns > 0 {
		config.MinConns = int32(opts[0].MinConns)
	} else {
		config.MinConns = 2
	}

	config.MaxConnLifetime = 1 * time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvector.RegisterTypes(ctx, conn)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, &DriverError{Op: "NewPool", Err: "failed to create pool: " + err.Error()}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, &DriverError{Op: "NewPool", Err: "failed to ping database: " + err.Error()}
	}

	return pool, nil
}

// PgVectorDriver stores embedding rows in PostgreSQL with the pgvector
// extension.
type PgVectorDriver struct {
	pool *pgxpool.Pool
	dim  int
}

func NewPgVectorDriver(pool *pgxpool.Pool, dim int) *PgVectorDriver {
	return &PgVectorDriver{
		pool: pool,
		dim:  dim,
	}
}

// EnsureSchema creates the extension, tables and index if they do not exist.
func (d *PgVectorDriver) EnsureSchema(ctx context.Context) error {
	if _, err := d.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return &DriverError{Op: "EnsureSchema", Err: "failed to create vector extension: " + err.Error()}
	}

	createCollections := `
		CREATE TABLE IF NOT EXISTS collections (
			name TEXT PRIMARY KEY,
			dimension INTEGER NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`
	if _, err := d.pool.Exec(ctx, createCollections); err != nil {
		return &DriverError{Op: "EnsureSchema", Err: "failed to create collections table: " + err.Error()}
	}

	createEmbeddings := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS embeddings (
			collection TEXT NOT NULL REFERENCES collections(name),
			document_id TEXT NOT NULL,
			chunk_index INTEGER NOT NULL,
			vector_index INTEGER NOT NULL,
			user_id TEXT,
			chunk_text TEXT,
			embedding vector(%d) NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL DEFAULT now(),
			PRIMARY KEY (collection, document_id, chunk_index, vector_index)
		)`, d.dim)
	if _, err := d.pool.Exec(ctx, createEmbeddings); err != nil {
		return &DriverError{Op: "EnsureSchema", Err: "failed to create embeddings table: " + err.Error()}
	}

	createIndex := `
		CREATE INDEX IF NOT EXISTS embeddings_embedding_idx
		ON embeddings
		USING ivfflat (embedding vector_cosine_ops)
		WITH (lists = 100)`
	if _, err := d.pool.Exec(ctx, createIndex); err != nil {
		return &DriverError{Op: "EnsureSchema", Err: "failed to create vector index: " + err.Error()}
	}

	return nil
}

func (d *PgVectorDriver) CollectionExists(ctx context.Context, name string) (bool, error) {
	var exists bool
	err := d.pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM collections WHERE name = $1)", name,
	).Scan(&exists)
	if err != nil {
		return false, &DriverError{Op: "CollectionExists", Err: err.Error()}
	}
	return exists, nil
}

// ProvisionCollection registers a collection. Repeating the call for an
// existing collection is a no-op.
func (d *PgVectorDriver) ProvisionCollection(ctx context.Context, name string, dimension int) error {
	_, err := d.pool.Exec(ctx, `
		INSERT INTO collections (name, dimension)
		VALUES ($1, $2)
		ON CONFLICT (name) DO NOTHING`,
		name, dimension,
	)
	if err != nil {
		return &DriverError{Op: "ProvisionCollection", Err: err.Error()}
	}
	return nil
}

// UpsertVectors writes all points in one transaction, one upsert per point.
// Replaying the same points overwrites the existing rows.
func (d *PgVectorDriver) UpsertVectors(ctx context.Context, points []VectorPointDriver) error {
	if len(points) == 0 {
		return nil
	}

	tx, err := d.pool.Begin(ctx)
	if err != nil {
		return &DriverError{Op: "UpsertVectors", Err: "failed to begin transaction: " + err.Error()}
	}
	defer tx.Rollback(ctx)

	stmt := `
		INSERT INTO embeddings (collection, document_id, chunk_index, vector_index, user_id, chunk_text, embedding, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, now())
		ON CONFLICT (collection, document_id, chunk_index, vector_index) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			chunk_text = EXCLUDED.chunk_text,
			embedding = EXCLUDED.embedding,
			updated_at = now()`

	for _, p := range points {
		_, err := tx.Exec(ctx, stmt,
			p.Collection,
			p.DocumentID,
			p.ChunkIndex,
			p.VectorIndex,
			p.UserID,
			p.ChunkText,
			pgvector.NewVector(p.Embedding),
		)
		if err != nil {
			return &DriverError{Op: "UpsertVectors", Err: "failed to upsert point: " + err.Error()}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &DriverError{Op: "UpsertVectors", Err: "failed to commit transaction: " + err.Error()}
	}

	return nil
}

func (d *PgVectorDriver) CountVectors(ctx context.Context, collection string) (int64, error) {
	var count int64
	err := d.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM embeddings WHERE collection = $1", collection,
	).Scan(&count)
	if err != nil {
		return 0, &DriverError{Op: "CountVectors", Err: err.Error()}
	}
	return count, nil
}

func (d *PgVectorDriver) Close() {
	if d.pool != nil {
		d.pool.Close()
	}
}

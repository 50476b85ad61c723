package usecase

import (
	"context"
	"log/slog"

	"embedding-indexer/domain"
	"embedding-indexer/port"
)

// EmptyChunkPolicy controls what happens when a chunk's text decodes to the
// empty string. The historical behavior of the upstream writer was to stop
// processing the whole record at that point; HaltOnEmptyChunk preserves it
// for compatibility, SkipEmptyChunk treats the chunk like any other
// malformed one.
type EmptyChunkPolicy int

const (
	HaltOnEmptyChunk EmptyChunkPolicy = iota
	SkipEmptyChunk
)

// Options tunes validation behavior.
type Options struct {
	// VectorDim is the expected embedding dimensionality. Zero disables the
	// dimension check.
	VectorDim int
	// EmptyChunkPolicy selects halt-vs-skip for empty chunk text.
	EmptyChunkPolicy EmptyChunkPolicy
}

// StoreEmbeddingsUsecase validates the chunks of one DocumentRecord and
// forwards the usable vectors to the vector store. Malformed chunks are
// skipped with a warning; only store failures propagate as errors.
type StoreEmbeddingsUsecase struct {
	store  port.VectorStore
	logger *slog.Logger
	opts   Options
}

// StoreResult reports what happened to one record.
type StoreResult struct {
	UpsertedCount int
	SkippedChunks int
	// Halted is true when an empty-text chunk stopped the record under
	// HaltOnEmptyChunk.
	Halted bool
	// Dropped is true when the whole record was discarded because its
	// collection is not provisioned.
	Dropped bool
}

func NewStoreEmbeddingsUsecase(store port.VectorStore, logger *slog.Logger, opts Options) *StoreEmbeddingsUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &StoreEmbeddingsUsecase{
		store:  store,
		logger: logger,
		opts:   opts,
	}
}

// Execute processes one record. It is safe to re-run on the same record:
// forwarding is keyed by (document ID, chunk index, vector index), so
// replays overwrite rather than duplicate.
func (u *StoreEmbeddingsUsecase) Execute(ctx context.Context, record *domain.DocumentRecord) (*StoreResult, error) {
	exists, err := u.store.CollectionExists(ctx, record.Collection())
	if err != nil {
		return nil, err
	}
	if !exists {
		u.logger.Warn("dropping record, collection not provisioned",
			"collection", record.Collection(),
			"document_id", record.DocumentID(),
		)
		return &StoreResult{Dropped: true}, nil
	}

	result := &StoreResult{}

	for i, chunk := range record.Chunks() {
		if chunk.Text() == "" {
			if u.opts.EmptyChunkPolicy == HaltOnEmptyChunk {
				u.logger.Warn("empty chunk text, halting record",
					"document_id", record.DocumentID(),
					"chunk_index", i,
				)
				result.Halted = true
				return result, nil
			}
			u.logger.Warn("skipping chunk with empty text",
				"document_id", record.DocumentID(),
				"chunk_index", i,
			)
			result.SkippedChunks++
			continue
		}

		switch chunk.Vectors().State() {
		case domain.VectorsMissing:
			u.logger.Warn("skipping chunk, vectors absent",
				"document_id", record.DocumentID(),
				"chunk_index", i,
				"text_preview", chunk.TextPreview(),
			)
			result.SkippedChunks++
			continue
		case domain.VectorsEmpty:
			u.logger.Warn("skipping chunk, vectors empty",
				"document_id", record.DocumentID(),
				"chunk_index", i,
				"text_preview", chunk.TextPreview(),
			)
			result.SkippedChunks++
			continue
		}

		if dim, ok := u.mismatchedDimension(chunk); ok {
			u.logger.Warn("skipping chunk, vector dimension mismatch",
				"document_id", record.DocumentID(),
				"chunk_index", i,
				"want_dim", u.opts.VectorDim,
				"got_dim", dim,
				"text_preview", chunk.TextPreview(),
			)
			result.SkippedChunks++
			continue
		}

		entries := domain.NewEmbeddingEntries(record, i, chunk)
		if err := u.store.UpsertVectors(ctx, entries); err != nil {
			return nil, err
		}
		result.UpsertedCount += len(entries)
	}

	return result, nil
}

// mismatchedDimension reports the first vector length that disagrees with
// the configured dimensionality.
func (u *StoreEmbeddingsUsecase) mismatchedDimension(chunk domain.ChunkRecord) (int, bool) {
	if u.opts.VectorDim == 0 {
		return 0, false
	}
	for _, v := range chunk.Vectors().Vectors() {
		if len(v) != u.opts.VectorDim {
			return len(v), true
		}
	}
	return 0, false
}

package domain

// EmbeddingEntry is one vector ready to be forwarded to the vector store,
// keyed so that repeating the same forward is a no-op downstream.
type EmbeddingEntry struct {
	Collection  string
	DocumentID  string
	ChunkIndex  int
	VectorIndex int
	UserID      string
	ChunkText   string
	Vector      Vector
}

// NewEmbeddingEntries builds the forwardable entries for one chunk of a
// record. The caller has already established that the payload is Present.
func NewEmbeddingEntries(record *DocumentRecord, chunkIndex int, chunk ChunkRecord) []EmbeddingEntry {
	vectors := chunk.Vectors().Vectors()
	entries := make([]EmbeddingEntry, 0, len(vectors))
	for i, v := range vectors {
		entries = append(entries, EmbeddingEntry{
			Collection:  record.Collection(),
			DocumentID:  record.DocumentID(),
			ChunkIndex:  chunkIndex,
			VectorIndex: i,
			UserID:      record.UserID(),
			ChunkText:   chunk.Text(),
			Vector:      v,
		})
	}
	return entries
}

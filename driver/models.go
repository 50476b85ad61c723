package driver

// VectorPointDriver is one row to upsert into the embeddings table.
type VectorPointDriver struct {
	Collection  string
	DocumentID  string
	ChunkIndex  int
	VectorIndex int
	UserID      string
	ChunkText   string
	Embedding   []float32
}

// DriverError represents an error from the driver layer
type DriverError struct {
	Op  string
	Err string
}

func (e *DriverError) Error() string {
	return e.Op + ": " + e.Err
}

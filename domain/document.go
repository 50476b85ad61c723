package domain

import (
	"errors"
	"unicode/utf8"
)

// previewLen bounds the chunk text excerpt attached to warning logs.
const previewLen = 40

// ChunkRecord is one unit of source text together with the embedding
// vectors generated for it. It is immutable once created.
type ChunkRecord struct {
	text    string
	vectors VectorPayload
}

func NewChunkRecord(text string, vectors VectorPayload) ChunkRecord {
	return ChunkRecord{
		text:    text,
		vectors: vectors,
	}
}

func (c ChunkRecord) Text() string {
	return c.text
}

func (c ChunkRecord) Vectors() VectorPayload {
	return c.vectors
}

// TextPreview returns a short excerpt of the chunk text suitable for log
// attributes.
func (c ChunkRecord) TextPreview() string {
	if utf8.RuneCountInString(c.text) <= previewLen {
		return c.text
	}
	runes := []rune(c.text)
	return string(runes[:previewLen]) + "..."
}

// DocumentRecord groups the chunks of one source document with the metadata
// identifying where their vectors belong.
type DocumentRecord struct {
	userID     string
	collection string
	documentID string
	chunks     []ChunkRecord
}

func NewDocumentRecord(userID, collection, documentID string, chunks []ChunkRecord) (*DocumentRecord, error) {
	if collection == "" {
		return nil, errors.New("collection cannot be empty")
	}
	if documentID == "" {
		return nil, errors.New("document ID cannot be empty")
	}

	return &DocumentRecord{
		userID:     userID,
		collection: collection,
		documentID: documentID,
		chunks:     chunks,
	}, nil
}

func (d *DocumentRecord) UserID() string {
	return d.userID
}

func (d *DocumentRecord) Collection() string {
	return d.collection
}

func (d *DocumentRecord) DocumentID() string {
	return d.documentID
}

func (d *DocumentRecord) Chunks() []ChunkRecord {
	return d.chunks
}

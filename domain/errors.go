package domain

import "errors"

// ErrUnknownCollection indicates the record names a collection that was
// never provisioned. Records hitting it are dropped, not retried.
var ErrUnknownCollection = errors.New("collection not provisioned")

// VectorStoreError represents an error from the vector store layer.
type VectorStoreError struct {
	Op  string
	Err string
}

func (e *VectorStoreError) Error() string {
	return e.Op + ": " + e.Err
}

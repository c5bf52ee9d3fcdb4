package binstore

import (
	"errors"
	"fmt"
)

var (
	// ErrStoreUnavailable means the store root could not be created or accessed.
	ErrStoreUnavailable = errors.New("binstore: store unavailable")

	// ErrStoreUninitialized means an operation required an existing store root.
	ErrStoreUninitialized = errors.New("binstore: store not initialized")

	// ErrBlobNotFound means no blob exists under the requested digest.
	ErrBlobNotFound = errors.New("binstore: blob not found")
)

// SignatureConflictError reports two different-sized contents mapping to
// the same digest. The store cannot treat them as identical, so the batch
// that hit the conflict is aborted.
type SignatureConflictError struct {
	Path      string
	Digest    string
	StoreSize int64
	PathSize  int64
}

func (e *SignatureConflictError) Error() string {
	return fmt.Sprintf("signature conflict on %s: blob %s has %d bytes in store, %d bytes on disk",
		e.Path, e.Digest, e.StoreSize, e.PathSize)
}

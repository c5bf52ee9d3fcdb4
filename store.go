package binstore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// blobStore is a flat directory keyed by digest: one file per blob, named
// exactly by its digest, no subdirectories and no metadata sidecars. Blobs
// are written once and never mutated or deleted.
type blobStore struct {
	root string
}

// BlobInfo describes one stored blob.
type BlobInfo struct {
	Digest string
	Size   int64
}

// EnsureRoot creates the store directory if it is absent. Idempotent.
func (s *blobStore) EnsureRoot() error {
	if err := mkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrStoreUnavailable, s.root, err)
	}
	return nil
}

// RootExists reports whether the store directory is present.
func (s *blobStore) RootExists() bool {
	fi, err := os.Stat(s.root)
	return err == nil && fi.IsDir()
}

// Exists reports whether a blob is present under digest.
func (s *blobStore) Exists(digest string) bool {
	fi, err := os.Stat(s.Path(digest))
	return err == nil && fi.Mode().IsRegular()
}

// SizeOf returns the byte length of the blob stored under digest.
func (s *blobStore) SizeOf(digest string) (int64, error) {
	fi, err := os.Stat(s.Path(digest))
	if err != nil {
		if os.IsNotExist(err) {
			return 0, fmt.Errorf("%w: %s", ErrBlobNotFound, digest)
		}
		return 0, fmt.Errorf("stat blob %s: %w", digest, err)
	}
	return fi.Size(), nil
}

// Put copies sourcePath's bytes into the store under digest and marks the
// blob read-only, so writes through a working-tree link bounce off instead
// of corrupting the store. A blob that is already present with the same
// size is left untouched; a blob present with a different size is a
// signature conflict and Put refuses to write. Crash safety is the
// caller's job via the backup protocol.
func (s *blobStore) Put(digest, sourcePath string) error {
	src, err := os.Stat(sourcePath)
	if err != nil {
		return fmt.Errorf("stat %s: %w", sourcePath, err)
	}

	if size, err := s.SizeOf(digest); err == nil {
		if size != src.Size() {
			return &SignatureConflictError{
				Path:      sourcePath,
				Digest:    digest,
				StoreSize: size,
				PathSize:  src.Size(),
			}
		}
		return nil
	}

	if err := copyFile(sourcePath, s.Path(digest)); err != nil {
		return fmt.Errorf("store blob %s: %w", digest, err)
	}
	if err := chmodOp(s.Path(digest), 0o444); err != nil {
		return fmt.Errorf("protect blob %s: %w", digest, err)
	}
	return nil
}

// Path returns the filesystem location of the blob for digest.
func (s *blobStore) Path(digest string) string {
	return filepath.Join(s.root, digest)
}

// List returns every blob in the store, sorted by digest.
func (s *blobStore) List() ([]BlobInfo, error) {
	if !s.RootExists() {
		return nil, fmt.Errorf("%w: %s", ErrStoreUninitialized, s.root)
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("read store %s: %w", s.root, err)
	}

	blobs := make([]BlobInfo, 0, len(entries))
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			return nil, fmt.Errorf("stat blob %s: %w", entry.Name(), err)
		}
		blobs = append(blobs, BlobInfo{Digest: entry.Name(), Size: info.Size()})
	}

	sort.Slice(blobs, func(i, j int) bool { return blobs[i].Digest < blobs[j].Digest })
	return blobs, nil
}

package binstore

import (
	"fmt"
	"io"
	"os"

	"github.com/zeebo/xxh3"
)

// Digest computes the content identity of r: xxh3-128 over the full byte
// stream, rendered as 32 lower-case hex characters. It is a deterministic
// content-equality heuristic, not a cryptographic boundary; callers must
// pair it with a size check before treating two digests as equal content.
func Digest(r io.Reader) (string, error) {
	h := xxh3.New()
	if _, err := io.Copy(h, r); err != nil {
		return "", fmt.Errorf("digest content: %w", err)
	}
	sum := h.Sum128().Bytes()
	return fmt.Sprintf("%x", sum), nil
}

// DigestFile digests the full content of the file at path. Symlinks are
// followed, so digesting a linked path yields the digest of its blob.
func DigestFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Digest(f)
}

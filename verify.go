package binstore

import (
	"context"
	"fmt"
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// Verify re-digests every blob in the store and returns the digests whose
// filename no longer matches their content. Blobs are checked in parallel;
// concurrency <= 0 means one worker per CPU.
func (e *Engine) Verify(ctx context.Context, concurrency int) ([]string, error) {
	blobs, err := e.store.List()
	if err != nil {
		return nil, err
	}
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
	}

	p := pool.NewWithResults[string]().WithContext(ctx).WithMaxGoroutines(concurrency)
	for _, blob := range blobs {
		p.Go(func(ctx context.Context) (string, error) {
			actual, err := DigestFile(e.store.Path(blob.Digest))
			if err != nil {
				return "", fmt.Errorf("verify %s: %w", blob.Digest, err)
			}
			if actual != blob.Digest {
				return blob.Digest, nil
			}
			return "", nil
		})
	}

	checked, err := p.Wait()
	if err != nil {
		return nil, err
	}

	var corrupt []string
	for _, digest := range checked {
		if digest != "" {
			corrupt = append(corrupt, digest)
		}
	}
	return corrupt, nil
}

package storage

import (
	"context"
	"io"
	"time"
)

// BlobStorage is an S3-compatible object store client. Implementations rely
// on streaming I/O only and must be safe for concurrent use.
type BlobStorage interface {
	// Put uploads content under the given key.
	Put(ctx context.Context, key string, r io.Reader, size int64) error
	// Get retrieves the content under the given key.
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes the object. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a time-limited URL for downloading the object
	// without credentials.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
}

package storage

import (
	"context"
	"io"
	"time"
)

// ObjectStore persists raw document bytes. The document core only records
// storage keys; resolving them is the store's job.
type ObjectStore interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	PresignedURL(ctx context.Context, key string, expires time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

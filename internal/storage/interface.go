package storage

import (
	"context"
	"io"
)

// ObjectStorage is the object store raw provider payloads are archived to.
type ObjectStorage interface {
	// Upload writes an object, replacing any existing one under key.
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error

	// Exists reports whether key is present.
	Exists(ctx context.Context, key string) (bool, error)

	// GetURL returns the URL an object is reachable under.
	GetURL(key string) string
}

package storage

import (
	"context"
	"io"
	"time"
)

// Storage abstracts where uploaded attachments live. The chat hub only
// ever sees the URL returned by GetURL; it never reads attachment bytes.
type Storage interface {
	// Write stores content from the reader under the given key.
	// size is the expected content size (-1 if unknown).
	Write(ctx context.Context, key string, r io.Reader, size int64, contentType string) error

	// Read retrieves content for the given key.
	// The caller is responsible for closing the returned ReadCloser.
	Read(ctx context.Context, key string) (io.ReadCloser, error)

	// Exists checks if content with the given key exists.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the content with the given key.
	Delete(ctx context.Context, key string) error

	// GetURL returns a URL for accessing the content.
	// For local storage this is a server-relative path; for S3 a
	// presigned URL valid for the specified duration.
	GetURL(ctx context.Context, key string, expires time.Duration) (string, error)
}

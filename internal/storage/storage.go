// Package storage holds the byte stores behind chat attachments and
// product images.
package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("object not found")

// Storage stores opaque objects by key.
type Storage interface {
	// Write stores r under key and returns the number of bytes written.
	Write(ctx context.Context, key string, r io.Reader, contentType string) (int64, error)

	// Open returns the content stored under key. The caller closes it.
	// Missing keys yield an error wrapping ErrObjectNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

package blobstore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations return an error satisfying errors.Is(err, ErrNotFound).
var ErrNotFound = errors.New("blobstore: blob not found")

// Store is an abstraction for persisting immutable blobs (serialized
// distance handles, quantized code blocks).
type Store interface {
	// Open opens an existing blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a new blob for streaming writes.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a blob atomically.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix, sorted.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a stored blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader over [off, off+length).
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)

	// Size returns the blob size in bytes.
	Size() int64

	io.Closer
}

// WritableBlob is a streaming write handle. The blob becomes visible
// once Close returns nil.
type WritableBlob interface {
	io.Writer

	// Sync flushes buffered data to stable storage where applicable.
	Sync() error

	io.Closer
}

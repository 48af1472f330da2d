package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies `errors.Is(err, ErrNotFound)`.
// The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// ErrConflict is returned by conditional writes (see for example
// s3.ExpressStore.PutIfNotExists) when the blob already exists.
var ErrConflict = errors.New("blob already exists")

// BlobStore is an abstraction for reading and writing immutable data blobs
// (snapshots, manifests). Implementations must be safe for concurrent use.
type BlobStore interface {
	// Open opens a blob for reading.
	Open(ctx context.Context, name string) (Blob, error)

	// Create creates a writable blob. The blob becomes visible under
	// name once Close returns.
	Create(ctx context.Context, name string) (WritableBlob, error)

	// Put writes a blob atomically. Readers see either the previous
	// content or the full new content, never a partial write.
	Put(ctx context.Context, name string, data []byte) error

	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all blobs with the given prefix.
	List(ctx context.Context, prefix string) ([]string, error)
}

// Blob is a read-only handle to a data blob.
type Blob interface {
	// ReadAt reads len(p) bytes starting at off. It returns io.EOF
	// when the read reaches past the end of the blob.
	ReadAt(ctx context.Context, p []byte, off int64) (int, error)

	// ReadRange returns a reader over [off, off+length). The range is
	// clamped to the blob size. Close the reader before closing the
	// blob.
	ReadRange(ctx context.Context, off, length int64) (io.ReadCloser, error)

	// Size returns the size of the blob in bytes.
	Size() int64

	// Close releases the handle.
	Close() error
}

// WritableBlob is a write-once handle created by BlobStore.Create.
type WritableBlob interface {
	io.Writer

	// Sync flushes buffered writes to stable storage where the backend
	// supports it.
	Sync() error

	// Close finalizes the blob and makes it visible in the store.
	Close() error
}

// ReadAll reads the full content of the named blob.
func ReadAll(ctx context.Context, store BlobStore, name string) ([]byte, error) {
	blob, err := store.Open(ctx, name)
	if err != nil {
		return nil, err
	}
	defer blob.Close()

	data := make([]byte, blob.Size())
	if len(data) == 0 {
		return data, nil
	}

	n, err := blob.ReadAt(ctx, data, 0)
	if err != nil && !(err == io.EOF && n == len(data)) {
		return nil, fmt.Errorf("read blob %q: %w", name, err)
	}
	if n != len(data) {
		return nil, fmt.Errorf("read blob %q: short read %d of %d bytes", name, n, len(data))
	}

	return data, nil
}

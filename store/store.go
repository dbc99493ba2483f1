package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Read for a missing path.
var ErrNotFound = errors.New("store: object not found")

// Entry is one listed object.
type Entry struct {
	Path     string
	Modified time.Time
}

// ObjectStore is the durable blob-storage contract the pipeline runs
// against. Writes are whole-object overwrites; no partial-write or
// transactional semantics are assumed.
type ObjectStore interface {
	// List returns all objects whose path starts with prefix, sorted by path.
	List(ctx context.Context, prefix string) ([]Entry, error)
	Read(ctx context.Context, path string) ([]byte, error)
	Write(ctx context.Context, path string, data []byte) error
	// EnsureDir prepares a path prefix for writes. Backends without
	// directories treat it as a no-op.
	EnsureDir(ctx context.Context, prefix string) error
}

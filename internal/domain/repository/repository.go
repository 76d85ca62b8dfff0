// Package repository defines the interfaces for the persistence layer.
// Both the relational and the document backend implement every interface here
// with identical semantics, so callers never branch on the active backend.
package repository

import (
	"context"
	"errors"
)

var (
	// ErrNotFound is returned when a lookup matches no live record.
	ErrNotFound = errors.New("record not found")

	// ErrUnavailable marks failures caused by the backend being unreachable
	// rather than by the record itself.
	ErrUnavailable = errors.New("backend unavailable")
)

// Record is one item read by a migration scan. Err is set when the stored
// shape could not be decoded into the entity; Value is nil in that case.
type Record[T any] struct {
	ID    string
	Value *T
	Err   error
}

// Pager streams a collection in fixed-size pages.
type Pager[T any] interface {
	// Next returns the next page in source order, or io.EOF once the scan is exhausted.
	Next(ctx context.Context) ([]Record[T], error)

	// Close releases any cursor held by the pager.
	Close()
}

// Resumable is implemented by pagers that can step over a page they failed
// to read. Skip advances past the page and describes where it was.
type Resumable interface {
	Skip() string
}

type copyWriteKey struct{}

// WithCopyWrites marks saves on ctx as copies of records from another store:
// their audit timestamps are kept instead of advanced.
func WithCopyWrites(ctx context.Context) context.Context {
	return context.WithValue(ctx, copyWriteKey{}, true)
}

// IsCopyWrite reports whether ctx was marked by WithCopyWrites.
func IsCopyWrite(ctx context.Context) bool {
	copied, _ := ctx.Value(copyWriteKey{}).(bool)

	return copied
}

// Store is the contract shared by every entity repository.
type Store[T any] interface {
	// Save writes the entity by id, inserting or replacing it.
	Save(ctx context.Context, v *T) error

	// FindByID returns the live entity with the given id.
	FindByID(ctx context.Context, id string) (*T, error)

	// Delete soft-deletes the entity.
	Delete(ctx context.Context, id string) error

	// Count returns the number of stored records, soft-deleted ones included.
	Count(ctx context.Context) (int64, error)

	// Scan pages through every stored record, soft-deleted ones included.
	Scan(ctx context.Context, pageSize int) Pager[T]
}

// HealthChecker reports whether a backend is reachable.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

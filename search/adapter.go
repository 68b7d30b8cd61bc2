// Package search implements incremental, query-driven pagination over arbitrary backends.
package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/samber/mo"
)

// ErrUnsupported is returned when a session is asked to do something its backend forbids.
var ErrUnsupported = fmt.Errorf("search: %w", errors.ErrUnsupported)

// Page is the outcome of a single backend fetch.
type Page[T any] struct {
	Items []T

	// HasNext must be false whenever the backend returned fewer items than
	// it asked for, or its own pagination metadata says nothing follows.
	HasNext bool

	// Skipped counts backend items consumed by the fetch but left out of
	// Items. Offset cursors advance past them too.
	Skipped int
}

// Adapter is the backend-specific fetch primitive every session is built on.
type Adapter[T any] interface {
	// Search fetches one page of query starting at cursor.
	// The meaning of cursor (page number or item offset) is fixed by the session's Cursor.
	Search(ctx context.Context, query string, cursor int) (Page[T], error)
}

// AdapterFunc lets a plain function act as an Adapter.
type AdapterFunc[T any] func(ctx context.Context, query string, cursor int) (Page[T], error)

// Search implements Adapter.
func (f AdapterFunc[T]) Search(ctx context.Context, query string, cursor int) (Page[T], error) {
	return f(ctx, query, cursor)
}

// Inserter is implemented by adapters whose backend accepts direct inserts.
type Inserter[T any] interface {
	AddItems(ctx context.Context, items ...T) error
}

// KeyFunc extracts the identity of an entity for de-duplication.
// It returns mo.None when the entity carries no usable key.
type KeyFunc[T any, K comparable] func(T) mo.Option[K]

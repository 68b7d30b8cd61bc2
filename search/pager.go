package search

import (
	"context"

	"github.com/thrombe/kolekk/log"
)

// Pager is the contract shared by the base pager and every behavior layer stacked on it.
type Pager[T any] interface {
	// NextPage fetches the page at the current cursor.
	// It returns an empty slice without touching the backend once the query is exhausted.
	NextPage(ctx context.Context) ([]T, error)

	// FirstPage fetches the page at the start of the cursor regardless of exhaustion.
	// Cursor and exhaustion state are only replaced when the fetch succeeds.
	FirstPage(ctx context.Context) ([]T, error)

	// ResetSearch clears the query, the cursor, the exhaustion flag and any layer state.
	ResetSearch()

	// Bind sets the query used by subsequent fetches.
	Bind(query string)

	Query() string
	HasNextPage() bool
	Cursor() int
}

// base binds an Adapter to a Cursor. It is the innermost Pager of every session.
type base[T any] struct {
	adapter Adapter[T]
	cursor  Cursor
	query   string
	hasNext bool
}

func newBase[T any](adapter Adapter[T], cursor Cursor) *base[T] {
	return &base[T]{
		adapter: adapter,
		cursor:  cursor,
		hasNext: true,
	}
}

func (b *base[T]) NextPage(ctx context.Context) ([]T, error) {
	if !b.hasNext {
		return []T{}, nil
	}

	page, err := b.adapter.Search(ctx, b.query, b.cursor.Position())
	if err != nil {
		return nil, err
	}

	b.cursor.Advance(len(page.Items) + page.Skipped)
	b.hasNext = page.HasNext
	log.Debugf("fetched %d items for %q, cursor now %d, more: %t", len(page.Items), b.query, b.cursor.Position(), b.hasNext)
	return nonNil(page.Items), nil
}

func (b *base[T]) FirstPage(ctx context.Context) ([]T, error) {
	page, err := b.adapter.Search(ctx, b.query, b.cursor.Start())
	if err != nil {
		return nil, err
	}

	b.cursor.Reset()
	b.cursor.Advance(len(page.Items) + page.Skipped)
	b.hasNext = page.HasNext
	log.Debugf("refetched first %d items for %q, more: %t", len(page.Items), b.query, b.hasNext)
	return nonNil(page.Items), nil
}

func (b *base[T]) ResetSearch() {
	b.query = ""
	b.hasNext = true
	b.cursor.Reset()
}

func (b *base[T]) Bind(query string) { b.query = query }
func (b *base[T]) Query() string     { return b.query }
func (b *base[T]) HasNextPage() bool { return b.hasNext }
func (b *base[T]) Cursor() int       { return b.cursor.Position() }

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}

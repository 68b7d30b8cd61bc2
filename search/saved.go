package search

import (
	"context"
	"slices"
)

// Saved accumulates fetched pages into one ordered result list.
//
// While the list is valid every NextPage appends the next increment. Once
// invalidated (or before the first fetch) NextPage fetches the first page
// again and replaces the list. A failed fetch leaves the list, its validity
// and the pager below untouched.
type Saved[T any] struct {
	inner    Pager[T]
	results  []T
	valid    bool
	onUpdate func()
}

// NewSaved wraps inner with a cumulative result cache.
func NewSaved[T any](inner Pager[T]) *Saved[T] {
	return &Saved[T]{
		inner:    inner,
		results:  []T{},
		onUpdate: func() {},
	}
}

func (s *Saved[T]) NextPage(ctx context.Context) ([]T, error) {
	if !s.valid {
		return s.FirstPage(ctx)
	}

	items, err := s.inner.NextPage(ctx)
	if err != nil {
		return nil, err
	}

	s.results = append(s.results, items...)
	s.onUpdate()
	return items, nil
}

func (s *Saved[T]) FirstPage(ctx context.Context) ([]T, error) {
	items, err := s.inner.FirstPage(ctx)
	if err != nil {
		return nil, err
	}

	s.results = slices.Clone(items)
	s.valid = true
	s.onUpdate()
	return items, nil
}

func (s *Saved[T]) ResetSearch() {
	s.inner.ResetSearch()
	s.results = []T{}
	s.valid = false
}

// Invalidate marks the accumulated results stale without dropping them.
// The next NextPage refetches from the first page and replaces them.
func (s *Saved[T]) Invalidate() { s.valid = false }

// Results returns the accumulated results. The slice must not be modified.
func (s *Saved[T]) Results() []T { return s.results }

// Valid reports whether Results reflect a completed fetch for the current query.
func (s *Saved[T]) Valid() bool { return s.valid }

// OnUpdate replaces the callback fired after every successful fetch.
// A nil callback restores the no-op default.
func (s *Saved[T]) OnUpdate(fn func()) {
	if fn == nil {
		fn = func() {}
	}
	s.onUpdate = fn
}

func (s *Saved[T]) Bind(query string) { s.inner.Bind(query) }
func (s *Saved[T]) Query() string     { return s.inner.Query() }
func (s *Saved[T]) HasNextPage() bool { return s.inner.HasNextPage() }
func (s *Saved[T]) Cursor() int       { return s.inner.Cursor() }

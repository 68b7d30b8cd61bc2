package search

import (
	"context"
	"fmt"

	"github.com/thrombe/kolekk/log"
)

// Layer decorates a Pager with one extra behavior.
type Layer[T any] func(Pager[T]) Pager[T]

// Session is one independent, stateful search bound to a single adapter.
//
// Calls pass through a fixed pipeline, outermost first:
//
//	query-apply (Session) -> result cache (Saved) -> layers (e.g. Unique) -> cursor + adapter
//
// A Session is not safe for concurrent use; callers serialize NextPage and SetQuery.
type Session[T any] struct {
	adapter Adapter[T]
	saved   *Saved[T]
}

// New assembles a session over adapter. Layers are applied innermost first,
// and the result cache always sits on top of them.
func New[T any](adapter Adapter[T], cursor Cursor, layers ...Layer[T]) *Session[T] {
	var p Pager[T] = newBase(adapter, cursor)
	for _, layer := range layers {
		p = layer(p)
	}

	return &Session[T]{
		adapter: adapter,
		saved:   NewSaved(p),
	}
}

// SetQuery resets the session, binds q and fetches its first page.
func (s *Session[T]) SetQuery(ctx context.Context, q string) ([]T, error) {
	s.ResetSearch()
	s.saved.Bind(q)
	return s.NextPage(ctx)
}

// NextPage fetches the next increment and adds it to Results.
// After Invalidate it refetches the first page and replaces Results instead.
func (s *Session[T]) NextPage(ctx context.Context) ([]T, error) {
	items, err := s.saved.NextPage(ctx)
	if err != nil {
		return nil, fmt.Errorf("next page of %q: %w", s.saved.Query(), err)
	}
	return items, nil
}

// ResetSearch clears query, cursor, seen keys and cached results at once.
func (s *Session[T]) ResetSearch() {
	s.saved.ResetSearch()
}

// Invalidate marks cached results stale, e.g. after the backing store changed.
// Seen keys survive it, so on a de-duplicating session the refetched first
// page drops everything already listed. Use SetQuery(Query()) there instead.
func (s *Session[T]) Invalidate() {
	s.saved.Invalidate()
}

// Insert adds items to the backing store and invalidates cached results.
// Backends that forbid direct inserts yield ErrUnsupported.
func (s *Session[T]) Insert(ctx context.Context, items ...T) error {
	inserter, ok := s.adapter.(Inserter[T])
	if !ok {
		err := fmt.Errorf("%w: %T does not accept inserts", ErrUnsupported, s.adapter)
		log.Error(err)
		return err
	}

	if err := inserter.AddItems(ctx, items...); err != nil {
		return fmt.Errorf("insert %d items: %w", len(items), err)
	}

	s.saved.Invalidate()
	return nil
}

// OnUpdate registers a callback fired once after every successful NextPage or SetQuery.
func (s *Session[T]) OnUpdate(fn func()) {
	s.saved.OnUpdate(fn)
}

// Results returns every entity fetched since the last reset, in fetch order.
func (s *Session[T]) Results() []T { return s.saved.Results() }

// Valid reports whether Results reflect a completed fetch for the current query.
func (s *Session[T]) Valid() bool { return s.saved.Valid() }

func (s *Session[T]) Query() string     { return s.saved.Query() }
func (s *Session[T]) HasNextPage() bool { return s.saved.HasNextPage() }
func (s *Session[T]) Cursor() int       { return s.saved.Cursor() }

package search

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/samber/mo"
)

type item struct {
	ID    int
	Query string
}

func itemKey(i item) mo.Option[int] {
	if i.ID < 0 {
		return mo.None[int]()
	}
	return mo.Some(i.ID)
}

var errBackend = errors.New("backend down")

// catalog serves `total` items per query in slices of `limit`.
type catalog struct {
	mu      sync.Mutex
	total   map[string]int
	limit   int
	paged   bool
	start   int
	calls   []int
	fail    bool
	latency map[string]time.Duration
}

func newCatalog(limit int, paged bool, start int) *catalog {
	return &catalog{
		total:   make(map[string]int),
		limit:   limit,
		paged:   paged,
		start:   start,
		latency: make(map[string]time.Duration),
	}
}

func (c *catalog) Search(ctx context.Context, query string, cursor int) (Page[item], error) {
	c.mu.Lock()
	c.calls = append(c.calls, cursor)
	fail := c.fail
	wait := c.latency[query]
	total := c.total[query]
	c.mu.Unlock()

	if wait > 0 {
		select {
		case <-ctx.Done():
			return Page[item]{}, ctx.Err()
		case <-time.After(wait):
		}
	}

	if fail {
		return Page[item]{}, errBackend
	}

	from := cursor
	if c.paged {
		from = (cursor - c.start) * c.limit
	}

	var items []item
	for i := from; i < total && len(items) < c.limit; i++ {
		items = append(items, item{ID: i, Query: query})
	}
	return Page[item]{Items: items, HasNext: len(items) == c.limit}, nil
}

func (c *catalog) callCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.calls)
}

// scripted returns fixed pages in order, regardless of query.
type scripted struct {
	pages [][]item
	next  int
}

func (s *scripted) Search(_ context.Context, _ string, _ int) (Page[item], error) {
	if s.next >= len(s.pages) {
		return Page[item]{}, nil
	}
	p := s.pages[s.next]
	s.next++
	return Page[item]{Items: p, HasNext: s.next < len(s.pages)}, nil
}

type insertable struct {
	*catalog
	added []item
}

func (i *insertable) AddItems(_ context.Context, items ...item) error {
	i.added = append(i.added, items...)
	i.total[""] += len(items)
	return nil
}

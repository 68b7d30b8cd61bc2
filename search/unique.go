package search

import (
	"context"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/log"
)

// Unique drops entities whose key was already seen since the last reset.
// It sits between the backend and the result cache, so the cache never holds duplicates.
type Unique[T any, K comparable] struct {
	inner Pager[T]
	key   KeyFunc[T, K]
	seen  map[K]struct{}
}

// NewUnique wraps inner with key-based de-duplication.
func NewUnique[T any, K comparable](inner Pager[T], key KeyFunc[T, K]) *Unique[T, K] {
	return &Unique[T, K]{
		inner: inner,
		key:   key,
		seen:  make(map[K]struct{}),
	}
}

// Dedup is the Layer form of NewUnique.
func Dedup[T any, K comparable](key KeyFunc[T, K]) Layer[T] {
	return func(inner Pager[T]) Pager[T] {
		return NewUnique(inner, key)
	}
}

func (u *Unique[T, K]) NextPage(ctx context.Context) ([]T, error) {
	items, err := u.inner.NextPage(ctx)
	if err != nil {
		return nil, err
	}
	return u.filter(items), nil
}

func (u *Unique[T, K]) FirstPage(ctx context.Context) ([]T, error) {
	items, err := u.inner.FirstPage(ctx)
	if err != nil {
		return nil, err
	}
	return u.filter(items), nil
}

func (u *Unique[T, K]) filter(items []T) []T {
	before := len(items)
	kept := lo.Filter(items, func(item T, _ int) bool {
		k, ok := u.key(item).Get()
		if !ok {
			log.Warnf("item has no key, keeping it: %+v", item)
			return true
		}

		if _, dup := u.seen[k]; dup {
			return false
		}
		u.seen[k] = struct{}{}
		return true
	})

	if dropped := before - len(kept); dropped > 0 {
		log.Debugf("dropped %d duplicate items", dropped)
	}
	return kept
}

func (u *Unique[T, K]) ResetSearch() {
	u.inner.ResetSearch()
	u.seen = make(map[K]struct{})
}

// Seen reports how many distinct keys were accepted since the last reset.
func (u *Unique[T, K]) Seen() int { return len(u.seen) }

func (u *Unique[T, K]) Bind(query string) { u.inner.Bind(query) }
func (u *Unique[T, K]) Query() string     { return u.inner.Query() }
func (u *Unique[T, K]) HasNextPage() bool { return u.inner.HasNextPage() }
func (u *Unique[T, K]) Cursor() int       { return u.inner.Cursor() }

package search

import (
	"context"
	"sync"
	"time"

	"github.com/thrombe/kolekk/log"
)

// DefaultDelay is the minimum spacing between two searches started through Slow.
const DefaultDelay = 500 * time.Millisecond

// Factory produces a fresh session for a query, with its first page already fetched.
// A nil session with a nil error means the request was superseded.
type Factory[T any] interface {
	WithQuery(ctx context.Context, q string) (*Session[T], error)
}

// FactoryFunc lets a plain function act as a Factory.
type FactoryFunc[T any] func(ctx context.Context, q string) (*Session[T], error)

// WithQuery implements Factory.
func (f FactoryFunc[T]) WithQuery(ctx context.Context, q string) (*Session[T], error) {
	return f(ctx, q)
}

// Fresh returns a Factory that builds a new session per query and runs SetQuery on it.
func Fresh[T any](build func() *Session[T]) Factory[T] {
	return FactoryFunc[T](func(ctx context.Context, q string) (*Session[T], error) {
		s := build()
		if _, err := s.SetQuery(ctx, q); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// Slow coalesces rapid WithQuery calls.
//
// Every call takes a generation number. Calls arriving within the delay of
// the last started search wait out the remainder first. A call that has been
// overtaken by a newer one, either while waiting or while its fetch was in
// flight, yields no session, so results are never applied out of order.
type Slow[T any] struct {
	inner Factory[T]
	delay time.Duration

	mu         sync.Mutex
	generation uint64
	lastSearch time.Time
}

// NewSlow wraps inner. A non-positive delay falls back to DefaultDelay.
func NewSlow[T any](inner Factory[T], delay time.Duration) *Slow[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Slow[T]{inner: inner, delay: delay}
}

// WithQuery implements Factory.
func (s *Slow[T]) WithQuery(ctx context.Context, q string) (*Session[T], error) {
	s.mu.Lock()
	s.generation++
	current := s.generation
	wait := s.delay - time.Since(s.lastSearch)
	s.mu.Unlock()

	if wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	s.mu.Lock()
	if s.generation != current {
		s.mu.Unlock()
		log.Debugf("search for %q superseded before start", q)
		return nil, nil
	}
	s.lastSearch = time.Now()
	s.mu.Unlock()

	session, err := s.inner.WithQuery(ctx, q)

	if !s.isCurrent(current) {
		log.Debugf("search for %q superseded while in flight, discarding", q)
		return nil, nil
	}
	return session, err
}

// Generation returns the number of WithQuery calls seen so far.
func (s *Slow[T]) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Slow[T]) isCurrent(generation uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation == generation
}

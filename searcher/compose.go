package searcher

import (
	"context"
	"fmt"

	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/search"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/tachidesk"
)

// Open builds a session for t. Nothing is fetched yet.
func Open[T any](d *Deps, t Target[T]) (*search.Session[T], error) {
	adapter, err := t.adapter(d)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", t.Kind(), err)
	}
	log.WithFields(log.Fields{"kind": t.Kind(), "target": fmt.Sprintf("%+v", t)}).Debug("opened session")
	return search.New(adapter, t.cursor(), t.layers()...), nil
}

// NewFactory returns a factory building a fresh session per query.
// Remote kinds are debounced by d.Debounce.
func NewFactory[T any](d *Deps, t Target[T]) (search.Factory[T], error) {
	// fail early on a missing backend instead of on every keystroke
	if _, err := t.adapter(d); err != nil {
		return nil, fmt.Errorf("open %s: %w", t.Kind(), err)
	}

	fresh := search.Fresh(func() *search.Session[T] {
		s, err := Open(d, t)
		if err != nil {
			log.Errorf("reopen %s: %v", t.Kind(), err)
			return search.New[T](failing[T]{err: err}, t.cursor())
		}
		return s
	})

	if !t.remote() {
		return fresh, nil
	}
	return search.NewSlow(fresh, d.Debounce), nil
}

// failing reports the error that kept a session from opening on its first fetch.
type failing[T any] struct{ err error }

func (f failing[T]) Search(context.Context, string, int) (search.Page[T], error) {
	return search.Page[T]{}, f.err
}

// Reloadable is implemented by targets mirroring remote data into the store.
type Reloadable interface {
	reload(ctx context.Context, d *Deps) (int, error)
}

func (Extensions) reload(ctx context.Context, d *Deps) (int, error) {
	return reloadFacet(ctx, d, FacetExtensions, extensionsMirror)
}

func (Sources) reload(ctx context.Context, d *Deps) (int, error) {
	return reloadFacet(ctx, d, FacetSources, sourcesMirror)
}

func (t Chapters) reload(ctx context.Context, d *Deps) (int, error) {
	return reloadFacet(ctx, d, ChaptersFacet(t.Manga), func(c *tachidesk.Client) mirror {
		return chaptersMirror(c, t.Manga)
	})
}

// Reload refreshes the mirror behind t and reports how many objects it holds now.
// Sessions over t should be invalidated afterwards. Targets that mirror nothing
// fail with search.ErrUnsupported.
func Reload[T any](ctx context.Context, d *Deps, t Target[T]) (int, error) {
	r, ok := any(t).(Reloadable)
	if !ok {
		log.Errorf("reload of %s: %v", t.Kind(), search.ErrUnsupported)
		return 0, fmt.Errorf("reload %s: %w", t.Kind(), search.ErrUnsupported)
	}
	return r.reload(ctx, d)
}

func reloadFacet(ctx context.Context, d *Deps, facet store.Facet, m func(*tachidesk.Client) mirror) (int, error) {
	st, err := need(d.Store, "store")
	if err != nil {
		return 0, err
	}
	client, err := need(d.Tachidesk, "tachidesk")
	if err != nil {
		return 0, err
	}
	return reload(ctx, st, facet, m(client))
}

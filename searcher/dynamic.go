package searcher

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	levenshtein "github.com/ka-weihe/fast-levenshtein"
	"github.com/samber/lo"
	"github.com/thrombe/kolekk/provider"
	"github.com/thrombe/kolekk/search"
	"github.com/thrombe/kolekk/store"
)

// ErrUnknownKind is returned by ParseKind.
var ErrUnknownKind = errors.New("unknown kind")

// ParseKind validates a kind given on the command line and suggests the closest one.
func ParseKind(name string) (Kind, error) {
	k := Kind(name)
	if lo.Contains(Kinds, k) {
		return k, nil
	}
	names := lo.Map(Kinds, func(k Kind, _ int) string { return string(k) })
	if closest, ok := closest(name, names); ok {
		return "", fmt.Errorf("%w %q, did you mean %q?", ErrUnknownKind, name, closest)
	}
	return "", fmt.Errorf("%w %q", ErrUnknownKind, name)
}

// ClosestSource returns the installed script whose name is nearest to name.
func ClosestSource(name string) (string, bool) {
	return closest(name, provider.Names())
}

// closest picks the candidate within a third of name's length in edits.
func closest(name string, candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := lo.MinBy(candidates, func(a, b string) bool {
		return levenshtein.Distance(name, a) < levenshtein.Distance(name, b)
	})
	if levenshtein.Distance(name, best) > max(len(name)/3, 1) {
		return "", false
	}
	return best, true
}

// Dynamic is a session of any kind, seen through Entry.
type Dynamic interface {
	Kind() Kind
	SetQuery(ctx context.Context, q string) ([]Entry, error)
	NextPage(ctx context.Context) ([]Entry, error)
	ResetSearch()
	// Invalidate keeps de-duplication keys. Remote kinds refresh with SetQuery(Query()).
	Invalidate()
	Insert(ctx context.Context, entries ...Entry) error
	OnUpdate(fn func())
	Results() []Entry
	Valid() bool
	Query() string
	HasNextPage() bool
}

// DynamicFactory is search.Factory for Dynamic sessions.
// A nil session with a nil error means the request was superseded.
type DynamicFactory interface {
	WithQuery(ctx context.Context, q string) (Dynamic, error)
}

type dynamic[T any] struct {
	target  Target[T]
	session *search.Session[T]
}

func (d *dynamic[T]) Kind() Kind { return d.target.Kind() }

func (d *dynamic[T]) SetQuery(ctx context.Context, q string) ([]Entry, error) {
	items, err := d.session.SetQuery(ctx, q)
	return d.entries(items), err
}

func (d *dynamic[T]) NextPage(ctx context.Context) ([]Entry, error) {
	items, err := d.session.NextPage(ctx)
	return d.entries(items), err
}

// Insert stores the Values of entries. Each Value must be of the session's entity type.
func (d *dynamic[T]) Insert(ctx context.Context, entries ...Entry) error {
	items := make([]T, 0, len(entries))
	for _, e := range entries {
		item, ok := e.Value.(T)
		if !ok {
			return fmt.Errorf("insert into %s: entry %q holds %T", d.Kind(), e.Title, e.Value)
		}
		items = append(items, item)
	}
	return d.session.Insert(ctx, items...)
}

func (d *dynamic[T]) ResetSearch()       { d.session.ResetSearch() }
func (d *dynamic[T]) Invalidate()        { d.session.Invalidate() }
func (d *dynamic[T]) OnUpdate(fn func()) { d.session.OnUpdate(fn) }
func (d *dynamic[T]) Results() []Entry   { return d.entries(d.session.Results()) }
func (d *dynamic[T]) Valid() bool        { return d.session.Valid() }
func (d *dynamic[T]) Query() string      { return d.session.Query() }
func (d *dynamic[T]) HasNextPage() bool  { return d.session.HasNextPage() }

func (d *dynamic[T]) entries(items []T) []Entry {
	if items == nil {
		return nil
	}
	return lo.Map(items, func(item T, _ int) Entry { return d.target.entry(item) })
}

type dynamicFactory[T any] struct {
	target  Target[T]
	factory search.Factory[T]
}

func (f *dynamicFactory[T]) WithQuery(ctx context.Context, q string) (Dynamic, error) {
	s, err := f.factory.WithQuery(ctx, q)
	if err != nil || s == nil {
		return nil, err
	}
	return &dynamic[T]{target: f.target, session: s}, nil
}

// Spec selects a target on the command line: a kind plus its binding, if any.
// Binding is the facet for objects, the tag id for tagged, the source id for
// mangas, the manga id for chapters and the script name for scripted.
type Spec struct {
	Kind         Kind
	Binding      string
	IncludeAdult bool
}

// OpenKind opens a session for spec.
func OpenKind(d *Deps, spec Spec) (Dynamic, error) {
	s, _, err := resolve(d, spec, false)
	return s, err
}

// FactoryForKind returns a factory for spec, debounced for remote kinds.
func FactoryForKind(d *Deps, spec Spec) (DynamicFactory, error) {
	_, f, err := resolve(d, spec, true)
	return f, err
}

func resolve(d *Deps, spec Spec, factory bool) (Dynamic, DynamicFactory, error) {
	switch spec.Kind {
	case KindObjects:
		return build(d, Objects{Facet: store.Facet(spec.Binding)}, factory)
	case KindTags:
		return build(d, Tags{}, factory)
	case KindTagged:
		return build(d, Tagged{Tag: spec.Binding}, factory)
	case KindMovies:
		return build(d, Movies{IncludeAdult: spec.IncludeAdult}, factory)
	case KindExtensions:
		return build(d, Extensions{}, factory)
	case KindSources:
		return build(d, Sources{}, factory)
	case KindMangas:
		return build(d, Mangas{Source: spec.Binding}, factory)
	case KindChapters:
		manga, err := strconv.Atoi(spec.Binding)
		if err != nil {
			return nil, nil, fmt.Errorf("chapters need a numeric manga id, got %q", spec.Binding)
		}
		return build(d, Chapters{Manga: manga}, factory)
	case KindAlbums:
		return build(d, Albums{}, factory)
	case KindAnime:
		return build(d, Anime{}, factory)
	case KindMal:
		return build(d, MalAnime{}, factory)
	case KindScripted:
		return build(d, Scripted{Provider: spec.Binding}, factory)
	default:
		_, err := ParseKind(string(spec.Kind))
		return nil, nil, err
	}
}

func build[T any](d *Deps, t Target[T], factory bool) (Dynamic, DynamicFactory, error) {
	if factory {
		f, err := NewFactory(d, t)
		if err != nil {
			return nil, nil, err
		}
		return nil, &dynamicFactory[T]{target: t, factory: f}, nil
	}

	s, err := Open(d, t)
	if err != nil {
		return nil, nil, err
	}
	return &dynamic[T]{target: t, session: s}, nil, nil
}

// ReloadKind refreshes the mirror behind spec.
func ReloadKind(ctx context.Context, d *Deps, spec Spec) (int, error) {
	switch spec.Kind {
	case KindExtensions:
		return Reload(ctx, d, Extensions{})
	case KindSources:
		return Reload(ctx, d, Sources{})
	case KindChapters:
		manga, err := strconv.Atoi(spec.Binding)
		if err != nil {
			return 0, fmt.Errorf("chapters need a numeric manga id, got %q", spec.Binding)
		}
		return Reload(ctx, d, Chapters{Manga: manga})
	default:
		return 0, fmt.Errorf("reload %s: %w", spec.Kind, search.ErrUnsupported)
	}
}

// NeedsBinding reports whether kind requires Spec.Binding.
func NeedsBinding(kind Kind) bool {
	return lo.Contains([]Kind{KindObjects, KindTagged, KindMangas, KindChapters, KindScripted}, kind)
}

// CanReload reports whether ReloadKind supports kind.
func CanReload(kind Kind) bool {
	return lo.Contains([]Kind{KindExtensions, KindSources, KindChapters}, kind)
}

// StoreBacked reports whether sessions of kind read from the store, so store changes affect them.
func StoreBacked(kind Kind) bool {
	return kind == KindObjects || kind == KindTags || kind == KindTagged || CanReload(kind)
}

// Drill returns the spec listing what e contains: the objects carrying a tag,
// the mangas of a source or the chapters of a manga.
// An alias tag drills into the objects of the tag it names.
func Drill(e Entry) (Spec, bool) {
	switch e.Kind {
	case KindTags:
		if t, ok := e.Value.(store.Tag); ok && t.IsAlias() {
			return Spec{Kind: KindTagged, Binding: t.AliasOf}, true
		}
		return Spec{Kind: KindTagged, Binding: e.ID}, true
	case KindSources:
		return Spec{Kind: KindMangas, Binding: e.ID}, true
	case KindMangas:
		return Spec{Kind: KindChapters, Binding: e.ID}, true
	default:
		return Spec{}, false
	}
}

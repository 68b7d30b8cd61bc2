package searcher

import (
	"context"
	"fmt"

	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/search"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/tachidesk"
)

// Stored is a store object together with its decoded payload.
type Stored[T any] struct {
	Object store.Object `json:"object"`
	Value  T            `json:"value"`
}

// mirror fetches the remote list a facet mirrors.
type mirror func(ctx context.Context) ([]store.Object, error)

// storedAdapter pages through a facet holding JSON encoded T. When the facet
// is empty on the first page of an empty query, it is filled from the mirror.
type storedAdapter[T any] struct {
	store  *store.Store
	facet  store.Facet
	limit  int
	mirror mirror
	filled bool
}

func (a *storedAdapter[T]) Search(ctx context.Context, query string, offset int) (search.Page[Stored[T]], error) {
	if offset == 0 && query == "" && a.mirror != nil {
		if err := a.fill(ctx); err != nil {
			return search.Page[Stored[T]]{}, err
		}
	}

	objs, err := a.store.Search(ctx, a.facet, query, a.limit, offset)
	if err != nil {
		return search.Page[Stored[T]]{}, err
	}

	items := make([]Stored[T], 0, len(objs))
	for _, o := range objs {
		v, err := store.Decode[T](o)
		if err != nil {
			log.WithFields(log.Fields{"facet": a.facet, "id": o.ID}).Warnf("skipping undecodable object: %v", err)
			continue
		}
		items = append(items, Stored[T]{Object: o, Value: v})
	}
	return search.Page[Stored[T]]{
		Items:   items,
		HasNext: len(objs) == a.limit,
		Skipped: len(objs) - len(items),
	}, nil
}

// fill mirrors the remote list into an empty facet. A failure is retried on the next call.
func (a *storedAdapter[T]) fill(ctx context.Context) error {
	if a.filled {
		return nil
	}

	existing, err := a.store.Search(ctx, a.facet, "", 1, 0)
	if err != nil {
		return err
	}
	if len(existing) == 0 {
		if _, err := reload(ctx, a.store, a.facet, a.mirror); err != nil {
			return err
		}
	}
	a.filled = true
	return nil
}

func reload(ctx context.Context, st *store.Store, facet store.Facet, m mirror) (int, error) {
	objs, err := m(ctx)
	if err != nil {
		return 0, fmt.Errorf("mirror %s: %w", facet, err)
	}
	if err := st.ReplaceFacet(ctx, facet, objs); err != nil {
		return 0, err
	}
	log.Infof("mirrored %d objects into %s", len(objs), facet)
	return len(objs), nil
}

// Facets of mirrored tachidesk data.
const (
	FacetExtensions store.Facet = "tachidesk.extension"
	FacetSources    store.Facet = "tachidesk.source"
)

// ChaptersFacet is the facet holding the chapters of one manga.
func ChaptersFacet(mangaID int) store.Facet {
	return store.Facet(fmt.Sprintf("tachidesk.chapter.%d", mangaID))
}

func encodeAll[T any](items []T, id func(T) string, title func(T) string) ([]store.Object, error) {
	objs := make([]store.Object, 0, len(items))
	for _, item := range items {
		data, err := store.Encode(item)
		if err != nil {
			return nil, err
		}
		objs = append(objs, store.Object{ID: id(item), Title: title(item), Data: data})
	}
	return objs, nil
}

func extensionsMirror(c *tachidesk.Client) mirror {
	return func(ctx context.Context) ([]store.Object, error) {
		exts, err := c.Extensions(ctx)
		if err != nil {
			return nil, err
		}
		for i := range exts {
			exts[i].IconURL = c.ExtensionIconURL(exts[i].ApkName)
		}
		return encodeAll(exts,
			func(e tachidesk.Extension) string { return "tachi-extension-" + e.PkgName },
			func(e tachidesk.Extension) string { return e.Name },
		)
	}
}

func sourcesMirror(c *tachidesk.Client) mirror {
	return func(ctx context.Context) ([]store.Object, error) {
		sources, err := c.Sources(ctx)
		if err != nil {
			return nil, err
		}
		return encodeAll(sources,
			func(s tachidesk.Source) string { return "tachi-source-" + s.ID },
			func(s tachidesk.Source) string { return s.DisplayName },
		)
	}
}

func chaptersMirror(c *tachidesk.Client, mangaID int) mirror {
	return func(ctx context.Context) ([]store.Object, error) {
		chapters, err := c.Chapters(ctx, mangaID)
		if err != nil {
			return nil, err
		}
		return encodeAll(chapters,
			func(ch tachidesk.Chapter) string { return fmt.Sprintf("tachi-chapter-%d-%d", mangaID, ch.Index) },
			func(ch tachidesk.Chapter) string { return ch.Name },
		)
	}
}

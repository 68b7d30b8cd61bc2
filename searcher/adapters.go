package searcher

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/thrombe/kolekk/anilist"
	"github.com/thrombe/kolekk/lastfm"
	"github.com/thrombe/kolekk/log"
	"github.com/thrombe/kolekk/mal"
	"github.com/thrombe/kolekk/provider"
	"github.com/thrombe/kolekk/provider/custom"
	"github.com/thrombe/kolekk/search"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/tachidesk"
	"github.com/thrombe/kolekk/tmdb"
)

// objectsAdapter pages through one store facet by offset.
type objectsAdapter struct {
	store *store.Store
	facet store.Facet
	limit int
}

func (a *objectsAdapter) Search(ctx context.Context, query string, offset int) (search.Page[store.Object], error) {
	objs, err := a.store.Search(ctx, a.facet, query, a.limit, offset)
	if err != nil {
		return search.Page[store.Object]{}, err
	}
	return search.Page[store.Object]{Items: objs, HasNext: len(objs) == a.limit}, nil
}

// AddItems stores objs in the adapter's facet.
func (a *objectsAdapter) AddItems(ctx context.Context, objs ...store.Object) error {
	objs = lo.Map(objs, func(o store.Object, _ int) store.Object {
		o.Facet = a.facet
		return o
	})
	_, err := a.store.Put(ctx, objs...)
	return err
}

// taggedAdapter pages through the objects carrying one tag.
type taggedAdapter struct {
	store *store.Store
	tag   string
	limit int
}

func (a *taggedAdapter) Search(ctx context.Context, query string, offset int) (search.Page[store.Object], error) {
	objs, err := a.store.SearchTagged(ctx, a.tag, query, a.limit, offset)
	if err != nil {
		return search.Page[store.Object]{}, err
	}
	return search.Page[store.Object]{Items: objs, HasNext: len(objs) == a.limit}, nil
}

type tagsAdapter struct {
	store *store.Store
	limit int
}

func (a *tagsAdapter) Search(ctx context.Context, query string, offset int) (search.Page[store.Tag], error) {
	tags, err := a.store.SearchTags(ctx, query, a.limit, offset)
	if err != nil {
		return search.Page[store.Tag]{}, err
	}
	return search.Page[store.Tag]{Items: tags, HasNext: len(tags) == a.limit}, nil
}

// AddItems creates the tags. Ids in tags are ignored.
func (a *tagsAdapter) AddItems(ctx context.Context, tags ...store.Tag) error {
	for _, t := range tags {
		t.ID = ""
		if _, err := a.store.SaveTag(ctx, t); err != nil {
			return err
		}
	}
	return nil
}

type moviesAdapter struct {
	client       *tmdb.Client
	includeAdult bool
}

func (a *moviesAdapter) Search(ctx context.Context, query string, page int) (search.Page[tmdb.MultiSearchResult], error) {
	res, err := a.client.SearchMulti(ctx, query, page, a.includeAdult)
	if err != nil {
		return search.Page[tmdb.MultiSearchResult]{}, err
	}
	return search.Page[tmdb.MultiSearchResult]{
		Items:   res.Results,
		HasNext: res.Page < res.TotalPages,
	}, nil
}

type mangasAdapter struct {
	client *tachidesk.Client
	source string
	latest bool
}

// Search lists the popular or latest mangas of the source when query is empty.
func (a *mangasAdapter) Search(ctx context.Context, query string, page int) (search.Page[tachidesk.Manga], error) {
	var (
		res tachidesk.MangaListPage
		err error
	)
	switch {
	case strings.TrimSpace(query) != "":
		res, err = a.client.Search(ctx, a.source, query, page)
	case a.latest && a.supportsLatest(ctx):
		res, err = a.client.Latest(ctx, a.source, page)
	default:
		res, err = a.client.Popular(ctx, a.source, page)
	}
	if err != nil {
		return search.Page[tachidesk.Manga]{}, err
	}

	// the server hands out thumbnails as paths relative to itself
	for i := range res.MangaList {
		res.MangaList[i].ThumbnailURL = a.client.ThumbnailURL(res.MangaList[i].ID)
	}
	return search.Page[tachidesk.Manga]{
		Items:   res.MangaList,
		HasNext: res.HasNextPage && len(res.MangaList) > 0,
	}, nil
}

func (a *mangasAdapter) supportsLatest(ctx context.Context) bool {
	src, err := a.client.Source(ctx, a.source)
	if err != nil {
		log.WithFields(log.Fields{"source": a.source}).Warnf("falling back to popular: %v", err)
		return false
	}
	return src.SupportsLatest
}

type albumsAdapter struct {
	client *lastfm.Client
}

// Search finds nothing for an empty query.
func (a *albumsAdapter) Search(ctx context.Context, query string, page int) (search.Page[lastfm.Album], error) {
	if strings.TrimSpace(query) == "" {
		return search.Page[lastfm.Album]{Items: []lastfm.Album{}}, nil
	}

	res, err := a.client.SearchAlbum(ctx, query, page)
	if err != nil {
		return search.Page[lastfm.Album]{}, err
	}
	return search.Page[lastfm.Album]{Items: res.Matches, HasNext: res.HasNext()}, nil
}

type anilistAdapter struct {
	client *anilist.Client
}

func (a *anilistAdapter) Search(ctx context.Context, query string, page int) (search.Page[*anilist.Anime], error) {
	res, err := a.client.SearchPage(ctx, query, page)
	if err != nil {
		return search.Page[*anilist.Anime]{}, err
	}
	return search.Page[*anilist.Anime]{
		Items:   res.Media,
		HasNext: res.PageInfo.HasNextPage && len(res.Media) > 0,
	}, nil
}

type malAdapter struct {
	client *mal.Client
	limit  int
}

func (a *malAdapter) Search(ctx context.Context, query string, offset int) (search.Page[mal.Anime], error) {
	res, err := a.client.Search(ctx, query, a.limit, offset)
	if err != nil {
		return search.Page[mal.Anime]{}, err
	}
	return search.Page[mal.Anime]{
		Items:   res.Anime,
		HasNext: res.HasNext && len(res.Anime) > 0,
	}, nil
}

type scriptedAdapter struct {
	source *custom.Source
}

// Search treats a page shorter than the script's Limit as the last one.
func (a *scriptedAdapter) Search(ctx context.Context, query string, page int) (search.Page[provider.Item], error) {
	items, err := a.source.Search(ctx, query, page)
	if err != nil {
		return search.Page[provider.Item]{}, err
	}
	return search.Page[provider.Item]{
		Items:   items,
		HasNext: len(items) >= a.source.Limit(),
	}, nil
}

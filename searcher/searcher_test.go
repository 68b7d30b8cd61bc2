package searcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/lastfm"
	"github.com/thrombe/kolekk/search"
	"github.com/thrombe/kolekk/store"
	"github.com/thrombe/kolekk/tachidesk"
	"github.com/thrombe/kolekk/tmdb"
)

func init() {
	filesystem.SetMemMapFs()
}

func memDeps() *Deps {
	st, err := store.OpenMemory()
	So(err, ShouldBeNil)
	return &Deps{Store: st, PageSize: 2}
}

func titles(entries []Entry) []string {
	return lo.Map(entries, func(e Entry, _ int) string { return e.Title })
}

func TestObjects(t *testing.T) {
	ctx := context.Background()

	Convey("Given a store with three bookmarks and a page size of 2", t, func() {
		d := memDeps()
		defer d.Close()

		_, err := d.Store.Put(ctx,
			store.Object{Facet: "bookmarks", Title: "go tour"},
			store.Object{Facet: "bookmarks", Title: "rust book"},
			store.Object{Facet: "bookmarks", Title: "go spec"},
			store.Object{Facet: "notes", Title: "go notes"},
		)
		So(err, ShouldBeNil)

		s, err := Open(d, Objects{Facet: "bookmarks"})
		So(err, ShouldBeNil)

		Convey("An empty query should page through the facet in insertion order", func() {
			first, err := s.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			So(len(first), ShouldEqual, 2)
			So(s.HasNextPage(), ShouldBeTrue)

			_, err = s.NextPage(ctx)
			So(err, ShouldBeNil)
			So(s.HasNextPage(), ShouldBeFalse)
			So(lo.Map(s.Results(), func(o store.Object, _ int) string { return o.Title }), ShouldResemble,
				[]string{"go tour", "rust book", "go spec"})
		})

		Convey("A text query should stay inside the facet", func() {
			_, err := s.SetQuery(ctx, "go")
			So(err, ShouldBeNil)
			for s.HasNextPage() {
				_, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
			}
			So(len(s.Results()), ShouldEqual, 2)
			So(lo.EveryBy(s.Results(), func(o store.Object) bool { return o.Facet == "bookmarks" }), ShouldBeTrue)
		})

		Convey("Inserted objects should land in the facet and show after reload", func() {
			_, err := s.SetQuery(ctx, "")
			So(err, ShouldBeNil)

			So(s.Insert(ctx, store.Object{Title: "zig docs"}), ShouldBeNil)
			So(s.Valid(), ShouldBeFalse)

			_, err = s.NextPage(ctx)
			So(err, ShouldBeNil)
			for s.HasNextPage() {
				_, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
			}
			So(len(s.Results()), ShouldEqual, 4)
			So(s.Results()[3].Facet, ShouldEqual, store.Facet("bookmarks"))
		})
	})

	Convey("Objects should refuse the tag facet", t, func() {
		d := memDeps()
		defer d.Close()

		_, err := Open(d, Objects{Facet: store.FacetTag})
		So(err, ShouldNotBeNil)
	})
}

func TestTags(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tag session", t, func() {
		d := memDeps()
		defer d.Close()

		s, err := Open(d, Tags{})
		So(err, ShouldBeNil)

		Convey("Inserting should create tags", func() {
			So(s.Insert(ctx, store.Tag{Name: "anime"}, store.Tag{Name: "music"}), ShouldBeNil)

			_, err := s.SetQuery(ctx, "anime")
			So(err, ShouldBeNil)
			So(len(s.Results()), ShouldEqual, 1)
			So(s.Results()[0].ID, ShouldNotBeEmpty)
		})

		Convey("Tags should not be reloadable", func() {
			_, err := Reload(ctx, d, Tags{})
			So(errors.Is(err, search.ErrUnsupported), ShouldBeTrue)
		})
	})
}

func TestMovies(t *testing.T) {
	ctx := context.Background()

	Convey("Given a TMDB whose pages overlap", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Query().Get("page") {
			case "1":
				_, _ = w.Write([]byte(`{"page": 1, "total_pages": 2, "results": [
					{"id": 1, "media_type": "movie", "title": "Alien"},
					{"id": 1, "media_type": "tv", "name": "Alien Nation"}]}`))
			default:
				_, _ = w.Write([]byte(`{"page": 2, "total_pages": 2, "results": [
					{"id": 1, "media_type": "movie", "title": "Alien"},
					{"id": 2, "media_type": "movie", "title": "Aliens"}]}`))
			}
		}))
		defer srv.Close()

		d := &Deps{TMDB: tmdb.New("key", tmdb.WithBaseURL(srv.URL))}
		s, err := Open(d, Movies{})
		So(err, ShouldBeNil)

		Convey("Duplicates should be dropped by media type and id", func() {
			_, err := s.SetQuery(ctx, "alien")
			So(err, ShouldBeNil)
			So(s.HasNextPage(), ShouldBeTrue)

			_, err = s.NextPage(ctx)
			So(err, ShouldBeNil)
			So(s.HasNextPage(), ShouldBeFalse)
			So(lo.Map(s.Results(), func(r tmdb.MultiSearchResult, _ int) string { return r.DisplayTitle() }), ShouldResemble,
				[]string{"Alien", "Alien Nation", "Aliens"})
		})
	})

	Convey("Without a TMDB client the target should not open", t, func() {
		_, err := Open(&Deps{}, Movies{})
		So(errors.Is(err, ErrMissingBackend), ShouldBeTrue)
	})
}

func TestAlbums(t *testing.T) {
	Convey("Given a Last.fm that counts requests", t, func() {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		d := &Deps{LastFM: lastfm.New("key", lastfm.WithBaseURL(srv.URL))}
		s, err := Open(d, Albums{})
		So(err, ShouldBeNil)

		Convey("An empty query should find nothing and be exhausted without a request", func() {
			page, err := s.SetQuery(context.Background(), "")
			So(err, ShouldBeNil)
			So(page, ShouldBeEmpty)
			So(s.HasNextPage(), ShouldBeFalse)
			So(hits.Load(), ShouldEqual, 0)
		})
	})
}

func fakeTachidesk(exts *atomic.Value, hits *atomic.Int32) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/extension/list":
			hits.Add(1)
			_, _ = w.Write([]byte(exts.Load().(string)))
		case "/api/v1/source/list":
			_, _ = w.Write([]byte(`[{"id": "9", "displayName": "MangaDex", "supportsLatest": true},
				{"id": "10", "displayName": "Comick"}]`))
		case "/api/v1/source/9/latest/1", "/api/v1/source/10/latest/1":
			_, _ = w.Write([]byte(`{"mangaList": [{"id": 3, "title": "Latest"}], "hasNextPage": false}`))
		case "/api/v1/source/9/popular/1", "/api/v1/source/10/popular/1":
			_, _ = w.Write([]byte(`{"mangaList": [{"id": 4, "title": "Popular", "thumbnailUrl": "/api/v1/manga/4/thumbnail"}], "hasNextPage": false}`))
		case "/api/v1/manga/7/chapters":
			_, _ = w.Write([]byte(`[{"id": 70, "name": "Chapter 1", "index": 1, "mangaId": 7},
				{"id": 71, "name": "Chapter 2", "index": 2, "mangaId": 7}]`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
}

func TestMirrors(t *testing.T) {
	ctx := context.Background()

	Convey("Given a tachidesk server and an empty store", t, func() {
		var exts atomic.Value
		var hits atomic.Int32
		exts.Store(`[{"name": "MangaDex", "pkgName": "eu.kanade.mangadex", "lang": "all", "installed": true},
			{"name": "Comick", "pkgName": "eu.kanade.comick", "lang": "all"}]`)
		srv := fakeTachidesk(&exts, &hits)
		defer srv.Close()

		d := memDeps()
		d.PageSize = 50
		defer d.Close()

		tachi, err := tachidesk.New(srv.URL)
		So(err, ShouldBeNil)
		d.Tachidesk = tachi

		s, err := Open(d, Extensions{})
		So(err, ShouldBeNil)

		Convey("The first empty query should fill the facet from the server", func() {
			_, err := s.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			So(len(s.Results()), ShouldEqual, 2)
			So(s.Results()[0].Value.Name, ShouldEqual, "MangaDex")
			So(s.Results()[0].Object.ID, ShouldEqual, "tachi-extension-eu.kanade.mangadex")

			Convey("And later queries should read the store only", func() {
				_, err := s.SetQuery(ctx, "comick")
				So(err, ShouldBeNil)
				So(len(s.Results()), ShouldEqual, 1)
				So(hits.Load(), ShouldEqual, 1)
			})

			Convey("And a reload should mirror the new list", func() {
				exts.Store(`[{"name": "Comick", "pkgName": "eu.kanade.comick", "lang": "all", "installed": true}]`)
				n, err := ReloadKind(ctx, d, Spec{Kind: KindExtensions})
				So(err, ShouldBeNil)
				So(n, ShouldEqual, 1)

				s.Invalidate()
				_, err = s.NextPage(ctx)
				So(err, ShouldBeNil)
				So(len(s.Results()), ShouldEqual, 1)
				So(s.Results()[0].Value.Installed, ShouldBeTrue)
			})
		})

		Convey("Chapters should mirror into a facet per manga", func() {
			chapters, err := OpenKind(d, Spec{Kind: KindChapters, Binding: "7"})
			So(err, ShouldBeNil)

			entries, err := chapters.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			So(titles(entries), ShouldResemble, []string{"Chapter 1", "Chapter 2"})
			So(entries[1].ID, ShouldEqual, "2")

			objs, err := d.Store.Search(ctx, ChaptersFacet(7), "", 10, 0)
			So(err, ShouldBeNil)
			So(len(objs), ShouldEqual, 2)
			So(objs[0].ID, ShouldEqual, fmt.Sprintf("tachi-chapter-%d-%d", 7, 1))
		})

		Convey("Extension icons should point at the server", func() {
			_, err := s.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			So(s.Results()[0].Value.IconURL, ShouldStartWith, srv.URL+"/api/v1/extension/icon/")
		})

		Convey("An empty manga query should list popular mangas with absolute thumbnails", func() {
			mangas, err := OpenKind(d, Spec{Kind: KindMangas, Binding: "9"})
			So(err, ShouldBeNil)

			entries, err := mangas.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			So(titles(entries), ShouldResemble, []string{"Popular"})
			So(entries[0].Cover, ShouldEqual, srv.URL+"/api/v1/manga/4/thumbnail")
		})

		Convey("With latest listings enabled", func() {
			d.LatestMangas = true

			Convey("Sources that support them should list their latest mangas", func() {
				mangas, err := OpenKind(d, Spec{Kind: KindMangas, Binding: "9"})
				So(err, ShouldBeNil)
				entries, err := mangas.SetQuery(ctx, "")
				So(err, ShouldBeNil)
				So(titles(entries), ShouldResemble, []string{"Latest"})
			})

			Convey("Other sources should fall back to popular", func() {
				mangas, err := OpenKind(d, Spec{Kind: KindMangas, Binding: "10"})
				So(err, ShouldBeNil)
				entries, err := mangas.SetQuery(ctx, "")
				So(err, ShouldBeNil)
				So(titles(entries), ShouldResemble, []string{"Popular"})
			})
		})

		Convey("A non-numeric manga id should be rejected", func() {
			_, err := OpenKind(d, Spec{Kind: KindChapters, Binding: "seven"})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestStoredSkipsUndecodable(t *testing.T) {
	ctx := context.Background()

	Convey("Given a mirrored facet with an undecodable object and a page size of 2", t, func() {
		d := memDeps()
		defer d.Close()

		source := func(id, name string) store.Object {
			data, err := store.Encode(tachidesk.Source{ID: id, DisplayName: name})
			So(err, ShouldBeNil)
			return store.Object{ID: "tachi-source-" + id, Facet: FacetSources, Title: name, Data: data}
		}
		_, err := d.Store.Put(ctx,
			source("1", "a"),
			store.Object{ID: "broken", Facet: FacetSources, Title: "b"},
			source("3", "c"),
			source("4", "d"),
		)
		So(err, ShouldBeNil)

		s, err := Open(d, Sources{})
		So(err, ShouldBeNil)

		Convey("Paging to the end should return every decodable object once", func() {
			_, err := s.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			So(s.Cursor(), ShouldEqual, 2)

			for s.HasNextPage() {
				_, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
			}
			So(lo.Map(s.Results(), func(r Stored[tachidesk.Source], _ int) string { return r.Value.DisplayName }),
				ShouldResemble, []string{"a", "c", "d"})
		})
	})
}

func TestDynamic(t *testing.T) {
	ctx := context.Background()

	Convey("Given a dynamic object session", t, func() {
		d := memDeps()
		defer d.Close()

		s, err := OpenKind(d, Spec{Kind: KindObjects, Binding: "links"})
		So(err, ShouldBeNil)
		So(s.Kind(), ShouldEqual, KindObjects)

		Convey("Inserted entries should come back as entries", func() {
			So(s.Insert(ctx, Entry{Value: store.Object{Title: "kolekk"}}), ShouldBeNil)

			entries, err := s.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			So(titles(entries), ShouldResemble, []string{"kolekk"})
			So(entries[0].Subtitle, ShouldEqual, "links")
			So(titles(s.Results()), ShouldResemble, []string{"kolekk"})
		})

		Convey("Entries of another type should be refused", func() {
			err := s.Insert(ctx, Entry{Title: "x", Value: store.Tag{Name: "x"}})
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a deps set with a store", t, func() {
		d := memDeps()
		defer d.Close()

		Convey("Local kinds should get an undebounced factory", func() {
			f, err := NewFactory(d, Tags{})
			So(err, ShouldBeNil)
			_, slow := f.(*search.Slow[store.Tag])
			So(slow, ShouldBeFalse)

			s, err := f.WithQuery(ctx, "")
			So(err, ShouldBeNil)
			So(s, ShouldNotBeNil)
		})

		Convey("Remote kinds should be debounced", func() {
			d.TMDB = tmdb.New("key")
			f, err := NewFactory(d, Movies{})
			So(err, ShouldBeNil)
			_, slow := f.(*search.Slow[tmdb.MultiSearchResult])
			So(slow, ShouldBeTrue)
		})

		Convey("Dynamic factories should build dynamic sessions", func() {
			f, err := FactoryForKind(d, Spec{Kind: KindTags})
			So(err, ShouldBeNil)
			s, err := f.WithQuery(ctx, "x")
			So(err, ShouldBeNil)
			So(s.Query(), ShouldEqual, "x")
		})

		Convey("Mirror reload should be refused for plain kinds", func() {
			_, err := ReloadKind(ctx, d, Spec{Kind: KindTags})
			So(errors.Is(err, search.ErrUnsupported), ShouldBeTrue)
		})
	})
}

func TestParseKind(t *testing.T) {
	Convey("Known kinds should parse", t, func() {
		k, err := ParseKind("movies")
		So(err, ShouldBeNil)
		So(k, ShouldEqual, KindMovies)
	})

	Convey("Near misses should get a suggestion", t, func() {
		_, err := ParseKind("movie")
		So(errors.Is(err, ErrUnknownKind), ShouldBeTrue)
		So(err.Error(), ShouldContainSubstring, `did you mean "movies"`)
	})

	Convey("Far misses should not", t, func() {
		_, err := ParseKind("podcasts")
		So(errors.Is(err, ErrUnknownKind), ShouldBeTrue)
		So(err.Error(), ShouldNotContainSubstring, "did you mean")
	})

	Convey("Bindings should be required where a kind is parameterized", t, func() {
		So(NeedsBinding(KindMangas), ShouldBeTrue)
		So(NeedsBinding(KindMovies), ShouldBeFalse)
	})
}

func TestTagged(t *testing.T) {
	ctx := context.Background()

	Convey("Given objects of two facets sharing a tag", t, func() {
		d := memDeps()
		defer d.Close()

		objs := lo.Must(d.Store.Put(ctx,
			store.Object{Facet: "bookmark", Title: "berserk"},
			store.Object{Facet: "manga", Title: "claymore"},
			store.Object{Facet: "manga", Title: "vinland"},
			store.Object{Facet: "manga", Title: "frieren"},
		))
		dark := lo.Must(d.Store.SaveTag(ctx, store.Tag{Name: "dark"}))
		grim := lo.Must(d.Store.SaveTag(ctx, store.Tag{Name: "grim", AliasOf: dark.ID}))
		for _, o := range objs[:3] {
			So(d.Store.AddTag(ctx, o.ID, dark.ID), ShouldBeNil)
		}

		Convey("Drilling into the tag should page through its objects", func() {
			tags := lo.Must(OpenKind(d, Spec{Kind: KindTags}))
			found := lo.Must(tags.SetQuery(ctx, "dark"))
			So(found, ShouldHaveLength, 1)

			spec, ok := Drill(found[0])
			So(ok, ShouldBeTrue)
			So(spec, ShouldResemble, Spec{Kind: KindTagged, Binding: dark.ID})

			tagged := lo.Must(OpenKind(d, spec))
			So(titles(lo.Must(tagged.NextPage(ctx))), ShouldResemble, []string{"berserk", "claymore"})
			So(titles(lo.Must(tagged.NextPage(ctx))), ShouldResemble, []string{"vinland"})
			So(titles(tagged.Results()), ShouldResemble, []string{"berserk", "claymore", "vinland"})
			So(tagged.HasNextPage(), ShouldBeFalse)
			So(tagged.Results()[1].Subtitle, ShouldEqual, "manga")
		})

		Convey("An alias should drill into the tag it names", func() {
			spec, ok := Drill(Tags{}.entry(grim))
			So(ok, ShouldBeTrue)
			So(spec.Binding, ShouldEqual, dark.ID)
		})

		Convey("A missing tag id should be rejected", func() {
			So(NeedsBinding(KindTagged), ShouldBeTrue)
			So(StoreBacked(KindTagged), ShouldBeTrue)
			_, err := OpenKind(d, Spec{Kind: KindTagged})
			So(err, ShouldNotBeNil)
		})
	})
}

func TestDrill(t *testing.T) {
	Convey("Sources should drill into their mangas", t, func() {
		spec, ok := Drill(Entry{Kind: KindSources, ID: "2499283573021220255"})
		So(ok, ShouldBeTrue)
		So(spec, ShouldResemble, Spec{Kind: KindMangas, Binding: "2499283573021220255"})
	})

	Convey("Mangas should drill into their chapters", t, func() {
		spec, ok := Drill(Entry{Kind: KindMangas, ID: "17"})
		So(ok, ShouldBeTrue)
		So(spec.Kind, ShouldEqual, KindChapters)
		So(NeedsBinding(spec.Kind), ShouldBeTrue)
	})

	Convey("Leaves should not drill", t, func() {
		_, ok := Drill(Entry{Kind: KindChapters, ID: "1"})
		So(ok, ShouldBeFalse)
		So(StoreBacked(KindChapters), ShouldBeTrue)
		So(StoreBacked(KindMovies), ShouldBeFalse)
		So(CanReload(KindObjects), ShouldBeFalse)
	})
}

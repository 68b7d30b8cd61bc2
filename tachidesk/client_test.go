package tachidesk

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeServer struct {
	mu   sync.Mutex
	hits map[string]int
}

func (f *fakeServer) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.mu.Unlock()

	switch r.URL.Path {
	case "/api/v1/extension/list":
		_, _ = w.Write([]byte(`[{"name":"MangaDex","pkgName":"eu.kanade.md","installed":true,"apkName":"md.apk"}]`))
	case "/api/v1/extension/install/eu.kanade.md":
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{}`))
	case "/api/v1/source/list":
		_, _ = w.Write([]byte(`[{"id":"2499283573021220255","name":"MangaDex","lang":"en"}]`))
	case "/api/v1/source/2499283573021220255/popular/1":
		_, _ = w.Write([]byte(`{"mangaList":[{"id":7,"title":"Berserk"}],"hasNextPage":true}`))
	case "/api/v1/source/2499283573021220255/search":
		if r.URL.Query().Get("searchTerm") != "vinland" || r.URL.Query().Get("pageNum") != "2" {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"mangaList":[],"hasNextPage":false}`))
	case "/api/v1/source/2499283573021220255/latest/1":
		_, _ = w.Write([]byte(`{"mangaList":[{"id":8,"title":"Dandadan"}],"hasNextPage":false}`))
	case "/api/v1/source/2499283573021220255/filters":
		_, _ = w.Write([]byte(`[{"type":"Select","filter":{"name":"Sort","state":0}},{"type":"Text","filter":{"name":"Author","state":""}}]`))
	case "/api/v1/manga/7":
		_, _ = w.Write([]byte(`{"id":7,"title":"Berserk","initialized":true,"author":"Miura"}`))
	case "/api/v1/manga/7/chapters":
		_, _ = w.Write([]byte(`[{"id":1,"name":"Ch. 1","index":1,"mangaId":7},{"id":2,"name":"Ch. 2","index":2,"mangaId":7}]`))
	case "/api/v1/manga/7/chapter/2":
		_, _ = w.Write([]byte(`{"id":2,"name":"Ch. 2","index":2,"mangaId":7,"pageCount":18}`))
	default:
		w.WriteHeader(http.StatusNotFound)
	}
}

const mangadex = "2499283573021220255"

func TestClient(t *testing.T) {
	ctx := context.Background()

	Convey("Given a Tachidesk server", t, func() {
		fake := &fakeServer{hits: make(map[string]int)}
		srv := httptest.NewServer(fake)
		defer srv.Close()

		c := lo.Must(New(srv.URL + "/"))
		defer c.Close()

		Convey("Extensions should be listed", func() {
			exts, err := c.Extensions(ctx)
			So(err, ShouldBeNil)
			So(exts, ShouldHaveLength, 1)
			So(exts[0].PkgName, ShouldEqual, "eu.kanade.md")
			So(c.ExtensionIconURL(exts[0].ApkName), ShouldEqual, srv.URL+"/api/v1/extension/icon/md.apk")
		})

		Convey("The source list should be cached until an extension changes", func() {
			_, err := c.Sources(ctx)
			So(err, ShouldBeNil)
			src, err := c.Source(ctx, mangadex)
			So(err, ShouldBeNil)
			So(src.Name, ShouldEqual, "MangaDex")
			So(fake.count("/api/v1/source/list"), ShouldEqual, 1)

			So(c.ExtensionAction(ctx, "eu.kanade.md", Install), ShouldBeNil)
			_, err = c.Sources(ctx)
			So(err, ShouldBeNil)
			So(fake.count("/api/v1/source/list"), ShouldEqual, 2)
		})

		Convey("Unknown actions should be rejected before any request", func() {
			So(c.ExtensionAction(ctx, "eu.kanade.md", ExtensionAction("explode")), ShouldNotBeNil)
		})

		Convey("Popular and search listings should be decoded", func() {
			popular, err := c.Popular(ctx, mangadex, 1)
			So(err, ShouldBeNil)
			So(popular.HasNextPage, ShouldBeTrue)
			So(popular.MangaList[0].Title, ShouldEqual, "Berserk")

			found, err := c.Search(ctx, mangadex, "vinland", 2)
			So(err, ShouldBeNil)
			So(found.MangaList, ShouldBeEmpty)
			So(found.HasNextPage, ShouldBeFalse)
		})

		Convey("Manga details should be fetched once initialized", func() {
			_, err := c.Popular(ctx, mangadex, 1)
			So(err, ShouldBeNil)

			m, err := c.Manga(ctx, 7)
			So(err, ShouldBeNil)
			So(m.Author, ShouldEqual, "Miura")

			_, err = c.Manga(ctx, 7)
			So(err, ShouldBeNil)
			So(fake.count("/api/v1/manga/7"), ShouldEqual, 1)
		})

		Convey("Latest listings and filters should be decoded", func() {
			latest, err := c.Latest(ctx, mangadex, 1)
			So(err, ShouldBeNil)
			So(latest.MangaList[0].Title, ShouldEqual, "Dandadan")
			So(c.ThumbnailURL(8), ShouldEqual, srv.URL+"/api/v1/manga/8/thumbnail")

			filters, err := c.SourceFilters(ctx, mangadex)
			So(err, ShouldBeNil)
			So(lo.Map(filters, func(f SourceFilter, _ int) string { return f.Filter.Name }), ShouldResemble, []string{"Sort", "Author"})
		})

		Convey("Chapters and pages should be addressed by index", func() {
			chapters, err := c.Chapters(ctx, 7)
			So(err, ShouldBeNil)
			So(chapters, ShouldHaveLength, 2)

			ch, err := c.Chapter(ctx, 7, 2)
			So(err, ShouldBeNil)
			So(ch.PageCount, ShouldEqual, 18)
			So(c.PageURL(7, 2, 0), ShouldEqual, srv.URL+"/api/v1/manga/7/chapter/2/page/0")
		})
	})
}

package anilist

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/thrombe/kolekk/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

type request struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables"`
}

const searchAnswer = `{"data": {"Page": {
  "pageInfo": {"total": 31, "currentPage": 1, "lastPage": 2, "hasNextPage": true, "perPage": 30},
  "media": [
    {"id": 20, "title": {"romaji": "Naruto", "english": "Naruto"}, "startDate": {"year": 2002}},
    {"id": 21, "title": {"romaji": "One Piece"}}
  ]
}}}`

func fakeAnilist(hits *atomic.Int32, got *request, answer string, status int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		_ = json.NewDecoder(r.Body).Decode(got)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(answer))
	}))
}

func TestSearchPage(t *testing.T) {
	Convey("Given a fake Anilist", t, func() {
		var hits atomic.Int32
		var got request
		srv := fakeAnilist(&hits, &got, searchAnswer, http.StatusOK)
		defer srv.Close()

		c := New(WithBaseURL(srv.URL), WithoutCache())

		Convey("A text query should sort by match and carry the page", func() {
			page, err := c.SearchPage(context.Background(), "  NARUTO ", 2)
			So(err, ShouldBeNil)
			So(got.Variables["search"], ShouldEqual, "naruto")
			So(got.Variables["page"], ShouldEqual, float64(2))
			So(got.Variables["sort"], ShouldResemble, []any{"SEARCH_MATCH"})
			So(page.PageInfo.HasNextPage, ShouldBeTrue)
			So(lo.Map(page.Media, func(a *Anime, _ int) int { return a.ID }), ShouldResemble, []int{20, 21})
		})

		Convey("An empty query should list by popularity", func() {
			_, err := c.SearchPage(context.Background(), "", 0)
			So(err, ShouldBeNil)
			_, hasSearch := got.Variables["search"]
			So(hasSearch, ShouldBeFalse)
			So(got.Variables["page"], ShouldEqual, float64(1))
			So(got.Variables["sort"], ShouldResemble, []any{"POPULARITY_DESC"})
		})

		Convey("Names should fall back to romaji", func() {
			page, err := c.SearchPage(context.Background(), "x", 1)
			So(err, ShouldBeNil)
			So(page.Media[0].Name(), ShouldEqual, "Naruto")
			So(page.Media[0].Year(), ShouldEqual, "2002")
			So(page.Media[1].Name(), ShouldEqual, "One Piece")
			So(page.Media[1].Year(), ShouldEqual, "")
		})
	})

	Convey("Given a cached client", t, func() {
		var hits atomic.Int32
		var got request
		srv := fakeAnilist(&hits, &got, searchAnswer, http.StatusOK)
		defer srv.Close()

		c := New(WithBaseURL(srv.URL))

		Convey("The same page should be served from the cache the second time", func() {
			first, err := c.SearchPage(context.Background(), "cache test", 1)
			So(err, ShouldBeNil)
			second, err := c.SearchPage(context.Background(), "Cache  Test", 1)
			So(err, ShouldBeNil)

			So(hits.Load(), ShouldEqual, 1)
			So(second.PageInfo, ShouldResemble, first.PageInfo)
			So(len(second.Media), ShouldEqual, 2)

			anime, err := c.GetByID(context.Background(), 21)
			So(err, ShouldBeNil)
			So(anime.Title.Romaji, ShouldEqual, "One Piece")
			So(hits.Load(), ShouldEqual, 1)
		})
	})
}

func TestGetByID(t *testing.T) {
	Convey("Given a fake Anilist answering with an error", t, func() {
		var hits atomic.Int32
		var got request
		srv := fakeAnilist(&hits, &got, `{"data": {"Media": null}, "errors": [{"message": "Not Found.", "status": 404}]}`, http.StatusNotFound)
		defer srv.Close()

		c := New(WithBaseURL(srv.URL), WithoutCache())

		Convey("GetByID should report ErrNotFound", func() {
			_, err := c.GetByID(context.Background(), 99)
			So(errors.Is(err, ErrNotFound), ShouldBeTrue)
			So(got.Variables["id"], ShouldEqual, float64(99))
		})
	})

	Convey("Given a fake Anilist with a GraphQL error and status 200", t, func() {
		var hits atomic.Int32
		var got request
		srv := fakeAnilist(&hits, &got, `{"errors": [{"message": "rate limited", "status": 429}]}`, http.StatusOK)
		defer srv.Close()

		Convey("The message should surface as the error", func() {
			_, err := New(WithBaseURL(srv.URL), WithoutCache()).SearchPage(context.Background(), "x", 1)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "rate limited")
		})
	})
}

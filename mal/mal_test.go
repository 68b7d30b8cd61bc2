package mal

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/thrombe/kolekk/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

const listAnswer = `{
  "data": [
    {"node": {"id": 5114, "title": "Fullmetal Alchemist: Brotherhood", "alternative_titles": {"en": "Fullmetal Alchemist: Brotherhood"}}, "ranking": {"rank": 1}},
    {"node": {"id": 9253, "title": "Steins;Gate", "main_picture": {"medium": "m.jpg", "large": "l.jpg"}}, "ranking": {"rank": 2}}
  ],
  "paging": {"next": "https://api.myanimelist.net/v2/anime/ranking?offset=2"}
}`

type captured struct {
	path   string
	query  url.Values
	client string
}

func fakeMAL(got *captured, answer string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got.path = r.URL.Path
		got.query = r.URL.Query()
		got.client = r.Header.Get("X-MAL-CLIENT-ID")
		_, _ = w.Write([]byte(answer))
	}))
}

func TestListings(t *testing.T) {
	Convey("Given a fake MAL", t, func() {
		var got captured
		srv := fakeMAL(&got, listAnswer)
		defer srv.Close()

		c := New("client", WithBaseURL(srv.URL))
		ctx := context.Background()

		Convey("Search should send the query with limit and offset", func() {
			page, err := c.Search(ctx, "steins", 2, 40)
			So(err, ShouldBeNil)
			So(got.path, ShouldEqual, "/anime")
			So(got.query.Get("q"), ShouldEqual, "steins")
			So(got.query.Get("limit"), ShouldEqual, "2")
			So(got.query.Get("offset"), ShouldEqual, "40")
			So(got.query.Get("fields"), ShouldEqual, Fields)
			So(got.client, ShouldEqual, "client")

			So(page.HasNext, ShouldBeTrue)
			So(lo.Map(page.Anime, func(a Anime, _ int) int { return a.ID }), ShouldResemble, []int{5114, 9253})
		})

		Convey("Short queries should fall back to the popularity ranking", func() {
			_, err := c.Search(ctx, "ab", 10, 0)
			So(err, ShouldBeNil)
			So(got.path, ShouldEqual, "/anime/ranking")
			So(got.query.Get("ranking_type"), ShouldEqual, "bypopularity")
		})

		Convey("Limits should be clamped", func() {
			_, err := c.Ranking(ctx, "all", 500, -3)
			So(err, ShouldBeNil)
			So(got.query.Get("limit"), ShouldEqual, "100")
			So(got.query.Get("offset"), ShouldEqual, "0")
		})

		Convey("Seasonal should address the season path", func() {
			_, err := c.Seasonal(ctx, Season{Year: 2009, Season: "spring"}, 10, 0)
			So(err, ShouldBeNil)
			So(got.path, ShouldEqual, "/anime/season/2009/spring")
			So(got.query.Get("sort"), ShouldEqual, "anime_num_list_users")

			_, err = c.Seasonal(ctx, Season{Year: 2009, Season: "monsoon"}, 10, 0)
			So(err, ShouldNotBeNil)
		})

		Convey("Listed anime should be served from the cache", func() {
			_, err := c.Search(ctx, "steins", 2, 0)
			So(err, ShouldBeNil)

			got = captured{}
			anime, err := c.Anime(ctx, 9253)
			So(err, ShouldBeNil)
			So(anime.Name(), ShouldEqual, "Steins;Gate")
			So(anime.MainPicture.Large, ShouldEqual, "l.jpg")
			So(anime.URL(), ShouldEqual, "https://myanimelist.net/anime/9253")
			So(got.path, ShouldBeEmpty)
		})
	})

	Convey("Given the last page", t, func() {
		var got captured
		srv := fakeMAL(&got, `{"data": [{"node": {"id": 1, "title": "x"}}], "paging": {}}`)
		defer srv.Close()

		Convey("HasNext should be false", func() {
			page, err := New("client", WithBaseURL(srv.URL)).Ranking(context.Background(), "all", 10, 0)
			So(err, ShouldBeNil)
			So(page.HasNext, ShouldBeFalse)
			So(len(page.Anime), ShouldEqual, 1)
		})
	})

	Convey("A client without an id should refuse to list", t, func() {
		_, err := New("").Ranking(context.Background(), "all", 10, 0)
		So(errors.Is(err, ErrNoClientID), ShouldBeTrue)
	})
}

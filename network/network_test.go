package network

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sony/gobreaker"
	. "github.com/smartystreets/goconvey/convey"
)

func TestGetJSON(t *testing.T) {
	Convey("Given a catalog answering JSON", t, func() {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Header.Get("X-Key") != "secret" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			_, _ = w.Write([]byte(`{"page":1,"results":["a","b"]}`))
		}))
		defer srv.Close()

		Convey("It should decode the body", func() {
			var out struct {
				Page    int      `json:"page"`
				Results []string `json:"results"`
			}
			err := GetJSON(context.Background(), srv.URL, http.Header{"X-Key": {"secret"}}, &out)
			So(err, ShouldBeNil)
			So(out.Page, ShouldEqual, 1)
			So(out.Results, ShouldResemble, []string{"a", "b"})
		})

		Convey("A 4xx should surface as a StatusError", func() {
			err := GetJSON(context.Background(), srv.URL, nil, &struct{}{})
			So(errors.Is(err, ErrStatus), ShouldBeTrue)

			var status *StatusError
			So(errors.As(err, &status), ShouldBeTrue)
			So(status.Code, ShouldEqual, http.StatusUnauthorized)
		})
	})
}

func TestBreaker(t *testing.T) {
	Convey("Given a catalog that keeps failing", t, func() {
		var hits atomic.Int32
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadGateway)
		}))
		defer srv.Close()

		Convey("The breaker should open and stop hitting the host", func() {
			for range 5 {
				err := GetJSON(context.Background(), srv.URL, nil, nil)
				So(errors.Is(err, ErrStatus), ShouldBeTrue)
			}
			So(hits.Load(), ShouldEqual, 5)

			err := GetJSON(context.Background(), srv.URL, nil, nil)
			So(errors.Is(err, gobreaker.ErrOpenState), ShouldBeTrue)
			So(hits.Load(), ShouldEqual, 5)
		})
	})
}

func TestPostJSON(t *testing.T) {
	Convey("PostJSON should send a JSON body", t, func() {
		var method, contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			method, contentType = r.Method, r.Header.Get("Content-Type")
			_, _ = w.Write([]byte(`{"ok":true}`))
		}))
		defer srv.Close()

		var out struct{ OK bool }
		So(PostJSON(context.Background(), srv.URL, nil, map[string]string{"q": "x"}, &out), ShouldBeNil)
		So(out.OK, ShouldBeTrue)
		So(method, ShouldEqual, http.MethodPost)
		So(contentType, ShouldEqual, "application/json")
	})
}

package search

import (
	"context"
	"errors"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func ids(items []item) []int {
	return lo.Map(items, func(i item, _ int) int { return i.ID })
}

func TestSessionPaging(t *testing.T) {
	ctx := context.Background()

	Convey("Given an offset session over a store with 80 items and page size 50", t, func() {
		backend := newCatalog(50, false, 0)
		backend.total["x"] = 80
		s := New[item](backend, Offset())

		Convey("When two pages are fetched", func() {
			_, err := s.SetQuery(ctx, "x")
			So(err, ShouldBeNil)
			So(s.Cursor(), ShouldEqual, 50)

			second, err := s.NextPage(ctx)
			So(err, ShouldBeNil)

			Convey("Then results accumulate and the query is exhausted", func() {
				So(len(second), ShouldEqual, 30)
				So(len(s.Results()), ShouldEqual, 80)
				So(s.Cursor(), ShouldEqual, 80)
				So(s.HasNextPage(), ShouldBeFalse)
				So(s.Valid(), ShouldBeTrue)
			})

			Convey("Then further pages are empty and touch nothing", func() {
				calls := backend.callCount()
				for range 3 {
					page, err := s.NextPage(ctx)
					So(err, ShouldBeNil)
					So(page, ShouldBeEmpty)
				}
				So(backend.callCount(), ShouldEqual, calls)
				So(s.Cursor(), ShouldEqual, 80)
				So(len(s.Results()), ShouldEqual, 80)
			})
		})
	})

	Convey("Given a page session starting at 1", t, func() {
		backend := newCatalog(10, true, 1)
		backend.total["q"] = 35
		s := New[item](backend, Pages(1))

		Convey("The cursor should move by one per fetch", func() {
			_, err := s.SetQuery(ctx, "q")
			So(err, ShouldBeNil)
			So(s.Cursor(), ShouldEqual, 2)

			for s.HasNextPage() {
				_, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
			}

			So(backend.calls, ShouldResemble, []int{1, 2, 3, 4})
			So(s.Cursor(), ShouldEqual, 5)
			So(len(s.Results()), ShouldEqual, 35)
		})
	})
}

func TestSessionSkipped(t *testing.T) {
	ctx := context.Background()

	Convey("Given an offset backend that drops odd items but reports them as skipped", t, func() {
		var offsets []int
		backend := AdapterFunc[item](func(_ context.Context, _ string, cursor int) (Page[item], error) {
			offsets = append(offsets, cursor)
			var page Page[item]
			for i := cursor; i < 6 && i < cursor+2; i++ {
				if i%2 == 1 {
					page.Skipped++
					continue
				}
				page.Items = append(page.Items, item{ID: i})
			}
			page.HasNext = cursor+2 < 6
			return page, nil
		})
		s := New[item](backend, Offset())

		Convey("The cursor moves past skipped items and nothing repeats", func() {
			_, err := s.SetQuery(ctx, "")
			So(err, ShouldBeNil)
			for s.HasNextPage() {
				_, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
			}
			So(ids(s.Results()), ShouldResemble, []int{0, 2, 4})
			So(offsets, ShouldResemble, []int{0, 2, 4})
			So(s.Cursor(), ShouldEqual, 6)
		})
	})
}

func TestSessionQuery(t *testing.T) {
	ctx := context.Background()

	Convey("Given a session that already served query x", t, func() {
		backend := newCatalog(5, false, 0)
		backend.total["x"] = 12
		backend.total["y"] = 3
		s := New[item](backend, Offset())

		_, err := s.SetQuery(ctx, "x")
		So(err, ShouldBeNil)
		_, err = s.NextPage(ctx)
		So(err, ShouldBeNil)

		Convey("When query y is applied", func() {
			page, err := s.SetQuery(ctx, "y")
			So(err, ShouldBeNil)

			Convey("Then only y's first page remains", func() {
				So(len(page), ShouldEqual, 3)
				So(s.Query(), ShouldEqual, "y")
				So(s.Cursor(), ShouldEqual, 3)
				for _, r := range s.Results() {
					So(r.Query, ShouldEqual, "y")
				}
				So(len(s.Results()), ShouldEqual, 3)
			})
		})

		Convey("When the session is reset", func() {
			s.ResetSearch()

			Convey("Then every piece of state is back to its initial value", func() {
				So(s.Query(), ShouldEqual, "")
				So(s.HasNextPage(), ShouldBeTrue)
				So(s.Cursor(), ShouldEqual, 0)
				So(s.Results(), ShouldBeEmpty)
				So(s.Valid(), ShouldBeFalse)
			})
		})
	})
}

func TestSessionFailures(t *testing.T) {
	ctx := context.Background()

	Convey("Given a session with one page loaded", t, func() {
		backend := newCatalog(5, false, 0)
		backend.total["x"] = 12
		s := New[item](backend, Offset())
		_, err := s.SetQuery(ctx, "x")
		So(err, ShouldBeNil)

		Convey("When the backend fails", func() {
			backend.fail = true
			_, err := s.NextPage(ctx)

			Convey("Then the error propagates and nothing changes", func() {
				So(errors.Is(err, errBackend), ShouldBeTrue)
				So(s.Cursor(), ShouldEqual, 5)
				So(s.HasNextPage(), ShouldBeTrue)
				So(s.Valid(), ShouldBeTrue)
				So(len(s.Results()), ShouldEqual, 5)
			})

			Convey("Then a retry after recovery continues where it left off", func() {
				backend.fail = false
				page, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
				So(ids(page), ShouldResemble, []int{5, 6, 7, 8, 9})
			})
		})

		Convey("When results are invalidated and the refetch fails", func() {
			_, err := s.NextPage(ctx)
			So(err, ShouldBeNil)
			s.Invalidate()
			backend.fail = true
			_, err = s.NextPage(ctx)

			Convey("Then the cached list and cursor survive", func() {
				So(err, ShouldNotBeNil)
				So(s.Valid(), ShouldBeFalse)
				So(len(s.Results()), ShouldEqual, 10)
				So(s.Cursor(), ShouldEqual, 10)
			})
		})
	})
}

func TestSessionInvalidate(t *testing.T) {
	ctx := context.Background()

	Convey("Given an insertable session with two pages loaded", t, func() {
		backend := &insertable{catalog: newCatalog(5, false, 0)}
		backend.total[""] = 12
		s := New[item](backend, Offset())

		updates := 0
		s.OnUpdate(func() { updates++ })

		_, err := s.NextPage(ctx)
		So(err, ShouldBeNil)
		_, err = s.NextPage(ctx)
		So(err, ShouldBeNil)
		So(updates, ShouldEqual, 2)

		Convey("When invalidated", func() {
			s.Invalidate()

			Convey("Then results stay until the next fetch", func() {
				So(len(s.Results()), ShouldEqual, 10)
				So(s.Valid(), ShouldBeFalse)
			})

			Convey("Then the next fetch restarts from the first page and replaces", func() {
				page, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
				So(ids(page), ShouldResemble, []int{0, 1, 2, 3, 4})
				So(ids(s.Results()), ShouldResemble, []int{0, 1, 2, 3, 4})
				So(s.Cursor(), ShouldEqual, 5)
				So(s.Valid(), ShouldBeTrue)
				So(updates, ShouldEqual, 3)
			})
		})

		Convey("When items are inserted", func() {
			err := s.Insert(ctx, item{ID: 100}, item{ID: 101})
			So(err, ShouldBeNil)

			Convey("Then the cache is invalidated so a reload sees them", func() {
				So(s.Valid(), ShouldBeFalse)
				So(len(backend.added), ShouldEqual, 2)

				_, err := s.NextPage(ctx)
				So(err, ShouldBeNil)
				for s.HasNextPage() {
					_, err := s.NextPage(ctx)
					So(err, ShouldBeNil)
				}
				So(len(s.Results()), ShouldEqual, 14)
			})
		})

		Convey("When the exhausted session is invalidated", func() {
			_, err := s.NextPage(ctx)
			So(err, ShouldBeNil)
			So(s.HasNextPage(), ShouldBeFalse)

			s.Invalidate()
			page, err := s.NextPage(ctx)

			Convey("Then the refetch still happens", func() {
				So(err, ShouldBeNil)
				So(len(page), ShouldEqual, 5)
				So(s.HasNextPage(), ShouldBeTrue)
			})
		})
	})

	Convey("Given a session whose backend forbids inserts", t, func() {
		s := New[item](newCatalog(5, false, 0), Offset())

		Convey("Insert should fail loudly with ErrUnsupported", func() {
			err := s.Insert(context.Background(), item{ID: 1})
			So(errors.Is(err, ErrUnsupported), ShouldBeTrue)
			So(errors.Is(err, errors.ErrUnsupported), ShouldBeTrue)
		})
	})
}

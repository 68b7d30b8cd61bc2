package query

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/key"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestQuery(t *testing.T) {
	Convey("Given query history for two kinds", t, func() {
		viper.Set(key.SearchShowQuerySuggestions, true)
		So(Forget(""), ShouldBeNil)

		So(Remember("anime", "naruto", 1), ShouldBeNil)
		So(Remember("anime", "bleach", 10), ShouldBeNil)
		So(Remember("anime", "Black Clover", 2), ShouldBeNil)
		So(Remember("albums", "blackstar", 5), ShouldBeNil)

		Convey("Suggestions should stay within the kind, sorted by rank", func() {
			So(SuggestMany("anime", "bl"), ShouldResemble, []string{"bleach", "black clover"})
			So(SuggestMany("albums", "bl"), ShouldResemble, []string{"blackstar"})
		})

		Convey("Remembering again should raise the rank and refresh suggestions", func() {
			So(SuggestMany("anime", "bl")[0], ShouldEqual, "bleach")
			So(Remember("anime", "black clover", 20), ShouldBeNil)
			So(Suggest("anime", "bl").MustGet(), ShouldEqual, "black clover")
		})

		Convey("Empty queries should not be remembered", func() {
			So(Remember("anime", "   ", 1), ShouldBeNil)
			So(SuggestMany("anime", ""), ShouldNotContain, "")
		})

		Convey("Forgetting a kind should leave the others", func() {
			So(Forget("anime"), ShouldBeNil)
			So(Suggest("anime", "bl").IsAbsent(), ShouldBeTrue)
			So(SuggestMany("albums", "bl"), ShouldResemble, []string{"blackstar"})
		})

		Convey("Disabled suggestions should yield nothing", func() {
			viper.Set(key.SearchShowQuerySuggestions, false)
			So(SuggestMany("anime", "bl"), ShouldBeEmpty)
		})
	})

	Convey("It sanitizes input", t, func() {
		So(sanitize("  NARUTO  "), ShouldEqual, "naruto")
	})
}

package icon

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/key"
)

func TestGet(t *testing.T) {
	Convey("Every icon should have a glyph in every variant", t, func() {
		for i := range icons {
			for _, v := range AvailableVariants() {
				viper.Set(key.IconsVariant, v)
				So(Get(i), ShouldNotBeEmpty)
			}
		}
	})

	Convey("The plain variant should stay ASCII", t, func() {
		viper.Set(key.IconsVariant, "plain")
		So(Get(Fail), ShouldEqual, "x")
		So(Get(Link), ShouldEqual, "->")
	})

	Convey("An unknown variant should render nothing", t, func() {
		viper.Set(key.IconsVariant, "braille")
		So(Get(Search), ShouldBeEmpty)
	})
}

package auth

import (
	"errors"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/key"
	"github.com/zalando/go-keyring"
)

func TestCredentials(t *testing.T) {
	Convey("Given a mocked keyring", t, func() {
		keyring.MockInit()
		viper.Reset()

		Convey("Nothing should be known at first", func() {
			So(Get(TMDB), ShouldBeEmpty)
			So(Source(TMDB), ShouldBeEmpty)
		})

		Convey("The config value should be used without a keyring entry", func() {
			viper.Set(key.LastFMAPIKey, "from-config")
			So(Get(LastFM), ShouldEqual, "from-config")
			So(Source(LastFM), ShouldEqual, "config")

			Convey("And the keyring should win once set", func() {
				So(Set(LastFM, "from-keyring"), ShouldBeNil)
				So(Get(LastFM), ShouldEqual, "from-keyring")
				So(Source(LastFM), ShouldEqual, "keyring")

				So(Delete(LastFM), ShouldBeNil)
				So(Get(LastFM), ShouldEqual, "from-config")
			})
		})

		Convey("Deleting a missing secret should succeed", func() {
			So(Delete(MAL), ShouldBeNil)
		})
	})

	Convey("Service names should be validated", t, func() {
		s, err := ParseService("mal")
		So(err, ShouldBeNil)
		So(s, ShouldEqual, MAL)

		_, err = ParseService("netflix")
		So(errors.Is(err, ErrUnknownService), ShouldBeTrue)
	})
}

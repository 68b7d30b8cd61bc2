package log

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/spf13/viper"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/key"
	"github.com/thrombe/kolekk/where"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestSetup(t *testing.T) {
	Convey("Given logging is disabled", t, func() {
		viper.Set(key.LogsWrite, false)
		So(Setup(), ShouldBeNil)

		Convey("Nothing should be enabled and entries should be inert", func() {
			So(Enabled(), ShouldBeFalse)
			So(func() { WithFields(Fields{"kind": "tags"}).Info("ignored") }, ShouldNotPanic)
		})
	})

	Convey("Given logging is enabled", t, func() {
		viper.Set(key.LogsWrite, true)
		viper.Set(key.LogsLevel, "debug")
		defer viper.Set(key.LogsWrite, false)

		So(Setup(), ShouldBeNil)

		Convey("Today's log file should receive entries", func() {
			Infof("opened %s", "session")
			path := filepath.Join(where.Logs(), time.Now().Format("2006-01-02")+".log")
			So(lo.Must(filesystem.API().Exists(path)), ShouldBeTrue)
			So(string(lo.Must(filesystem.API().ReadFile(path))), ShouldContainSubstring, "opened session")
		})
	})
}

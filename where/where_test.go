package where

import (
	"path/filepath"
	"testing"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/thrombe/kolekk/filesystem"
)

func init() {
	filesystem.SetMemMapFs()
}

func TestPaths(t *testing.T) {
	Convey("Directory resolvers should create their directories", t, func() {
		for _, dir := range []func() string{Config, Cache, Logs, Sources, Data} {
			path := dir()
			So(path, ShouldNotBeEmpty)
			So(lo.Must(filesystem.API().IsDir(path)), ShouldBeTrue)
		}
	})

	Convey("Given a config path override", t, func() {
		custom := filepath.Join("/tmp", "kolekk-test-config")
		t.Setenv(EnvConfigPath, custom)

		Convey("Config and its children should live under it", func() {
			So(Config(), ShouldEqual, custom)
			So(Logs(), ShouldEqual, filepath.Join(custom, "logs"))
			So(filepath.Dir(Sources()), ShouldEqual, custom)
		})
	})

	Convey("Store files should sit next to each other in the data directory", t, func() {
		So(filepath.Dir(Store()), ShouldEqual, Data())
		So(filepath.Dir(StoreStamp()), ShouldEqual, Data())
		So(filepath.Ext(Queries()), ShouldEqual, ".json")
	})
}

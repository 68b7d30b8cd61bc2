package filesystem

import (
	"os"
	"testing"
	"time"

	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Should default to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Should switch to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")
		})
	})
}

func TestTouch(t *testing.T) {
	Convey("Given an in-memory filesystem", t, func() {
		SetMemMapFs()

		Convey("Touch should create missing files and parents", func() {
			So(Touch("/data/kolekk/store.stamp"), ShouldBeNil)
			So(lo.Must(API().Exists("/data/kolekk/store.stamp")), ShouldBeTrue)
		})

		Convey("Touch should move the modification time forward", func() {
			So(Touch("/stamp"), ShouldBeNil)
			old := time.Now().Add(-time.Hour)
			So(API().Chtimes("/stamp", old, old), ShouldBeNil)

			So(Touch("/stamp"), ShouldBeNil)
			info := lo.Must(API().Stat("/stamp"))
			So(info.ModTime(), ShouldHappenAfter, old)
		})

		Convey("WriteAtomic should leave no temp file behind", func() {
			So(WriteAtomic("/q.json", []byte(`{}`)), ShouldBeNil)
			So(lo.Must(API().ReadFile("/q.json")), ShouldResemble, []byte(`{}`))
			So(lo.Must(API().Exists("/q.json.tmp")), ShouldBeFalse)
		})
	})
}

func TestGache(t *testing.T) {
	Convey("Given the gache adapter over a memory fs", t, func() {
		SetMemMapFs()

		So(Gache.MkdirAll("/cache/kolekk", 0o755), ShouldBeNil)
		f, err := Gache.OpenFile("/cache/kolekk/queries.json", os.O_CREATE|os.O_WRONLY, 0o644)
		So(err, ShouldBeNil)
		_, err = f.Write([]byte("[]"))
		So(err, ShouldBeNil)
		So(f.Close(), ShouldBeNil)

		Convey("Writes land in the swapped fs", func() {
			So(lo.Must(API().ReadFile("/cache/kolekk/queries.json")), ShouldResemble, []byte("[]"))
		})
	})
}

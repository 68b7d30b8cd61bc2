package util

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/thrombe/kolekk/filesystem"
)

func TestSanitizeFilename(t *testing.T) {
	Convey("Given titles from a scripted source", t, func() {
		Convey("Unsafe runs collapse into a single underscore", func() {
			So(SanitizeFilename("Manga: Vol 1?"), ShouldEqual, "Manga_Vol_1")
			So(SanitizeFilename("a / b"), ShouldEqual, "a_b")
		})

		Convey("Leading and trailing marks are dropped", func() {
			So(SanitizeFilename("..-my-site_"), ShouldEqual, "my-site")
		})

		Convey("Safe names pass through", func() {
			So(SanitizeFilename("mangadex"), ShouldEqual, "mangadex")
		})
	})
}

func TestText(t *testing.T) {
	Convey("Quantify picks the noun by count", t, func() {
		So(Quantify(1, "tag", "tags"), ShouldEqual, "1 tag")
		So(Quantify(0, "tag", "tags"), ShouldEqual, "0 tags")
		So(Quantify(12, "tag", "tags"), ShouldEqual, "12 tags")
	})

	Convey("Capitalize handles empty and multibyte input", t, func() {
		So(Capitalize("install"), ShouldEqual, "Install")
		So(Capitalize(""), ShouldEqual, "")
		So(Capitalize("émigré"), ShouldEqual, "Émigré")
	})

	Convey("Max returns the largest item or zero", t, func() {
		So(Max(3, 9, 4), ShouldEqual, 9)
		So(Max[int](), ShouldEqual, 0)
	})
}

func TestFiles(t *testing.T) {
	Convey("FileStem strips every extension", t, func() {
		So(FileStem("sources/site.lua"), ShouldEqual, "site")
		So(FileStem("site.min.lua"), ShouldEqual, "site")
		So(FileStem(".hidden"), ShouldEqual, ".hidden")
		So(FileStem("plain"), ShouldEqual, "plain")
	})

	Convey("Given an in-memory filesystem", t, func() {
		filesystem.SetMemMapFs()
		fs := filesystem.API()
		So(fs.WriteFile("/data/a/file.json", []byte("{}"), 0o644), ShouldBeNil)

		Convey("Delete removes single files", func() {
			So(Delete("/data/a/file.json"), ShouldBeNil)
			exists, _ := fs.Exists("/data/a/file.json")
			So(exists, ShouldBeFalse)
		})

		Convey("Delete removes whole directories", func() {
			So(Delete("/data"), ShouldBeNil)
			exists, _ := fs.DirExists("/data")
			So(exists, ShouldBeFalse)
		})

		Convey("Delete reports missing paths", func() {
			So(Delete("/nowhere"), ShouldNotBeNil)
		})
	})
}

func TestStack(t *testing.T) {
	Convey("Given a stack of frames", t, func() {
		var s Stack[string]
		s.Push("kinds")
		s.Push("mangas")

		So(s.Len(), ShouldEqual, 2)
		So(s.Pop(), ShouldEqual, "mangas")
		So(s.Pop(), ShouldEqual, "kinds")

		Convey("Popping an empty stack yields the zero value", func() {
			So(s.Pop(), ShouldEqual, "")
			So(s.Len(), ShouldEqual, 0)
		})

		Convey("Clear empties it", func() {
			s.Push("x")
			s.Clear()
			So(s.Len(), ShouldEqual, 0)
		})
	})
}

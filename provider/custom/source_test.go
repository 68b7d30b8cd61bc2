package custom

import (
	"context"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	"github.com/thrombe/kolekk/filesystem"
	"github.com/thrombe/kolekk/where"
)

func init() {
	filesystem.SetMemMapFs()
}

const script = `
Limit = 2

calls = 0

function Search(query, page)
	calls = calls + 1
	if page > 2 then
		return {}
	end
	local items = {}
	for i = 1, Limit do
		local n = (page - 1) * Limit + i
		items[i] = { title = query .. " " .. n, url = "https://example.com/" .. query .. "/" .. n }
	end
	return items
end
`

func writeScript(name, body string) string {
	path := filepath.Join(where.Sources(), name+".lua")
	So(filesystem.API().WriteFile(path, []byte(body), 0o644), ShouldBeNil)
	return path
}

func TestLoadSource(t *testing.T) {
	Convey("Given a script defining Search and Limit", t, func() {
		path := writeScript("numbers", script)

		src, err := LoadSource(path)
		So(err, ShouldBeNil)
		defer src.Close()

		Convey("Its metadata should come from the file and globals", func() {
			So(src.Name(), ShouldEqual, "numbers")
			So(src.ID(), ShouldEqual, "numbers custom")
			So(src.Limit(), ShouldEqual, 2)
		})

		Convey("Search should pass query and page", func() {
			items, err := src.Search(context.Background(), "q", 2)
			So(err, ShouldBeNil)
			So(len(items), ShouldEqual, 2)
			So(items[0].Title, ShouldEqual, "q 3")
			So(items[1].URL, ShouldEqual, "https://example.com/q/4")
		})

		Convey("Past the last page the script returns nothing", func() {
			items, err := src.Search(context.Background(), "q", 3)
			So(err, ShouldBeNil)
			So(items, ShouldBeEmpty)
		})
	})

	Convey("Given a script without Search", t, func() {
		path := writeScript("broken", `x = 1`)

		Convey("Loading should fail", func() {
			_, err := LoadSource(path)
			So(err, ShouldNotBeNil)
		})
	})

	Convey("Given a script whose Search raises", t, func() {
		path := writeScript("raising", `function Search(q, p) error("boom") end`)
		src, err := LoadSource(path)
		So(err, ShouldBeNil)
		defer src.Close()

		Convey("The error should reach the caller", func() {
			_, err := src.Search(context.Background(), "q", 1)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "boom")
		})
	})

	Convey("Given a script without Limit", t, func() {
		path := writeScript("unlimited", `function Search(q, p) return {} end`)
		src, err := LoadSource(path)
		So(err, ShouldBeNil)
		defer src.Close()

		So(src.Limit(), ShouldEqual, DefaultLimit)
	})
}

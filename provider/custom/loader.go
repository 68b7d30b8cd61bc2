// Package custom runs Lua catalog scripts.
//
// A script defines a global Search(query, page) returning an array of
// tables with title, url and the optional id, summary, cover and tags
// fields. It may set the global Limit to its page size.
package custom

import (
	"fmt"

	libs "github.com/metafates/mangal-lua-libs"
	"github.com/thrombe/kolekk/constant"
	"github.com/thrombe/kolekk/internal/scraper"
	"github.com/thrombe/kolekk/util"
	lua "github.com/yuin/gopher-lua"
)

// IDfromName returns the provider id of the script named name.
func IDfromName(name string) string {
	return name + " custom"
}

// LoadSource runs the script at path and checks it defines Search.
func LoadSource(path string) (*Source, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	if err := scraper.PreCompileAndLoad(state, path); err != nil {
		state.Close()
		return nil, err
	}

	name := util.FileStem(path)

	if state.GetGlobal(constant.SearchFn).Type() != lua.LTFunction {
		state.Close()
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.SearchFn, name)
	}

	limit := DefaultLimit
	if n, ok := state.GetGlobal(constant.PageLimitVar).(lua.LNumber); ok && n > 0 {
		limit = int(n)
	}

	return &Source{name: name, limit: limit, state: state}, nil
}

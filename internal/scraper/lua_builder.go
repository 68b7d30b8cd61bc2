// Package scraper compiles and refreshes Lua catalog scripts.
package scraper

import (
	"bytes"
	"sync"

	"github.com/thrombe/kolekk/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

type compiled struct {
	source []byte
	proto  *lua.FunctionProto
}

var bytecodeCache sync.Map

// PreCompileAndLoad runs the script at path inside L. The compiled prototype
// is reused for later states as long as the file content is unchanged.
func PreCompileAndLoad(L *lua.LState, path string) error {
	source, err := filesystem.API().ReadFile(path)
	if err != nil {
		return err
	}

	if cached, ok := bytecodeCache.Load(path); ok {
		if c := cached.(*compiled); bytes.Equal(c.source, source) {
			L.Push(L.NewFunctionFromProto(c.proto))
			return L.PCall(0, lua.MultRet, nil)
		}
	}

	chunk, err := parse.Parse(bytes.NewReader(source), path)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return err
	}

	bytecodeCache.Store(path, &compiled{source: source, proto: proto})

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

// Forget drops the compiled prototype of path.
func Forget(path string) {
	bytecodeCache.Delete(path)
}

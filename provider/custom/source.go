package custom

import (
	"context"
	"fmt"
	"sync"

	lua "github.com/yuin/gopher-lua"
)

// DefaultLimit is the page size assumed when a script does not set one.
const DefaultLimit = 20

// Source is a loaded Lua catalog. A Lua state is single threaded, so calls are serialized.
type Source struct {
	name  string
	limit int

	mu    sync.Mutex
	state *lua.LState
}

// Name returns the script name.
func (s *Source) Name() string {
	return s.name
}

// ID returns the provider id of the script.
func (s *Source) ID() string {
	return IDfromName(s.name)
}

// Limit is the number of items a full page holds.
func (s *Source) Limit() int {
	return s.limit
}

// Close releases the Lua state.
func (s *Source) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Close()
}

// call runs a global function and returns its single result, which must be of retType.
func (s *Source) call(ctx context.Context, fn string, retType lua.LValueType, args ...lua.LValue) (lua.LValue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	luaFn := s.state.GetGlobal(fn)
	if luaFn.Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is not defined", fn)
	}

	s.state.SetContext(ctx)
	defer s.state.RemoveContext()

	err := s.state.CallByParam(lua.P{
		Fn:      luaFn,
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}

	retval := s.state.Get(-1)
	s.state.Pop(1)

	if retval.Type() != retType {
		return nil, fmt.Errorf("%s: %s returned %s, expected %s", s.name, fn, retval.Type(), retType)
	}
	return retval, nil
}

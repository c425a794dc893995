// Package custom provides a bridge between the Go core and Lua-based provider scripts.
package custom

import (
	"fmt"
	"os"
	"sync"

	libs "github.com/metafates/mangal-lua-libs"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"

	"github.com/torii-cli/torii/constant"
	"github.com/torii-cli/torii/source"
	"github.com/torii-cli/torii/util"
)

// IDfromName generates a canonical provider identifier for a given Lua script basename.
func IDfromName(name string) string {
	return name + " custom"
}

// LoadSource initializes a new source.Source instance by executing and
// validating a Lua provider script.
func LoadSource(path string) (source.Source, error) {
	state := lua.NewState()
	libs.Preload(state)
	registerTLSClient(state)

	if err := compileAndRun(state, path); err != nil {
		return nil, err
	}

	name := util.FileStem(path)

	if state.GetGlobal(constant.SearchShowsFn).Type() != lua.LTFunction {
		return nil, fmt.Errorf("function %s is required but not defined in %s", constant.SearchShowsFn, name)
	}

	return newLuaSource(name, state), nil
}

var bytecodeCache sync.Map

// compileAndRun executes a Lua script within the provided state, keeping the
// compiled prototype so repeated loads skip parsing.
func compileAndRun(L *lua.LState, scriptPath string) error {
	if cached, exists := bytecodeCache.Load(scriptPath); exists {
		fn := L.NewFunctionFromProto(cached.(*lua.FunctionProto))
		L.Push(fn)
		return L.PCall(0, lua.MultRet, nil)
	}

	file, err := os.Open(scriptPath)
	if err != nil {
		return err
	}
	defer file.Close()

	chunk, err := parse.Parse(file, scriptPath)
	if err != nil {
		return err
	}

	proto, err := lua.Compile(chunk, scriptPath)
	if err != nil {
		return err
	}

	bytecodeCache.Store(scriptPath, proto)

	fn := L.NewFunctionFromProto(proto)
	L.Push(fn)
	return L.PCall(0, lua.MultRet, nil)
}

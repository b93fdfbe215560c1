package engine

import (
	"context"
	"strings"
	"time"

	"github.com/flarebyte/ngc-helper/internal/config"
	lua "github.com/yuin/gopher-lua"
)

// Lua evaluates Lua function chunks inside the sandboxed state.
type Lua struct {
	cfg config.LuaSandbox
	L   *lua.LState
}

// NewLua returns a Lua engine whose state only opens the allowlisted libs.
func NewLua(cfg config.LuaSandbox) *Lua {
	return &Lua{cfg: cfg, L: newSandboxLuaState(cfg)}
}

func (e *Lua) Name() string { return "lua" }

func (e *Lua) Wrap(params []string, body string) string {
	return "return function(" + strings.Join(params, ", ") + ") " + body + " end"
}

func (e *Lua) Compile(source string) (Function, error) {
	chunk, err := e.L.LoadString(source)
	if err != nil {
		return nil, luaException(err)
	}
	if err := e.L.CallByParam(lua.P{Fn: chunk, NRet: 1, Protect: true}); err != nil {
		return nil, luaException(err)
	}
	ret := e.L.Get(-1)
	e.L.Pop(1)
	fn, ok := ret.(*lua.LFunction)
	if !ok {
		return nil, &Exception{Message: "source does not evaluate to a function"}
	}
	e.L.SetFEnv(fn, e.L.G.Global)
	return &luaFunction{engine: e, fn: fn}, nil
}

// Global returns the sandbox global table (*lua.LTable).
func (e *Lua) Global() any { return e.L.G.Global }

func (e *Lua) Close() { e.L.Close() }

type luaFunction struct {
	engine *Lua
	fn     *lua.LFunction
}

func (f *luaFunction) Call(ctx context.Context, args []any) (any, error) {
	L := f.engine.L
	if ms := f.engine.cfg.TimeoutMs; ms > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(ms)*time.Millisecond)
		defer cancel()
	}
	if ctx.Done() != nil {
		L.SetContext(ctx)
		defer L.RemoveContext()
	}
	largs := make([]lua.LValue, len(args))
	for i, a := range args {
		largs[i] = toLValue(L, a)
	}
	if err := L.CallByParam(lua.P{Fn: f.fn, NRet: 1, Protect: true}, largs...); err != nil {
		return nil, luaException(err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return fromLValue(ret), nil
}

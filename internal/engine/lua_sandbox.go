package engine

import (
	"context"
	"errors"
	"strings"

	"github.com/flarebyte/ngc-helper/internal/config"
	lua "github.com/yuin/gopher-lua"
)

const (
	sandboxTimeoutViolation = "sandbox timeout"
	sandboxMemoryViolation  = "sandbox memory limit"
)

func newSandboxLuaState(cfg config.LuaSandbox) *lua.LState {
	opts := lua.Options{SkipOpenLibs: true}
	if cfg.MemoryLimitBytes > 0 {
		opts.RegistrySize = 256
		opts.RegistryMaxSize = registryMaxFromMemory(cfg.MemoryLimitBytes)
	}
	L := lua.NewState(opts)
	openLib := func(name string, f lua.LGFunction) {
		L.Push(L.NewFunction(f))
		L.Push(lua.LString(name))
		L.Call(1, 0)
	}
	if cfg.Libs.Base {
		openLib(lua.BaseLibName, lua.OpenBase)
	}
	if cfg.Libs.String {
		openLib(lua.StringLibName, lua.OpenString)
	}
	if cfg.Libs.Table {
		openLib(lua.TabLibName, lua.OpenTable)
	}
	if cfg.Libs.Math {
		openLib(lua.MathLibName, lua.OpenMath)
	}
	return L
}

func registryMaxFromMemory(memoryLimitBytes int) int {
	// Conservative best-effort: lower registry ceiling when memory limit is low.
	n := memoryLimitBytes / 64
	if n < 256 {
		n = 256
	}
	if n > 4096 {
		n = 4096
	}
	return n
}

func isTimeoutError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "deadline") || strings.Contains(msg, "context canceled")
}

func luaException(err error) *Exception {
	var apiErr *lua.ApiError
	if !errors.As(err, &apiErr) {
		return &Exception{Message: err.Error()}
	}
	out := &Exception{Message: apiErr.Error(), Stack: apiErr.StackTrace}
	if apiErr.Object != nil && apiErr.Object != lua.LNil {
		out.Message = apiErr.Object.String()
	}
	switch {
	case isTimeoutError(apiErr.Cause) || isTimeoutError(err):
		out.Message = sandboxTimeoutViolation
	case strings.Contains(strings.ToLower(out.Message), "registry overflow"):
		out.Message = sandboxMemoryViolation
	}
	return out
}

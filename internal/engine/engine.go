// Package engine compiles single-function sources and invokes them.
//
// An Engine owns one global execution context. Every Function it compiles
// is bound to that context as its receiver, the way an independently
// constructed function would be, rather than to any caller scope.
package engine

import (
	"context"
	"fmt"

	"github.com/flarebyte/ngc-helper/internal/config"
)

// Engine turns source text into invocable functions.
type Engine interface {
	// Name is the engine identifier recorded next to registered sources.
	Name() string
	// Wrap builds a complete, directly evaluable function source from a
	// parameter list and a raw statement body. The body is not validated.
	Wrap(params []string, body string) string
	// Compile evaluates source, which must yield a function.
	Compile(source string) (Function, error)
	// Global returns the shared execution context functions are bound to.
	Global() any
	Close()
}

// Function is a compiled unit invoked with positional arguments.
type Function interface {
	Call(ctx context.Context, args []any) (any, error)
}

// Exception is a failure raised while compiling or running a function.
type Exception struct {
	Message string
	Stack   string
}

func (e *Exception) Error() string { return e.Message }

// New returns the engine selected by cfg.Engine.
func New(cfg config.Runtime) (Engine, error) {
	switch cfg.Engine {
	case config.EngineJS, "":
		return NewJS(), nil
	case config.EngineLua:
		return NewLua(cfg.Lua), nil
	default:
		return nil, fmt.Errorf("unknown engine: %s", cfg.Engine)
	}
}

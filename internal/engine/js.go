package engine

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/dop251/goja"
)

// JS evaluates JavaScript function expressions with goja.
type JS struct {
	vm        *goja.Runtime
	stringify goja.Callable
}

// NewJS returns a JS engine with a fresh runtime.
func NewJS() *JS {
	vm := goja.New()
	stringify, _ := goja.AssertFunction(vm.Get("JSON").ToObject(vm).Get("stringify"))
	return &JS{vm: vm, stringify: stringify}
}

func (e *JS) Name() string { return "js" }

func (e *JS) Wrap(params []string, body string) string {
	return "(function anonymous(" + strings.Join(params, ", ") + ") { " + body + " })"
}

func (e *JS) Compile(source string) (Function, error) {
	v, err := e.vm.RunString(source)
	if err != nil {
		return nil, e.exception(err)
	}
	fn, ok := goja.AssertFunction(v)
	if !ok {
		return nil, &Exception{Message: "source does not evaluate to a function"}
	}
	return &jsFunction{engine: e, fn: fn}, nil
}

// Global returns the runtime's global object (*goja.Object).
func (e *JS) Global() any { return e.vm.GlobalObject() }

func (e *JS) Close() {}

func (e *JS) exception(err error) *Exception {
	var ex *goja.Exception
	if !errors.As(err, &ex) {
		return &Exception{Message: err.Error()}
	}
	out := &Exception{Message: ex.Error(), Stack: ex.String()}
	obj, ok := ex.Value().(*goja.Object)
	if !ok {
		if v := ex.Value(); v != nil {
			out.Message = v.String()
		}
		return out
	}
	if m := obj.Get("message"); m != nil && !goja.IsUndefined(m) {
		out.Message = m.String()
	}
	if s := obj.Get("stack"); s != nil && !goja.IsUndefined(s) && s.String() != "" {
		out.Stack = s.String()
		return out
	}
	// Syntax errors carry no stack of their own.
	out.Stack = obj.String()
	return out
}

type jsFunction struct {
	engine *JS
	fn     goja.Callable
}

func (f *jsFunction) Call(ctx context.Context, args []any) (any, error) {
	vm := f.engine.vm
	vals := make([]goja.Value, len(args))
	for i, a := range args {
		vals[i] = vm.ToValue(a)
	}
	if ctx.Done() != nil {
		stop := context.AfterFunc(ctx, func() { vm.Interrupt(ctx.Err()) })
		defer stop()
	}
	res, err := f.fn(vm.GlobalObject(), vals...)
	if err != nil {
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			vm.ClearInterrupt()
			return nil, &Exception{Message: interrupted.Error(), Stack: interrupted.String()}
		}
		return nil, f.engine.exception(err)
	}
	return f.engine.toJSON(res)
}

// toJSON converts v the way JSON.stringify sees it, so NaN and Infinity
// become nil, functions and undefined become nil, and dates become
// ISO strings.
func (e *JS) toJSON(v goja.Value) (any, error) {
	if v == nil || goja.IsUndefined(v) || goja.IsNull(v) {
		return nil, nil
	}
	s, err := e.stringify(goja.Undefined(), v)
	if err != nil {
		return nil, e.exception(err)
	}
	if goja.IsUndefined(s) {
		return nil, nil
	}
	var out any
	if err := json.Unmarshal([]byte(s.String()), &out); err != nil {
		return nil, &Exception{Message: err.Error()}
	}
	return out, nil
}

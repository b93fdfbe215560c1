// Package extract scans a source tree for decorated component classes and
// reports their metadata.
package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/flarebyte/ngc-helper/internal/ctxlog"
	"github.com/flarebyte/ngc-helper/internal/syntax"
)

// Component is the metadata recovered from one matching class decorator.
type Component struct {
	ClassName   string   `json:"className"`
	Selector    string   `json:"selector"`
	Template    *string  `json:"template,omitempty"`
	TemplateURL *string  `json:"templateUrl,omitempty"`
	Inputs      []string `json:"inputs"`
	Outputs     []string `json:"outputs"`
	FilePath    string   `json:"filePath"`
}

// Result is the output of one scan. Components and Errors keep visit order.
type Result struct {
	Components []Component `json:"components"`
	Errors     []string    `json:"errors"`
}

// NewResult returns an empty result whose slices encode as [] rather than null.
func NewResult() Result {
	return Result{Components: []Component{}, Errors: []string{}}
}

// WriteJSON writes r as two-space indented JSON.
func WriteJSON(w io.Writer, r Result) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Components returns one Component per decorator call on a class declaration
// whose callee is the identifier decorator. Records follow source order.
func Components(ctx context.Context, f *syntax.File, decorator, filePath string) []Component {
	v := visitor{log: ctxlog.FromContext(ctx), decorator: decorator, filePath: filePath}
	syntax.Inspect(f, v.visit)
	return v.out
}

type visitor struct {
	log       *slog.Logger
	decorator string
	filePath  string
	out       []Component
}

func (v *visitor) visit(n syntax.Node) bool {
	switch n := n.(type) {
	case *syntax.ClassDecl:
		v.class(n)
	case *syntax.File, *syntax.Call, *syntax.Ident, *syntax.StringLit,
		*syntax.ArrayLit, *syntax.ObjectLit, *syntax.Property, *syntax.Opaque:
	default:
		panic(fmt.Sprintf("extract: unhandled %s node %T", n.Kind(), n))
	}
	return true
}

func (v *visitor) class(c *syntax.ClassDecl) {
	for _, d := range c.Decorators {
		comp, ok := v.component(d)
		if !ok {
			continue
		}
		comp.ClassName = c.Name
		comp.FilePath = v.filePath
		v.log.Debug("component matched", "class", c.Name, "path", v.filePath,
			"line", c.Pos.Line, "column", c.Pos.Column)
		v.out = append(v.out, comp)
	}
}

func (v *visitor) component(d syntax.Node) (Component, bool) {
	call, ok := d.(*syntax.Call)
	if !ok {
		return Component{}, false
	}
	callee, ok := call.Callee.(*syntax.Ident)
	if !ok || callee.Name != v.decorator || len(call.Args) == 0 {
		return Component{}, false
	}
	obj, ok := call.Args[0].(*syntax.ObjectLit)
	if !ok {
		return Component{}, false
	}

	comp := Component{Inputs: []string{}, Outputs: []string{}}
	for _, p := range obj.Props {
		prop, ok := p.(*syntax.Property)
		if !ok {
			continue
		}
		switch prop.Key {
		case "selector":
			if s, ok := prop.Value.(*syntax.StringLit); ok {
				comp.Selector = s.Value
			}
		case "template":
			if s, ok := prop.Value.(*syntax.StringLit); ok {
				value := s.Value
				comp.Template = &value
			}
		case "templateUrl":
			if s, ok := prop.Value.(*syntax.StringLit); ok {
				value := s.Value
				comp.TemplateURL = &value
			}
		case "inputs":
			if arr, ok := prop.Value.(*syntax.ArrayLit); ok {
				comp.Inputs = stringElements(arr)
			}
		case "outputs":
			if arr, ok := prop.Value.(*syntax.ArrayLit); ok {
				comp.Outputs = stringElements(arr)
			}
		}
	}
	return comp, true
}

// stringElements keeps the string literal elements of arr and drops the rest.
func stringElements(arr *syntax.ArrayLit) []string {
	out := make([]string, 0, len(arr.Elements))
	for _, el := range arr.Elements {
		if s, ok := el.(*syntax.StringLit); ok {
			out = append(out, s.Value)
		}
	}
	return out
}

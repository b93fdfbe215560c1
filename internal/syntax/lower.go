package syntax

import (
	sitter "github.com/smacker/go-tree-sitter"
)

type lowerer struct {
	src []byte
}

func (l *lowerer) lower(n *sitter.Node) Node {
	switch n.Type() {
	case "class_declaration", "abstract_class_declaration":
		return l.class(n, nil)
	case "export_statement":
		return l.export(n)
	case "call_expression":
		return l.call(n)
	case "identifier":
		return &Ident{Name: n.Content(l.src)}
	case "string":
		return &StringLit{Value: decodeString(n, l.src)}
	case "array":
		return &ArrayLit{Elements: l.list(n)}
	case "object":
		return l.object(n)
	default:
		return &Opaque{Type: n.Type(), Items: l.list(n)}
	}
}

// list lowers the named children of n, dropping comments.
func (l *lowerer) list(n *sitter.Node) []Node {
	if n == nil {
		return nil
	}
	count := int(n.NamedChildCount())
	out := make([]Node, 0, count)
	for i := 0; i < count; i++ {
		ch := n.NamedChild(i)
		if ch == nil || ch.Type() == "comment" {
			continue
		}
		out = append(out, l.lower(ch))
	}
	return out
}

// export lowers an export statement. Decorators written before `export`
// belong to the exported class and come ahead of the class's own.
func (l *lowerer) export(n *sitter.Node) Node {
	out := &Opaque{Type: n.Type()}
	var decorators []*sitter.Node
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch == nil {
			continue
		}
		switch ch.Type() {
		case "comment":
		case "decorator":
			decorators = append(decorators, ch)
		case "class_declaration", "abstract_class_declaration", "class":
			out.Items = append(out.Items, l.class(ch, decorators))
			decorators = nil
		default:
			out.Items = append(out.Items, l.lower(ch))
		}
	}
	return out
}

func (l *lowerer) class(n *sitter.Node, inherited []*sitter.Node) *ClassDecl {
	c := &ClassDecl{Name: "Unknown", Pos: position(n)}
	if name := n.ChildByFieldName("name"); name != nil {
		c.Name = name.Content(l.src)
	}
	for _, d := range inherited {
		if expr := l.decorator(d); expr != nil {
			c.Decorators = append(c.Decorators, expr)
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch == nil {
			continue
		}
		switch ch.Type() {
		case "comment", "type_identifier", "identifier":
		case "decorator":
			if expr := l.decorator(ch); expr != nil {
				c.Decorators = append(c.Decorators, expr)
			}
		case "class_body":
			c.Members = append(c.Members, l.list(ch)...)
		default:
			c.Members = append(c.Members, l.lower(ch))
		}
	}
	return c
}

// decorator returns the lowered expression following '@'.
func (l *lowerer) decorator(n *sitter.Node) Node {
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch == nil || ch.Type() == "comment" {
			continue
		}
		return l.lower(ch)
	}
	return nil
}

func (l *lowerer) call(n *sitter.Node) Node {
	c := &Call{}
	if fn := n.ChildByFieldName("function"); fn != nil {
		c.Callee = l.lower(fn)
	}
	args := n.ChildByFieldName("arguments")
	switch {
	case args == nil:
	case args.Type() == "arguments":
		c.Args = l.list(args)
	default:
		// Tagged template: keep it reachable, it is never a config object.
		c.Args = []Node{l.lower(args)}
	}
	return c
}

func (l *lowerer) object(n *sitter.Node) Node {
	o := &ObjectLit{}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch == nil {
			continue
		}
		switch ch.Type() {
		case "comment":
		case "pair":
			o.Props = append(o.Props, l.pair(ch))
		default:
			o.Props = append(o.Props, l.lower(ch))
		}
	}
	return o
}

func (l *lowerer) pair(n *sitter.Node) Node {
	key := n.ChildByFieldName("key")
	value := n.ChildByFieldName("value")
	if key == nil || value == nil || key.Type() == "computed_property_name" {
		return &Opaque{Type: n.Type(), Items: l.list(n)}
	}
	return &Property{Key: key.Content(l.src), Value: l.lower(value)}
}

// Package syntax parses TypeScript sources with tree-sitter and lowers the
// concrete syntax tree into a small closed set of node variants. Consumers
// walk the result with a type switch instead of probing grammar node names.
package syntax

// Kind tags every node variant.
type Kind uint8

const (
	KindFile Kind = iota + 1
	KindClass
	KindCall
	KindIdent
	KindString
	KindArray
	KindObject
	KindProperty
	KindOpaque
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindClass:
		return "class"
	case KindCall:
		return "call"
	case KindIdent:
		return "ident"
	case KindString:
		return "string"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	case KindProperty:
		return "property"
	case KindOpaque:
		return "opaque"
	default:
		return "unknown"
	}
}

// Node is implemented only by the variants in this file.
type Node interface {
	Kind() Kind
	// Children returns the nested nodes in source order.
	Children() []Node
	node()
}

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// File is the root of a lowered source file.
type File struct {
	Path string
	Body []Node
}

// ClassDecl is a class declaration with its class-level decorators.
// Decorators holds the decorator expressions (without the leading '@'),
// in source order.
type ClassDecl struct {
	Name       string
	Pos        Pos
	Decorators []Node
	Members    []Node
}

// Call is a call expression.
type Call struct {
	Callee Node
	Args   []Node
}

// Ident is a bare identifier.
type Ident struct {
	Name string
}

// StringLit is a quoted string literal with escapes decoded.
// Template strings are not StringLit.
type StringLit struct {
	Value string
}

// ArrayLit is an array literal.
type ArrayLit struct {
	Elements []Node
}

// ObjectLit is an object literal. Props keeps every entry; only plain
// key: value pairs are *Property, the rest are *Opaque.
type ObjectLit struct {
	Props []Node
}

// Property is a plain `key: value` pair. Key is the key's source text, so a
// quoted key keeps its quotes. Computed keys never become a Property.
type Property struct {
	Key   string
	Value Node
}

// Opaque stands for every grammar node the extractor has no use for. Its
// children are still lowered so nested declarations stay reachable.
type Opaque struct {
	Type  string
	Items []Node
}

func (*File) Kind() Kind      { return KindFile }
func (*ClassDecl) Kind() Kind { return KindClass }
func (*Call) Kind() Kind      { return KindCall }
func (*Ident) Kind() Kind     { return KindIdent }
func (*StringLit) Kind() Kind { return KindString }
func (*ArrayLit) Kind() Kind  { return KindArray }
func (*ObjectLit) Kind() Kind { return KindObject }
func (*Property) Kind() Kind  { return KindProperty }
func (*Opaque) Kind() Kind    { return KindOpaque }

func (n *File) Children() []Node { return n.Body }

func (n *ClassDecl) Children() []Node {
	out := make([]Node, 0, len(n.Decorators)+len(n.Members))
	out = append(out, n.Decorators...)
	return append(out, n.Members...)
}

func (n *Call) Children() []Node {
	out := make([]Node, 0, len(n.Args)+1)
	if n.Callee != nil {
		out = append(out, n.Callee)
	}
	return append(out, n.Args...)
}

func (*Ident) Children() []Node       { return nil }
func (*StringLit) Children() []Node   { return nil }
func (n *ArrayLit) Children() []Node  { return n.Elements }
func (n *ObjectLit) Children() []Node { return n.Props }

func (n *Property) Children() []Node {
	if n.Value == nil {
		return nil
	}
	return []Node{n.Value}
}

func (n *Opaque) Children() []Node { return n.Items }

func (*File) node()      {}
func (*ClassDecl) node() {}
func (*Call) node()      {}
func (*Ident) node()     {}
func (*StringLit) node() {}
func (*ArrayLit) node()  {}
func (*ObjectLit) node() {}
func (*Property) node()  {}
func (*Opaque) node()    {}

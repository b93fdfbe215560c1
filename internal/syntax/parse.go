package syntax

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"
)

// SyntaxError reports the first ERROR or MISSING node of a parsed file.
type SyntaxError struct {
	Pos Pos
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error at line %d, column %d", e.Pos.Line, e.Pos.Column)
}

// Parser parses TypeScript (and TSX) sources. A Parser is not safe for
// concurrent use; the underlying tree-sitter parsers are created lazily and
// reused across files.
type Parser struct {
	ts  *sitter.Parser
	tsx *sitter.Parser
}

// NewParser returns a Parser ready for use.
func NewParser() *Parser {
	return &Parser{}
}

// Close releases the tree-sitter parsers.
func (p *Parser) Close() {
	if p.ts != nil {
		p.ts.Close()
		p.ts = nil
	}
	if p.tsx != nil {
		p.tsx.Close()
		p.tsx = nil
	}
}

func (p *Parser) parserFor(path string) *sitter.Parser {
	if strings.EqualFold(filepath.Ext(path), ".tsx") {
		if p.tsx == nil {
			p.tsx = sitter.NewParser()
			p.tsx.SetLanguage(tsx.GetLanguage())
		}
		return p.tsx
	}
	if p.ts == nil {
		p.ts = sitter.NewParser()
		p.ts.SetLanguage(typescript.GetLanguage())
	}
	return p.ts
}

// Parse parses src and lowers it. A syntax error touching a class
// declaration or a decorator is returned as a *SyntaxError and no tree is
// produced. Errors anywhere else are tolerated: tree-sitter recovers around
// them and the rest of the file is still lowered.
func (p *Parser) Parse(ctx context.Context, path string, src []byte) (*File, error) {
	tree, err := p.parserFor(path).ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		if bad := classError(root, false); bad != nil {
			return nil, &SyntaxError{Pos: position(bad)}
		}
	}
	l := lowerer{src: src}
	return &File{Path: path, Body: l.list(root)}, nil
}

// classError returns the first ERROR or MISSING node that lies inside a
// class or decorator, or that swallowed class syntax during recovery.
func classError(n *sitter.Node, inClass bool) *sitter.Node {
	if isClassSyntax(n.Type()) {
		inClass = true
	}
	if n.Type() == "ERROR" || n.IsMissing() {
		if inClass || containsClassSyntax(n) {
			return n
		}
		return nil
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		ch := n.Child(i)
		if ch == nil || !(ch.HasError() || ch.IsMissing()) {
			continue
		}
		if bad := classError(ch, inClass); bad != nil {
			return bad
		}
	}
	return nil
}

// isClassSyntax matches class and decorator nodes as well as the bare
// `class` and `@` tokens left behind inside ERROR nodes.
func isClassSyntax(typ string) bool {
	switch typ {
	case "class_declaration", "abstract_class_declaration", "class", "decorator", "@":
		return true
	}
	return false
}

func containsClassSyntax(n *sitter.Node) bool {
	if isClassSyntax(n.Type()) {
		return true
	}
	for i := 0; i < int(n.ChildCount()); i++ {
		if ch := n.Child(i); ch != nil && containsClassSyntax(ch) {
			return true
		}
	}
	return false
}

func position(n *sitter.Node) Pos {
	pt := n.StartPoint()
	return Pos{Line: int(pt.Row) + 1, Column: int(pt.Column) + 1}
}

// Inspect traverses n depth-first in source order, calling f for each node.
// Children are skipped when f returns false.
func Inspect(n Node, f func(Node) bool) {
	if n == nil || !f(n) {
		return
	}
	for _, ch := range n.Children() {
		Inspect(ch, f)
	}
}

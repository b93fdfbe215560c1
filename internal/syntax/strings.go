package syntax

import (
	"strconv"
	"strings"
	"unicode/utf16"

	sitter "github.com/smacker/go-tree-sitter"
)

// decodeString returns the cooked value of a string literal node.
func decodeString(n *sitter.Node, src []byte) string {
	var b strings.Builder
	pending := rune(-1)
	flush := func() {
		if pending >= 0 {
			b.WriteRune(utf16.DecodeRune(pending, 0))
			pending = -1
		}
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		ch := n.NamedChild(i)
		if ch == nil {
			continue
		}
		text := ch.Content(src)
		if ch.Type() != "escape_sequence" {
			flush()
			b.WriteString(text)
			continue
		}
		r, ok := escapeRune(text)
		if !ok {
			flush()
			b.WriteString(unescapeSimple(text))
			continue
		}
		switch {
		case utf16.IsSurrogate(r) && r < 0xdc00:
			flush()
			pending = r
		case utf16.IsSurrogate(r) && pending >= 0:
			b.WriteRune(utf16.DecodeRune(pending, r))
			pending = -1
		default:
			flush()
			b.WriteRune(r)
		}
	}
	flush()
	return b.String()
}

// escapeRune decodes numeric escapes: \xHH, \uHHHH, \u{H+} and legacy octal.
func escapeRune(seq string) (rune, bool) {
	if len(seq) < 2 || seq[0] != '\\' {
		return 0, false
	}
	body := seq[1:]
	var digits string
	base := 16
	switch {
	case body[0] == 'x' && len(body) > 1:
		digits = body[1:]
	case body[0] == 'u' && len(body) > 1:
		digits = strings.TrimSuffix(strings.TrimPrefix(body[1:], "{"), "}")
	case body[0] >= '0' && body[0] <= '7':
		digits = body
		base = 8
	default:
		return 0, false
	}
	v, err := strconv.ParseUint(digits, base, 32)
	if err != nil || v > 0x10ffff {
		return 0, false
	}
	return rune(v), true
}

func unescapeSimple(seq string) string {
	if len(seq) < 2 || seq[0] != '\\' {
		return seq
	}
	body := seq[1:]
	switch body {
	case "n":
		return "\n"
	case "t":
		return "\t"
	case "r":
		return "\r"
	case "b":
		return "\b"
	case "f":
		return "\f"
	case "v":
		return "\v"
	case "\n", "\r", "\r\n", "\u2028", "\u2029":
		// line continuation
		return ""
	}
	return body
}

// Package patternparser turns pattern source text into a Pattern AST
// by running it through the same lexer and indentation tree builder
// documents use, then recognizing the three pattern-only productions:
// $NAME metavariables, ... ellipsis, and a trailing $END sentinel.
package patternparser

import (
	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/lexer"
	"github.com/structgrep/sgrep/internal/loc"
)

// Parse lexes and builds src, then rewrites the resulting tree's flat
// runs of Punct/Word atoms into Metavar, Dots and End atoms wherever
// they spell out one of the pattern-only productions. It panics if the
// result violates a pattern invariant (see ast.ValidatePattern) —
// malformed pattern syntax is a programmer error, never recovered.
func Parse(src []byte) []ast.Node {
	tokens := lexer.Lex(src)
	nodes := convertSeq(lexer.Build(tokens))
	ast.ValidatePattern(nodes)
	return nodes
}

func convertSeq(nodes []ast.Node) []ast.Node {
	out := make([]ast.Node, 0, len(nodes))
	i := 0
	for i < len(nodes) {
		if list, ok := nodes[i].(*ast.List); ok {
			out = append(out, &ast.List{Children: convertSeq(list.Children), Loc: list.Loc})
			i++
			continue
		}

		atom := nodes[i].(*ast.Atom)

		if dots, consumed := matchDots(nodes, i); consumed > 0 {
			out = append(out, dots)
			i += consumed
			continue
		}

		if mv, consumed := matchMetavar(nodes, i); consumed > 0 {
			out = append(out, mv)
			i += consumed
			continue
		}

		out = append(out, atom)
		i++
	}
	return out
}

// matchDots recognizes three adjacent Punct(".") atoms as a single
// Dots atom.
func matchDots(nodes []ast.Node, i int) (*ast.Atom, int) {
	if i+2 >= len(nodes) {
		return nil, 0
	}
	a, ok1 := nodes[i].(*ast.Atom)
	b, ok2 := nodes[i+1].(*ast.Atom)
	c, ok3 := nodes[i+2].(*ast.Atom)
	if !ok1 || !ok2 || !ok3 {
		return nil, 0
	}
	if !isDot(a) || !isDot(b) || !isDot(c) {
		return nil, 0
	}
	if !adjacent(a, b) || !adjacent(b, c) {
		return nil, 0
	}
	return ast.NewDots(loc.Join(a.Loc, c.Loc)), 3
}

func isDot(a *ast.Atom) bool {
	return a.Kind == ast.Punct && a.Text == "."
}

// matchMetavar recognizes a Punct("$") immediately followed by a Word
// spelling a valid metavariable name, producing either a Metavar atom
// or — for the reserved name "END" — an End atom.
func matchMetavar(nodes []ast.Node, i int) (*ast.Atom, int) {
	if i+1 >= len(nodes) {
		return nil, 0
	}
	dollar, ok1 := nodes[i].(*ast.Atom)
	word, ok2 := nodes[i+1].(*ast.Atom)
	if !ok1 || !ok2 {
		return nil, 0
	}
	if dollar.Kind != ast.Punct || dollar.Text != "$" || word.Kind != ast.Word {
		return nil, 0
	}
	if !adjacent(dollar, word) || !isMetavarName(word.Text) {
		return nil, 0
	}

	full := loc.Join(dollar.Loc, word.Loc)
	if word.Text == "END" {
		return ast.NewEnd(full), 2
	}
	return ast.NewMetavar(full, word.Text), 2
}

func isMetavarName(name string) bool {
	if name == "" {
		return false
	}
	first := name[0]
	if !(first >= 'A' && first <= 'Z') && first != '_' {
		return false
	}
	for i := 1; i < len(name); i++ {
		c := name[i]
		isUpper := c >= 'A' && c <= 'Z'
		isDigit := c >= '0' && c <= '9'
		if !isUpper && !isDigit && c != '_' {
			return false
		}
	}
	return true
}

// adjacent reports whether b's first byte immediately follows a's last
// byte, with no gap (both Loc ends are inclusive of their last byte).
func adjacent(a, b *ast.Atom) bool {
	return a.Loc.End.Offset+1 == b.Loc.Start.Offset
}

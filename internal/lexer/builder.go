package lexer

import (
	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/loc"
)

// line groups the tokens that share a source line, along with that
// line's indentation column (the column of its first token).
type line struct {
	indent int
	tokens []Token
}

func groupLines(tokens []Token) []line {
	var lines []line
	i := 0
	for i < len(tokens) {
		lineNo := tokens[i].Loc.Start.Line
		j := i
		for j < len(tokens) && tokens[j].Loc.Start.Line == lineNo {
			j++
		}
		lines = append(lines, line{indent: tokens[i].Loc.Start.Column, tokens: tokens[i:j]})
		i = j
	}
	return lines
}

// Build groups a flat token stream into the Document AST: consecutive
// lines at the same indentation become sibling atoms, and a run of
// lines indented deeper than the line before it becomes a nested List
// attached right after that line's atoms, mirroring how the matcher's
// data model nests an indented block inside its enclosing sequence.
func Build(tokens []Token) []ast.Node {
	lines := groupLines(tokens)
	var nodes []ast.Node
	pos := 0
	for pos < len(lines) {
		// A line shallower than the current base indent starts a new
		// base rather than being dropped.
		var seq []ast.Node
		seq, pos = buildAt(lines, pos, lines[pos].indent)
		nodes = append(nodes, seq...)
	}
	return nodes
}

func buildAt(lines []line, pos int, indent int) ([]ast.Node, int) {
	var nodes []ast.Node
	for pos < len(lines) {
		l := lines[pos]
		if l.indent < indent {
			return nodes, pos
		}

		for _, t := range l.tokens {
			nodes = append(nodes, &ast.Atom{Kind: t.Kind, Loc: t.Loc, Text: t.Text})
		}
		pos++

		if pos < len(lines) && lines[pos].indent > indent {
			children, next := buildAt(lines, pos, lines[pos].indent)
			nodes = append(nodes, &ast.List{Children: children, Loc: span(children)})
			pos = next
		}
	}
	return nodes, pos
}

func span(nodes []ast.Node) loc.Loc {
	if len(nodes) == 0 {
		return loc.Loc{}
	}
	result := nodes[0].Position()
	for _, n := range nodes[1:] {
		result = loc.Join(result, n.Position())
	}
	return result
}

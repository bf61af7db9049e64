package lexer

import "github.com/structgrep/sgrep/internal/ast"

// Parse lexes and builds src into a Document AST, panicking if the
// result somehow contains a pattern-only atom kind (it cannot, given
// Lex only emits document kinds, but this keeps the invariant checked
// at the same place for both document and pattern construction).
func Parse(src []byte) []ast.Node {
	nodes := Build(Lex(src))
	ast.ValidateDocument(nodes)
	return nodes
}

package matcher

import (
	"fmt"
	"strings"

	"github.com/structgrep/sgrep/internal/ast"
)

// traceState renders a one-line summary of the current (pattern,
// document, dots) tuple for Debug tracing. Never used on any hot path
// when Debug is false.
func traceState(pattern, document []ast.Node, dots Dots) string {
	var sb strings.Builder
	sb.WriteString("pat=")
	sb.WriteString(renderNodes(pattern))
	sb.WriteString(" doc=")
	sb.WriteString(renderNodes(document))
	if dots.Present {
		fmt.Fprintf(&sb, " dots<=%d", dots.Line)
	} else {
		sb.WriteString(" dots=none")
	}
	return sb.String()
}

func renderNodes(nodes []ast.Node) string {
	parts := make([]string, len(nodes))
	for i, n := range nodes {
		parts[i] = n.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

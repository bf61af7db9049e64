package matcher

import (
	"testing"

	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/env"
	"github.com/structgrep/sgrep/internal/loc"
)

// at builds a Loc covering columns [col, col+len(text)-1] on line
// (inclusive of the last byte, matching the lexer's contract), used to
// give synthetic atoms distinct, ordered positions without going
// through the lexer.
func at(line, col int, text string) loc.Loc {
	end := col + len(text) - 1
	return loc.Loc{
		Start: loc.Position{Line: line, Column: col, Offset: col},
		End:   loc.Position{Line: line, Column: end, Offset: end},
	}
}

func word(line, col int, text string) *ast.Atom { return ast.NewWord(at(line, col, text), text) }
func punct(line, col int, ch string) *ast.Atom  { return ast.NewPunct(at(line, col, ch), ch) }
func metavar(line, col int, n string) *ast.Atom { return ast.NewMetavar(at(line, col, n), n) }
func dots(line, col int) *ast.Atom              { return ast.NewDots(at(line, col, "...")) }

func nodes(ns ...ast.Node) []ast.Node { return ns }

func TestMatchEmptyPattern(t *testing.T) {
	tests := []struct {
		name     string
		document []ast.Node
		full     bool
		wantOk   bool
	}{
		{"empty pattern, empty document", nodes(), false, true},
		{"empty pattern, nonempty document, not full", nodes(word(1, 0, "x")), false, true},
		{"empty pattern, nonempty document, full", nodes(word(1, 0, "x")), true, false},
		{"empty pattern, empty document, full", nodes(), true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Match(NoDots, env.Empty, loc.Loc{}, nil, tt.document, tt.full, FullMatchCont)
			if res.Ok != tt.wantOk {
				t.Errorf("Match() ok = %v, want %v", res.Ok, tt.wantOk)
			}
		})
	}
}

func TestMatchLiteralAtoms(t *testing.T) {
	pattern := nodes(word(1, 0, "a"), punct(1, 1, ";"), word(1, 2, "b"))
	document := nodes(word(1, 0, "a"), punct(1, 1, ";"), word(1, 2, "b"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, false, FullMatchCont)
	if !res.Ok {
		t.Fatalf("want match, got Fail")
	}
}

func TestMatchLiteralMismatch(t *testing.T) {
	pattern := nodes(word(1, 0, "a"))
	document := nodes(word(1, 0, "b"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, false, FullMatchCont)
	if res.Ok {
		t.Fatalf("want Fail, got match")
	}
}

func TestMatchPrefixDoesNotRequireFullDocument(t *testing.T) {
	// A non-full match succeeds as soon as pattern is exhausted, leaving
	// the rest of the document untouched — this is what lets the search
	// driver find one match per occurrence rather than only a single
	// match spanning to the end of the document.
	pattern := nodes(word(1, 0, "x"))
	document := nodes(word(1, 0, "x"), word(1, 2, "x"), word(1, 4, "x"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, false, FullMatchCont)
	if !res.Ok {
		t.Fatalf("want match, got Fail")
	}
	if res.LastLoc.End.Offset != document[0].Position().End.Offset {
		t.Errorf("LastLoc = %v, want end of first atom only", res.LastLoc)
	}
}

func TestMatchFullRequiresEntireDocumentConsumed(t *testing.T) {
	pattern := nodes(word(1, 0, "x"))
	document := nodes(word(1, 0, "x"), word(1, 2, "x"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, true, FullMatchCont)
	if res.Ok {
		t.Fatalf("want Fail: document has an atom left over after pattern exhausts")
	}
}

func TestMatchMetavarBindAndReuse(t *testing.T) {
	pattern := nodes(metavar(1, 0, "X"), punct(1, 1, ";"), metavar(1, 2, "X"))

	document := nodes(word(1, 0, "y"), punct(1, 1, ";"), word(1, 2, "y"))
	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, true, FullMatchCont)
	if !res.Ok {
		t.Fatalf("want match with consistent metavariable reuse")
	}
	b, ok := res.Env.Lookup("X")
	if !ok || b.Word != "y" {
		t.Errorf("binding = %+v, ok = %v, want Word = y", b, ok)
	}

	mismatch := nodes(word(1, 0, "y"), punct(1, 1, ";"), word(1, 2, "z"))
	res = Match(NoDots, env.Empty, loc.Loc{}, pattern, mismatch, true, FullMatchCont)
	if res.Ok {
		t.Fatalf("want Fail: second occurrence of $X does not equal the first")
	}
}

func TestMatchMetavarRejectsNonWord(t *testing.T) {
	pattern := nodes(metavar(1, 0, "X"))
	document := nodes(punct(1, 0, ";"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, true, FullMatchCont)
	if res.Ok {
		t.Fatalf("want Fail: a metavariable only binds a Word atom")
	}
}

func TestMatchEllipsisSkipsWithinSpan(t *testing.T) {
	pattern := nodes(word(1, 0, "a"), dots(1, 1), word(10, 0, "b"))
	document := nodes(word(1, 0, "a"), word(5, 0, "junk"), word(10, 0, "b"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, true, FullMatchCont)
	if !res.Ok {
		t.Fatalf("want match: 'junk' at line 5 and 'b' at line 10 both sit within the 10-line ellipsis span from line 1")
	}
}

func TestMatchEllipsisRefusesBeyondSpan(t *testing.T) {
	pattern := nodes(word(1, 0, "a"), dots(1, 1), word(20, 0, "b"))
	document := nodes(word(1, 0, "a"), word(20, 0, "b"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, document, true, FullMatchCont)
	if res.Ok {
		t.Fatalf("want Fail: line 20 is beyond the ellipsis span starting at line 1")
	}
}

func TestMatchListRequiresIndentedDocument(t *testing.T) {
	pattern := nodes(&ast.List{Children: nodes(word(2, 1, "a")), Loc: at(2, 1, "a")})
	flatDocument := nodes(word(1, 0, "a"))

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, flatDocument, false, FullMatchCont)
	if res.Ok {
		t.Fatalf("want Fail: an indented pattern block must not match a flat document atom")
	}
}

func TestMatchListRejectsPartialIndentedBlock(t *testing.T) {
	pattern := nodes(&ast.List{Children: nodes(word(2, 1, "a")), Loc: at(2, 1, "a")})
	indentedDocument := nodes(&ast.List{
		Children: nodes(word(2, 1, "a"), word(3, 1, "b")),
		Loc:      at(2, 1, "a"),
	})

	res := Match(NoDots, env.Empty, loc.Loc{}, pattern, indentedDocument, true, FullMatchCont)
	if res.Ok {
		t.Fatalf("want Fail: the indented document block has an atom ('b') the pattern never consumes")
	}
}

func TestDotsExtend(t *testing.T) {
	last := loc.Loc{End: loc.Position{Line: 5}}

	d := NoDots.extend(last)
	if !d.Present || d.Line != 5+EllipsisLineSpan {
		t.Errorf("extend from absent = %+v, want Line = %d", d, 5+EllipsisLineSpan)
	}

	d2 := d.extend(last)
	if d2.Line != d.Line+EllipsisLineSpan {
		t.Errorf("extend from present = %+v, want Line = %d", d2, d.Line+EllipsisLineSpan)
	}
}

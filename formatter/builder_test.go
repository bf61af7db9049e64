package formatter

import (
	"strings"
	"testing"

	"github.com/structgrep/sgrep/internal/loc"
	"github.com/structgrep/sgrep/internal/result"
	"github.com/structgrep/sgrep/internal/source"
)

func pos(line, col, offset int) loc.Position {
	return loc.Position{Line: line, Column: col, Offset: offset}
}

func TestGenerateFormattedMatchesRendersHeaderAndSnippet(t *testing.T) {
	code := source.FromBytes("a.go", []byte("func f() {\n\tdanger(x)\n}\n"))
	matches := []result.Match{
		{
			Region: loc.Loc{Start: pos(2, 2, 12), End: pos(2, 10, 20)},
			Captures: []result.Capture{
				{Name: "X", Value: "x", Loc: loc.Loc{Start: pos(2, 9, 19), End: pos(2, 9, 19)}},
			},
		},
	}

	out := GenerateFormattedMatches(matches, code)

	if !strings.Contains(out, "a.go:2:2") {
		t.Errorf("header missing file:line:col, got %q", out)
	}
	if !strings.Contains(out, "danger(x)") {
		t.Errorf("snippet missing matched line, got %q", out)
	}
	if !strings.Contains(out, "$X") {
		t.Errorf("captures section missing $X, got %q", out)
	}
	if !strings.Contains(out, "= x") {
		t.Errorf("captures section missing bound value, got %q", out)
	}
}

func TestGenerateFormattedMatchesNoCapturesOmitsSection(t *testing.T) {
	code := source.FromBytes("a.go", []byte("f(x)\n"))
	matches := []result.Match{
		{Region: loc.Loc{Start: pos(1, 1, 0), End: pos(1, 4, 3)}},
	}

	out := GenerateFormattedMatches(matches, code)
	if strings.Contains(out, "$") {
		t.Errorf("expected no captures line when Captures is empty, got %q", out)
	}
}

func TestCalculateMaxLineNumWidth(t *testing.T) {
	cases := []struct {
		endLine int
		want    int
	}{
		{endLine: 1, want: 1},
		{endLine: 9, want: 1},
		{endLine: 10, want: 2},
		{endLine: 999, want: 3},
	}
	for _, c := range cases {
		if got := calculateMaxLineNumWidth(c.endLine); got != c.want {
			t.Errorf("calculateMaxLineNumWidth(%d) = %d, want %d", c.endLine, got, c.want)
		}
	}
}

func TestCalculateVisualColumnNoTabs(t *testing.T) {
	if got := calculateVisualColumn("hello", 3); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
}

func TestCalculateVisualColumnExpandsTab(t *testing.T) {
	// "\tx": tab takes the cursor to the next multiple of tabWidth (8),
	// so the rune after it sits at visual column 8.
	if got := calculateVisualColumn("\tx", 2); got != 8 {
		t.Errorf("got %d, want 8", got)
	}
}

func TestCalculateVisualColumnNegativeColumnIsZero(t *testing.T) {
	if got := calculateVisualColumn("abc", -1); got != 0 {
		t.Errorf("got %d, want 0", got)
	}
}

func TestFindCommonIndentSharedAcrossLines(t *testing.T) {
	lines := []string{"\t\tfoo", "\t\tbar()", "\t\t\tnested"}
	if got := findCommonIndent(lines); got != "\t\t" {
		t.Errorf("got %q, want two tabs", got)
	}
}

func TestFindCommonIndentIgnoresBlankLines(t *testing.T) {
	lines := []string{"", "  x", "  y"}
	if got := findCommonIndent(lines); got != "  " {
		t.Errorf("got %q, want two spaces", got)
	}
}

func TestFindCommonIndentNoSharedPrefix(t *testing.T) {
	lines := []string{"x", "  y"}
	if got := findCommonIndent(lines); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestFindCommonIndentEmptyInput(t *testing.T) {
	if got := findCommonIndent(nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestCommonPrefix(t *testing.T) {
	got := commonPrefix([]rune("  abc"), []rune("  xyz"))
	if string(got) != "  " {
		t.Errorf("got %q, want two spaces", got)
	}
}

func TestCommonPrefixOneShorter(t *testing.T) {
	got := commonPrefix([]rune("ab"), []rune("abcd"))
	if string(got) != "ab" {
		t.Errorf("got %q, want ab", got)
	}
}

func TestIsValidLineRange(t *testing.T) {
	lines := []string{"a", "b", "c"}
	cases := []struct {
		start, end int
		want       bool
	}{
		{1, 3, true},
		{2, 2, true},
		{0, 1, false},
		{3, 2, false},
		{1, 4, false},
	}
	for _, c := range cases {
		if got := isValidLineRange(c.start, c.end, lines); got != c.want {
			t.Errorf("isValidLineRange(%d, %d) = %v, want %v", c.start, c.end, got, c.want)
		}
	}
}

func TestUnderlineInvalidRangeStillReturnsPrefix(t *testing.T) {
	out := underline("  ", 5, 1, 1, 1, []string{"x"}, "")
	if !strings.Contains(out, "|") {
		t.Errorf("want a bar even for an invalid range, got %q", out)
	}
}

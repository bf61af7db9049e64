package ignore

import (
	"testing"

	"github.com/structgrep/sgrep/internal/loc"
	"github.com/structgrep/sgrep/internal/result"
)

func TestLinesFindsMarkedLines(t *testing.T) {
	lines := []string{
		"func f() {",
		"  danger() // sgrep:ignore",
		"}",
	}
	got := Lines(lines)
	if !got[2] || len(got) != 1 {
		t.Errorf("got %v, want only line 2 marked", got)
	}
}

func TestLinesNoMarkers(t *testing.T) {
	if got := Lines([]string{"a", "b"}); len(got) != 0 {
		t.Errorf("want no suppressed lines, got %v", got)
	}
}

func TestFilterDropsMatchesOnSuppressedLines(t *testing.T) {
	matches := []result.Match{
		{Region: loc.Loc{Start: loc.Position{Line: 1}}},
		{Region: loc.Loc{Start: loc.Position{Line: 2}}},
		{Region: loc.Loc{Start: loc.Position{Line: 3}}},
	}
	out := Filter(matches, map[int]bool{2: true})
	if len(out) != 2 {
		t.Fatalf("want 2 matches left, got %d", len(out))
	}
	for _, m := range out {
		if m.Region.Start.Line == 2 {
			t.Errorf("line 2 match was not filtered")
		}
	}
}

func TestFilterNoSuppressionsReturnsSameMatches(t *testing.T) {
	matches := []result.Match{{Region: loc.Loc{Start: loc.Position{Line: 1}}}}
	out := Filter(matches, nil)
	if len(out) != 1 {
		t.Fatalf("want 1 match, got %d", len(out))
	}
}

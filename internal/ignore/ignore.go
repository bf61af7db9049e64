// Package ignore implements match suppression via an "sgrep:ignore"
// marker anywhere on a source line, the same opt-out mechanism
// the teacher's internal/nolint gives lint rules, simplified here
// since sgrep's document model has no concept of a Go statement or
// function scope to hang a wider suppression range off of: a marker
// only ever silences matches that start on its own line.
package ignore

import (
	"strings"

	"github.com/structgrep/sgrep/internal/result"
)

const marker = "sgrep:ignore"

// Lines returns the 1-based line numbers in lines carrying a suppression
// marker.
func Lines(lines []string) map[int]bool {
	out := make(map[int]bool)
	for i, line := range lines {
		if strings.Contains(line, marker) {
			out[i+1] = true
		}
	}
	return out
}

// Filter drops every match whose region starts on a suppressed line.
func Filter(matches []result.Match, suppressed map[int]bool) []result.Match {
	if len(suppressed) == 0 {
		return matches
	}
	out := make([]result.Match, 0, len(matches))
	for _, m := range matches {
		if suppressed[m.Region.Start.Line] {
			continue
		}
		out = append(out, m)
	}
	return out
}

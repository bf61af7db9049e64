// Package result converts a successful match's capture environment
// into the ordered, named captures the rest of the system consumes.
package result

import (
	"github.com/structgrep/sgrep/internal/env"
	"github.com/structgrep/sgrep/internal/loc"
)

// Capture records one metavariable's binding.
type Capture struct {
	Name  string
	Value string
	Loc   loc.Loc
}

// Match is one non-overlapping location where a pattern matched, along
// with the captures it produced.
type Match struct {
	Region   loc.Loc
	Captures []Capture
}

// FromEnv enumerates e in its stored order, producing one Capture per
// binding. Because the matcher only calls Env.Bind for a name that
// Lookup reports as unbound, there is exactly one capture per
// metavariable name, not one per occurrence.
func FromEnv(e env.Env) []Capture {
	bindings := e.Bindings()
	captures := make([]Capture, len(bindings))
	for i, b := range bindings {
		captures[i] = Capture{Name: b.Name, Value: b.Word, Loc: b.Loc}
	}
	return captures
}

// New packages a region and environment into a Match.
func New(region loc.Loc, e env.Env) Match {
	return Match{Region: region, Captures: FromEnv(e)}
}

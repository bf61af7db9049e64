// Package env implements the capture environment: an ordered,
// persistent mapping from metavariable name to its captured location
// and word. Binding returns a new Env so that backtracking in the
// matcher is simply the implicit discarding of a failed branch's Env —
// no explicit undo log is needed.
package env

import "github.com/structgrep/sgrep/internal/loc"

// Binding records where a metavariable was first bound and what word it
// captured.
type Binding struct {
	Name string
	Loc  loc.Loc
	Word string
}

// Env is an ordered, immutable association list. Patterns observed in
// practice bind fewer than ten metavariables, so a slice scanned
// linearly is both simpler and faster than a tree map here.
type Env struct {
	bindings []Binding
}

// Empty is the environment with no bindings.
var Empty = Env{}

// Lookup returns the binding for name, if any.
func (e Env) Lookup(name string) (Binding, bool) {
	for _, b := range e.bindings {
		if b.Name == name {
			return b, true
		}
	}
	return Binding{}, false
}

// Bind returns a new Env with name bound to (l, word). The caller must
// ensure name is not already bound; use Lookup first to implement the
// "first binding wins, later occurrences are consistency checks" rule.
func (e Env) Bind(name string, l loc.Loc, word string) Env {
	next := make([]Binding, len(e.bindings), len(e.bindings)+1)
	copy(next, e.bindings)
	next = append(next, Binding{Name: name, Loc: l, Word: word})
	return Env{bindings: next}
}

// Bindings returns the bindings in insertion order. The returned slice
// must not be mutated by the caller.
func (e Env) Bindings() []Binding {
	return e.bindings
}

// Package matcher implements the recursive, backtracking,
// continuation-passing core that aligns a pattern against a document
// prefix. It is purely computational: no I/O, no shared mutable state,
// and the capture environment is threaded as an immutable value so that
// backtracking is just the implicit return of a failed Result up the
// call stack.
package matcher

import (
	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/env"
	"github.com/structgrep/sgrep/internal/loc"
)

// EllipsisLineSpan is the maximum number of lines a single `...` (or a
// chain of them) may skip. It is a compile-time constant of the
// matcher, not a user-tunable flag.
const EllipsisLineSpan = 10

// Debug, when set, causes Match to report each (pattern, document,
// dots) state it visits to DebugFunc. It exists purely for inspection
// and is not part of the matching contract.
var Debug = false

// DebugFunc receives a trace line when Debug is true. Defaults to a
// no-op.
var DebugFunc = func(string) {}

// Dots represents the ellipsis state: either absent, or present with a
// line cap meaning "the next document atom considered must sit at or
// before this line, and atoms up to it may be skipped."
type Dots struct {
	Present bool
	Line    int
}

// NoDots is the absent ellipsis state.
var NoDots = Dots{}

// extend advances dots per the `...` extension rule: absent becomes
// last_loc's end line plus the span; present becomes its own line plus
// the span.
func (d Dots) extend(lastLoc loc.Loc) Dots {
	if !d.Present {
		return Dots{Present: true, Line: lastLoc.End.Line + EllipsisLineSpan}
	}
	return Dots{Present: true, Line: d.Line + EllipsisLineSpan}
}

// Result is the outcome of a match attempt: either Complete, carrying
// the resulting environment and the location of the last document atom
// consumed, or a failure (Ok == false). Fail is not an error — it is
// the negative answer, consumed locally by backtracking or by the
// search driver's advance-and-retry loop.
type Result struct {
	Ok      bool
	Env     env.Env
	LastLoc loc.Loc
}

// Complete builds a successful Result.
func Complete(e env.Env, last loc.Loc) Result {
	return Result{Ok: true, Env: e, LastLoc: last}
}

// Fail is the single shared failure value.
var Fail = Result{Ok: false}

// Cont is invoked when the current sub-document is exhausted but
// pattern remains; it resumes matching the remaining pattern against
// the enclosing document's continuation.
type Cont func(pattern []ast.Node, dots Dots, e env.Env, lastLoc loc.Loc) Result

// FullMatchCont is the continuation used when descending into an
// indented block: it requires the remaining pattern be entirely
// consumable against the empty document. It accepts empty pattern,
// collapses leading Dots, and accepts a terminal End. This enforces
// that an indented pattern block must be fully satisfied inside the
// corresponding indented document block, and is also the continuation
// the search driver hands to a fresh top-level attempt.
func FullMatchCont(pattern []ast.Node, dots Dots, e env.Env, lastLoc loc.Loc) Result {
	rest := skipLeadingDots(pattern)
	if len(rest) == 0 {
		return Complete(e, lastLoc)
	}
	if len(rest) == 1 {
		if a, ok := rest[0].(*ast.Atom); ok && a.Kind == ast.End {
			return Complete(e, lastLoc)
		}
	}
	return Fail
}

func skipLeadingDots(pattern []ast.Node) []ast.Node {
	i := 0
	for i < len(pattern) {
		a, ok := pattern[i].(*ast.Atom)
		if !ok || a.Kind != ast.Dots {
			break
		}
		i++
	}
	return pattern[i:]
}

// Match attempts to align pattern against document starting under dots
// and e, with lastLoc anchoring ellipsis extension and the eventual
// result's end location. cont resumes matching in the enclosing
// document once this document is exhausted with pattern remaining.
//
// full controls what happens when pattern exhausts while document
// still has atoms left over: when full is true, that is a failure (the
// indented block an indented pattern descends into, via matchList,
// must be entirely consumed). When full is false, pattern exhausting
// ends the match right there and the leftover document is simply not
// part of it — this is what lets a flat pattern find a match that
// doesn't run to the end of its enclosing document, the way a search
// driver's per-atom attempts are expected to behave. The top-level
// search driver always matches with full set to false; matchList
// switches it to true only for the recursive descent into an indented
// document block.
func Match(dots Dots, e env.Env, lastLoc loc.Loc, pattern []ast.Node, document []ast.Node, full bool, cont Cont) Result {
	if Debug {
		DebugFunc(traceState(pattern, document, dots))
	}

	if len(pattern) == 0 {
		return matchEmptyPattern(dots, e, lastLoc, document, full)
	}

	switch p := pattern[0].(type) {
	case *ast.Atom:
		switch p.Kind {
		case ast.End:
			// R2: terminal End succeeds unconditionally, regardless of
			// remaining document.
			return Complete(e, lastLoc)
		case ast.Dots:
			// R4: extend the ellipsis cap and keep going against the
			// same document.
			return Match(dots.extend(lastLoc), e, lastLoc, pattern[1:], document, full, cont)
		default:
			return matchAtom(p, dots, e, lastLoc, pattern[1:], document, full, cont)
		}
	case *ast.List:
		return matchList(p, dots, e, lastLoc, pattern[1:], document, full, cont)
	default:
		panic("matcher: unknown pattern node type")
	}
}

// matchEmptyPattern implements R1.
func matchEmptyPattern(dots Dots, e env.Env, lastLoc loc.Loc, document []ast.Node, full bool) Result {
	if !dots.Present {
		if len(document) == 0 || !full {
			return Complete(e, lastLoc)
		}
		return Fail
	}

	ok, rightmost, found := acceptUnderDots(document, dots.Line)
	if !ok {
		return Fail
	}
	if found {
		return Complete(e, rightmost)
	}
	return Complete(e, lastLoc)
}

// acceptUnderDots walks document (recursing into Lists) and reports
// whether every atom's line is at or before capLine, along with the
// rightmost such atom's location.
func acceptUnderDots(document []ast.Node, capLine int) (ok bool, rightmost loc.Loc, found bool) {
	for _, n := range document {
		switch v := n.(type) {
		case *ast.Atom:
			if v.Loc.Line() > capLine {
				return false, rightmost, found
			}
			if !found || v.Loc.End.Offset > rightmost.End.Offset {
				rightmost, found = v.Loc, true
			}
		case *ast.List:
			ok2, r2, f2 := acceptUnderDots(v.Children, capLine)
			if !ok2 {
				return false, rightmost, found
			}
			if f2 && (!found || r2.End.Offset > rightmost.End.Offset) {
				rightmost, found = r2, true
			}
		}
	}
	return true, rightmost, found
}

// matchesEmptyDocument reports whether nodes would match against an
// empty document: every element must be Dots, End, or a List whose
// children recursively satisfy the same rule.
func matchesEmptyDocument(nodes []ast.Node) bool {
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.Atom:
			if v.Kind != ast.Dots && v.Kind != ast.End {
				return false
			}
		case *ast.List:
			if !matchesEmptyDocument(v.Children) {
				return false
			}
		}
	}
	return true
}

// matchList implements R3: an indented block in the pattern. The
// recursive descent into the matching indented document block always
// runs with full set to true: p.Children must be entirely consumed
// against d.Children, with nothing left over on either side.
func matchList(p *ast.List, dots Dots, e env.Env, lastLoc loc.Loc, patTail []ast.Node, document []ast.Node, full bool, cont Cont) Result {
	if len(document) == 0 {
		if matchesEmptyDocument(p.Children) && matchesEmptyDocument(patTail) {
			return Complete(e, lastLoc)
		}
		return Fail
	}

	switch d := document[0].(type) {
	case *ast.List:
		inner := Match(NoDots, e, lastLoc, p.Children, d.Children, true, FullMatchCont)
		if !inner.Ok {
			return Fail
		}
		return Match(dots, inner.Env, inner.LastLoc, patTail, document[1:], full, cont)

	case *ast.Atom:
		if dots.Present && d.Loc.Line() <= dots.Line {
			// skippable: skip it and retry the same indented pattern.
			return matchList(p, dots, e, lastLoc, patTail, document[1:], full, cont)
		}
		if matchesEmptyDocument(p.Children) {
			// the indented block is vacuously matched.
			return Match(dots, e, lastLoc, patTail, document, full, cont)
		}
		return Fail

	default:
		panic("matcher: unknown document node type")
	}
}

// matchAtom implements R5: a plain atom (Word, Punct, Byte, or
// Metavar) in the pattern.
func matchAtom(p *ast.Atom, dots Dots, e env.Env, lastLoc loc.Loc, patTail []ast.Node, document []ast.Node, full bool, cont Cont) Result {
	if len(document) == 0 {
		return cont(append([]ast.Node{p}, patTail...), dots, e, lastLoc)
	}

	switch d := document[0].(type) {
	case *ast.List:
		inner := func(remPattern []ast.Node, remDots Dots, e2 env.Env, l2 loc.Loc) Result {
			return Match(remDots, e2, l2, remPattern, document[1:], full, cont)
		}
		return Match(dots, e, lastLoc, append([]ast.Node{p}, patTail...), d.Children, full, inner)

	case *ast.Atom:
		if dots.Present && d.Loc.Line() > dots.Line {
			return Fail
		}

		if e2, ok := unify(p, d, e); ok {
			return Match(NoDots, e2, d.Loc, patTail, document[1:], full, cont)
		}

		if dots.Present && d.Loc.Line() <= dots.Line {
			return matchAtom(p, dots, e, lastLoc, patTail, document[1:], full, cont)
		}
		return Fail

	default:
		panic("matcher: unknown document node type")
	}
}

// unify attempts to align one pattern atom with one document atom,
// per the atom unification table.
func unify(p, d *ast.Atom, e env.Env) (env.Env, bool) {
	switch p.Kind {
	case ast.Metavar:
		if d.Kind != ast.Word {
			return e, false
		}
		if b, ok := e.Lookup(p.Text); ok {
			return e, b.Word == d.Text
		}
		return e.Bind(p.Text, d.Loc, d.Text), true
	case ast.Word:
		return e, d.Kind == ast.Word && p.Text == d.Text
	case ast.Punct:
		return e, d.Kind == ast.Punct && p.Text == d.Text
	case ast.Byte:
		return e, d.Kind == ast.Byte && p.Text == d.Text
	default:
		return e, false
	}
}

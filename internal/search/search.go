// Package search implements the driver that walks a document tree in
// pre-order, invokes the matcher at every atom, and collects the
// pairwise non-overlapping matches it finds, in source order.
package search

import (
	"context"

	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/env"
	"github.com/structgrep/sgrep/internal/loc"
	"github.com/structgrep/sgrep/internal/matcher"
	"github.com/structgrep/sgrep/internal/result"
)

// MaxNestingDepth bounds how deep the driver will descend into nested
// List children before it stops looking for new start candidates
// there. It guards against adversarial input blowing the Go stack; it
// does not affect matches already found at shallower depths.
const MaxNestingDepth = 1000

// startsAfter reports whether candidate sorts strictly after
// lastEnd — equal positions do not qualify as "after".
func startsAfter(lastEnd, candidate loc.Position) bool {
	return lastEnd.Offset < candidate.Offset
}

type driver struct {
	pattern []ast.Node
	matches []result.Match
	hasLast bool
	lastEnd loc.Position
}

// Search returns every non-overlapping location in document where
// pattern matches, ordered by start position ascending. It is a pure
// function of its inputs.
func Search(ctx context.Context, pattern []ast.Node, document []ast.Node) ([]result.Match, error) {
	ast.ValidatePattern(pattern)
	ast.ValidateDocument(document)

	d := &driver{pattern: pattern}
	if err := d.visit(ctx, document, 0); err != nil {
		return nil, err
	}
	return d.matches, nil
}

func (d *driver) visit(ctx context.Context, seq []ast.Node, depth int) error {
	for i, n := range seq {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch v := n.(type) {
		case *ast.Atom:
			d.tryMatch(v.Loc.Start, seq[i:])
		case *ast.List:
			if depth < MaxNestingDepth {
				if err := d.visit(ctx, v.Children, depth+1); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

func (d *driver) tryMatch(start loc.Position, tail []ast.Node) {
	if d.hasLast && !startsAfter(d.lastEnd, start) {
		// Any match beginning here would overlap the previous match's
		// region; don't even attempt it.
		return
	}

	startLoc := loc.Loc{Start: start, End: start}
	res := matcher.Match(matcher.NoDots, env.Empty, startLoc, d.pattern, tail, false, matcher.FullMatchCont)
	if !res.Ok {
		return
	}
	if res.LastLoc.End.Offset < start.Offset {
		// Empty-match prevention: region.end must never precede
		// region.start.
		return
	}

	region := loc.Loc{Start: start, End: res.LastLoc.End}
	d.matches = append(d.matches, result.New(region, res.Env))
	d.hasLast = true
	d.lastEnd = region.End
}

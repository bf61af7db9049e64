// Package ast defines the single tree shape shared by patterns and
// documents: an atom (a classified token with a location), a nested
// list (an indented block), or a pattern-only terminator.
package ast

import (
	"fmt"
	"strings"

	"github.com/structgrep/sgrep/internal/loc"
)

// Kind classifies an Atom. Word, Punct and Byte appear in both patterns
// and documents; Metavar, Dots and End are pattern-only.
type Kind int

const (
	Word Kind = iota
	Punct
	Byte
	Metavar
	Dots
	End
)

func (k Kind) String() string {
	switch k {
	case Word:
		return "Word"
	case Punct:
		return "Punct"
	case Byte:
		return "Byte"
	case Metavar:
		return "Metavar"
	case Dots:
		return "Dots"
	case End:
		return "End"
	default:
		return "Unknown"
	}
}

// IsDocumentKind reports whether k is legal in a document atom.
func (k Kind) IsDocumentKind() bool {
	return k == Word || k == Punct || k == Byte
}

// Node is either an *Atom or a *List.
type Node interface {
	Position() loc.Loc
	String() string
	node()
}

// Atom is a single classified token.
type Atom struct {
	Kind Kind
	Loc  loc.Loc
	// Text carries the word text, the single punctuation character, the
	// raw byte (as a one-rune string), or the metavariable name. Dots
	// and End carry no text.
	Text string
}

func (a *Atom) node() {}

func (a *Atom) Position() loc.Loc { return a.Loc }

func (a *Atom) String() string {
	if a.Text == "" {
		return a.Kind.String()
	}
	return fmt.Sprintf("%s(%s)", a.Kind, a.Text)
}

// List is an indented block: a sequence of nodes one level deeper than
// its enclosing sequence.
type List struct {
	Children []Node
	Loc      loc.Loc
}

func (l *List) node() {}

func (l *List) Position() loc.Loc { return l.Loc }

func (l *List) String() string {
	parts := make([]string, len(l.Children))
	for i, c := range l.Children {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, " ") + "]"
}

// NewWord builds a Word atom.
func NewWord(l loc.Loc, text string) *Atom { return &Atom{Kind: Word, Loc: l, Text: text} }

// NewPunct builds a Punct atom.
func NewPunct(l loc.Loc, ch string) *Atom { return &Atom{Kind: Punct, Loc: l, Text: ch} }

// NewByte builds a Byte atom.
func NewByte(l loc.Loc, b byte) *Atom { return &Atom{Kind: Byte, Loc: l, Text: string(b)} }

// NewMetavar builds a Metavar atom.
func NewMetavar(l loc.Loc, name string) *Atom { return &Atom{Kind: Metavar, Loc: l, Text: name} }

// NewDots builds a Dots atom.
func NewDots(l loc.Loc) *Atom { return &Atom{Kind: Dots, Loc: l} }

// NewEnd builds an End atom.
func NewEnd(l loc.Loc) *Atom { return &Atom{Kind: End, Loc: l} }

// ValidatePattern panics if nodes violates a pattern-only invariant:
// End must appear at most once, and only as the last element of this
// sequence. Malformed input is a programmer error of the enclosing
// parser (see the matcher's error handling design) and is never
// recovered from.
func ValidatePattern(nodes []Node) {
	for i, n := range nodes {
		a, ok := n.(*Atom)
		if !ok {
			if list, ok := n.(*List); ok {
				ValidatePattern(list.Children)
			}
			continue
		}
		if a.Kind == End && i != len(nodes)-1 {
			panic(fmt.Sprintf("ast: End atom at %s is not the last element of its sequence", a.Loc))
		}
	}
}

// ValidateDocument panics if nodes contains a pattern-only atom kind.
func ValidateDocument(nodes []Node) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *Atom:
			if !v.Kind.IsDocumentKind() {
				panic(fmt.Sprintf("ast: document contains pattern-only atom %s at %s", v.Kind, v.Loc))
			}
		case *List:
			ValidateDocument(v.Children)
		}
	}
}

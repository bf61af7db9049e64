// Package lexer turns raw source bytes into the flat, classified
// token stream the tree builder groups into a Document AST. It knows
// nothing about patterns, metavariables, or ellipsis — those are
// layered on top by internal/patternparser.
package lexer

import (
	"unicode"
	"unicode/utf8"

	"github.com/structgrep/sgrep/internal/ast"
	"github.com/structgrep/sgrep/internal/loc"
)

const tabWidth = 8

// Token is one classified atom of source text, not yet grouped into a
// tree. Kind is always one of the document kinds (Word, Punct, Byte).
type Token struct {
	Kind ast.Kind
	Text string
	Loc  loc.Loc
}

// cursor tracks position through the source as Lex advances.
type cursor struct {
	src    []byte
	offset int
	line   int
	col    int
	// lastBytePos is the position of the most recently consumed byte,
	// kept so a token's Loc.End can point at its last byte (inclusive)
	// rather than one past it.
	lastBytePos loc.Position
}

func newCursor(src []byte) *cursor {
	return &cursor{src: src, line: 1, col: 1}
}

func (c *cursor) pos() loc.Position {
	return loc.Position{Line: c.line, Column: c.col, Offset: c.offset}
}

func (c *cursor) eof() bool {
	return c.offset >= len(c.src)
}

// advanceByte consumes exactly one byte, updating line/column.
func (c *cursor) advanceByte() {
	c.lastBytePos = c.pos()
	b := c.src[c.offset]
	c.offset++
	switch b {
	case '\n':
		c.line++
		c.col = 1
	case '\t':
		c.col = ((c.col-1)/tabWidth+1)*tabWidth + 1
	default:
		c.col++
	}
}

// advanceRune consumes one UTF-8 rune, returning it and its byte width.
func (c *cursor) advanceRune() (rune, int) {
	r, size := utf8.DecodeRune(c.src[c.offset:])
	for i := 0; i < size; i++ {
		c.advanceByte()
	}
	return r, size
}

func isWordStart(r rune) bool {
	return unicode.IsLetter(r) || r == '_'
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

func isASCIIPunct(r rune) bool {
	return r < utf8.RuneSelf && unicode.IsPunct(r) || isASCIISymbol(r)
}

// isASCIISymbol covers the ASCII printable symbols unicode.IsPunct
// does not classify as punctuation (e.g. +, <, =, |, ~, $).
func isASCIISymbol(r rune) bool {
	switch r {
	case '+', '<', '=', '>', '|', '~', '^', '$', '`':
		return true
	default:
		return false
	}
}

// Lex scans src into a flat stream of Word/Punct/Byte tokens. Line
// breaks and horizontal whitespace are consumed but never produce a
// token; the tree builder recovers layout from token positions.
func Lex(src []byte) []Token {
	c := newCursor(src)
	var tokens []Token

	for !c.eof() {
		start := c.pos()
		r, size := utf8.DecodeRune(c.src[c.offset:])

		switch {
		case r == ' ' || r == '\t' || r == '\r' || r == '\n':
			c.advanceByte()

		case isWordStart(r):
			tokens = append(tokens, lexWord(c, start))

		case size == 1 && isASCIIPunct(r):
			c.advanceRune()
			tokens = append(tokens, Token{Kind: ast.Punct, Text: string(r), Loc: loc.Loc{Start: start, End: c.lastBytePos}})

		default:
			// Raw byte fallback: non-ASCII symbols, control characters,
			// or anything else the classifier above does not recognize.
			b := c.src[c.offset]
			c.advanceByte()
			tokens = append(tokens, Token{Kind: ast.Byte, Text: string(b), Loc: loc.Loc{Start: start, End: c.lastBytePos}})
		}
	}

	return tokens
}

func lexWord(c *cursor, start loc.Position) Token {
	startOffset := c.offset
	for !c.eof() {
		r, size := utf8.DecodeRune(c.src[c.offset:])
		if !isWordRune(r) {
			break
		}
		for i := 0; i < size; i++ {
			c.advanceByte()
		}
	}
	text := string(c.src[startOffset:c.offset])
	return Token{Kind: ast.Word, Text: text, Loc: loc.Loc{Start: start, End: c.lastBytePos}}
}

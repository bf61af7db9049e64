// Package source reads and holds the raw text the renderer slices
// matches out of, mirroring the teacher's internal.SourceCode.
package source

import (
	"os"
	"strings"
)

// Code stores the content of a source file, split into lines for the
// renderer, alongside the raw bytes the lexer and matcher consume.
type Code struct {
	Path  string
	Bytes []byte
	Lines []string
}

// Read loads path from disk.
func Read(path string) (*Code, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return FromBytes(path, content), nil
}

// FromBytes builds a Code directly from in-memory content, for stdin
// or in-process callers that already have the source text.
func FromBytes(path string, content []byte) *Code {
	return &Code{
		Path:  path,
		Bytes: content,
		Lines: strings.Split(string(content), "\n"),
	}
}

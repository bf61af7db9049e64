// Package formatter renders search matches as colored, annotated code
// snippets, in the same text/template + fatih/color style the teacher
// uses to render lint issues.
package formatter

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
	"unicode"

	"github.com/fatih/color"

	"github.com/structgrep/sgrep/internal/result"
	"github.com/structgrep/sgrep/internal/source"
)

const tabWidth = 8

var (
	matchStyle   = color.New(color.FgHiYellow, color.Bold)
	fileStyle    = color.New(color.FgCyan, color.Bold)
	lineStyle    = color.New(color.FgHiBlue, color.Bold)
	messageStyle = color.New(color.FgRed, color.Bold)
	captureStyle = color.New(color.FgGreen, color.Bold)
	noStyle      = color.New(color.FgWhite)
)

// GenerateFormattedMatches renders every match found in code into a
// human-readable, colorized report.
func GenerateFormattedMatches(matches []result.Match, code *source.Code) string {
	var builder strings.Builder
	for _, m := range matches {
		builder.WriteString(buildMatch(m, code))
	}
	return builder.String()
}

const matchTemplate = `{{header .Filename .StartLine .StartColumn -}}
{{snippet .SnippetLines .StartLine .EndLine .MaxLineNumWidth .CommonIndent .Padding -}}
{{underline .Padding .StartLine .EndLine .StartColumn .EndColumn .SnippetLines .CommonIndent}}
{{- if .Captures }}
{{captures .Captures .Padding}}
{{- end }}
`

type matchData struct {
	Filename        string
	StartLine       int
	StartColumn     int
	EndLine         int
	EndColumn       int
	MaxLineNumWidth int
	Padding         string
	CommonIndent    string
	SnippetLines    []string
	Captures        []result.Capture
}

func buildMatch(m result.Match, code *source.Code) string {
	startLine := m.Region.Start.Line
	endLine := m.Region.End.Line
	maxLineNumWidth := calculateMaxLineNumWidth(endLine)
	padding := strings.Repeat(" ", maxLineNumWidth+1)

	var commonIndent string
	if startLine-1 >= 0 && endLine <= len(code.Lines) && startLine <= endLine {
		commonIndent = findCommonIndent(code.Lines[startLine-1 : endLine])
	}

	data := matchData{
		Filename:        code.Path,
		StartLine:       startLine,
		StartColumn:     m.Region.Start.Column,
		EndLine:         endLine,
		EndColumn:       m.Region.End.Column,
		MaxLineNumWidth: maxLineNumWidth,
		Padding:         padding,
		CommonIndent:    commonIndent,
		SnippetLines:    code.Lines,
		Captures:        m.Captures,
	}

	funcMap := template.FuncMap{
		"header":    header,
		"snippet":   codeSnippet,
		"underline": underline,
		"captures":  captures,
	}

	tmpl := template.Must(template.New("match").Funcs(funcMap).Parse(matchTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return fmt.Sprintf("error formatting match: %v", err)
	}
	return buf.String()
}

func header(filename string, startLine, startColumn int) string {
	endString := matchStyle.Sprint("match\n")
	endString += lineStyle.Sprint("--> ")
	endString += fileStyle.Sprintf("%s:%d:%d", filename, startLine, startColumn)
	return endString
}

func codeSnippet(snippetLines []string, startLine, endLine, maxLineNumWidth int, commonIndent, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	for i := startLine; i <= endLine; i++ {
		if i-1 < 0 || i-1 >= len(snippetLines) {
			continue
		}
		line := strings.TrimPrefix(snippetLines[i-1], commonIndent)
		lineNum := fmt.Sprintf("%*d", maxLineNumWidth, i)
		endString += lineStyle.Sprintf("%s | %s\n", lineNum, line)
	}
	return endString
}

func underline(padding string, startLine, endLine, startColumn, endColumn int, snippetLines []string, commonIndent string) string {
	endString := lineStyle.Sprintf("%s| ", padding)
	if !isValidLineRange(startLine, endLine, snippetLines) {
		return endString
	}

	commonIndentWidth := calculateVisualColumn(commonIndent, len(commonIndent)+1)

	// Match columns come from the lexer with tabs already expanded, so
	// they are used as visual columns directly.
	underlineStart := startColumn - 1 - commonIndentWidth
	if underlineStart < 0 {
		underlineStart = 0
	}
	underlineEnd := endColumn - 1 - commonIndentWidth
	underlineLength := underlineEnd - underlineStart + 1
	if underlineLength < 1 {
		underlineLength = 1
	}

	endString += strings.Repeat(" ", underlineStart)
	endString += messageStyle.Sprint(strings.Repeat("^", underlineLength))
	return endString
}

func captures(caps []result.Capture, padding string) string {
	endString := lineStyle.Sprintf("%s|\n", padding)
	for _, c := range caps {
		endString += lineStyle.Sprintf("%s= ", padding)
		endString += captureStyle.Sprintf("$%s", c.Name)
		endString += noStyle.Sprintf(" = %s\n", c.Value)
	}
	return endString
}

func isValidLineRange(startLine, endLine int, snippetLines []string) bool {
	return startLine > 0 &&
		endLine > 0 &&
		startLine <= endLine &&
		startLine <= len(snippetLines) &&
		endLine <= len(snippetLines)
}

func calculateMaxLineNumWidth(endLine int) int {
	return len(fmt.Sprintf("%d", endLine))
}

// calculateVisualColumn calculates the visual column position in a
// string, taking into account tab characters.
func calculateVisualColumn(line string, column int) int {
	if column < 0 {
		return 0
	}
	visualColumn := 0
	for i, ch := range line {
		if i+1 == column {
			break
		}
		if ch == '\t' {
			visualColumn += tabWidth - (visualColumn % tabWidth)
		} else {
			visualColumn++
		}
	}
	return visualColumn
}

// findCommonIndent finds the common indent shared across lines.
func findCommonIndent(lines []string) string {
	if len(lines) == 0 {
		return ""
	}

	var firstIndent []rune
	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed != "" {
			firstIndent = []rune(line[:len(line)-len(trimmed)])
			break
		}
	}
	if len(firstIndent) == 0 {
		return ""
	}

	for _, line := range lines {
		trimmed := strings.TrimLeftFunc(line, unicode.IsSpace)
		if trimmed == "" {
			continue
		}
		currentIndent := []rune(line[:len(line)-len(trimmed)])
		firstIndent = commonPrefix(firstIndent, currentIndent)
		if len(firstIndent) == 0 {
			break
		}
	}

	return string(firstIndent)
}

func commonPrefix(a, b []rune) []rune {
	minLen := len(a)
	if len(b) < minLen {
		minLen = len(b)
	}
	for i := 0; i < minLen; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:minLen]
}

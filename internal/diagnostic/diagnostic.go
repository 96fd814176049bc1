// Package diagnostic renders parse failures against their source text.
package diagnostic

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/veld-lang/veld/internal/lexer"
)

// Diagnostic is a reportable failure tied to a source location.
type Diagnostic struct {
	File    string
	Line    int // 1-based
	Column  int // 1-based
	Message string
}

// FromOffset builds a diagnostic from a byte offset into the source.
func FromOffset(file, src string, offset int, message string) Diagnostic {
	line, col := lexer.LineCol(src, offset)
	return Diagnostic{File: file, Line: line, Column: col, Message: message}
}

// String renders the one-line form: file:line:col: error: message.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d:%d: error: %s", d.File, d.Line, d.Column, d.Message)
}

var (
	headerColor = color.New(color.FgRed, color.Bold)
	lineColor   = color.New(color.FgCyan)
)

// Render writes the diagnostic with the offending source line and a caret
// marking the column. Colors are suppressed automatically when the writer
// is not a terminal (see color.NoColor).
func (d Diagnostic) Render(w io.Writer, src string) {
	headerColor.Fprintf(w, "%s:%d:%d: error: ", d.File, d.Line, d.Column)
	fmt.Fprintln(w, d.Message)

	line := sourceLine(src, d.Line)
	if line == "" {
		return
	}
	lineColor.Fprintf(w, "%5d | ", d.Line)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "      | %s^\n", strings.Repeat(" ", caretIndent(line, d.Column)))
}

func sourceLine(src string, line int) string {
	lines := strings.Split(src, "\n")
	if line < 1 || line > len(lines) {
		return ""
	}
	return lines[line-1]
}

// caretIndent expands tabs so the caret lines up with the rendered text.
func caretIndent(line string, column int) int {
	indent := 0
	for i, r := range line {
		if i >= column-1 {
			break
		}
		if r == '\t' {
			indent += 8 - indent%8
		} else {
			indent++
		}
	}
	return indent
}

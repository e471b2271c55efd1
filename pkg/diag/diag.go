// Package diag renders parse errors against their source text.
package diag

import (
	"fmt"
	"io"
	"strings"

	"github.com/raymyers/ecc/pkg/parser"
)

const (
	red   = "\033[31m"
	green = "\033[32m"
	reset = "\033[0m"
)

// Position locates a diagnostic in the source. Columns are 1-based bytes.
type Position struct {
	Line   int
	Column int
	Len    int
}

// Locate returns where err should be reported in source. Errors at end of
// input point just past the last non-empty line.
func Locate(source string, err *parser.ParseError) Position {
	if err.Token != nil {
		n := len(err.Token.Literal)
		if n < 1 {
			n = 1
		}
		return Position{Line: err.Token.Line, Column: err.Token.Column, Len: n}
	}

	lines := strings.Split(source, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		text := strings.TrimRight(lines[i], " \t\r")
		if text != "" {
			return Position{Line: i + 1, Column: len(text) + 1, Len: 1}
		}
	}
	return Position{Line: 1, Column: 1, Len: 1}
}

// sourceLine returns line n (1-based) of source without its newline
func sourceLine(source string, n int) string {
	lines := strings.Split(source, "\n")
	if n < 1 || n > len(lines) {
		return ""
	}
	return strings.TrimRight(lines[n-1], "\r")
}

// Render writes a compiler-style diagnostic for err:
//
//	prog.c:1:22: error: expected expression, got ';'
//	  int main(void){return;}
//	                       ^
func Render(w io.Writer, filename, source string, err *parser.ParseError, color bool) {
	pos := Locate(source, err)

	label := "error:"
	if color {
		label = red + label + reset
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s\n", filename, pos.Line, pos.Column, label, err.Message)

	line := sourceLine(source, pos.Line)
	fmt.Fprintf(w, "  %s\n", line)

	// keep tabs so the caret lines up under tab-indented source
	var pad strings.Builder
	for i := 0; i < pos.Column-1; i++ {
		if i < len(line) && line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	caret := "^" + strings.Repeat("~", pos.Len-1)
	if color {
		caret = green + caret + reset
	}
	fmt.Fprintf(w, "  %s%s\n", pad.String(), caret)
}

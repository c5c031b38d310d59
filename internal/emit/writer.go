package emit

import (
	"fmt"
	"strings"
)

// Writer accumulates generated source with indentation.
type Writer struct {
	sb     strings.Builder
	indent int
	unit   string
}

// NewWriter creates a Writer that indents with unit (e.g. four spaces or a tab).
func NewWriter(unit string) *Writer {
	return &Writer{unit: unit}
}

// Line writes one indented line. An empty line is written without indentation.
func (w *Writer) Line(s string) {
	if s == "" {
		w.sb.WriteString("\n")
		return
	}
	w.sb.WriteString(strings.Repeat(w.unit, w.indent))
	w.sb.WriteString(s)
	w.sb.WriteString("\n")
}

// Linef writes one formatted, indented line.
func (w *Writer) Linef(format string, args ...any) {
	w.Line(fmt.Sprintf(format, args...))
}

// Raw writes s verbatim.
func (w *Writer) Raw(s string) {
	w.sb.WriteString(s)
}

// Indent increases the indentation level.
func (w *Writer) Indent() { w.indent++ }

// Dedent decreases the indentation level.
func (w *Writer) Dedent() {
	if w.indent > 0 {
		w.indent--
	}
}

// Block writes open, runs body one level deeper, then writes close.
func (w *Writer) Block(open string, body func(), close string) {
	w.Line(open)
	w.Indent()
	body()
	w.Dedent()
	w.Line(close)
}

// String returns the accumulated source.
func (w *Writer) String() string {
	return w.sb.String()
}

// Bytes returns the accumulated source as bytes.
func (w *Writer) Bytes() []byte {
	return []byte(w.sb.String())
}

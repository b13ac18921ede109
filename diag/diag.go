// Package diag defines compiler diagnostics as values.
//
// No phase of the pipeline panics or returns a bare error for an expected
// failure mode: lexical, syntactic, semantic, strict-mode, and performance
// findings are all accumulated as Diagnostic values in a flat list that is
// created at the start of a compilation and handed back to the caller.
package diag

import (
	"fmt"
	"strings"
)

// Severity classifies a diagnostic.
type Severity uint8

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

// String renders the severity the way compiler output conventionally does.
func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Position is a 1-based line/column location plus a byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Span covers a range of source text within a named file.
type Span struct {
	File  string
	Start Position
	End   Position
}

// Diagnostic is a single pipeline finding. Diagnostics are plain values:
// they carry everything needed to render themselves and are never used
// for control flow.
type Diagnostic struct {
	Severity    Severity
	Code        string // e.g. "E003", "W010", "S005", "PARSE_ERROR"
	Message     string
	Span        *Span
	Suggestion  string
	Suggestions []string
}

// Error lets Diagnostic satisfy the error interface for interop with code
// that expects one (e.g. wrapping the first error in fmt.Errorf).
func (d Diagnostic) Error() string {
	if d.Span == nil {
		return fmt.Sprintf("%s: %s", d.Code, d.Message)
	}
	return fmt.Sprintf("%d:%d: %s: %s", d.Span.Start.Line, d.Span.Start.Column, d.Code, d.Message)
}

// FormatWithContext renders the diagnostic with a source-context block:
// a `-->` location line, the offending source line, and a caret.
func (d Diagnostic) FormatWithContext(source string) string {
	if d.Span == nil || d.Span.Start.Line == 0 {
		return fmt.Sprintf("%s[%s]: %s", d.Severity, d.Code, d.Message)
	}

	lines := strings.Split(source, "\n")
	lineNum := d.Span.Start.Line
	col := d.Span.Start.Column
	if col < 1 {
		col = 1
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%s[%s]: %s\n", d.Severity, d.Code, d.Message)
	fmt.Fprintf(&sb, "  --> %s:%d:%d\n", d.Span.File, lineNum, col)
	if lineNum >= 1 && lineNum <= len(lines) {
		line := lines[lineNum-1]
		if col > len(line)+1 {
			col = len(line) + 1
		}
		sb.WriteString("   |\n")
		fmt.Fprintf(&sb, "%3d| %s\n", lineNum, line)
		fmt.Fprintf(&sb, "   | %s^\n", strings.Repeat(" ", col-1))
	}
	if d.Suggestion != "" {
		fmt.Fprintf(&sb, "   = help: %s\n", d.Suggestion)
	}
	for _, s := range d.Suggestions {
		fmt.Fprintf(&sb, "   = note: did you mean %q?\n", s)
	}
	return sb.String()
}

// New creates a Diagnostic at the given severity and span.
func New(severity Severity, code, message string, span *Span) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: message, Span: span}
}

// Newf creates a Diagnostic with a formatted message.
func Newf(severity Severity, code string, span *Span, format string, args ...interface{}) Diagnostic {
	return Diagnostic{Severity: severity, Code: code, Message: fmt.Sprintf(format, args...), Span: span}
}

// List is an ordered collection of diagnostics for a single compilation.
type List []Diagnostic

// Add appends a diagnostic.
func (l *List) Add(d Diagnostic) {
	*l = append(*l, d)
}

// Errorf appends an error-severity diagnostic with a formatted message.
func (l *List) Errorf(code string, span *Span, format string, args ...interface{}) {
	l.Add(Newf(Error, code, span, format, args...))
}

// Warnf appends a warning-severity diagnostic with a formatted message.
func (l *List) Warnf(code string, span *Span, format string, args ...interface{}) {
	l.Add(Newf(Warning, code, span, format, args...))
}

// HasErrors reports whether any diagnostic is error-severity.
func (l List) HasErrors() bool {
	for _, d := range l {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Len is the number of diagnostics in the list.
func (l List) Len() int { return len(l) }

// FormatAll renders every diagnostic with source context, one per block.
func (l List) FormatAll(source string) string {
	var sb strings.Builder
	for i, d := range l {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(d.FormatWithContext(source))
	}
	return sb.String()
}

// Error implements the error interface over the whole list, so a List can
// be returned as a plain Go error when only one line of text is needed.
func (l List) Error() string {
	if len(l) == 0 {
		return "no diagnostics"
	}
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%s (and %d more diagnostic(s))", l[0].Error(), len(l)-1)
}

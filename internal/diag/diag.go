// Package diag implements the diagnostic engine: severities, stable error
// codes, span-annotated notes, and accumulation/rendering shared by every
// stage of the pipeline.
package diag

import (
	"fmt"
	"io"

	"github.com/mna/astra/internal/source"
)

// Severity orders diagnostics from informational to stage-halting.
type Severity int

const (
	Info Severity = iota
	Warning
	Error
	FatalError
)

func (s Severity) String() string {
	switch s {
	case Info:
		return "info"
	case Warning:
		return "warning"
	case Error:
		return "error"
	case FatalError:
		return "fatal error"
	default:
		return "unknown severity"
	}
}

// Note annotates a diagnostic with an optional label and the span it
// points at.
type Note struct {
	Label string
	Span  source.Span
}

// Diagnostic carries a code, severity, message and span, plus optional
// notes. Not called Error to avoid colliding with the standard error
// interface throughout the codebase.
type Diagnostic struct {
	Code     string
	Severity Severity
	Message  string
	Notes    []Note
}

func (d *Diagnostic) Error() string {
	return fmt.Sprintf("%s (%s): %s", d.Severity, d.Code, d.Message)
}

// New builds a Diagnostic with a single note at span.
func New(code string, sev Severity, message string, span source.Span) *Diagnostic {
	return &Diagnostic{
		Code:     code,
		Severity: sev,
		Message:  message,
		Notes:    []Note{{Span: span}},
	}
}

// WithNote appends a labeled note to d and returns d for chaining.
func (d *Diagnostic) WithNote(label string, span source.Span) *Diagnostic {
	d.Notes = append(d.Notes, Note{Label: label, Span: span})
	return d
}

// List accumulates diagnostics for a single pipeline stage, in the spirit
// of go/scanner.ErrorList: callers keep running even after errors, and
// inspect the accumulated list at the end.
type List []*Diagnostic

// Add appends d to the list.
func (l *List) Add(d *Diagnostic) { *l = append(*l, d) }

// HasFatal reports whether any diagnostic in the list is a FatalError.
func (l List) HasFatal() bool {
	for _, d := range l {
		if d.Severity == FatalError {
			return true
		}
	}
	return false
}

// Err returns the list as an error (nil if empty), matching the
// (output, error) stage-boundary convention used throughout the pipeline.
func (l List) Err() error {
	if len(l) == 0 {
		return nil
	}
	return l
}

func (l List) Error() string {
	if len(l) == 1 {
		return l[0].Error()
	}
	return fmt.Sprintf("%d diagnostics, first: %s", len(l), l[0].Error())
}

// Print renders every diagnostic in l to w, with ANSI color when color is
// true, including a source snippet with 5 bytes of margin on either side
// of each note.
func Print(w io.Writer, l List, loader *source.Loader, color bool) {
	for _, d := range l {
		printOne(w, d, loader, color)
	}
}

func printOne(w io.Writer, d *Diagnostic, loader *source.Loader, color bool) {
	if color {
		fmt.Fprintf(w, "\x1B[31m%s (%s):\x1B[0m %s\n", d.Severity, d.Code, d.Message)
	} else {
		fmt.Fprintf(w, "%s (%s): %s\n", d.Severity, d.Code, d.Message)
	}
	for _, n := range d.Notes {
		if n.Label != "" {
			fmt.Fprintf(w, "  %s\n", n.Label)
		}
		left, mid, right := loader.SnippetWithMargins(n.Span, 5, 5)
		if color {
			fmt.Fprintf(w, "  %s\x1B[35m%s\x1B[0m%s\n", left, mid, right)
		} else {
			fmt.Fprintf(w, "  %s%s%s\n", left, mid, right)
		}
	}
}

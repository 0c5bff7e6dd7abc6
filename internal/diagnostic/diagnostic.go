// Package diagnostic implements the textual diagnostic channel spec.md §6
// and §7 call for: a severity/message/location triple with at least plain
// file:line:column emission. Grounded on the teacher's
// internal/errors/errors.go (SentraError/SourceLocation/StackFrame and its
// builder-method style), renamed to the domain vocabulary of spec.md §7.
package diagnostic

import (
	"fmt"
	"strings"

	"jamplate/internal/region"
)

// Severity mirrors spec.md §7's error-kind vocabulary.
type Severity string

const (
	InvalidRange    Severity = "InvalidRange"
	DocumentNotFound Severity = "DocumentNotFound"
	IllegalTree     Severity = "IllegalTree"
	ParseError      Severity = "ParseError"
	CompileError    Severity = "CompileError"
	ExecutionError  Severity = "ExecutionError"
	Info            Severity = "Info"
)

// Location pins a Diagnostic to a Document + Reference, with line/column
// derived the way the teacher's SourceLocation does, except computed from
// the Document's content rather than carried separately.
type Location struct {
	Document  region.Document
	Reference region.Reference
	Line      int
	Column    int
}

// Diagnostic is a (severity, message, tree-or-reference) triple (spec.md
// §6).
type Diagnostic struct {
	Severity Severity
	Message  string
	Location Location
	Source   string
}

// New builds a Diagnostic located at doc/ref, computing line/column by
// counting newlines in doc's content up to ref's position.
func New(severity Severity, message string, doc region.Document, ref region.Reference) *Diagnostic {
	line, column := 1, 1
	if doc != nil {
		content := doc.Content()
		limit := ref.Position()
		if limit > len(content) {
			limit = len(content)
		}
		for i := 0; i < limit; i++ {
			if content[i] == '\n' {
				line++
				column = 1
			} else {
				column++
			}
		}
	}
	return &Diagnostic{
		Severity: severity,
		Message:  message,
		Location: Location{Document: doc, Reference: ref, Line: line, Column: column},
	}
}

// WithSource attaches the source line the diagnostic occurred on.
func (d *Diagnostic) WithSource(line string) *Diagnostic {
	d.Source = line
	return d
}

// Error implements the error interface with the same shape as the
// teacher's SentraError.Error(): type+message, location, then an optional
// source line with a caret under the offending column.
func (d *Diagnostic) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s\n", d.Severity, d.Message))
	if d.Location.Document != nil {
		sb.WriteString(fmt.Sprintf("  at %s:%d:%d\n", d.Location.Document.Name(), d.Location.Line, d.Location.Column))
		if d.Source != "" {
			prefix := fmt.Sprintf("  %d | ", d.Location.Line)
			sb.WriteString(fmt.Sprintf("\n%s%s\n", prefix, d.Source))
			sb.WriteString(strings.Repeat(" ", len(prefix)))
			if d.Location.Column > 0 {
				sb.WriteString(strings.Repeat(" ", d.Location.Column-1))
			}
			sb.WriteString("^\n")
		}
	}
	return sb.String()
}

// Sink collects diagnostics in arrival order — the Environment's sink
// (spec.md §3).
type Sink struct {
	entries []*Diagnostic
}

func NewSink() *Sink { return &Sink{} }

func (s *Sink) Report(d *Diagnostic) { s.entries = append(s.entries, d) }

func (s *Sink) Entries() []*Diagnostic { return s.entries }

func (s *Sink) HasErrors() bool {
	for _, e := range s.entries {
		if e.Severity != Info {
			return true
		}
	}
	return false
}

// String renders every entry, one after another — the "at least textual
// emission" contract from spec.md §6.
func (s *Sink) String() string {
	var sb strings.Builder
	for _, e := range s.entries {
		sb.WriteString(e.Error())
	}
	return sb.String()
}

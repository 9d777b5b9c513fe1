// Package diag implements the compiler's sticky diagnostic model: every
// stage (lexer, parser, code generator) reports problems by appending to a
// shared List instead of returning early, so a single run can surface more
// than one error before the driver decides not to write output.
package diag

import (
	"fmt"
	"io"
)

// Diagnostic is one user-facing compile error, always tied to a source line.
type Diagnostic struct {
	Line    int
	Message string
}

// List accumulates diagnostics across every compiler stage. The zero value
// is ready to use.
type List struct {
	items []Diagnostic
}

// Add records a new diagnostic.
func (l *List) Add(line int, format string, args ...any) {
	l.items = append(l.items, Diagnostic{Line: line, Message: fmt.Sprintf(format, args...)})
}

// HasErrors reports whether any diagnostic has been recorded.
func (l *List) HasErrors() bool {
	return len(l.items) > 0
}

// Items returns the recorded diagnostics in the order they were added.
func (l *List) Items() []Diagnostic {
	return l.items
}

// Merge appends another list's diagnostics onto l, preserving order.
func (l *List) Merge(other *List) {
	if other == nil {
		return
	}
	l.items = append(l.items, other.items...)
}

// Print writes every diagnostic to w in the form:
//
//	Error! line <n>
//	<message>
func (l *List) Print(w io.Writer) {
	for _, d := range l.items {
		fmt.Fprintf(w, "Error! line %d\n%s\n", d.Line, d.Message)
	}
}

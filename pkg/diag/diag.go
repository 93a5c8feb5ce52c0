// Package diag defines the diagnostics produced by template compilation.
// Compile problems are accumulated and reported with source spans rather
// than raised as errors, so a single bad construct never aborts the rest
// of the template.
package diag

import (
	"fmt"
	"sort"
	"strings"

	"github.com/recera/vex/pkg/ast"
)

// Severity classifies how a diagnostic should be treated by consumers
type Severity uint8

const (
	// Error marks output that must not be used
	Error Severity = iota
	// Warning marks suspicious constructs that still compile
	Warning
	// Info marks notes attached to otherwise fine constructs
	Info
	// Hint marks optional improvement suggestions
	Hint
)

// String returns the lowercase severity name
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

// Code is a stable numeric diagnostic identifier. Ranges: 1xxx parse,
// 2xxx transform, 3xxx codegen, 9xxx internal compiler errors.
type Code int

const (
	// CodeUnexpectedEOF is reported when the source ends mid-construct
	CodeUnexpectedEOF Code = 1001
	// CodeUnclosedElement is reported for missing or mismatched closing tags
	CodeUnclosedElement Code = 1002
	// CodeMalformedAttribute is reported for unparseable attribute syntax
	CodeMalformedAttribute Code = 1003
	// CodeUnterminatedInterpolation is reported for a {{ without }}
	CodeUnterminatedInterpolation Code = 1004
	// CodeDuplicateDirective is reported when a directive repeats on one element
	CodeDuplicateDirective Code = 1005
	// CodeUnterminatedComment is reported for a <!-- without -->
	CodeUnterminatedComment Code = 1006
	// CodeEmptyInterpolation is reported for {{ }} with no expression
	CodeEmptyInterpolation Code = 1007

	// CodeUnsupportedDirectiveCombination is reported for directives that
	// cannot legally share an element, like v-if with v-else
	CodeUnsupportedDirectiveCombination Code = 2001
	// CodeInvalidDirectiveArgument is reported for a directive whose
	// argument or value expression is missing or malformed
	CodeInvalidDirectiveArgument Code = 2002
	// CodeUnknownDirective is reported for directives this compiler does
	// not implement; the directive is dropped from the element
	CodeUnknownDirective Code = 2003

	// CodeUnsupportedNodeInBackend is reported when the active output mode
	// cannot represent a node kind; a placeholder is emitted in its place
	CodeUnsupportedNodeInBackend Code = 3001

	// CodeInternal is a recovered compiler panic
	CodeInternal Code = 9000
	// CodeUnresolvedHelper is a codegen path referencing a helper that was
	// never registered during transformation
	CodeUnresolvedHelper Code = 9001
	// CodeUnresolvedHoist is a hoisted-node index outside the hoist table,
	// meaning the node outlived the compilation that built it
	CodeUnresolvedHoist Code = 9002
)

// Diagnostic is one reported compile problem anchored to template source
type Diagnostic struct {
	Code     Code
	Message  string
	Severity Severity
	Span     ast.Span
}

// String renders the diagnostic without source context,
// e.g. `error[2002]: v-bind is missing an expression`.
func (d Diagnostic) String() string {
	return fmt.Sprintf("%s[%d]: %s", d.Severity, d.Code, d.Message)
}

// List accumulates diagnostics over one compilation
type List struct {
	items []Diagnostic
}

// Add appends a diagnostic
func (l *List) Add(d Diagnostic) {
	l.items = append(l.items, d)
}

// Addf appends a diagnostic built from a format string
func (l *List) Addf(severity Severity, code Code, span ast.Span, format string, args ...any) {
	l.Add(Diagnostic{
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Severity: severity,
		Span:     span,
	})
}

// Errorf appends an Error-severity diagnostic
func (l *List) Errorf(code Code, span ast.Span, format string, args ...any) {
	l.Addf(Error, code, span, format, args...)
}

// Warnf appends a Warning-severity diagnostic
func (l *List) Warnf(code Code, span ast.Span, format string, args ...any) {
	l.Addf(Warning, code, span, format, args...)
}

// Items returns the accumulated diagnostics in their current order
func (l *List) Items() []Diagnostic {
	return l.items
}

// Len returns the number of accumulated diagnostics
func (l *List) Len() int {
	return len(l.items)
}

// HasErrors reports whether any diagnostic has Error severity
func (l *List) HasErrors() bool {
	for _, d := range l.items {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Merge appends all diagnostics from other
func (l *List) Merge(other *List) {
	l.items = append(l.items, other.items...)
}

// Sort orders diagnostics by source offset, then by code. The sort is
// stable so same-offset diagnostics keep their emission order.
func (l *List) Sort() {
	sort.SliceStable(l.items, func(i, j int) bool {
		if l.items[i].Span.Start != l.items[j].Span.Start {
			return l.items[i].Span.Start < l.items[j].Span.Start
		}
		return l.items[i].Code < l.items[j].Code
	})
}

// Clamp bounds every diagnostic span to the given source length, so no
// report can reference text outside the original input.
func (l *List) Clamp(sourceLen int) {
	for i := range l.items {
		l.items[i].Span = l.items[i].Span.Clamp(sourceLen)
	}
}

// String renders one diagnostic per line
func (l *List) String() string {
	var b strings.Builder
	for i, d := range l.items {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(d.String())
	}
	return b.String()
}

// Position resolves a source offset to a 1-based line and column.
func Position(source string, offset int) (line, col int) {
	if offset < 0 {
		offset = 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	line, col = 1, 1
	for _, ch := range source[:offset] {
		if ch == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return line, col
}

// Format renders a diagnostic with file position context,
// e.g. `app.vex:3:7: error[2001]: v-else has no preceding v-if`.
func Format(d Diagnostic, source, filename string) string {
	line, col := Position(source, d.Span.Start)
	if filename == "" {
		filename = "<template>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", filename, line, col, d.String())
}

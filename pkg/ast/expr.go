package ast

// Expression is the closed variant set of template expressions. Concrete
// types are *SimpleExpression and *CompoundExpression.
type Expression interface {
	Loc() Span
	// Source returns the expression as target-language source text.
	Source() string
	// Static reports whether codegen may inline the expression as a literal
	// instead of emitting a runtime binding read.
	Static() bool
}

// SimpleExpression is a single run of expression source text
type SimpleExpression struct {
	Content  string
	IsStatic bool
	Span     Span
}

// Loc returns the expression's source span
func (e *SimpleExpression) Loc() Span { return e.Span }

// Source returns the raw content
func (e *SimpleExpression) Source() string { return e.Content }

// Static reports the is-static flag
func (e *SimpleExpression) Static() bool { return e.IsStatic }

// FragmentKind distinguishes compound-expression fragments
type FragmentKind uint8

const (
	// FragmentLiteral is verbatim text copied into the output expression
	FragmentLiteral FragmentKind = iota
	// FragmentIdentifier is an identifier rewritten from binding metadata
	FragmentIdentifier
)

// ExprFragment is one piece of a CompoundExpression. For identifier
// fragments Text holds the rewritten form (for example "_ctx.count") and
// Span points at the original identifier in the template source.
type ExprFragment struct {
	Kind FragmentKind
	Text string
	Span Span
}

// CompoundExpression is a sequence of literal and identifier fragments
// produced when binding-metadata rewriting splits a simple expression.
// Span covers the combined original source range.
type CompoundExpression struct {
	Fragments []ExprFragment
	Span      Span
}

// Loc returns the expression's source span
func (e *CompoundExpression) Loc() Span { return e.Span }

// Source concatenates all fragment text in order
func (e *CompoundExpression) Source() string {
	out := ""
	for _, f := range e.Fragments {
		out += f.Text
	}
	return out
}

// Static always reports false: a compound expression exists only because
// at least one identifier required a runtime binding read
func (e *CompoundExpression) Static() bool { return false }

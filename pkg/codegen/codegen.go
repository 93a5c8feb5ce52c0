// Package codegen turns a transformed template tree into a JavaScript
// render module. One generator entry point dispatches to a backend per
// compilation mode: dom builds a block-tracked vnode tree, vapor builds
// cloneable templates with targeted writes, ssr builds a string
// renderer pushing template literals.
//
// Codegen trusts the transform: every runtime helper referenced in
// output must already be in the helper registry, and referencing an
// unregistered one raises the internal-error path instead of emitting
// an identifier the import line would miss.
package codegen

import (
	"fmt"
	"strings"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
	"github.com/recera/vex/pkg/transform"
)

// DefaultRuntimeModule is the import path generated modules load
// helpers from when Options.RuntimeModule is empty.
const DefaultRuntimeModule = "@vex/runtime"

// Options configure emission independently of how the tree was
// transformed.
type Options struct {
	// ScopeID, when non-empty, stamps every element with a
	// data-v-<id> attribute so scoped style selectors can match.
	ScopeID string
	// RuntimeModule overrides the helper import path.
	RuntimeModule string
}

// Result is the generated render function plus its preamble. The
// preamble carries the helper import line, hoisted vnode constants and
// vapor template constants; Preamble followed by Code forms a complete
// module.
type Result struct {
	Code     string
	Preamble string
}

// Generate emits the render module for root in the mode ctx was
// transformed with.
func Generate(root *ast.Root, ctx *transform.Context, opts Options) Result {
	if opts.RuntimeModule == "" {
		opts.RuntimeModule = DefaultRuntimeModule
	}
	g := &generator{ctx: ctx, opts: opts}

	var consts []string
	switch {
	case ctx.SSR():
		s := &ssrGen{generator: g}
		s.renderFunc(root)
	case ctx.Vapor():
		v := &vaporGen{generator: g, templateIDs: map[string]int{}}
		v.renderFunc(root)
		consts = v.consts
	default:
		d := &domGen{generator: g}
		d.emitHoists()
		d.renderFunc(root)
		consts = d.hoists
	}

	return Result{
		Code:     g.w.String(),
		Preamble: buildPreamble(ctx.Helpers.Helpers(), opts.RuntimeModule, consts),
	}
}

// generator holds the state shared by all backends.
type generator struct {
	ctx  *transform.Context
	opts Options
	w    writer
}

// use returns the local alias for h after asserting the transform
// registered it. An unregistered reference would emit an identifier the
// import list misses, which is a compiler bug rather than a user error.
func (g *generator) use(h runtime.Helper) string {
	if !g.ctx.Helpers.Contains(h) {
		diag.Bugf(diag.CodeUnresolvedHelper,
			"codegen referenced helper %s which the transform never registered", h)
	}
	return h.Alias()
}

// unsupported records a diagnostic for a node the current backend
// cannot express and returns a clearly marked placeholder expression.
func (g *generator) unsupported(n ast.Node) string {
	g.ctx.Diags.Errorf(diag.CodeUnsupportedNodeInBackend, n.Loc(),
		"%s node is not supported by the %s backend", n.Kind(), g.ctx.Config.Mode)
	return placeholderExpr(n)
}

// placeholderExpr marks a skipped node without reporting it again.
func placeholderExpr(n ast.Node) string {
	return "null /* unsupported: " + n.Kind().String() + " */"
}

// buildPreamble assembles the import line and module-level constants.
// Helpers arrive in registry declaration order, so the import list is
// deterministic for identical inputs.
func buildPreamble(helpers []runtime.Helper, module string, consts []string) string {
	var b strings.Builder
	if len(helpers) > 0 {
		b.WriteString("import { ")
		for i, h := range helpers {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(h.Name())
			b.WriteString(" as ")
			b.WriteString(h.Alias())
		}
		b.WriteString(" } from ")
		b.WriteString(quoteJS(module))
		b.WriteString("\n")
	}
	for _, c := range consts {
		b.WriteString(c)
		b.WriteString("\n")
	}
	return b.String()
}

// writer accumulates output with two-space indentation.
type writer struct {
	b      strings.Builder
	indent int
}

func (w *writer) push() { w.indent++ }

func (w *writer) pop() { w.indent-- }

func (w *writer) pad() {
	for i := 0; i < w.indent; i++ {
		w.b.WriteString("  ")
	}
}

func (w *writer) raw(s string) { w.b.WriteString(s) }

func (w *writer) rawf(format string, args ...any) {
	fmt.Fprintf(&w.b, format, args...)
}

func (w *writer) nl() { w.b.WriteByte('\n') }

func (w *writer) line(s string) {
	w.pad()
	w.b.WriteString(s)
	w.nl()
}

func (w *writer) linef(format string, args ...any) {
	w.pad()
	fmt.Fprintf(&w.b, format, args...)
	w.nl()
}

func (w *writer) blank() { w.nl() }

func (w *writer) String() string { return w.b.String() }

// exprSource renders an expression for embedding in output. A nil
// expression renders as undefined so defective trees still produce
// syntactically valid output next to their diagnostics.
func exprSource(e ast.Expression) string {
	if e == nil {
		return "undefined"
	}
	return e.Source()
}

// argStatic returns the literal argument name of a directive when it is
// compile-time static.
func argStatic(d *ast.Directive) (string, bool) {
	if s, ok := d.Arg.(*ast.SimpleExpression); ok && s.IsStatic {
		return s.Content, true
	}
	return "", false
}

// componentVar names the local holding a resolved component:
// <MyWidget> resolves into _component_MyWidget.
func componentVar(tag string) string {
	return "_component_" + strings.ReplaceAll(tag, "-", "_")
}

// collectComponents gathers component tags in first-use order for the
// resolveComponent declarations at the top of the render function.
func collectComponents(root *ast.Root) []string {
	var tags []string
	seen := map[string]bool{}
	ast.Inspect(root, func(n ast.Node) bool {
		if el, ok := n.(*ast.Element); ok && el.IsComponent && !seen[el.Tag] {
			seen[el.Tag] = true
			tags = append(tags, el.Tag)
		}
		return true
	})
	return tags
}

func hoistedName(index int) string {
	return fmt.Sprintf("_hoisted_%d", index+1)
}

func allTextish(nodes []ast.Node) bool {
	for _, n := range nodes {
		switch n.(type) {
		case *ast.Text, *ast.Interpolation:
		default:
			return false
		}
	}
	return len(nodes) > 0
}

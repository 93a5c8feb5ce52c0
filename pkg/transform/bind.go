package transform

import (
	"strings"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// transformBind resolves one v-bind prop. The rewritten directive stays
// in the prop list for codegen. Returns false when the directive binds
// nothing and should be dropped.
func transformBind(ctx *Context, el *ast.Element, d *ast.Directive) bool {
	if d.Arg == nil {
		if d.Exp == nil {
			ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
				"v-bind requires an argument or an object expression")
			return false
		}
		if ctx.Vapor() {
			ctx.Diags.Errorf(diag.CodeUnsupportedNodeInBackend, d.Span,
				"object-spread v-bind is not supported by the vapor backend")
			return false
		}
		// object spread: emission always funnels through mergeProps
		d.Exp = rewriteExpression(ctx, d.Exp)
		ctx.Helper(runtime.MergeProps)
		if ctx.SSR() && !el.IsComponent {
			ctx.Helper(runtime.SSRRenderAttrs)
		}
		if ctx.DOM() && !ctx.InVOnce {
			el.Flags |= ast.FlagFullProps
		}
		return true
	}

	name, dynamic := BindName(d)
	if d.Exp == nil {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
			"v-bind:%s is missing its value", d.Arg.Source())
		return false
	}
	d.Exp = rewriteExpression(ctx, d.Exp)

	if dynamic {
		d.Arg = rewriteExpression(ctx, d.Arg)
		if ctx.SSR() && !el.IsComponent {
			ctx.Helper(runtime.SSRRenderAttrs)
		}
		if ctx.DOM() && !ctx.InVOnce {
			el.Flags |= ast.FlagFullProps
		}
		return true
	}

	switch name {
	case "class":
		if ctx.DOM() {
			ctx.Helper(runtime.NormalizeClass)
		}
		if ctx.SSR() && !el.IsComponent {
			ctx.Helper(runtime.SSRRenderClass)
		}
		if ctx.DOM() && !ctx.InVOnce {
			el.Flags |= ast.FlagClass
		}
	case "style":
		if ctx.DOM() {
			ctx.Helper(runtime.NormalizeStyle)
		}
		if ctx.SSR() && !el.IsComponent {
			ctx.Helper(runtime.SSRRenderStyle)
		}
		if ctx.DOM() && !ctx.InVOnce {
			el.Flags |= ast.FlagStyle
		}
	case "key":
		// consumed by list and branch keying, not patched as a prop
	case "ref":
		if ctx.DOM() && !ctx.InVOnce {
			el.Flags |= ast.FlagNeedPatch
		}
	default:
		if ctx.SSR() && !el.IsComponent {
			ctx.Helper(runtime.SSRRenderAttr)
		}
		if ctx.DOM() && !ctx.InVOnce {
			el.Flags |= ast.FlagProps
			el.DynamicProps = append(el.DynamicProps, name)
		}
	}
	return true
}

// BindName resolves the final prop name of a bind directive. A static
// argument yields the literal name, camelized under the .camel modifier
// and prefixed for the .prop and .attr modifiers, with dynamic false. A
// dynamic argument yields its full source text with dynamic true; the
// actual key is then computed at runtime from the argument expression.
func BindName(d *ast.Directive) (name string, dynamic bool) {
	if d.Arg == nil {
		return "", false
	}
	s, ok := d.Arg.(*ast.SimpleExpression)
	if !ok || !s.IsStatic {
		return d.Arg.Source(), true
	}
	name = s.Content
	if d.HasModifier("camel") {
		name = camelize(name)
	}
	switch {
	case d.HasModifier("prop"):
		name = "." + name
	case d.HasModifier("attr"):
		name = "^" + name
	}
	return name, false
}

// IsDynamicBinding reports whether the directive's target name is only
// known at runtime: a dynamic argument, or no argument at all in the
// object-spread form. Only a simple, statically named argument is
// compile-time resolvable.
func IsDynamicBinding(d *ast.Directive) bool {
	if d.Arg == nil {
		return true
	}
	s, ok := d.Arg.(*ast.SimpleExpression)
	return !ok || !s.IsStatic
}

// HasCamelModifier reports the .camel modifier, which camelizes a
// kebab-case bind name at compile time.
func HasCamelModifier(d *ast.Directive) bool { return d.HasModifier("camel") }

// HasPropModifier reports the .prop modifier, which forces assignment
// as a DOM property.
func HasPropModifier(d *ast.Directive) bool { return d.HasModifier("prop") }

// HasAttrModifier reports the .attr modifier, which forces assignment
// as an attribute.
func HasAttrModifier(d *ast.Directive) bool { return d.HasModifier("attr") }

// camelize converts kebab-case to camelCase, leaving other characters
// untouched.
func camelize(s string) string {
	if !strings.Contains(s, "-") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	up := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '-' && i+1 < len(s) {
			up = true
			continue
		}
		if up && c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		up = false
		b.WriteByte(c)
	}
	return b.String()
}

// capitalize upper-cases the first byte of an ASCII name
func capitalize(s string) string {
	if s == "" || !(s[0] >= 'a' && s[0] <= 'z') {
		return s
	}
	return string(s[0]-('a'-'A')) + s[1:]
}

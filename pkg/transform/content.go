package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// transformContent handles v-html and v-text, which replace the
// element's content wholesale. Existing children are discarded with an
// error since the directive would overwrite them at runtime. Returns
// false when the directive is unusable and should be dropped.
func transformContent(ctx *Context, el *ast.Element, d *ast.Directive) bool {
	if d.Exp == nil {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
			"v-%s requires an expression", d.Name)
		return false
	}
	if len(el.Children) > 0 {
		ctx.Diags.Errorf(diag.CodeUnsupportedDirectiveCombination, d.Span,
			"v-%s will overwrite the children of <%s>", d.Name, el.Tag)
		el.Children = nil
	}
	d.Exp = rewriteExpression(ctx, d.Exp)
	if d.Name == "text" {
		// vapor sets text through setText, registered by the vapor walk
		if ctx.SSR() {
			ctx.Helper(runtime.SSRInterpolate)
		} else if ctx.DOM() {
			ctx.Helper(runtime.ToDisplayString)
		}
	}
	if ctx.DOM() && !ctx.InVOnce {
		el.Flags |= ast.FlagProps
		el.DynamicProps = append(el.DynamicProps, ContentProp(d.Name))
	}
	return true
}

// ContentProp maps a content directive name to the DOM property it sets
func ContentProp(name string) string {
	if name == "html" {
		return "innerHTML"
	}
	return "textContent"
}

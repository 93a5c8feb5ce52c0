package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// transformShow rewrites a v-show condition and registers the
// display-toggling helpers. The directive stays in the prop list for
// codegen. Returns false when the directive is unusable and should be
// dropped.
func transformShow(ctx *Context, el *ast.Element, d *ast.Directive) bool {
	if d.Exp == nil {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
			"v-show requires a condition expression")
		return false
	}
	d.Exp = rewriteExpression(ctx, d.Exp)
	if ctx.DOM() {
		ctx.Helper(runtime.VShow)
		ctx.Helper(runtime.WithDirectives)
		if !ctx.InVOnce {
			el.Flags |= ast.FlagNeedPatch
		}
	}
	if ctx.SSR() {
		// serialized as an inline display:none style on the element
		ctx.Helper(runtime.SSRRenderStyle)
	}
	return true
}

package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// transformMemo consumes v-memo on el. The subtree is skipped during
// updates while every dependency compares equal to its cached value. On
// a v-for element the memo applies per item inside the list callback,
// which needs only the comparison helper; elsewhere the subtree is
// wrapped with WithMemo. Server rendering ignores the cache.
func transformMemo(ctx *Context, el *ast.Element, inFor bool) {
	d := RemoveDirective(el, "memo")
	if d == nil {
		return
	}
	if el.Once {
		ctx.Diags.Warnf(diag.CodeUnsupportedDirectiveCombination, d.Span,
			"v-memo has no effect together with v-once")
		return
	}
	if d.Exp == nil {
		ctx.Diags.Errorf(diag.CodeInvalidDirectiveArgument, d.Span,
			"v-memo requires a dependency array expression")
		return
	}
	el.MemoDeps = rewriteExpression(ctx, d.Exp)
	el.CacheIndex = ctx.NextCacheSlot()
	switch {
	case ctx.DOM():
		if inFor {
			ctx.Helper(runtime.IsMemoSame)
		} else {
			ctx.Helper(runtime.WithMemo)
		}
	case ctx.Vapor():
		ctx.Diags.Errorf(diag.CodeUnsupportedNodeInBackend, d.Span,
			"v-memo is not supported by the vapor backend")
	}
}

package transform

import (
	"strings"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/runtime"
)

// applyPre reverts el's subtree to plain markup after v-pre: descendant
// directives become literal attributes, interpolations revert to their
// delimiter-wrapped source text, and tags are never resolved as
// components.
func applyPre(ctx *Context, el *ast.Element) {
	el.IsComponent = false
	for i, p := range el.Props {
		if d, ok := p.(*ast.Directive); ok {
			el.Props[i] = rawAttribute(ctx, d)
		}
	}
	for i, c := range el.Children {
		switch c := c.(type) {
		case *ast.Element:
			applyPre(ctx, c)
		case *ast.Interpolation:
			t := ctx.Arena.NewText()
			t.Span = c.Loc()
			t.Content = c.Loc().Text(ctx.Source)
			el.Children[i] = t
		}
	}
}

// registerPre records creation helpers for a reverted subtree, whose
// elements bypass the regular element transform.
func registerPre(ctx *Context, el *ast.Element) {
	if !ctx.DOM() {
		return
	}
	ctx.Helper(runtime.VNodeHelper(false, false))
	registerMixedChildren(ctx, el.Children)
	for _, c := range el.Children {
		switch c := c.(type) {
		case *ast.Element:
			registerPre(ctx, c)
		case *ast.Comment:
			ctx.Helper(runtime.CreateCommentVNode)
		}
	}
}

// rawAttribute rebuilds a directive as the literal attribute it was
// written as, splitting the raw source at the first equals sign.
func rawAttribute(ctx *Context, d *ast.Directive) *ast.Attribute {
	raw := d.Span.Text(ctx.Source)
	a := ctx.Arena.NewAttribute()
	a.Span = d.Span
	if eq := strings.IndexByte(raw, '='); eq >= 0 {
		a.Name = raw[:eq]
		a.Value = strings.Trim(raw[eq+1:], "\"'")
		a.HasValue = true
	} else {
		a.Name = raw
	}
	return a
}

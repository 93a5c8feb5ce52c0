package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

// Transform rewrites the parsed tree in place for the configured mode.
// After it returns the tree contains no structural directives, all
// expressions are rewritten against the binding metadata, and ctx.Helpers
// covers every runtime helper codegen will reference. Registration is
// conservative: an element whose attributes end up rendered in object
// form may register a per-attribute helper it turns out not to need, but
// a helper may never be referenced without being registered.
func Transform(root *ast.Root, ctx *Context) {
	root.Children = transformChildren(ctx, root.Children)
	finishRoot(ctx, root)
	if ctx.DOM() {
		hoistStatic(ctx, root)
	}
	if ctx.Vapor() {
		registerVapor(ctx, root)
	}
}

// transformChildren collapses v-if chains across the sibling list, then
// transforms each node. Nodes transformed to nil are dropped.
func transformChildren(ctx *Context, nodes []ast.Node) []ast.Node {
	nodes = collapseIfChains(ctx, nodes)
	out := nodes[:0]
	for _, n := range nodes {
		if t := transformNode(ctx, n); t != nil {
			out = append(out, t)
		}
	}
	registerMixedChildren(ctx, out)
	return out
}

func transformNode(ctx *Context, n ast.Node) ast.Node {
	switch n := n.(type) {
	case *ast.Element:
		return transformElement(ctx, n)
	case *ast.Interpolation:
		n.Content = rewriteExpression(ctx, n.Content)
		// vapor writes text directly with setText; the helpers it needs
		// are registered by the vapor walk at the end of the transform
		if ctx.SSR() {
			ctx.Helper(runtime.SSRInterpolate)
		} else if ctx.DOM() {
			ctx.Helper(runtime.ToDisplayString)
		}
		return n
	case *ast.Comment:
		if ctx.DOM() {
			ctx.Helper(runtime.CreateCommentVNode)
		}
		return n
	case *ast.If:
		transformIf(ctx, n)
		return n
	default:
		return n
	}
}

// transformElement resolves every directive on el, transforms its
// children, and finalizes patch flags. When el carries v-for the element
// is wrapped in a For node and that node is returned instead.
func transformElement(ctx *Context, el *ast.Element) ast.Node {
	if d := ast.FindDirective(el, "pre"); d != nil {
		RemoveDirective(el, "pre")
		applyPre(ctx, el)
		registerPre(ctx, el)
		return el
	}

	prevOnce := ctx.InVOnce
	defer func() { ctx.InVOnce = prevOnce }()

	transformOnce(ctx, el)

	var forNode *ast.For
	if d := RemoveDirective(el, "for"); d != nil {
		forNode = buildFor(ctx, d, el)
	}
	if forNode != nil {
		ctx.PushScope(forScopeNames(forNode)...)
	}

	transformMemo(ctx, el, forNode != nil)
	transformProps(ctx, el)
	el.Children = transformChildren(ctx, el.Children)

	if forNode != nil {
		ctx.PopScope()
	}

	finalizeFlags(ctx, el)
	registerElement(ctx, el)

	if forNode != nil {
		// v-once and v-memo apply to the whole repetition, not each item
		forNode.Once = el.Once
		forNode.MemoDeps = el.MemoDeps
		forNode.CacheIndex = el.CacheIndex
		el.Once = false
		el.MemoDeps = nil
		el.CacheIndex = -1
		registerFor(ctx, forNode, el)
		return forNode
	}

	if ctx.DOM() && el.MemoDeps != nil {
		promoteToBlock(ctx, el)
	}
	return el
}

// transformProps applies the value-directive transforms in prop order.
// bind, on, show, html and text stay in the prop list in rewritten form
// for codegen to consume; unrecognized directives are dropped with a
// warning. Removal resumes the scan at the unshifted index so the prop
// that slid into the removed slot is still visited.
func transformProps(ctx *Context, el *ast.Element) {
	i := 0
	for i < len(el.Props) {
		switch p := el.Props[i].(type) {
		case *ast.Attribute:
			if p.Name == "ref" && ctx.DOM() && !ctx.InVOnce {
				el.Flags |= ast.FlagNeedPatch
			}
		case *ast.Directive:
			switch p.Name {
			case "bind":
				if !transformBind(ctx, el, p) {
					el.Props = append(el.Props[:i], el.Props[i+1:]...)
					continue
				}
			case "on":
				if !transformOn(ctx, el, p) {
					el.Props = append(el.Props[:i], el.Props[i+1:]...)
					continue
				}
			case "show":
				if !transformShow(ctx, el, p) {
					el.Props = append(el.Props[:i], el.Props[i+1:]...)
					continue
				}
			case "html", "text":
				if !transformContent(ctx, el, p) {
					el.Props = append(el.Props[:i], el.Props[i+1:]...)
					continue
				}
			case "if", "else-if", "else", "for", "once", "memo", "pre":
				// structural directives are consumed before prop
				// processing; anything left here is already reported
				el.Props = append(el.Props[:i], el.Props[i+1:]...)
				continue
			default:
				ctx.Diags.Warnf(diag.CodeUnknownDirective, p.Span,
					"unknown directive v-%s is ignored", p.Name)
				el.Props = append(el.Props[:i], el.Props[i+1:]...)
				continue
			}
		}
		i++
	}
}

// finalizeFlags settles el's patch flags after all props and children
// are transformed. FULL_PROPS subsumes the per-prop flags, and an
// element whose children are text with at least one interpolation gets
// the fast-path TEXT flag.
func finalizeFlags(ctx *Context, el *ast.Element) {
	if !ctx.DOM() || ctx.InVOnce {
		return
	}
	if el.Flags&ast.FlagFullProps != 0 {
		el.Flags &^= ast.FlagClass | ast.FlagStyle | ast.FlagProps
		el.DynamicProps = nil
	}
	if !el.IsComponent && hasDynamicText(el.Children) {
		el.Flags |= ast.FlagText
	}
}

func hasDynamicText(children []ast.Node) bool {
	interp := false
	for _, c := range children {
		switch c.(type) {
		case *ast.Interpolation:
			interp = true
		case *ast.Text:
		default:
			return false
		}
	}
	return interp
}

// registerElement records the creation helper for el in the current mode
func registerElement(ctx *Context, el *ast.Element) {
	switch {
	case ctx.DOM():
		if el.IsComponent {
			ctx.Helper(runtime.ResolveComponent)
		}
		ctx.Helper(runtime.VNodeHelper(false, el.IsComponent))
	case ctx.SSR():
		if el.IsComponent {
			ctx.Helper(runtime.ResolveComponent)
			ctx.Helper(runtime.SSRRenderComponent)
		}
	case ctx.Vapor():
		if el.IsComponent {
			ctx.Diags.Errorf(diag.CodeUnsupportedNodeInBackend, el.Span,
				"component <%s> is not supported by the vapor backend", el.Tag)
		}
	}
}

// promoteToBlock upgrades an element registered as a plain vnode into a
// block root. Cached v-once content stays a plain vnode. Promotion is
// idempotent: a v-memo element already promoted at its own transform
// site is left alone when its position would promote it again.
func promoteToBlock(ctx *Context, el *ast.Element) {
	if !ctx.DOM() || el.Once || el.IsBlock {
		return
	}
	el.IsBlock = true
	ctx.Unhelper(runtime.VNodeHelper(false, el.IsComponent))
	ctx.Helper(runtime.OpenBlock)
	ctx.Helper(runtime.BlockHelper(false, el.IsComponent))
}

// finishRoot registers the helpers the root shape needs: a single
// element root becomes the root block, and multiple renderable children
// are wrapped in a fragment block. An all-text root renders as a bare
// display string and needs neither. A component root rendered on the
// server merges the inherited attrs object into its root element.
func finishRoot(ctx *Context, root *ast.Root) {
	switch {
	case ctx.DOM():
		switch {
		case len(root.Children) == 1:
			if el, ok := root.Children[0].(*ast.Element); ok {
				promoteToBlock(ctx, el)
			}
		case len(root.Children) > 1:
			if anyElementish(root.Children) {
				ctx.Helper(runtime.OpenBlock)
				ctx.Helper(runtime.CreateElementBlock)
				ctx.Helper(runtime.Fragment)
			}
		}
	case ctx.SSR():
		if !ctx.Config.IsComponentRoot || len(root.Children) != 1 {
			return
		}
		if el, ok := root.Children[0].(*ast.Element); ok && !el.IsComponent {
			ctx.Helper(runtime.MergeProps)
			ctx.Helper(runtime.SSRRenderAttrs)
		}
	}
}

// registerMixedChildren records CreateTextVNode when a child list mixes
// text content with element-like nodes, since the text must then be
// wrapped to sit inside a children array.
func registerMixedChildren(ctx *Context, nodes []ast.Node) {
	if !ctx.DOM() {
		return
	}
	var text, element bool
	for _, n := range nodes {
		if isTextish(n) {
			text = true
		} else {
			element = true
		}
	}
	if text && element {
		ctx.Helper(runtime.CreateTextVNode)
	}
}

func isTextish(n ast.Node) bool {
	switch n.(type) {
	case *ast.Text, *ast.Interpolation:
		return true
	default:
		return false
	}
}

func anyElementish(nodes []ast.Node) bool {
	for _, n := range nodes {
		if !isTextish(n) {
			return true
		}
	}
	return false
}

// RemoveDirective removes the first directive named name from el's prop
// list and returns it, or nil when no such directive exists. Removing an
// absent name is a no-op, so repeated removal is idempotent. At most one
// occurrence is removed per call; callers rescanning after a removal
// must restart at the unshifted index rather than advance past it, or
// the prop that slid into the removed slot would be skipped.
func RemoveDirective(el *ast.Element, name string) *ast.Directive {
	for i := 0; i < len(el.Props); i++ {
		d, ok := el.Props[i].(*ast.Directive)
		if !ok || d.Name != name {
			continue
		}
		el.Props = append(el.Props[:i], el.Props[i+1:]...)
		return d
	}
	return nil
}

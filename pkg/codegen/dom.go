package codegen

import (
	"fmt"
	"strings"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
	"github.com/recera/vex/pkg/transform"
)

// domGen emits the virtual-DOM backend: a render function returning a
// block-tracked vnode tree built from the creation helpers selected
// during transform.
type domGen struct {
	*generator
	hoists []string
}

func (d *domGen) renderFunc(root *ast.Root) {
	comps := collectComponents(root)
	d.w.line("export function render(_ctx, _cache) {")
	d.w.push()
	for _, tag := range comps {
		d.w.linef("const %s = %s(%s)", componentVar(tag),
			d.use(runtime.ResolveComponent), quoteJS(tag))
	}
	if len(comps) > 0 {
		d.w.blank()
	}
	d.w.pad()
	d.w.raw("return ")
	d.emitRoot(root)
	d.w.nl()
	d.w.pop()
	d.w.line("}")
}

// emitHoists renders each hoisted subtree once into a module-level
// constant. Emitted names are 1-based; the stored index is 0-based.
func (d *domGen) emitHoists() {
	for i, n := range d.ctx.Hoists {
		sub := &domGen{generator: &generator{ctx: d.ctx, opts: d.opts}}
		sub.w.rawf("const %s = /*#__PURE__*/", hoistedName(i))
		if el, ok := n.(*ast.Element); ok {
			sub.emitVNodeCall(el, -1, true)
		} else {
			sub.emitChildItem(n)
		}
		d.hoists = append(d.hoists, sub.w.String())
	}
}

// hoistRef returns the module constant name for a hoisted node after
// asserting its index resolves within the hoist table; a miss means the
// node came from a different compilation than the table.
func (d *domGen) hoistRef(n *ast.Hoisted) string {
	if n.Index < 0 || n.Index >= len(d.ctx.Hoists) {
		diag.Bugf(diag.CodeUnresolvedHoist,
			"hoisted node references slot %d of a %d-entry hoist table",
			n.Index, len(d.ctx.Hoists))
	}
	return hoistedName(n.Index)
}

func (d *domGen) emitRoot(root *ast.Root) {
	switch len(root.Children) {
	case 0:
		d.w.raw("null")
	case 1:
		n := root.Children[0]
		switch n := n.(type) {
		case *ast.Element:
			d.emitElement(n, -1)
		case *ast.Text:
			d.w.raw(quoteJS(n.Content))
		case *ast.Interpolation:
			d.w.rawf("%s(%s)", d.use(runtime.ToDisplayString), exprSource(n.Content))
		case *ast.Comment:
			d.w.rawf("%s(%s)", d.use(runtime.CreateCommentVNode), quoteJS(n.Content))
		case *ast.If:
			d.emitIf(n)
		case *ast.For:
			d.emitFor(n, -1)
		case *ast.Hoisted:
			d.w.raw(d.hoistRef(n))
		}
	default:
		if !allTextish(root.Children) {
			d.w.rawf("(%s(), %s(%s, null, ", d.use(runtime.OpenBlock),
				d.use(runtime.CreateElementBlock), d.use(runtime.Fragment))
			d.emitChildArray(root.Children)
			d.w.rawf(", %d /* %s */))", int(ast.FlagStableFragment), ast.FlagStableFragment)
			return
		}
		d.w.raw(d.textConcat(root.Children))
	}
}

// emitElement applies the caching wrappers around the vnode call:
// v-once guards through the render cache and v-memo wraps in withMemo.
func (d *domGen) emitElement(el *ast.Element, branchKey int) {
	switch {
	case el.Once && el.CacheIndex >= 0:
		d.emitCacheGuard(el.CacheIndex, func() { d.emitShown(el, branchKey) })
	case el.MemoDeps != nil:
		d.emitMemo(el.MemoDeps, el.CacheIndex, func() { d.emitShown(el, branchKey) })
	default:
		d.emitShown(el, branchKey)
	}
}

// emitShown wraps the vnode call in withDirectives when the element
// carries v-show.
func (d *domGen) emitShown(el *ast.Element, branchKey int) {
	show := ast.FindDirective(el, "show")
	if show == nil {
		d.emitVNodeCall(el, branchKey, false)
		return
	}
	d.w.rawf("%s(", d.use(runtime.WithDirectives))
	d.emitVNodeCall(el, branchKey, false)
	d.w.rawf(", [[%s, %s]])", d.use(runtime.VShow), exprSource(show.Exp))
}

func (d *domGen) emitVNodeCall(el *ast.Element, branchKey int, hoisted bool) {
	create := d.use(runtime.VNodeHelper(false, el.IsComponent))
	if el.IsBlock {
		create = d.use(runtime.BlockHelper(false, el.IsComponent))
		d.w.rawf("(%s(), ", d.use(runtime.OpenBlock))
	}
	d.w.raw(create)
	d.w.raw("(")
	if el.IsComponent {
		d.w.raw(componentVar(el.Tag))
	} else {
		d.w.raw(quoteJS(el.Tag))
	}

	props := d.propsArg(el, branchKey)
	flagArg := ""
	switch {
	case hoisted:
		flagArg = "-1 /* HOISTED */"
	case el.Flags != 0:
		flagArg = fmt.Sprintf("%d /* %s */", int(el.Flags), el.Flags)
	}
	dynArg := ""
	if len(el.DynamicProps) > 0 {
		dynArg = "[" + quotedList(el.DynamicProps) + "]"
	}
	hasChildren := len(el.Children) > 0
	hasTail := flagArg != "" || dynArg != ""

	switch {
	case props != "":
		d.w.raw(", " + props)
	case hasChildren || hasTail:
		d.w.raw(", null")
	}
	switch {
	case hasChildren:
		d.w.raw(", ")
		d.emitChildrenArg(el)
	case hasTail:
		d.w.raw(", null")
	}
	if flagArg == "" && dynArg != "" {
		flagArg = "0"
	}
	if flagArg != "" {
		d.w.raw(", " + flagArg)
	}
	if dynArg != "" {
		d.w.raw(", " + dynArg)
	}
	d.w.raw(")")
	if el.IsBlock {
		d.w.raw(")")
	}
}

// propsArg renders the props argument: an inline object literal, or a
// mergeProps call when v-bind spreads split it into segments. Returns
// "" when the element has no props to emit.
func (d *domGen) propsArg(el *ast.Element, branchKey int) string {
	var staticClass, staticStyle *ast.Attribute
	var boundClass, boundStyle bool
	for _, p := range el.Props {
		switch p := p.(type) {
		case *ast.Attribute:
			switch p.Name {
			case "class":
				staticClass = p
			case "style":
				staticStyle = p
			}
		case *ast.Directive:
			if p.Name != "bind" || p.Arg == nil {
				continue
			}
			if name, ok := argStatic(p); ok {
				switch name {
				case "class":
					boundClass = true
				case "style":
					boundStyle = true
				}
			}
		}
	}

	var segs []string
	var cur []string
	spread := false
	flush := func() {
		if len(cur) > 0 {
			segs = append(segs, "{ "+strings.Join(cur, ", ")+" }")
			cur = nil
		}
	}

	if branchKey >= 0 && ast.FindProp(el, "key") == nil {
		cur = append(cur, fmt.Sprintf("key: %d", branchKey))
	}

	classDone, styleDone := false, false
	for _, p := range el.Props {
		switch p := p.(type) {
		case *ast.Attribute:
			if (p == staticClass && boundClass) || (p == staticStyle && boundStyle) {
				continue // folded into the bound entry
			}
			cur = append(cur, propKey(p.Name)+": "+quoteJS(p.Value))
		case *ast.Directive:
			switch p.Name {
			case "bind":
				if p.Arg == nil {
					flush()
					segs = append(segs, exprSource(p.Exp))
					spread = true
					continue
				}
				name, dynamic := transform.BindName(p)
				if dynamic {
					cur = append(cur, "["+exprSource(p.Arg)+"]: "+exprSource(p.Exp))
					continue
				}
				switch name {
				case "class":
					inner := exprSource(p.Exp)
					if staticClass != nil && !classDone {
						inner = "[" + quoteJS(staticClass.Value) + ", " + inner + "]"
						classDone = true
					}
					cur = append(cur, "class: "+d.use(runtime.NormalizeClass)+"("+inner+")")
				case "style":
					inner := exprSource(p.Exp)
					if staticStyle != nil && !styleDone {
						inner = "[" + quoteJS(staticStyle.Value) + ", " + inner + "]"
						styleDone = true
					}
					cur = append(cur, "style: "+d.use(runtime.NormalizeStyle)+"("+inner+")")
				default:
					cur = append(cur, propKey(name)+": "+exprSource(p.Exp))
				}
			case "on":
				handler := d.handlerExpr(p)
				if name, ok := argStatic(p); ok {
					cur = append(cur, transform.HandlerKey(name, p)+": "+handler)
				} else {
					cur = append(cur, "["+d.use(runtime.ToHandlerKey)+"("+exprSource(p.Arg)+")]: "+handler)
				}
			case "show":
				// rendered as a withDirectives wrapper, not a prop
			case "html":
				cur = append(cur, "innerHTML: "+exprSource(p.Exp))
			case "text":
				cur = append(cur, "textContent: "+d.use(runtime.ToDisplayString)+"("+exprSource(p.Exp)+")")
			}
		}
	}

	if d.opts.ScopeID != "" && !el.IsComponent {
		cur = append(cur, quoteJS("data-v-"+d.opts.ScopeID)+`: ""`)
	}
	flush()

	switch {
	case len(segs) == 0:
		return ""
	case !spread:
		return segs[0]
	default:
		return d.use(runtime.MergeProps) + "(" + strings.Join(segs, ", ") + ")"
	}
}

// handlerExpr renders a listener value: inline statements get an
// $event arrow wrapper, and runtime modifiers wrap the handler in
// withModifiers.
func (g *generator) handlerExpr(p *ast.Directive) string {
	src := exprSource(p.Exp)
	switch {
	case p.Exp == nil:
		src = "() => {}"
	case !isSimplePath(src) && !isFunctionExpr(src):
		src = "$event => (" + src + ")"
	}
	if mods := transform.RuntimeModifiers(p); len(mods) > 0 {
		src = g.use(runtime.WithModifiers) + "(" + src + ", [" + quotedList(mods) + "])"
	}
	return src
}

// emitChildrenArg renders an element's children: text-only content
// collapses into one string expression, anything else becomes a child
// vnode array.
func (d *domGen) emitChildrenArg(el *ast.Element) {
	if allTextish(el.Children) {
		d.w.raw(d.textConcat(el.Children))
		return
	}
	d.emitChildArray(el.Children)
}

func (d *domGen) emitChildArray(children []ast.Node) {
	d.w.raw("[")
	d.w.nl()
	d.w.push()
	for i, c := range children {
		d.w.pad()
		d.emitChildItem(c)
		if i < len(children)-1 {
			d.w.raw(",")
		}
		d.w.nl()
	}
	d.w.pop()
	d.w.pad()
	d.w.raw("]")
}

// emitChildItem renders one entry of a child array. Bare text and
// interpolations must be wrapped into text vnodes here, since they sit
// between element children.
func (d *domGen) emitChildItem(n ast.Node) {
	switch n := n.(type) {
	case *ast.Element:
		d.emitElement(n, -1)
	case *ast.Text:
		d.w.rawf("%s(%s)", d.use(runtime.CreateTextVNode), quoteJS(n.Content))
	case *ast.Interpolation:
		d.w.rawf("%s(%s(%s), %d /* %s */)", d.use(runtime.CreateTextVNode),
			d.use(runtime.ToDisplayString), exprSource(n.Content),
			int(ast.FlagText), ast.FlagText)
	case *ast.Comment:
		d.w.rawf("%s(%s)", d.use(runtime.CreateCommentVNode), quoteJS(n.Content))
	case *ast.If:
		d.emitIf(n)
	case *ast.For:
		d.emitFor(n, -1)
	case *ast.Hoisted:
		d.w.raw(d.hoistRef(n))
	default:
		d.w.raw(d.unsupported(n))
	}
}

func (d *domGen) textConcat(children []ast.Node) string {
	var parts []string
	for _, c := range children {
		switch c := c.(type) {
		case *ast.Text:
			parts = append(parts, quoteJS(c.Content))
		case *ast.Interpolation:
			parts = append(parts, d.use(runtime.ToDisplayString)+"("+exprSource(c.Content)+")")
		}
	}
	return strings.Join(parts, " + ")
}

// emitIf renders a collapsed chain as nested ternaries. Each branch
// block carries a key so the runtime replaces instead of patching when
// the active branch changes; a chain without v-else falls through to a
// placeholder comment.
func (d *domGen) emitIf(n *ast.If) {
	switch {
	case n.Once && n.CacheIndex >= 0:
		d.emitCacheGuard(n.CacheIndex, func() { d.emitIfChain(n) })
	case n.MemoDeps != nil:
		d.emitMemo(n.MemoDeps, n.CacheIndex, func() { d.emitIfChain(n) })
	default:
		d.emitIfChain(n)
	}
}

func (d *domGen) emitIfChain(n *ast.If) {
	depth := 0
	for i, br := range n.Branches {
		if br.Condition == nil {
			d.emitBranch(br, i)
			break
		}
		d.w.rawf("(%s)", exprSource(br.Condition))
		d.w.nl()
		d.w.push()
		depth++
		d.w.pad()
		d.w.raw("? ")
		d.emitBranch(br, i)
		d.w.nl()
		d.w.pad()
		d.w.raw(": ")
	}
	if !n.HasElse() {
		d.w.rawf(`%s("v-if", true)`, d.use(runtime.CreateCommentVNode))
	}
	for ; depth > 0; depth-- {
		d.w.pop()
	}
}

func (d *domGen) emitBranch(br *ast.IfBranch, key int) {
	if len(br.Children) != 1 {
		d.w.raw("null")
		return
	}
	switch c := br.Children[0].(type) {
	case *ast.Element:
		d.emitElement(c, key)
	case *ast.For:
		d.emitFor(c, key)
	default:
		d.emitChildItem(c)
	}
}

// emitFor renders a list fragment. With per-item memo the callback
// receives the cached vnode and compares dependencies before building
// a fresh item.
func (d *domGen) emitFor(n *ast.For, branchKey int) {
	if n.Once && n.CacheIndex >= 0 {
		d.emitCacheGuard(n.CacheIndex, func() { d.emitForInner(n, branchKey) })
		return
	}
	d.emitForInner(n, branchKey)
}

func (d *domGen) emitForInner(n *ast.For, branchKey int) {
	memo := n.MemoDeps != nil
	d.w.rawf("(%s(true), %s(%s, ", d.use(runtime.OpenBlock),
		d.use(runtime.CreateElementBlock), d.use(runtime.Fragment))
	if branchKey >= 0 {
		d.w.rawf("{ key: %d }, ", branchKey)
	} else {
		d.w.raw("null, ")
	}
	d.w.rawf("%s(%s, (%s) => {", d.use(runtime.RenderList),
		exprSource(n.Source), forParams(n, memo))
	d.w.nl()
	d.w.push()
	if memo {
		d.w.linef("const _memo = (%s)", exprSource(n.MemoDeps))
		d.w.linef("if (_cached && %s(_cached, _memo)) return _cached",
			d.use(runtime.IsMemoSame))
		d.w.pad()
		d.w.raw("const _item = ")
		d.emitForItem(n)
		d.w.nl()
		d.w.line("_item.memo = _memo")
		d.w.line("return _item")
	} else {
		d.w.pad()
		d.w.raw("return ")
		d.emitForItem(n)
		d.w.nl()
	}
	d.w.pop()
	d.w.pad()
	d.w.raw("})")
	if memo {
		d.w.rawf(", _cache, %d", n.CacheIndex)
	}
	flag := ast.FlagUnkeyedFragment
	if n.Keyed {
		flag = ast.FlagKeyedFragment
	}
	d.w.rawf(", %d /* %s */))", int(flag), flag)
}

func (d *domGen) emitForItem(n *ast.For) {
	if len(n.Children) != 1 {
		d.w.raw("null")
		return
	}
	d.emitChildItem(n.Children[0])
}

// forParams renders the list callback parameter list. The memo form is
// padded to a fixed arity so the cached vnode always arrives fourth.
func forParams(n *ast.For, memo bool) string {
	params := []string{exprSource(n.Value)}
	if n.Key != nil {
		params = append(params, n.Key.Source())
	} else if n.Index != nil || memo {
		params = append(params, "__")
	}
	if n.Index != nil {
		params = append(params, n.Index.Source())
	} else if memo {
		params = append(params, "___")
	}
	if memo {
		params = append(params, "_cached")
	}
	return strings.Join(params, ", ")
}

// emitCacheGuard renders the v-once shape: evaluate once with block
// tracking paused, stash in the render cache, reuse from then on.
func (d *domGen) emitCacheGuard(idx int, inner func()) {
	sbt := d.use(runtime.SetBlockTracking)
	d.w.rawf("_cache[%d] || (", idx)
	d.w.nl()
	d.w.push()
	d.w.linef("%s(-1),", sbt)
	d.w.pad()
	d.w.rawf("_cache[%d] = ", idx)
	inner()
	d.w.raw(",")
	d.w.nl()
	d.w.linef("%s(1),", sbt)
	d.w.linef("_cache[%d]", idx)
	d.w.pop()
	d.w.pad()
	d.w.raw(")")
}

func (d *domGen) emitMemo(deps ast.Expression, idx int, inner func()) {
	d.w.rawf("%s(%s, () => ", d.use(runtime.WithMemo), exprSource(deps))
	inner()
	d.w.rawf(", _cache, %d)", idx)
}

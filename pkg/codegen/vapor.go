package codegen

import (
	"fmt"
	"strings"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/runtime"
	"github.com/recera/vex/pkg/transform"
)

// vaporGen emits the direct-DOM backend. Static structure serializes
// into cloneable template declarations; dynamic content becomes node
// references and targeted writes wrapped in render effects. The walk
// shape matches the transform's vapor registration pass, so every
// helper referenced here is already in the helper set.
type vaporGen struct {
	*generator
	templateIDs map[string]int
	consts      []string
	vars        int
}

func (v *vaporGen) newVar() string {
	name := fmt.Sprintf("n%d", v.vars)
	v.vars++
	return name
}

// templateFor declares (once) and names the template for a chunk of
// static HTML.
func (v *vaporGen) templateFor(html string) string {
	id, ok := v.templateIDs[html]
	if !ok {
		id = len(v.templateIDs)
		v.templateIDs[html] = id
		v.consts = append(v.consts, fmt.Sprintf("const t%d = %s(%s)",
			id, v.use(runtime.VaporTemplate), quoteJS(html)))
	}
	return fmt.Sprintf("t%d", id)
}

func (v *vaporGen) renderFunc(root *ast.Root) {
	v.w.line("export function render(_ctx) {")
	v.w.push()
	var names []string
	for _, c := range root.Children {
		names = append(names, v.emitBlockItem(c, false))
	}
	v.emitReturn(names)
	v.w.pop()
	v.w.line("}")
}

func (v *vaporGen) emitReturn(names []string) {
	switch len(names) {
	case 0:
		v.w.line("return null")
	case 1:
		v.w.linef("return %s", names[0])
	default:
		v.w.linef("return [%s]", strings.Join(names, ", "))
	}
}

// emitBlockItem materializes one node in block position and returns the
// variable or expression that holds it.
func (v *vaporGen) emitBlockItem(n ast.Node, inOnce bool) string {
	switch n := n.(type) {
	case *ast.Element:
		if n.IsComponent {
			// reported during the transform; keep the child slot filled
			return placeholderExpr(n)
		}
		name := v.newVar()
		v.w.linef("const %s = %s()", name, v.templateFor(v.serialize(n)))
		v.emitElement(n, name, inOnce || n.Once)
		return name
	case *ast.Text:
		name := v.newVar()
		v.w.linef("const %s = %s()", name, v.templateFor(escapeHTML(n.Content)))
		return name
	case *ast.Comment:
		name := v.newVar()
		v.w.linef("const %s = %s()", name, v.templateFor("<!--"+n.Content+"-->"))
		return name
	case *ast.Interpolation:
		name := v.newVar()
		v.w.linef("const %s = %s(() => %s)", name,
			v.use(runtime.VaporCreateText), exprSource(n.Content))
		return name
	case *ast.If:
		return v.emitIf(n, inOnce)
	case *ast.For:
		return v.emitFor(n, inOnce)
	default:
		return v.unsupported(n)
	}
}

// serialize renders the static template HTML for an element subtree.
// Child lists that are rebuilt or rewritten at runtime serialize empty;
// static class and style attributes fold into their runtime write when
// a bound counterpart exists.
func (v *vaporGen) serialize(el *ast.Element) string {
	var b strings.Builder
	v.serializeElement(&b, el)
	return b.String()
}

func (v *vaporGen) serializeElement(b *strings.Builder, el *ast.Element) {
	boundClass := findStaticBind(el, "class") != nil
	boundStyle := findStaticBind(el, "style") != nil || ast.FindDirective(el, "show") != nil
	b.WriteString("<")
	b.WriteString(el.Tag)
	for _, p := range el.Props {
		a, ok := p.(*ast.Attribute)
		if !ok {
			continue
		}
		switch {
		case a.Name == "class" && boundClass:
		case a.Name == "style" && boundStyle:
		case booleanAttributes[a.Name]:
			b.WriteString(" " + a.Name)
		default:
			b.WriteString(" " + a.Name + `="` + escapeHTML(a.Value) + `"`)
		}
	}
	if v.opts.ScopeID != "" {
		b.WriteString(" data-v-" + v.opts.ScopeID)
	}
	b.WriteString(">")
	if ast.IsVoidTag(el.Tag) {
		return
	}
	if transform.VaporKind(el.Children) == transform.VaporStatic {
		for _, c := range el.Children {
			switch c := c.(type) {
			case *ast.Text:
				b.WriteString(escapeHTML(c.Content))
			case *ast.Comment:
				b.WriteString("<!--" + c.Content + "-->")
			case *ast.Element:
				v.serializeElement(b, c)
			}
		}
	}
	b.WriteString("</" + el.Tag + ">")
}

// emitElement writes the element's dynamic parts, then navigates into
// statically placed children that need writes of their own.
func (v *vaporGen) emitElement(el *ast.Element, name string, inOnce bool) {
	v.emitWrites(el, name, inOnce)
	if transform.VaporKind(el.Children) != transform.VaporStatic {
		return
	}
	for i, c := range el.Children {
		child, ok := c.(*ast.Element)
		if !ok || !transform.VaporSubtreeWrites(child) {
			continue
		}
		childName := v.newVar()
		v.w.linef("const %s = %s(%s, %d)", childName, v.use(runtime.VaporChild), name, i)
		v.emitElement(child, childName, inOnce || child.Once)
	}
}

func (v *vaporGen) emitWrites(el *ast.Element, name string, inOnce bool) {
	staticClass, staticStyle := staticClassStyle(el)
	styleDone := false
	for _, p := range el.Props {
		d, ok := p.(*ast.Directive)
		if !ok {
			continue
		}
		switch transform.VaporWriteFor(d) {
		case transform.VaporWriteAttr:
			attr, dynamic := transform.BindName(d)
			key := quoteJS(attr)
			if dynamic {
				key = exprSource(d.Arg)
			}
			v.effect(inOnce, fmt.Sprintf("%s(%s, %s, %s)",
				v.use(runtime.VaporSetAttr), name, key, exprSource(d.Exp)))
		case transform.VaporWriteClass:
			inner := exprSource(d.Exp)
			if staticClass != nil {
				inner = "[" + quoteJS(staticClass.Value) + ", " + inner + "]"
			}
			v.effect(inOnce, fmt.Sprintf("%s(%s, %s)",
				v.use(runtime.VaporSetClass), name, inner))
		case transform.VaporWriteStyle:
			// one write carries the static, bound and v-show parts
			if styleDone {
				continue
			}
			styleDone = true
			v.effect(inOnce, fmt.Sprintf("%s(%s, %s)",
				v.use(runtime.VaporSetStyle), name, v.styleValue(el, staticStyle)))
		case transform.VaporWriteText:
			v.effect(inOnce, fmt.Sprintf("%s(%s, %s)",
				v.use(runtime.VaporSetText), name, exprSource(d.Exp)))
		case transform.VaporWriteHTML:
			v.effect(inOnce, fmt.Sprintf("%s(%s, %s)",
				v.use(runtime.VaporSetHTML), name, exprSource(d.Exp)))
		case transform.VaporWriteOn:
			v.emitListener(name, d)
		}
	}

	switch transform.VaporKind(el.Children) {
	case transform.VaporText:
		v.effect(inOnce, fmt.Sprintf("%s(%s, %s)",
			v.use(runtime.VaporSetText), name, vaporText(el.Children)))
	case transform.VaporBlocks:
		var items []string
		for _, c := range el.Children {
			items = append(items, v.emitBlockItem(c, inOnce))
		}
		v.w.linef("%s(%s, [%s])", v.use(runtime.VaporSetNodes), name,
			strings.Join(items, ", "))
	}
}

// effect wraps a write in renderEffect, except inside v-once where the
// write runs exactly once at mount.
func (v *vaporGen) effect(inOnce bool, call string) {
	if inOnce {
		v.w.line(call)
		return
	}
	v.w.linef("%s(() => %s)", v.use(runtime.VaporRenderEffect), call)
}

func (v *vaporGen) styleValue(el *ast.Element, static *ast.Attribute) string {
	var parts []string
	if static != nil {
		parts = append(parts, quoteJS(static.Value))
	}
	if bound := findStaticBind(el, "style"); bound != nil {
		parts = append(parts, exprSource(bound.Exp))
	}
	if show := ast.FindDirective(el, "show"); show != nil {
		parts = append(parts, "("+exprSource(show.Exp)+`) ? null : { display: "none" }`)
	}
	if len(parts) == 1 {
		return parts[0]
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// vaporText concatenates a text child list into one setText value.
func vaporText(children []ast.Node) string {
	var parts []string
	for _, c := range children {
		switch c := c.(type) {
		case *ast.Text:
			parts = append(parts, quoteJS(c.Content))
		case *ast.Interpolation:
			parts = append(parts, exprSource(c.Content))
		}
	}
	return strings.Join(parts, " + ")
}

func (v *vaporGen) emitListener(name string, d *ast.Directive) {
	event, dynamic := transform.BindName(d)
	key := quoteJS(event)
	if dynamic {
		key = exprSource(d.Arg)
	}
	args := fmt.Sprintf("%s, %s, %s", name, key, v.handlerExpr(d))
	if opts := listenerOptions(d); opts != "" {
		args += ", " + opts
	}
	v.w.linef("%s(%s)", v.use(runtime.VaporOn), args)
}

func listenerOptions(d *ast.Directive) string {
	var opts []string
	for _, m := range []string{"capture", "once", "passive"} {
		if d.HasModifier(m) {
			opts = append(opts, m+": true")
		}
	}
	if len(opts) == 0 {
		return ""
	}
	return "{ " + strings.Join(opts, ", ") + " }"
}

func (v *vaporGen) emitIf(n *ast.If, inOnce bool) string {
	name := v.newVar()
	v.w.pad()
	v.w.rawf("const %s = ", name)
	v.emitIfExpr(n.Branches, inOnce || n.Once)
	v.w.nl()
	return name
}

// emitIfExpr renders a branch chain as nested createIf expressions.
func (v *vaporGen) emitIfExpr(branches []*ast.IfBranch, inOnce bool) {
	br := branches[0]
	v.w.rawf("%s(() => (%s), ", v.use(runtime.VaporCreateIf), exprSource(br.Condition))
	v.emitThunk(br.Children, inOnce)
	if rest := branches[1:]; len(rest) > 0 {
		v.w.raw(", ")
		if rest[0].Condition == nil {
			v.emitThunk(rest[0].Children, inOnce)
		} else {
			v.w.raw("() => ")
			v.emitIfExpr(rest, inOnce)
		}
	}
	v.w.raw(")")
}

// emitThunk renders a block body as an inline () => { ... } closure.
func (v *vaporGen) emitThunk(children []ast.Node, inOnce bool) {
	v.w.raw("() => {")
	v.w.nl()
	v.w.push()
	var names []string
	for _, c := range children {
		names = append(names, v.emitBlockItem(c, inOnce))
	}
	v.emitReturn(names)
	v.w.pop()
	v.w.pad()
	v.w.raw("}")
}

func (v *vaporGen) emitFor(n *ast.For, inOnce bool) string {
	name := v.newVar()
	v.w.pad()
	v.w.rawf("const %s = %s(() => (%s), (%s) => {", name,
		v.use(runtime.VaporCreateFor), exprSource(n.Source), forParams(n, false))
	v.w.nl()
	v.w.push()
	var names []string
	for _, c := range n.Children {
		names = append(names, v.emitBlockItem(c, inOnce || n.Once))
	}
	v.emitReturn(names)
	v.w.pop()
	v.w.pad()
	v.w.raw("}")
	if key := forKeyExpr(n); n.Keyed && key != "" {
		v.w.rawf(", (%s) => %s", forParams(n, false), key)
	}
	v.w.raw(")")
	v.w.nl()
	return name
}

// forKeyExpr extracts the key selector from the loop's single item
// element.
func forKeyExpr(n *ast.For) string {
	if len(n.Children) != 1 {
		return ""
	}
	el, ok := n.Children[0].(*ast.Element)
	if !ok {
		return ""
	}
	switch p := ast.FindProp(el, "key").(type) {
	case *ast.Directive:
		if p.Exp != nil {
			return exprSource(p.Exp)
		}
	case *ast.Attribute:
		return quoteJS(p.Value)
	}
	return ""
}

package codegen

import (
	"strings"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
	"github.com/recera/vex/pkg/transform"
)

// ssrGen emits the server backend: a function that pushes template
// literal chunks onto the response. Static markup is escaped at compile
// time; dynamic values interpolate through the ssr helpers. Control
// flow breaks the chunk, so consecutive static output always lands in
// a single push.
type ssrGen struct {
	*generator
	chunk strings.Builder
}

// text appends already-escaped static markup to the pending chunk.
func (s *ssrGen) text(str string) {
	s.chunk.WriteString(str)
}

// expr appends a ${} interpolation to the pending chunk.
func (s *ssrGen) expr(e string) {
	s.chunk.WriteString("${")
	s.chunk.WriteString(e)
	s.chunk.WriteString("}")
}

// flush emits the pending chunk as one push call.
func (s *ssrGen) flush() {
	if s.chunk.Len() == 0 {
		return
	}
	s.w.line("_push(`" + s.chunk.String() + "`)")
	s.chunk.Reset()
}

func (s *ssrGen) renderFunc(root *ast.Root) {
	comps := collectComponents(root)
	s.w.line("export function ssrRender(_ctx, _push, _parent, _attrs) {")
	s.w.push()
	for _, tag := range comps {
		s.w.linef("const %s = %s(%s)", componentVar(tag),
			s.use(runtime.ResolveComponent), quoteJS(tag))
	}
	if len(comps) > 0 {
		s.w.blank()
	}

	rootAttrs := s.ctx.Config.IsComponentRoot && len(root.Children) == 1
	if len(root.Children) > 1 {
		s.text("<!--[-->")
	}
	for _, c := range root.Children {
		s.emitNode(c, rootAttrs)
	}
	if len(root.Children) > 1 {
		s.text("<!--]-->")
	}
	s.flush()
	s.w.pop()
	s.w.line("}")
}

func (s *ssrGen) emitNode(n ast.Node, rootAttrs bool) {
	switch n := n.(type) {
	case *ast.Element:
		if n.IsComponent {
			s.emitComponent(n)
			return
		}
		s.emitElement(n, rootAttrs)
	case *ast.Text:
		s.text(escapeTemplate(escapeHTML(n.Content)))
	case *ast.Interpolation:
		s.expr(s.use(runtime.SSRInterpolate) + "(" + exprSource(n.Content) + ")")
	case *ast.Comment:
		s.text("<!--" + escapeTemplate(n.Content) + "-->")
	case *ast.If:
		s.emitIf(n)
	case *ast.For:
		s.emitFor(n)
	default:
		s.ctx.Diags.Errorf(diag.CodeUnsupportedNodeInBackend, n.Loc(),
			"%s node is not supported by the %s backend", n.Kind(), s.ctx.Config.Mode)
		s.text("<!--unsupported:" + n.Kind().String() + "-->")
	}
}

// emitElement serializes one element. Elements whose attribute set is
// only known at runtime (spread or dynamic-name bindings, or the
// inherited attrs of a component root) render through one
// ssrRenderAttrs call; everything else serializes attribute by
// attribute.
func (s *ssrGen) emitElement(el *ast.Element, rootAttrs bool) {
	s.text("<" + el.Tag)
	if rootAttrs || hasRuntimeAttrs(el) {
		s.emitAttrsCall(el, rootAttrs)
	} else {
		s.emitInlineAttrs(el)
	}
	s.text(">")
	if ast.IsVoidTag(el.Tag) {
		return
	}
	if d := ast.FindDirective(el, "html"); d != nil {
		s.expr(exprSource(d.Exp))
	} else if d := ast.FindDirective(el, "text"); d != nil {
		s.expr(s.use(runtime.SSRInterpolate) + "(" + exprSource(d.Exp) + ")")
	} else {
		for _, c := range el.Children {
			s.emitNode(c, false)
		}
	}
	s.text("</" + el.Tag + ">")
}

// hasRuntimeAttrs reports whether the element needs the object form of
// attribute rendering.
func hasRuntimeAttrs(el *ast.Element) bool {
	for _, p := range el.Props {
		d, ok := p.(*ast.Directive)
		if !ok || d.Name != "bind" {
			continue
		}
		if transform.IsDynamicBinding(d) {
			return true
		}
	}
	return false
}

func (s *ssrGen) emitAttrsCall(el *ast.Element, rootAttrs bool) {
	segs := s.propSegments(el, true)
	if rootAttrs {
		segs = append(segs, "_attrs")
	}
	if len(segs) == 0 {
		return
	}
	expr := segs[0]
	if len(segs) > 1 {
		expr = s.use(runtime.MergeProps) + "(" + strings.Join(segs, ", ") + ")"
	}
	s.expr(s.use(runtime.SSRRenderAttrs) + "(" + expr + ")")
}

// emitInlineAttrs serializes attributes straight into the markup.
func (s *ssrGen) emitInlineAttrs(el *ast.Element) {
	staticClass, staticStyle := staticClassStyle(el)
	boundClass := findStaticBind(el, "class")
	boundStyle := findStaticBind(el, "style")
	show := ast.FindDirective(el, "show")
	styleDone := false

	for _, p := range el.Props {
		switch p := p.(type) {
		case *ast.Attribute:
			switch {
			case p.Name == "class" && boundClass != nil:
				// folded into the rendered class below
			case p.Name == "style":
				if !styleDone {
					s.emitStyle(staticStyle, boundStyle, show)
					styleDone = true
				}
			case booleanAttributes[p.Name]:
				s.text(" " + p.Name)
			default:
				s.text(" " + p.Name + `="` + escapeTemplate(escapeHTML(p.Value)) + `"`)
			}
		case *ast.Directive:
			switch p.Name {
			case "bind":
				name, _ := transform.BindName(p)
				switch name {
				case "class":
					inner := exprSource(p.Exp)
					if staticClass != nil {
						inner = "[" + quoteJS(staticClass.Value) + ", " + inner + "]"
					}
					s.text(` class="`)
					s.expr(s.use(runtime.SSRRenderClass) + "(" + inner + ")")
					s.text(`"`)
				case "style":
					if !styleDone {
						s.emitStyle(staticStyle, boundStyle, show)
						styleDone = true
					}
				case "key", "ref":
					// client-side concerns, never serialized
				default:
					s.expr(s.use(runtime.SSRRenderAttr) + "(" + quoteJS(name) + ", " + exprSource(p.Exp) + ")")
				}
			case "show":
				if !styleDone {
					s.emitStyle(staticStyle, boundStyle, show)
					styleDone = true
				}
			}
		}
	}
	if s.opts.ScopeID != "" {
		s.text(" data-v-" + s.opts.ScopeID)
	}
}

// emitStyle renders the merged style attribute from up to three
// sources: the static attribute, a bound style and a v-show condition.
func (s *ssrGen) emitStyle(static *ast.Attribute, bound, show *ast.Directive) {
	var parts []string
	if static != nil {
		parts = append(parts, quoteJS(static.Value))
	}
	if bound != nil {
		parts = append(parts, exprSource(bound.Exp))
	}
	if show != nil {
		parts = append(parts, "("+exprSource(show.Exp)+`) ? null : { display: "none" }`)
	}
	if len(parts) == 0 {
		return
	}
	if bound == nil && show == nil {
		s.text(` style="` + escapeTemplate(escapeHTML(static.Value)) + `"`)
		return
	}
	inner := parts[0]
	if len(parts) > 1 {
		inner = "[" + strings.Join(parts, ", ") + "]"
	}
	s.text(` style="`)
	s.expr(s.use(runtime.SSRRenderStyle) + "(" + inner + ")")
	s.text(`"`)
}

func (s *ssrGen) emitComponent(el *ast.Element) {
	s.flush()
	props := "null"
	if segs := s.propSegments(el, false); len(segs) == 1 {
		props = segs[0]
	} else if len(segs) > 1 {
		props = s.use(runtime.MergeProps) + "(" + strings.Join(segs, ", ") + ")"
	}
	s.w.linef("_push(%s(%s, %s, null, _parent))", s.use(runtime.SSRRenderComponent),
		componentVar(el.Tag), props)
}

// propSegments renders props as object-literal and spread segments in
// source order, folding static class/style into their bound entries.
// element toggles the parts only plain elements carry: the scope
// attribute and the v-show style merge. Components receive their
// listeners instead.
func (s *ssrGen) propSegments(el *ast.Element, element bool) []string {
	staticClass, staticStyle := staticClassStyle(el)
	boundClass := findStaticBind(el, "class")
	boundStyle := findStaticBind(el, "style")
	var show *ast.Directive
	if element {
		show = ast.FindDirective(el, "show")
	}

	var segs []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			segs = append(segs, "{ "+strings.Join(cur, ", ")+" }")
			cur = nil
		}
	}
	styleDone := false
	styleEntry := func() string {
		var parts []string
		if staticStyle != nil {
			parts = append(parts, quoteJS(staticStyle.Value))
		}
		if boundStyle != nil {
			parts = append(parts, exprSource(boundStyle.Exp))
		}
		if show != nil {
			parts = append(parts, "("+exprSource(show.Exp)+`) ? null : { display: "none" }`)
		}
		if len(parts) == 1 {
			return "style: " + parts[0]
		}
		return "style: [" + strings.Join(parts, ", ") + "]"
	}

	for _, p := range el.Props {
		switch p := p.(type) {
		case *ast.Attribute:
			switch {
			case p.Name == "class" && boundClass != nil:
			case p.Name == "style":
				if !styleDone {
					cur = append(cur, styleEntry())
					styleDone = true
				}
			default:
				cur = append(cur, propKey(p.Name)+": "+quoteJS(p.Value))
			}
		case *ast.Directive:
			switch p.Name {
			case "bind":
				if p.Arg == nil {
					flush()
					segs = append(segs, exprSource(p.Exp))
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
					if staticClass != nil {
						inner = "[" + quoteJS(staticClass.Value) + ", " + inner + "]"
					}
					cur = append(cur, "class: "+inner)
				case "style":
					if !styleDone {
						cur = append(cur, styleEntry())
						styleDone = true
					}
				case "key", "ref":
					if !element {
						cur = append(cur, propKey(name)+": "+exprSource(p.Exp))
					}
				default:
					cur = append(cur, propKey(name)+": "+exprSource(p.Exp))
				}
			case "on":
				if element {
					continue
				}
				handler := exprSource(p.Exp)
				if p.Exp == nil {
					handler = "() => {}"
				} else if !isSimplePath(handler) && !isFunctionExpr(handler) {
					handler = "$event => (" + handler + ")"
				}
				if name, ok := argStatic(p); ok {
					cur = append(cur, transform.HandlerKey(name, p)+": "+handler)
				} else {
					cur = append(cur, "["+exprSource(p.Arg)+"]: "+handler)
				}
			case "show":
				if element && show != nil && !styleDone {
					cur = append(cur, styleEntry())
					styleDone = true
				}
			}
		}
	}
	if element && s.opts.ScopeID != "" {
		cur = append(cur, quoteJS("data-v-"+s.opts.ScopeID)+`: ""`)
	}
	flush()
	return segs
}

func (s *ssrGen) emitIf(n *ast.If) {
	s.flush()
	for i, br := range n.Branches {
		switch {
		case i == 0:
			s.w.pad()
			s.w.rawf("if (%s) {", exprSource(br.Condition))
			s.w.nl()
		case br.Condition != nil:
			s.w.pad()
			s.w.rawf("} else if (%s) {", exprSource(br.Condition))
			s.w.nl()
		default:
			s.w.line("} else {")
		}
		s.w.push()
		for _, c := range br.Children {
			s.emitNode(c, false)
		}
		s.flush()
		s.w.pop()
	}
	if !n.HasElse() {
		// a placeholder comment keeps hydration positions aligned
		s.w.line("} else {")
		s.w.push()
		s.w.line("_push(`<!---->`)")
		s.w.pop()
	}
	s.w.line("}")
}

func (s *ssrGen) emitFor(n *ast.For) {
	s.flush()
	s.w.line("_push(`<!--[-->`)")
	s.w.pad()
	s.w.rawf("%s(%s, (%s) => {", s.use(runtime.SSRRenderList),
		exprSource(n.Source), forParams(n, false))
	s.w.nl()
	s.w.push()
	for _, c := range n.Children {
		s.emitNode(c, false)
	}
	s.flush()
	s.w.pop()
	s.w.line("})")
	s.w.line("_push(`<!--]-->`)")
}

func staticClassStyle(el *ast.Element) (class, style *ast.Attribute) {
	for _, p := range el.Props {
		if a, ok := p.(*ast.Attribute); ok {
			switch a.Name {
			case "class":
				if class == nil {
					class = a
				}
			case "style":
				if style == nil {
					style = a
				}
			}
		}
	}
	return class, style
}

func findStaticBind(el *ast.Element, name string) *ast.Directive {
	for _, p := range el.Props {
		d, ok := p.(*ast.Directive)
		if !ok || d.Name != "bind" || d.Arg == nil {
			continue
		}
		if n, ok := argStatic(d); ok && n == name {
			return d
		}
	}
	return nil
}

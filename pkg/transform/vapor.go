package transform

import (
	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/runtime"
)

// VaporChildren classifies an element's child list for the vapor
// backend, which compiles static structure into cloneable templates and
// everything else into runtime writes.
type VaporChildren int

const (
	// VaporStatic children serialize fully into the template HTML;
	// nested dynamic elements are reached by child navigation.
	VaporStatic VaporChildren = iota
	// VaporText children are text with at least one interpolation and
	// collapse into a single setText write on the parent.
	VaporText
	// VaporBlocks children contain structural nodes and are rebuilt as
	// a node list handed to setNodes.
	VaporBlocks
)

// VaporKind returns the vapor classification of a child list.
func VaporKind(children []ast.Node) VaporChildren {
	interp, elementish, blocky := false, false, false
	for _, c := range children {
		switch c := c.(type) {
		case *ast.Interpolation:
			interp = true
		case *ast.Text:
		case *ast.Comment:
			elementish = true
		case *ast.Element:
			if c.IsComponent {
				blocky = true
			} else {
				elementish = true
			}
		default:
			blocky = true
		}
	}
	switch {
	case blocky || (interp && elementish):
		return VaporBlocks
	case interp:
		return VaporText
	default:
		return VaporStatic
	}
}

// VaporWrite names the runtime write a directive compiles to in vapor
// mode; VaporWriteNone marks directives with no write (key, ref).
type VaporWrite int

const (
	VaporWriteNone VaporWrite = iota
	VaporWriteAttr
	VaporWriteClass
	VaporWriteStyle
	VaporWriteText
	VaporWriteHTML
	VaporWriteOn
)

// VaporWriteFor maps a transformed directive to its vapor write.
func VaporWriteFor(d *ast.Directive) VaporWrite {
	switch d.Name {
	case "bind":
		name, dynamic := BindName(d)
		if dynamic {
			return VaporWriteAttr
		}
		switch name {
		case "class":
			return VaporWriteClass
		case "style":
			return VaporWriteStyle
		case "key", "ref":
			return VaporWriteNone
		default:
			return VaporWriteAttr
		}
	case "on":
		return VaporWriteOn
	case "show":
		return VaporWriteStyle
	case "html":
		return VaporWriteHTML
	case "text":
		return VaporWriteText
	}
	return VaporWriteNone
}

// VaporElementWrites reports whether el itself needs runtime writes:
// any directive write or a non-static child list.
func VaporElementWrites(el *ast.Element) bool {
	for _, p := range el.Props {
		if d, ok := p.(*ast.Directive); ok && VaporWriteFor(d) != VaporWriteNone {
			return true
		}
	}
	return VaporKind(el.Children) != VaporStatic
}

// VaporSubtreeWrites reports whether el or any element reachable through
// static child lists needs runtime writes. Elements behind text or block
// child lists are rebuilt at runtime and do not count.
func VaporSubtreeWrites(el *ast.Element) bool {
	if VaporElementWrites(el) {
		return true
	}
	for _, c := range el.Children {
		if child, ok := c.(*ast.Element); ok && VaporSubtreeWrites(child) {
			return true
		}
	}
	return false
}

// registerVapor walks the transformed tree and registers every helper
// the vapor backend will reference. The walk shape mirrors vapor
// codegen: block positions instantiate templates or structural blocks,
// static positions navigate with child, dynamic content becomes writes
// wrapped in renderEffect unless inside v-once.
func registerVapor(ctx *Context, root *ast.Root) {
	for _, n := range root.Children {
		regVaporBlockItem(ctx, n, false)
	}
}

func regVaporBlockItem(ctx *Context, n ast.Node, inOnce bool) {
	switch n := n.(type) {
	case *ast.Element:
		if n.IsComponent {
			// already reported during the element transform
			return
		}
		ctx.Helper(runtime.VaporTemplate)
		regVaporElement(ctx, n, inOnce || n.Once)
	case *ast.Text, *ast.Comment:
		ctx.Helper(runtime.VaporTemplate)
	case *ast.Interpolation:
		ctx.Helper(runtime.VaporCreateText)
	case *ast.If:
		ctx.Helper(runtime.VaporCreateIf)
		for _, br := range n.Branches {
			for _, c := range br.Children {
				regVaporBlockItem(ctx, c, inOnce || n.Once)
			}
		}
	case *ast.For:
		ctx.Helper(runtime.VaporCreateFor)
		for _, c := range n.Children {
			regVaporBlockItem(ctx, c, inOnce || n.Once)
		}
	}
}

func regVaporElement(ctx *Context, el *ast.Element, inOnce bool) {
	for _, p := range el.Props {
		d, ok := p.(*ast.Directive)
		if !ok {
			continue
		}
		switch VaporWriteFor(d) {
		case VaporWriteAttr:
			ctx.Helper(runtime.VaporSetAttr)
		case VaporWriteClass:
			ctx.Helper(runtime.VaporSetClass)
		case VaporWriteStyle:
			ctx.Helper(runtime.VaporSetStyle)
		case VaporWriteText:
			ctx.Helper(runtime.VaporSetText)
		case VaporWriteHTML:
			ctx.Helper(runtime.VaporSetHTML)
		case VaporWriteOn:
			ctx.Helper(runtime.VaporOn)
			continue
		default:
			continue
		}
		if !inOnce {
			ctx.Helper(runtime.VaporRenderEffect)
		}
	}

	switch VaporKind(el.Children) {
	case VaporText:
		ctx.Helper(runtime.VaporSetText)
		if !inOnce {
			ctx.Helper(runtime.VaporRenderEffect)
		}
	case VaporBlocks:
		ctx.Helper(runtime.VaporSetNodes)
		for _, c := range el.Children {
			regVaporBlockItem(ctx, c, inOnce)
		}
	case VaporStatic:
		for _, c := range el.Children {
			child, ok := c.(*ast.Element)
			if !ok || !VaporSubtreeWrites(child) {
				continue
			}
			ctx.Helper(runtime.VaporChild)
			regVaporElement(ctx, child, inOnce || child.Once)
		}
	}
}

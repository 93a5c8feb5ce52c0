package transform

import (
	"github.com/recera/vex/pkg/ast"
)

// hoistStatic lifts fully static element subtrees out of the render
// path so they are created once at module scope and reused across
// renders. Block roots stay in place since they anchor dynamic
// tracking, and cached v-once and v-memo subtrees are left alone.
func hoistStatic(ctx *Context, root *ast.Root) {
	if len(root.Children) == 1 {
		if el, ok := root.Children[0].(*ast.Element); ok {
			// the single root element is the root block
			if !el.Once && el.MemoDeps == nil {
				el.Children = hoistChildren(ctx, el.Children)
			}
			return
		}
	}
	root.Children = hoistChildren(ctx, root.Children)
}

// hoistChildren replaces maximal static elements in a child list with
// Hoisted references and descends into the dynamic remainder.
func hoistChildren(ctx *Context, nodes []ast.Node) []ast.Node {
	for i, n := range nodes {
		switch n := n.(type) {
		case *ast.Element:
			if isStaticNode(n) {
				h := ctx.Arena.NewHoisted()
				h.Span = n.Loc()
				h.Index = ctx.AddHoist(n)
				nodes[i] = h
				continue
			}
			if n.Once || n.MemoDeps != nil {
				continue
			}
			n.Children = hoistChildren(ctx, n.Children)
		case *ast.If:
			if n.Once || n.MemoDeps != nil {
				continue
			}
			for _, br := range n.Branches {
				hoistBlockRoots(ctx, br.Children)
			}
		case *ast.For:
			if n.Once || n.MemoDeps != nil {
				continue
			}
			hoistBlockRoots(ctx, n.Children)
		}
	}
	return nodes
}

// hoistBlockRoots descends into block-root elements without hoisting
// the roots themselves.
func hoistBlockRoots(ctx *Context, nodes []ast.Node) {
	for _, c := range nodes {
		if el, ok := c.(*ast.Element); ok && !el.Once && el.MemoDeps == nil {
			el.Children = hoistChildren(ctx, el.Children)
		}
	}
}

// isStaticNode reports whether n renders identically on every pass:
// plain text, comments, and elements with only literal attributes,
// no patch flags, and static children throughout.
func isStaticNode(n ast.Node) bool {
	switch n := n.(type) {
	case *ast.Text, *ast.Comment:
		return true
	case *ast.Element:
		if n.IsComponent || n.Flags != 0 || n.Once || n.MemoDeps != nil {
			return false
		}
		for _, p := range n.Props {
			if _, ok := p.(*ast.Attribute); !ok {
				return false
			}
		}
		for _, c := range n.Children {
			if !isStaticNode(c) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

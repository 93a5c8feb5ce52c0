package ast

// Visitor defines the interface for AST traversal. If Visit returns nil,
// children of the node are not visited. Otherwise, the returned Visitor
// is used to visit children.
type Visitor interface {
	Visit(node Node) (w Visitor)
}

// Walk traverses a template tree in depth-first order. It starts by
// calling v.Visit(node); if the returned visitor w is not nil, Walk is
// invoked recursively with w for each child of node. If branches are
// visited in declaration order.
func Walk(v Visitor, node Node) {
	if v = v.Visit(node); v == nil {
		return
	}

	switch n := node.(type) {
	case *Root:
		for _, child := range n.Children {
			Walk(v, child)
		}
	case *Element:
		for _, child := range n.Children {
			Walk(v, child)
		}
	case *If:
		for _, branch := range n.Branches {
			for _, child := range branch.Children {
				Walk(v, child)
			}
		}
	case *For:
		for _, child := range n.Children {
			Walk(v, child)
		}
	case *Text, *Comment, *Interpolation, *Hoisted:
		// No child nodes
	}
}

// Inspect traverses a template tree in depth-first order. It calls
// f(node) for each node; if f returns true, Inspect recurses into the
// node's children.
func Inspect(node Node, f func(Node) bool) {
	Walk(inspector(f), node)
}

type inspector func(Node) bool

func (f inspector) Visit(node Node) Visitor {
	if f(node) {
		return f
	}
	return nil
}

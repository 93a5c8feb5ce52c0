package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// buildTree assembles:
//
//	root
//	└── div
//	    ├── text "a"
//	    ├── if
//	    │   ├── branch: span
//	    │   └── branch: text "b"
//	    └── for
//	        └── li
func buildTree(arena *Arena) *Root {
	span := arena.NewElement()
	span.Tag = "span"

	branchText := arena.NewText()
	branchText.Content = "b"

	b1 := arena.NewIfBranch()
	b1.Children = []Node{span}
	b2 := arena.NewIfBranch()
	b2.Children = []Node{branchText}

	ifNode := arena.NewIf()
	ifNode.Branches = []*IfBranch{b1, b2}

	li := arena.NewElement()
	li.Tag = "li"
	forNode := arena.NewFor()
	forNode.Children = []Node{li}

	text := arena.NewText()
	text.Content = "a"

	div := arena.NewElement()
	div.Tag = "div"
	div.Children = []Node{text, ifNode, forNode}

	root := arena.NewRoot()
	root.Children = []Node{div}
	return root
}

func TestInspectVisitsDepthFirst(t *testing.T) {
	arena := NewArena()
	root := buildTree(arena)

	var kinds []NodeKind
	Inspect(root, func(n Node) bool {
		kinds = append(kinds, n.Kind())
		return true
	})

	want := []NodeKind{
		KindRoot, KindElement, KindText,
		KindIf, KindElement, KindText,
		KindFor, KindElement,
	}
	require.Equal(t, want, kinds)
}

func TestInspectPrunesSubtree(t *testing.T) {
	arena := NewArena()
	root := buildTree(arena)

	var visited []NodeKind
	Inspect(root, func(n Node) bool {
		visited = append(visited, n.Kind())
		// Stop at the outer div; nothing below it should be seen.
		return n.Kind() != KindElement
	})

	require.Equal(t, []NodeKind{KindRoot, KindElement}, visited)
}

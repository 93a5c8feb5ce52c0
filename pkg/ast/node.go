package ast

// NodeKind identifies the variant of a template node
type NodeKind uint8

const (
	// KindRoot is the top-level holder for a template's children
	KindRoot NodeKind = iota
	// KindElement is a plain element or component tag
	KindElement
	// KindText is literal text content
	KindText
	// KindComment is an HTML comment
	KindComment
	// KindInterpolation is a {{ expression }} site
	KindInterpolation
	// KindIf is a collapsed v-if/v-else-if/v-else chain
	KindIf
	// KindFor is a v-for loop
	KindFor
	// KindHoisted is a back-reference to a hoisted static subtree
	KindHoisted
)

// String returns a human-readable name for the node kind
func (k NodeKind) String() string {
	switch k {
	case KindRoot:
		return "Root"
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindComment:
		return "Comment"
	case KindInterpolation:
		return "Interpolation"
	case KindIf:
		return "If"
	case KindFor:
		return "For"
	case KindHoisted:
		return "Hoisted"
	default:
		return "Unknown"
	}
}

// PatchFlag is a bitwise hint telling the virtual-DOM runtime which parts
// of a node can change between renders, so diffing can skip the rest
type PatchFlag int

const (
	// FlagText marks an element whose only dynamic content is its text
	FlagText PatchFlag = 1 << iota
	// FlagClass marks a dynamic class binding
	FlagClass
	// FlagStyle marks a dynamic style binding
	FlagStyle
	// FlagProps marks dynamic non-class/style props listed in DynamicProps
	FlagProps
	// FlagFullProps marks props with dynamic keys, forcing a full diff
	FlagFullProps
	// FlagStableFragment marks a fragment whose children never reorder
	FlagStableFragment
	// FlagKeyedFragment marks a v-for fragment with keyed children
	FlagKeyedFragment
	// FlagUnkeyedFragment marks a v-for fragment without keys
	FlagUnkeyedFragment
	// FlagNeedPatch marks a node needing patching for refs or directives only
	FlagNeedPatch
)

// patchFlagNames is ordered to match the flag declaration order above.
var patchFlagNames = []struct {
	flag PatchFlag
	name string
}{
	{FlagText, "TEXT"},
	{FlagClass, "CLASS"},
	{FlagStyle, "STYLE"},
	{FlagProps, "PROPS"},
	{FlagFullProps, "FULL_PROPS"},
	{FlagStableFragment, "STABLE_FRAGMENT"},
	{FlagKeyedFragment, "KEYED_FRAGMENT"},
	{FlagUnkeyedFragment, "UNKEYED_FRAGMENT"},
	{FlagNeedPatch, "NEED_PATCH"},
}

// String renders the flag set the way generated code comments it,
// e.g. "TEXT | CLASS".
func (f PatchFlag) String() string {
	if f == 0 {
		return ""
	}
	out := ""
	for _, e := range patchFlagNames {
		if f&e.flag == 0 {
			continue
		}
		if out != "" {
			out += " | "
		}
		out += e.name
	}
	return out
}

// Has reports whether all bits of flag are set
func (f PatchFlag) Has(flag PatchFlag) bool {
	return f&flag == flag
}

// Node is the closed variant set of template nodes. Concrete types are
// *Root, *Element, *Text, *Comment, *Interpolation, *If, *For and *Hoisted;
// consumers dispatch with an exhaustive type switch.
type Node interface {
	Kind() NodeKind
	Loc() Span
}

// Root holds a template's top-level children
type Root struct {
	Children []Node
	Span     Span
}

// Kind returns KindRoot
func (n *Root) Kind() NodeKind { return KindRoot }

// Loc returns the node's source span
func (n *Root) Loc() Span { return n.Span }

// Element is an element or component tag with its props and children.
// CacheIndex is the render-function cache slot assigned when the element
// carries v-once or v-memo; -1 means no slot. IsBlock marks elements the
// virtual-DOM backend opens a tracking block for (block roots, branch and
// list item roots, memoized subtrees).
type Element struct {
	Tag           string
	IsComponent   bool
	IsSelfClosing bool
	IsBlock       bool
	Props         []Prop
	Children      []Node
	Flags         PatchFlag
	DynamicProps  []string
	Once          bool
	MemoDeps      Expression
	CacheIndex    int
	Span          Span
}

// Kind returns KindElement
func (n *Element) Kind() NodeKind { return KindElement }

// Loc returns the node's source span
func (n *Element) Loc() Span { return n.Span }

// HasFlag reports whether all bits of flag are set on the element
func (n *Element) HasFlag(flag PatchFlag) bool {
	return n.Flags.Has(flag)
}

// Text is literal text content
type Text struct {
	Content string
	Span    Span
}

// Kind returns KindText
func (n *Text) Kind() NodeKind { return KindText }

// Loc returns the node's source span
func (n *Text) Loc() Span { return n.Span }

// Comment is an HTML comment carried through to output
type Comment struct {
	Content string
	Span    Span
}

// Kind returns KindComment
func (n *Comment) Kind() NodeKind { return KindComment }

// Loc returns the node's source span
func (n *Comment) Loc() Span { return n.Span }

// Interpolation is a {{ expression }} site evaluated at render time
type Interpolation struct {
	Content Expression
	Span    Span
}

// Kind returns KindInterpolation
func (n *Interpolation) Kind() NodeKind { return KindInterpolation }

// Loc returns the node's source span
func (n *Interpolation) Loc() Span { return n.Span }

// If is a v-if/v-else-if/v-else chain collapsed into one structural node.
// Once, MemoDeps and CacheIndex mirror Element: a v-once or v-memo written
// on the leading v-if element guards the whole chain.
type If struct {
	Branches   []*IfBranch
	Once       bool
	MemoDeps   Expression
	CacheIndex int
	Span       Span
}

// Kind returns KindIf
func (n *If) Kind() NodeKind { return KindIf }

// Loc returns the node's source span
func (n *If) Loc() Span { return n.Span }

// HasElse reports whether the chain ends in an unconditional branch
func (n *If) HasElse() bool {
	return len(n.Branches) > 0 && n.Branches[len(n.Branches)-1].Condition == nil
}

// IfBranch is one arm of an If chain. Condition is nil for a final v-else.
type IfBranch struct {
	Condition Expression
	Children  []Node
	Span      Span
}

// For is a v-for loop over Source. Value, Key and Index are the loop
// bindings from the left side of "in"/"of"; Key and Index may be nil.
type For struct {
	Source     Expression
	Value      Expression
	Key        Expression
	Index      Expression
	Children   []Node
	Keyed      bool
	Once       bool
	MemoDeps   Expression
	CacheIndex int
	Span       Span
}

// Kind returns KindFor
func (n *For) Kind() NodeKind { return KindFor }

// Loc returns the node's source span
func (n *For) Loc() Span { return n.Span }

// Hoisted is a back-reference into the compilation's hoist table. Index is
// 0-based; emitted identifiers are 1-based (_hoisted_1 for index 0).
type Hoisted struct {
	Index int
	Span  Span
}

// Kind returns KindHoisted
func (n *Hoisted) Kind() NodeKind { return KindHoisted }

// Loc returns the node's source span
func (n *Hoisted) Loc() Span { return n.Span }

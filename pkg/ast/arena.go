package ast

// Arena owns all node storage for one compilation. Nodes are handed out
// as pointers into per-kind slabs; the whole tree is released by dropping
// the arena, and Reset reuses the backing memory for the next compile.
// An arena belongs to a single compilation at a time.
type Arena struct {
	roots          []Root
	elements       []Element
	texts          []Text
	comments       []Comment
	interpolations []Interpolation
	ifs            []If
	ifBranches     []IfBranch
	fors           []For
	hoisted        []Hoisted
	attributes     []Attribute
	directives     []Directive
	simpleExprs    []SimpleExpression
	compoundExprs  []CompoundExpression
}

// NewArena creates an arena with slab capacity for a typical template.
func NewArena() *Arena {
	return &Arena{
		roots:          make([]Root, 0, 1),
		elements:       make([]Element, 0, 32),
		texts:          make([]Text, 0, 32),
		comments:       make([]Comment, 0, 4),
		interpolations: make([]Interpolation, 0, 16),
		ifs:            make([]If, 0, 4),
		ifBranches:     make([]IfBranch, 0, 8),
		fors:           make([]For, 0, 4),
		hoisted:        make([]Hoisted, 0, 8),
		attributes:     make([]Attribute, 0, 32),
		directives:     make([]Directive, 0, 16),
		simpleExprs:    make([]SimpleExpression, 0, 32),
		compoundExprs:  make([]CompoundExpression, 0, 8),
	}
}

// Reset clears the arena for reuse, keeping backing memory allocated.
// Any node obtained before the reset must no longer be used.
func (a *Arena) Reset() {
	a.roots = a.roots[:0]
	a.elements = a.elements[:0]
	a.texts = a.texts[:0]
	a.comments = a.comments[:0]
	a.interpolations = a.interpolations[:0]
	a.ifs = a.ifs[:0]
	a.ifBranches = a.ifBranches[:0]
	a.fors = a.fors[:0]
	a.hoisted = a.hoisted[:0]
	a.attributes = a.attributes[:0]
	a.directives = a.directives[:0]
	a.simpleExprs = a.simpleExprs[:0]
	a.compoundExprs = a.compoundExprs[:0]
}

// Len returns the total number of live allocations, for tests and stats.
func (a *Arena) Len() int {
	return len(a.roots) + len(a.elements) + len(a.texts) + len(a.comments) +
		len(a.interpolations) + len(a.ifs) + len(a.ifBranches) + len(a.fors) +
		len(a.hoisted) + len(a.attributes) + len(a.directives) +
		len(a.simpleExprs) + len(a.compoundExprs)
}

// NewRoot allocates a zeroed Root.
func (a *Arena) NewRoot() *Root {
	a.roots = append(a.roots, Root{})
	return &a.roots[len(a.roots)-1]
}

// NewElement allocates an Element with no cache slot assigned.
func (a *Arena) NewElement() *Element {
	a.elements = append(a.elements, Element{CacheIndex: -1})
	return &a.elements[len(a.elements)-1]
}

// NewText allocates a zeroed Text.
func (a *Arena) NewText() *Text {
	a.texts = append(a.texts, Text{})
	return &a.texts[len(a.texts)-1]
}

// NewComment allocates a zeroed Comment.
func (a *Arena) NewComment() *Comment {
	a.comments = append(a.comments, Comment{})
	return &a.comments[len(a.comments)-1]
}

// NewInterpolation allocates a zeroed Interpolation.
func (a *Arena) NewInterpolation() *Interpolation {
	a.interpolations = append(a.interpolations, Interpolation{})
	return &a.interpolations[len(a.interpolations)-1]
}

// NewIf allocates an If with no cache slot assigned.
func (a *Arena) NewIf() *If {
	a.ifs = append(a.ifs, If{CacheIndex: -1})
	return &a.ifs[len(a.ifs)-1]
}

// NewIfBranch allocates a zeroed IfBranch.
func (a *Arena) NewIfBranch() *IfBranch {
	a.ifBranches = append(a.ifBranches, IfBranch{})
	return &a.ifBranches[len(a.ifBranches)-1]
}

// NewFor allocates a For with no cache slot assigned.
func (a *Arena) NewFor() *For {
	a.fors = append(a.fors, For{CacheIndex: -1})
	return &a.fors[len(a.fors)-1]
}

// NewHoisted allocates a zeroed Hoisted.
func (a *Arena) NewHoisted() *Hoisted {
	a.hoisted = append(a.hoisted, Hoisted{})
	return &a.hoisted[len(a.hoisted)-1]
}

// NewAttribute allocates a zeroed Attribute.
func (a *Arena) NewAttribute() *Attribute {
	a.attributes = append(a.attributes, Attribute{})
	return &a.attributes[len(a.attributes)-1]
}

// NewDirective allocates a zeroed Directive.
func (a *Arena) NewDirective() *Directive {
	a.directives = append(a.directives, Directive{})
	return &a.directives[len(a.directives)-1]
}

// NewSimpleExpression allocates a zeroed SimpleExpression.
func (a *Arena) NewSimpleExpression() *SimpleExpression {
	a.simpleExprs = append(a.simpleExprs, SimpleExpression{})
	return &a.simpleExprs[len(a.simpleExprs)-1]
}

// NewCompoundExpression allocates a zeroed CompoundExpression.
func (a *Arena) NewCompoundExpression() *CompoundExpression {
	a.compoundExprs = append(a.compoundExprs, CompoundExpression{})
	return &a.compoundExprs[len(a.compoundExprs)-1]
}

// Simple is a convenience constructor for a SimpleExpression.
func (a *Arena) Simple(content string, isStatic bool, span Span) *SimpleExpression {
	e := a.NewSimpleExpression()
	e.Content = content
	e.IsStatic = isStatic
	e.Span = span
	return e
}

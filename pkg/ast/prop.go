package ast

// PropKind identifies the variant of an element prop
type PropKind uint8

const (
	// PropAttribute is a static name/value attribute
	PropAttribute PropKind = iota
	// PropDirective is a v- directive or its : / @ shorthand
	PropDirective
)

// Prop is the closed variant set of element props. Concrete types are
// *Attribute and *Directive.
type Prop interface {
	PropKind() PropKind
	Loc() Span
}

// Attribute is a static name/value pair. Value is empty for bare
// attributes like "disabled"; HasValue distinguishes `a=""` from `a`.
type Attribute struct {
	Name     string
	Value    string
	HasValue bool
	Span     Span
}

// PropKind returns PropAttribute
func (p *Attribute) PropKind() PropKind { return PropAttribute }

// Loc returns the prop's source span
func (p *Attribute) Loc() Span { return p.Span }

// Directive is a template directive. Name is the canonical name without
// the v- prefix ("bind" for both v-bind: and the : shorthand, "on" for
// @). Arg is the argument expression (nil for the bare form), Exp the
// value expression (nil when none was written), and Modifiers the
// dot-suffixed modifier names in source order.
type Directive struct {
	Name      string
	Arg       Expression
	Exp       Expression
	Modifiers []string
	Span      Span
}

// PropKind returns PropDirective
func (p *Directive) PropKind() PropKind { return PropDirective }

// Loc returns the prop's source span
func (p *Directive) Loc() Span { return p.Span }

// HasModifier reports whether the directive carries the named modifier
func (p *Directive) HasModifier(name string) bool {
	for _, m := range p.Modifiers {
		if m == name {
			return true
		}
	}
	return false
}

// FindProp returns the first prop with the given static name: an
// Attribute named name, or a Directive whose simple static argument
// resolves to name. Returns nil when absent.
func FindProp(el *Element, name string) Prop {
	for _, p := range el.Props {
		switch p := p.(type) {
		case *Attribute:
			if p.Name == name {
				return p
			}
		case *Directive:
			if arg, ok := p.Arg.(*SimpleExpression); ok && arg.IsStatic && arg.Content == name {
				return p
			}
		}
	}
	return nil
}

// FindDirective returns the first directive with the given canonical name,
// or nil when the element has none.
func FindDirective(el *Element, name string) *Directive {
	for _, p := range el.Props {
		if d, ok := p.(*Directive); ok && d.Name == name {
			return d
		}
	}
	return nil
}

package ast

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFindDirective(t *testing.T) {
	arena := NewArena()
	el := arena.NewElement()
	el.Tag = "div"

	bind := arena.NewDirective()
	bind.Name = "bind"
	show := arena.NewDirective()
	show.Name = "show"
	el.Props = []Prop{bind, show}

	require.Same(t, show, FindDirective(el, "show"))
	require.Nil(t, FindDirective(el, "if"))
}

func TestFindProp(t *testing.T) {
	arena := NewArena()
	el := arena.NewElement()
	el.Tag = "li"

	id := arena.NewAttribute()
	id.Name = "id"
	id.Value = "item"
	id.HasValue = true

	key := arena.NewDirective()
	key.Name = "bind"
	key.Arg = arena.Simple("key", true, Span{})

	el.Props = []Prop{id, key}

	require.Same(t, Prop(id), FindProp(el, "id"))
	require.Same(t, Prop(key), FindProp(el, "key"))
	require.Nil(t, FindProp(el, "class"))
}

func TestDirectiveHasModifier(t *testing.T) {
	arena := NewArena()
	d := arena.NewDirective()
	d.Name = "bind"
	d.Modifiers = []string{"camel", "prop"}

	require.True(t, d.HasModifier("camel"))
	require.True(t, d.HasModifier("prop"))
	require.False(t, d.HasModifier("attr"))
}

func TestCompoundExpressionSource(t *testing.T) {
	arena := NewArena()
	c := arena.NewCompoundExpression()
	c.Fragments = []ExprFragment{
		{Kind: FragmentIdentifier, Text: "_ctx.count"},
		{Kind: FragmentLiteral, Text: " + 1"},
	}

	require.Equal(t, "_ctx.count + 1", c.Source())
	require.False(t, c.Static())
}

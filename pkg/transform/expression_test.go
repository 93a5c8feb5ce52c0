package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/runtime"
)

func rewriteSrc(t *testing.T, src string, b Bindings) (ast.Expression, *Context) {
	t.Helper()
	arena := ast.NewArena()
	ctx := NewContext(arena, src, Config{Bindings: b}, &diag.List{})
	e := arena.Simple(src, false, ast.Span{Start: 0, Length: len(src)})
	return rewriteExpression(ctx, e), ctx
}

func TestRewriteBindingKinds(t *testing.T) {
	bindings := Bindings{
		"count": BindingSetupRef,
		"msg":   BindingSetupConst,
		"maybe": BindingSetupLet,
		"size":  BindingProp,
		"title": BindingOptions,
	}
	tests := []struct {
		in   string
		want string
	}{
		{"count", "count.value"},
		{"msg", "msg"},
		{"maybe", "_unref(maybe)"},
		{"size", "__props.size"},
		{"title", "_ctx.title"},
		{"other", "_ctx.other"},
		{"count + size", "count.value + __props.size"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			e, _ := rewriteSrc(t, tt.in, bindings)
			require.Equal(t, tt.want, e.Source())
		})
	}
}

func TestRewriteRegistersUnref(t *testing.T) {
	_, ctx := rewriteSrc(t, "maybe + 1", Bindings{"maybe": BindingSetupLet})
	require.True(t, ctx.Helpers.Contains(runtime.Unref))
}

func TestRewriteHeuristics(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"member access", "user.name", "_ctx.user.name"},
		{"optional chain tail", "user?.name", "_ctx.user?.name"},
		{"call", "fmt(x)", "_ctx.fmt(_ctx.x)"},
		{"string literal", "'lit' + x", "'lit' + _ctx.x"},
		{"double quoted", `flag ? "a" : "b"`, `_ctx.flag ? "a" : "b"`},
		{"object key skipped", "{ active: isOn }", "{ active: _ctx.isOn }"},
		{"shorthand expanded", "{ isOn }", "{ isOn: _ctx.isOn }"},
		{"ternary alternative", "a ? b : c", "_ctx.a ? _ctx.b : _ctx.c"},
		{"arrow param local", "items.map(i => i.id)", "_ctx.items.map(i => i.id)"},
		{"keyword untouched", "true && x", "true && _ctx.x"},
		{"global untouched", "Math.max(x, 2)", "Math.max(_ctx.x, 2)"},
		{"event payload", "$event.target.value", "$event.target.value"},
		{"numbers untouched", "n * 1.5e3", "_ctx.n * 1.5e3"},
		{"unary", "!done", "!_ctx.done"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := rewriteSrc(t, tt.in, nil)
			require.Equal(t, tt.want, e.Source())
		})
	}
}

func TestRewriteUnchangedStaysSimple(t *testing.T) {
	e, _ := rewriteSrc(t, "$event.target", nil)
	_, ok := e.(*ast.SimpleExpression)
	require.True(t, ok, "an untouched expression keeps its original node")
}

func TestRewriteStaticUntouched(t *testing.T) {
	arena := ast.NewArena()
	ctx := NewContext(arena, "", Config{}, &diag.List{})
	e := arena.Simple("plain", true, ast.Span{})
	require.Same(t, e, rewriteExpression(ctx, e))
}

func TestRewriteCompoundSpansStayInBounds(t *testing.T) {
	src := "first + second"
	e, _ := rewriteSrc(t, src, nil)
	c, ok := e.(*ast.CompoundExpression)
	require.True(t, ok)
	for _, f := range c.Fragments {
		require.GreaterOrEqual(t, f.Span.Start, 0)
		require.LessOrEqual(t, f.Span.End(), len(src))
	}
}

func TestBindNameResolution(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		want    string
		dynamic bool
	}{
		{"plain", `<div v-bind:foo="x"></div>`, "foo", false},
		{"shorthand", `<div :foo="x"></div>`, "foo", false},
		{"camel", `<div v-bind:data-x.camel="x"></div>`, "dataX", false},
		{"prop prefix", `<div v-bind:foo.prop="x"></div>`, ".foo", false},
		{"attr prefix", `<div v-bind:foo.attr="x"></div>`, "^foo", false},
		{"dynamic", `<div v-bind:[key]="x"></div>`, "key", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			el, _ := parseElement(t, tt.src)
			d := ast.FindDirective(el, "bind")
			require.NotNil(t, d)
			name, dynamic := BindName(d)
			require.Equal(t, tt.want, name)
			require.Equal(t, tt.dynamic, dynamic)
		})
	}
}

func TestIsDynamicBinding(t *testing.T) {
	tests := []struct {
		src  string
		want bool
	}{
		{`<div v-bind:id="x"></div>`, false},
		{`<div v-bind:[k]="x"></div>`, true},
		{`<div v-bind="obj"></div>`, true},
	}
	for _, tt := range tests {
		el, _ := parseElement(t, tt.src)
		d := ast.FindDirective(el, "bind")
		require.NotNil(t, d)
		require.Equal(t, tt.want, IsDynamicBinding(d), "source %q", tt.src)
	}
}

func TestModifierPredicatesIndependent(t *testing.T) {
	el, _ := parseElement(t, `<div v-bind:foo.camel.prop="x"></div>`)
	d := ast.FindDirective(el, "bind")
	require.NotNil(t, d)
	require.True(t, HasCamelModifier(d))
	require.True(t, HasPropModifier(d))
	require.False(t, HasAttrModifier(d))
}

func TestHandlerKey(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`<a v-on:click="go"></a>`, "onClick"},
		{`<a @some-event="go"></a>`, "onSomeEvent"},
		{`<a @click.capture="go"></a>`, "onClickCapture"},
		{`<a @click.capture.once="go"></a>`, "onClickCaptureOnce"},
		{`<a @update:modelValue="go"></a>`, "onUpdate:modelValue"},
	}
	for _, tt := range tests {
		el, _ := parseElement(t, tt.src)
		d := ast.FindDirective(el, "on")
		require.NotNil(t, d)
		name, dynamic := BindName(d)
		require.False(t, dynamic)
		require.Equal(t, tt.want, HandlerKey(name, d), "source %q", tt.src)
	}
}

func TestRuntimeModifiers(t *testing.T) {
	el, _ := parseElement(t, `<a @click.stop.prevent.capture="go"></a>`)
	d := ast.FindDirective(el, "on")
	require.NotNil(t, d)
	require.Equal(t, []string{"stop", "prevent"}, RuntimeModifiers(d))
}

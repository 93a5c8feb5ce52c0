package codegen

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/parse"
	"github.com/recera/vex/pkg/runtime"
	"github.com/recera/vex/pkg/transform"
)

func generate(t *testing.T, src string, cfg transform.Config, opts Options) (Result, *diag.List) {
	t.Helper()
	arena := ast.NewArena()
	root, diags := parse.Parse("test.vex", src, arena)
	require.False(t, diags.HasErrors(), "unexpected parse errors: %s", diags)
	ctx := transform.NewContext(arena, src, cfg, diags)
	transform.Transform(root, ctx)
	return Generate(root, ctx, opts), diags
}

func TestPreambleImportsInDeclarationOrder(t *testing.T) {
	res, diags := generate(t, `<p>{{ msg }}</p>`, transform.Config{}, Options{})
	require.False(t, diags.HasErrors())
	require.Equal(t,
		`import { openBlock as _openBlock, createElementBlock as _createElementBlock, `+
			`toDisplayString as _toDisplayString } from "@vex/runtime"`+"\n",
		res.Preamble)
}

func TestPreambleRuntimeModuleOverride(t *testing.T) {
	res, diags := generate(t, `<p>{{ msg }}</p>`, transform.Config{},
		Options{RuntimeModule: "vex/internal-runtime"})
	require.False(t, diags.HasErrors())
	require.Contains(t, res.Preamble, ` } from "vex/internal-runtime"`)
	require.NotContains(t, res.Preamble, DefaultRuntimeModule)
}

func TestEmptyTemplate(t *testing.T) {
	for _, mode := range []transform.Mode{transform.ModeDOM, transform.ModeVapor} {
		res, diags := generate(t, ``, transform.Config{Mode: mode}, Options{})
		require.False(t, diags.HasErrors())
		require.Contains(t, res.Code, "return null")
		require.Empty(t, res.Preamble, "an empty template imports nothing")
	}
	res, diags := generate(t, ``, transform.Config{Mode: transform.ModeSSR}, Options{})
	require.False(t, diags.HasErrors())
	require.Equal(t, "export function ssrRender(_ctx, _push, _parent, _attrs) {\n}\n", res.Code)
}

// Generating from a tree that never went through the transform must trip
// the helper assertion instead of emitting an identifier the import line
// would miss.
func TestUnregisteredHelperPanics(t *testing.T) {
	arena := ast.NewArena()
	root, diags := parse.Parse("test.vex", `<p>x</p>`, arena)
	require.False(t, diags.HasErrors())
	ctx := transform.NewContext(arena, `<p>x</p>`, transform.Config{}, diags)

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected the helper assertion to panic")
		bug, ok := r.(*diag.Bug)
		require.True(t, ok, "panic payload should be a *diag.Bug, got %T", r)
		require.Equal(t, diag.CodeUnresolvedHelper, bug.Code)
		require.Contains(t, bug.Message, runtime.CreateElementVNode.Name())
	}()
	Generate(root, ctx, Options{})
}

// A hoisted reference into a table the transform never filled means the
// node crossed compilations; that trips the hoist assertion instead of
// emitting a dangling _hoisted_N identifier.
func TestStaleHoistReferencePanics(t *testing.T) {
	arena := ast.NewArena()
	root := arena.NewRoot()
	h := arena.NewHoisted()
	h.Index = 3
	root.Children = []ast.Node{h}
	ctx := transform.NewContext(arena, "", transform.Config{}, &diag.List{})

	defer func() {
		r := recover()
		require.NotNil(t, r, "expected the hoist assertion to panic")
		bug, ok := r.(*diag.Bug)
		require.True(t, ok, "panic payload should be a *diag.Bug, got %T", r)
		require.Equal(t, diag.CodeUnresolvedHoist, bug.Code)
		require.Contains(t, bug.Message, "slot 3")
	}()
	Generate(root, ctx, Options{})
}

func TestComponentVar(t *testing.T) {
	require.Equal(t, "_component_Widget", componentVar("Widget"))
	require.Equal(t, "_component_my_widget", componentVar("my-widget"))
}

func TestWriterIndentation(t *testing.T) {
	var w writer
	w.line("a {")
	w.push()
	w.line("b")
	w.push()
	w.linef("c%d", 1)
	w.pop()
	w.line("d")
	w.pop()
	w.line("}")
	require.Equal(t, "a {\n  b\n    c1\n  d\n}\n", w.String())
}

package transform

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
	"github.com/recera/vex/pkg/parse"
	"github.com/recera/vex/pkg/runtime"
)

func transformSrc(t *testing.T, src string, cfg Config) (*ast.Root, *Context) {
	t.Helper()
	arena := ast.NewArena()
	root, diags := parse.Parse("test.vex", src, arena)
	require.False(t, diags.HasErrors(), "unexpected parse errors: %s", diags)
	ctx := NewContext(arena, src, cfg, diags)
	Transform(root, ctx)
	return root, ctx
}

func parseElement(t *testing.T, src string) (*ast.Element, *Context) {
	t.Helper()
	arena := ast.NewArena()
	root, diags := parse.Parse("test.vex", src, arena)
	require.False(t, diags.HasErrors(), "unexpected parse errors: %s", diags)
	require.Len(t, root.Children, 1)
	el, ok := root.Children[0].(*ast.Element)
	require.True(t, ok, "expected an element root")
	return el, NewContext(arena, src, Config{}, diags)
}

func TestRemoveDirectiveIdempotent(t *testing.T) {
	el, _ := parseElement(t, `<div v-once v-bind:id="a" v-show="ok"></div>`)
	require.Len(t, el.Props, 3)

	d := RemoveDirective(el, "once")
	require.NotNil(t, d)
	require.Equal(t, "once", d.Name)
	require.Len(t, el.Props, 2)

	require.Nil(t, RemoveDirective(el, "once"))
	require.Len(t, el.Props, 2)

	// remaining props keep their relative order
	bind, ok := el.Props[0].(*ast.Directive)
	require.True(t, ok)
	require.Equal(t, "bind", bind.Name)
	show, ok := el.Props[1].(*ast.Directive)
	require.True(t, ok)
	require.Equal(t, "show", show.Name)

	require.Nil(t, RemoveDirective(el, "missing"))
}

func TestVOnceFlagScoping(t *testing.T) {
	root, ctx := transformSrc(t,
		`<div><span v-once>{{ a }}</span><b v-bind:id="x"></b></div>`, Config{})

	require.False(t, ctx.InVOnce, "in-v-once must not leak past the subtree")

	div := root.Children[0].(*ast.Element)
	span := div.Children[0].(*ast.Element)
	require.True(t, span.Once)
	require.Equal(t, 0, span.CacheIndex)
	require.Zero(t, span.Flags, "flags are suppressed under v-once")

	b := div.Children[1].(*ast.Element)
	require.NotZero(t, b.Flags&ast.FlagProps, "siblings keep their flags")
	require.Equal(t, []string{"id"}, b.DynamicProps)

	require.True(t, ctx.Helpers.Contains(runtime.SetBlockTracking))
}

func TestCacheSlotsUnique(t *testing.T) {
	root, ctx := transformSrc(t,
		`<div><p v-once>a</p><p v-once>b</p><p v-memo="[x]">c</p></div>`, Config{})

	div := root.Children[0].(*ast.Element)
	var indexes []int
	for _, c := range div.Children {
		indexes = append(indexes, c.(*ast.Element).CacheIndex)
	}
	require.Equal(t, []int{0, 1, 2}, indexes)
	require.Equal(t, 3, ctx.CacheCount())
}

func TestScenarioClassBinding(t *testing.T) {
	_, ctx := transformSrc(t, `<div v-bind:class="cls"></div>`, Config{})
	require.True(t, ctx.Helpers.Contains(runtime.NormalizeClass))
}

func TestScenarioObjectSpread(t *testing.T) {
	_, ctx := transformSrc(t, `<div v-bind="obj"></div>`, Config{})
	require.True(t, ctx.Helpers.Contains(runtime.MergeProps))
	require.False(t, ctx.Helpers.Contains(runtime.NormalizeClass))
	require.False(t, ctx.Helpers.Contains(runtime.NormalizeStyle))
}

func TestScenarioVOnce(t *testing.T) {
	_, ctx := transformSrc(t, `<div v-once>{{ x }}</div>`, Config{})
	require.True(t, ctx.Helpers.Contains(runtime.SetBlockTracking))
}

func TestBindWithoutTarget(t *testing.T) {
	tests := []struct {
		name string
		src  string
		msg  string
	}{
		{"no argument and no value", `<div v-bind></div>`,
			"v-bind requires an argument or an object expression"},
		{"argument without value", `<div v-bind:id></div>`,
			"v-bind:id is missing its value"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			arena := ast.NewArena()
			root, diags := parse.Parse("test.vex", tt.src, arena)
			require.False(t, diags.HasErrors(), "unexpected parse errors: %s", diags)
			ctx := NewContext(arena, tt.src, Config{}, diags)
			Transform(root, ctx)

			require.True(t, diags.HasErrors())
			var found bool
			for _, d := range diags.Items() {
				if d.Code == diag.CodeInvalidDirectiveArgument {
					found = true
					require.Contains(t, d.Message, tt.msg)
				}
			}
			require.True(t, found, "expected an invalid-argument diagnostic")

			el := root.Children[0].(*ast.Element)
			require.Empty(t, el.Props, "the defective bind is dropped")
			require.False(t, ctx.Helpers.Contains(runtime.MergeProps))
		})
	}
}

func TestHelperRegistrationByMode(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		mode   Mode
		want   []runtime.Helper
		absent []runtime.Helper
	}{
		{
			name: "interpolation dom",
			src:  `<p>{{ msg }}</p>`,
			mode: ModeDOM,
			want: []runtime.Helper{runtime.ToDisplayString, runtime.OpenBlock, runtime.CreateElementBlock},
		},
		{
			name:   "interpolation ssr",
			src:    `<p>{{ msg }}</p>`,
			mode:   ModeSSR,
			want:   []runtime.Helper{runtime.SSRInterpolate},
			absent: []runtime.Helper{runtime.ToDisplayString, runtime.OpenBlock},
		},
		{
			name: "if without else",
			src:  `<div v-if="a"><span>x</span></div>`,
			mode: ModeDOM,
			want: []runtime.Helper{runtime.OpenBlock, runtime.CreateElementBlock, runtime.CreateCommentVNode},
		},
		{
			name: "for dom",
			src:  `<li v-for="i in items">{{ i }}</li>`,
			mode: ModeDOM,
			want: []runtime.Helper{runtime.RenderList, runtime.Fragment, runtime.OpenBlock, runtime.CreateElementBlock},
		},
		{
			name:   "for ssr",
			src:    `<li v-for="i in items">{{ i }}</li>`,
			mode:   ModeSSR,
			want:   []runtime.Helper{runtime.SSRRenderList, runtime.SSRInterpolate},
			absent: []runtime.Helper{runtime.RenderList, runtime.Fragment},
		},
		{
			name: "show dom",
			src:  `<input v-show="ok">`,
			mode: ModeDOM,
			want: []runtime.Helper{runtime.VShow, runtime.WithDirectives},
		},
		{
			name: "component root block",
			src:  `<Counter></Counter>`,
			mode: ModeDOM,
			want: []runtime.Helper{runtime.ResolveComponent, runtime.OpenBlock, runtime.CreateBlock},
			// promoted to a block, so the plain vnode helper is released
			absent: []runtime.Helper{runtime.CreateVNode},
		},
		{
			name:   "component ssr",
			src:    `<Counter></Counter>`,
			mode:   ModeSSR,
			want:   []runtime.Helper{runtime.ResolveComponent, runtime.SSRRenderComponent},
			absent: []runtime.Helper{runtime.CreateBlock},
		},
		{
			name:   "interpolation vapor",
			src:    `<p>{{ msg }}</p>`,
			mode:   ModeVapor,
			want:   []runtime.Helper{runtime.VaporTemplate, runtime.VaporSetText, runtime.VaporRenderEffect},
			absent: []runtime.Helper{runtime.ToDisplayString, runtime.OpenBlock},
		},
		{
			name:   "listener vapor",
			src:    `<button v-on:click="go">run</button>`,
			mode:   ModeVapor,
			want:   []runtime.Helper{runtime.VaporTemplate, runtime.VaporOn},
			absent: []runtime.Helper{runtime.VaporRenderEffect},
		},
		{
			name: "nested write vapor",
			src:  `<div><section><p>{{ msg }}</p></section></div>`,
			mode: ModeVapor,
			want: []runtime.Helper{runtime.VaporTemplate, runtime.VaporChild, runtime.VaporSetText},
		},
		{
			name: "if vapor",
			src:  `<div v-if="a">x</div><p v-else>y</p>`,
			mode: ModeVapor,
			want: []runtime.Helper{runtime.VaporCreateIf, runtime.VaporTemplate},
		},
		{
			name:   "for vapor",
			src:    `<li v-for="i in items">{{ i }}</li>`,
			mode:   ModeVapor,
			want:   []runtime.Helper{runtime.VaporCreateFor, runtime.VaporTemplate, runtime.VaporSetText},
			absent: []runtime.Helper{runtime.RenderList},
		},
		{
			name:   "once vapor",
			src:    `<p v-once>{{ msg }}</p>`,
			mode:   ModeVapor,
			want:   []runtime.Helper{runtime.VaporSetText},
			absent: []runtime.Helper{runtime.VaporRenderEffect, runtime.SetBlockTracking},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ctx := transformSrc(t, tt.src, Config{Mode: tt.mode})
			for _, h := range tt.want {
				require.True(t, ctx.Helpers.Contains(h), "missing helper %s", h)
			}
			for _, h := range tt.absent {
				require.False(t, ctx.Helpers.Contains(h), "unexpected helper %s", h)
			}
		})
	}
}

func TestIfChainCollapse(t *testing.T) {
	root, _ := transformSrc(t,
		`<div v-if="a">1</div><!-- pick --><p v-else-if="b">2</p><span v-else>3</span>`,
		Config{})

	require.Len(t, root.Children, 1)
	ifNode, ok := root.Children[0].(*ast.If)
	require.True(t, ok, "chain should collapse into one If node")
	require.Len(t, ifNode.Branches, 3)

	require.NotNil(t, ifNode.Branches[0].Condition)
	require.Equal(t, "_ctx.a", ifNode.Branches[0].Condition.Source())
	require.NotNil(t, ifNode.Branches[1].Condition)
	require.Equal(t, "_ctx.b", ifNode.Branches[1].Condition.Source())
	require.Nil(t, ifNode.Branches[2].Condition)
	require.True(t, ifNode.HasElse())

	// the branch elements kept their own tags
	require.Equal(t, "div", ifNode.Branches[0].Children[0].(*ast.Element).Tag)
	require.Equal(t, "p", ifNode.Branches[1].Children[0].(*ast.Element).Tag)
	require.Equal(t, "span", ifNode.Branches[2].Children[0].(*ast.Element).Tag)
}

func TestIfOrphanElse(t *testing.T) {
	arena := ast.NewArena()
	src := `<div v-else>x</div>`
	root, diags := parse.Parse("test.vex", src, arena)
	ctx := NewContext(arena, src, Config{}, diags)
	Transform(root, ctx)

	require.True(t, diags.HasErrors())
	found := false
	for _, d := range diags.Items() {
		if d.Code == diag.CodeUnsupportedDirectiveCombination {
			found = true
		}
	}
	require.True(t, found, "expected an unsupported-combination diagnostic")

	// the element itself survives as a plain node
	require.Len(t, root.Children, 1)
	el, ok := root.Children[0].(*ast.Element)
	require.True(t, ok)
	require.Empty(t, el.Props)
}

func TestIfWithForOnSameElement(t *testing.T) {
	arena := ast.NewArena()
	src := `<div v-if="ok" v-for="i in items">{{ i }}</div>`
	root, diags := parse.Parse("test.vex", src, arena)
	ctx := NewContext(arena, src, Config{}, diags)
	Transform(root, ctx)

	warned := false
	for _, d := range diags.Items() {
		if d.Code == diag.CodeUnsupportedDirectiveCombination && d.Severity == diag.Warning {
			warned = true
		}
	}
	require.True(t, warned)

	// v-if wins: the branch body holds the loop
	ifNode, ok := root.Children[0].(*ast.If)
	require.True(t, ok)
	_, ok = ifNode.Branches[0].Children[0].(*ast.For)
	require.True(t, ok, "v-for should nest inside the branch")
}

func TestForParsing(t *testing.T) {
	tests := []struct {
		name   string
		src    string
		source string
		value  string
		key    string
		index  string
		keyed  bool
	}{
		{
			name:   "value only",
			src:    `<li v-for="item in items"></li>`,
			source: "_ctx.items",
			value:  "item",
		},
		{
			name:   "value and key",
			src:    `<li v-for="(item, i) in items" v-bind:key="item.id"></li>`,
			source: "_ctx.items",
			value:  "item",
			key:    "i",
			keyed:  true,
		},
		{
			name:   "of syntax with index",
			src:    `<li v-for="(v, k, idx) of entries"></li>`,
			source: "_ctx.entries",
			value:  "v",
			key:    "k",
			index:  "idx",
		},
		{
			name:   "destructured value",
			src:    `<li v-for="{ id, label } in rows">{{ label }}</li>`,
			source: "_ctx.rows",
			value:  "{ id, label }",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := transformSrc(t, tt.src, Config{})
			forNode, ok := root.Children[0].(*ast.For)
			require.True(t, ok)
			require.Equal(t, tt.source, forNode.Source.Source())
			require.Equal(t, tt.value, forNode.Value.Source())
			if tt.key == "" {
				require.Nil(t, forNode.Key)
			} else {
				require.Equal(t, tt.key, forNode.Key.Source())
			}
			if tt.index == "" {
				require.Nil(t, forNode.Index)
			} else {
				require.Equal(t, tt.index, forNode.Index.Source())
			}
			require.Equal(t, tt.keyed, forNode.Keyed)
		})
	}
}

func TestForInvalidExpression(t *testing.T) {
	for _, src := range []string{
		`<li v-for="items"></li>`,
		`<li v-for></li>`,
		`<li v-for="in items"></li>`,
	} {
		arena := ast.NewArena()
		root, diags := parse.Parse("test.vex", src, arena)
		ctx := NewContext(arena, src, Config{}, diags)
		Transform(root, ctx)

		require.True(t, diags.HasErrors(), "source %q should not transform cleanly", src)
		// the element degrades to a plain node instead of vanishing
		_, ok := root.Children[0].(*ast.Element)
		require.True(t, ok, "source %q", src)
	}
}

func TestForScopeShadowsBindings(t *testing.T) {
	root, _ := transformSrc(t, `<li v-for="item in items">{{ item.name }}</li>`,
		Config{Bindings: Bindings{"items": BindingSetupRef, "item": BindingSetupRef}})

	forNode := root.Children[0].(*ast.For)
	require.Equal(t, "items.value", forNode.Source.Source())

	li := forNode.Children[0].(*ast.Element)
	interp := li.Children[0].(*ast.Interpolation)
	require.Equal(t, "item.name", interp.Content.Source(),
		"loop variables must shadow script bindings")
}

func TestForMemoPerItem(t *testing.T) {
	root, ctx := transformSrc(t,
		`<li v-for="row in rows" v-memo="[row.sel]" v-bind:key="row.id">{{ row.id }}</li>`,
		Config{})

	forNode, ok := root.Children[0].(*ast.For)
	require.True(t, ok)
	require.NotNil(t, forNode.MemoDeps)
	require.Equal(t, "[row.sel]", forNode.MemoDeps.Source())
	require.Equal(t, 0, forNode.CacheIndex)

	require.True(t, ctx.Helpers.Contains(runtime.IsMemoSame))
	require.False(t, ctx.Helpers.Contains(runtime.WithMemo),
		"per-item memo compares inside the list callback")
}

func TestPatchFlags(t *testing.T) {
	tests := []struct {
		name  string
		src   string
		flags ast.PatchFlag
		props []string
	}{
		{
			name:  "dynamic class",
			src:   `<div v-bind:class="cls"></div>`,
			flags: ast.FlagClass,
		},
		{
			name:  "dynamic style",
			src:   `<div v-bind:style="st"></div>`,
			flags: ast.FlagStyle,
		},
		{
			name:  "named prop",
			src:   `<div v-bind:id="x"></div>`,
			flags: ast.FlagProps,
			props: []string{"id"},
		},
		{
			name:  "listener",
			src:   `<button v-on:click="go"></button>`,
			flags: ast.FlagProps,
			props: []string{"onClick"},
		},
		{
			name:  "dynamic key subsumes",
			src:   `<div v-bind:id="x" v-bind:[k]="v"></div>`,
			flags: ast.FlagFullProps,
		},
		{
			name:  "spread subsumes",
			src:   `<div v-bind:class="c" v-bind="obj"></div>`,
			flags: ast.FlagFullProps,
		},
		{
			name:  "text child",
			src:   `<p>{{ msg }}</p>`,
			flags: ast.FlagText,
		},
		{
			name:  "show needs patch",
			src:   `<input v-show="ok">`,
			flags: ast.FlagNeedPatch,
		},
		{
			name:  "static only",
			src:   `<div id="a" class="b"></div>`,
			flags: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root, _ := transformSrc(t, tt.src, Config{})
			el := root.Children[0].(*ast.Element)
			require.Equal(t, tt.flags, el.Flags, "flags %s", el.Flags)
			if tt.props == nil {
				require.Empty(t, el.DynamicProps)
			} else {
				require.Equal(t, tt.props, el.DynamicProps)
			}
		})
	}
}

func TestHoisting(t *testing.T) {
	root, ctx := transformSrc(t,
		`<div><p class="big">static</p><p>{{ dyn }}</p></div>`, Config{})

	div := root.Children[0].(*ast.Element)
	h, ok := div.Children[0].(*ast.Hoisted)
	require.True(t, ok, "fully static subtree should hoist")
	require.Equal(t, 0, h.Index)
	require.Len(t, ctx.Hoists, 1)

	hoisted := ctx.Hoists[0].(*ast.Element)
	require.Equal(t, "p", hoisted.Tag)

	_, ok = div.Children[1].(*ast.Element)
	require.True(t, ok, "dynamic sibling stays in place")
}

func TestHoistingSkipsRootBlock(t *testing.T) {
	root, ctx := transformSrc(t, `<div class="x"><span>a</span></div>`, Config{})

	div, ok := root.Children[0].(*ast.Element)
	require.True(t, ok, "the root block itself must not hoist")
	require.Equal(t, "div", div.Tag)
	_, ok = div.Children[0].(*ast.Hoisted)
	require.True(t, ok, "static children of the root block hoist")
	require.Len(t, ctx.Hoists, 1)
}

func TestHoistingSkipsCachedSubtrees(t *testing.T) {
	_, ctx := transformSrc(t,
		`<div v-once><p class="big">static</p></div>`, Config{})
	require.Empty(t, ctx.Hoists, "cached subtrees are not hoisted")
}

func TestUnknownDirectiveWarns(t *testing.T) {
	arena := ast.NewArena()
	src := `<input v-model="name">`
	root, diags := parse.Parse("test.vex", src, arena)
	ctx := NewContext(arena, src, Config{}, diags)
	Transform(root, ctx)

	require.False(t, diags.HasErrors())
	warned := false
	for _, d := range diags.Items() {
		if d.Code == diag.CodeUnknownDirective {
			warned = true
			require.Equal(t, diag.Warning, d.Severity)
		}
	}
	require.True(t, warned)

	el := root.Children[0].(*ast.Element)
	require.Empty(t, el.Props, "unknown directives are dropped")
}

func TestContentDirectiveDiscardsChildren(t *testing.T) {
	arena := ast.NewArena()
	src := `<div v-html="doc">old</div>`
	root, diags := parse.Parse("test.vex", src, arena)
	ctx := NewContext(arena, src, Config{}, diags)
	Transform(root, ctx)

	require.True(t, diags.HasErrors())
	el := root.Children[0].(*ast.Element)
	require.Empty(t, el.Children)
	require.Equal(t, []string{"innerHTML"}, el.DynamicProps)
}

func TestPreRevertsSubtree(t *testing.T) {
	root, ctx := transformSrc(t,
		`<div v-pre><span v-bind:id="x">{{ raw }}</span></div>`, Config{})

	div := root.Children[0].(*ast.Element)
	require.Empty(t, div.Props, "v-pre itself is stripped")

	span := div.Children[0].(*ast.Element)
	require.Len(t, span.Props, 1)
	attr, ok := span.Props[0].(*ast.Attribute)
	require.True(t, ok, "directives revert to literal attributes")
	require.Equal(t, "v-bind:id", attr.Name)
	require.Equal(t, "x", attr.Value)

	text, ok := span.Children[0].(*ast.Text)
	require.True(t, ok, "interpolations revert to text")
	require.Equal(t, "{{ raw }}", text.Content)

	require.False(t, ctx.Helpers.Contains(runtime.ToDisplayString))
	require.True(t, ctx.Helpers.Contains(runtime.CreateElementVNode))
}

func TestVaporUnsupportedNodes(t *testing.T) {
	for _, src := range []string{
		`<Widget></Widget>`,
		`<div v-memo="[a]">x</div>`,
	} {
		arena := ast.NewArena()
		root, diags := parse.Parse("test.vex", src, arena)
		ctx := NewContext(arena, src, Config{Mode: ModeVapor}, diags)
		Transform(root, ctx)

		found := false
		for _, d := range diags.Items() {
			if d.Code == diag.CodeUnsupportedNodeInBackend {
				found = true
			}
		}
		require.True(t, found, "source %q", src)
	}
}

package sfc

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const sample = `<template>
  <div class="card">{{ title }}</div>
</template>

<script setup>
const title = "hi"
</script>

<style scoped>
.card { color: red; }
</style>
`

func TestParseBlocks(t *testing.T) {
	f, err := Parse("card.vex", sample)
	require.NoError(t, err)

	require.NotNil(t, f.Template)
	require.Contains(t, f.Template.Content, `<div class="card">{{ title }}</div>`)
	require.NotNil(t, f.Script)
	require.Contains(t, f.Script.Content, `const title = "hi"`)
	require.Len(t, f.Styles, 1)
	require.Contains(t, f.Styles[0].Content, ".card { color: red; }")

	require.True(t, f.Setup())
	require.True(t, f.Scoped())

	for _, b := range []*Block{f.Template, f.Script, f.Styles[0]} {
		require.Equal(t, b.Content, sample[b.Offset:b.Offset+len(b.Content)],
			"offset must point at the content in the original source")
	}
}

func TestParseBareTemplate(t *testing.T) {
	src := `<div>{{ x }}</div>`
	f, err := Parse("plain.vex", src)
	require.NoError(t, err)
	require.NotNil(t, f.Template)
	require.Equal(t, src, f.Template.Content)
	require.Equal(t, 0, f.Template.Offset)
	require.Nil(t, f.Script)
	require.Empty(t, f.Styles)
	require.False(t, f.Setup())
	require.Empty(t, f.ScopeID())
}

func TestParseNestedTemplateTags(t *testing.T) {
	src := `<template><template v-if="a">x</template><p>y</p></template>`
	f, err := Parse("nested.vex", src)
	require.NoError(t, err)
	require.Equal(t, `<template v-if="a">x</template><p>y</p>`, f.Template.Content)
}

func TestParseSkipsComments(t *testing.T) {
	src := "<!-- <template>old</template> -->\n<template><p>new</p></template>"
	f, err := Parse("c.vex", src)
	require.NoError(t, err)
	require.Equal(t, "<p>new</p>", f.Template.Content)
}

func TestParseBlockAttrs(t *testing.T) {
	src := `<template><p>x</p></template><style lang="scss" scoped>.a{}</style>`
	f, err := Parse("a.vex", src)
	require.NoError(t, err)
	require.Len(t, f.Styles, 1)
	lang, ok := f.Styles[0].Attr("lang")
	require.True(t, ok)
	require.Equal(t, "scss", lang)
	_, scoped := f.Styles[0].Attr("scoped")
	require.True(t, scoped)
}

func TestParseMultipleStyles(t *testing.T) {
	src := `<template><p>x</p></template>
<style>.global{}</style>
<style scoped>.local{}</style>`
	f, err := Parse("m.vex", src)
	require.NoError(t, err)
	require.Len(t, f.Styles, 2)
	require.True(t, f.Scoped())
	require.NotEmpty(t, f.ScopeID())
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"duplicate template", "<template>a</template><template>b</template>", "duplicate <template>"},
		{"duplicate script", "<template>a</template><script>1</script><script>2</script>", "duplicate <script>"},
		{"unterminated style", "<template>a</template><style>.a{", "unterminated <style>"},
		{"unterminated template", "<template><p>a</p>", "unterminated <template>"},
		{"unterminated comment", "<!-- no end", "unterminated comment"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse("bad.vex", tt.src)
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.want)
			require.Contains(t, err.Error(), "bad.vex")
		})
	}
}

func TestScopeIDStability(t *testing.T) {
	f1, err := Parse("card.vex", sample)
	require.NoError(t, err)
	f2, err := Parse("card.vex", sample)
	require.NoError(t, err)
	require.Equal(t, f1.ScopeID(), f2.ScopeID())

	id := f1.ScopeID()
	require.Len(t, id, 8)
	require.Equal(t, strings.ToLower(id), id)

	// both inputs feed the hash
	require.NotEqual(t, id, HashScopeID("other.vex", ".card { color: red; }\n"))
	renamed, err := Parse("other.vex", sample)
	require.NoError(t, err)
	require.NotEqual(t, id, renamed.ScopeID())

	edited, err := Parse("card.vex", strings.Replace(sample, "red", "blue", 1))
	require.NoError(t, err)
	require.NotEqual(t, id, edited.ScopeID())
}

func TestScopeIDOnlyHashesScopedStyles(t *testing.T) {
	base := `<template><p>x</p></template><style scoped>.a{}</style>`
	withGlobal := base + `<style>.b{}</style>`
	f1, err := Parse("s.vex", base)
	require.NoError(t, err)
	f2, err := Parse("s.vex", withGlobal)
	require.NoError(t, err)
	require.Equal(t, f1.ScopeID(), f2.ScopeID(),
		"unscoped styles must not influence the scope id")
}

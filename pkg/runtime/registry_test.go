package runtime

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRegistryCountsNeverGoNegative(t *testing.T) {
	r := NewRegistry()

	// Releasing a helper that was never used saturates at zero.
	r.Unuse(MergeProps)
	require.Equal(t, 0, r.Count(MergeProps))
	require.False(t, r.Contains(MergeProps))

	r.Use(MergeProps)
	r.Use(MergeProps)
	r.Unuse(MergeProps)
	r.Unuse(MergeProps)
	r.Unuse(MergeProps)
	require.Equal(t, 0, r.Count(MergeProps))
	require.False(t, r.Contains(MergeProps))
}

func TestRegistryContainsMatchesCount(t *testing.T) {
	r := NewRegistry()

	// Arbitrary interleaving; the invariant contains(h) == (count(h) > 0)
	// must hold after every step.
	steps := []struct {
		use    bool
		helper Helper
	}{
		{true, NormalizeClass},
		{true, NormalizeClass},
		{false, NormalizeClass},
		{false, NormalizeClass},
		{false, NormalizeClass},
		{true, SetBlockTracking},
		{false, WithMemo},
		{true, NormalizeClass},
	}

	for _, step := range steps {
		if step.use {
			r.Use(step.helper)
		} else {
			r.Unuse(step.helper)
		}
		for h := Helper(0); h < HelperCount; h++ {
			require.GreaterOrEqual(t, r.Count(h), 0)
			require.Equal(t, r.Count(h) > 0, r.Contains(h))
		}
	}

	require.Equal(t, 1, r.Count(NormalizeClass))
	require.Equal(t, 1, r.Count(SetBlockTracking))
}

func TestRegistryPrunesZeroEntries(t *testing.T) {
	r := NewRegistry()
	r.Use(ToDisplayString)
	r.Use(RenderList)
	r.Unuse(RenderList)

	require.Equal(t, 1, r.Len())
	require.Equal(t, []Helper{ToDisplayString}, r.Helpers())
}

func TestRegistryHelpersOrderIsDeterministic(t *testing.T) {
	r := NewRegistry()
	// Register out of declaration order.
	r.Use(ToDisplayString)
	r.Use(OpenBlock)
	r.Use(Fragment)
	r.Use(CreateElementBlock)

	want := []Helper{OpenBlock, CreateElementBlock, Fragment, ToDisplayString}
	require.Equal(t, want, r.Helpers())
	// The order is stable across reads.
	require.Equal(t, want, r.Helpers())
}

func TestHelperNames(t *testing.T) {
	require.Equal(t, "createElementVNode", CreateElementVNode.Name())
	require.Equal(t, "_createElementVNode", CreateElementVNode.Alias())
	require.Equal(t, "Fragment", Fragment.Name())
	require.Equal(t, "template", VaporTemplate.Name())
	require.Equal(t, "ssrRenderAttrs", SSRRenderAttrs.Name())
	require.False(t, HelperCount.Valid())

	// Every declared helper has a runtime name.
	for h := Helper(0); h < HelperCount; h++ {
		require.True(t, h.Valid())
		require.NotEmpty(t, h.Name(), "helper %d has no name", h)
	}
}

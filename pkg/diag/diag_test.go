package diag

import (
	"testing"

	"github.com/recera/vex/pkg/ast"
	"github.com/stretchr/testify/require"
)

func TestListAccumulation(t *testing.T) {
	var list List
	require.False(t, list.HasErrors())

	list.Warnf(CodeUnknownDirective, ast.Span{Start: 4}, "unknown directive v-%s", "model")
	require.False(t, list.HasErrors())
	require.Equal(t, 1, list.Len())

	list.Errorf(CodeInvalidDirectiveArgument, ast.Span{Start: 10}, "v-bind is missing an expression")
	require.True(t, list.HasErrors())
	require.Equal(t, 2, list.Len())

	require.Equal(t, "warning[2003]: unknown directive v-model", list.Items()[0].String())
}

func TestListSortByOffset(t *testing.T) {
	var list List
	list.Errorf(CodeUnclosedElement, ast.Span{Start: 40}, "unclosed <div>")
	list.Warnf(CodeUnknownDirective, ast.Span{Start: 5}, "unknown directive")
	list.Errorf(CodeUnexpectedEOF, ast.Span{Start: 40}, "unexpected end of template")

	list.Sort()

	items := list.Items()
	require.Equal(t, ast.Span{Start: 5}, items[0].Span)
	// Same offset orders by code.
	require.Equal(t, CodeUnexpectedEOF, items[1].Code)
	require.Equal(t, CodeUnclosedElement, items[2].Code)
}

func TestListClampBoundsSpans(t *testing.T) {
	var list List
	list.Errorf(CodeUnexpectedEOF, ast.Span{Start: 90, Length: 20}, "unexpected end of template")
	list.Clamp(50)

	span := list.Items()[0].Span
	require.LessOrEqual(t, span.End(), 50)
}

func TestPosition(t *testing.T) {
	source := "<div>\n  {{ x }}\n</div>"

	tests := []struct {
		name     string
		offset   int
		wantLine int
		wantCol  int
	}{
		{"start", 0, 1, 1},
		{"first line", 3, 1, 4},
		{"second line", 8, 2, 3},
		{"past end clamps", 999, 3, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			line, col := Position(source, tt.offset)
			require.Equal(t, tt.wantLine, line)
			require.Equal(t, tt.wantCol, col)
		})
	}
}

func TestFormat(t *testing.T) {
	source := "<p>\n<x v-else></x>"
	d := Diagnostic{
		Code:     CodeUnsupportedDirectiveCombination,
		Message:  "v-else without matching v-if",
		Severity: Error,
		Span:     ast.Span{Start: 7, Length: 6},
	}

	require.Equal(t, "app.vex:2:4: error[2001]: v-else without matching v-if", Format(d, source, "app.vex"))
	require.Equal(t, "<template>:2:4: error[2001]: v-else without matching v-if", Format(d, source, ""))
}

func TestBugfPanicsWithTypedPayload(t *testing.T) {
	defer func() {
		r := recover()
		require.NotNil(t, r)
		bug, ok := r.(*Bug)
		require.True(t, ok)
		require.Equal(t, CodeUnresolvedHelper, bug.Code)
		require.Contains(t, bug.Error(), "internal compiler error[9001]")
	}()
	Bugf(CodeUnresolvedHelper, "helper %s referenced but never registered", "CreateVNode")
}

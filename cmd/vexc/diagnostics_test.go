package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/recera/vex/pkg/ast"
	"github.com/recera/vex/pkg/diag"
)

func TestRenderDiagnostic(t *testing.T) {
	src := "<div>\n  <p v-else>x</p>\n</div>"
	d := diag.Diagnostic{
		Code:     diag.CodeUnsupportedDirectiveCombination,
		Message:  "v-else has no preceding v-if",
		Severity: diag.Error,
		Span:     ast.Span{Start: 11, Length: 6},
	}

	out := renderDiagnostic(d, src, "src/App.vex", 0)
	require.Contains(t, out, "error[2001]: v-else has no preceding v-if")
	require.Contains(t, out, "--> src/App.vex:2:6")
	require.Contains(t, out, " 2 |   <p v-else>x</p>")
	require.Contains(t, out, "|      ^^^^^^")
}

func TestRenderDiagnosticClampsCaretToLine(t *testing.T) {
	src := "{{ x\nmore"
	d := diag.Diagnostic{
		Code:     diag.CodeUnterminatedInterpolation,
		Message:  "interpolation is missing closing }}",
		Severity: diag.Error,
		Span:     ast.Span{Start: 0, Length: len(src)},
	}

	out := renderDiagnostic(d, src, "", 0)
	require.Contains(t, out, "<template>:1:1")
	require.Contains(t, out, " 1 | {{ x\n")
	require.Contains(t, out, "^^^^")
	require.NotContains(t, out, "^^^^^")
}

func TestRenderDiagnosticZeroSpanGetsOneCaret(t *testing.T) {
	src := "<p>x</p>"
	d := diag.Diagnostic{
		Code:     diag.CodeInternal,
		Message:  "internal compiler error: boom",
		Severity: diag.Error,
	}

	out := renderDiagnostic(d, src, "t.vex", 0)
	require.Contains(t, out, "error[9000]")
	require.Contains(t, out, " 1 | <p>x</p>")
	require.Contains(t, out, "| ^")
}

func TestRenderDiagnosticPreservesTabAlignment(t *testing.T) {
	src := "\t<p v-else>x</p>"
	d := diag.Diagnostic{
		Code:     diag.CodeUnsupportedDirectiveCombination,
		Message:  "v-else has no preceding v-if",
		Severity: diag.Error,
		Span:     ast.Span{Start: 4, Length: 6},
	}

	out := renderDiagnostic(d, src, "t.vex", 0)
	require.Contains(t, out, "| \t   ^^^^^^")
}

func TestPlainDiagnostic(t *testing.T) {
	src := "<p>{{ x</p>"
	d := diag.Diagnostic{
		Code:     diag.CodeUnterminatedInterpolation,
		Message:  "interpolation is missing closing }}",
		Severity: diag.Error,
		Span:     ast.Span{Start: 3, Length: 8},
	}

	got := plainDiagnostic(d, src, "", 0)
	require.Equal(t, "<template>:1:4: error[1004]: interpolation is missing closing }}", got)
}

func TestSourceLine(t *testing.T) {
	src := "aa\nbb\ncc"

	text, start := sourceLine(src, 0)
	require.Equal(t, "aa", text)
	require.Equal(t, 0, start)

	text, start = sourceLine(src, 4)
	require.Equal(t, "bb", text)
	require.Equal(t, 3, start)

	text, start = sourceLine(src, 7)
	require.Equal(t, "cc", text)
	require.Equal(t, 6, start)

	text, _ = sourceLine("aa\r\nbb", 0)
	require.Equal(t, "aa", text, "trailing carriage return should be trimmed")
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/recera/vex/pkg/diag"
)

var (
	diagErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ef4444")).Bold(true)
	diagWarningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#f59e0b")).Bold(true)
	diagInfoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#3b82f6")).Bold(true)
	diagHintStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#10b981")).Bold(true)
	diagLocStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#64748b"))
	diagGutterStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#94a3b8"))
)

func severityStyle(s diag.Severity) lipgloss.Style {
	switch s {
	case diag.Error:
		return diagErrorStyle
	case diag.Warning:
		return diagWarningStyle
	case diag.Info:
		return diagInfoStyle
	default:
		return diagHintStyle
	}
}

// renderDiagnostic formats one diagnostic with its source line and a
// caret underlining the span:
//
//	error[2001]: v-else has no preceding v-if
//	  --> src/App.vex:3:7
//	   |
//	 3 |   <p v-else>fallback</p>
//	   |      ^^^^^^
//
// base shifts the diagnostic span into source, for diagnostics reported
// against a template block embedded at an offset inside a larger file.
func renderDiagnostic(d diag.Diagnostic, source, filename string, base int) string {
	start := clampOffset(base+d.Span.Start, len(source))
	end := clampOffset(base+d.Span.End(), len(source))
	line, col := diag.Position(source, start)
	if filename == "" {
		filename = "<template>"
	}

	style := severityStyle(d.Severity)

	var b strings.Builder
	b.WriteString(style.Render(fmt.Sprintf("%s[%d]", d.Severity, d.Code)))
	b.WriteString(": ")
	b.WriteString(d.Message)
	b.WriteByte('\n')
	b.WriteString(diagLocStyle.Render(fmt.Sprintf("  --> %s:%d:%d", filename, line, col)))
	b.WriteByte('\n')

	text, lineStart := sourceLine(source, start)

	width := 2
	if n := len(fmt.Sprintf("%d", line)); n > width {
		width = n
	}
	blank := diagGutterStyle.Render(fmt.Sprintf("%*s |", width, ""))

	b.WriteString(blank)
	b.WriteByte('\n')
	b.WriteString(diagGutterStyle.Render(fmt.Sprintf("%*d | ", width, line)))
	b.WriteString(text)
	b.WriteByte('\n')

	caretWidth := end - start
	if m := lineStart + len(text) - start; caretWidth > m {
		caretWidth = m
	}
	if caretWidth < 1 {
		caretWidth = 1
	}
	pad := start - lineStart
	if pad > len(text) {
		pad = len(text)
	}
	b.WriteString(blank)
	b.WriteByte(' ')
	// Tabs in the source line keep their width in the caret padding so
	// the underline stays aligned.
	for _, ch := range []byte(text[:pad]) {
		if ch == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
	}
	b.WriteString(style.Render(strings.Repeat("^", caretWidth)))
	b.WriteByte('\n')

	return b.String()
}

// plainDiagnostic renders one single-line report for machine consumers
// like the reload server payload.
func plainDiagnostic(d diag.Diagnostic, source, filename string, base int) string {
	line, col := diag.Position(source, clampOffset(base+d.Span.Start, len(source)))
	if filename == "" {
		filename = "<template>"
	}
	return fmt.Sprintf("%s:%d:%d: %s", filename, line, col, d.String())
}

func clampOffset(off, max int) int {
	if off < 0 {
		return 0
	}
	if off > max {
		return max
	}
	return off
}

// sourceLine returns the line of source containing off, without its
// trailing newline, and the offset the line starts at.
func sourceLine(source string, off int) (text string, lineStart int) {
	lineStart = strings.LastIndexByte(source[:off], '\n') + 1
	lineEnd := strings.IndexByte(source[off:], '\n')
	if lineEnd < 0 {
		lineEnd = len(source)
	} else {
		lineEnd += off
	}
	text = strings.TrimSuffix(source[lineStart:lineEnd], "\r")
	return text, lineStart
}

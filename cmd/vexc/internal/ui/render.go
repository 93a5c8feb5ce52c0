package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/recera/vex/pkg/diag"
)

// Style definitions
var (
	// Colors
	primaryColor   = lipgloss.Color("#3b82f6") // Vex blue
	secondaryColor = lipgloss.Color("#64748b") // Gray
	successColor   = lipgloss.Color("#10b981") // Green
	warningColor   = lipgloss.Color("#f59e0b") // Yellow
	errorColor     = lipgloss.Color("#ef4444") // Red
	mutedColor     = lipgloss.Color("#94a3b8") // Muted gray

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor)

	badgeStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#ffffff")).
			Background(primaryColor).
			Padding(0, 1)

	paneLabelStyle = lipgloss.NewStyle().
			Foreground(secondaryColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	successStyle = lipgloss.NewStyle().
			Foreground(successColor).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(warningColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	focusedPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(primaryColor).
				Padding(0, 1)

	blurredPaneStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(mutedColor).
				Padding(0, 1)
)

func severityStyle(s diag.Severity) lipgloss.Style {
	switch s {
	case diag.Error:
		return errorStyle
	case diag.Warning:
		return warningStyle
	default:
		return mutedStyle
	}
}

// View renders the explorer: header, editor and output side by side,
// then the status and key help lines.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "\n  loading explorer..."
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.renderBody(),
		m.renderFooter(),
	)
}

func (m Model) renderHeader() string {
	return lipgloss.JoinHorizontal(lipgloss.Center,
		titleStyle.Render("⚡ vex explorer"),
		"  ",
		badgeStyle.Render(m.mode.String()),
		"  ",
		paneLabelStyle.Render("pane: "+m.pane.String()),
	)
}

func (m Model) renderBody() string {
	editor := m.paneStyle(FocusEditor).Render(m.editor.View())
	output := m.paneStyle(FocusOutput).Render(m.output.View())
	return lipgloss.JoinHorizontal(lipgloss.Top, editor, output)
}

func (m Model) paneStyle(f Focus) lipgloss.Style {
	if m.focused == f {
		return focusedPaneStyle
	}
	return blurredPaneStyle
}

func (m Model) renderFooter() string {
	status := m.statusLine()
	help := helpStyle.Render("tab focus · ctrl+g backend · ctrl+o pane · esc quit")
	if status == "" {
		return help
	}
	return status + "\n" + help
}

func (m Model) statusLine() string {
	if m.result == nil {
		return ""
	}

	var errs, warns int
	for _, d := range m.result.Diagnostics.Items() {
		switch d.Severity {
		case diag.Error:
			errs++
		case diag.Warning:
			warns++
		}
	}

	parts := []string{
		mutedStyle.Render(fmt.Sprintf("%d helper(s)", len(m.result.Helpers))),
		mutedStyle.Render(m.elapsed.Round(time.Microsecond).String()),
	}
	if errs > 0 {
		parts = append(parts, errorStyle.Render(fmt.Sprintf("%d error(s)", errs)))
	}
	if warns > 0 {
		parts = append(parts, warningStyle.Render(fmt.Sprintf("%d warning(s)", warns)))
	}
	if errs == 0 && warns == 0 {
		parts = append(parts, successStyle.Render("✓"))
	}
	return strings.Join(parts, mutedStyle.Render(" · "))
}

// paneContent is the text shown in the output viewport for the active
// pane.
func (m Model) paneContent() string {
	if m.result == nil {
		return mutedStyle.Render("compiling...")
	}
	switch m.pane {
	case PanePreamble:
		if m.result.Preamble == "" {
			return mutedStyle.Render("no imports")
		}
		return m.result.Preamble
	case PaneDiagnostics:
		return m.renderDiagnostics()
	default:
		return m.result.Code
	}
}

func (m Model) renderDiagnostics() string {
	items := m.result.Diagnostics.Items()
	if len(items) == 0 {
		return successStyle.Render("✓ no diagnostics")
	}

	var b strings.Builder
	for i, d := range items {
		if i > 0 {
			b.WriteByte('\n')
		}
		line, col := diag.Position(m.source, d.Span.Start)
		b.WriteString(severityStyle(d.Severity).Render(fmt.Sprintf("%s[%d]", d.Severity, d.Code)))
		b.WriteString(": ")
		b.WriteString(d.Message)
		b.WriteByte('\n')
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  at %d:%d", line, col)))
		b.WriteByte('\n')
	}
	return b.String()
}

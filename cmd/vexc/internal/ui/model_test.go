package ui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/recera/vex/pkg/transform"
)

func TestNewModelCompilesImmediately(t *testing.T) {
	m := NewModel("<p>{{ msg }}</p>", transform.ModeDOM, "")

	require.NotNil(t, m.result)
	require.Contains(t, m.result.Code, "export function render(_ctx, _cache)")
	require.Contains(t, m.result.Code, "_ctx.msg")
}

func TestModeCycling(t *testing.T) {
	m := NewModel("<p>hi</p>", transform.ModeDOM, "")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = next.(Model)
	require.Equal(t, transform.ModeVapor, m.mode)
	require.Contains(t, m.result.Code, "export function render(_ctx) {")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = next.(Model)
	require.Equal(t, transform.ModeSSR, m.mode)
	require.Contains(t, m.result.Code, "ssrRender")

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlG})
	m = next.(Model)
	require.Equal(t, transform.ModeDOM, m.mode)
}

func TestPaneCycling(t *testing.T) {
	m := NewModel("<p>{{ msg }}</p>", transform.ModeDOM, "")
	require.Equal(t, PaneCode, m.pane)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	require.Equal(t, PanePreamble, m.pane)
	require.Contains(t, m.paneContent(), `from "@vex/runtime"`)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	require.Equal(t, PaneDiagnostics, m.pane)

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlO})
	m = next.(Model)
	require.Equal(t, PaneCode, m.pane)
}

func TestTypingDebouncesRecompile(t *testing.T) {
	m := NewModel("<p>hi</p>", transform.ModeDOM, "")
	before := m.result.Code
	seqBefore := m.seq

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("!")})
	m = next.(Model)
	require.NotNil(t, cmd)
	require.Equal(t, seqBefore+1, m.seq)
	require.Equal(t, before, m.result.Code, "recompile should wait for the debounce tick")

	next, _ = m.Update(recompileMsg{seq: m.seq})
	m = next.(Model)
	require.Contains(t, m.editor.Value(), "!")
	require.NotEqual(t, before, m.result.Code)
}

func TestStaleRecompileTickDropped(t *testing.T) {
	m := NewModel("<p>hi</p>", transform.ModeDOM, "")

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("a")})
	m = next.(Model)
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("b")})
	m = next.(Model)

	before := m.result.Code
	next, _ = m.Update(recompileMsg{seq: m.seq - 1})
	m = next.(Model)
	require.Equal(t, before, m.result.Code)
}

func TestFocusToggle(t *testing.T) {
	m := NewModel("<p>hi</p>", transform.ModeDOM, "")
	require.Equal(t, FocusEditor, m.focused)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	require.Equal(t, FocusOutput, m.focused)
	require.False(t, m.editor.Focused())

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	m = next.(Model)
	require.Equal(t, FocusEditor, m.focused)
	require.True(t, m.editor.Focused())
}

func TestDiagnosticsPane(t *testing.T) {
	m := NewModel("<p v-else>x</p>", transform.ModeDOM, "")
	m.pane = PaneDiagnostics

	content := m.paneContent()
	require.Contains(t, content, "error[2001]")
	require.Contains(t, content, "at 1:")
}

func TestQuit(t *testing.T) {
	m := NewModel("<p>hi</p>", transform.ModeDOM, "")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	m = next.(Model)
	require.True(t, m.quitting)
	require.NotNil(t, cmd)
	require.Equal(t, tea.QuitMsg{}, cmd())
	require.Empty(t, m.View())
}

func TestViewAfterResize(t *testing.T) {
	m := NewModel("<p>hi</p>", transform.ModeDOM, "")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m = next.(Model)
	require.True(t, m.ready)

	view := m.View()
	require.Contains(t, view, "vex explorer")
	require.Contains(t, view, "dom")
}

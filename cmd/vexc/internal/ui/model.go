// Package ui implements the interactive playground behind vexc
// explore: a template editor on the left, the generated module on the
// right, recompiled live as you type. Backends and output panes are
// switchable without leaving the editor.
package ui

import (
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/recera/vex/pkg/compiler"
	"github.com/recera/vex/pkg/transform"
)

// recompileDelay is how long typing has to pause before the template
// is recompiled.
const recompileDelay = 200 * time.Millisecond

// Pane identifies what the output viewport shows.
type Pane int

const (
	PaneCode Pane = iota
	PanePreamble
	PaneDiagnostics

	paneCount = 3
)

func (p Pane) String() string {
	switch p {
	case PanePreamble:
		return "preamble"
	case PaneDiagnostics:
		return "diagnostics"
	default:
		return "code"
	}
}

// Focus identifies which pane receives keystrokes.
type Focus int

const (
	FocusEditor Focus = iota
	FocusOutput
)

// KeyMap defines the explorer shortcuts. Plain keys stay with the
// editor, so the chords avoid everything the textarea binds.
type KeyMap struct {
	Focus key.Binding
	Mode  key.Binding
	Pane  key.Binding
	Quit  key.Binding
}

var DefaultKeyMap = KeyMap{
	Focus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "switch focus"),
	),
	Mode: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "cycle backend"),
	),
	Pane: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "cycle pane"),
	),
	Quit: key.NewBinding(
		key.WithKeys("esc", "ctrl+c"),
		key.WithHelp("esc", "quit"),
	),
}

// recompileMsg fires after the debounce delay; stale sequence numbers
// are dropped when more typing arrived in the meantime.
type recompileMsg struct{ seq int }

// Model is the explorer state.
type Model struct {
	width  int
	height int
	ready  bool

	editor textarea.Model
	output viewport.Model

	comp    *compiler.Compiler
	mode    transform.Mode
	runtime string

	// source is the text the current result was compiled from; the
	// editor may already be ahead of it.
	source  string
	result  *compiler.Result
	elapsed time.Duration

	pane     Pane
	focused  Focus
	seq      int
	quitting bool
}

// NewModel builds an explorer seeded with source.
func NewModel(source string, mode transform.Mode, runtimeModule string) Model {
	ta := textarea.New()
	ta.Placeholder = "<div>{{ message }}</div>"
	ta.CharLimit = 0
	ta.ShowLineNumbers = true
	ta.SetValue(source)
	ta.Focus()

	m := Model{
		editor:  ta,
		comp:    compiler.New(),
		mode:    mode,
		runtime: runtimeModule,
	}
	m.recompile()
	return m
}

func (m Model) Init() tea.Cmd {
	return textarea.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, DefaultKeyMap.Quit):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, DefaultKeyMap.Focus):
			if m.focused == FocusEditor {
				m.focused = FocusOutput
				m.editor.Blur()
			} else {
				m.focused = FocusEditor
				cmds = append(cmds, m.editor.Focus())
			}
			return m, tea.Batch(cmds...)

		case key.Matches(msg, DefaultKeyMap.Mode):
			m.mode = nextMode(m.mode)
			m.recompile()
			return m, nil

		case key.Matches(msg, DefaultKeyMap.Pane):
			m.pane = Pane((int(m.pane) + 1) % paneCount)
			m.refreshOutput()
			return m, nil
		}

		if m.focused == FocusEditor {
			before := m.editor.Value()
			var cmd tea.Cmd
			m.editor, cmd = m.editor.Update(msg)
			cmds = append(cmds, cmd)
			if m.editor.Value() != before {
				m.seq++
				seq := m.seq
				cmds = append(cmds, tea.Tick(recompileDelay, func(time.Time) tea.Msg {
					return recompileMsg{seq: seq}
				}))
			}
		} else {
			var cmd tea.Cmd
			m.output, cmd = m.output.Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)

	case recompileMsg:
		if msg.seq == m.seq {
			m.recompile()
		}
		return m, nil
	}

	// Cursor blink and other component messages
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	cmds = append(cmds, cmd)
	m.output, cmd = m.output.Update(msg)
	cmds = append(cmds, cmd)
	return m, tea.Batch(cmds...)
}

func (m *Model) resize(w, h int) {
	m.width, m.height = w, h

	paneWidth := (w - 2) / 2
	contentWidth := paneWidth - 4
	if contentWidth < 10 {
		contentWidth = 10
	}
	contentHeight := h - 7
	if contentHeight < 3 {
		contentHeight = 3
	}

	m.editor.SetWidth(contentWidth)
	m.editor.SetHeight(contentHeight)

	if !m.ready {
		m.output = viewport.New(contentWidth, contentHeight)
		m.ready = true
		m.refreshOutput()
	} else {
		m.output.Width = contentWidth
		m.output.Height = contentHeight
	}
}

// recompile runs the pipeline over the editor contents. The compiler's
// arena is reused across runs, so only the latest result is held.
func (m *Model) recompile() {
	source := m.editor.Value()
	start := time.Now()
	res, err := m.comp.Compile(source, compiler.Options{
		Mode:            m.mode,
		IsComponentRoot: true,
		RuntimeModule:   m.runtime,
	})
	if err != nil {
		return
	}
	m.source = source
	m.result = res
	m.elapsed = time.Since(start)
	m.refreshOutput()
}

func (m *Model) refreshOutput() {
	if !m.ready {
		return
	}
	m.output.SetContent(m.paneContent())
	m.output.GotoTop()
}

func nextMode(mode transform.Mode) transform.Mode {
	switch mode {
	case transform.ModeDOM:
		return transform.ModeVapor
	case transform.ModeVapor:
		return transform.ModeSSR
	default:
		return transform.ModeDOM
	}
}

// Package models holds the bubbletea model of the full-screen console.
package models

import (
	"strings"

	"github.com/allbin/go-scpi/internal/console"
	"github.com/allbin/go-scpi/internal/tui/components"
	"github.com/allbin/go-scpi/internal/tui/keys"
	"github.com/allbin/go-scpi/internal/tui/styles"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Executor runs one operator line; *console.Console implements it
type Executor interface {
	Execute(line string) ([]console.Event, error)
}

// ResultMsg carries the outcome of one executed line back to the model
type ResultMsg struct {
	Line   string
	Events []console.Event
	Err    error
}

// ConsoleModel is the full-screen console: a transcript above an input line
type ConsoleModel struct {
	exec       Executor
	transcript *components.Transcript
	statusBar  *components.StatusBar
	input      *components.Input
	help       help.Model
	keys       keys.ConsoleKeys

	ready    bool
	busy     bool
	quitting bool // quit requested while a line was in flight
	err      error
}

func NewConsoleModel(exec Executor, info components.ConnectionInfo) *ConsoleModel {
	m := &ConsoleModel{
		exec:       exec,
		transcript: components.NewTranscript(0, 0), // sized by WindowSizeMsg
		statusBar:  components.NewStatusBar(info),
		input:      components.NewInput("*IDN?"),
		help:       help.New(),
		keys:       keys.NewConsoleKeys(),
	}
	for _, l := range strings.Split(console.Banner, "\n") {
		m.transcript.Append(styles.BannerStyle.Render(l))
	}
	return m
}

// Err is the transport error that ended the program, if any
func (m *ConsoleModel) Err() error {
	return m.err
}

// Busy reports whether a line is in flight
func (m *ConsoleModel) Busy() bool {
	return m.busy
}

// Transcript returns the rendered transcript lines
func (m *ConsoleModel) Transcript() []string {
	return m.transcript.Lines()
}

// History returns the executed lines, oldest first
func (m *ConsoleModel) History() []string {
	return m.input.History()
}

// InputValue is the current content of the input line
func (m *ConsoleModel) InputValue() string {
	return m.input.Value()
}

// Init starts the cursor blinking
func (m *ConsoleModel) Init() tea.Cmd {
	return textinput.Blink
}

// execute runs line off the UI goroutine. Only one line is in flight.
func (m *ConsoleModel) execute(line string) tea.Cmd {
	return func() tea.Msg {
		events, err := m.exec.Execute(line)
		return ResultMsg{Line: line, Events: events, Err: err}
	}
}

func (m *ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		// Input area height (includes border) plus status bar and help line
		verticalMarginHeight := 3 + 1 + 1
		m.transcript.SetSize(msg.Width, max(msg.Height-verticalMarginHeight, 1))
		m.input.SetWidth(msg.Width)
		m.statusBar.SetWidth(msg.Width)
		m.help.Width = msg.Width
		m.ready = true
		return m, nil

	case ResultMsg:
		m.busy = false
		m.statusBar.SetBusy(false)
		for _, e := range msg.Events {
			m.transcript.Append(styles.EventStyle(e.Kind).Render(e.String()))
		}
		if msg.Err != nil {
			m.err = msg.Err
			m.statusBar.SetDisconnected(msg.Err)
			m.transcript.Append(styles.ErrorStyle.Render("Error: " + msg.Err.Error()))
			return m, tea.Quit
		}
		if m.quitting {
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			// The session must not be closed under a running Execute
			if m.busy {
				m.quitting = true
				return m, nil
			}
			return m, tea.Quit

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil

		case key.Matches(msg, m.keys.Enter):
			if m.busy || m.quitting {
				return m, nil
			}
			line := strings.TrimSpace(m.input.Value())
			if line == "" {
				return m, tea.Quit
			}
			m.transcript.Append(styles.PromptStyle.Render(console.Prompt) + " " + styles.EchoStyle.Render(line))
			m.input.AddToHistory(line)
			m.input.Reset()
			m.busy = true
			m.statusBar.SetBusy(true)
			return m, m.execute(line)

		case key.Matches(msg, m.keys.Up):
			m.input.NavigateHistoryUp()
			return m, nil

		case key.Matches(msg, m.keys.Down):
			m.input.NavigateHistoryDown()
			return m, nil

		case key.Matches(msg, m.keys.ClearInput):
			m.input.Reset()
			return m, nil

		case key.Matches(msg, m.keys.PageUp), key.Matches(msg, m.keys.PageDown):
			return m, m.transcript.Update(msg)
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *ConsoleModel) View() string {
	content := "Initializing..."
	if m.ready {
		content = m.transcript.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		content,
		m.input.View(m.busy),
		m.statusBar.View(),
		m.help.View(m.keys),
	)
}

// Run shows the console full-screen until the operator quits or a transport
// error occurs, which is returned.
func Run(exec Executor, info components.ConnectionInfo, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen()}, opts...)
	final, err := tea.NewProgram(NewConsoleModel(exec, info), opts...).Run()
	if err != nil {
		return err
	}
	if m, ok := final.(*ConsoleModel); ok {
		return m.Err()
	}
	return nil
}

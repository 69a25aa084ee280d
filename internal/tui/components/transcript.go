package components

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
)

// Transcript is the scrolling record of what was sent and received
type Transcript struct {
	viewport viewport.Model
	lines    []string
}

func NewTranscript(width, height int) *Transcript {
	return &Transcript{
		viewport: viewport.New(width, height),
	}
}

func (t *Transcript) SetSize(width, height int) {
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// Append adds rendered lines and scrolls to the newest one
func (t *Transcript) Append(lines ...string) {
	t.lines = append(t.lines, lines...)
	t.refresh()
}

// Lines returns the rendered lines, oldest first
func (t *Transcript) Lines() []string {
	return append([]string(nil), t.lines...)
}

func (t *Transcript) refresh() {
	t.viewport.SetContent(strings.Join(t.lines, "\n"))
	t.viewport.GotoBottom()
}

// Update only forwards scrolling keys; everything else belongs to the input
func (t *Transcript) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

func (t *Transcript) View() string {
	return t.viewport.View()
}

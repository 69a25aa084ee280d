package console

import (
	"github.com/allbin/go-scpi/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

type styles struct {
	banner lipgloss.Style
	prompt lipgloss.Style
	rx     lipgloss.Style
	tx     lipgloss.Style
	err    lipgloss.Style
	status lipgloss.Style
}

// newStyles binds the console palette to r so that output which is not a
// terminal stays plain text. Event text is printed as received, tabs included.
func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		banner: r.NewStyle().Foreground(colors.Mauve),
		prompt: r.NewStyle().Foreground(colors.Blue).Bold(true),
		rx:     r.NewStyle().Foreground(colors.Green).TabWidth(lipgloss.NoTabConversion),
		tx:     r.NewStyle().Foreground(colors.Subtext0).TabWidth(lipgloss.NoTabConversion),
		err:    r.NewStyle().Foreground(colors.Red).Bold(true).TabWidth(lipgloss.NoTabConversion),
		status: r.NewStyle().Foreground(colors.Overlay1),
	}
}

func (s styles) event(kind EventKind) lipgloss.Style {
	switch kind {
	case EventRX:
		return s.rx
	case EventErr:
		return s.err
	default:
		return s.tx
	}
}

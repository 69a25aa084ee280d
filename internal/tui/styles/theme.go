package styles

import (
	"github.com/allbin/go-scpi/internal/console"
	"github.com/allbin/go-scpi/internal/tui/colors"
	"github.com/charmbracelet/lipgloss"
)

var (
	// Transcript styles
	BannerStyle = lipgloss.NewStyle().
			Foreground(colors.Mauve)

	EchoStyle = lipgloss.NewStyle().
			Foreground(colors.Text)

	// Event text keeps its tabs
	RXStyle = lipgloss.NewStyle().
		Foreground(colors.Green).
		TabWidth(lipgloss.NoTabConversion)

	TXStyle = lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		TabWidth(lipgloss.NoTabConversion)

	InstrumentErrorStyle = lipgloss.NewStyle().
				Foreground(colors.Peach).
				Bold(true).
				TabWidth(lipgloss.NoTabConversion)

	// Status styles
	StatusConnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Green).
				Bold(true)

	StatusDisconnectedStyle = lipgloss.NewStyle().
				Foreground(colors.Red).
				Bold(true)

	StatusBusyStyle = lipgloss.NewStyle().
			Foreground(colors.Yellow).
			Bold(true)

	// Input styles
	PromptStyle = lipgloss.NewStyle().
			Foreground(colors.Blue).
			Bold(true)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colors.Surface2).
			Padding(0, 1)

	// Error styles
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colors.Red)
)

type StatusType int

const (
	StatusConnected StatusType = iota
	StatusBusy
	StatusDisconnected
	StatusError
)

func GetStatusStyle(status StatusType) lipgloss.Style {
	switch status {
	case StatusConnected:
		return StatusConnectedStyle
	case StatusBusy:
		return StatusBusyStyle
	default:
		return StatusDisconnectedStyle
	}
}

// EventStyle picks the transcript style for a console event
func EventStyle(kind console.EventKind) lipgloss.Style {
	switch kind {
	case console.EventRX:
		return RXStyle
	case console.EventErr:
		return InstrumentErrorStyle
	default:
		return TXStyle
	}
}

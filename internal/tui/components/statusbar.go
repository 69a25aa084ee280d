package components

import (
	"fmt"

	"github.com/allbin/go-scpi/internal/tui/colors"
	"github.com/allbin/go-scpi/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
)

// ConnectionInfo is the static part of the status bar
type ConnectionInfo struct {
	Port      string
	BaudRate  int
	AutoError bool
}

type StatusBar struct {
	info   ConnectionInfo
	status styles.StatusType
	err    error
	width  int
}

func NewStatusBar(info ConnectionInfo) *StatusBar {
	return &StatusBar{
		info:   info,
		status: styles.StatusConnected,
	}
}

func (sb *StatusBar) SetWidth(width int) {
	sb.width = width
}

func (sb *StatusBar) SetBusy(busy bool) {
	if sb.status == styles.StatusDisconnected || sb.status == styles.StatusError {
		return
	}
	if busy {
		sb.status = styles.StatusBusy
	} else {
		sb.status = styles.StatusConnected
	}
}

func (sb *StatusBar) SetDisconnected(err error) {
	sb.err = err
	if err != nil {
		sb.status = styles.StatusError
	} else {
		sb.status = styles.StatusDisconnected
	}
}

func (sb *StatusBar) Status() styles.StatusType {
	return sb.status
}

func (sb *StatusBar) View() string {
	terminalWidth := sb.width
	if terminalWidth <= 0 {
		terminalWidth = 80
	}

	// Mode badge
	var badgeText string
	badgeColor := colors.Green
	switch sb.status {
	case styles.StatusBusy:
		badgeText = "BUSY"
		badgeColor = colors.Yellow
	case styles.StatusConnected:
		badgeText = "READY"
	default:
		badgeText = "OFFLINE"
		badgeColor = colors.Red
	}
	badge := lipgloss.NewStyle().
		Foreground(colors.Base).
		Background(badgeColor).
		Bold(true).
		Padding(0, 1).
		Render(badgeText)

	port := lipgloss.NewStyle().
		Foreground(colors.Mauve).
		Bold(true).
		Padding(0, 1).
		Render(sb.info.Port)

	indicator := "●"
	switch sb.status {
	case styles.StatusError:
		indicator = "✗"
	case styles.StatusDisconnected:
		indicator = "○"
	}
	connectionIndicator := styles.GetStatusStyle(sb.status).Render(indicator)

	divider := lipgloss.NewStyle().
		Foreground(colors.Surface2).
		Padding(0, 1).
		Render("│")

	leftSide := lipgloss.JoinHorizontal(lipgloss.Left, badge, port, connectionIndicator, divider)
	if sb.err != nil {
		leftSide = lipgloss.JoinHorizontal(lipgloss.Left, leftSide, styles.ErrorStyle.Render(sb.err.Error()))
	}

	autoErr := "off"
	if sb.info.AutoError {
		autoErr = "on"
	}
	details := lipgloss.NewStyle().
		Foreground(colors.Subtext0).
		Padding(0, 1).
		Render(fmt.Sprintf("⚡ %d baud 8N1 │ auto-err:%s", sb.info.BaudRate, autoErr))

	spacerWidth := terminalWidth - lipgloss.Width(leftSide) - lipgloss.Width(details)
	if spacerWidth < 1 {
		spacerWidth = 1
	}
	spacer := lipgloss.NewStyle().Width(spacerWidth).Render("")

	return lipgloss.NewStyle().
		Foreground(colors.Text).
		Background(colors.Surface0).
		Width(terminalWidth).
		Render(lipgloss.JoinHorizontal(lipgloss.Left, leftSide, spacer, details))
}

package keys

import "github.com/charmbracelet/bubbles/key"

// ConsoleKeys are the bindings of the full-screen SCPI console. Printable
// keys all go to the input line, so nothing here may use one.
type ConsoleKeys struct {
	Enter      key.Binding
	Quit       key.Binding
	Help       key.Binding
	Up         key.Binding
	Down       key.Binding
	PageUp     key.Binding
	PageDown   key.Binding
	ClearInput key.Binding
}

func NewConsoleKeys() ConsoleKeys {
	return ConsoleKeys{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send (empty line quits)"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc/ctrl+c", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("f1"),
			key.WithHelp("f1", "toggle help"),
		),
		Up: key.NewBinding(
			key.WithKeys("up"),
			key.WithHelp("↑", "previous command"),
		),
		Down: key.NewBinding(
			key.WithKeys("down"),
			key.WithHelp("↓", "next command"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
		ClearInput: key.NewBinding(
			key.WithKeys("ctrl+u"),
			key.WithHelp("ctrl+u", "clear line"),
		),
	}
}

func (k ConsoleKeys) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Up, k.Help, k.Quit}
}

func (k ConsoleKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.ClearInput},
		{k.Up, k.Down},
		{k.PageUp, k.PageDown},
		{k.Help, k.Quit},
	}
}

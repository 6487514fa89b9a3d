package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the console key bindings. It implements help.KeyMap.
type KeyMap struct {
	Run       key.Binding
	NextField key.Binding
	PrevField key.Binding
	NextDemo  key.Binding
	PrevDemo  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Run: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "run"),
		),
		NextField: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		PrevField: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		NextDemo: key.NewBinding(
			key.WithKeys("right", "l", "ctrl+n"),
			key.WithHelp("→", "next computation"),
		),
		PrevDemo: key.NewBinding(
			key.WithKeys("left", "h", "ctrl+p"),
			key.WithHelp("←", "previous computation"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc", "q"),
			key.WithHelp("esc", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Run, k.NextField, k.NextDemo, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Run, k.Help, k.Quit},
		{k.NextField, k.PrevField},
		{k.NextDemo, k.PrevDemo},
	}
}

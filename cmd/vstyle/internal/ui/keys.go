package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the inspector's shortcuts. Navigation is left to the
// table's own bindings.
type KeyMap struct {
	Up             key.Binding
	Down           key.Binding
	RemoveEntry    key.Binding
	RemoveSelector key.Binding
	Refresh        key.Binding
	Help           key.Binding
	Quit           key.Binding
}

var DefaultKeyMap = KeyMap{
	Up: key.NewBinding(
		key.WithKeys("up", "k"),
		key.WithHelp("↑/k", "up"),
	),
	Down: key.NewBinding(
		key.WithKeys("down", "j"),
		key.WithHelp("↓/j", "down"),
	),
	RemoveEntry: key.NewBinding(
		key.WithKeys("d"),
		key.WithHelp("d", "remove entry"),
	),
	RemoveSelector: key.NewBinding(
		key.WithKeys("D"),
		key.WithHelp("D", "remove selector"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "refresh"),
	),
	Help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "help"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "q"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.RemoveEntry, k.RemoveSelector, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.RemoveEntry, k.RemoveSelector, k.Refresh},
		{k.Help, k.Quit},
	}
}

package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keybindings for the history view.
type KeyMap struct {
	// Selection
	CursorUp   key.Binding
	CursorDown key.Binding
	GotoTop    key.Binding
	GotoBottom key.Binding

	// Navigation
	Back    key.Binding
	Forward key.Binding
	Visit   key.Binding
	Revisit key.Binding

	// Actions
	Clear   key.Binding
	Refresh key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default vim-style keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		CursorUp: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "move up"),
		),
		CursorDown: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "move down"),
		),
		GotoTop: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "go to top"),
		),
		GotoBottom: key.NewBinding(
			key.WithKeys("G"),
			key.WithHelp("G", "go to bottom"),
		),
		Back: key.NewBinding(
			key.WithKeys("b", "left"),
			key.WithHelp("b", "go back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("f", "right"),
			key.WithHelp("f", "go forward"),
		),
		Visit: key.NewBinding(
			key.WithKeys("v", "o"),
			key.WithHelp("v", "visit URL"),
		),
		Revisit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "revisit selected"),
		),
		Clear: key.NewBinding(
			key.WithKeys("C"),
			key.WithHelp("C", "clear history"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "refresh"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

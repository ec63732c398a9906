package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard shortcuts
type KeyMap struct {
	Enter     key.Binding
	Back      key.Binding
	Forward   key.Binding
	Parent    key.Binding
	Root      key.Binding
	Open      key.Binding
	FreeSpace key.Binding
	Rescan    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "zoom in"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace", "left", "h"),
			key.WithHelp("esc/⌫", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "forward"),
		),
		Parent: key.NewBinding(
			key.WithKeys("u", "up"),
			key.WithHelp("u/↑", "parent"),
		),
		Root: key.NewBinding(
			key.WithKeys("g", "home"),
			key.WithHelp("g", "root"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "open in file manager"),
		),
		FreeSpace: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "toggle free space"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp returns a brief help string
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Enter, k.Back, k.Parent, k.Open, k.Help, k.Quit}
}

// FullHelp returns all help bindings
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Enter, k.Back, k.Forward},
		{k.Parent, k.Root},
		{k.Open, k.FreeSpace, k.Rescan},
		{k.Help, k.Quit},
	}
}

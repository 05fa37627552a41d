package tui

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	togglePlay key.Binding
	enter      key.Binding
	reset      key.Binding
	skip       key.Binding
	resetAll   key.Binding
	help       key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	togglePlay: key.NewBinding(
		key.WithKeys("p", " "),
		key.WithHelp("p/space", "play/pause"),
	),
	enter: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start next session"),
	),
	reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset session"),
	),
	skip: key.NewBinding(
		key.WithKeys("s", "esc"),
		key.WithHelp("s", "skip session"),
	),
	resetAll: key.NewBinding(
		key.WithKeys("R"),
		key.WithHelp("R", "reset all progress"),
	),
	help: key.NewBinding(
		key.WithKeys("?"),
		key.WithHelp("?", "more keys"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keymap) ShortHelp() []key.Binding {
	return []key.Binding{k.togglePlay, k.skip, k.help, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keymap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.togglePlay, k.enter, k.skip},
		{k.reset, k.resetAll},
		{k.help, k.quit},
	}
}

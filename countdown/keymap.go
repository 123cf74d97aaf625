package countdown

import "github.com/charmbracelet/bubbles/key"

type keymap struct {
	shorter    key.Binding
	longer     key.Binding
	start      key.Binding
	togglePlay key.Binding
	reset      key.Binding
	quit       key.Binding
}

var defaultKeymap = keymap{
	shorter: key.NewBinding(
		key.WithKeys("left", "h", "-"),
		key.WithHelp("←", "shorter"),
	),
	longer: key.NewBinding(
		key.WithKeys("right", "l", "+"),
		key.WithHelp("→", "longer"),
	),
	start: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "start"),
	),
	togglePlay: key.NewBinding(
		key.WithKeys(" ", "space", "p"),
		key.WithHelp("space", "pause/resume"),
	),
	reset: key.NewBinding(
		key.WithKeys("r"),
		key.WithHelp("r", "reset"),
	),
	quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c", "esc"),
		key.WithHelp("q", "quit"),
	),
}

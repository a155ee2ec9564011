package dashboard

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the dashboard's key bindings.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap quits on q, Esc and Ctrl+C. Every other key is ignored.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q/esc", "quit"),
		),
	}
}

// Hint is the one-line help shown in the process frame.
func (k KeyMap) Hint() string {
	h := k.Quit.Help()
	return h.Key + " " + h.Desc
}

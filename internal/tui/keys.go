package tui

import "github.com/charmbracelet/bubbles/key"

// Key bindings
var keys = struct {
	Quit        key.Binding
	ForceQuit   key.Binding
	Submit      key.Binding
	Blur        key.Binding
	Example     key.Binding
	Focus       key.Binding
	Up          key.Binding
	Down        key.Binding
	Expand      key.Binding
	NewSearch   key.Binding
	Retry       key.Binding
	ClearRecent key.Binding
}{
	Quit:        key.NewBinding(key.WithKeys("q")),
	ForceQuit:   key.NewBinding(key.WithKeys("ctrl+c")),
	Submit:      key.NewBinding(key.WithKeys("enter")),
	Blur:        key.NewBinding(key.WithKeys("esc")),
	Example:     key.NewBinding(key.WithKeys("ctrl+e")),
	Focus:       key.NewBinding(key.WithKeys("/", "i")),
	Up:          key.NewBinding(key.WithKeys("k", "up")),
	Down:        key.NewBinding(key.WithKeys("j", "down")),
	Expand:      key.NewBinding(key.WithKeys("e", " ")),
	NewSearch:   key.NewBinding(key.WithKeys("n")),
	Retry:       key.NewBinding(key.WithKeys("r")),
	ClearRecent: key.NewBinding(key.WithKeys("c")),
}

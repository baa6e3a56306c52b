package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds every binding the App reacts to. Printable keys go to the
// search box, so nothing here is a bare letter.
type keyMap struct {
	Quit     key.Binding
	Debug    key.Binding
	Up       key.Binding
	Down     key.Binding
	Open     key.Binding
	Back     key.Binding
	NextPage key.Binding
	PrevPage key.Binding
	Retry    key.Binding
}

var keys = keyMap{
	Quit:     key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Debug:    key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "debug")),
	Up:       key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "up")),
	Down:     key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "down")),
	Open:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "details")),
	Back:     key.NewBinding(key.WithKeys("esc", "backspace"), key.WithHelp("esc", "back")),
	NextPage: key.NewBinding(key.WithKeys("pgdown", "ctrl+n"), key.WithHelp("pgdn", "next")),
	PrevPage: key.NewBinding(key.WithKeys("pgup", "ctrl+p"), key.WithHelp("pgup", "prev")),
	Retry:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "retry")),
}

// hint renders one key binding for the status bar.
func hint(b key.Binding) string {
	h := b.Help()
	return StatusBarKey.Render(h.Key) + StatusBarText.Render(":"+h.Desc)
}

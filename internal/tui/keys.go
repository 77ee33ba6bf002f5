package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Quit    key.Binding
	Select  key.Binding
	Back    key.Binding
	Skip    key.Binding
	HowTo   key.Binding
	Toggle  key.Binding
	Copy    key.Binding
	Up      key.Binding
	Down    key.Binding
	Filter  key.Binding
	Retry   key.Binding
	Restart key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "choose"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "backspace"),
			key.WithHelp("esc", "back"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip sub-issue"),
		),
		HowTo: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "how to"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "tick"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c", "y"),
			key.WithHelp("c", "copy"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Filter: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "filter"),
		),
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Restart: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new category"),
		),
	}
}

// paneKeys adapts a pane's bindings to help.KeyMap.
type paneKeys []key.Binding

func (p paneKeys) ShortHelp() []key.Binding  { return p }
func (p paneKeys) FullHelp() [][]key.Binding { return [][]key.Binding{p} }

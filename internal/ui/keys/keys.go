// Package keys defines the key bindings shared by every view.
package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the application's key bindings
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Enter  key.Binding
	Toggle key.Binding
	Edit   key.Binding
	New    key.Binding
	Delete key.Binding
	Search key.Binding
	Help   key.Binding

	// Item list filters and sorting
	Subject      key.Binding
	Status       key.Binding
	Priority     key.Binding
	SortPriority key.Binding
	SortDue      key.Binding

	// Home
	Join key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "select"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "x"),
			key.WithHelp("space", "done"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "edit"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new"),
		),
		Delete: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "delete"),
		),
		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Subject: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "subject"),
		),
		Status: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "status"),
		),
		Priority: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "priority"),
		),
		SortPriority: key.NewBinding(
			key.WithKeys("P"),
			key.WithHelp("P", "sort priority"),
		),
		SortDue: key.NewBinding(
			key.WithKeys("D"),
			key.WithHelp("D", "sort due"),
		),
		Join: key.NewBinding(
			key.WithKeys("J"),
			key.WithHelp("J", "join class"),
		),
	}
}

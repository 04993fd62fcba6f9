package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Capture key.Binding
	Pick    key.Binding
	Clear   key.Binding
	Quit    key.Binding
	OK      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Capture: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "record video")),
		Pick:    key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "choose video")),
		Clear:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "clear all")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		OK:      key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "ok")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Capture, k.Pick, k.Clear, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

// alertKeyMap is shown while an alert is up; OK is its only action.
type alertKeyMap struct {
	keyMap
}

func (k alertKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.OK}
}

func (k alertKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

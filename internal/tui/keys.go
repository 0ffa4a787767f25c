package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle  key.Binding
	Skip    key.Binding
	Reset   key.Binding
	Plus    key.Binding
	Minus   key.Binding
	End     key.Binding
	Preset  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Confirm key.Binding
	Never   key.Binding
	Cancel  key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "start/pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "skip"),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reset"),
		),
		Plus: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "+1 min"),
		),
		Minus: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "-1 min"),
		),
		End: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "end preset"),
		),
		Preset: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next preset"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "toggle help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Confirm: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "skip anyway"),
		),
		Never: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "skip, don't ask again"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("n", "esc"),
			key.WithHelp("n", "keep going"),
		),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Skip, k.Reset, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Toggle, k.Skip, k.Reset, k.End},
		{k.Plus, k.Minus, k.Preset},
		{k.Help, k.Quit},
	}
}

type confirmKeys struct {
	keys keyMap
}

func (c confirmKeys) ShortHelp() []key.Binding {
	return []key.Binding{c.keys.Confirm, c.keys.Never, c.keys.Cancel}
}

func (c confirmKeys) FullHelp() [][]key.Binding {
	return [][]key.Binding{c.ShortHelp()}
}

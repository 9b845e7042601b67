package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap is every key the host reacts to. It satisfies help.KeyMap.
type keyMap struct {
	Quit       key.Binding
	Add        key.Binding
	Remove     key.Binding
	DismissAll key.Binding
	HeadsUp    key.Binding
	Expand     key.Binding
	Dark       key.Binding
	Keyguard   key.Binding
	Dim        key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
	Top        key.Binding
	Debug      key.Binding
	Help       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		Add:        key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Remove:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove")),
		DismissAll: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "clear all")),
		HeadsUp:    key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "heads-up")),
		Expand:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "expand")),
		Dark:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "dark")),
		Keyguard:   key.NewBinding(key.WithKeys("l"), key.WithHelp("l", "lock")),
		Dim:        key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "dim")),
		ScrollUp:   key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "scroll up")),
		ScrollDown: key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "scroll down")),
		Top:        key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "top")),
		Debug:      key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "debug")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	}
}

// ShortHelp is shown in the footer.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.DismissAll, k.Expand, k.Dark, k.Help, k.Quit}
}

// FullHelp is shown when help is toggled on.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Add, k.Remove, k.DismissAll, k.HeadsUp},
		{k.Expand, k.Dark, k.Keyguard, k.Dim},
		{k.ScrollUp, k.ScrollDown, k.Top},
		{k.Debug, k.Help, k.Quit},
	}
}

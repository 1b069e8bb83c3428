package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the keybindings for the interactive viewer.
type keyMap struct {
	PanLeft   key.Binding
	PanRight  key.Binding
	PanUp     key.Binding
	PanDown   key.Binding
	ZoomIn    key.Binding
	ZoomOut   key.Binding
	NextNode  key.Binding
	PrevNode  key.Binding
	Expand    key.Binding
	Clusters  key.Binding
	Virtual   key.Binding
	Minimap   key.Binding
	Center    key.Binding
	CopyID    key.Binding
	Help      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		PanLeft:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "pan left")),
		PanRight: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "pan right")),
		PanUp:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "pan up")),
		PanDown:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "pan down")),
		ZoomIn:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
		ZoomOut:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "zoom out")),
		NextNode: key.NewBinding(key.WithKeys("tab", "n"), key.WithHelp("tab", "next entity")),
		PrevNode: key.NewBinding(key.WithKeys("shift+tab", "p"), key.WithHelp("shift+tab", "prev entity")),
		Expand:   key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "expand/collapse cluster")),
		Clusters: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "toggle clustering")),
		Virtual:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle virtualization")),
		Minimap:  key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "minimap")),
		Center:   key.NewBinding(key.WithKeys("0"), key.WithHelp("0", "center view")),
		CopyID:   key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy entity id")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.ZoomIn, k.ZoomOut, k.Expand, k.Minimap, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.PanLeft, k.PanRight, k.PanUp, k.PanDown},
		{k.ZoomIn, k.ZoomOut, k.Center, k.Minimap},
		{k.NextNode, k.PrevNode, k.Expand, k.CopyID},
		{k.Clusters, k.Virtual, k.Help, k.Quit},
	}
}

package ui

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the keyboard bindings for the usage widget
type KeyMap struct {
	Refresh key.Binding
	Compact key.Binding
	Quit    key.Binding
}

// MonitorKeyMap defines the keyboard bindings for the monitor widget
type MonitorKeyMap struct {
	Restart key.Binding
	Stop    key.Binding
	Up      key.Binding
	Down    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default usage-widget bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh now"),
		),
		Compact: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "toggle compact mode"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// DefaultMonitorKeyMap returns the default monitor-widget bindings
func DefaultMonitorKeyMap() MonitorKeyMap {
	return MonitorKeyMap{
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "scroll down"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

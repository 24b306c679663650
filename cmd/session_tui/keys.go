package session_tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mattsolo1/grove-core/tui/keymap"
)

type KeyMap struct {
	keymap.Base
	Send       key.Binding
	Newline    key.Binding
	ToggleMic  key.Binding
	RunDemo    key.Binding
	SwitchTab  key.Binding
	EndSession key.Binding
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

func NewKeyMap() KeyMap {
	km := KeyMap{
		Base: keymap.NewBase(),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send message"),
		),
		Newline: key.NewBinding(
			key.WithKeys("alt+enter", "ctrl+j"),
			key.WithHelp("alt+enter", "new line"),
		),
		ToggleMic: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "start/stop dictation"),
		),
		RunDemo: key.NewBinding(
			key.WithKeys("ctrl+o"),
			key.WithHelp("ctrl+o", "run voice demo"),
		),
		SwitchTab: key.NewBinding(
			key.WithKeys("tab", "shift+tab"),
			key.WithHelp("tab", "chat/feedback"),
		),
		EndSession: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "end session"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdown", "scroll down"),
		),
	}
	// Plain letters belong to the message input.
	km.Quit = key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	)
	km.Help = key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "toggle help"),
	)
	return km
}

func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Send, k.ToggleMic, k.RunDemo, k.SwitchTab, k.Help, k.Quit}
}

func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{
			key.NewBinding(key.WithKeys(""), key.WithHelp("", "Chat")),
			k.Send,
			k.Newline,
			k.ToggleMic,
			k.ScrollUp,
			k.ScrollDown,
		},
		{
			key.NewBinding(key.WithKeys(""), key.WithHelp("", "Session")),
			k.RunDemo,
			k.SwitchTab,
			k.EndSession,
			k.Help,
			k.Quit,
		},
	}
}

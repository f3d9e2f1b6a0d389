// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/devtinder/devtinder-tui/internal/ui/components"
)

// KeyMap holds the bindings shared by the views.
type KeyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Select   key.Binding
	Submit   key.Binding
	Next     key.Binding
	Prev     key.Binding
	Back     key.Binding
	Accept   key.Binding
	Reject   key.Binding
	Refresh  key.Binding
	Edit     key.Binding
	Password key.Binding
	Logout   key.Binding
	PageUp   key.Binding
	PageDown key.Binding
}

// Keys are the default bindings.
var Keys = KeyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "ignore")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "interested")),
	Select:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "submit")),
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Prev:     key.NewBinding(key.WithKeys("shift+tab", "up"), key.WithHelp("S-tab", "prev field")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Accept:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "accept")),
	Reject:   key.NewBinding(key.WithKeys("r", "x"), key.WithHelp("r", "reject")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("C-r", "refresh")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Password: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "password")),
	Logout:   key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "logout")),
	PageUp:   key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("PgUp", "page up")),
	PageDown: key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("PgDn", "page down")),
}

// hint turns a binding's help into a footer hint.
func hint(b key.Binding) components.KeyHint {
	h := b.Help()
	return components.KeyHint{Key: h.Key, Desc: h.Desc}
}

func hints(bs ...key.Binding) []components.KeyHint {
	out := make([]components.KeyHint, 0, len(bs))
	for _, b := range bs {
		out = append(out, hint(b))
	}
	return out
}

// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/toeirei/goclock/internal/i18n"
)

type keyMap struct {
	Switch key.Binding
	Pause  key.Binding
	Reset  key.Binding
	Undo   key.Binding
	Save   key.Binding
	Copy   key.Binding
	Quit   key.Binding
}

func (km keyMap) ShortHelp() []key.Binding {
	return []key.Binding{km.Switch, km.Pause, km.Undo, km.Save, km.Copy, km.Quit}
}

func (km keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{km.Switch, km.Pause, km.Reset},
		{km.Undo, km.Save, km.Copy, km.Quit},
	}
}

// keyMap implements help.KeyMap
var _ help.KeyMap = keyMap{}

// newKeyMap builds the bindings with labels in the active language.
func newKeyMap() keyMap {
	return keyMap{
		Switch: key.NewBinding(
			key.WithKeys(" ", "enter"),
			key.WithHelp("space", i18n.T("help.switch")),
		),
		Pause: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", i18n.T("help.pause")),
		),
		Reset: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", i18n.T("help.reset")),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "backspace"),
			key.WithHelp("u", i18n.T("help.undo")),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", i18n.T("help.save")),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", i18n.T("help.copy")),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", i18n.T("help.quit")),
		),
	}
}

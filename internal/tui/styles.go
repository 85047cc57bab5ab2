// Copyright (c) 2026 Goclock Team
// Goclock - game clock for Go
// This source code is licensed under the MIT license found in the LICENSE file.

package tui

import "github.com/charmbracelet/lipgloss"

const (
	colorSubtle    = lipgloss.Color("240")
	colorHighlight = lipgloss.Color("81")
	colorSpecial   = lipgloss.Color("208")
	colorError     = lipgloss.Color("196")
	colorSuccess   = lipgloss.Color("40")
)

var (
	docStyle = lipgloss.NewStyle().Margin(1, 2)

	titleStyle = lipgloss.NewStyle().
			Foreground(colorHighlight).
			Bold(true).
			Padding(0, 1)

	subtitleStyle = lipgloss.NewStyle().Foreground(colorSubtle)

	// One pane per player; the player to move gets the highlighted border.
	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSubtle).
			Padding(1, 3).
			Width(24).
			Align(lipgloss.Center)

	activePaneStyle = paneStyle.
			BorderForeground(colorHighlight)

	colorNameStyle = lipgloss.NewStyle().Bold(true)

	timeStyle = lipgloss.NewStyle().Bold(true)

	overtimeStyle = lipgloss.NewStyle().Foreground(colorSpecial)

	lostStyle = lipgloss.NewStyle().Foreground(colorError).Bold(true)

	errorStyle   = lipgloss.NewStyle().Foreground(colorError)
	successStyle = lipgloss.NewStyle().Foreground(colorSuccess)

	footerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true)
)

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// NavigateMsg asks the app to switch routes.
type NavigateMsg struct {
	Path string
}

// Navigate returns a command that emits NavigateMsg.
func Navigate(path string) tea.Cmd {
	return func() tea.Msg { return NavigateMsg{Path: path} }
}

// UnauthorizedMsg reports a 401; the app clears the session and goes to
// the landing page.
type UnauthorizedMsg struct{}

// LoggedInMsg is sent after a successful login or signup.
type LoggedInMsg struct {
	User model.User
	// Next overrides where the app goes afterwards.
	Next string
}

// LoggedOutMsg is sent after logout, whether or not the backend answered.
type LoggedOutMsg struct{}

// ThemeChangedMsg is sent when the user picks a theme.
type ThemeChangedMsg struct {
	Theme model.ThemeName
}

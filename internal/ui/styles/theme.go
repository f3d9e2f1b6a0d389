// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// Theme holds all the styled components for the application.
type Theme struct {
	Palette

	// Terminal capabilities
	HasTrueColor bool
	ColorProfile termenv.Profile

	// ==========================================================================
	// CHROME
	// ==========================================================================

	App           lipgloss.Style
	Nav           lipgloss.Style
	NavBrand      lipgloss.Style
	NavItem       lipgloss.Style
	NavItemActive lipgloss.Style
	NavUser       lipgloss.Style
	Footer        lipgloss.Style
	Title         lipgloss.Style
	Subtitle      lipgloss.Style
	Muted         lipgloss.Style
	Link          lipgloss.Style
	Badge         lipgloss.Style
	PremiumBadge  lipgloss.Style
	Empty         lipgloss.Style
	Spinner       lipgloss.Style
	ShortcutKey   lipgloss.Style
	ShortcutDesc  lipgloss.Style

	// ==========================================================================
	// FEED CARD
	// ==========================================================================

	Card          lipgloss.Style
	CardTitle     lipgloss.Style
	CardMeta      lipgloss.Style
	CardSkill     lipgloss.Style
	CardLeaning   lipgloss.Style
	ButtonIgnore  lipgloss.Style
	ButtonLike    lipgloss.Style
	Button        lipgloss.Style
	ButtonFocused lipgloss.Style

	// ==========================================================================
	// LISTS (connections, requests, themes)
	// ==========================================================================

	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ListMeta         lipgloss.Style

	// ==========================================================================
	// CHAT
	// ==========================================================================

	ChatHeader  lipgloss.Style
	BubbleSelf  lipgloss.Style
	BubblePeer  lipgloss.Style
	ChatSender  lipgloss.Style
	ChatTime    lipgloss.Style
	ChatInput   lipgloss.Style
	ChatOffline lipgloss.Style
	CodeBlock   lipgloss.Style

	// ==========================================================================
	// FORMS
	// ==========================================================================

	FormBox        lipgloss.Style
	FormLabel      lipgloss.Style
	FormInput      lipgloss.Style
	FormInputFocus lipgloss.Style
	FormError      lipgloss.Style

	// ==========================================================================
	// TOASTS
	// ==========================================================================

	ToastError   lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastInfo    lipgloss.Style
}

var (
	profileOnce sync.Once
	profile     termenv.Profile
)

func colorProfile() termenv.Profile {
	profileOnce.Do(func() {
		profile = termenv.ColorProfile()
	})
	return profile
}

// ForTheme builds the styles for name. Unknown names use the dark palette.
func ForTheme(name model.ThemeName) *Theme {
	p := colorProfile()
	t := &Theme{
		Palette:      PaletteFor(name),
		HasTrueColor: p == termenv.TrueColor,
		ColorProfile: p,
	}
	t.initStyles()
	return t
}

// NewTheme returns the default theme.
func NewTheme() *Theme {
	return ForTheme(model.DefaultTheme)
}

// initStyles initializes all the lip gloss styles.
func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Foreground(t.Text)

	// Chrome
	t.Nav = lipgloss.NewStyle().
		Background(t.Surface).
		Foreground(t.Text).
		Padding(0, 1)

	t.NavBrand = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		Background(t.Surface)

	t.NavItem = lipgloss.NewStyle().
		Foreground(t.Palette.Muted).
		Background(t.Surface).
		Padding(0, 1)

	t.NavItemActive = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.OnPrimary).
		Background(t.Primary).
		Padding(0, 1)

	t.NavUser = lipgloss.NewStyle().
		Foreground(t.Secondary).
		Background(t.Surface)

	t.Footer = lipgloss.NewStyle().
		Foreground(t.Palette.Muted).
		Background(t.Surface).
		Padding(0, 1)

	t.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary)

	t.Subtitle = lipgloss.NewStyle().
		Foreground(t.Palette.Muted).
		Italic(true)

	t.Muted = lipgloss.NewStyle().Foreground(t.Palette.Muted)

	t.Link = lipgloss.NewStyle().
		Foreground(t.Accent).
		Underline(true)

	t.Badge = lipgloss.NewStyle().
		Foreground(t.Base).
		Background(t.Secondary).
		Padding(0, 1)

	t.PremiumBadge = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Base).
		Background(t.Warning).
		Padding(0, 1)

	t.Empty = lipgloss.NewStyle().
		Foreground(t.Palette.Muted).
		Italic(true).
		Padding(1, 2)

	t.Spinner = lipgloss.NewStyle().Foreground(t.Primary)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().Foreground(t.Palette.Muted)

	// Feed card
	t.Card = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Overlay).
		Background(t.Surface).
		Foreground(t.Text).
		Padding(1, 2).
		Width(44)

	t.CardTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text)

	t.CardMeta = lipgloss.NewStyle().Foreground(t.Palette.Muted)

	t.CardSkill = lipgloss.NewStyle().
		Foreground(t.Accent).
		Background(t.Overlay).
		Padding(0, 1).
		MarginRight(1)

	t.CardLeaning = t.Card.Copy().BorderForeground(t.Primary)

	t.Button = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Overlay).
		Padding(0, 2)

	t.ButtonFocused = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.OnPrimary).
		Background(t.Primary).
		Padding(0, 2)

	t.ButtonIgnore = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Base).
		Background(t.Error).
		Padding(0, 2)

	t.ButtonLike = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Base).
		Background(t.Success).
		Padding(0, 2)

	// Lists
	t.ListItem = lipgloss.NewStyle().
		Foreground(t.Text).
		PaddingLeft(2)

	t.ListItemSelected = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Primary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(t.Primary).
		PaddingLeft(1)

	t.ListMeta = lipgloss.NewStyle().
		Foreground(t.Palette.Muted).
		PaddingLeft(4)

	// Chat
	t.ChatHeader = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Text).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Overlay).
		Padding(0, 1)

	t.BubbleSelf = lipgloss.NewStyle().
		Foreground(t.OnPrimary).
		Background(t.Primary).
		Padding(0, 1)

	t.BubblePeer = lipgloss.NewStyle().
		Foreground(t.Text).
		Background(t.Overlay).
		Padding(0, 1)

	t.ChatSender = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Secondary)

	t.ChatTime = lipgloss.NewStyle().Foreground(t.Palette.Muted)

	t.ChatInput = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(t.Overlay).
		Padding(0, 1)

	t.ChatOffline = lipgloss.NewStyle().
		Foreground(t.Warning).
		Italic(true)

	t.CodeBlock = lipgloss.NewStyle().
		Background(t.Base).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(t.Accent).
		PaddingLeft(1)

	// Forms
	t.FormBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(t.Overlay).
		Padding(1, 2)

	t.FormLabel = lipgloss.NewStyle().
		Foreground(t.Palette.Muted)

	t.FormInput = lipgloss.NewStyle().
		Foreground(t.Text)

	t.FormInputFocus = lipgloss.NewStyle().
		Foreground(t.Primary).
		Bold(true)

	t.FormError = lipgloss.NewStyle().
		Foreground(t.Error)

	// Toasts
	toast := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		Padding(0, 1)

	t.ToastError = toast.Copy().
		Foreground(t.Error).
		BorderForeground(t.Error)

	t.ToastSuccess = toast.Copy().
		Foreground(t.Success).
		BorderForeground(t.Success)

	t.ToastInfo = toast.Copy().
		Foreground(t.Accent).
		BorderForeground(t.Accent)
}

// GlamourStyle names the glamour standard style that suits the palette.
func (t *Theme) GlamourStyle() string {
	if t.ColorProfile == termenv.Ascii {
		return "notty"
	}
	if t.Dark {
		return "dark"
	}
	return "light"
}

// ChromaStyle names the chroma style used for code in chat.
func (t *Theme) ChromaStyle() string {
	switch t.Name {
	case model.ThemeDracula:
		return "dracula"
	case model.ThemeSynthwave:
		return "fruity"
	case model.ThemeLight, model.ThemeCupcake:
		return "github"
	case model.ThemeRetro:
		return "solarized-light"
	default:
		return "monokai"
	}
}

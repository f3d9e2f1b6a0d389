// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// Palette is the set of colour roles one theme defines.
type Palette struct {
	Name model.ThemeName
	Dark bool

	Base    lipgloss.Color
	Surface lipgloss.Color
	Overlay lipgloss.Color

	Text  lipgloss.Color
	Muted lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// OnPrimary is text drawn on Primary.
	OnPrimary lipgloss.Color
}

// =============================================================================
// PALETTES
// =============================================================================

var palettes = map[model.ThemeName]Palette{
	model.ThemeDark: {
		Name: model.ThemeDark, Dark: true,
		Base: "#1D232A", Surface: "#191E24", Overlay: "#2A323C",
		Text: "#A6ADBB", Muted: "#6B7280",
		Primary: "#7582FF", Secondary: "#FF71CF", Accent: "#00C7B5",
		Success: "#00A96E", Warning: "#FFBE00", Error: "#FF5861",
		OnPrimary: "#050617",
	},
	model.ThemeLight: {
		Name: model.ThemeLight,
		Base: "#FFFFFF", Surface: "#F2F2F2", Overlay: "#E5E6E6",
		Text: "#1F2937", Muted: "#6B7280",
		Primary: "#491EFF", Secondary: "#FF41C7", Accent: "#00CFBD",
		Success: "#00A96E", Warning: "#FFBE00", Error: "#FF5861",
		OnPrimary: "#D4DBFF",
	},
	model.ThemeCupcake: {
		Name: model.ThemeCupcake,
		Base: "#FAF7F5", Surface: "#EFEAE6", Overlay: "#E7E2DF",
		Text: "#291334", Muted: "#7D6B86",
		Primary: "#65C3C8", Secondary: "#EF9FBC", Accent: "#EEAF3A",
		Success: "#36D399", Warning: "#FBBD23", Error: "#F87272",
		OnPrimary: "#291334",
	},
	model.ThemeSynthwave: {
		Name: model.ThemeSynthwave, Dark: true,
		Base: "#1A103D", Surface: "#221551", Overlay: "#2D1B69",
		Text: "#F9F7FD", Muted: "#A599C9",
		Primary: "#E779C1", Secondary: "#58C7F3", Accent: "#F3CC30",
		Success: "#77D1BF", Warning: "#F3CC30", Error: "#E24056",
		OnPrimary: "#1A103D",
	},
	model.ThemeRetro: {
		Name: model.ThemeRetro,
		Base: "#ECE3CA", Surface: "#E4D8B4", Overlay: "#DBCA9A",
		Text: "#282425", Muted: "#6B5F4B",
		Primary: "#EF9995", Secondary: "#A4CBB4", Accent: "#DC8850",
		Success: "#16A34A", Warning: "#CA8A04", Error: "#DC2626",
		OnPrimary: "#282425",
	},
	model.ThemeDracula: {
		Name: model.ThemeDracula, Dark: true,
		Base: "#282A36", Surface: "#21222C", Overlay: "#44475A",
		Text: "#F8F8F2", Muted: "#6272A4",
		Primary: "#FF79C6", Secondary: "#BD93F9", Accent: "#FFB86C",
		Success: "#50FA7B", Warning: "#F1FA8C", Error: "#FF5555",
		OnPrimary: "#282A36",
	},
}

// PaletteFor returns the palette of name, or the dark palette for unknown
// names.
func PaletteFor(name model.ThemeName) Palette {
	if p, ok := palettes[name]; ok {
		return p
	}
	return palettes[model.ThemeDark]
}

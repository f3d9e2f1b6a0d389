// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// ThemeName is one of the fixed palettes the UI can render with.
type ThemeName string

const (
	ThemeDark      ThemeName = "dark"
	ThemeLight     ThemeName = "light"
	ThemeCupcake   ThemeName = "cupcake"
	ThemeSynthwave ThemeName = "synthwave"
	ThemeRetro     ThemeName = "retro"
	ThemeDracula   ThemeName = "dracula"
)

// DefaultTheme is used when nothing (or something unrecognized) is stored.
const DefaultTheme = ThemeDark

// Themes lists every palette in picker order.
var Themes = []ThemeName{ThemeDark, ThemeLight, ThemeCupcake, ThemeSynthwave, ThemeRetro, ThemeDracula}

// Valid reports whether t is one of Themes.
func (t ThemeName) Valid() bool {
	for _, known := range Themes {
		if t == known {
			return true
		}
	}
	return false
}

// ParseTheme maps s (case-insensitive, space-trimmed) onto a theme. ok is
// false and the default is returned for unrecognized input.
func ParseTheme(s string) (t ThemeName, ok bool) {
	t = ThemeName(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t, true
	}
	return DefaultTheme, false
}

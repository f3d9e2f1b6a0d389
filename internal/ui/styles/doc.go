// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package styles provides the visual styling system for the devtinder TUI.

# Palettes (palette.go)

Every selectable theme (dark, light, cupcake, synthwave, retro, dracula)
has a Palette of eleven colour roles:

	Base, Surface, Overlay  - background layers, darkest to brightest
	Text, Muted             - body and de-emphasized text
	Primary, Secondary      - brand accents (nav, buttons, own messages)
	Accent                  - highlights (skills, links)
	Success, Warning, Error - toast and status colours

Unknown theme names use the dark palette.

# Theme (theme.go)

ForTheme builds every lipgloss style the views use from a palette. The
terminal colour profile is detected once with termenv; on terminals without
true colour lipgloss degrades the hex values itself.

	t := styles.ForTheme(model.ThemeDracula)
	card := t.Card.Render(body)

GlamourStyle and ChromaStyle pick matching renderer styles for profile
markdown and code snippets in chat.

# Spinners (spinner.go)

ASCII-safe spinner frame sets for bubbles/spinner.
*/
package styles

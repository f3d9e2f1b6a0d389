// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/truncate"
)

// overlayToasts draws overlay over the top-right corner of base. Lines of
// base are cut (ANSI-aware) to make room.
func overlayToasts(base, overlay string, width int) string {
	if overlay == "" {
		return base
	}
	lines := strings.Split(base, "\n")
	for i, ol := range strings.Split(overlay, "\n") {
		ow := lipgloss.Width(ol)
		room := width - ow
		if room < 0 {
			room = 0
		}
		if i >= len(lines) {
			lines = append(lines, strings.Repeat(" ", room)+ol)
			continue
		}
		left := truncate.String(lines[i], uint(room))
		if pad := room - lipgloss.Width(left); pad > 0 {
			left += strings.Repeat(" ", pad)
		}
		lines[i] = left + ol
	}
	return strings.Join(lines, "\n")
}

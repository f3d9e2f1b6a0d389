// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/styles"
	"github.com/devtinder/devtinder-tui/internal/util"
)

// CardOptions controls how a profile card is drawn.
type CardOptions struct {
	// Offset shifts the card horizontally while it is dragged.
	Offset int
	// Exiting dims the card while its decision is in flight.
	Exiting bool
	// Buttons draws the ignore / interested buttons under the card.
	Buttons bool
	// Width bounds the whole card area.
	Width int
}

// RenderCard draws a profile card.
func RenderCard(theme *styles.Theme, u model.User, opts CardOptions) string {
	inner := 40
	if opts.Width > 0 && opts.Width-6 < inner {
		inner = opts.Width - 6
	}
	if inner < 16 {
		inner = 16
	}

	var b strings.Builder
	b.WriteString(theme.CardTitle.Render(util.Truncate(u.FullName(), inner)))
	if u.IsPremium {
		b.WriteString(" " + theme.PremiumBadge.Render("PRO"))
	}
	if s := u.Summary(); s != "" {
		b.WriteString("\n" + theme.CardMeta.Render(util.Truncate(s, inner)))
	}
	if len(u.Skills) > 0 {
		b.WriteString("\n\n" + renderSkills(theme, u.Skills, inner))
	}
	if about := RenderMarkdown(u.About, theme.GlamourStyle(), inner); about != "" {
		b.WriteString("\n\n" + about)
	}
	var links []string
	if u.GithubURL != "" {
		links = append(links, theme.Link.Render(util.Truncate(u.GithubURL, inner)))
	}
	if u.LinkedinURL != "" {
		links = append(links, theme.Link.Render(util.Truncate(u.LinkedinURL, inner)))
	}
	if len(links) > 0 {
		b.WriteString("\n\n" + strings.Join(links, "\n"))
	}

	style := theme.Card.Width(inner + 4)
	switch {
	case opts.Exiting:
		style = style.Faint(true)
	case opts.Offset != 0:
		style = theme.CardLeaning.Width(inner + 4)
		if opts.Offset > 0 {
			style = style.BorderForeground(theme.Success)
		} else {
			style = style.BorderForeground(theme.Error)
		}
	}
	card := style.Render(b.String())

	if label := leaningLabel(theme, opts.Offset); label != "" {
		card = lipgloss.JoinVertical(lipgloss.Center, label, card)
	}
	if opts.Buttons {
		buttons := lipgloss.JoinHorizontal(lipgloss.Top,
			theme.ButtonIgnore.Render("← Ignore"),
			"   ",
			theme.ButtonLike.Render("Interested →"),
		)
		card = lipgloss.JoinVertical(lipgloss.Center, card, "", buttons)
	}
	if opts.Offset != 0 {
		card = shift(card, opts.Offset, opts.Width)
	}
	return card
}

func leaningLabel(theme *styles.Theme, offset int) string {
	switch {
	case offset > 0:
		return theme.ButtonLike.Render("INTERESTED")
	case offset < 0:
		return theme.ButtonIgnore.Render("IGNORE")
	}
	return ""
}

func renderSkills(theme *styles.Theme, skills []string, width int) string {
	var lines []string
	line := ""
	for _, s := range skills {
		chip := theme.CardSkill.Render(util.Truncate(s, width-4))
		if line != "" && lipgloss.Width(line)+lipgloss.Width(chip) > width {
			lines = append(lines, line)
			line = ""
		}
		line += chip
	}
	if line != "" {
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n")
}

// shift moves block right by offset cells. Left drags draw in place.
func shift(block string, offset, width int) string {
	if offset <= 0 {
		return block
	}
	if width > 0 {
		room := width - lipgloss.Width(block)
		if room < 0 {
			room = 0
		}
		if offset > room {
			offset = room
		}
	}
	return lipgloss.NewStyle().PaddingLeft(offset).Render(block)
}

// RenderUserLine is the one-line entry used in connection and request
// lists.
func RenderUserLine(theme *styles.Theme, u model.User, selected bool, width int) string {
	name := "(" + util.Initials(u.FirstName, u.LastName) + ") " + u.FullName()
	meta := u.Summary()
	avail := width - 6
	if avail < 10 {
		avail = 10
	}
	style := theme.ListItem
	if selected {
		style = theme.ListItemSelected
	}
	out := style.Render(util.Truncate(name, avail))
	if meta != "" {
		out += "\n" + theme.ListMeta.Render(util.Truncate(meta, avail))
	}
	return out
}

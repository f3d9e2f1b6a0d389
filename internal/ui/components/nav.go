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

// Brand is drawn at the left of the nav bar.
const Brand = "devTinder"

// NavItem is one nav destination.
type NavItem struct {
	Key   string
	Label string
	Path  string
}

// NavItems are the nav destinations in order; Key is the shortcut.
var NavItems = []NavItem{
	{Key: "1", Label: "Feed", Path: "/feed"},
	{Key: "2", Label: "Connections", Path: "/connections"},
	{Key: "3", Label: "Requests", Path: "/requests"},
	{Key: "4", Label: "Premium", Path: "/premium"},
	{Key: "5", Label: "Profile", Path: "/profile"},
	{Key: "6", Label: "Theme", Path: "/theme"},
}

// NavItemForKey returns the item bound to key.
func NavItemForKey(key string) (NavItem, bool) {
	for _, it := range NavItems {
		if it.Key == key {
			return it, true
		}
	}
	return NavItem{}, false
}

// RenderNav draws the nav bar. activePath highlights the matching item;
// user may be nil.
func RenderNav(theme *styles.Theme, activePath string, user *model.User, width int) string {
	parts := []string{theme.NavBrand.Render(Brand + " ")}
	for _, it := range NavItems {
		style := theme.NavItem
		if activePath == it.Path || strings.HasPrefix(activePath, it.Path+"/") {
			style = theme.NavItemActive
		}
		parts = append(parts, style.Render(it.Key+" "+it.Label))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Top, parts...)

	right := ""
	if user != nil {
		right = theme.NavUser.Render("Welcome, " + util.Truncate(user.FirstName, 16))
		if user.IsPremium {
			right += " " + theme.PremiumBadge.Render(strings.ToUpper(user.MembershipType))
		}
	}

	gap := width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		return theme.Nav.Width(max(width, 0)).Render(left)
	}
	return theme.Nav.Render(left + strings.Repeat(" ", gap) + right)
}

// RenderFooter draws the footer with key hints.
func RenderFooter(theme *styles.Theme, hints []KeyHint, width int) string {
	line := ""
	for _, h := range hints {
		item := theme.ShortcutKey.Render(h.Key) + " " + theme.ShortcutDesc.Render(h.Desc)
		next := item
		if line != "" {
			next = line + "  " + item
		}
		// Hints that do not fit are dropped from the end.
		if width > 0 && lipgloss.Width(next) > width-2 {
			break
		}
		line = next
	}
	if width > 0 {
		return theme.Footer.Width(width).Render(line)
	}
	return theme.Footer.Render(line)
}

// KeyHint is one footer shortcut.
type KeyHint struct {
	Key  string
	Desc string
}

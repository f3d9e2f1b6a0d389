// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
	"github.com/devtinder/devtinder-tui/internal/ui/styles"
)

var keyApply = key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "apply"))

// Theme picks one of the fixed palettes.
type Theme struct {
	base
	cur cursor
}

// NewTheme creates the theme picker with the current theme selected.
func NewTheme(env *Env, deps *Deps) *Theme {
	v := &Theme{base: newBase(env, deps)}
	if deps.Theme != nil {
		for i, name := range model.Themes {
			if name == deps.Theme.Current() {
				v.cur.pos = i
			}
		}
	}
	return v
}

func (v *Theme) Init() tea.Cmd { return nil }

func (v *Theme) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok && r.op == "apply" {
		if r.err != nil {
			return v, v.deps.failure(r.err)
		}
		name := r.value.(model.ThemeName)
		return v, func() tea.Msg { return ThemeChangedMsg{Theme: name} }
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(k, Keys.Up):
		v.cur.move(-1, len(model.Themes))
	case key.Matches(k, Keys.Down):
		v.cur.move(1, len(model.Themes))
	case key.Matches(k, keyApply):
		name, pref := model.Themes[v.cur.pos], v.deps.Theme
		return v, v.do("apply", func(ctx context.Context) (interface{}, error) {
			if pref == nil {
				return name, nil
			}
			return name, pref.Set(ctx, name)
		})
	}
	return v, nil
}

func (v *Theme) View() string {
	t := v.styles()
	var current model.ThemeName
	if v.deps.Theme != nil {
		current = v.deps.Theme.Current()
	}

	lines := []string{t.Title.Render("Theme"), ""}
	for i, name := range model.Themes {
		p := styles.PaletteFor(name)
		swatch := ""
		for _, c := range []lipgloss.TerminalColor{p.Primary, p.Secondary, p.Accent, p.Base} {
			swatch += lipgloss.NewStyle().Background(c).Render("  ")
		}
		label := string(name)
		if name == current {
			label += " ✓"
		}
		style := t.ListItem
		if i == v.cur.pos {
			style = t.ListItemSelected
		}
		lines = append(lines, style.Width(18).Render(label)+" "+swatch)
	}
	return centered(v.env, strings.Join(lines, "\n"))
}

func (v *Theme) Hints() []components.KeyHint {
	return hints(Keys.Up, Keys.Down, keyApply)
}

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
	"github.com/devtinder/devtinder-tui/internal/premium"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
)

var keyBuy = key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "buy plan"))

// Premium shows the membership plans and starts a checkout.
type Premium struct {
	base
	selected int
	checking bool
	ordering bool
	order    *model.PaymentOrder
}

// NewPremium creates the premium view.
func NewPremium(env *Env, deps *Deps) *Premium {
	return &Premium{base: newBase(env, deps)}
}

func (v *Premium) Init() tea.Cmd {
	return v.check()
}

func (v *Premium) check() tea.Cmd {
	v.checking = true
	svc := v.deps.Premium
	return v.do("status", func(ctx context.Context) (interface{}, error) {
		return svc.Status(ctx)
	})
}

func (v *Premium) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok {
		switch r.op {
		case "status":
			v.checking = false
			return v, v.deps.quiet(r.err, "premium")
		case "order":
			v.ordering = false
			if r.err != nil {
				return v, v.deps.failure(r.err)
			}
			v.order = r.value.(*model.PaymentOrder)
		}
		return v, nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(k, Keys.Left), key.Matches(k, Keys.Up):
		v.selected = (v.selected + len(model.Plans) - 1) % len(model.Plans)
	case key.Matches(k, Keys.Right), key.Matches(k, Keys.Down):
		v.selected = (v.selected + 1) % len(model.Plans)
	case key.Matches(k, Keys.Refresh):
		return v, v.check()
	case key.Matches(k, Keys.Back):
		v.order = nil
	case key.Matches(k, keyBuy):
		if v.ordering || v.isPremium() {
			return v, nil
		}
		v.ordering = true
		v.order = nil
		svc, plan := v.deps.Premium, string(model.Plans[v.selected])
		return v, v.do("order", func(ctx context.Context) (interface{}, error) {
			return svc.CreateOrder(ctx, plan)
		})
	}
	return v, nil
}

func (v *Premium) isPremium() bool {
	u := v.deps.Store.User()
	return u != nil && u.IsPremium
}

func (v *Premium) View() string {
	t := v.styles()
	if v.isPremium() {
		u := v.deps.Store.User()
		return centered(v.env, t.Title.Render("You're already a premium user")+"\n"+
			t.PremiumBadge.Render(strings.ToUpper(u.MembershipType)))
	}

	cards := make([]string, 0, len(model.Plans))
	for i, p := range model.Plans {
		lines := []string{t.CardTitle.Render(strings.ToUpper(string(p)) + " membership"), ""}
		for _, perk := range p.Perks() {
			lines = append(lines, "• "+perk)
		}
		style := t.Card.Width(32)
		if i == v.selected {
			style = t.CardLeaning.Width(32)
		}
		cards = append(cards, style.Render(strings.Join(lines, "\n")))
	}
	body := lipgloss.JoinHorizontal(lipgloss.Top, cards[0], "  ", cards[1])

	var tail []string
	switch {
	case v.ordering:
		tail = append(tail, t.Muted.Render("Creating order…"))
	case v.order != nil:
		tail = append(tail, t.Subtitle.Render("Complete the payment with your provider:"))
		for _, line := range premium.Checkout(v.order) {
			tail = append(tail, t.Muted.Render(line))
		}
		tail = append(tail, "", t.Muted.Render("Then run `devtinder premium verify` or press C-r to recheck."))
	case v.checking:
		tail = append(tail, t.Muted.Render("Checking membership…"))
	}
	if len(tail) > 0 {
		body = lipgloss.JoinVertical(lipgloss.Center, body, "", strings.Join(tail, "\n"))
	}
	return centered(v.env, body)
}

func (v *Premium) Hints() []components.KeyHint {
	return []components.KeyHint{{Key: "←/→", Desc: "plan"}, hint(keyBuy), hint(Keys.Refresh)}
}

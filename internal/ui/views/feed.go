// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/feed"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
	"github.com/devtinder/devtinder-tui/internal/ui/gesture"
)

// Feed shows the top card of the deck and turns swipes into decisions.
type Feed struct {
	base
	swipe   *gesture.Swipe
	spinner spinner.Model
	loading bool
	// leaving is the direction of the card whose decision is in flight.
	leaving model.Decision
}

// NewFeed creates the feed view.
func NewFeed(env *Env, deps *Deps) *Feed {
	th := deps.Swipe
	if th.Distance == 0 && th.Velocity == 0 {
		th = gesture.DefaultThresholds
	}
	return &Feed{
		base:    newBase(env, deps),
		swipe:   gesture.NewSwipe(th),
		spinner: env.Styles.NewSpinner(),
	}
}

func (v *Feed) Init() tea.Cmd {
	if len(v.deps.Store.Feed()) > 0 {
		return nil
	}
	return v.load(false)
}

func (v *Feed) load(force bool) tea.Cmd {
	v.loading = true
	deck := v.deps.Deck
	return tea.Batch(v.spinner.Tick, v.do("load", func(ctx context.Context) (interface{}, error) {
		if force {
			return nil, deck.Refresh(ctx)
		}
		return nil, deck.EnsureLoaded(ctx)
	}))
}

func (v *Feed) decide(d model.Decision) tea.Cmd {
	if v.leaving != "" || v.deps.Deck.Exiting() != "" {
		return nil
	}
	top, ok := v.deps.Deck.Top()
	if !ok {
		return nil
	}
	v.leaving = d
	deck := v.deps.Deck
	return v.do("decide", func(ctx context.Context) (interface{}, error) {
		return deck.DecideID(ctx, top.ID, d)
	})
}

func (v *Feed) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok {
		switch r.op {
		case "load":
			v.loading = false
			return v, v.deps.quiet(r.err, "feed")
		case "decide":
			v.leaving = ""
			if errors.Is(r.err, feed.ErrBusy) || errors.Is(r.err, feed.ErrEmpty) || errors.Is(r.err, feed.ErrNotTop) {
				return v, nil
			}
			return v, v.deps.failure(r.err)
		}
		return v, nil
	}

	switch msg := msg.(type) {
	case spinner.TickMsg:
		if !v.loading {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case tea.MouseMsg:
		if d, ok := v.swipe.HandleMouse(msg); ok {
			return v, v.decide(d)
		}

	case tea.KeyMsg:
		if key.Matches(msg, Keys.Refresh) {
			return v, v.load(true)
		}
		if d, ok := gesture.Key(msg); ok {
			return v, v.decide(d)
		}
	}
	return v, nil
}

func (v *Feed) View() string {
	t := v.styles()
	top, ok := v.deps.Deck.Top()
	switch {
	case !ok && v.loading:
		return centered(v.env, v.spinner.View()+" "+t.Muted.Render("Finding developers…"))
	case !ok:
		return centered(v.env, t.Empty.Render("No new users found.")+"\n"+
			t.Muted.Render("Press C-r to look again."))
	}

	offset := v.swipe.Offset()
	switch v.leaving {
	case model.DecisionInterested:
		offset = 4
	case model.DecisionIgnored:
		offset = -4
	}
	card := components.RenderCard(t, top, components.CardOptions{
		Offset:  offset,
		Exiting: v.leaving != "",
		Buttons: true,
		Width:   v.env.Width,
	})

	remaining := len(v.deps.Store.Feed())
	counter := t.Muted.Render(plural(remaining, "profile", "profiles") + " in your deck")
	return centered(v.env, lipgloss.JoinVertical(lipgloss.Center, card, "", counter))
}

func (v *Feed) Hints() []components.KeyHint {
	return append(hints(Keys.Left, Keys.Right, Keys.Refresh),
		components.KeyHint{Key: "drag", Desc: "swipe"})
}

func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return itoa(n) + " " + many
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/requests"
	"github.com/devtinder/devtinder-tui/internal/router"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
)

func itoa(n int) string { return strconv.Itoa(n) }

// cursor keeps a selection inside a list whose length changes under it.
type cursor struct {
	pos int
}

func (c *cursor) move(delta, n int) {
	c.pos += delta
	c.clamp(n)
}

func (c *cursor) clamp(n int) {
	if c.pos >= n {
		c.pos = n - 1
	}
	if c.pos < 0 {
		c.pos = 0
	}
}

// window returns the slice bounds that keep pos visible in height rows.
func (c *cursor) window(n, height int) (from, to int) {
	if height <= 0 || n <= height {
		return 0, n
	}
	from = c.pos - height/2
	if from < 0 {
		from = 0
	}
	if from+height > n {
		from = n - height
	}
	return from, from + height
}

// =============================================================================
// CONNECTIONS
// =============================================================================

// Connections lists accepted connections; enter opens the chat.
type Connections struct {
	base
	cur     cursor
	loading bool
	loaded  bool
}

// NewConnections creates the connections view.
func NewConnections(env *Env, deps *Deps) *Connections {
	return &Connections{base: newBase(env, deps)}
}

func (v *Connections) Init() tea.Cmd {
	return v.load()
}

func (v *Connections) load() tea.Cmd {
	v.loading = true
	rev := v.deps.Reviewer
	return v.do("load", func(ctx context.Context) (interface{}, error) {
		return nil, rev.LoadConnections(ctx)
	})
}

func (v *Connections) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok && r.op == "load" {
		v.loading, v.loaded = false, true
		return v, v.deps.quiet(r.err, "connections")
	}
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	conns := v.deps.Store.Connections()
	switch {
	case key.Matches(k, Keys.Up):
		v.cur.move(-1, len(conns))
	case key.Matches(k, Keys.Down):
		v.cur.move(1, len(conns))
	case key.Matches(k, Keys.Refresh):
		return v, v.load()
	case key.Matches(k, Keys.Select):
		v.cur.clamp(len(conns))
		if len(conns) > 0 {
			return v, Navigate(router.ChatPath(conns[v.cur.pos].ID))
		}
	}
	return v, nil
}

func (v *Connections) View() string {
	t := v.styles()
	conns := v.deps.Store.Connections()
	if len(conns) == 0 {
		if v.loading && !v.loaded {
			return centered(v.env, t.Muted.Render("Loading connections…"))
		}
		return centered(v.env, t.Empty.Render("No connections yet.")+"\n"+
			t.Muted.Render("Swipe right in the feed to send requests."))
	}
	v.cur.clamp(len(conns))

	var b strings.Builder
	b.WriteString(t.Title.Render("Connections") + " " + t.Muted.Render("("+itoa(len(conns))+")"))
	b.WriteString("\n\n")
	from, to := v.cur.window(len(conns), (v.env.Height-3)/2)
	for i := from; i < to; i++ {
		b.WriteString(components.RenderUserLine(t, conns[i], i == v.cur.pos, v.env.Width))
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *Connections) Hints() []components.KeyHint {
	return append(hints(Keys.Up, Keys.Down, Keys.Refresh),
		components.KeyHint{Key: "enter", Desc: "chat"})
}

// =============================================================================
// REQUESTS
// =============================================================================

// Requests lists inbound connection requests for review.
type Requests struct {
	base
	cur     cursor
	loading bool
	loaded  bool
}

// NewRequests creates the requests view.
func NewRequests(env *Env, deps *Deps) *Requests {
	return &Requests{base: newBase(env, deps)}
}

func (v *Requests) Init() tea.Cmd {
	return v.load()
}

func (v *Requests) load() tea.Cmd {
	v.loading = true
	rev := v.deps.Reviewer
	return v.do("load", func(ctx context.Context) (interface{}, error) {
		return nil, rev.Load(ctx)
	})
}

func (v *Requests) review(status model.ReviewStatus) tea.Cmd {
	reqs := v.deps.Store.Requests()
	v.cur.clamp(len(reqs))
	if len(reqs) == 0 {
		return nil
	}
	req := reqs[v.cur.pos]
	rev := v.deps.Reviewer
	if rev.Pending(req.ID) {
		return nil
	}
	return v.do("review", func(ctx context.Context) (interface{}, error) {
		return reviewed{req: req, status: status}, rev.Review(ctx, req.ID, status)
	})
}

type reviewed struct {
	req    model.ConnectionRequest
	status model.ReviewStatus
}

func (v *Requests) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok {
		switch r.op {
		case "load":
			v.loading, v.loaded = false, true
			return v, v.deps.quiet(r.err, "requests")
		case "review":
			if errors.Is(r.err, requests.ErrInFlight) || errors.Is(r.err, requests.ErrUnknownRequest) {
				return v, nil
			}
			if r.err != nil {
				return v, v.deps.failure(r.err)
			}
			done := r.value.(reviewed)
			if done.status == model.ReviewAccepted {
				return v, components.ShowToast(components.ToastKindSuccess,
					"You are now connected with "+done.req.From.FirstName)
			}
		}
		return v, nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	reqs := v.deps.Store.Requests()
	switch {
	case key.Matches(k, Keys.Up):
		v.cur.move(-1, len(reqs))
	case key.Matches(k, Keys.Down):
		v.cur.move(1, len(reqs))
	case key.Matches(k, Keys.Refresh):
		return v, v.load()
	case key.Matches(k, Keys.Accept):
		return v, v.review(model.ReviewAccepted)
	case key.Matches(k, Keys.Reject):
		return v, v.review(model.ReviewRejected)
	}
	return v, nil
}

func (v *Requests) View() string {
	t := v.styles()
	reqs := v.deps.Store.Requests()
	if len(reqs) == 0 {
		if v.loading && !v.loaded {
			return centered(v.env, t.Muted.Render("Loading requests…"))
		}
		return centered(v.env, t.Empty.Render("No pending requests."))
	}
	v.cur.clamp(len(reqs))

	var b strings.Builder
	b.WriteString(t.Title.Render("Connection requests") + " " + t.Muted.Render("("+itoa(len(reqs))+")"))
	b.WriteString("\n\n")
	from, to := v.cur.window(len(reqs), (v.env.Height-3)/2)
	for i := from; i < to; i++ {
		line := components.RenderUserLine(t, reqs[i].From, i == v.cur.pos, v.env.Width-14)
		if v.deps.Reviewer.Pending(reqs[i].ID) {
			line += " " + t.Muted.Render("…")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func (v *Requests) Hints() []components.KeyHint {
	return hints(Keys.Up, Keys.Down, Keys.Accept, Keys.Reject, Keys.Refresh)
}

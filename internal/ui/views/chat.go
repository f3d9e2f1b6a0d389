// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/devtinder/devtinder-tui/internal/chat"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
	"github.com/devtinder/devtinder-tui/internal/util"
)

const (
	chatHeaderHeight = 2
	chatInputHeight  = 3
)

// chatUpdateMsg signals that the controller's state changed.
type chatUpdateMsg struct {
	view uint64
}

// Chat is the conversation with one connection.
type Chat struct {
	base
	peerID string
	ctrl   *chat.Controller

	viewport viewport.Model
	input    textinput.Model
	// follow keeps the viewport pinned to the newest message.
	follow bool
}

// NewChat creates the chat view for peerID.
func NewChat(env *Env, deps *Deps, peerID string) *Chat {
	in := textinput.New()
	in.Placeholder = "Type a message…"
	in.Prompt = "> "
	in.CharLimit = 2000
	in.Focus()

	v := &Chat{
		base:     newBase(env, deps),
		peerID:   peerID,
		viewport: viewport.New(env.Width, chatViewportHeight(env)),
		input:    in,
		follow:   true,
	}
	if deps.NewChat != nil {
		v.ctrl = deps.NewChat()
	}
	return v
}

func chatViewportHeight(env *Env) int {
	h := env.Height - chatHeaderHeight - chatInputHeight
	if h < 1 {
		h = 1
	}
	return h
}

func (v *Chat) Init() tea.Cmd {
	user := v.deps.Store.User()
	if v.ctrl == nil || user == nil || v.peerID == "" {
		return nil
	}
	self, ctrl, peer := *user, v.ctrl, v.peerID
	return tea.Batch(
		textinput.Blink,
		v.listen(),
		v.do("open", func(ctx context.Context) (interface{}, error) {
			return nil, ctrl.Open(ctx, self, peer)
		}),
	)
}

// listen waits for the next controller change. It returns nil once the
// view is closed so the command does not outlive it.
func (v *Chat) listen() tea.Cmd {
	updates, ctx, id := v.ctrl.Updates(), v.ctx, v.id
	return func() tea.Msg {
		select {
		case <-updates:
			return chatUpdateMsg{view: id}
		case <-ctx.Done():
			return nil
		}
	}
}

func (v *Chat) CapturesInput() bool { return true }

func (v *Chat) Close() {
	if v.ctrl != nil {
		v.ctrl.Close()
	}
	v.base.Close()
}

func (v *Chat) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok {
		switch r.op {
		case "open":
			if r.err != nil {
				return v, v.deps.failure(r.err)
			}
		case "send":
			switch {
			case r.err == nil, errors.Is(r.err, chat.ErrEmptyMessage):
			case errors.Is(r.err, chat.ErrOffline):
				return v, components.ShowToast(components.ToastKindError, "Chat is offline; message not sent.")
			default:
				return v, v.deps.failure(r.err)
			}
		}
		return v, nil
	}

	switch msg := msg.(type) {
	case chatUpdateMsg:
		if msg.view != v.id {
			return v, nil
		}
		v.refresh()
		return v, v.listen()

	case tea.WindowSizeMsg:
		v.viewport.Width = v.env.Width
		v.viewport.Height = chatViewportHeight(v.env)
		v.refresh()
		return v, nil

	case tea.MouseMsg:
		var cmd tea.Cmd
		v.viewport, cmd = v.viewport.Update(msg)
		v.follow = v.viewport.AtBottom()
		return v, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, Keys.Back):
			return v, Navigate("/connections")
		case key.Matches(msg, Keys.PageUp), key.Matches(msg, Keys.PageDown):
			var cmd tea.Cmd
			v.viewport, cmd = v.viewport.Update(msg)
			v.follow = v.viewport.AtBottom()
			return v, cmd
		case key.Matches(msg, Keys.Submit):
			return v, v.send()
		}
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// send emits the input and clears it. The message shows up when the
// server echoes it back.
func (v *Chat) send() tea.Cmd {
	text := v.input.Value()
	if strings.TrimSpace(text) == "" || v.ctrl == nil {
		return nil
	}
	v.input.Reset()
	v.follow = true
	ctrl := v.ctrl
	return v.do("send", func(context.Context) (interface{}, error) {
		return nil, ctrl.Send(text)
	})
}

// refresh re-renders the transcript into the viewport.
func (v *Chat) refresh() {
	if v.ctrl == nil {
		return
	}
	v.viewport.SetContent(v.renderMessages(v.ctrl.Messages()))
	if v.follow {
		v.viewport.GotoBottom()
	}
}

func (v *Chat) selfID() string {
	if u := v.deps.Store.User(); u != nil {
		return u.ID
	}
	return ""
}

func (v *Chat) renderMessages(msgs []model.ChatMessage) string {
	t := v.styles()
	width := v.env.Width
	bubble := width * 3 / 4
	if bubble < 20 {
		bubble = 20
	}
	self := v.selfID()
	now := v.deps.now()

	blocks := make([]string, 0, len(msgs))
	for _, m := range msgs {
		text := components.RenderMessageText(t, wordwrap.String(m.Text, bubble-4), bubble-4)
		meta := t.ChatSender.Render(m.DisplayName())
		if !m.CreatedAt.IsZero() {
			meta += " " + t.ChatTime.Render(util.Ago(m.CreatedAt, now))
		}
		if m.IsFrom(self) {
			block := lipgloss.JoinVertical(lipgloss.Right, meta, t.BubbleSelf.Render(text))
			blocks = append(blocks, lipgloss.PlaceHorizontal(width, lipgloss.Right, block))
		} else {
			blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left, meta, t.BubblePeer.Render(text)))
		}
	}
	return strings.Join(blocks, "\n")
}

func (v *Chat) peerName() string {
	if v.ctrl != nil {
		if p := v.ctrl.Status().Peer; p.ID != "" {
			return p.FullName()
		}
	}
	for _, c := range v.deps.Store.Connections() {
		if c.ID == v.peerID {
			return c.FullName()
		}
	}
	return "Chat"
}

func (v *Chat) View() string {
	t := v.styles()
	if v.ctrl == nil || v.deps.Store.User() == nil {
		return centered(v.env, t.Empty.Render("Chat is unavailable."))
	}

	st := v.ctrl.Status()
	header := t.ChatHeader.Render(util.Truncate(v.peerName(), v.env.Width-16))
	switch {
	case st.TransportErr != nil || (st.PeerID != "" && !st.Connected && st.HistoryLoaded):
		header += " " + t.ChatOffline.Render("offline")
	case !st.HistoryLoaded:
		header += " " + t.Muted.Render("loading…")
	}

	body := v.viewport.View()
	if st.HistoryLoaded && len(v.ctrl.Messages()) == 0 {
		body = lipgloss.Place(v.env.Width, v.viewport.Height, lipgloss.Center, lipgloss.Center,
			t.Empty.Render("No messages yet. Say hi!"))
	}

	input := t.ChatInput.Width(max(v.env.Width-2, 10)).Render(v.input.View())
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, input)
}

func (v *Chat) Hints() []components.KeyHint {
	return hints(Keys.Submit, Keys.PageUp, Keys.PageDown, Keys.Back)
}

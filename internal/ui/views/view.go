// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/chat"
	"github.com/devtinder/devtinder-tui/internal/feed"
	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/premium"
	"github.com/devtinder/devtinder-tui/internal/requests"
	"github.com/devtinder/devtinder-tui/internal/router"
	"github.com/devtinder/devtinder-tui/internal/session"
	"github.com/devtinder/devtinder-tui/internal/store"
	"github.com/devtinder/devtinder-tui/internal/theme"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
	"github.com/devtinder/devtinder-tui/internal/ui/gesture"
	"github.com/devtinder/devtinder-tui/internal/ui/styles"
)

// =============================================================================
// VIEW CONTRACT
// =============================================================================

// View is a routed screen.
type View interface {
	Init() tea.Cmd
	Update(msg tea.Msg) (View, tea.Cmd)
	View() string
	// Hints are the footer shortcuts.
	Hints() []components.KeyHint
	// CapturesInput is true while a text field has focus, so the app
	// leaves single-letter keys alone.
	CapturesInput() bool
	Close()
}

// Env is what a view renders with. The app owns it and updates it in
// place on resize and theme change.
type Env struct {
	Styles *styles.Theme
	// Width and Height are the content area, without nav and footer.
	Width  int
	Height int
}

// Deps are the services views use.
type Deps struct {
	Client   *api.Client
	Store    *store.Store
	Deck     *feed.Deck
	Reviewer *requests.Reviewer
	Premium  *premium.Service
	Theme    *theme.Preference
	// Session may be nil; logins then last only for the process.
	Session *session.Manager
	NewChat func() *chat.Controller
	Swipe   gesture.Thresholds
	Log     logrus.FieldLogger
	Now     func() time.Time
}

func (d *Deps) log() logrus.FieldLogger { return logging.OrDiscard(d.Log) }

func (d *Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

// failure turns an error into what the user sees. A lost session goes to
// the app; cancellations are silent.
func (d *Deps) failure(err error) tea.Cmd {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return func() tea.Msg { return UnauthorizedMsg{} }
	case errors.Is(err, api.ErrCanceled), errors.Is(err, context.Canceled):
		return nil
	}
	return components.ShowToast(components.ToastKindError, api.UserMessage(err))
}

// quiet is failure for reads whose errors only show as an empty state.
func (d *Deps) quiet(err error, what string) tea.Cmd {
	if errors.Is(err, api.ErrUnauthorized) {
		return func() tea.Msg { return UnauthorizedMsg{} }
	}
	if err != nil && !errors.Is(err, api.ErrCanceled) {
		d.log().WithError(err).WithField("load", what).Warn("Load failed")
	}
	return nil
}

// New builds the view for a resolved route.
func New(m router.Match, env *Env, deps *Deps) View {
	switch m.Route.Name {
	case router.Login:
		return NewLogin(env, deps)
	case router.Signup:
		return NewSignup(env, deps)
	case router.Feed:
		return NewFeed(env, deps)
	case router.Profile:
		return NewProfile(env, deps)
	case router.Password:
		return NewPassword(env, deps)
	case router.Connections:
		return NewConnections(env, deps)
	case router.Requests:
		return NewRequests(env, deps)
	case router.Chat:
		return NewChat(env, deps, m.Param("targetUserId"))
	case router.Premium:
		return NewPremium(env, deps)
	case router.Theme:
		return NewTheme(env, deps)
	}
	return NewLanding(env, deps)
}

// =============================================================================
// SHARED PLUMBING
// =============================================================================

var viewSeq atomic.Uint64

// base is embedded by every view.
type base struct {
	id     uint64
	env    *Env
	deps   *Deps
	ctx    context.Context
	cancel context.CancelFunc
}

func newBase(env *Env, deps *Deps) base {
	ctx, cancel := context.WithCancel(context.Background())
	return base{id: viewSeq.Add(1), env: env, deps: deps, ctx: ctx, cancel: cancel}
}

// Close cancels everything the view started.
func (b *base) Close() { b.cancel() }

// CapturesInput defaults to false.
func (b *base) CapturesInput() bool { return false }

// resultMsg carries the outcome of an async operation back to its view.
type resultMsg struct {
	view  uint64
	op    string
	value interface{}
	err   error
}

// do runs fn as a command under the view's context.
func (b *base) do(op string, fn func(ctx context.Context) (interface{}, error)) tea.Cmd {
	id, ctx := b.id, b.ctx
	return func() tea.Msg {
		v, err := fn(ctx)
		return resultMsg{view: id, op: op, value: v, err: err}
	}
}

// result returns msg when it is one of this view's results.
func (b *base) result(msg tea.Msg) (resultMsg, bool) {
	r, ok := msg.(resultMsg)
	if !ok || r.view != b.id {
		return resultMsg{}, false
	}
	return r, true
}

func (b *base) styles() *styles.Theme { return b.env.Styles }

func isUnauthorized(err error) bool {
	return errors.Is(err, api.ErrUnauthorized)
}

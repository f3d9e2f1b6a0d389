// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/config"
	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/router"
	"github.com/devtinder/devtinder-tui/internal/session"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
	"github.com/devtinder/devtinder-tui/internal/ui/gesture"
	"github.com/devtinder/devtinder-tui/internal/ui/styles"
	"github.com/devtinder/devtinder-tui/internal/ui/views"
)

// =============================================================================
// KEYS
// =============================================================================

var (
	keyQuit      = key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("C-c", "quit"))
	keyQuitShort = key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit"))
	keyLogout    = views.Keys.Logout
)

// =============================================================================
// MESSAGES
// =============================================================================

// bootMsg carries the startup profile check.
type bootMsg struct {
	user *model.User
	err  error
}

// configMsg carries a reloaded [ui] section.
type configMsg struct {
	ui  config.UIConfig
	err error
}

// =============================================================================
// MODEL
// =============================================================================

// Options configures the root model.
type Options struct {
	Deps *views.Deps
	// StartPath is the route opened after startup (default "/feed").
	StartPath string
	// Theme is applied before the first frame.
	Theme model.ThemeName
	// ConfigPath, when set, is watched and its [ui] section hot-reloaded.
	ConfigPath string
	Logger     logrus.FieldLogger
}

// Model is the root model.
type Model struct {
	deps   *views.Deps
	router *router.Router
	env    *views.Env
	toasts *components.ToastManager
	log    logrus.FieldLogger

	match router.Match
	view  views.View

	width  int
	height int

	booting bool
	start   string
	spinner spinner.Model

	ctx        context.Context
	cancel     context.CancelFunc
	configPath string
	configCh   chan configMsg
}

// New creates the root model.
func New(opts Options) *Model {
	t := opts.Theme
	if !t.Valid() {
		t = model.DefaultTheme
	}
	start := opts.StartPath
	if start == "" {
		start = router.PathFeed
	}
	theme := styles.ForTheme(t)
	ctx, cancel := context.WithCancel(context.Background())
	return &Model{
		deps:       opts.Deps,
		router:     router.New(),
		env:        &views.Env{Styles: theme},
		toasts:     components.NewToastManager(),
		log:        logging.OrDiscard(opts.Logger),
		booting:    true,
		start:      start,
		spinner:    theme.NewSpinner(),
		ctx:        ctx,
		cancel:     cancel,
		configPath: opts.ConfigPath,
	}
}

// Init starts the profile check and the background tickers.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.spinner.Tick, m.boot(), components.ToastTickCmd()}
	if m.deps.Session != nil {
		cmds = append(cmds, session.TickCmd())
	}
	if m.configPath != "" {
		cmds = append(cmds, m.watchConfig())
	}
	return tea.Batch(cmds...)
}

func (m *Model) boot() tea.Cmd {
	client, ctx := m.deps.Client, m.ctx
	return func() tea.Msg {
		u, err := client.Profile(ctx)
		return bootMsg{user: u, err: err}
	}
}

// Close releases the current view and stops background work.
func (m *Model) Close() {
	if m.view != nil {
		m.view.Close()
	}
	m.cancel()
}

// Path returns the current route's path.
func (m *Model) Path() string { return m.match.Path }

// Update handles messages.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, m.resize()

	case bootMsg:
		return m, m.finishBoot(msg)

	case spinner.TickMsg:
		if m.booting {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}

	case tea.KeyMsg:
		if cmd, handled := m.handleKey(msg); handled {
			return m, cmd
		}

	case views.NavigateMsg:
		return m, m.navigate(msg.Path)

	case views.LoggedInMsg:
		m.log.WithField("user", msg.User.ID).Info("Logged in")
		next := msg.Next
		if next == "" {
			next = m.match.RedirectedFrom
		}
		if next == "" {
			next = router.PathFeed
		}
		return m, m.navigate(next)

	case views.LoggedOutMsg:
		m.log.Info("Logged out")
		return m, tea.Batch(m.navigate(router.PathLanding), m.toast(components.ToastKindInfo, "Logged out."))

	case views.UnauthorizedMsg, session.ExpiredMsg:
		return m, m.sessionLost()

	case session.WarningMsg:
		return m, m.toast(components.ToastKindInfo,
			fmt.Sprintf("Your session expires in %d min.", int(msg.Remaining.Minutes()+0.5)))

	case session.TickMsg:
		return m, tea.Batch(m.deps.Session.HandleTick(), session.TickCmd())

	case views.ThemeChangedMsg:
		m.applyTheme(msg.Theme)
		return m, m.toast(components.ToastKindSuccess, "Theme set to "+string(msg.Theme)+".")

	case components.ToastMsg:
		m.toasts.Add(msg.Kind, msg.Message)
		return m, nil

	case components.ToastTickMsg:
		m.toasts.Tick()
		return m, components.ToastTickCmd()

	case configMsg:
		return m, tea.Batch(m.applyConfig(msg), m.waitConfig())
	}

	if m.view == nil {
		return m, nil
	}
	next, cmd := m.view.Update(msg)
	m.view = next
	return m, cmd
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Cmd, bool) {
	if key.Matches(msg, keyQuit) {
		m.Close()
		return tea.Quit, true
	}
	if m.booting {
		return nil, true
	}
	if m.view != nil && m.view.CapturesInput() {
		return nil, false
	}
	loggedIn := m.deps.Store.User() != nil
	switch {
	case key.Matches(msg, keyQuitShort):
		m.Close()
		return tea.Quit, true
	case key.Matches(msg, keyLogout) && loggedIn:
		return views.Logout(m.deps), true
	}
	if item, ok := components.NavItemForKey(msg.String()); ok && m.match.Route.Class.ShowsNav() {
		return m.navigate(item.Path), true
	}
	return nil, false
}

func (m *Model) finishBoot(msg bootMsg) tea.Cmd {
	m.booting = false
	var cmds []tea.Cmd
	switch {
	case msg.err == nil && msg.user != nil:
		m.deps.Store.SetUser(*msg.user)
		m.log.WithField("user", msg.user.ID).Debug("Session valid")
	case errors.Is(msg.err, api.ErrUnauthorized):
		m.forget()
		// A stale session on an auth route lands on the front page.
		if target := m.router.Resolve(m.start); target.Route.Auth {
			m.start = router.PathLanding
		}
	default:
		m.log.WithError(msg.err).Warn("Startup profile check failed")
		cmds = append(cmds, m.toast(components.ToastKindError, api.UserMessage(msg.err)))
	}
	cmds = append(cmds, m.navigate(m.start))
	return tea.Batch(cmds...)
}

// navigate switches to path, applying the auth redirects. Navigating to
// the current path is a no-op.
func (m *Model) navigate(path string) tea.Cmd {
	match := m.router.Navigate(path, m.deps.Store.User() != nil)
	if m.view != nil && match.Path == m.match.Path {
		return nil
	}
	if m.view != nil {
		m.view.Close()
	}
	m.log.WithFields(logrus.Fields{"path": match.Path, "from": match.RedirectedFrom}).Debug("Navigate")
	m.match = match
	m.layout()
	m.view = views.New(match, m.env, m.deps)
	return m.view.Init()
}

func (m *Model) sessionLost() tea.Cmd {
	wasLoggedIn := m.deps.Store.User() != nil
	m.forget()
	// Navigate resolves against the cleared store, so force the move.
	if m.view != nil {
		m.view.Close()
		m.view = nil
	}
	cmd := m.navigate(m.router.Unauthorized().Path)
	if !wasLoggedIn {
		return cmd
	}
	return tea.Batch(cmd, m.toast(components.ToastKindError, "Your session has expired. Please log in again."))
}

// forget drops the session locally.
func (m *Model) forget() {
	m.deps.Store.Reset()
	if m.deps.Session != nil {
		if err := m.deps.Session.Forget(m.ctx); err != nil {
			m.log.WithError(err).Warn("Could not clear saved session")
		}
	} else {
		m.deps.Client.ClearCookies()
	}
}

func (m *Model) toast(kind components.ToastKind, text string) tea.Cmd {
	return components.ShowToast(kind, text)
}

func (m *Model) applyTheme(t model.ThemeName) {
	m.env.Styles = styles.ForTheme(t)
	m.spinner.Style = m.env.Styles.Spinner
	m.log.WithField("theme", string(t)).Debug("Theme applied")
}

// =============================================================================
// LAYOUT
// =============================================================================

// layout computes the content area for the current route and returns the
// size message views receive.
func (m *Model) layout() tea.WindowSizeMsg {
	h := m.height
	if m.match.Route.Class.ShowsNav() {
		h -= lipgloss.Height(m.renderNav())
	}
	if m.match.Route.Class.ShowsFooter() {
		h--
	}
	if h < 1 {
		h = 1
	}
	m.env.Width, m.env.Height = m.width, h
	return tea.WindowSizeMsg{Width: m.width, Height: h}
}

func (m *Model) resize() tea.Cmd {
	size := m.layout()
	if m.view == nil {
		return nil
	}
	next, cmd := m.view.Update(size)
	m.view = next
	return cmd
}

func (m *Model) renderNav() string {
	return components.RenderNav(m.env.Styles, m.match.Path, m.deps.Store.User(), m.width)
}

func (m *Model) hints() []components.KeyHint {
	var out []components.KeyHint
	if m.view != nil {
		out = append(out, m.view.Hints()...)
	}
	if m.view == nil || !m.view.CapturesInput() {
		if m.match.Route.Class.ShowsNav() {
			out = append(out, components.KeyHint{Key: "1-6", Desc: "go to"})
		}
		if m.deps.Store.User() != nil {
			h := keyLogout.Help()
			out = append(out, components.KeyHint{Key: h.Key, Desc: h.Desc})
		}
	}
	h := keyQuit.Help()
	return append(out, components.KeyHint{Key: h.Key, Desc: h.Desc})
}

// View renders the screen.
func (m *Model) View() string {
	t := m.env.Styles
	if m.booting || m.view == nil {
		body := m.spinner.View() + " " + t.Muted.Render("Connecting to DevTinder…")
		if m.width > 0 && m.height > 0 {
			return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
		}
		return body
	}

	var parts []string
	class := m.match.Route.Class
	if class.ShowsNav() {
		parts = append(parts, m.renderNav())
	}
	content := m.view.View()
	if m.env.Height > 0 {
		content = lipgloss.NewStyle().Height(m.env.Height).MaxHeight(m.env.Height).Render(content)
	}
	content = overlayToasts(content, components.RenderToastStack(t, m.toasts.Toasts(), 0, 0), m.width)
	parts = append(parts, content)
	if class.ShowsFooter() {
		parts = append(parts, components.RenderFooter(t, m.hints(), m.width))
	}
	return strings.Join(parts, "\n")
}

// =============================================================================
// CONFIG RELOAD
// =============================================================================

func (m *Model) watchConfig() tea.Cmd {
	m.configCh = make(chan configMsg, 1)
	ch, ctx, path, log := m.configCh, m.ctx, m.configPath, m.log
	go func() {
		err := config.Watch(ctx, path, func(cfg *config.Config, err error) {
			msg := configMsg{err: err}
			if cfg != nil {
				msg.ui = cfg.UI
			}
			select {
			case ch <- msg:
			case <-ctx.Done():
			}
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Warn("Config watch stopped")
		}
	}()
	return m.waitConfig()
}

func (m *Model) waitConfig() tea.Cmd {
	if m.configCh == nil {
		return nil
	}
	ch, ctx := m.configCh, m.ctx
	return func() tea.Msg {
		select {
		case msg := <-ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}

// applyConfig takes the hot-reloadable [ui] settings.
func (m *Model) applyConfig(msg configMsg) tea.Cmd {
	if msg.err != nil {
		m.log.WithError(msg.err).Warn("Config reload failed")
		return m.toast(components.ToastKindError, "Config reload failed; keeping current settings.")
	}
	ui := msg.ui
	if ui.SwipeDistance > 0 || ui.SwipeVelocity > 0 {
		m.deps.Swipe = gesture.Thresholds{Distance: ui.SwipeDistance, Velocity: ui.SwipeVelocity}
	}
	m.log.WithFields(logrus.Fields{
		"swipe_distance": ui.SwipeDistance,
		"swipe_velocity": ui.SwipeVelocity,
	}).Info("UI config reloaded")
	return m.toast(components.ToastKindInfo, "Settings reloaded.")
}

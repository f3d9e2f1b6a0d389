// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/logging"
)

// Client is the part of the REST client the manager drives.
type Client interface {
	BaseURL() string
	Cookies() []*http.Cookie
	SetCookies([]*http.Cookie)
	ClearCookies()
	Session() (*api.SessionInfo, bool)
}

// CookieStore persists cookies between runs.
type CookieStore interface {
	Save(ctx context.Context, baseURL string, cookies []*http.Cookie) error
	Load(ctx context.Context, baseURL string, now time.Time) ([]*http.Cookie, error)
	Clear(ctx context.Context) error
}

// DefaultWarningBefore is how long before expiry WarningMsg fires.
const DefaultWarningBefore = 2 * time.Minute

// =============================================================================
// SESSION MANAGER
// =============================================================================

// Manager ties the client's cookie jar to the cookie store.
type Manager struct {
	client Client
	store  CookieStore
	log    logrus.FieldLogger
	now    func() time.Time

	mu            sync.Mutex
	warningBefore time.Duration
	warned        bool
}

// NewManager creates a manager. store may be nil, in which case sessions
// live only as long as the process.
func NewManager(client Client, store CookieStore, log logrus.FieldLogger) *Manager {
	return &Manager{
		client:        client,
		store:         store,
		log:           logging.OrDiscard(log),
		now:           time.Now,
		warningBefore: DefaultWarningBefore,
	}
}

// SetWarningBefore changes when WarningMsg fires.
func (m *Manager) SetWarningBefore(d time.Duration) {
	m.mu.Lock()
	m.warningBefore = d
	m.mu.Unlock()
}

// Restore loads saved cookies into the client. It reports whether a
// session cookie that has not expired was restored.
func (m *Manager) Restore(ctx context.Context) (bool, error) {
	if m.store == nil {
		return false, nil
	}
	cookies, err := m.store.Load(ctx, m.client.BaseURL(), m.now())
	if err != nil {
		return false, err
	}
	if len(cookies) == 0 {
		return false, nil
	}
	m.client.SetCookies(cookies)

	info, ok := m.client.Session()
	if !ok || info.Expired(m.now()) {
		m.log.Debug("Saved session is unusable")
		m.client.ClearCookies()
		return false, nil
	}
	m.log.WithField("user", info.UserID).Debug("Session restored")
	return true, nil
}

// Persist saves the client's cookies. The session cookie carries the
// token's expiry so it is not restored once stale.
func (m *Manager) Persist(ctx context.Context) error {
	m.mu.Lock()
	m.warned = false
	m.mu.Unlock()
	if m.store == nil {
		return nil
	}
	cookies := m.client.Cookies()
	if info, ok := m.client.Session(); ok && !info.ExpiresAt.IsZero() {
		for i, ck := range cookies {
			if ck.Name == api.SessionCookieName {
				c := *ck
				c.Expires = info.ExpiresAt
				cookies[i] = &c
			}
		}
	}
	return m.store.Save(ctx, m.client.BaseURL(), cookies)
}

// Forget drops the session locally and from disk.
func (m *Manager) Forget(ctx context.Context) error {
	m.client.ClearCookies()
	if m.store == nil {
		return nil
	}
	return m.store.Clear(ctx)
}

// Info returns what the session token says.
func (m *Manager) Info() (*api.SessionInfo, bool) {
	return m.client.Session()
}

// Remaining returns the time until the token expires. ok is false without
// a session or when the token has no expiry.
func (m *Manager) Remaining() (time.Duration, bool) {
	info, ok := m.client.Session()
	if !ok || info.ExpiresAt.IsZero() {
		return 0, false
	}
	return info.ExpiresAt.Sub(m.now()), true
}

// =============================================================================
// BUBBLE TEA INTEGRATION
// =============================================================================

// TickMsg is sent periodically to check session state.
type TickMsg struct {
	Time time.Time
}

// WarningMsg indicates the session is about to expire.
type WarningMsg struct {
	Remaining time.Duration
}

// ExpiredMsg indicates the session token has expired.
type ExpiredMsg struct{}

// TickCmd schedules the next check in 30s.
func TickCmd() tea.Cmd {
	return tea.Tick(30*time.Second, func(t time.Time) tea.Msg {
		return TickMsg{Time: t}
	})
}

// HandleTick checks the token. It returns nil when nothing is due.
func (m *Manager) HandleTick() tea.Cmd {
	remaining, ok := m.Remaining()
	if !ok {
		return nil
	}
	if remaining <= 0 {
		return func() tea.Msg { return ExpiredMsg{} }
	}

	m.mu.Lock()
	due := !m.warned && remaining <= m.warningBefore
	if due {
		m.warned = true
	}
	m.mu.Unlock()
	if due {
		return func() tea.Msg { return WarningMsg{Remaining: remaining} }
	}
	return nil
}

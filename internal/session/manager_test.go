// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/backendtest"
	"github.com/devtinder/devtinder-tui/internal/storage"
)

func openStore(t *testing.T, dir string) *storage.SessionStore {
	t.Helper()
	db, err := storage.Open(filepath.Join(dir, "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	s, err := storage.NewSessionStore(context.Background(), db)
	require.NoError(t, err)
	return s
}

func newClient(t *testing.T, srv *backendtest.Server) *api.Client {
	t.Helper()
	c, err := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	return c
}

func TestPersistRestoreAcrossRuns(t *testing.T) {
	srv := backendtest.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	first := newClient(t, srv)
	_, err := first.Login(ctx, srv.Credentials())
	require.NoError(t, err)
	require.NoError(t, NewManager(first, openStore(t, dir), nil).Persist(ctx))

	second := newClient(t, srv)
	mgr := NewManager(second, openStore(t, dir), nil)
	ok, err := mgr.Restore(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	u, err := second.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.Self.ID, u.ID)

	info, ok := mgr.Info()
	require.True(t, ok)
	assert.Equal(t, srv.Self.ID, info.UserID)
}

func TestRestoreWithoutSavedSession(t *testing.T) {
	srv := backendtest.New(t)
	mgr := NewManager(newClient(t, srv), openStore(t, t.TempDir()), nil)
	ok, err := mgr.Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = NewManager(newClient(t, srv), nil, nil).Restore(context.Background())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestForget(t *testing.T) {
	srv := backendtest.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	c := newClient(t, srv)
	c.SetCookies([]*http.Cookie{srv.SessionCookie()})
	mgr := NewManager(c, openStore(t, dir), nil)
	require.NoError(t, mgr.Persist(ctx))
	require.NoError(t, mgr.Forget(ctx))

	_, ok := c.Session()
	assert.False(t, ok, "client still holds a session")

	ok, err := NewManager(newClient(t, srv), openStore(t, dir), nil).Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok, "session survived Forget")
}

func TestRestoreDropsExpiredToken(t *testing.T) {
	srv := backendtest.New(t)
	dir := t.TempDir()
	ctx := context.Background()

	c := newClient(t, srv)
	c.SetCookies([]*http.Cookie{srv.SessionCookie()})
	require.NoError(t, NewManager(c, openStore(t, dir), nil).Persist(ctx))

	later := NewManager(newClient(t, srv), openStore(t, dir), nil)
	later.now = func() time.Time { return time.Now().Add(48 * time.Hour) }
	ok, err := later.Restore(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHandleTick(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv)
	mgr := NewManager(c, nil, nil)
	assert.Nil(t, mgr.HandleTick(), "no session, nothing due")

	c.SetCookies([]*http.Cookie{srv.SessionCookie()})
	assert.Nil(t, mgr.HandleTick(), "fresh token")

	info, ok := mgr.Info()
	require.True(t, ok)

	mgr.now = func() time.Time { return info.ExpiresAt.Add(-time.Minute) }
	cmd := mgr.HandleTick()
	require.NotNil(t, cmd)
	warn, isWarn := cmd().(WarningMsg)
	require.True(t, isWarn)
	assert.Equal(t, time.Minute, warn.Remaining)
	assert.Nil(t, mgr.HandleTick(), "warning fires once")

	mgr.now = func() time.Time { return info.ExpiresAt.Add(time.Second) }
	cmd = mgr.HandleTick()
	require.NotNil(t, cmd)
	_, isExpired := cmd().(ExpiredMsg)
	assert.True(t, isExpired)
}

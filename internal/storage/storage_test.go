// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "state.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_GetSetDelete(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)

	_, ok, err := db.Get(ctx, "theme")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, db.Set(ctx, "theme", "retro"))
	require.NoError(t, db.Set(ctx, "theme", "dracula"))
	v, ok, err := db.Get(ctx, "theme")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "dracula", v)

	require.NoError(t, db.Delete(ctx, "theme"))
	require.NoError(t, db.Delete(ctx, "theme"))
	_, ok, _ = db.Get(ctx, "theme")
	assert.False(t, ok)
}

func TestDB_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, db.Set(ctx, "a", "1"))
	require.NoError(t, db.Set(ctx, "b", "2"))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	keys, err := db.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestDB_Closed(t *testing.T) {
	db := openTemp(t)
	require.NoError(t, db.Close())
	require.NoError(t, db.Close())
	_, _, err := db.Get(context.Background(), "x")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestSealer_RoundTrip(t *testing.T) {
	s, err := NewSealer([]byte("0123456789abcdef0123456789abcdef"), []byte("salt"))
	require.NoError(t, err)

	sealed, err := s.Seal([]byte("token=abc"))
	require.NoError(t, err)
	assert.NotContains(t, sealed, "token")

	plain, err := s.Open(sealed)
	require.NoError(t, err)
	assert.Equal(t, "token=abc", string(plain))

	again, _ := s.Seal([]byte("token=abc"))
	assert.NotEqual(t, sealed, again, "nonce must differ per seal")
}

func TestSealer_WrongKeyOrTamper(t *testing.T) {
	a, _ := NewSealer([]byte("secret-a"), []byte("salt"))
	b, _ := NewSealer([]byte("secret-b"), []byte("salt"))

	sealed, err := a.Seal([]byte("hello"))
	require.NoError(t, err)

	_, err = b.Open(sealed)
	assert.ErrorIs(t, err, ErrUnseal)

	_, err = a.Open("not base64!")
	assert.ErrorIs(t, err, ErrUnseal)

	_, err = a.Open(strings.Repeat("A", 8))
	assert.ErrorIs(t, err, ErrUnseal)
}

func TestLoadOrCreateSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.key")
	first, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Len(t, first, secretSize)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	second, err := LoadOrCreateSecret(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestSessionStore_RoundTrip(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	sessions, err := NewSessionStore(ctx, db)
	require.NoError(t, err)

	now := time.Now()
	cookies := []*http.Cookie{
		{Name: "token", Value: "jwt", Path: "/", HttpOnly: true, Expires: now.Add(time.Hour)},
		{Name: "stale", Value: "x", Expires: now.Add(-time.Hour)},
	}
	require.NoError(t, sessions.Save(ctx, "http://localhost:7777", cookies))

	raw, ok, _ := db.Get(ctx, KeySessionCookies)
	require.True(t, ok)
	assert.NotContains(t, raw, "jwt")

	got, err := sessions.Load(ctx, "http://localhost:7777", now)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "token", got[0].Name)
	assert.Equal(t, "jwt", got[0].Value)
	assert.True(t, got[0].HttpOnly)

	other, err := sessions.Load(ctx, "https://prod.example", now)
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, sessions.Clear(ctx))
	got, err = sessions.Load(ctx, "http://localhost:7777", now)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSessionStore_CorruptValueIsDropped(t *testing.T) {
	ctx := context.Background()
	db := openTemp(t)
	sessions, err := NewSessionStore(ctx, db)
	require.NoError(t, err)

	require.NoError(t, db.Set(ctx, KeySessionCookies, "garbage"))
	got, err := sessions.Load(ctx, "http://localhost:7777", time.Now())
	require.NoError(t, err)
	assert.Empty(t, got)

	_, ok, _ := db.Get(ctx, KeySessionCookies)
	assert.False(t, ok)
}

func TestSessionStore_SurvivesRestart(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	db, err := Open(path)
	require.NoError(t, err)
	s1, err := NewSessionStore(ctx, db)
	require.NoError(t, err)
	require.NoError(t, s1.Save(ctx, "http://api", []*http.Cookie{{Name: "token", Value: "v"}}))
	require.NoError(t, db.Close())

	db, err = Open(path)
	require.NoError(t, err)
	defer db.Close()
	s2, err := NewSessionStore(ctx, db)
	require.NoError(t, err)
	got, err := s2.Load(ctx, "http://api", time.Now())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "v", got[0].Value)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/backendtest"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/realtime"
)

const waitFor = 2 * time.Second

func authedJar(t *testing.T, srv *backendtest.Server) http.CookieJar {
	t.Helper()
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	u, err := url.Parse(srv.URL)
	require.NoError(t, err)
	jar.SetCookies(u, []*http.Cookie{srv.SessionCookie()})
	return jar
}

func dial(t *testing.T, srv *backendtest.Server) *realtime.Session {
	t.Helper()
	sess, err := realtime.Dial(context.Background(), srv.URL, realtime.Options{Jar: authedJar(t, srv)})
	require.NoError(t, err)
	t.Cleanup(func() { sess.Close() })
	return sess
}

// collector gathers delivered messages.
type collector struct {
	mu   sync.Mutex
	msgs []model.ChatMessage
}

func (c *collector) handle(m model.ChatMessage) {
	c.mu.Lock()
	c.msgs = append(c.msgs, m)
	c.mu.Unlock()
}

func (c *collector) snapshot() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatMessage(nil), c.msgs...)
}

func TestSocketURL(t *testing.T) {
	got, err := realtime.SocketURL("http://localhost:7777/", "")
	require.NoError(t, err)
	assert.Equal(t, "ws://localhost:7777/socket.io/?EIO=4&transport=websocket", got)

	got, err = realtime.SocketURL("https://api.devtinder.dev/v1", "")
	require.NoError(t, err)
	assert.Equal(t, "wss://api.devtinder.dev/v1/socket.io/?EIO=4&transport=websocket", got)

	_, err = realtime.SocketURL("ftp://x", "")
	assert.Error(t, err)
}

func TestDial_Handshake(t *testing.T) {
	srv := backendtest.New(t)
	sess := dial(t, srv)
	assert.NotEmpty(t, sess.SID())
	assert.Equal(t, 1, srv.ActiveSockets())
}

func TestDial_RejectedWithoutSession(t *testing.T) {
	srv := backendtest.New(t)
	_, err := realtime.Dial(context.Background(), srv.URL, realtime.Options{})
	assert.ErrorIs(t, err, realtime.ErrRejected)
}

func TestJoinSendEcho(t *testing.T) {
	srv := backendtest.New(t)
	sess := dial(t, srv)

	var got collector
	sess.OnMessage(got.handle)

	require.NoError(t, sess.Join(realtime.JoinPayload{FirstName: "Ada", UserID: "u-self", TargetUserID: "peer"}))
	require.Eventually(t, func() bool { return srv.RoomMembers("u-self", "peer") == 1 }, waitFor, 10*time.Millisecond)

	joins := srv.Joins()
	require.Len(t, joins, 1)
	assert.Equal(t, "peer", joins[0].TargetUserID)

	require.NoError(t, sess.Send(realtime.SendPayload{SenderID: "u-self", FirstName: "Ada", UserID: "u-self", TargetUserID: "peer", Text: "hello"}))
	require.Eventually(t, func() bool { return len(got.snapshot()) == 1 }, waitFor, 10*time.Millisecond)

	m := got.snapshot()[0]
	assert.Equal(t, "u-self", m.SenderID)
	assert.Equal(t, "hello", m.Text)
	assert.False(t, m.CreatedAt.IsZero())
}

func TestReceive_ArrivalOrderNoDedup(t *testing.T) {
	srv := backendtest.New(t)
	sess := dial(t, srv)
	var got collector
	sess.OnMessage(got.handle)
	require.NoError(t, sess.Join(realtime.JoinPayload{UserID: "u-self", TargetUserID: "peer"}))
	require.Eventually(t, func() bool { return srv.RoomMembers("u-self", "peer") == 1 }, waitFor, 10*time.Millisecond)

	same := model.ChatMessage{SenderID: "peer", Text: "dup", CreatedAt: time.Unix(100, 0)}
	srv.Push("u-self", "peer", model.ChatMessage{SenderID: "peer", Text: "one"})
	srv.Push("u-self", "peer", same)
	srv.Push("u-self", "peer", same)

	require.Eventually(t, func() bool { return len(got.snapshot()) == 3 }, waitFor, 10*time.Millisecond)
	msgs := got.snapshot()
	assert.Equal(t, "one", msgs[0].Text)
	assert.Equal(t, "dup", msgs[1].Text)
	assert.Equal(t, "dup", msgs[2].Text)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	srv := backendtest.New(t)
	sess := dial(t, srv)
	require.NoError(t, sess.Join(realtime.JoinPayload{UserID: "u-self", TargetUserID: "peer"}))
	require.Eventually(t, func() bool { return srv.RoomMembers("u-self", "peer") == 1 }, waitFor, 10*time.Millisecond)

	var first, second collector
	unsub := sess.OnMessage(first.handle)
	sess.OnMessage(second.handle)
	assert.Equal(t, 2, sess.Handlers())

	unsub()
	unsub()
	assert.Equal(t, 1, sess.Handlers())

	srv.Push("u-self", "peer", model.ChatMessage{SenderID: "peer", Text: "hi"})
	require.Eventually(t, func() bool { return len(second.snapshot()) == 1 }, waitFor, 10*time.Millisecond)
	assert.Empty(t, first.snapshot())
}

func TestPingPong(t *testing.T) {
	srv := backendtest.New(t)
	dial(t, srv)
	srv.PingAll()
	require.Eventually(t, func() bool { return srv.Pongs() == 1 }, waitFor, 10*time.Millisecond)
}

func TestCloseIsIdempotent(t *testing.T) {
	srv := backendtest.New(t)
	sess := dial(t, srv)
	sess.OnMessage(func(model.ChatMessage) {})

	require.NoError(t, sess.Close())
	assert.NoError(t, sess.Close())
	assert.Equal(t, 0, sess.Handlers())

	select {
	case <-sess.Done():
	case <-time.After(waitFor):
		t.Fatal("Done not closed")
	}
	assert.ErrorIs(t, sess.Send(realtime.SendPayload{Text: "late"}), realtime.ErrClosed)
	require.Eventually(t, func() bool { return srv.ActiveSockets() == 0 }, waitFor, 10*time.Millisecond)

	unsub := sess.OnMessage(func(model.ChatMessage) {})
	unsub()
}

func TestServerDropEndsSession(t *testing.T) {
	srv := backendtest.New(t)
	sess := dial(t, srv)
	srv.DropSockets()

	select {
	case <-sess.Done():
	case <-time.After(waitFor):
		t.Fatal("session did not notice the drop")
	}
	assert.ErrorIs(t, sess.Join(realtime.JoinPayload{}), realtime.ErrClosed)
}

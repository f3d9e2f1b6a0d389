// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/backendtest"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/realtime"
)

const waitFor = 2 * time.Second

var self = model.User{ID: "u-self", FirstName: "Ada", LastName: "Lovelace"}

// =============================================================================
// FAKES
// =============================================================================

// eventLog records transport lifecycle steps across transports.
type eventLog struct {
	mu     sync.Mutex
	events []string
}

func (l *eventLog) add(format string, args ...interface{}) {
	l.mu.Lock()
	l.events = append(l.events, fmt.Sprintf(format, args...))
	l.mu.Unlock()
}

func (l *eventLog) snapshot() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.events...)
}

type fakeTransport struct {
	id  int
	log *eventLog

	mu       sync.Mutex
	handlers map[int]realtime.MessageHandler
	next     int
	joins    []realtime.JoinPayload
	sent     []realtime.SendPayload
	closed   bool
	done     chan struct{}

	// closeGate, when set, holds Close until it is closed.
	closeGate chan struct{}
}

func newFakeTransport(id int, log *eventLog) *fakeTransport {
	return &fakeTransport{id: id, log: log, handlers: make(map[int]realtime.MessageHandler), done: make(chan struct{})}
}

func (f *fakeTransport) Join(p realtime.JoinPayload) error {
	f.mu.Lock()
	f.joins = append(f.joins, p)
	f.mu.Unlock()
	f.log.add("join:%d:%s", f.id, p.TargetUserID)
	return nil
}

func (f *fakeTransport) Send(p realtime.SendPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return errors.New("closed")
	}
	f.sent = append(f.sent, p)
	return nil
}

func (f *fakeTransport) OnMessage(h realtime.MessageHandler) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.handlers[id] = h
	f.mu.Unlock()
	f.log.add("sub:%d", f.id)
	return func() {
		f.mu.Lock()
		_, ok := f.handlers[id]
		delete(f.handlers, id)
		f.mu.Unlock()
		if ok {
			f.log.add("unsub:%d", f.id)
		}
	}
}

func (f *fakeTransport) Close() error {
	if f.closeGate != nil {
		<-f.closeGate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.closed {
		f.closed = true
		close(f.done)
		f.log.add("close:%d", f.id)
	}
	return nil
}

func (f *fakeTransport) Done() <-chan struct{} { return f.done }

// drop ends the session as if the server went away.
func (f *fakeTransport) drop() { f.Close() }

func (f *fakeTransport) deliver(m model.ChatMessage) {
	f.mu.Lock()
	hs := make([]realtime.MessageHandler, 0, len(f.handlers))
	for _, h := range f.handlers {
		hs = append(hs, h)
	}
	f.mu.Unlock()
	for _, h := range hs {
		h(m)
	}
}

func (f *fakeTransport) handlerCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.handlers)
}

func (f *fakeTransport) sentPayloads() []realtime.SendPayload {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]realtime.SendPayload(nil), f.sent...)
}

// fakeDialer hands out numbered fake transports.
type fakeDialer struct {
	log *eventLog

	mu         sync.Mutex
	transports []*fakeTransport
	err        error
}

func (d *fakeDialer) dial(context.Context) (Transport, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return nil, d.err
	}
	t := newFakeTransport(len(d.transports)+1, d.log)
	d.transports = append(d.transports, t)
	return t, nil
}

func (d *fakeDialer) get(i int) *fakeTransport {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.transports[i]
}

func (d *fakeDialer) count() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.transports)
}

// fakeHistory serves canned histories; peers with a gate block until it
// is closed or the request context ends.
type fakeHistory struct {
	mu        sync.Mutex
	histories map[string]*model.ChatHistory
	gates     map[string]chan struct{}
	err       error
	cancelled []string
}

func newFakeHistory() *fakeHistory {
	return &fakeHistory{histories: make(map[string]*model.ChatHistory), gates: make(map[string]chan struct{})}
}

func (h *fakeHistory) gate(peer string) chan struct{} {
	g := make(chan struct{})
	h.mu.Lock()
	h.gates[peer] = g
	h.mu.Unlock()
	return g
}

func (h *fakeHistory) ChatHistory(ctx context.Context, peer string) (*model.ChatHistory, error) {
	h.mu.Lock()
	g := h.gates[peer]
	hist := h.histories[peer]
	err := h.err
	h.mu.Unlock()

	if g != nil {
		select {
		case <-g:
		case <-ctx.Done():
			h.mu.Lock()
			h.cancelled = append(h.cancelled, peer)
			h.mu.Unlock()
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if hist == nil {
		return &model.ChatHistory{Messages: []model.ChatMessage{}}, nil
	}
	return hist, nil
}

func (h *fakeHistory) cancelledPeers() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.cancelled...)
}

func newController(t *testing.T, opts Options) (*Controller, *fakeDialer, *fakeHistory, *eventLog) {
	t.Helper()
	log := &eventLog{}
	d := &fakeDialer{log: log}
	h := newFakeHistory()
	if opts.Dial == nil {
		opts.Dial = d.dial
	}
	if opts.History == nil {
		opts.History = h
	}
	c := New(opts)
	t.Cleanup(c.Close)
	return c, d, h, log
}

func msg(sender, text string, at time.Time) model.ChatMessage {
	return model.ChatMessage{SenderID: sender, Text: text, CreatedAt: at}
}

func waitLoaded(t *testing.T, c *Controller) {
	t.Helper()
	require.Eventually(t, func() bool { return c.Status().HistoryLoaded }, waitFor, 5*time.Millisecond)
}

// =============================================================================
// TESTS
// =============================================================================

func TestEmptyHistoryThenOneRealtimeMessage(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)

	d.get(0).deliver(msg("u-peer", "hey", time.Now()))

	got := c.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, "hey", got[0].Text)
}

func TestOpenJoinsRoom(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))

	tr := d.get(0)
	tr.mu.Lock()
	joins := append([]realtime.JoinPayload(nil), tr.joins...)
	tr.mu.Unlock()
	require.Len(t, joins, 1)
	assert.Equal(t, realtime.JoinPayload{FirstName: "Ada", LastName: "Lovelace", UserID: "u-self", TargetUserID: "u-peer"}, joins[0])
	assert.True(t, c.Status().Connected)
}

func TestRealtimeBeforeHistoryIsKept(t *testing.T) {
	c, d, h, _ := newController(t, Options{})
	t0 := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	old := msg("u-peer", "from history", t0)
	h.histories["u-peer"] = &model.ChatHistory{Messages: []model.ChatMessage{old}}
	gate := h.gate("u-peer")

	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	d.get(0).deliver(old)
	d.get(0).deliver(msg("u-peer", "live", t0.Add(time.Minute)))
	assert.Empty(t, c.Messages(), "held until history arrives")

	close(gate)
	waitLoaded(t, c)

	got := c.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, "from history", got[0].Text)
	assert.Equal(t, "live", got[1].Text)
}

func TestRealtimeAfterHistoryIsNotDeduped(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)

	m := msg("u-peer", "same", time.Unix(100, 0))
	d.get(0).deliver(m)
	d.get(0).deliver(m)
	assert.Len(t, c.Messages(), 2)
}

func TestSwitchPeerUnsubscribesBeforeResubscribing(t *testing.T) {
	c, d, _, log := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-a"))
	require.NoError(t, c.Open(context.Background(), self, "u-b"))

	require.Equal(t, 2, d.count())
	assert.Equal(t, 0, d.get(0).handlerCount())
	assert.Equal(t, 1, d.get(1).handlerCount())

	events := log.snapshot()
	index := func(e string) int {
		for i, got := range events {
			if got == e {
				return i
			}
		}
		t.Fatalf("event %q missing from %v", e, events)
		return -1
	}
	assert.Less(t, index("unsub:1"), index("sub:2"))
	assert.Less(t, index("close:1"), index("sub:2"))
	assert.Equal(t, "u-b", c.PeerID())
}

func TestOldPeerMessagesDropped(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-a"))
	var stale realtime.MessageHandler
	first := d.get(0)
	first.mu.Lock()
	for _, h := range first.handlers {
		stale = h
	}
	first.mu.Unlock()
	require.NotNil(t, stale)

	require.NoError(t, c.Open(context.Background(), self, "u-b"))
	waitLoaded(t, c)

	stale(msg("u-a", "late", time.Now()))
	assert.Empty(t, c.Messages())
}

func TestOpenSamePairIsNoop(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	gen := c.Generation()
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))

	assert.Equal(t, 1, d.count())
	assert.Equal(t, gen, c.Generation())

	other := self
	other.ID = "u-other"
	require.NoError(t, c.Open(context.Background(), other, "u-peer"))
	assert.Equal(t, 2, d.count(), "a different local user reopens")
}

func TestOpenRequiresIDs(t *testing.T) {
	c, _, _, _ := newController(t, Options{})
	assert.Error(t, c.Open(context.Background(), self, ""))
	assert.Error(t, c.Open(context.Background(), model.User{}, "u-peer"))
}

func TestStaleHistoryIsDropped(t *testing.T) {
	c, _, h, _ := newController(t, Options{})
	h.gate("u-a")
	h.histories["u-b"] = &model.ChatHistory{Messages: []model.ChatMessage{msg("u-b", "b1", time.Unix(1, 0))}}

	require.NoError(t, c.Open(context.Background(), self, "u-a"))
	require.NoError(t, c.Open(context.Background(), self, "u-b"))
	waitLoaded(t, c)

	require.Eventually(t, func() bool { return len(h.cancelledPeers()) == 1 }, waitFor, 5*time.Millisecond)
	got := c.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, "b1", got[0].Text)
}

func TestHistoryFailureKeepsRealtime(t *testing.T) {
	c, d, h, _ := newController(t, Options{})
	h.err = &api.ClientError{Type: api.ErrTypeServer, Status: 500, Message: "boom"}

	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)
	assert.Error(t, c.Status().HistoryErr)

	d.get(0).deliver(msg("u-peer", "still here", time.Now()))
	assert.Len(t, c.Messages(), 1)
}

func TestHistorySetsPeer(t *testing.T) {
	c, _, h, _ := newController(t, Options{})
	h.histories["u-peer"] = &model.ChatHistory{
		Participants: []model.User{self, {ID: "u-peer", FirstName: "Grace"}},
		Messages:     []model.ChatMessage{},
	}
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)
	assert.Equal(t, "Grace", c.Status().Peer.FirstName)
}

func TestSendIsEchoOnly(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)

	require.NoError(t, c.Send("  hello  "))
	sent := d.get(0).sentPayloads()
	require.Len(t, sent, 1)
	assert.Equal(t, realtime.SendPayload{
		SenderID:     "u-self",
		FirstName:    "Ada",
		LastName:     "Lovelace",
		UserID:       "u-self",
		TargetUserID: "u-peer",
		Text:         "hello",
	}, sent[0])
	assert.Empty(t, c.Messages(), "nothing shown before the echo")

	d.get(0).deliver(msg("u-self", "hello", time.Now()))
	assert.Len(t, c.Messages(), 1)
}

func TestSendOptimistic(t *testing.T) {
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c, d, _, _ := newController(t, Options{Optimistic: true, Now: func() time.Time { return at }})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)

	require.NoError(t, c.Send("hello"))
	got := c.Messages()
	require.Len(t, got, 1)
	assert.Equal(t, at, got[0].CreatedAt)

	d.get(0).deliver(msg("u-self", "hello", time.Now()))
	assert.Len(t, c.Messages(), 1, "echo of an optimistic send is swallowed")

	d.get(0).deliver(msg("u-self", "hello", time.Now()))
	assert.Len(t, c.Messages(), 2, "a second copy is a new message")
}

func TestOptimisticSendBeforeHistory(t *testing.T) {
	local := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	server := time.Date(2025, 6, 1, 0, 0, 5, 0, time.UTC)

	for _, echoFirst := range []bool{true, false} {
		t.Run(fmt.Sprintf("echo before history %v", echoFirst), func(t *testing.T) {
			c, d, h, _ := newController(t, Options{Optimistic: true, Now: func() time.Time { return local }})
			h.histories["u-peer"] = &model.ChatHistory{Messages: []model.ChatMessage{
				msg("u-peer", "hi", server.Add(-time.Second)),
				msg("u-self", "hello", server),
			}}
			gate := h.gate("u-peer")
			require.NoError(t, c.Open(context.Background(), self, "u-peer"))

			require.NoError(t, c.Send("hello"))
			require.Len(t, c.Messages(), 1, "shown locally before history")

			echo := msg("u-self", "hello", server)
			if echoFirst {
				d.get(0).deliver(echo)
			}
			close(gate)
			waitLoaded(t, c)
			if !echoFirst {
				d.get(0).deliver(echo)
			}

			got := c.Messages()
			require.Len(t, got, 2)
			assert.Equal(t, "hi", got[0].Text)
			assert.Equal(t, "hello", got[1].Text)
			assert.Equal(t, server, got[1].CreatedAt, "the server copy replaces the local one")
		})
	}
}

func TestOptimisticSendMissingFromHistoryStays(t *testing.T) {
	c, _, h, _ := newController(t, Options{Optimistic: true})
	h.histories["u-peer"] = &model.ChatHistory{Messages: []model.ChatMessage{msg("u-self", "older", time.Unix(10, 0))}}
	gate := h.gate("u-peer")
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))

	require.NoError(t, c.Send("hello"))
	close(gate)
	waitLoaded(t, c)

	got := c.Messages()
	require.Len(t, got, 2)
	assert.Equal(t, "older", got[0].Text)
	assert.Equal(t, "hello", got[1].Text)
}

func TestSlowTransportCloseDoesNotBlockReads(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)

	release := make(chan struct{})
	d.get(0).closeGate = release
	closed := make(chan struct{})
	go func() {
		c.Close()
		close(closed)
	}()

	require.Eventually(t, func() bool { return c.PeerID() == "" }, waitFor, 5*time.Millisecond)
	done := make(chan struct{})
	go func() {
		_ = c.Messages()
		_ = c.Status()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(waitFor):
		t.Fatal("reads blocked while the transport was closing")
	}

	close(release)
	select {
	case <-closed:
	case <-time.After(waitFor):
		t.Fatal("Close did not return")
	}
}

func TestSendErrors(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	assert.ErrorIs(t, c.Send("   "), ErrEmptyMessage)
	assert.ErrorIs(t, c.Send("hi"), ErrNotOpen)

	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	d.get(0).drop()
	require.Eventually(t, func() bool { return !c.Status().Connected }, waitFor, 5*time.Millisecond)
	assert.ErrorIs(t, c.Send("hi"), ErrOffline)
}

func TestDialFailureStillLoadsHistory(t *testing.T) {
	c, d, h, _ := newController(t, Options{})
	d.err = errors.New("refused")
	h.histories["u-peer"] = &model.ChatHistory{Messages: []model.ChatMessage{msg("u-peer", "old", time.Unix(1, 0))}}

	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)

	st := c.Status()
	assert.False(t, st.Connected)
	assert.EqualError(t, st.TransportErr, "refused")
	assert.Len(t, c.Messages(), 1)
	assert.ErrorIs(t, c.Send("hi"), ErrOffline)
}

func TestCloseCancelsAndIsIdempotent(t *testing.T) {
	c, d, h, _ := newController(t, Options{})
	h.gate("u-peer")
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	gen := c.Generation()

	c.Close()
	c.Close()

	assert.NotEqual(t, gen, c.Generation())
	assert.Equal(t, "", c.PeerID())
	assert.Equal(t, 0, d.get(0).handlerCount())
	require.Eventually(t, func() bool { return len(h.cancelledPeers()) == 1 }, waitFor, 5*time.Millisecond)
	assert.False(t, c.Status().HistoryLoaded)
}

func TestUpdatesSignal(t *testing.T) {
	c, d, _, _ := newController(t, Options{})
	require.NoError(t, c.Open(context.Background(), self, "u-peer"))
	waitLoaded(t, c)
	// Drain whatever Open queued.
	select {
	case <-c.Updates():
	default:
	}

	d.get(0).deliver(msg("u-peer", "ping", time.Now()))
	select {
	case <-c.Updates():
	case <-time.After(waitFor):
		t.Fatal("no update after a message")
	}
}

// =============================================================================
// AGAINST THE FAKE BACKEND
// =============================================================================

func TestConversationAgainstBackend(t *testing.T) {
	srv := backendtest.New(t)
	srv.SeedChat("u-peer", model.ChatHistory{
		ID:           "chat-1",
		Participants: []model.User{srv.Self, {ID: "u-peer", FirstName: "Grace", LastName: "Hopper"}},
		Messages: []model.ChatMessage{
			{SenderID: "u-peer", FirstName: "Grace", Text: "welcome", CreatedAt: time.Date(2025, 2, 1, 9, 0, 0, 0, time.UTC)},
		},
	})

	client, err := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
	require.NoError(t, err)
	client.SetCookies([]*http.Cookie{srv.SessionCookie()})

	c := New(Options{
		Dial:    RealtimeDialer(srv.URL, realtime.Options{Jar: client.Jar()}),
		History: client,
	})
	defer c.Close()

	require.NoError(t, c.Open(context.Background(), srv.Self, "u-peer"))
	waitLoaded(t, c)
	require.Len(t, c.Messages(), 1)
	assert.Equal(t, "Grace", c.Status().Peer.FirstName)
	require.Eventually(t, func() bool { return srv.RoomMembers("u-self", "u-peer") == 1 }, waitFor, 5*time.Millisecond)

	require.NoError(t, c.Send("hello grace"))
	require.Eventually(t, func() bool { return len(c.Messages()) == 2 }, waitFor, 5*time.Millisecond)

	assert.Equal(t, 1, srv.Push("u-self", "u-peer", model.ChatMessage{SenderID: "u-peer", FirstName: "Grace", Text: "hi ada"}))
	require.Eventually(t, func() bool { return len(c.Messages()) == 3 }, waitFor, 5*time.Millisecond)

	got := c.Messages()
	assert.Equal(t, []string{"welcome", "hello grace", "hi ada"}, []string{got[0].Text, got[1].Text, got[2].Text})

	c.Close()
	require.Eventually(t, func() bool { return srv.ActiveSockets() == 0 }, waitFor, 5*time.Millisecond)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/realtime"
)

// Transport is the realtime session the controller drives.
type Transport interface {
	Join(realtime.JoinPayload) error
	Send(realtime.SendPayload) error
	OnMessage(realtime.MessageHandler) (unsubscribe func())
	Close() error
	Done() <-chan struct{}
}

// Dialer opens a fresh Transport.
type Dialer func(ctx context.Context) (Transport, error)

// HistoryFetcher loads a conversation from the backend.
type HistoryFetcher interface {
	ChatHistory(ctx context.Context, targetUserID string) (*model.ChatHistory, error)
}

var (
	// ErrNotOpen is returned when sending without an open conversation.
	ErrNotOpen = errors.New("chat: no open conversation")
	// ErrEmptyMessage is returned for blank input.
	ErrEmptyMessage = errors.New("chat: message is empty")
	// ErrOffline is returned when the realtime session is gone.
	ErrOffline = errors.New("chat: not connected")
)

// Options configures a Controller.
type Options struct {
	Dial    Dialer
	History HistoryFetcher
	// Optimistic appends sent messages locally and swallows their echo.
	Optimistic bool
	Logger     logrus.FieldLogger
	// Now is used for optimistic timestamps (tests).
	Now func() time.Time
}

// Status describes the open conversation for rendering.
type Status struct {
	PeerID        string
	Peer          model.User
	HistoryLoaded bool
	HistoryErr    error
	Connected     bool
	TransportErr  error
}

// Controller manages the open conversation. It is safe for concurrent use;
// the UI reads snapshots after each signal on Updates.
type Controller struct {
	opts Options
	log  logrus.FieldLogger

	mu          sync.Mutex
	gen         uint64
	self        model.User
	peerID      string
	transport   Transport
	unsubscribe func()
	cancel      context.CancelFunc

	messages      []model.ChatMessage
	pending       []model.ChatMessage
	awaitingEcho  map[string]int
	status        Status
	historyLoaded bool

	updates chan struct{}
}

// New creates a controller.
func New(opts Options) *Controller {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Controller{
		opts:    opts,
		log:     logging.OrDiscard(opts.Logger),
		updates: make(chan struct{}, 1),
	}
}

// Updates signals (coalesced) whenever messages or status change.
func (c *Controller) Updates() <-chan struct{} {
	return c.updates
}

func (c *Controller) notify() {
	select {
	case c.updates <- struct{}{}:
	default:
	}
}

// Generation identifies the current conversation; it changes on every
// Open and Close.
func (c *Controller) Generation() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen
}

// Open starts the conversation between self and peerID. Reopening the pair
// that is already open is a no-op. A dial failure leaves history loading
// in place and is reported through Status.
func (c *Controller) Open(ctx context.Context, self model.User, peerID string) error {
	if peerID == "" || self.ID == "" {
		return fmt.Errorf("chat: open needs both user ids")
	}

	c.mu.Lock()
	if c.peerID == peerID && c.self.ID == self.ID && c.cancel != nil {
		c.mu.Unlock()
		return nil
	}
	_, old := c.closeLocked()

	c.gen++
	gen := c.gen
	convCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.self = self
	c.peerID = peerID
	c.messages = []model.ChatMessage{}
	c.pending = nil
	c.awaitingEcho = make(map[string]int)
	c.historyLoaded = false
	c.status = Status{PeerID: peerID}
	c.mu.Unlock()
	closeTransport(old)

	c.log.WithFields(logrus.Fields{"peer": peerID, "gen": gen}).Debug("Opening chat")
	go c.loadHistory(convCtx, gen, peerID)

	if err := c.connect(convCtx, gen, self, peerID); err != nil {
		c.log.WithError(err).WithField("peer", peerID).Debug("Realtime unavailable")
		c.mu.Lock()
		if c.gen == gen {
			c.status.TransportErr = err
		}
		c.mu.Unlock()
		c.notify()
	}
	return nil
}

// connect dials, subscribes, and announces the join.
func (c *Controller) connect(ctx context.Context, gen uint64, self model.User, peerID string) error {
	if c.opts.Dial == nil {
		return ErrOffline
	}
	t, err := c.opts.Dial(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		t.Close()
		return nil
	}
	c.transport = t
	c.unsubscribe = t.OnMessage(func(m model.ChatMessage) { c.receive(gen, m) })
	c.status.Connected = true
	c.mu.Unlock()

	go c.watch(gen, t)

	err = t.Join(realtime.JoinPayload{
		FirstName:    self.FirstName,
		LastName:     self.LastName,
		PhotoURL:     self.PhotoURL,
		UserID:       self.ID,
		TargetUserID: peerID,
	})
	c.notify()
	return err
}

// watch marks the conversation offline when its transport ends.
func (c *Controller) watch(gen uint64, t Transport) {
	<-t.Done()
	c.mu.Lock()
	if c.gen != gen || c.transport != t {
		c.mu.Unlock()
		return
	}
	c.status.Connected = false
	c.mu.Unlock()
	c.log.WithField("gen", gen).Debug("Realtime session ended")
	c.notify()
}

func (c *Controller) loadHistory(ctx context.Context, gen uint64, peerID string) {
	if c.opts.History == nil {
		c.applyHistory(gen, nil, nil)
		return
	}
	h, err := c.opts.History.ChatHistory(ctx, peerID)
	if ctx.Err() != nil {
		return
	}
	c.applyHistory(gen, h, err)
}

func (c *Controller) applyHistory(gen uint64, h *model.ChatHistory, err error) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	if err != nil {
		c.log.WithError(err).WithField("peer", c.peerID).Warn("Failed to load chat history")
		c.status.HistoryErr = err
	}

	var seeded []model.ChatMessage
	if h != nil {
		seeded = append(seeded, h.Messages...)
		if peer, ok := h.Peer(c.self.ID); ok {
			c.status.Peer = peer
		}
	}
	seen := make(map[string]struct{}, len(seeded))
	ownTexts := make(map[string]int)
	for _, m := range seeded {
		seen[messageKey(m)] = struct{}{}
		if m.IsFrom(c.self.ID) {
			ownTexts[m.Text]++
		}
	}
	// Before history, messages only holds optimistic sends. Their local
	// timestamps never match the server's, so a send is confirmed by a
	// history entry from self with the same text, each entry used once.
	for _, m := range c.messages {
		if ownTexts[m.Text] > 0 {
			ownTexts[m.Text]--
			continue
		}
		seeded = append(seeded, m)
	}
	// Held-back realtime messages stay, minus what history already contains.
	for _, m := range c.pending {
		if _, dup := seen[messageKey(m)]; dup {
			continue
		}
		seeded = append(seeded, m)
	}
	if seeded == nil {
		seeded = []model.ChatMessage{}
	}
	c.messages = seeded
	c.pending = nil
	c.historyLoaded = true
	c.status.HistoryLoaded = true
	c.mu.Unlock()
	c.notify()
}

// receive handles one realtime message for conversation gen.
func (c *Controller) receive(gen uint64, m model.ChatMessage) {
	c.mu.Lock()
	if c.gen != gen {
		c.mu.Unlock()
		return
	}
	if m.IsFrom(c.self.ID) && c.awaitingEcho[m.Text] > 0 {
		c.awaitingEcho[m.Text]--
		c.mu.Unlock()
		return
	}
	if c.historyLoaded {
		c.messages = append(c.messages, m)
	} else {
		c.pending = append(c.pending, m)
	}
	c.mu.Unlock()
	c.notify()
}

// Send emits text to the open peer. The message appears once the server
// echoes it, unless the controller is optimistic.
func (c *Controller) Send(text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return ErrEmptyMessage
	}

	c.mu.Lock()
	if c.cancel == nil {
		c.mu.Unlock()
		return ErrNotOpen
	}
	t := c.transport
	self, peerID := c.self, c.peerID
	connected := c.status.Connected
	c.mu.Unlock()
	if t == nil || !connected {
		return ErrOffline
	}

	err := t.Send(realtime.SendPayload{
		SenderID:     self.ID,
		FirstName:    self.FirstName,
		LastName:     self.LastName,
		PhotoURL:     self.PhotoURL,
		UserID:       self.ID,
		TargetUserID: peerID,
		Text:         text,
	})
	if err != nil {
		return fmt.Errorf("chat: send: %w", err)
	}

	if c.opts.Optimistic {
		c.mu.Lock()
		if c.transport == t {
			c.awaitingEcho[text]++
			c.messages = append(c.messages, model.ChatMessage{
				SenderID:  self.ID,
				FirstName: self.FirstName,
				LastName:  self.LastName,
				PhotoURL:  self.PhotoURL,
				Text:      text,
				CreatedAt: c.opts.Now(),
			})
		}
		c.mu.Unlock()
		c.notify()
	}
	return nil
}

// Messages returns a copy of the ordered message list.
func (c *Controller) Messages() []model.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.ChatMessage(nil), c.messages...)
}

// Status returns the current conversation status.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// PeerID returns the open peer, or "".
func (c *Controller) PeerID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peerID
}

// Close ends the conversation: the handler is unsubscribed, the session
// closed, and in-flight work cancelled. Safe to call repeatedly.
func (c *Controller) Close() {
	c.mu.Lock()
	closed, t := c.closeLocked()
	c.mu.Unlock()
	closeTransport(t)
	if closed {
		c.notify()
	}
}

// closeLocked tears down the current conversation and hands back its
// transport, which the caller closes after releasing mu: closing writes to
// the socket and may block. Caller holds mu.
func (c *Controller) closeLocked() (bool, Transport) {
	if c.cancel == nil {
		return false, nil
	}
	if c.unsubscribe != nil {
		c.unsubscribe()
		c.unsubscribe = nil
	}
	t := c.transport
	c.transport = nil
	c.cancel()
	c.cancel = nil
	c.gen++
	c.peerID = ""
	c.messages = nil
	c.pending = nil
	c.status = Status{}
	return true, t
}

func closeTransport(t Transport) {
	if t != nil {
		_ = t.Close()
	}
}

func messageKey(m model.ChatMessage) string {
	return m.SenderID + "\x00" + m.Text + "\x00" + m.CreatedAt.UTC().Format(time.RFC3339Nano)
}

// RealtimeDialer dials the backend's socket endpoint with opts.
func RealtimeDialer(baseURL string, opts realtime.Options) Dialer {
	return func(ctx context.Context) (Transport, error) {
		s, err := realtime.Dial(ctx, baseURL, opts)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
}

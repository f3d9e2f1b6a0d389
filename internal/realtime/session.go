// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/realtime/engineio"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultPath is where the Socket.IO server listens.
const DefaultPath = "/socket.io/"

const (
	defaultHandshakeTimeout = 10 * time.Second
	writeTimeout            = 5 * time.Second
)

var (
	// ErrClosed is returned when emitting on a closed session.
	ErrClosed = errors.New("realtime: session closed")
	// ErrRejected is returned by Dial when the server refuses the namespace
	// connect (usually an auth failure).
	ErrRejected = errors.New("realtime: connection rejected")
)

// Options configures Dial.
type Options struct {
	// Path overrides DefaultPath.
	Path string
	// Jar supplies the session cookie for the handshake.
	Jar http.CookieJar
	// Header is sent with the WebSocket upgrade.
	Header http.Header
	// HandshakeTimeout bounds the upgrade plus the Socket.IO connect.
	HandshakeTimeout time.Duration
	// Logger receives transport diagnostics at debug level.
	Logger logrus.FieldLogger
}

// MessageHandler receives inbound chat messages in arrival order.
type MessageHandler func(model.ChatMessage)

// Session is one Socket.IO connection.
type Session struct {
	conn *websocket.Conn
	log  logrus.FieldLogger
	sid  string

	writeMu sync.Mutex

	mu       sync.Mutex
	handlers map[int]MessageHandler
	nextID   int
	closed   bool
	err      error

	done      chan struct{}
	closeOnce sync.Once
	idleLimit time.Duration
}

// SocketURL builds the WebSocket URL for an HTTP(S) base address.
func SocketURL(baseURL, path string) (string, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return "", fmt.Errorf("realtime: bad base URL: %w", err)
	}
	switch u.Scheme {
	case "http", "ws":
		u.Scheme = "ws"
	case "https", "wss":
		u.Scheme = "wss"
	default:
		return "", fmt.Errorf("realtime: unsupported scheme %q", u.Scheme)
	}
	if path == "" {
		path = DefaultPath
	}
	u.Path = strings.TrimRight(u.Path, "/") + path
	q := url.Values{}
	q.Set("EIO", "4")
	q.Set("transport", "websocket")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Dial opens a fresh session and completes the Socket.IO handshake on the
// default namespace.
func Dial(ctx context.Context, baseURL string, opts Options) (*Session, error) {
	target, err := SocketURL(baseURL, opts.Path)
	if err != nil {
		return nil, err
	}
	timeout := opts.HandshakeTimeout
	if timeout == 0 {
		timeout = defaultHandshakeTimeout
	}
	log := logging.OrDiscard(opts.Logger)

	dialer := &websocket.Dialer{
		Proxy:            http.ProxyFromEnvironment,
		HandshakeTimeout: timeout,
		Jar:              opts.Jar,
	}
	conn, resp, err := dialer.DialContext(ctx, target, opts.Header)
	if err != nil {
		if resp != nil {
			return nil, fmt.Errorf("realtime: dial %s: %s: %w", target, resp.Status, err)
		}
		return nil, fmt.Errorf("realtime: dial %s: %w", target, err)
	}

	s := &Session{
		conn:     conn,
		log:      log,
		handlers: make(map[int]MessageHandler),
		done:     make(chan struct{}),
	}
	if err := s.handshake(ctx, timeout); err != nil {
		conn.Close()
		return nil, err
	}

	log.WithFields(logrus.Fields{"sid": s.sid, "url": target}).Debug("Realtime session open")
	go s.readLoop()
	return s, nil
}

// handshake reads the Engine.IO open packet, connects the default namespace
// and waits for the server's acknowledgement.
func (s *Session) handshake(ctx context.Context, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = s.conn.SetReadDeadline(deadline)

	pkt, err := s.readPacket()
	if err != nil {
		return fmt.Errorf("realtime: read open: %w", err)
	}
	open, err := pkt.DecodeOpen()
	if err != nil {
		return err
	}
	s.sid = open.SID
	if open.PingInterval > 0 && open.PingTimeout > 0 {
		s.idleLimit = time.Duration(open.PingInterval+open.PingTimeout) * time.Millisecond
	}

	if err := s.write(engineio.ConnectFrame()); err != nil {
		return fmt.Errorf("realtime: connect namespace: %w", err)
	}

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		pkt, err := s.readPacket()
		if err != nil {
			return fmt.Errorf("realtime: await connect: %w", err)
		}
		switch {
		case pkt.Type == engineio.Ping:
			if err := s.write(engineio.Encode(engineio.Packet{Type: engineio.Pong, Data: pkt.Data})); err != nil {
				return err
			}
		case pkt.Type == engineio.Message && pkt.Socket == engineio.Connect:
			s.resetDeadline()
			return nil
		case pkt.Type == engineio.Message && pkt.Socket == engineio.ConnectError:
			return fmt.Errorf("%w: %s", ErrRejected, pkt.ConnectErrorMessage())
		case pkt.Type == engineio.Close:
			return fmt.Errorf("%w: server closed during handshake", ErrRejected)
		}
	}
}

func (s *Session) resetDeadline() {
	if s.idleLimit > 0 {
		_ = s.conn.SetReadDeadline(time.Now().Add(s.idleLimit))
	} else {
		_ = s.conn.SetReadDeadline(time.Time{})
	}
}

func (s *Session) readPacket() (engineio.Packet, error) {
	for {
		kind, data, err := s.conn.ReadMessage()
		if err != nil {
			return engineio.Packet{}, err
		}
		if kind != websocket.TextMessage {
			continue
		}
		return engineio.Decode(data)
	}
}

func (s *Session) write(frame []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	return s.conn.WriteMessage(websocket.TextMessage, frame)
}

// readLoop runs until the socket fails or Close is called. Handlers run on
// this goroutine, one message at a time.
func (s *Session) readLoop() {
	defer s.shutdown(nil)

	for {
		pkt, err := s.readPacket()
		if err != nil {
			var ce *websocket.CloseError
			if s.isClosed() || errors.As(err, &ce) {
				s.shutdown(nil)
			} else {
				s.log.WithError(err).Debug("Realtime read failed")
				s.shutdown(err)
			}
			return
		}
		s.resetDeadline()

		switch pkt.Type {
		case engineio.Ping:
			if err := s.write(engineio.Encode(engineio.Packet{Type: engineio.Pong, Data: pkt.Data})); err != nil {
				s.log.WithError(err).Debug("Realtime pong failed")
				s.shutdown(err)
				return
			}
		case engineio.Close:
			return
		case engineio.Message:
			if pkt.Socket == engineio.Disconnect {
				return
			}
			if pkt.Socket == engineio.Event {
				s.dispatch(pkt)
			}
		}
	}
}

func (s *Session) dispatch(pkt engineio.Packet) {
	name, args, err := pkt.EventName()
	if err != nil {
		s.log.WithError(err).Debug("Realtime dropped malformed event")
		return
	}
	if name != EventMessageReceived || len(args) == 0 {
		return
	}
	var msg model.ChatMessage
	if err := json.Unmarshal(args[0], &msg); err != nil {
		s.log.WithError(err).Debug("Realtime dropped malformed message")
		return
	}
	for _, h := range s.snapshotHandlers() {
		h(msg)
	}
}

// snapshotHandlers returns the handlers in subscription order.
func (s *Session) snapshotHandlers() []MessageHandler {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	ids := make([]int, 0, len(s.handlers))
	for id := range s.handlers {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]MessageHandler, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.handlers[id])
	}
	return out
}

// OnMessage subscribes h to inbound messages. The returned func removes the
// subscription and is safe to call more than once.
func (s *Session) OnMessage(h MessageHandler) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return func() {}
	}
	id := s.nextID
	s.nextID++
	s.handlers[id] = h
	return func() {
		s.mu.Lock()
		delete(s.handlers, id)
		s.mu.Unlock()
	}
}

// Handlers reports how many subscriptions are active.
func (s *Session) Handlers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.handlers)
}

// Join announces the conversation so the server routes it to this session.
func (s *Session) Join(p JoinPayload) error {
	return s.emit(EventJoinChat, p)
}

// Send emits one chat message. Delivery to the local view happens only
// through the server echo.
func (s *Session) Send(p SendPayload) error {
	return s.emit(EventSendMessage, p)
}

func (s *Session) emit(event string, payload interface{}) error {
	if s.isClosed() {
		return ErrClosed
	}
	frame, err := engineio.EncodeEvent(event, payload)
	if err != nil {
		return err
	}
	if err := s.write(frame); err != nil {
		s.log.WithError(err).WithField("event", event).Debug("Realtime emit failed")
		return fmt.Errorf("realtime: emit %s: %w", event, err)
	}
	return nil
}

// SID returns the Engine.IO session id.
func (s *Session) SID() string { return s.sid }

// Done is closed once the session stops delivering.
func (s *Session) Done() <-chan struct{} { return s.done }

// Err returns the transport error that ended the session, if any.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Session) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Close unsubscribes every handler, then tells the server and drops the
// socket. It is idempotent.
func (s *Session) Close() error {
	s.mu.Lock()
	already := s.closed
	s.handlers = make(map[int]MessageHandler)
	s.closed = true
	s.mu.Unlock()
	if already {
		return nil
	}

	_ = s.write(engineio.Encode(engineio.Packet{Type: engineio.Message, Socket: engineio.Disconnect, AckID: engineio.NoAck}))
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()
	err := s.conn.Close()
	s.shutdown(nil)
	return err
}

// shutdown marks the session finished exactly once.
func (s *Session) shutdown(err error) {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.handlers = make(map[int]MessageHandler)
		if s.err == nil {
			s.err = err
		}
		s.mu.Unlock()
		_ = s.conn.Close()
		close(s.done)
	})
}

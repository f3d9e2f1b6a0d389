// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backendtest

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/realtime/engineio"
)

// Join is a joinChat event seen by the server.
type Join struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhotoURL     string `json:"photoURL"`
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
}

// Sent is a sendMessage event seen by the server.
type Sent struct {
	SenderID     string `json:"senderId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhotoURL     string `json:"photoURL"`
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
	Text         string `json:"text"`
}

// RoomID is the room a (user, peer) pair shares, independent of order.
func RoomID(a, b string) string {
	ids := []string{a, b}
	sort.Strings(ids)
	return strings.Join(ids, "_")
}

type socketConn struct {
	ws      *websocket.Conn
	writeMu sync.Mutex
	sid     string
	authed  bool
	room    string
}

func (c *socketConn) write(frame []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(2 * time.Second))
	return c.ws.WriteMessage(websocket.TextMessage, frame)
}

type socketHub struct {
	srv      *Server
	upgrader websocket.Upgrader

	mu    sync.Mutex
	conns map[*socketConn]struct{}
	joins []Join
	sent  []Sent
	pongs int
	echo  bool
}

func newSocketHub(srv *Server) *socketHub {
	return &socketHub{
		srv:      srv,
		upgrader: websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		conns:    make(map[*socketConn]struct{}),
		echo:     true,
	}
}

func (h *socketHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("EIO") != "4" || q.Get("transport") != "websocket" {
		http.Error(w, `{"code":0,"message":"Transport unknown"}`, http.StatusBadRequest)
		return
	}
	authed := h.srv.authorized(r)
	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &socketConn{ws: ws, sid: uuid.NewString(), authed: authed}

	h.mu.Lock()
	h.conns[c] = struct{}{}
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		delete(h.conns, c)
		h.mu.Unlock()
		ws.Close()
	}()

	open, _ := json.Marshal(engineio.OpenPayload{SID: c.sid, Upgrades: []string{}, PingInterval: 25000, PingTimeout: 20000, MaxPayload: 1000000})
	if err := c.write(engineio.Encode(engineio.Packet{Type: engineio.Open, Data: open})); err != nil {
		return
	}

	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			return
		}
		pkt, err := engineio.Decode(data)
		if err != nil {
			continue
		}
		switch pkt.Type {
		case engineio.Pong:
			h.mu.Lock()
			h.pongs++
			h.mu.Unlock()
		case engineio.Close:
			return
		case engineio.Message:
			if !h.handleMessage(c, pkt) {
				return
			}
		}
	}
}

// handleMessage returns false when the connection should end.
func (h *socketHub) handleMessage(c *socketConn, pkt engineio.Packet) bool {
	switch pkt.Socket {
	case engineio.Connect:
		if !c.authed {
			_ = c.write(engineio.Encode(engineio.Packet{Type: engineio.Message, Socket: engineio.ConnectError, AckID: engineio.NoAck, Data: []byte(`{"message":"Unauthorized"}`)}))
			return true
		}
		ack, _ := json.Marshal(map[string]string{"sid": c.sid})
		_ = c.write(engineio.Encode(engineio.Packet{Type: engineio.Message, Socket: engineio.Connect, AckID: engineio.NoAck, Data: ack}))
	case engineio.Disconnect:
		return false
	case engineio.Event:
		name, args, err := pkt.EventName()
		if err != nil || len(args) == 0 {
			return true
		}
		switch name {
		case "joinChat":
			var j Join
			if json.Unmarshal(args[0], &j) != nil {
				return true
			}
			h.mu.Lock()
			c.room = RoomID(j.UserID, j.TargetUserID)
			h.joins = append(h.joins, j)
			h.mu.Unlock()
		case "sendMessage":
			var m Sent
			if json.Unmarshal(args[0], &m) != nil {
				return true
			}
			h.mu.Lock()
			h.sent = append(h.sent, m)
			echo := h.echo
			h.mu.Unlock()

			msg := model.ChatMessage{
				SenderID:  m.SenderID,
				FirstName: m.FirstName,
				LastName:  m.LastName,
				PhotoURL:  m.PhotoURL,
				Text:      m.Text,
				CreatedAt: time.Now().UTC(),
			}
			h.srv.appendHistory(m.TargetUserID, msg)
			if echo {
				h.broadcast(RoomID(m.UserID, m.TargetUserID), msg)
			}
		}
	}
	return true
}

// broadcast delivers msg to every socket in room and returns how many got it.
func (h *socketHub) broadcast(room string, msg model.ChatMessage) int {
	frame, err := engineio.EncodeEvent("messageRecieved", wireMessage(msg))
	if err != nil {
		return 0
	}
	h.mu.Lock()
	var targets []*socketConn
	for c := range h.conns {
		if c.room == room {
			targets = append(targets, c)
		}
	}
	h.mu.Unlock()

	n := 0
	for _, c := range targets {
		if c.write(frame) == nil {
			n++
		}
	}
	return n
}

func (h *socketHub) closeAll() {
	h.mu.Lock()
	conns := make([]*socketConn, 0, len(h.conns))
	for c := range h.conns {
		conns = append(conns, c)
	}
	h.mu.Unlock()
	for _, c := range conns {
		c.ws.Close()
	}
}

// wireMessage is the realtime payload: bare sender id, RFC 3339 timestamp.
func wireMessage(m model.ChatMessage) map[string]string {
	return map[string]string{
		"senderId":  m.SenderID,
		"firstName": m.FirstName,
		"lastName":  m.LastName,
		"photoURL":  m.PhotoURL,
		"text":      m.Text,
		"createdAt": m.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func (s *Server) appendHistory(peerID string, msg model.ChatMessage) {
	s.mu.Lock()
	defer s.mu.Unlock()
	h, ok := s.Chats[peerID]
	if !ok {
		h = model.ChatHistory{ID: "chat-" + peerID, Participants: []model.User{s.Self, {ID: peerID}}}
	}
	h.Messages = append(h.Messages, msg)
	s.Chats[peerID] = h
}

// =============================================================================
// SOCKET HELPERS
// =============================================================================

// Push delivers msg to the room of (userID, peerID) as if the server had
// relayed it. Returns the number of sockets reached.
func (s *Server) Push(userID, peerID string, msg model.ChatMessage) int {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}
	return s.sockets.broadcast(RoomID(userID, peerID), msg)
}

// SetEcho controls whether sendMessage is relayed back to the room.
func (s *Server) SetEcho(on bool) {
	s.sockets.mu.Lock()
	s.sockets.echo = on
	s.sockets.mu.Unlock()
}

// Joins returns every joinChat seen.
func (s *Server) Joins() []Join {
	s.sockets.mu.Lock()
	defer s.sockets.mu.Unlock()
	return append([]Join(nil), s.sockets.joins...)
}

// SentMessages returns every sendMessage seen.
func (s *Server) SentMessages() []Sent {
	s.sockets.mu.Lock()
	defer s.sockets.mu.Unlock()
	return append([]Sent(nil), s.sockets.sent...)
}

// ActiveSockets counts open socket connections.
func (s *Server) ActiveSockets() int {
	s.sockets.mu.Lock()
	defer s.sockets.mu.Unlock()
	return len(s.sockets.conns)
}

// RoomMembers counts sockets joined to the room of (userID, peerID).
func (s *Server) RoomMembers(userID, peerID string) int {
	room := RoomID(userID, peerID)
	s.sockets.mu.Lock()
	defer s.sockets.mu.Unlock()
	n := 0
	for c := range s.sockets.conns {
		if c.room == room {
			n++
		}
	}
	return n
}

// PingAll sends an Engine.IO ping to every socket.
func (s *Server) PingAll() {
	s.sockets.mu.Lock()
	conns := make([]*socketConn, 0, len(s.sockets.conns))
	for c := range s.sockets.conns {
		conns = append(conns, c)
	}
	s.sockets.mu.Unlock()
	for _, c := range conns {
		_ = c.write(engineio.Encode(engineio.Packet{Type: engineio.Ping}))
	}
}

// Pongs counts pong replies received.
func (s *Server) Pongs() int {
	s.sockets.mu.Lock()
	defer s.sockets.mu.Unlock()
	return s.sockets.pongs
}

// DropSockets closes every socket without a goodbye.
func (s *Server) DropSockets() {
	s.sockets.closeAll()
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// Slice names a part of the state for change notifications.
type Slice int

const (
	SliceUser Slice = iota
	SliceFeed
	SliceConnections
	SliceRequests
)

// String returns the slice name used in logs.
func (s Slice) String() string {
	switch s {
	case SliceUser:
		return "user"
	case SliceFeed:
		return "feed"
	case SliceConnections:
		return "connections"
	case SliceRequests:
		return "requests"
	default:
		return "unknown"
	}
}

// =============================================================================
// STORE
// =============================================================================

// Store is the shared client state. It is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	user        *model.User
	feed        []model.User
	connections []model.User
	requests    []model.ConnectionRequest

	subMu  sync.Mutex
	nextID int
	subs   map[int]func(Slice)
}

// New returns an empty store.
func New() *Store {
	return &Store{
		feed:        []model.User{},
		connections: []model.User{},
		requests:    []model.ConnectionRequest{},
		subs:        make(map[int]func(Slice)),
	}
}

// Subscribe registers fn to be called after any slice changes.
// The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Slice)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify(slice Slice) {
	s.subMu.Lock()
	fns := make([]func(Slice), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn(slice)
	}
}

// =============================================================================
// USER SLICE
// =============================================================================

// User returns a copy of the authenticated user, or nil when logged out.
func (s *Store) User() *model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneUser(s.user)
}

// SetUser replaces the authenticated user wholesale.
func (s *Store) SetUser(u model.User) {
	s.mu.Lock()
	s.user = cloneUser(&u)
	s.mu.Unlock()
	s.notify(SliceUser)
}

// ClearUser drops the authenticated user.
func (s *Store) ClearUser() {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()
	s.notify(SliceUser)
}

// =============================================================================
// FEED SLICE
// =============================================================================

// Feed returns a snapshot of the feed. Index 0 is the top candidate.
func (s *Store) Feed() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ReplaceUsers(s.feed)
}

// SetFeed replaces the feed. Duplicate ids keep their first occurrence.
func (s *Store) SetFeed(users []model.User) {
	s.mu.Lock()
	s.feed = DedupeUsers(users)
	s.mu.Unlock()
	s.notify(SliceFeed)
}

// RemoveFromFeed removes the entry with id. It reports whether an entry was
// removed; removing an absent id is a no-op.
func (s *Store) RemoveFromFeed(id string) bool {
	s.mu.Lock()
	before := len(s.feed)
	s.feed = RemoveUserByID(s.feed, id)
	removed := len(s.feed) != before
	s.mu.Unlock()
	if removed {
		s.notify(SliceFeed)
	}
	return removed
}

// ClearFeed empties the feed.
func (s *Store) ClearFeed() {
	s.mu.Lock()
	s.feed = []model.User{}
	s.mu.Unlock()
	s.notify(SliceFeed)
}

// =============================================================================
// CONNECTIONS SLICE
// =============================================================================

// Connections returns a snapshot of the connections list.
func (s *Store) Connections() []model.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ReplaceUsers(s.connections)
}

// SetConnections replaces the connections list.
func (s *Store) SetConnections(users []model.User) {
	s.mu.Lock()
	s.connections = ReplaceUsers(users)
	s.mu.Unlock()
	s.notify(SliceConnections)
}

// AddConnection appends one connection.
func (s *Store) AddConnection(u model.User) {
	s.mu.Lock()
	s.connections = AppendUser(s.connections, u)
	s.mu.Unlock()
	s.notify(SliceConnections)
}

// ClearConnections empties the connections list.
func (s *Store) ClearConnections() {
	s.mu.Lock()
	s.connections = []model.User{}
	s.mu.Unlock()
	s.notify(SliceConnections)
}

// =============================================================================
// REQUESTS SLICE
// =============================================================================

// Requests returns a snapshot of the pending inbound requests.
func (s *Store) Requests() []model.ConnectionRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ReplaceRequests(s.requests)
}

// SetRequests replaces the requests list.
func (s *Store) SetRequests(reqs []model.ConnectionRequest) {
	s.mu.Lock()
	s.requests = ReplaceRequests(reqs)
	s.mu.Unlock()
	s.notify(SliceRequests)
}

// RemoveRequest removes the request with id and reports whether it existed.
func (s *Store) RemoveRequest(id string) bool {
	s.mu.Lock()
	before := len(s.requests)
	s.requests = RemoveRequestByID(s.requests, id)
	removed := len(s.requests) != before
	s.mu.Unlock()
	if removed {
		s.notify(SliceRequests)
	}
	return removed
}

// ClearRequests empties the requests list.
func (s *Store) ClearRequests() {
	s.mu.Lock()
	s.requests = []model.ConnectionRequest{}
	s.mu.Unlock()
	s.notify(SliceRequests)
}

// Reset clears every slice, as on logout.
func (s *Store) Reset() {
	s.ClearUser()
	s.ClearFeed()
	s.ClearConnections()
	s.ClearRequests()
}

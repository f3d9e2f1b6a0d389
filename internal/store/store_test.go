// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/model"
)

func users(ids ...string) []model.User {
	out := make([]model.User, len(ids))
	for i, id := range ids {
		out[i] = model.User{ID: id, FirstName: id}
	}
	return out
}

func ids(us []model.User) []string {
	out := make([]string, len(us))
	for i, u := range us {
		out[i] = u.ID
	}
	return out
}

// =============================================================================
// TRANSITIONS
// =============================================================================

func TestRemoveUserByID_DoesNotMutateInput(t *testing.T) {
	in := users("a", "b", "c")
	out := RemoveUserByID(in, "b")

	assert.Equal(t, []string{"a", "c"}, ids(out))
	assert.Equal(t, []string{"a", "b", "c"}, ids(in))
}

func TestDedupeUsers_KeepsFirst(t *testing.T) {
	in := []model.User{{ID: "a", FirstName: "first"}, {ID: "b"}, {ID: "a", FirstName: "second"}}
	out := DedupeUsers(in)

	require.Len(t, out, 2)
	assert.Equal(t, "first", out[0].FirstName)
}

// =============================================================================
// FEED
// =============================================================================

func TestRemoveFromFeed_LengthProperty(t *testing.T) {
	s := New()
	s.SetFeed(users("a", "b", "c"))

	for _, tc := range []struct {
		id      string
		removed bool
		length  int
	}{
		{"b", true, 2},
		{"b", false, 2}, // second removal is a no-op
		{"zzz", false, 2},
		{"a", true, 1},
	} {
		got := s.RemoveFromFeed(tc.id)
		assert.Equal(t, tc.removed, got, "RemoveFromFeed(%q)", tc.id)
		assert.Len(t, s.Feed(), tc.length, "after removing %q", tc.id)
	}
	assert.Equal(t, []string{"c"}, ids(s.Feed()))
}

func TestSetFeed_UniqueByID(t *testing.T) {
	s := New()
	s.SetFeed(users("a", "a", "b"))
	assert.Equal(t, []string{"a", "b"}, ids(s.Feed()))
}

func TestFeedSnapshotIsolation(t *testing.T) {
	s := New()
	s.SetFeed(users("a", "b"))

	snap := s.Feed()
	snap[0].ID = "mutated"

	assert.Equal(t, "a", s.Feed()[0].ID)
}

// =============================================================================
// OTHER SLICES
// =============================================================================

func TestUserSlice(t *testing.T) {
	s := New()
	assert.Nil(t, s.User())

	s.SetUser(model.User{ID: "me", Skills: []string{"go"}})
	u := s.User()
	require.NotNil(t, u)
	u.Skills[0] = "rust"
	assert.Equal(t, "go", s.User().Skills[0])

	s.ClearUser()
	assert.Nil(t, s.User())
}

func TestRequestsAndConnectionsAreIndependent(t *testing.T) {
	s := New()
	s.SetRequests([]model.ConnectionRequest{{ID: "r1", From: model.User{ID: "u1"}}})
	s.SetConnections(users("u9"))

	assert.True(t, s.RemoveRequest("r1"))
	assert.False(t, s.RemoveRequest("r1"))
	assert.Empty(t, s.Requests())
	assert.Equal(t, []string{"u9"}, ids(s.Connections()))

	s.AddConnection(model.User{ID: "u1"})
	assert.Equal(t, []string{"u9", "u1"}, ids(s.Connections()))
}

func TestReset(t *testing.T) {
	s := New()
	s.SetUser(model.User{ID: "me"})
	s.SetFeed(users("a"))
	s.SetConnections(users("b"))
	s.SetRequests([]model.ConnectionRequest{{ID: "r"}})

	s.Reset()

	assert.Nil(t, s.User())
	assert.Empty(t, s.Feed())
	assert.Empty(t, s.Connections())
	assert.Empty(t, s.Requests())
}

// =============================================================================
// SUBSCRIPTIONS
// =============================================================================

func TestSubscribe(t *testing.T) {
	s := New()
	var got []Slice
	unsub := s.Subscribe(func(sl Slice) { got = append(got, sl) })

	s.SetFeed(users("a"))
	s.RemoveFromFeed("missing") // no change, no notification
	s.RemoveFromFeed("a")
	s.SetRequests(nil)

	unsub()
	s.SetConnections(nil)

	assert.Equal(t, []Slice{SliceFeed, SliceFeed, SliceRequests}, got)
}

func TestStore_ConcurrentAccess(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			s.SetFeed(users("a", "b", "c"))
			s.RemoveFromFeed("b")
		}()
		go func() {
			defer wg.Done()
			_ = s.Feed()
			_ = s.User()
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, len(s.Feed()), 3)
}

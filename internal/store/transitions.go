// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package store

import "github.com/devtinder/devtinder-tui/internal/model"

// =============================================================================
// PURE TRANSITIONS
// =============================================================================

// ReplaceUsers returns a copy of users. A nil input yields an empty slice.
func ReplaceUsers(users []model.User) []model.User {
	out := make([]model.User, len(users))
	copy(out, users)
	return out
}

// RemoveUserByID returns users without the entry whose ID is id.
// When id is absent the result has the same contents as the input.
func RemoveUserByID(users []model.User, id string) []model.User {
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// DedupeUsers drops later duplicates by ID, keeping the first occurrence.
// Feed entries are unique by identifier while present.
func DedupeUsers(users []model.User) []model.User {
	seen := make(map[string]struct{}, len(users))
	out := make([]model.User, 0, len(users))
	for _, u := range users {
		if _, dup := seen[u.ID]; dup {
			continue
		}
		seen[u.ID] = struct{}{}
		out = append(out, u)
	}
	return out
}

// AppendUser returns users with u appended.
func AppendUser(users []model.User, u model.User) []model.User {
	out := make([]model.User, len(users), len(users)+1)
	copy(out, users)
	return append(out, u)
}

// ReplaceRequests returns a copy of reqs.
func ReplaceRequests(reqs []model.ConnectionRequest) []model.ConnectionRequest {
	out := make([]model.ConnectionRequest, len(reqs))
	copy(out, reqs)
	return out
}

// RemoveRequestByID returns reqs without the request whose ID is id.
func RemoveRequestByID(reqs []model.ConnectionRequest, id string) []model.ConnectionRequest {
	out := make([]model.ConnectionRequest, 0, len(reqs))
	for _, r := range reqs {
		if r.ID != id {
			out = append(out, r)
		}
	}
	return out
}

func cloneUser(u *model.User) *model.User {
	if u == nil {
		return nil
	}
	c := *u
	c.Skills = append([]string(nil), u.Skills...)
	return &c
}

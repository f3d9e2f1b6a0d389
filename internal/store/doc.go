// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package store is the global client state container.
//
// It holds four independent slices: the authenticated user, the feed, the
// connections and the inbound requests. Each slice changes only through the
// pure transition functions in transitions.go, which return a new value and
// never mutate their input. Store wraps them with a mutex so every update is
// a whole-slice replacement.
//
// Views read snapshots (Feed(), Requests(), ...) and may Subscribe to be
// told that a slice changed.
package store

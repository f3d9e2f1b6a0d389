// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat drives one open conversation: it owns the realtime session,
// loads history, and keeps the ordered message list the chat view renders.
//
// Opening a conversation closes the previous one first (its handler is
// unsubscribed before the new one is registered), so messages never leak
// across peers. Work started for a conversation carries a context that is
// cancelled when it closes, and results tagged with an old generation are
// dropped.
//
// Messages that arrive over the socket before history has loaded are held
// back and appended after the history, skipping any the history already
// contains.
package chat

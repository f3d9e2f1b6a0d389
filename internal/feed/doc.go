// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package feed implements the swipe deck over the store's feed slice.
//
// Only the top card can be decided, and only one decision may be in flight.
// The decided card leaves the deck whatever the backend answers; a failed
// decision re-fetches the feed so the deck matches the server again.
package feed

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides reusable UI pieces for the devtinder TUI:
// toasts, the nav bar and footer, the profile card, code highlighting in
// chat messages, and markdown rendering for profile "about" text.
//
// Components render with a *styles.Theme and hold no network state.
package components

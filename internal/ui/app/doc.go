// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package app is the root Bubble Tea model.
//
// It owns the router and the current view, draws the chrome the route
// class asks for (nav bar, footer), shows toasts, and handles everything
// that crosses views: login, logout, a lost session, theme changes and
// config reloads.
//
// Startup asks the backend who is logged in (GET /profile/view) before the
// first view is built, so auth redirects see the restored session.
package app

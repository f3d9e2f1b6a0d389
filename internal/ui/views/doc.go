// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package views holds one Bubble Tea model per route.
//
// Each view is created when its route is entered and closed when it is
// left. A view owns a context that Close cancels, and every result it
// schedules is tagged with the view's id so results that arrive after the
// view is gone are dropped by whichever view is current.
//
// Views never talk to each other. They read and write the shared store,
// and ask the app for navigation and session changes through the messages
// in messages.go.
package views

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session keeps the login session alive across restarts.
//
// The backend's session is a JWT in the "token" cookie. The Manager
// restores saved cookies into the REST client at startup, persists them
// (sealed) after login, forgets them on logout, and watches the token's
// expiry so the TUI can drop to the landing page when it runs out.
//
// # Usage
//
//	mgr := session.NewManager(client, cookieStore, log)
//	if ok, _ := mgr.Restore(ctx); ok {
//	    // try GET /profile/view
//	}
//	...
//	mgr.Persist(ctx) // after login
//	mgr.Forget(ctx)  // on logout or 401
//
// # Bubble Tea Integration
//
// TickCmd schedules a check; HandleTick returns ExpiredMsg once the token
// is past its expiry and WarningMsg shortly before.
package session

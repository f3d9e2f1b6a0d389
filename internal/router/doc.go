// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package router maps app paths onto views.
//
// Each route belongs to a class that decides which chrome is drawn:
//
//	public     footer only (landing, login, signup)
//	app        nav and footer
//	immersive  nav only (chat)
//
// Unknown paths resolve to the landing view. Routes that need a session
// send anonymous users to /login, and a lost session sends everyone to /.
package router

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package storage is devtinder's local storage: a small key/value table in
// SQLite that survives restarts.
//
// Two keys are written by the app:
//
//	theme            the selected theme name
//	session.cookies  the login cookies, sealed with NaCl secretbox
//
// The secretbox key is derived with scrypt from a random secret kept next to
// the database (session.key, mode 0600), so copying the database alone does
// not leak the session.
package storage

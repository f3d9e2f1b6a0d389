// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package util provides small helpers shared across devtinder.
//
// # Key Functions
//
// Display:
//   - Truncate, PadRight: display-width aware (CJK, emoji) via go-runewidth
//   - Initials: avatar fallback when a profile has no photo
//   - FormatAmount: minor currency units to a display string
//   - Ago: compact relative time for chat timestamps
//
// File Operations:
//   - AtomicWriteFile: crash-safe file writing with fsync
package util

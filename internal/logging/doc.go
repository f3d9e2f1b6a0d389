// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package logging configures the process-wide logrus logger.
//
// The TUI owns the terminal, so log lines go to a file
// (~/.devtinder/devtinder.log by default) as JSON. Packages take a
// logrus.FieldLogger and fall back to Discard in tests.
package logging

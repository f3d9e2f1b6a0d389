// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package export writes chat transcripts to files.
//
// # Supported Formats
//
//   - Markdown: readable, one heading per message
//   - JSON: the transcript as fetched, for scripts
//
// # Usage
//
//	t := export.NewTranscript(self, history)
//	path, err := export.ExportToFile(t, export.NewMarkdownExporter(nil), nil)
package export

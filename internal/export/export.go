// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// ErrUnknownFormat is returned by ForFormat.
var ErrUnknownFormat = errors.New("unknown export format")

// =============================================================================
// TRANSCRIPT
// =============================================================================

// Transcript is one conversation as seen by Self.
type Transcript struct {
	ChatID     string              `json:"chatId,omitempty"`
	Self       model.User          `json:"self"`
	Peer       model.User          `json:"peer"`
	Messages   []model.ChatMessage `json:"messages"`
	ExportedAt time.Time           `json:"exportedAt"`
}

// NewTranscript builds a transcript from a fetched history. When the
// history only names the peer by id, the name is taken from the peer's
// own messages.
func NewTranscript(self model.User, peerID string, h *model.ChatHistory) *Transcript {
	t := &Transcript{Self: self, Peer: model.User{ID: peerID}, ExportedAt: time.Now()}
	if h == nil {
		t.Messages = []model.ChatMessage{}
		return t
	}
	t.ChatID = h.ID
	t.Messages = h.Messages
	if p, ok := h.Peer(self.ID); ok && p.ID != "" {
		t.Peer = p
	}
	if t.Peer.FirstName == "" {
		for _, m := range h.Messages {
			if m.SenderID == t.Peer.ID && m.FirstName != "" {
				t.Peer.FirstName, t.Peer.LastName = m.FirstName, m.LastName
				break
			}
		}
	}
	return t
}

// PeerName is the peer's display name, falling back to the id.
func (t *Transcript) PeerName() string {
	if name := t.Peer.FullName(); name != "" {
		return name
	}
	return t.Peer.ID
}

// =============================================================================
// EXPORT INTERFACE
// =============================================================================

// Exporter renders a transcript.
type Exporter interface {
	Export(t *Transcript) ([]byte, error)

	// FileExtension includes the dot, e.g. ".md".
	FileExtension() string
}

// Options configures export behavior.
type Options struct {
	// OutputDir is where files are written. Default: current directory.
	OutputDir string

	// IncludeTimestamps adds the send time to each message.
	IncludeTimestamps bool
}

// DefaultOptions returns default export options.
func DefaultOptions() *Options {
	return &Options{OutputDir: ".", IncludeTimestamps: true}
}

// ForFormat returns the exporter for a format name ("md", "markdown", "json").
func ForFormat(format string, opts *Options) (Exporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "md", "markdown":
		return NewMarkdownExporter(opts), nil
	case "json":
		return NewJSONExporter(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// =============================================================================
// EXPORT FUNCTIONS
// =============================================================================

// ExportToFile renders t and writes it under opts.OutputDir. It returns
// the path written.
func ExportToFile(t *Transcript, exporter Exporter, opts *Options) (string, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if opts.OutputDir == "" {
		opts.OutputDir = "."
	}

	content, err := exporter.Export(t)
	if err != nil {
		return "", fmt.Errorf("export failed: %w", err)
	}

	filename := fmt.Sprintf("chat_%s_%s%s",
		sanitizeFilename(t.PeerName()),
		t.ExportedAt.Format("20060102_150405"),
		exporter.FileExtension(),
	)

	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	outputPath := filepath.Join(opts.OutputDir, filename)
	if err := os.WriteFile(outputPath, content, 0o600); err != nil {
		return "", fmt.Errorf("write file: %w", err)
	}
	return outputPath, nil
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// sanitizeFilename replaces characters that are invalid in filenames on
// any platform and caps the length.
func sanitizeFilename(s string) string {
	const maxLen = 50
	if runes := []rune(s); len(runes) > maxLen {
		s = string(runes[:maxLen])
	}

	result := make([]rune, 0, len(s))
	for _, r := range s {
		switch {
		case strings.ContainsRune(`/\:*?"<>|`, r):
			result = append(result, '-')
		case r == ' ' || r == '\t' || r == '\n' || r == '\r':
			result = append(result, '_')
		case r < 32 || r == 127:
			result = append(result, '-')
		default:
			result = append(result, r)
		}
	}

	if len(result) == 0 {
		return "chat"
	}
	return string(result)
}

// formatTimestamp formats a timestamp for display.
func formatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

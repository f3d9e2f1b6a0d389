// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/model"
)

var (
	self = model.User{ID: "u-self", FirstName: "Ada", LastName: "Lovelace"}
	sent = time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
)

func history() *model.ChatHistory {
	return &model.ChatHistory{
		ID:           "chat-1",
		Participants: []model.User{self, {ID: "u-grace"}},
		Messages: []model.ChatMessage{
			{SenderID: "u-grace", FirstName: "Grace", LastName: "Hopper", Text: "hi *there*", CreatedAt: sent},
			{SenderID: "u-self", FirstName: "Ada", Text: "hello", CreatedAt: sent.Add(time.Minute)},
		},
	}
}

func TestNewTranscriptNamesPeerFromMessages(t *testing.T) {
	tr := NewTranscript(self, "u-grace", history())
	assert.Equal(t, "chat-1", tr.ChatID)
	assert.Equal(t, "Grace Hopper", tr.PeerName())
	assert.Len(t, tr.Messages, 2)

	empty := NewTranscript(self, "u-nobody", nil)
	assert.Equal(t, "u-nobody", empty.PeerName())
	assert.NotNil(t, empty.Messages)
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(NewTranscript(self, "u-grace", history()))
	require.NoError(t, err)
	md := string(out)

	assert.True(t, strings.HasPrefix(md, "---\n"))
	assert.Contains(t, md, "# Chat with Grace Hopper")
	assert.Contains(t, md, "### Grace Hopper <sub>2025-03-01 09:30:00</sub>")
	assert.Contains(t, md, "### You <sub>2025-03-01 09:31:00</sub>")
	assert.Contains(t, md, "hi *there*", "message bodies are kept as written")
	assert.Contains(t, md, "messages: 2")

	plain, err := NewMarkdownExporter(&Options{}).Export(NewTranscript(self, "u-grace", history()))
	require.NoError(t, err)
	assert.NotContains(t, string(plain), "<sub>")
}

func TestMarkdownEscapesFrontmatter(t *testing.T) {
	tr := NewTranscript(self, "u-x", nil)
	tr.Peer.FirstName = "Evil\ntitle: injected"
	out, err := NewMarkdownExporter(nil).Export(tr)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "\ntitle: injected")
	assert.Contains(t, string(out), "*No messages yet.*")
}

func TestJSONExportRoundTrips(t *testing.T) {
	tr := NewTranscript(self, "u-grace", history())
	out, err := NewJSONExporter().Export(tr)
	require.NoError(t, err)

	var back Transcript
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, "u-grace", back.Peer.ID)
	require.Len(t, back.Messages, 2)
	assert.Equal(t, "u-grace", back.Messages[0].SenderID)
	assert.True(t, sent.Equal(back.Messages[0].CreatedAt))
}

func TestForFormat(t *testing.T) {
	for _, f := range []string{"", "md", "Markdown"} {
		e, err := ForFormat(f, nil)
		require.NoError(t, err)
		assert.Equal(t, ".md", e.FileExtension())
	}
	e, err := ForFormat("json", nil)
	require.NoError(t, err)
	assert.Equal(t, ".json", e.FileExtension())

	_, err = ForFormat("html", nil)
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestExportToFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	tr := NewTranscript(self, "u-grace", history())
	tr.ExportedAt = sent

	path, err := ExportToFile(tr, NewJSONExporter(), &Options{OutputDir: dir})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat_Grace_Hopper_20250301_093000.json"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chatId": "chat-1"`)
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Grace Hopper", "Grace_Hopper"},
		{`a/b\c:d`, "a-b-c-d"},
		{"", "chat"},
		{strings.Repeat("x", 80), strings.Repeat("x", 50)},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, sanitizeFilename(tt.in), tt.in)
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// =============================================================================
// CHAT MESSAGE
// =============================================================================

// ChatMessage is one line of a conversation. Sender display fields are
// denormalized at send time so a message can be rendered without a lookup.
type ChatMessage struct {
	SenderID  string    `json:"senderId"`
	FirstName string    `json:"firstName,omitempty"`
	LastName  string    `json:"lastName,omitempty"`
	PhotoURL  string    `json:"photoUrl,omitempty"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// DisplayName returns the sender's name as shown in the chat window.
func (m ChatMessage) DisplayName() string {
	name := strings.TrimSpace(m.FirstName + " " + m.LastName)
	if name == "" {
		return m.SenderID
	}
	return name
}

// IsFrom reports whether the message was sent by userID.
func (m ChatMessage) IsFrom(userID string) bool {
	return userID != "" && m.SenderID == userID
}

// wireMessage mirrors ChatMessage but leaves senderId and createdAt raw:
// history payloads embed the sender as an object while realtime payloads
// carry a bare id.
type wireMessage struct {
	SenderID  jsoniter.RawMessage `json:"senderId"`
	FirstName string              `json:"firstName"`
	LastName  string              `json:"lastName"`
	PhotoURL  string              `json:"photoUrl"`
	Text      string              `json:"text"`
	CreatedAt string              `json:"createdAt"`
}

type embeddedSender struct {
	ID        string `json:"_id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	PhotoURL  string `json:"photoUrl"`
}

// UnmarshalJSON flattens both sender encodings into ChatMessage.
// Top-level display fields win over the embedded ones when both are present.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := ChatMessage{
		FirstName: w.FirstName,
		LastName:  w.LastName,
		PhotoURL:  w.PhotoURL,
		Text:      w.Text,
		CreatedAt: parseTimestamp(w.CreatedAt),
	}

	raw := bytes.TrimSpace(w.SenderID)
	switch {
	case len(raw) == 0 || bytes.Equal(raw, []byte("null")):
	case raw[0] == '"':
		if err := json.Unmarshal(raw, &out.SenderID); err != nil {
			return fmt.Errorf("senderId: %w", err)
		}
	case raw[0] == '{':
		var s embeddedSender
		if err := json.Unmarshal(raw, &s); err != nil {
			return fmt.Errorf("senderId: %w", err)
		}
		out.SenderID = s.ID
		if out.FirstName == "" {
			out.FirstName = s.FirstName
		}
		if out.LastName == "" {
			out.LastName = s.LastName
		}
		if out.PhotoURL == "" {
			out.PhotoURL = s.PhotoURL
		}
	default:
		return fmt.Errorf("senderId: unexpected JSON %s", raw)
	}

	*m = out
	return nil
}

// parseTimestamp accepts RFC 3339 (with or without fractional seconds) and
// returns the zero time for anything else.
func parseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	return time.Time{}
}

// =============================================================================
// CHAT HISTORY
// =============================================================================

// ChatHistory is the payload of GET /chat/{targetUserId}.
type ChatHistory struct {
	ID           string        `json:"_id,omitempty"`
	Participants []User        `json:"participants,omitempty"`
	Messages     []ChatMessage `json:"messages"`
}

// Peer returns the participant that is not selfID.
func (h ChatHistory) Peer(selfID string) (User, bool) {
	for _, p := range h.Participants {
		if p.ID != selfID {
			return p, true
		}
	}
	return User{}, false
}

// UnmarshalJSON tolerates participants sent as bare ids.
func (h *ChatHistory) UnmarshalJSON(data []byte) error {
	var w struct {
		ID           string                `json:"_id"`
		Participants []jsoniter.RawMessage `json:"participants"`
		Messages     []ChatMessage         `json:"messages"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	out := ChatHistory{ID: w.ID, Messages: w.Messages}
	for _, raw := range w.Participants {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}
		var u User
		if raw[0] == '"' {
			if err := json.Unmarshal(raw, &u.ID); err != nil {
				return fmt.Errorf("participants: %w", err)
			}
		} else if err := json.Unmarshal(raw, &u); err != nil {
			return fmt.Errorf("participants: %w", err)
		}
		out.Participants = append(out.Participants, u)
	}
	if out.Messages == nil {
		out.Messages = []ChatMessage{}
	}

	*h = out
	return nil
}

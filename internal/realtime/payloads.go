// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package realtime

// Event names understood by the chat server. The inbound spelling matches
// the server. Event payloads spell the photo field photoURL while REST
// payloads use photoUrl; decoding is case-insensitive so both are read.
const (
	EventJoinChat        = "joinChat"
	EventSendMessage     = "sendMessage"
	EventMessageReceived = "messageRecieved"
)

// JoinPayload places the session in the room for (UserID, TargetUserID).
type JoinPayload struct {
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhotoURL     string `json:"photoURL"`
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
}

// SendPayload is one outgoing chat message.
type SendPayload struct {
	SenderID     string `json:"senderId"`
	FirstName    string `json:"firstName"`
	LastName     string `json:"lastName"`
	PhotoURL     string `json:"photoURL"`
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
	Text         string `json:"text"`
}

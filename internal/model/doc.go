// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the domain types shared by the API client, the
// client state store and the views.
//
// The backend owns every one of these records. The client only ever holds a
// cached copy, replaced wholesale whenever it is fetched again.
//
// # Key Types
//
//   - User: a developer profile (also used for feed entries and connections)
//   - ConnectionRequest: a pending inbound request wrapping the sender
//   - ChatMessage: one chat line with denormalized sender display fields
//   - ChatHistory: participants and prior messages of a conversation
//   - Decision / ReviewStatus: path segments for swipe and review calls
//   - Plan, PremiumStatus, PaymentOrder, PaymentVerification: membership flow
//
// # Usage
//
// Decode a history payload whose senders may be embedded objects or ids:
//
//	var hist model.ChatHistory
//	if err := json.Unmarshal(body, &hist); err != nil {
//	    return err
//	}
//	for _, m := range hist.Messages {
//	    fmt.Println(m.DisplayName(), m.Text)
//	}
package model

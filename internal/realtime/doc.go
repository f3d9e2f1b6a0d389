// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package realtime is the chat transport: a Socket.IO client over a
// WebSocket, one Session per open conversation.
//
// # Lifecycle
//
//	sess, err := realtime.Dial(ctx, cfg.EffectiveSocketURL(), realtime.Options{Jar: jar})
//	if err != nil { ... }
//	defer sess.Close()
//
//	unsubscribe := sess.OnMessage(func(m model.ChatMessage) { ... })
//	_ = sess.Join(realtime.JoinPayload{UserID: me, TargetUserID: peer})
//	_ = sess.Send(realtime.SendPayload{...})
//
// Sessions never reconnect. When the socket drops, Done is closed and the
// session stops delivering; the owner decides whether to dial again.
package realtime

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package engineio encodes and decodes Engine.IO v4 / Socket.IO v5 text
// frames as carried over a WebSocket.
//
// A frame is one Engine.IO packet: a type digit followed by its payload.
// Message packets ('4') carry a Socket.IO packet:
//
//	<type>[<attachments>-][<namespace>,][<ack id>][<json>]
//
// so "42[\"sendMessage\",{...}]" is an event on the default namespace.
// Binary attachments are not supported.
package engineio

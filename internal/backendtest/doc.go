// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package backendtest runs an in-process DevTinder backend for tests: the
// REST endpoints on a gorilla/mux router and a Socket.IO chat endpoint on a
// gorilla/websocket upgrader, both behind one httptest.Server.
//
// State is plain exported data guarded by the server's lock; use the
// helper methods from tests rather than touching fields while requests are
// in flight.
//
//	srv := backendtest.New(t)
//	srv.SeedFeed(alice, bob)
//	client, _ := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL})
//	_, _ = client.Login(ctx, srv.Credentials())
package backendtest

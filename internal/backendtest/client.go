// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backendtest

import (
	"net/http"
	"testing"

	"github.com/devtinder/devtinder-tui/internal/api"
)

// Client returns a REST client pointed at s that already holds Self's
// session cookie. Pacing is off.
func (s *Server) Client(t testing.TB) *api.Client {
	t.Helper()
	c, err := api.NewClientWithConfig(&api.ClientConfig{BaseURL: s.URL})
	if err != nil {
		t.Fatalf("backendtest: client: %v", err)
	}
	c.SetCookies([]*http.Cookie{s.SessionCookie()})
	return c
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

// SessionCookieName is the cookie the backend issues on login.
const SessionCookieName = "token"

// SessionInfo is what the client can tell about its session without asking
// the backend. The token signature is not checked; only the server can.
type SessionInfo struct {
	UserID    string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token has an expiry at or before now.
func (s SessionInfo) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !s.ExpiresAt.After(now)
}

// ParseSessionToken reads the claims of a session JWT.
func ParseSessionToken(token string) (*SessionInfo, error) {
	if token == "" {
		return nil, errors.New("empty session token")
	}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return nil, fmt.Errorf("malformed session token: %w", err)
	}

	info := &SessionInfo{}
	for _, key := range []string{"_id", "userId", "sub"} {
		if id, ok := claims[key].(string); ok && id != "" {
			info.UserID = id
			break
		}
	}
	if v, ok := claims["iat"].(float64); ok {
		info.IssuedAt = time.Unix(int64(v), 0)
	}
	if v, ok := claims["exp"].(float64); ok {
		info.ExpiresAt = time.Unix(int64(v), 0)
	}
	return info, nil
}

// Session inspects the session cookie held by the client. ok is false when
// there is no session cookie or it cannot be parsed.
func (c *Client) Session() (info *SessionInfo, ok bool) {
	for _, ck := range c.Cookies() {
		if ck.Name != SessionCookieName || ck.Value == "" {
			continue
		}
		parsed, err := ParseSessionToken(ck.Value)
		if err != nil {
			return nil, false
		}
		return parsed, true
	}
	return nil, false
}

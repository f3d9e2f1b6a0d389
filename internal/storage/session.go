// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package storage

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Keys written by devtinder.
const (
	KeyTheme          = "theme"
	KeySessionCookies = "session.cookies"
	keySessionSalt    = "session.salt"
)

// savedCookie is the persisted subset of http.Cookie.
type savedCookie struct {
	Name     string    `json:"name"`
	Value    string    `json:"value"`
	Path     string    `json:"path,omitempty"`
	Domain   string    `json:"domain,omitempty"`
	Expires  time.Time `json:"expires,omitempty"`
	Secure   bool      `json:"secure,omitempty"`
	HttpOnly bool      `json:"httpOnly,omitempty"`
}

type savedSession struct {
	BaseURL string        `json:"baseUrl"`
	Cookies []savedCookie `json:"cookies"`
}

// SessionStore persists login cookies sealed at rest.
type SessionStore struct {
	db     *DB
	sealer *Sealer
}

// NewSessionStore builds a SessionStore using the secret file next to db.
func NewSessionStore(ctx context.Context, db *DB) (*SessionStore, error) {
	secret, err := LoadOrCreateSecret(SecretPath(db.Path()))
	if err != nil {
		return nil, err
	}
	salt, err := loadOrCreateSalt(ctx, db)
	if err != nil {
		return nil, err
	}
	sealer, err := NewSealer(secret, salt)
	if err != nil {
		return nil, err
	}
	return &SessionStore{db: db, sealer: sealer}, nil
}

func loadOrCreateSalt(ctx context.Context, db *DB) ([]byte, error) {
	if v, ok, err := db.Get(ctx, keySessionSalt); err != nil {
		return nil, err
	} else if ok {
		if salt, err := base64.StdEncoding.DecodeString(v); err == nil && len(salt) > 0 {
			return salt, nil
		}
	}
	salt := make([]byte, 16)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	if err := db.Set(ctx, keySessionSalt, base64.StdEncoding.EncodeToString(salt)); err != nil {
		return nil, err
	}
	return salt, nil
}

// Save seals cookies issued by baseURL and stores them.
func (s *SessionStore) Save(ctx context.Context, baseURL string, cookies []*http.Cookie) error {
	sess := savedSession{BaseURL: baseURL}
	for _, c := range cookies {
		sess.Cookies = append(sess.Cookies, savedCookie{
			Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain,
			Expires: c.Expires, Secure: c.Secure, HttpOnly: c.HttpOnly,
		})
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}
	sealed, err := s.sealer.Seal(data)
	if err != nil {
		return err
	}
	return s.db.Set(ctx, KeySessionCookies, sealed)
}

// Load returns the stored cookies for baseURL. Cookies saved for another
// base URL, expired cookies, and values that no longer unseal are dropped;
// an unreadable session is deleted so it is not retried.
func (s *SessionStore) Load(ctx context.Context, baseURL string, now time.Time) ([]*http.Cookie, error) {
	sealed, ok, err := s.db.Get(ctx, KeySessionCookies)
	if err != nil || !ok {
		return nil, err
	}
	data, err := s.sealer.Open(sealed)
	if err != nil {
		_ = s.db.Delete(ctx, KeySessionCookies)
		return nil, nil
	}
	var sess savedSession
	if err := json.Unmarshal(data, &sess); err != nil {
		_ = s.db.Delete(ctx, KeySessionCookies)
		return nil, nil
	}
	if sess.BaseURL != baseURL {
		return nil, nil
	}

	var out []*http.Cookie
	for _, c := range sess.Cookies {
		if !c.Expires.IsZero() && !c.Expires.After(now) {
			continue
		}
		out = append(out, &http.Cookie{
			Name: c.Name, Value: c.Value, Path: c.Path, Domain: c.Domain,
			Expires: c.Expires, Secure: c.Secure, HttpOnly: c.HttpOnly,
		})
	}
	return out, nil
}

// Clear forgets the stored session.
func (s *SessionStore) Clear(ctx context.Context) error {
	return s.db.Delete(ctx, KeySessionCookies)
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"errors"
	"fmt"
	"testing"
)

func TestClientError_Is(t *testing.T) {
	err := fmt.Errorf("load feed: %w", &ClientError{Type: ErrTypeUnauthorized, Status: 401, Message: "Please Login!"})
	if !errors.Is(err, ErrUnauthorized) {
		t.Error("wrapped 401 should match ErrUnauthorized")
	}
	if errors.Is(err, ErrTimeout) {
		t.Error("401 should not match ErrTimeout")
	}
}

func TestClientError_Error(t *testing.T) {
	e := &ClientError{Type: ErrTypeServer, Status: 500, Message: "boom", Cause: errors.New("eof")}
	if got, want := e.Error(), "boom (500): eof"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTypeForStatus(t *testing.T) {
	tests := map[int]ErrorType{
		401: ErrTypeUnauthorized,
		404: ErrTypeNotFound,
		400: ErrTypeBadRequest,
		422: ErrTypeBadRequest,
		504: ErrTypeTimeout,
		500: ErrTypeServer,
	}
	for status, want := range tests {
		if got := typeForStatus(status); got != want {
			t.Errorf("typeForStatus(%d) = %v, want %v", status, got, want)
		}
	}
}

func TestErrorMessage(t *testing.T) {
	tests := map[string]string{
		`{"message":"Invalid token"}`: "Invalid token",
		`{"error":"nope"}`:            "nope",
		"ERROR : Invalid credentials": "Invalid credentials",
		"Please Login!\n":             "Please Login!",
		"":                            "",
	}
	for in, want := range tests {
		if got := errorMessage([]byte(in)); got != want {
			t.Errorf("errorMessage(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodePayload(t *testing.T) {
	var users []struct {
		ID string `json:"_id"`
	}
	if err := decodePayload([]byte(`{"message":"ok","data":[{"_id":"a"}]}`), &users); err != nil || len(users) != 1 {
		t.Fatalf("envelope decode: %v %v", users, err)
	}
	users = nil
	if err := decodePayload([]byte(`[{"_id":"b"}]`), &users); err != nil || users[0].ID != "b" {
		t.Fatalf("bare decode: %v %v", users, err)
	}

	var user struct {
		ID string `json:"_id"`
	}
	if err := decodePayload([]byte(`{"_id":"c"}`), &user); err != nil || user.ID != "c" {
		t.Fatalf("bare object decode: %v %v", user, err)
	}
}

func TestParseSessionToken(t *testing.T) {
	// {"alg":"HS256"} . {"_id":"u1","iat":1700000000,"exp":1700003600} . sig
	token := "eyJhbGciOiJIUzI1NiJ9.eyJfaWQiOiJ1MSIsImlhdCI6MTcwMDAwMDAwMCwiZXhwIjoxNzAwMDAzNjAwfQ.c2ln"
	info, err := ParseSessionToken(token)
	if err != nil {
		t.Fatalf("ParseSessionToken: %v", err)
	}
	if info.UserID != "u1" {
		t.Errorf("UserID = %q, want %q", info.UserID, "u1")
	}
	if info.ExpiresAt.Unix() != 1700003600 {
		t.Errorf("ExpiresAt = %v", info.ExpiresAt)
	}
	if _, err := ParseSessionToken("garbage"); err == nil {
		t.Error("garbage token should fail")
	}
}

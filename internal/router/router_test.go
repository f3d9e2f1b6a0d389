// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve(t *testing.T) {
	r := New()
	tests := []struct {
		path  string
		name  Name
		class Class
	}{
		{"/", Landing, ClassPublic},
		{"/login", Login, ClassPublic},
		{"/signup", Signup, ClassPublic},
		{"/feed", Feed, ClassApp},
		{"/feed/", Feed, ClassApp},
		{"/profile", Profile, ClassApp},
		{"/profile/password", Password, ClassApp},
		{"/connections", Connections, ClassApp},
		{"/requests?x=1", Requests, ClassApp},
		{"/chat/abc123", Chat, ClassImmersive},
		{"/premium", Premium, ClassApp},
		{"/theme", Theme, ClassApp},
		{"feed", Feed, ClassApp},
		{"/nope", Landing, ClassPublic},
		{"/chat", Landing, ClassPublic},
		{"/chat/a/b", Landing, ClassPublic},
	}
	for _, tt := range tests {
		m := r.Resolve(tt.path)
		if m.Route.Name != tt.name {
			t.Errorf("Resolve(%q) = %q, want %q", tt.path, m.Route.Name, tt.name)
		}
		if m.Route.Class != tt.class {
			t.Errorf("Resolve(%q).Class = %v, want %v", tt.path, m.Route.Class, tt.class)
		}
	}
}

func TestChatParam(t *testing.T) {
	m := New().Resolve(ChatPath("u-42"))
	assert.Equal(t, Chat, m.Route.Name)
	assert.Equal(t, "u-42", m.Param("targetUserId"))
}

func TestChrome(t *testing.T) {
	assert.False(t, ClassPublic.ShowsNav())
	assert.True(t, ClassPublic.ShowsFooter())
	assert.True(t, ClassApp.ShowsNav())
	assert.True(t, ClassApp.ShowsFooter())
	assert.True(t, ClassImmersive.ShowsNav())
	assert.False(t, ClassImmersive.ShowsFooter())
}

func TestNavigateRedirects(t *testing.T) {
	r := New()

	m := r.Navigate("/connections", false)
	assert.Equal(t, Login, m.Route.Name)
	assert.Equal(t, "/connections", m.RedirectedFrom)

	m = r.Navigate("/connections", true)
	assert.Equal(t, Connections, m.Route.Name)
	assert.Empty(t, m.RedirectedFrom)

	m = r.Navigate("/login", true)
	assert.Equal(t, Feed, m.Route.Name)

	m = r.Navigate("/theme", false)
	assert.Equal(t, Theme, m.Route.Name, "theme works without a session")

	assert.Equal(t, Landing, r.Unauthorized().Route.Name)
}

func TestRoutePath(t *testing.T) {
	r := New()
	p, err := r.path(Chat, "targetUserId", "u-1")
	require.NoError(t, err)
	assert.Equal(t, "/chat/u-1", p)

	p, err = r.path(Password)
	require.NoError(t, err)
	assert.Equal(t, "/profile/password", p)

	_, err = r.path(Name("missing"))
	assert.Error(t, err, "unknown names fail instead of panicking")
}

func TestChatPathRoundTrip(t *testing.T) {
	r := New()
	for _, id := range []string{"66a1f0c2", "a b", "x/y", "50%"} {
		p := ChatPath(id)
		m := r.Resolve(p)
		assert.Equal(t, Chat, m.Route.Name, p)
		assert.Equal(t, id, m.Param("targetUserId"), p)
	}
	assert.Equal(t, PathLanding, ChatPath(""))
}

func TestClean(t *testing.T) {
	for in, want := range map[string]string{
		"":             "/",
		"/":            "/",
		"///":          "/",
		"/feed/":       "/feed",
		"requests#top": "/requests",
	} {
		if got := Clean(in); got != want {
			t.Errorf("Clean(%q) = %q, want %q", in, got, want)
		}
	}
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backendtest

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/gorilla/mux"
	jsoniter "github.com/json-iterator/go"

	"github.com/devtinder/devtinder-tui/internal/model"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	// Email and Password log in as Self.
	Email    = "ada@devtinder.dev"
	Password = "Str0ng!pass"

	tokenSecret = "backendtest"
)

// Call is one REST request seen by the server.
type Call struct {
	Method string
	Path   string
	Body   []byte
}

// Server is the fake backend.
type Server struct {
	*httptest.Server

	mu sync.Mutex

	Self        model.User
	password    string
	token       string
	Feed        []model.User
	Connections []model.User
	Requests    []model.ConnectionRequest
	Chats       map[string]model.ChatHistory
	Premium     model.PremiumStatus
	// Envelope wraps list responses in {"data": ...}.
	Envelope bool

	tokenGen int
	calls    []Call
	failures map[string]int
	delays   map[string]time.Duration

	sockets *socketHub
}

// New starts a server that is closed when the test ends.
func New(t testing.TB) *Server {
	t.Helper()
	s := &Server{
		Self: model.User{
			ID:        "u-self",
			FirstName: "Ada",
			LastName:  "Lovelace",
			EmailID:   Email,
			Age:       36,
			Gender:    "female",
			Role:      "backend",
			Skills:    []string{"go", "sql"},
		},
		password: Password,
		Chats:    make(map[string]model.ChatHistory),
		failures: make(map[string]int),
		delays:   make(map[string]time.Duration),
		Envelope: true,
	}
	s.sockets = newSocketHub(s)
	s.token = s.signToken(time.Now().Add(24 * time.Hour))
	s.Server = httptest.NewServer(s.routes())
	t.Cleanup(func() {
		s.sockets.closeAll()
		s.Server.Close()
	})
	return s
}

// Credentials returns the login form for Self.
func (s *Server) Credentials() model.Credentials {
	return model.Credentials{EmailID: Email, Password: Password}
}

// Token returns the session token handed out on login.
func (s *Server) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// SessionCookie is the cookie a logged-in client holds.
func (s *Server) SessionCookie() *http.Cookie {
	return &http.Cookie{Name: "token", Value: s.Token(), Path: "/"}
}

// ExpireSession invalidates the current token; later calls get 401.
func (s *Server) ExpireSession() {
	s.mu.Lock()
	s.token = s.signToken(time.Now().Add(24 * time.Hour))
	s.mu.Unlock()
}

// signToken must be called with mu held (or before the server starts).
func (s *Server) signToken(exp time.Time) string {
	s.tokenGen++
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"_id": s.Self.ID,
		"iat": time.Now().Unix(),
		"exp": exp.Unix(),
		"jti": s.tokenGen,
	})
	signed, err := tok.SignedString([]byte(tokenSecret))
	if err != nil {
		panic(err)
	}
	return signed
}

// =============================================================================
// SEEDING AND INSPECTION
// =============================================================================

// SeedFeed replaces the feed.
func (s *Server) SeedFeed(users ...model.User) {
	s.mu.Lock()
	s.Feed = append([]model.User(nil), users...)
	s.mu.Unlock()
}

// SeedConnections replaces the connections list.
func (s *Server) SeedConnections(users ...model.User) {
	s.mu.Lock()
	s.Connections = append([]model.User(nil), users...)
	s.mu.Unlock()
}

// SeedRequests replaces the pending requests.
func (s *Server) SeedRequests(reqs ...model.ConnectionRequest) {
	s.mu.Lock()
	s.Requests = append([]model.ConnectionRequest(nil), reqs...)
	s.mu.Unlock()
}

// SeedChat sets the history returned for peerID.
func (s *Server) SeedChat(peerID string, history model.ChatHistory) {
	s.mu.Lock()
	s.Chats[peerID] = history
	s.mu.Unlock()
}

// Fail makes requests whose "METHOD /path" starts with prefix answer status.
// Status 0 clears the failure.
func (s *Server) Fail(prefix string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if status == 0 {
		delete(s.failures, prefix)
		return
	}
	s.failures[prefix] = status
}

// Delay holds requests matching prefix for d before answering.
func (s *Server) Delay(prefix string, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delays[prefix] = d
}

// Calls returns every REST request seen so far.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// CallCount counts requests whose "METHOD /path" starts with prefix.
func (s *Server) CallCount(prefix string) int {
	n := 0
	for _, c := range s.Calls() {
		if strings.HasPrefix(c.Method+" "+c.Path, prefix) {
			n++
		}
	}
	return n
}

// FeedIDs returns the ids left in the server-side feed.
func (s *Server) FeedIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.Feed))
	for _, u := range s.Feed {
		ids = append(ids, u.ID)
	}
	return ids
}

func (s *Server) routes() http.Handler {
	r := mux.NewRouter()
	r.Use(s.record)

	r.HandleFunc("/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/signup", s.handleSignup).Methods(http.MethodPost)
	r.HandleFunc("/logout", s.handleLogout).Methods(http.MethodPost)
	r.PathPrefix("/socket.io/").Handler(s.sockets)

	authed := r.NewRoute().Subrouter()
	authed.Use(s.requireAuth)
	authed.HandleFunc("/profile/view", s.handleProfile).Methods(http.MethodGet)
	authed.HandleFunc("/profile/edit", s.handleEditProfile).Methods(http.MethodPatch)
	authed.HandleFunc("/profile/password", s.handlePassword).Methods(http.MethodPatch)
	authed.HandleFunc("/user/feed", s.handleFeed).Methods(http.MethodGet)
	authed.HandleFunc("/user/connections", s.handleConnections).Methods(http.MethodGet)
	authed.HandleFunc("/user/requests/recieved", s.handleRequests).Methods(http.MethodGet)
	authed.HandleFunc("/request/send/{status}/{id}", s.handleSend).Methods(http.MethodPost)
	authed.HandleFunc("/request/review/{status}/{id}", s.handleReview).Methods(http.MethodPost)
	authed.HandleFunc("/chat/{targetUserId}", s.handleChat).Methods(http.MethodGet)
	authed.HandleFunc("/premium/verify", s.handlePremium).Methods(http.MethodGet)
	authed.HandleFunc("/payment/create", s.handleCreateOrder).Methods(http.MethodPost)
	authed.HandleFunc("/payment/verify", s.handleVerifyPayment).Methods(http.MethodPost)
	return r
}

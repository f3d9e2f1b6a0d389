// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backendtest

import (
	"bytes"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/mux"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// =============================================================================
// MIDDLEWARE
// =============================================================================

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/socket.io/") {
			next.ServeHTTP(w, r)
			return
		}
		body, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
		key := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.calls = append(s.calls, Call{Method: r.Method, Path: r.URL.Path, Body: body})
		status := 0
		for prefix, code := range s.failures {
			if strings.HasPrefix(key, prefix) {
				status = code
			}
		}
		var delay time.Duration
		for prefix, d := range s.delays {
			if strings.HasPrefix(key, prefix) {
				delay = d
			}
		}
		s.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		if status != 0 {
			http.Error(w, "ERROR : injected failure", status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) authorized(r *http.Request) bool {
	c, err := r.Cookie("token")
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return c.Value == s.token
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.authorized(r) {
			http.Error(w, "Please Login!", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeList answers with the envelope when Envelope is set.
func (s *Server) writeList(w http.ResponseWriter, v interface{}) {
	s.mu.Lock()
	envelope := s.Envelope
	s.mu.Unlock()
	if envelope {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Data fetched successfully", "data": v})
		return
	}
	s.writeJSON(w, http.StatusOK, v)
}

func (s *Server) setSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    s.Token(),
		Path:     "/",
		HttpOnly: true,
		Expires:  time.Now().Add(8 * time.Hour),
	})
}

// =============================================================================
// AUTH
// =============================================================================

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds model.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "ERROR : bad body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	ok := strings.EqualFold(creds.EmailID, s.Self.EmailID) && creds.Password == s.password
	self := s.Self
	s.mu.Unlock()
	if !ok {
		http.Error(w, "ERROR : Invalid credentials", http.StatusBadRequest)
		return
	}
	s.setSessionCookie(w)
	s.writeJSON(w, http.StatusOK, self)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req model.SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "ERROR : bad body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.Self = model.User{ID: s.Self.ID, FirstName: req.FirstName, LastName: req.LastName, EmailID: req.EmailID}
	s.password = req.Password
	self := s.Self
	s.mu.Unlock()
	s.setSessionCookie(w)
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"message": "User Added successfully!", "data": self})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{Name: "token", Value: "", Path: "/", Expires: time.Unix(0, 0)})
	w.Write([]byte("Logout Successful!!"))
}

// =============================================================================
// PROFILE
// =============================================================================

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	self := s.Self
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, self)
}

func (s *Server) handleEditProfile(w http.ResponseWriter, r *http.Request) {
	var p model.EditableProfile
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "ERROR : Invalid Edit Request", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	u := &s.Self
	u.FirstName, u.LastName, u.Age, u.Gender = p.FirstName, p.LastName, p.Age, p.Gender
	u.Role, u.Experience, u.About, u.Skills = p.Role, p.Experience, p.About, p.Skills
	u.PhotoURL, u.GithubURL, u.LinkedinURL = p.PhotoURL, p.GithubURL, p.LinkedinURL
	self := s.Self
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]interface{}{"message": "Profile updated", "data": self})
}

func (s *Server) handlePassword(w http.ResponseWriter, r *http.Request) {
	var p model.PasswordChange
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		http.Error(w, "ERROR : bad body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if p.OldPassword != s.password {
		http.Error(w, "ERROR : Current password is incorrect", http.StatusBadRequest)
		return
	}
	s.password = p.NewPassword
	w.Write([]byte("Password updated"))
}

// =============================================================================
// LISTS
// =============================================================================

func (s *Server) handleFeed(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	feed := append([]model.User{}, s.Feed...)
	s.mu.Unlock()
	s.writeList(w, feed)
}

func (s *Server) handleConnections(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	conns := append([]model.User{}, s.Connections...)
	s.mu.Unlock()
	s.writeList(w, conns)
}

func (s *Server) handleRequests(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	reqs := append([]model.ConnectionRequest{}, s.Requests...)
	s.mu.Unlock()
	s.writeList(w, reqs)
}

// =============================================================================
// DECISIONS
// =============================================================================

func (s *Server) handleSend(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if !model.Decision(vars["status"]).Valid() {
		http.Error(w, "ERROR : Invalid status type: "+vars["status"], http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	for i, u := range s.Feed {
		if u.ID == vars["id"] {
			s.Feed = append(s.Feed[:i:i], s.Feed[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Connection request sent"})
}

func (s *Server) handleReview(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	status := model.ReviewStatus(vars["status"])
	if !status.Valid() {
		http.Error(w, "ERROR : Status not allowed!", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, req := range s.Requests {
		if req.ID != vars["id"] {
			continue
		}
		s.Requests = append(s.Requests[:i:i], s.Requests[i+1:]...)
		if status == model.ReviewAccepted {
			s.Connections = append(s.Connections, req.From)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "Connection request " + string(status)})
		return
	}
	http.Error(w, "ERROR : Connection request not found", http.StatusNotFound)
}

// =============================================================================
// CHAT
// =============================================================================

// handleChat returns the stored history with senders embedded as objects,
// the shape the real backend produces after populate().
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	peer := mux.Vars(r)["targetUserId"]
	s.mu.Lock()
	history, ok := s.Chats[peer]
	self := s.Self
	s.mu.Unlock()

	if !ok {
		s.writeJSON(w, http.StatusOK, map[string]interface{}{
			"_id":          "chat-" + peer,
			"participants": []string{self.ID, peer},
			"messages":     []interface{}{},
		})
		return
	}

	msgs := make([]map[string]interface{}, 0, len(history.Messages))
	for _, m := range history.Messages {
		msgs = append(msgs, map[string]interface{}{
			"senderId": map[string]string{
				"_id":       m.SenderID,
				"firstName": m.FirstName,
				"lastName":  m.LastName,
				"photoUrl":  m.PhotoURL,
			},
			"text":      m.Text,
			"createdAt": m.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"_id":          history.ID,
		"participants": history.Participants,
		"messages":     msgs,
	})
}

// =============================================================================
// PREMIUM
// =============================================================================

func (s *Server) handlePremium(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	status := s.Premium
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, status)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		MembershipType string `json:"membershipType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "ERROR : bad body", http.StatusBadRequest)
		return
	}
	plan, ok := model.ParsePlan(body.MembershipType)
	if !ok {
		http.Error(w, "ERROR : unknown plan", http.StatusBadRequest)
		return
	}
	amount := int64(30000)
	if plan == model.PlanGold {
		amount = 70000
	}
	s.mu.Lock()
	self := s.Self
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, model.PaymentOrder{
		OrderID:  "order_" + string(plan),
		Amount:   amount,
		Currency: "INR",
		KeyID:    "rzp_test_key",
		Status:   "created",
		Notes: model.PaymentNotes{
			FirstName:      self.FirstName,
			LastName:       self.LastName,
			EmailID:        self.EmailID,
			MembershipType: string(plan),
		},
	})
}

func (s *Server) handleVerifyPayment(w http.ResponseWriter, r *http.Request) {
	var v model.PaymentVerification
	if err := json.NewDecoder(r.Body).Decode(&v); err != nil || v.OrderID == "" {
		http.Error(w, "ERROR : Webhook signature is invalid", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	s.Premium = model.PremiumStatus{IsPremium: true, MembershipType: strings.TrimPrefix(v.OrderID, "order_")}
	s.Self.IsPremium = true
	s.Self.MembershipType = s.Premium.MembershipType
	s.mu.Unlock()
	s.writeJSON(w, http.StatusOK, map[string]string{"msg": "Payment verified"})
}

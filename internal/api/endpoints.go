// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// =============================================================================
// AUTH
// =============================================================================

// Login authenticates and stores the session cookie. Returns the profile.
func (c *Client) Login(ctx context.Context, creds model.Credentials) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/login", creds, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Signup creates an account. The backend logs the new user in.
func (c *Client) Signup(ctx context.Context, req model.SignupRequest) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPost, "/signup", req, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// Logout ends the session on the backend and drops local cookies either way.
func (c *Client) Logout(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/logout", nil, nil)
	c.ClearCookies()
	return err
}

// =============================================================================
// PROFILE
// =============================================================================

// Profile fetches the logged-in user. Returns ErrUnauthorized without a
// valid session.
func (c *Client) Profile(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodGet, "/profile/view", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// EditProfile saves the editable fields and returns the updated profile.
func (c *Client) EditProfile(ctx context.Context, p model.EditableProfile) (*model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPatch, "/profile/edit", p, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// ChangePassword replaces the account password.
func (c *Client) ChangePassword(ctx context.Context, p model.PasswordChange) error {
	return c.do(ctx, http.MethodPatch, "/profile/password", p, nil)
}

// =============================================================================
// USER LISTS
// =============================================================================

// Feed fetches candidate profiles.
func (c *Client) Feed(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/user/feed", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Connections fetches accepted matches.
func (c *Client) Connections(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.do(ctx, http.MethodGet, "/user/connections", nil, &users); err != nil {
		return nil, err
	}
	return users, nil
}

// Requests fetches pending inbound connection requests.
func (c *Client) Requests(ctx context.Context) ([]model.ConnectionRequest, error) {
	var reqs []model.ConnectionRequest
	if err := c.do(ctx, http.MethodGet, "/user/requests/recieved", nil, &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// =============================================================================
// DECISIONS
// =============================================================================

// SendDecision records a swipe on userID.
func (c *Client) SendDecision(ctx context.Context, decision model.Decision, userID string) error {
	if !decision.Valid() {
		return &ClientError{Type: ErrTypeBadRequest, Message: fmt.Sprintf("invalid decision %q", decision)}
	}
	if userID == "" {
		return &ClientError{Type: ErrTypeBadRequest, Message: "missing user id"}
	}
	path := "/request/send/" + string(decision) + "/" + url.PathEscape(userID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// ReviewRequest accepts or rejects the request requestID.
func (c *Client) ReviewRequest(ctx context.Context, status model.ReviewStatus, requestID string) error {
	if !status.Valid() {
		return &ClientError{Type: ErrTypeBadRequest, Message: fmt.Sprintf("invalid review status %q", status)}
	}
	if requestID == "" {
		return &ClientError{Type: ErrTypeBadRequest, Message: "missing request id"}
	}
	path := "/request/review/" + string(status) + "/" + url.PathEscape(requestID)
	return c.do(ctx, http.MethodPost, path, nil, nil)
}

// =============================================================================
// CHAT
// =============================================================================

// ChatHistory fetches the conversation with targetUserID. Sender fields are
// normalized to the flat message shape.
func (c *Client) ChatHistory(ctx context.Context, targetUserID string) (*model.ChatHistory, error) {
	if targetUserID == "" {
		return nil, &ClientError{Type: ErrTypeBadRequest, Message: "missing target user id"}
	}
	var history model.ChatHistory
	if err := c.do(ctx, http.MethodGet, "/chat/"+url.PathEscape(targetUserID), nil, &history); err != nil {
		return nil, err
	}
	return &history, nil
}

// =============================================================================
// PREMIUM
// =============================================================================

// PremiumStatus reports whether the user holds a membership.
func (c *Client) PremiumStatus(ctx context.Context) (*model.PremiumStatus, error) {
	var status model.PremiumStatus
	if err := c.do(ctx, http.MethodGet, "/premium/verify", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

type createOrderRequest struct {
	MembershipType model.Plan `json:"membershipType"`
}

// CreateOrder opens a payment order for plan.
func (c *Client) CreateOrder(ctx context.Context, plan model.Plan) (*model.PaymentOrder, error) {
	if _, ok := model.ParsePlan(string(plan)); !ok {
		return nil, &ClientError{Type: ErrTypeBadRequest, Message: fmt.Sprintf("unknown plan %q", plan)}
	}
	var order model.PaymentOrder
	if err := c.do(ctx, http.MethodPost, "/payment/create", createOrderRequest{MembershipType: plan}, &order); err != nil {
		return nil, err
	}
	return &order, nil
}

// VerifyPayment forwards the provider callback payload.
func (c *Client) VerifyPayment(ctx context.Context, v model.PaymentVerification) error {
	return c.do(ctx, http.MethodPost, "/payment/verify", v, nil)
}

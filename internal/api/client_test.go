// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/backendtest"
	"github.com/devtinder/devtinder-tui/internal/model"
)

func newClient(t *testing.T, srv *backendtest.Server) *api.Client {
	t.Helper()
	c, err := api.NewClientWithConfig(&api.ClientConfig{BaseURL: srv.URL + "/", Timeout: 5 * time.Second})
	require.NoError(t, err)
	return c
}

func loggedIn(t *testing.T, srv *backendtest.Server) *api.Client {
	t.Helper()
	c := newClient(t, srv)
	_, err := c.Login(context.Background(), srv.Credentials())
	require.NoError(t, err)
	return c
}

func TestNewClientWithConfig_BadURL(t *testing.T) {
	_, err := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "not a url"})
	assert.Error(t, err)
}

func TestLoginAndProfile(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	_, err := c.Profile(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)

	user, err := c.Login(ctx, srv.Credentials())
	require.NoError(t, err)
	assert.Equal(t, "Ada", user.FirstName)
	assert.NotEmpty(t, c.Cookies())

	me, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, srv.Self.ID, me.ID)
}

func TestLogin_BadCredentials(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv)

	_, err := c.Login(context.Background(), model.Credentials{EmailID: backendtest.Email, Password: "nope"})
	require.Error(t, err)

	var ce *api.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, api.ErrTypeBadRequest, ce.Type)
	assert.Equal(t, http.StatusBadRequest, ce.Status)
	assert.Equal(t, "Invalid credentials", ce.Message)
	assert.Equal(t, "Invalid credentials", api.UserMessage(err))
}

func TestSignupLogsIn(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv)
	ctx := context.Background()

	user, err := c.Signup(ctx, model.SignupRequest{FirstName: "Grace", LastName: "Hopper", EmailID: "grace@devtinder.dev", Password: "C0bol!rules"})
	require.NoError(t, err)
	assert.Equal(t, "Grace", user.FirstName, "envelope unwrapped")

	me, err := c.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "grace@devtinder.dev", me.EmailID)
}

func TestLogoutClearsSession(t *testing.T) {
	srv := backendtest.New(t)
	c := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, c.Logout(ctx))
	assert.Empty(t, c.Cookies())
	_, err := c.Profile(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
}

func TestLists_EnvelopeAndBare(t *testing.T) {
	for _, envelope := range []bool{true, false} {
		srv := backendtest.New(t)
		srv.Envelope = envelope
		srv.SeedFeed(model.User{ID: "a", FirstName: "A"}, model.User{ID: "b", FirstName: "B"})
		srv.SeedConnections(model.User{ID: "c", FirstName: "C"})
		srv.SeedRequests(model.ConnectionRequest{ID: "r1", From: model.User{ID: "u1", FirstName: "U"}})
		c := loggedIn(t, srv)
		ctx := context.Background()

		feed, err := c.Feed(ctx)
		require.NoError(t, err)
		assert.Len(t, feed, 2, "envelope=%v", envelope)

		conns, err := c.Connections(ctx)
		require.NoError(t, err)
		assert.Equal(t, "C", conns[0].FirstName)

		reqs, err := c.Requests(ctx)
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, "u1", reqs[0].From.ID)
	}
}

func TestSendDecision(t *testing.T) {
	srv := backendtest.New(t)
	srv.SeedFeed(model.User{ID: "a"}, model.User{ID: "b"})
	c := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, c.SendDecision(ctx, model.DecisionIgnored, "a"))
	assert.Equal(t, 1, srv.CallCount("POST /request/send/ignored/a"))
	assert.Equal(t, []string{"b"}, srv.FeedIDs())

	err := c.SendDecision(ctx, "maybe", "b")
	assert.Error(t, err)
	assert.Equal(t, 0, srv.CallCount("POST /request/send/maybe"), "invalid decision never sent")
}

func TestReviewRequest(t *testing.T) {
	srv := backendtest.New(t)
	srv.SeedRequests(model.ConnectionRequest{ID: "r1", From: model.User{ID: "u1"}})
	c := loggedIn(t, srv)
	ctx := context.Background()

	require.NoError(t, c.ReviewRequest(ctx, model.ReviewAccepted, "r1"))
	err := c.ReviewRequest(ctx, model.ReviewAccepted, "r1")
	assert.ErrorIs(t, err, api.ErrNotFound)
}

func TestChatHistory_NormalizesSender(t *testing.T) {
	srv := backendtest.New(t)
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	srv.SeedChat("peer", model.ChatHistory{
		ID:           "chat1",
		Participants: []model.User{{ID: "u-self"}, {ID: "peer", FirstName: "Linus"}},
		Messages:     []model.ChatMessage{{SenderID: "peer", FirstName: "Linus", Text: "hi", CreatedAt: ts}},
	})
	c := loggedIn(t, srv)

	h, err := c.ChatHistory(context.Background(), "peer")
	require.NoError(t, err)
	require.Len(t, h.Messages, 1)
	assert.Equal(t, "peer", h.Messages[0].SenderID)
	assert.Equal(t, "Linus", h.Messages[0].FirstName)
	assert.True(t, ts.Equal(h.Messages[0].CreatedAt))

	empty, err := c.ChatHistory(context.Background(), "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty.Messages)
	assert.Empty(t, empty.Messages)
}

func TestPremiumFlow(t *testing.T) {
	srv := backendtest.New(t)
	c := loggedIn(t, srv)
	ctx := context.Background()

	st, err := c.PremiumStatus(ctx)
	require.NoError(t, err)
	assert.False(t, st.IsPremium)

	order, err := c.CreateOrder(ctx, model.PlanGold)
	require.NoError(t, err)
	assert.Equal(t, int64(70000), order.Amount)
	assert.Equal(t, "gold", order.Notes.MembershipType)

	_, err = c.CreateOrder(ctx, "platinum")
	assert.Error(t, err)

	require.NoError(t, c.VerifyPayment(ctx, model.PaymentVerification{OrderID: order.OrderID, PaymentID: "pay_1", Signature: "ab"}))
	st, err = c.PremiumStatus(ctx)
	require.NoError(t, err)
	assert.True(t, st.IsPremium)
	assert.Equal(t, "gold", st.MembershipType)
}

func TestProfileEditAndPassword(t *testing.T) {
	srv := backendtest.New(t)
	c := loggedIn(t, srv)
	ctx := context.Background()

	edit := srv.Self.Editable()
	edit.About = "compilers"
	user, err := c.EditProfile(ctx, edit)
	require.NoError(t, err)
	assert.Equal(t, "compilers", user.About)

	err = c.ChangePassword(ctx, model.PasswordChange{OldPassword: "wrong", NewPassword: "N3w!pass"})
	assert.Error(t, err)
	require.NoError(t, c.ChangePassword(ctx, model.PasswordChange{OldPassword: backendtest.Password, NewPassword: "N3w!pass"}))
}

func TestServerErrorsAndSessionExpiry(t *testing.T) {
	srv := backendtest.New(t)
	c := loggedIn(t, srv)
	ctx := context.Background()

	srv.Fail("GET /user/feed", http.StatusInternalServerError)
	_, err := c.Feed(ctx)
	var ce *api.ClientError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, api.ErrTypeServer, ce.Type)
	assert.Equal(t, "injected failure", ce.Message)

	srv.ExpireSession()
	_, err = c.Connections(ctx)
	assert.ErrorIs(t, err, api.ErrUnauthorized)
	assert.Contains(t, api.UserMessage(err), "session has expired")
}

func TestCancellationAndTimeout(t *testing.T) {
	srv := backendtest.New(t)
	c := loggedIn(t, srv)
	srv.Delay("GET /user/feed", 2*time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()
	_, err := c.Feed(ctx)
	assert.ErrorIs(t, err, api.ErrCanceled)

	tctx, tcancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer tcancel()
	_, err = c.Feed(tctx)
	assert.ErrorIs(t, err, api.ErrTimeout)
}

func TestUnreachable(t *testing.T) {
	c, err := api.NewClientWithConfig(&api.ClientConfig{BaseURL: "http://127.0.0.1:1", Timeout: time.Second})
	require.NoError(t, err)
	_, err = c.Feed(context.Background())
	assert.ErrorIs(t, err, api.ErrUnreachable)
}

func TestSession(t *testing.T) {
	srv := backendtest.New(t)
	c := newClient(t, srv)
	_, ok := c.Session()
	assert.False(t, ok)

	_, err := c.Login(context.Background(), srv.Credentials())
	require.NoError(t, err)
	info, ok := c.Session()
	require.True(t, ok)
	assert.Equal(t, srv.Self.ID, info.UserID)
	assert.False(t, info.Expired(time.Now()))
	assert.True(t, info.Expired(time.Now().Add(48*time.Hour)))
}

func TestSetCookiesRestoresSession(t *testing.T) {
	srv := backendtest.New(t)
	first := loggedIn(t, srv)

	second := newClient(t, srv)
	second.SetCookies(first.Cookies())
	_, err := second.Profile(context.Background())
	assert.NoError(t, err)
}

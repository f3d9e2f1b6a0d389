// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package premium

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/backendtest"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/store"
	"github.com/devtinder/devtinder-tui/internal/validate"
)

func setup(t *testing.T) (*Service, *store.Store, *backendtest.Server) {
	t.Helper()
	srv := backendtest.New(t)
	st := store.New()
	st.SetUser(srv.Self)
	return NewService(srv.Client(t), st, nil), st, srv
}

func TestStatusNotPremium(t *testing.T) {
	s, _, _ := setup(t)
	status, err := s.Status(context.Background())
	require.NoError(t, err)
	assert.False(t, status.IsPremium)
}

func TestCreateOrder(t *testing.T) {
	s, _, srv := setup(t)

	order, err := s.CreateOrder(context.Background(), " Gold ")
	require.NoError(t, err)
	assert.Equal(t, "order_gold", order.OrderID)
	assert.Equal(t, int64(70000), order.Amount)
	assert.Equal(t, "gold", order.Notes.MembershipType)
	assert.Equal(t, 1, srv.CallCount("POST /payment/create"))

	lines := Checkout(order)
	assert.Contains(t, lines, "Amount:   INR 700.00")
	assert.Contains(t, lines, "Customer: Ada Lovelace <ada@devtinder.dev>")
}

func TestCreateOrderUnknownPlan(t *testing.T) {
	s, _, srv := setup(t)
	_, err := s.CreateOrder(context.Background(), "platinum")
	assert.ErrorIs(t, err, ErrUnknownPlan)
	assert.Equal(t, 0, srv.CallCount("POST "))
}

func TestVerifyUpdatesUser(t *testing.T) {
	s, st, srv := setup(t)

	status, err := s.Verify(context.Background(), model.PaymentVerification{
		OrderID:   "order_silver",
		PaymentID: "pay_123",
		Signature: "deadbeef",
	})
	require.NoError(t, err)
	assert.True(t, status.IsPremium)
	assert.Equal(t, "silver", status.MembershipType)
	assert.True(t, st.User().IsPremium)
	assert.Equal(t, 1, srv.CallCount("POST /payment/verify"))
}

func TestVerifyRejectsMalformedPayload(t *testing.T) {
	s, _, srv := setup(t)

	_, err := s.Verify(context.Background(), model.PaymentVerification{OrderID: "order_silver", Signature: "not hex"})
	require.Error(t, err)
	var fe validate.FieldErrors
	require.True(t, errors.As(err, &fe))
	assert.NotEmpty(t, fe.Field("razorpay_payment_id"))
	assert.NotEmpty(t, fe.Field("razorpay_signature"))
	assert.Equal(t, 0, srv.CallCount("POST /payment/verify"))
}

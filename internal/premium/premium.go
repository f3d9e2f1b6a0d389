// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package premium

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/store"
	"github.com/devtinder/devtinder-tui/internal/util"
	"github.com/devtinder/devtinder-tui/internal/validate"
)

// Backend is the slice of the REST client the service needs.
type Backend interface {
	PremiumStatus(ctx context.Context) (*model.PremiumStatus, error)
	CreateOrder(ctx context.Context, plan model.Plan) (*model.PaymentOrder, error)
	VerifyPayment(ctx context.Context, v model.PaymentVerification) error
}

// ErrUnknownPlan is returned for a plan name that is not offered.
var ErrUnknownPlan = errors.New("premium: unknown plan")

// Service runs the premium flow. st may be nil; when set, the user slice
// picks up membership changes.
type Service struct {
	backend Backend
	store   *store.Store
	log     logrus.FieldLogger
}

// NewService creates a premium service.
func NewService(backend Backend, st *store.Store, log logrus.FieldLogger) *Service {
	return &Service{backend: backend, store: st, log: logging.OrDiscard(log)}
}

// Status fetches the current membership.
func (s *Service) Status(ctx context.Context) (*model.PremiumStatus, error) {
	status, err := s.backend.PremiumStatus(ctx)
	if err != nil {
		return nil, fmt.Errorf("premium: status: %w", err)
	}
	s.apply(status)
	return status, nil
}

// CreateOrder opens an order for the named plan.
func (s *Service) CreateOrder(ctx context.Context, planName string) (*model.PaymentOrder, error) {
	plan, ok := model.ParsePlan(planName)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownPlan, planName)
	}
	order, err := s.backend.CreateOrder(ctx, plan)
	if err != nil {
		s.log.WithError(err).WithField("plan", string(plan)).Warn("Failed to create order")
		return nil, fmt.Errorf("premium: create order: %w", err)
	}
	s.log.WithFields(logrus.Fields{"plan": string(plan), "order": order.OrderID}).Info("Order created")
	return order, nil
}

// Verify submits a provider callback payload and returns the refreshed
// status. Malformed payloads are rejected before any request.
func (s *Service) Verify(ctx context.Context, v model.PaymentVerification) (*model.PremiumStatus, error) {
	if err := validate.Payment(v); err != nil {
		return nil, err
	}
	if err := s.backend.VerifyPayment(ctx, v); err != nil {
		s.log.WithError(err).WithField("order", v.OrderID).Warn("Payment verification failed")
		return nil, fmt.Errorf("premium: verify: %w", err)
	}
	return s.Status(ctx)
}

func (s *Service) apply(status *model.PremiumStatus) {
	if s.store == nil {
		return
	}
	u := s.store.User()
	if u == nil {
		return
	}
	if u.IsPremium == status.IsPremium && u.MembershipType == status.MembershipType {
		return
	}
	u.IsPremium = status.IsPremium
	u.MembershipType = status.MembershipType
	s.store.SetUser(*u)
}

// Checkout returns the lines shown for an order awaiting payment.
func Checkout(o *model.PaymentOrder) []string {
	return []string{
		"Order:    " + o.OrderID,
		"Plan:     " + o.Notes.MembershipType,
		"Amount:   " + util.FormatAmount(o.Amount, o.Currency),
		"Key:      " + o.KeyID,
		"Customer: " + o.Notes.FirstName + " " + o.Notes.LastName + " <" + o.Notes.EmailID + ">",
	}
}

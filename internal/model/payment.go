// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import "strings"

// Plan is a membership tier offered on the premium view.
type Plan string

const (
	PlanSilver Plan = "silver"
	PlanGold   Plan = "gold"
)

// Plans lists the purchasable tiers in display order.
var Plans = []Plan{PlanSilver, PlanGold}

// ParsePlan normalizes a plan name. ok is false for unknown names.
func ParsePlan(s string) (Plan, bool) {
	p := Plan(strings.ToLower(strings.TrimSpace(s)))
	switch p {
	case PlanSilver, PlanGold:
		return p, true
	}
	return "", false
}

// Perks returns the marketing bullets for a plan.
func (p Plan) Perks() []string {
	switch p {
	case PlanSilver:
		return []string{"Chat with other people", "100 connection requests per day", "Blue tick", "3 months"}
	case PlanGold:
		return []string{"Chat with other people", "Infinite connection requests per day", "Blue tick", "6 months"}
	}
	return nil
}

// PremiumStatus is the payload of GET /premium/verify.
type PremiumStatus struct {
	IsPremium      bool   `json:"isPremium"`
	MembershipType string `json:"membershipType,omitempty"`
}

// PaymentNotes echoes who the order was created for.
type PaymentNotes struct {
	FirstName      string `json:"firstName,omitempty"`
	LastName       string `json:"lastName,omitempty"`
	EmailID        string `json:"emailId,omitempty"`
	MembershipType string `json:"membershipType,omitempty"`
}

// PaymentOrder is the payload of POST /payment/create. Amount is in the
// currency's minor unit.
type PaymentOrder struct {
	OrderID  string       `json:"orderId"`
	Amount   int64        `json:"amount"`
	Currency string       `json:"currency"`
	KeyID    string       `json:"keyId"`
	Status   string       `json:"status,omitempty"`
	Notes    PaymentNotes `json:"notes"`
}

// PaymentVerification is the provider callback payload forwarded to
// POST /payment/verify.
type PaymentVerification struct {
	OrderID   string `json:"razorpay_order_id" validate:"required"`
	PaymentID string `json:"razorpay_payment_id" validate:"required"`
	Signature string `json:"razorpay_signature" validate:"required,hexadecimal"`
}

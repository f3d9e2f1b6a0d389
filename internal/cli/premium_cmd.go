// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// premium_cmd.go - Membership status and checkout.
//
// Command: premium [status|plans|order <plan>|verify ...] [--json]
// Short:   Show membership, open an order, or submit a payment callback
//
// Examples:
//   devtinder premium                  Show membership status
//   devtinder premium plans            List plans and perks
//   devtinder premium order gold       Create an order for the gold plan
//   devtinder premium verify --order order_abc --payment pay_abc --signature 9f2c...

package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/premium"
)

// HandlePremium handles "premium".
func HandlePremium(ctx context.Context, env *Env, args Args) error {
	p := args.Parser()
	if args.Subcommand == "plans" {
		return printPlans(env, args)
	}
	if err := env.requireSession(); err != nil {
		return err
	}

	switch args.Subcommand {
	case "", "status":
		status, err := env.Premium.Status(ctx)
		if err != nil {
			return NewCommandError("premium", "status", "could not load membership", err)
		}
		return printStatus(env, args, "premium status", status)

	case "order", "buy":
		plan := p.Positional(1)
		if plan == "" {
			return ErrMissingArgument("plan", "devtinder premium order gold")
		}
		order, err := env.Premium.CreateOrder(ctx, plan)
		switch {
		case errors.Is(err, premium.ErrUnknownPlan):
			return &ValidationError{Field: "plan", Value: plan, Reason: "unknown plan", Example: "silver or gold"}
		case err != nil:
			return NewCommandError("premium", "order", "could not create the order", err)
		}
		if args.JSON {
			return NewJSONResponse("premium order", order).Print(env.Out)
		}
		fmt.Fprintln(env.Out, TitleStyle.Render("Checkout"))
		for _, line := range premium.Checkout(order) {
			fmt.Fprintln(env.Out, "  "+line)
		}
		fmt.Fprintln(env.Out, DimStyle.Render("Complete the payment, then run `devtinder premium verify` with the provider's callback values."))
		return nil

	case "verify":
		v := model.PaymentVerification{
			OrderID:   p.Flag("order"),
			PaymentID: p.Flag("payment"),
			Signature: p.Flag("signature"),
		}
		status, err := env.Premium.Verify(ctx, v)
		if err != nil {
			return NewCommandError("premium", "verify", "payment was not verified", err)
		}
		return printStatus(env, args, "premium verify", status)
	}
	return NewValidationError("premium subcommand", args.Subcommand, "expected status, plans, order or verify")
}

func printStatus(env *Env, args Args, command string, status *model.PremiumStatus) error {
	if args.JSON {
		return NewJSONResponse(command, status).Print(env.Out)
	}
	if !status.IsPremium {
		fmt.Fprintln(env.Out, "You are on the free plan. See `devtinder premium plans`.")
		return nil
	}
	fmt.Fprintf(env.Out, "%s You are a %s member\n", SuccessStyle.Render("✓"), status.MembershipType)
	return nil
}

func printPlans(env *Env, args Args) error {
	type planData struct {
		Plan  model.Plan `json:"plan"`
		Perks []string   `json:"perks"`
	}
	plans := make([]planData, 0, len(model.Plans))
	for _, plan := range model.Plans {
		plans = append(plans, planData{Plan: plan, Perks: plan.Perks()})
	}
	if args.JSON {
		return NewJSONResponse("premium plans", plans).Print(env.Out)
	}
	for _, pd := range plans {
		fmt.Fprintln(env.Out, SectionStyle.Render(strings.ToUpper(string(pd.Plan))))
		for _, perk := range pd.Perks {
			fmt.Fprintln(env.Out, "  • "+perk)
		}
	}
	return nil
}

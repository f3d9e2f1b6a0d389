// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// social_cmd.go - feed, connections and requests.
//
// Command: feed [list|like|pass] [--json]
// Short:   List profiles waiting for a decision, or decide the top one
//
// Command: connections [--json]
// Short:   List your connections
//
// Command: requests [list|accept <id>|reject <id>] [--json]
// Short:   List or review pending connection requests
//
// Examples:
//   devtinder feed                    List the feed
//   devtinder feed like               Send interest to the top profile
//   devtinder feed pass               Ignore the top profile
//   devtinder requests accept 66a1f0  Accept a request

package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/devtinder/devtinder-tui/internal/feed"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/requests"
	"github.com/devtinder/devtinder-tui/internal/util"
)

// =============================================================================
// FEED
// =============================================================================

// HandleFeed handles "feed".
func HandleFeed(ctx context.Context, env *Env, args Args) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	if err := env.Deck.Refresh(ctx); err != nil {
		return NewCommandError("feed", "load", "could not load the feed", err)
	}

	switch args.Subcommand {
	case "", "list", "ls":
		users := env.Store.Feed()
		if args.JSON {
			return NewJSONResponse("feed", users).Print(env.Out)
		}
		if len(users) == 0 {
			fmt.Fprintln(env.Out, DimStyle.Render("No new users found."))
			return nil
		}
		printUsers(env.Out, users)
		return nil

	case "like", "interested":
		return decideTop(ctx, env, args, model.DecisionInterested)
	case "pass", "ignore", "ignored":
		return decideTop(ctx, env, args, model.DecisionIgnored)
	}
	return NewValidationError("feed subcommand", args.Subcommand, "expected list, like or pass")
}

func decideTop(ctx context.Context, env *Env, args Args, decision model.Decision) error {
	out, err := env.Deck.Decide(ctx, decision)
	switch {
	case errors.Is(err, feed.ErrEmpty):
		return &NotFoundError{Resource: "feed profile", ID: "top"}
	case err != nil:
		return NewCommandError("feed", string(decision), "decision was not recorded", err)
	}
	if args.JSON {
		return NewJSONResponse("feed "+args.Subcommand, out).Print(env.Out)
	}
	verb := "Sent interest to"
	if decision == model.DecisionIgnored {
		verb = "Ignored"
	}
	fmt.Fprintf(env.Out, "%s %s %s\n", SuccessStyle.Render("✓"), verb, out.User.FullName())
	if next, ok := env.Deck.Top(); ok && !args.Quiet {
		fmt.Fprintf(env.Out, "%s %s\n", DimStyle.Render("Next up:"), next.FullName())
	}
	return nil
}

// =============================================================================
// CONNECTIONS
// =============================================================================

// HandleConnections handles "connections".
func HandleConnections(ctx context.Context, env *Env, args Args) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	if err := env.Reviewer.LoadConnections(ctx); err != nil {
		return NewCommandError("connections", "load", "could not load connections", err)
	}
	users := env.Store.Connections()
	if args.JSON {
		return NewJSONResponse("connections", users).Print(env.Out)
	}
	if len(users) == 0 {
		fmt.Fprintln(env.Out, DimStyle.Render("No connections yet."))
		return nil
	}
	printUsers(env.Out, users)
	return nil
}

// =============================================================================
// REQUESTS
// =============================================================================

// HandleRequests handles "requests".
func HandleRequests(ctx context.Context, env *Env, args Args) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	if err := env.Reviewer.Load(ctx); err != nil {
		return NewCommandError("requests", "load", "could not load requests", err)
	}

	p := args.Parser()
	switch args.Subcommand {
	case "", "list", "ls":
		reqs := env.Store.Requests()
		if args.JSON {
			return NewJSONResponse("requests", reqs).Print(env.Out)
		}
		if len(reqs) == 0 {
			fmt.Fprintln(env.Out, DimStyle.Render("No pending requests."))
			return nil
		}
		for _, r := range reqs {
			fmt.Fprintf(env.Out, "%s  %s\n", DimStyle.Render(r.ID), TitleStyle.Render(r.From.FullName()))
			if s := r.From.Summary(); s != "" {
				fmt.Fprintln(env.Out, "    "+ValueStyle.Render(s))
			}
		}
		return nil

	case "accept", "reject":
		id := p.Positional(1)
		if id == "" {
			return ErrMissingArgument("id", "devtinder requests "+args.Subcommand+" <id>")
		}
		status := model.ReviewAccepted
		if args.Subcommand == "reject" {
			status = model.ReviewRejected
		}
		req, _ := findRequest(env.Store.Requests(), id)
		err := env.Reviewer.Review(ctx, id, status)
		switch {
		case errors.Is(err, requests.ErrUnknownRequest):
			return &NotFoundError{Resource: "request", ID: id}
		case err != nil:
			return NewCommandError("requests", args.Subcommand, "review was not recorded", err)
		}
		if args.JSON {
			return NewJSONResponse("requests "+args.Subcommand, map[string]string{"id": id, "status": string(status)}).Print(env.Out)
		}
		if status == model.ReviewAccepted {
			fmt.Fprintf(env.Out, "%s You are now connected with %s\n", SuccessStyle.Render("✓"), req.From.FullName())
		} else {
			fmt.Fprintf(env.Out, "%s Rejected %s\n", SuccessStyle.Render("✓"), req.From.FullName())
		}
		return nil
	}
	return NewValidationError("requests subcommand", args.Subcommand, "expected list, accept or reject")
}

func findRequest(reqs []model.ConnectionRequest, id string) (model.ConnectionRequest, bool) {
	for _, r := range reqs {
		if r.ID == id {
			return r, true
		}
	}
	return model.ConnectionRequest{}, false
}

// =============================================================================
// RENDERING
// =============================================================================

// printUsers writes one block per user: name and id, caption, skills.
func printUsers(w io.Writer, users []model.User) {
	width := TerminalWidth()
	for i, u := range users {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s  %s\n", TitleStyle.Render(u.FullName()), DimStyle.Render(u.ID))
		if s := u.Summary(); s != "" {
			fmt.Fprintln(w, "  "+ValueStyle.Render(s))
		}
		if len(u.Skills) > 0 {
			fmt.Fprintln(w, "  "+util.Truncate(strings.Join(u.Skills, " · "), width-2))
		}
		if u.About != "" {
			printWrapped(w, u.About, width)
		}
	}
}

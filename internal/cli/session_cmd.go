// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - login, logout and whoami.
//
// Command: login [--email EMAIL] [--password-stdin]
// Short:   Log in and save the session for later runs
//
// Command: logout
// Short:   End the session on the backend and forget it locally
//
// Command: whoami [--json]
// Short:   Show the logged-in user and when the session expires
//
// Examples:
//   devtinder login                              Prompt for email and password
//   devtinder login --email ada@devtinder.dev    Prompt for the password only
//   echo "$PW" | devtinder login --email ada@devtinder.dev --password-stdin
//   devtinder whoami --json

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/validate"
)

// =============================================================================
// LOGIN
// =============================================================================

// HandleLogin handles "login".
func HandleLogin(ctx context.Context, env *Env, args Args) error {
	p := args.Parser()
	creds := model.Credentials{EmailID: strings.TrimSpace(p.Flag("email"))}

	if p.BoolFlag("password-stdin") {
		if creds.EmailID == "" {
			return ErrMissingArgument("email", "devtinder login --email you@example.com --password-stdin")
		}
		line, err := bufio.NewReader(env.In).ReadString('\n')
		if err != nil && line == "" {
			return NewCommandError("login", "read password", "nothing on stdin", err)
		}
		creds.Password = strings.TrimRight(line, "\r\n")
	} else {
		prompt, err := env.prompter()
		if err != nil {
			return NewCommandError("login", "prompt", "interactive input unavailable (use --password-stdin)", err)
		}
		if creds.EmailID == "" {
			if creds.EmailID, err = prompt.Line("Email: ", ""); err != nil {
				return err
			}
		}
		if creds.Password, err = prompt.Password("Password: "); err != nil {
			return err
		}
	}

	if err := validate.Login(creds); err != nil {
		return err
	}

	user, err := env.Client.Login(ctx, creds)
	if err != nil {
		return NewCommandError("login", "authenticate", "the backend refused the login", err)
	}
	env.Store.SetUser(*user)
	if err := env.Session.Persist(ctx); err != nil {
		env.Log.WithError(err).Warn("Could not save session")
		fmt.Fprintln(env.Err, WarningStyle.Render("Logged in, but the session could not be saved for later runs."))
	}
	env.Log.WithField("user", user.ID).Info("Logged in from CLI")

	if args.JSON {
		return NewJSONResponse("login", user).Print(env.Out)
	}
	if !args.Quiet {
		fmt.Fprintf(env.Out, "%s Logged in as %s\n", SuccessStyle.Render("✓"), user.FullName())
	}
	return nil
}

// =============================================================================
// LOGOUT
// =============================================================================

// HandleLogout handles "logout". Logging out without a session is not an
// error.
func HandleLogout(ctx context.Context, env *Env, args Args) error {
	if _, ok := env.Session.Info(); !ok {
		if !args.Quiet {
			fmt.Fprintln(env.Out, "Not logged in.")
		}
		return nil
	}
	if err := env.Client.Logout(ctx); err != nil {
		env.Log.WithError(err).Warn("Logout call failed; clearing local session anyway")
	}
	if err := env.Session.Forget(ctx); err != nil {
		return NewCommandError("logout", "forget", "could not clear the saved session", err)
	}
	env.Store.Reset()
	if !args.Quiet {
		fmt.Fprintf(env.Out, "%s Logged out\n", SuccessStyle.Render("✓"))
	}
	return nil
}

// =============================================================================
// WHOAMI
// =============================================================================

// WhoamiData is the payload of `whoami --json`.
type WhoamiData struct {
	User      model.User `json:"user"`
	ExpiresAt *time.Time `json:"session_expires_at,omitempty"`
}

// HandleWhoami handles "whoami".
func HandleWhoami(ctx context.Context, env *Env, args Args) error {
	if err := env.requireSession(); err != nil {
		return err
	}
	user, err := env.Client.Profile(ctx)
	if err != nil {
		return NewCommandError("whoami", "profile", "could not load the profile", err)
	}

	data := WhoamiData{User: *user}
	if info, ok := env.Session.Info(); ok && !info.ExpiresAt.IsZero() {
		exp := info.ExpiresAt
		data.ExpiresAt = &exp
	}
	if args.JSON {
		return NewJSONResponse("whoami", data).Print(env.Out)
	}

	w := env.Out
	fmt.Fprintln(w, TitleStyle.Render(user.FullName()))
	printField(w, "Email", user.EmailID)
	if s := user.Summary(); s != "" {
		printField(w, "About you", s)
	}
	if len(user.Skills) > 0 {
		printField(w, "Skills", strings.Join(user.Skills, ", "))
	}
	membership := "free"
	if user.IsPremium {
		membership = "premium (" + user.MembershipType + ")"
	}
	printField(w, "Membership", membership)
	if data.ExpiresAt != nil {
		printField(w, "Session", "expires in "+formatDuration(time.Until(*data.ExpiresAt)))
	}
	return nil
}

// formatDuration renders a positive duration coarsely ("3h 12m", "45s").
func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0s"
	}
	d = d.Round(time.Second)
	switch {
	case d < time.Minute:
		return fmt.Sprintf("%ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 48*time.Hour:
		return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
	}
	return fmt.Sprintf("%dd", int(d.Hours()/24))
}

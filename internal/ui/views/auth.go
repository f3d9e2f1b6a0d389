// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
	"github.com/devtinder/devtinder-tui/internal/validate"
)

var (
	keyLogin  = key.NewBinding(key.WithKeys("enter", "l"), key.WithHelp("enter", "log in"))
	keySignup = key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sign up"))
	// keySwitch jumps between the login and signup forms.
	keySwitch = key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("C-n", "other form"))
)

// =============================================================================
// LANDING
// =============================================================================

// Landing is the public front page.
type Landing struct {
	base
}

// NewLanding creates the landing view.
func NewLanding(env *Env, deps *Deps) *Landing {
	return &Landing{base: newBase(env, deps)}
}

func (v *Landing) Init() tea.Cmd { return nil }

func (v *Landing) Update(msg tea.Msg) (View, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		loggedIn := v.deps.Store.User() != nil
		switch {
		case key.Matches(k, keyLogin):
			if loggedIn {
				return v, Navigate("/feed")
			}
			return v, Navigate("/login")
		case key.Matches(k, keySignup) && !loggedIn:
			return v, Navigate("/signup")
		}
	}
	return v, nil
}

func (v *Landing) View() string {
	t := v.styles()
	lines := []string{
		t.Title.Render(components.Brand),
		"",
		t.Subtitle.Render("Swipe right on developers you want to build with."),
		t.Muted.Render("Connect, chat, ship together."),
		"",
	}
	if u := v.deps.Store.User(); u != nil {
		lines = append(lines, t.Link.Render("enter")+t.Muted.Render("  continue as "+u.FirstName))
	} else {
		lines = append(lines,
			t.Link.Render("enter")+t.Muted.Render("  log in"),
			t.Link.Render("s")+t.Muted.Render("      create an account"),
		)
	}
	return centered(v.env, strings.Join(lines, "\n"))
}

func (v *Landing) Hints() []components.KeyHint {
	if v.deps.Store.User() != nil {
		return []components.KeyHint{{Key: "enter", Desc: "feed"}, {Key: "q", Desc: "quit"}}
	}
	return []components.KeyHint{hint(keyLogin), hint(keySignup), {Key: "q", Desc: "quit"}}
}

// =============================================================================
// LOGIN
// =============================================================================

// Login is the login form.
type Login struct {
	base
	form *form
}

// NewLogin creates the login view.
func NewLogin(env *Env, deps *Deps) *Login {
	return &Login{
		base: newBase(env, deps),
		form: newForm(
			fieldSpec{Key: "emailId", Label: "Email", Placeholder: "you@example.com", Limit: 254},
			fieldSpec{Key: "password", Label: "Password", Secret: true, Limit: 128},
		),
	}
}

func (v *Login) Init() tea.Cmd { return nil }

func (v *Login) CapturesInput() bool { return true }

func (v *Login) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok && r.op == "login" {
		v.form.busy = false
		if r.err != nil {
			v.form.Fail(errors.New(authMessage(r.err)))
			return v, nil
		}
		return v, loggedIn(r.value.(*model.User), "")
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(k, Keys.Back):
		return v, Navigate("/")
	case key.Matches(k, keySwitch):
		return v, Navigate("/signup")
	}
	submit, cmd := v.form.Update(k)
	if !submit {
		return v, cmd
	}

	creds := model.Credentials{EmailID: v.form.Value("emailId"), Password: v.form.Value("password")}
	if err := validate.Login(creds); err != nil {
		v.form.Fail(err)
		return v, nil
	}
	v.form.Reset()
	v.form.busy = true
	deps := v.deps
	return v, v.do("login", func(ctx context.Context) (interface{}, error) {
		u, err := deps.Client.Login(ctx, creds)
		if err != nil {
			return nil, err
		}
		establish(ctx, deps, u)
		return u, nil
	})
}

func (v *Login) View() string {
	body := v.form.View(v.styles(), "Login", v.env.Width)
	if v.form.busy {
		body += "\n" + v.styles().Muted.Render("Logging in…")
	}
	return centered(v.env, body)
}

func (v *Login) Hints() []components.KeyHint {
	return hints(Keys.Next, Keys.Submit, keySwitch, Keys.Back)
}

// =============================================================================
// SIGNUP
// =============================================================================

// Signup is the account creation form.
type Signup struct {
	base
	form *form
}

// NewSignup creates the signup view.
func NewSignup(env *Env, deps *Deps) *Signup {
	return &Signup{
		base: newBase(env, deps),
		form: newForm(
			fieldSpec{Key: "firstName", Label: "First name", Limit: 50},
			fieldSpec{Key: "lastName", Label: "Last name", Limit: 50},
			fieldSpec{Key: "emailId", Label: "Email", Placeholder: "you@example.com", Limit: 254},
			fieldSpec{Key: "password", Label: "Password", Secret: true, Limit: 128},
		),
	}
}

func (v *Signup) Init() tea.Cmd { return nil }

func (v *Signup) CapturesInput() bool { return true }

func (v *Signup) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok && r.op == "signup" {
		v.form.busy = false
		if r.err != nil {
			v.form.Fail(errors.New(authMessage(r.err)))
			return v, nil
		}
		// New accounts land on their profile to fill it in.
		return v, loggedIn(r.value.(*model.User), "/profile")
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	switch {
	case key.Matches(k, Keys.Back):
		return v, Navigate("/")
	case key.Matches(k, keySwitch):
		return v, Navigate("/login")
	}
	submit, cmd := v.form.Update(k)
	if !submit {
		return v, cmd
	}

	req := model.SignupRequest{
		FirstName: v.form.Value("firstName"),
		LastName:  v.form.Value("lastName"),
		EmailID:   v.form.Value("emailId"),
		Password:  v.form.Value("password"),
	}
	if err := validate.Signup(req); err != nil {
		v.form.Fail(err)
		return v, nil
	}
	v.form.Reset()
	v.form.busy = true
	deps := v.deps
	return v, v.do("signup", func(ctx context.Context) (interface{}, error) {
		u, err := deps.Client.Signup(ctx, req)
		if err != nil {
			return nil, err
		}
		establish(ctx, deps, u)
		return u, nil
	})
}

func (v *Signup) View() string {
	body := v.form.View(v.styles(), "Sign up", v.env.Width)
	if v.form.busy {
		body += "\n" + v.styles().Muted.Render("Creating account…")
	}
	return centered(v.env, body)
}

func (v *Signup) Hints() []components.KeyHint {
	return hints(Keys.Next, Keys.Submit, keySwitch, Keys.Back)
}

// =============================================================================
// SESSION HELPERS
// =============================================================================

// establish records a fresh login in the store and on disk.
func establish(ctx context.Context, deps *Deps, u *model.User) {
	deps.Store.SetUser(*u)
	if deps.Session == nil {
		return
	}
	if err := deps.Session.Persist(ctx); err != nil {
		deps.log().WithError(err).Warn("Could not save session")
	}
}

func loggedIn(u *model.User, next string) tea.Cmd {
	user := *u
	return func() tea.Msg { return LoggedInMsg{User: user, Next: next} }
}

// authMessage is the form banner for a failed login or signup. The
// backend answers bad credentials with a 400 and its own text.
func authMessage(err error) string {
	var ce *api.ClientError
	if errors.As(err, &ce) && (ce.Type == api.ErrTypeBadRequest || ce.Type == api.ErrTypeUnauthorized) && ce.Message != "" {
		return ce.Message
	}
	return api.UserMessage(err)
}

// Logout ends the session on the backend and locally. The local session
// is dropped even when the backend call fails.
func Logout(deps *Deps) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		if err := deps.Client.Logout(ctx); err != nil {
			deps.log().WithError(err).Debug("Logout call failed")
		}
		if deps.Session != nil {
			if err := deps.Session.Forget(ctx); err != nil {
				deps.log().WithError(err).Warn("Could not clear saved session")
			}
		}
		deps.Store.Reset()
		return LoggedOutMsg{}
	}
}

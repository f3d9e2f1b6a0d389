// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/components"
	"github.com/devtinder/devtinder-tui/internal/validate"
)

var keySave = key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("C-s", "save"))

// =============================================================================
// PROFILE
// =============================================================================

// Profile shows the logged-in user's card and edits it.
type Profile struct {
	base
	form    *form
	editing bool
	saving  bool
}

// NewProfile creates the profile view.
func NewProfile(env *Env, deps *Deps) *Profile {
	return &Profile{base: newBase(env, deps)}
}

func (v *Profile) Init() tea.Cmd {
	client, st := v.deps.Client, v.deps.Store
	return v.do("refresh", func(ctx context.Context) (interface{}, error) {
		u, err := client.Profile(ctx)
		if err != nil {
			return nil, err
		}
		st.SetUser(*u)
		return u, nil
	})
}

func (v *Profile) CapturesInput() bool { return v.editing }

func profileForm(p model.EditableProfile) *form {
	num := func(n int) string {
		if n == 0 {
			return ""
		}
		return strconv.Itoa(n)
	}
	return newForm(
		fieldSpec{Key: "firstName", Label: "First name", Value: p.FirstName, Limit: 50},
		fieldSpec{Key: "lastName", Label: "Last name", Value: p.LastName, Limit: 50},
		fieldSpec{Key: "age", Label: "Age", Value: num(p.Age), Limit: 3},
		fieldSpec{Key: "gender", Label: "Gender", Placeholder: "male / female / other", Value: p.Gender, Limit: 10},
		fieldSpec{Key: "role", Label: "Role", Placeholder: "backend, frontend, devops…", Value: p.Role, Limit: 40},
		fieldSpec{Key: "experience", Label: "Experience (years)", Value: num(p.Experience), Limit: 2},
		fieldSpec{Key: "skills", Label: "Skills", Placeholder: "go, react, sql", Value: strings.Join(p.Skills, ", "), Limit: 600},
		fieldSpec{Key: "about", Label: "About", Value: p.About, Limit: 500},
		fieldSpec{Key: "photoUrl", Label: "Photo URL", Value: p.PhotoURL},
		fieldSpec{Key: "githubUrl", Label: "GitHub URL", Value: p.GithubURL},
		fieldSpec{Key: "linkedinUrl", Label: "LinkedIn URL", Value: p.LinkedinURL},
	)
}

// edited reads the form back into a profile. Numbers that do not parse
// are reported as field errors.
func (v *Profile) edited() (model.EditableProfile, error) {
	errs := validate.FieldErrors{}
	atoi := func(k string) int {
		s := v.form.Value(k)
		if s == "" {
			return 0
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			errs[k] = "must be a number"
		}
		return n
	}
	p := model.EditableProfile{
		FirstName:   v.form.Value("firstName"),
		LastName:    v.form.Value("lastName"),
		Age:         atoi("age"),
		Gender:      v.form.Value("gender"),
		Role:        v.form.Value("role"),
		Experience:  atoi("experience"),
		About:       v.form.Value("about"),
		Skills:      strings.Split(v.form.Value("skills"), ","),
		PhotoURL:    v.form.Value("photoUrl"),
		GithubURL:   v.form.Value("githubUrl"),
		LinkedinURL: v.form.Value("linkedinUrl"),
	}
	if len(errs) > 0 {
		return p, errs
	}
	return validate.Profile(p)
}

func (v *Profile) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok {
		switch r.op {
		case "refresh":
			return v, v.deps.quiet(r.err, "profile")
		case "save":
			v.saving = false
			if v.form != nil {
				v.form.busy = false
			}
			if r.err != nil {
				return v, v.deps.failure(r.err)
			}
			v.editing = false
			return v, components.ShowToast(components.ToastKindSuccess, "Profile saved successfully.")
		}
		return v, nil
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	if !v.editing {
		switch {
		case key.Matches(k, Keys.Edit):
			if u := v.deps.Store.User(); u != nil {
				v.form = profileForm(u.Editable())
				v.editing = true
			}
		case key.Matches(k, Keys.Password):
			return v, Navigate("/profile/password")
		}
		return v, nil
	}

	switch {
	case key.Matches(k, Keys.Back):
		v.editing = false
		return v, nil
	case key.Matches(k, keySave):
		return v, v.save()
	}
	submit, cmd := v.form.Update(k)
	if submit {
		return v, v.save()
	}
	return v, cmd
}

// save sends the edit. A failed save re-reads the profile so the store
// matches the backend again.
func (v *Profile) save() tea.Cmd {
	if v.saving {
		return nil
	}
	p, err := v.edited()
	if err != nil {
		v.form.Fail(err)
		return nil
	}
	v.form.Reset()
	v.saving, v.form.busy = true, true
	client, st := v.deps.Client, v.deps.Store
	return v.do("save", func(ctx context.Context) (interface{}, error) {
		u, err := client.EditProfile(ctx, p)
		if err != nil {
			if cur, rerr := client.Profile(ctx); rerr == nil {
				st.SetUser(*cur)
			}
			return nil, err
		}
		// Some backends answer the edit without the id.
		if u.ID == "" {
			if cur := st.User(); cur != nil {
				u.ID = cur.ID
				u.EmailID = cur.EmailID
			}
		}
		st.SetUser(*u)
		return u, nil
	})
}

func (v *Profile) preview() model.User {
	var u model.User
	if cur := v.deps.Store.User(); cur != nil {
		u = *cur
	}
	if !v.editing {
		return u
	}
	if p, err := v.edited(); err == nil || errors.As(err, new(validate.FieldErrors)) {
		u.FirstName, u.LastName, u.Age, u.Gender = p.FirstName, p.LastName, p.Age, p.Gender
		u.Role, u.Experience, u.About = p.Role, p.Experience, p.About
		u.Skills = p.Skills
		u.GithubURL, u.LinkedinURL = p.GithubURL, p.LinkedinURL
	}
	return u
}

func (v *Profile) View() string {
	t := v.styles()
	if v.deps.Store.User() == nil {
		return centered(v.env, t.Muted.Render("Loading profile…"))
	}
	card := components.RenderCard(t, v.preview(), components.CardOptions{Width: v.env.Width / 2})
	if !v.editing {
		u := v.deps.Store.User()
		info := []string{card, ""}
		info = append(info, t.Muted.Render(u.EmailID))
		if u.IsPremium {
			info = append(info, t.PremiumBadge.Render(strings.ToUpper(u.MembershipType)+" member"))
		}
		return centered(v.env, lipgloss.JoinVertical(lipgloss.Center, info...))
	}

	left := v.form.View(t, "Edit profile", v.env.Width/2)
	if v.saving {
		left += "\n" + t.Muted.Render("Saving…")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", card)
}

func (v *Profile) Hints() []components.KeyHint {
	if v.editing {
		return hints(Keys.Next, keySave, Keys.Back)
	}
	return hints(Keys.Edit, Keys.Password, Keys.Logout)
}

// =============================================================================
// PASSWORD
// =============================================================================

// Password changes the account password.
type Password struct {
	base
	form *form
}

// NewPassword creates the password view.
func NewPassword(env *Env, deps *Deps) *Password {
	return &Password{
		base: newBase(env, deps),
		form: newForm(
			fieldSpec{Key: "oldPassword", Label: "Current password", Secret: true, Limit: 128},
			fieldSpec{Key: "newPassword", Label: "New password", Secret: true, Limit: 128},
			fieldSpec{Key: "confirm", Label: "Confirm new password", Secret: true, Limit: 128},
		),
	}
}

func (v *Password) Init() tea.Cmd { return nil }

func (v *Password) CapturesInput() bool { return true }

func (v *Password) Update(msg tea.Msg) (View, tea.Cmd) {
	if r, ok := v.result(msg); ok && r.op == "change" {
		v.form.busy = false
		if r.err != nil {
			if cmd := v.deps.failure(r.err); isUnauthorized(r.err) {
				return v, cmd
			}
			v.form.Fail(errors.New(authMessage(r.err)))
			return v, nil
		}
		return v, tea.Batch(
			components.ShowToast(components.ToastKindSuccess, "Password updated."),
			Navigate("/profile"),
		)
	}

	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}
	if key.Matches(k, Keys.Back) {
		return v, Navigate("/profile")
	}
	submit, cmd := v.form.Update(k)
	if !submit {
		return v, cmd
	}

	change := model.PasswordChange{
		OldPassword: v.form.Value("oldPassword"),
		NewPassword: v.form.Value("newPassword"),
		Confirm:     v.form.Value("confirm"),
	}
	if err := validate.Password(change); err != nil {
		v.form.Fail(err)
		return v, nil
	}
	v.form.Reset()
	v.form.busy = true
	client := v.deps.Client
	return v, v.do("change", func(ctx context.Context) (interface{}, error) {
		return nil, client.ChangePassword(ctx, change)
	})
}

func (v *Password) View() string {
	body := v.form.View(v.styles(), "Change password", v.env.Width)
	if v.form.busy {
		body += "\n" + v.styles().Muted.Render("Updating…")
	}
	return centered(v.env, body)
}

func (v *Password) Hints() []components.KeyHint {
	return hints(Keys.Next, Keys.Submit, Keys.Back)
}

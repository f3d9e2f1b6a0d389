// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package views

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/ui/styles"
	"github.com/devtinder/devtinder-tui/internal/validate"
)

// fieldSpec describes one form input. Key is the JSON name, which is also
// how validation reports the field.
type fieldSpec struct {
	Key         string
	Label       string
	Placeholder string
	Value       string
	Secret      bool
	Limit       int
}

type formField struct {
	def   fieldSpec
	input textinput.Model
}

// form is a vertical list of text inputs with inline errors.
type form struct {
	fields []formField
	focus  int
	errs   validate.FieldErrors
	// banner is a form-level message such as the server's reply.
	banner string
	busy   bool
}

func newForm(specs ...fieldSpec) *form {
	f := &form{}
	for _, s := range specs {
		in := textinput.New()
		in.Prompt = ""
		in.Placeholder = s.Placeholder
		in.CharLimit = s.Limit
		if in.CharLimit == 0 {
			in.CharLimit = 256
		}
		if s.Secret {
			in.EchoMode = textinput.EchoPassword
			in.EchoCharacter = '•'
		}
		in.SetValue(s.Value)
		f.fields = append(f.fields, formField{def: s, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

// Value returns the trimmed value of the field with key.
func (f *form) Value(k string) string {
	for _, fl := range f.fields {
		if fl.def.Key == k {
			if fl.def.Secret {
				return fl.input.Value()
			}
			return strings.TrimSpace(fl.input.Value())
		}
	}
	return ""
}

// Focused returns the key of the focused field.
func (f *form) Focused() string {
	if len(f.fields) == 0 {
		return ""
	}
	return f.fields[f.focus].def.Key
}

func (f *form) setFocus(i int) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	i = (i + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Blur()
	f.focus = i
	return f.fields[i].input.Focus()
}

// Update handles a key. submit is true when enter is pressed on the last
// field.
func (f *form) Update(msg tea.KeyMsg) (submit bool, cmd tea.Cmd) {
	if f.busy {
		return false, nil
	}
	switch {
	case msg.Type == tea.KeyTab, msg.Type == tea.KeyDown:
		return false, f.setFocus(f.focus + 1)
	case msg.Type == tea.KeyShiftTab, msg.Type == tea.KeyUp:
		return false, f.setFocus(f.focus - 1)
	case key.Matches(msg, Keys.Submit):
		if f.focus == len(f.fields)-1 {
			return true, nil
		}
		return false, f.setFocus(f.focus + 1)
	}
	fl := &f.fields[f.focus]
	fl.input, cmd = fl.input.Update(msg)
	return false, cmd
}

// Fail records err. Validation errors are shown next to their fields; any
// other error becomes the banner. It reports whether err was a validation
// error.
func (f *form) Fail(err error) bool {
	var fe validate.FieldErrors
	if errors.As(err, &fe) {
		f.errs = fe
		f.banner = ""
		return true
	}
	f.errs = nil
	if err != nil {
		f.banner = err.Error()
	}
	return false
}

// Reset clears errors and the busy flag.
func (f *form) Reset() {
	f.errs = nil
	f.banner = ""
	f.busy = false
}

// View renders the form inside a box of the given width.
func (f *form) View(t *styles.Theme, title string, width int) string {
	inner := width - 6
	if inner > 56 {
		inner = 56
	}
	if inner < 20 {
		inner = 20
	}

	var b strings.Builder
	b.WriteString(t.Title.Render(title))
	b.WriteString("\n\n")
	for i, fl := range f.fields {
		b.WriteString(t.FormLabel.Render(fl.def.Label))
		b.WriteString("\n")
		style := t.FormInput
		if i == f.focus {
			style = t.FormInputFocus
		}
		fl.input.Width = inner - 4
		b.WriteString(style.Width(inner).Render(fl.input.View()))
		b.WriteString("\n")
		if msg := f.errs.Field(fl.def.Key); msg != "" {
			b.WriteString(t.FormError.Render(fl.def.Label + " " + msg))
			b.WriteString("\n")
		}
	}
	if f.banner != "" {
		b.WriteString("\n")
		b.WriteString(t.FormError.Render(f.banner))
	}
	return t.FormBox.Render(strings.TrimRight(b.String(), "\n"))
}

// centered places block in the middle of the content area.
func centered(env *Env, block string) string {
	if env.Width <= 0 || env.Height <= 0 {
		return block
	}
	return lipgloss.Place(env.Width, env.Height, lipgloss.Center, lipgloss.Center, block)
}

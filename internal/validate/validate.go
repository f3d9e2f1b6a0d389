// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validate

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// Validator is shared; validator caches struct metadata per instance.
var Validator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		switch name {
		case "-":
			return strings.ToLower(f.Name[:1]) + f.Name[1:]
		case "":
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("strongpassword", func(fl validator.FieldLevel) bool {
		return IsStrongPassword(fl.Field().String())
	})
	return v
}

// FieldErrors maps a JSON field name to a human readable message.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f, e[f]))
	}
	return strings.Join(parts, "; ")
}

// Field returns the message for field, or "".
func (e FieldErrors) Field(field string) string {
	return e[field]
}

// Struct validates v, returning FieldErrors (or nil).
func Struct(v interface{}) error {
	err := Validator.Struct(v)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		key := fieldKey(fe)
		if _, seen := out[key]; !seen {
			out[key] = message(fe)
		}
	}
	return out
}

// fieldKey strips the struct name from the namespace ("SignupRequest.emailId"
// -> "emailId", "EditableProfile.skills[2]" -> "skills[2]").
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "url":
		return "must be a valid URL"
	case "strongpassword":
		return "must be at least 8 characters with upper and lower case letters, a number and a symbol"
	case "eqfield":
		return "does not match"
	case "nefield":
		return "must differ from the current password"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "hexadecimal":
		return "must be hexadecimal"
	case "min":
		if fe.Kind() == reflect.Slice {
			return "needs at least " + fe.Param() + " items"
		}
		return "must be at least " + fe.Param() + " characters"
	case "max":
		if fe.Kind() == reflect.Slice {
			return "allows at most " + fe.Param() + " items"
		}
		return "must be at most " + fe.Param() + " characters"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	}
	return "is invalid (" + fe.Tag() + ")"
}

// IsStrongPassword reports whether pw is at least 8 runes and mixes lower,
// upper, digit and symbol characters.
func IsStrongPassword(pw string) bool {
	if len([]rune(pw)) < 8 {
		return false
	}
	var lower, upper, digit, symbol bool
	for _, r := range pw {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return lower && upper && digit && symbol
}

// Login checks a login form.
func Login(c model.Credentials) error { return Struct(c) }

// Signup checks a signup form.
func Signup(s model.SignupRequest) error { return Struct(s) }

// Password checks a password change form.
func Password(p model.PasswordChange) error { return Struct(p) }

// Profile checks a profile edit. Skills are trimmed and emptied entries
// removed before validation; the cleaned value is returned.
func Profile(p model.EditableProfile) (model.EditableProfile, error) {
	skills := p.Skills[:0:0]
	for _, s := range p.Skills {
		if s = strings.TrimSpace(s); s != "" {
			skills = append(skills, s)
		}
	}
	p.Skills = skills
	p.Gender = strings.ToLower(strings.TrimSpace(p.Gender))
	return p, Struct(p)
}

// Payment checks a provider callback payload.
func Payment(v model.PaymentVerification) error { return Struct(v) }

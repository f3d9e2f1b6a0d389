// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package validate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/model"
)

func fieldErrors(t *testing.T, err error) FieldErrors {
	t.Helper()
	var fe FieldErrors
	require.True(t, errors.As(err, &fe), "want FieldErrors, got %v", err)
	return fe
}

func TestLogin(t *testing.T) {
	assert.NoError(t, Login(model.Credentials{EmailID: "ada@example.com", Password: "x"}))

	fe := fieldErrors(t, Login(model.Credentials{EmailID: "not-an-email"}))
	assert.Equal(t, "must be a valid email address", fe.Field("emailId"))
	assert.Equal(t, "is required", fe.Field("password"))
}

func TestSignup(t *testing.T) {
	ok := model.SignupRequest{FirstName: "Ada", EmailID: "ada@example.com", Password: "Str0ng!pass"}
	assert.NoError(t, Signup(ok))

	weak := ok
	weak.Password = "password"
	fe := fieldErrors(t, Signup(weak))
	assert.Contains(t, fe.Field("password"), "at least 8 characters")
	assert.Len(t, fe, 1)

	short := ok
	short.FirstName = "A"
	fe = fieldErrors(t, Signup(short))
	assert.Equal(t, "must be at least 2 characters", fe.Field("firstName"))
}

func TestPassword(t *testing.T) {
	ok := model.PasswordChange{OldPassword: "Old!pass1", NewPassword: "New!pass2", Confirm: "New!pass2"}
	assert.NoError(t, Password(ok))

	mismatch := ok
	mismatch.Confirm = "New!pass3"
	fe := fieldErrors(t, Password(mismatch))
	assert.Equal(t, "does not match", fe.Field("confirm"))

	same := ok
	same.NewPassword, same.Confirm = ok.OldPassword, ok.OldPassword
	fe = fieldErrors(t, Password(same))
	assert.Equal(t, "must differ from the current password", fe.Field("newPassword"))
}

func TestProfile(t *testing.T) {
	p := model.EditableProfile{
		FirstName: "Ada",
		Age:       36,
		Gender:    " Female ",
		Skills:    []string{" go ", "", "rust"},
		GithubURL: "https://github.com/ada",
	}
	cleaned, err := Profile(p)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, cleaned.Skills)
	assert.Equal(t, "female", cleaned.Gender)
	assert.Equal(t, []string{" go ", "", "rust"}, p.Skills, "input not mutated")

	p.Age = 12
	p.PhotoURL = "not a url"
	_, err = Profile(p)
	fe := fieldErrors(t, err)
	assert.Equal(t, "must be at least 18", fe.Field("age"))
	assert.Equal(t, "must be a valid URL", fe.Field("photoUrl"))
}

func TestPayment(t *testing.T) {
	assert.NoError(t, Payment(model.PaymentVerification{OrderID: "order_1", PaymentID: "pay_1", Signature: "deadbeef"}))
	fe := fieldErrors(t, Payment(model.PaymentVerification{OrderID: "order_1", Signature: "zz"}))
	assert.Equal(t, "is required", fe.Field("razorpay_payment_id"))
	assert.Equal(t, "must be hexadecimal", fe.Field("razorpay_signature"))
}

func TestIsStrongPassword(t *testing.T) {
	tests := map[string]bool{
		"Str0ng!pass": true,
		"Sh0rt!":      false,
		"alllower1!":  false,
		"ALLUPPER1!":  false,
		"NoDigits!!":  false,
		"NoSymbol12":  false,
	}
	for pw, want := range tests {
		if got := IsStrongPassword(pw); got != want {
			t.Errorf("IsStrongPassword(%q) = %v, want %v", pw, got, want)
		}
	}
}

func TestFieldErrors_Error(t *testing.T) {
	fe := FieldErrors{"b": "two", "a": "one"}
	assert.Equal(t, "a: one; b: two", fe.Error())
}

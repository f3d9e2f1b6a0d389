// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Credentials is the body of POST /login.
type Credentials struct {
	EmailID  string `json:"emailId" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required"`
}

// SignupRequest is the body of POST /signup.
type SignupRequest struct {
	FirstName string `json:"firstName" validate:"required,min=2,max=50"`
	LastName  string `json:"lastName" validate:"omitempty,max=50"`
	EmailID   string `json:"emailId" validate:"required,email,max=254"`
	Password  string `json:"password" validate:"required,strongpassword"`
}

// PasswordChange is the body of PATCH /profile/password. Confirm is checked
// locally and never sent.
type PasswordChange struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,strongpassword,nefield=OldPassword"`
	Confirm     string `json:"-" validate:"eqfield=NewPassword"`
}

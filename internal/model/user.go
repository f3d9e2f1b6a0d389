// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// =============================================================================
// USER
// =============================================================================

// User is a developer profile as served by the backend.
// Feed entries and connections share this shape.
type User struct {
	ID             string   `json:"_id"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName,omitempty"`
	EmailID        string   `json:"emailId,omitempty"`
	Age            int      `json:"age,omitempty"`
	Gender         string   `json:"gender,omitempty"`
	Role           string   `json:"role,omitempty"`
	Experience     int      `json:"experience,omitempty"`
	About          string   `json:"about,omitempty"`
	Skills         []string `json:"skills,omitempty"`
	PhotoURL       string   `json:"photoUrl,omitempty"`
	GithubURL      string   `json:"githubUrl,omitempty"`
	LinkedinURL    string   `json:"linkedinUrl,omitempty"`
	IsPremium      bool     `json:"isPremium,omitempty"`
	MembershipType string   `json:"membershipType,omitempty"`
}

// FeedEntry is a candidate profile presented for a swipe decision.
type FeedEntry = User

// Connection is a confirmed mutual match.
type Connection = User

var titleCaser = cases.Title(language.English)

// FullName returns "First Last" with surrounding space trimmed.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// DisplayGender returns the gender in title case, or "" when unset.
func (u User) DisplayGender() string {
	if u.Gender == "" {
		return ""
	}
	return titleCaser.String(u.Gender)
}

// Summary returns the one-line "age, gender · role" caption used on cards.
func (u User) Summary() string {
	var parts []string
	if u.Age > 0 {
		parts = append(parts, strconv.Itoa(u.Age))
	}
	if g := u.DisplayGender(); g != "" {
		parts = append(parts, g)
	}
	caption := strings.Join(parts, ", ")
	if u.Role != "" {
		if caption != "" {
			caption += " · "
		}
		caption += titleCaser.String(u.Role)
	}
	if u.Experience > 0 {
		caption += " · " + strconv.Itoa(u.Experience) + "y exp"
	}
	return caption
}

// EditableProfile holds the fields accepted by PATCH /profile/edit.
type EditableProfile struct {
	FirstName   string   `json:"firstName" validate:"required,min=2,max=50"`
	LastName    string   `json:"lastName,omitempty" validate:"omitempty,max=50"`
	Age         int      `json:"age,omitempty" validate:"omitempty,gte=18,lte=100"`
	Gender      string   `json:"gender,omitempty" validate:"omitempty,oneof=male female other"`
	Role        string   `json:"role,omitempty" validate:"omitempty,max=40"`
	Experience  int      `json:"experience,omitempty" validate:"omitempty,gte=0,lte=60"`
	About       string   `json:"about,omitempty" validate:"omitempty,max=500"`
	Skills      []string `json:"skills,omitempty" validate:"omitempty,max=20,dive,min=1,max=30"`
	PhotoURL    string   `json:"photoUrl,omitempty" validate:"omitempty,url"`
	GithubURL   string   `json:"githubUrl,omitempty" validate:"omitempty,url"`
	LinkedinURL string   `json:"linkedinUrl,omitempty" validate:"omitempty,url"`
}

// Editable extracts the editable subset of a profile.
func (u User) Editable() EditableProfile {
	return EditableProfile{
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Age:         u.Age,
		Gender:      u.Gender,
		Role:        u.Role,
		Experience:  u.Experience,
		About:       u.About,
		Skills:      append([]string(nil), u.Skills...),
		PhotoURL:    u.PhotoURL,
		GithubURL:   u.GithubURL,
		LinkedinURL: u.LinkedinURL,
	}
}

// =============================================================================
// CONNECTION REQUESTS
// =============================================================================

// ConnectionRequest is a pending inbound request.
type ConnectionRequest struct {
	ID       string `json:"_id"`
	From     User   `json:"fromUserId"`
	ToUserID string `json:"toUserId,omitempty"`
	Status   string `json:"status,omitempty"`
}

// Decision is the outcome of a swipe, used as a path segment of
// POST /request/send/{status}/{id}.
type Decision string

const (
	DecisionInterested Decision = "interested"
	DecisionIgnored    Decision = "ignored"
)

// Valid reports whether d is one of the known decisions.
func (d Decision) Valid() bool {
	return d == DecisionInterested || d == DecisionIgnored
}

// ReviewStatus is the outcome of reviewing a request, used as a path segment
// of POST /request/review/{status}/{id}.
type ReviewStatus string

const (
	ReviewAccepted ReviewStatus = "accepted"
	ReviewRejected ReviewStatus = "rejected"
)

// Valid reports whether s is one of the known review outcomes.
func (s ReviewStatus) Valid() bool {
	return s == ReviewAccepted || s == ReviewRejected
}

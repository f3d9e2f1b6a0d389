// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/styles"
)

// =============================================================================
// TOASTS
// =============================================================================

func TestToastManagerExpiry(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewToastManager()
	m.now = func() time.Time { return now }

	errID := m.Error("save failed")
	okID := m.Success("saved")
	if errID == okID {
		t.Fatal("toast ids collide")
	}
	if got := m.Toasts(); len(got) != 2 || got[0].ID != okID {
		t.Fatalf("Toasts() = %+v, want newest first", got)
	}

	now = now.Add(DefaultToastDuration)
	if got := m.Tick(); len(got) != 1 || got[0].ID != errID {
		t.Errorf("after 4s Tick() = %+v, want only the error", got)
	}
	now = now.Add(ErrorToastDuration)
	if got := m.Tick(); len(got) != 0 {
		t.Errorf("after 12s Tick() = %+v, want none", got)
	}
}

func TestToastManagerCapAndDismiss(t *testing.T) {
	m := NewToastManager()
	var ids []int
	for i := 0; i < MaxToasts+2; i++ {
		ids = append(ids, m.Info("n"))
	}
	if got := len(m.Toasts()); got != MaxToasts {
		t.Errorf("len = %d, want %d", got, MaxToasts)
	}
	m.Dismiss(ids[len(ids)-1])
	for _, ts := range m.Toasts() {
		if ts.ID == ids[len(ids)-1] {
			t.Error("dismissed toast still visible")
		}
	}
	m.DismissAll()
	if len(m.Toasts()) != 0 {
		t.Error("DismissAll left toasts")
	}
}

func TestRenderToastStack(t *testing.T) {
	theme := styles.NewTheme()
	ts := []Toast{{ID: 1, Kind: ToastKindError, Message: "Connection request failed"}}
	out := RenderToastStack(theme, ts, 80, 10)
	if !strings.Contains(out, "Connection request failed") {
		t.Errorf("stack missing message:\n%s", out)
	}
	if RenderToastStack(theme, nil, 80, 10) != "" {
		t.Error("empty stack rendered something")
	}
}

// =============================================================================
// CODE
// =============================================================================

func TestSplitFences(t *testing.T) {
	segs := SplitFences("look:\n```go\nfmt.Println(1)\n```\nnice")
	if len(segs) != 3 {
		t.Fatalf("segments = %+v", segs)
	}
	if segs[0].Code || segs[0].Text != "look:" {
		t.Errorf("seg0 = %+v", segs[0])
	}
	if !segs[1].Code || segs[1].Language != "go" || segs[1].Text != "fmt.Println(1)" {
		t.Errorf("seg1 = %+v", segs[1])
	}
	if segs[2].Code || segs[2].Text != "nice" {
		t.Errorf("seg2 = %+v", segs[2])
	}

	open := SplitFences("```\nunclosed")
	if len(open) != 1 || !open[0].Code {
		t.Errorf("unclosed fence = %+v", open)
	}
}

func TestRenderMessageTextPlain(t *testing.T) {
	theme := styles.NewTheme()
	if got := RenderMessageText(theme, "just words", 40); got != "just words" {
		t.Errorf("plain text changed: %q", got)
	}
	out := RenderMessageText(theme, "```go\npackage main\n```", 40)
	if !strings.Contains(out, "package") {
		t.Errorf("code lost: %q", out)
	}
}

func TestHighlightFallsBack(t *testing.T) {
	if got := Highlight("x := 1", "no-such-language", "no-such-style"); !strings.Contains(got, "x") {
		t.Errorf("Highlight lost code: %q", got)
	}
}

// =============================================================================
// NAV AND CARDS
// =============================================================================

func TestRenderNav(t *testing.T) {
	theme := styles.NewTheme()
	u := &model.User{FirstName: "Ada", IsPremium: true, MembershipType: "gold"}
	out := RenderNav(theme, "/connections", u, 140)
	for _, want := range []string{Brand, "Connections", "Welcome, Ada", "GOLD"} {
		if !strings.Contains(out, want) {
			t.Errorf("nav missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(RenderNav(theme, "/feed", nil, 140), "Welcome") {
		t.Error("anonymous nav greets a user")
	}
}

func TestNavItemForKey(t *testing.T) {
	it, ok := NavItemForKey("3")
	if !ok || it.Path != "/requests" {
		t.Errorf("NavItemForKey(3) = %+v, %v", it, ok)
	}
	if _, ok := NavItemForKey("9"); ok {
		t.Error("NavItemForKey(9) found an item")
	}
}

func TestRenderFooterDropsOverflow(t *testing.T) {
	theme := styles.NewTheme()
	hints := []KeyHint{{"←", "ignore"}, {"→", "interested"}, {"q", "quit"}}
	out := RenderFooter(theme, hints, 20)
	if lipgloss.Width(out) > 20 {
		t.Errorf("footer width = %d, want <= 20", lipgloss.Width(out))
	}
	if strings.Contains(out, "quit") {
		t.Errorf("footer kept a hint that does not fit: %q", out)
	}
}

func TestRenderCard(t *testing.T) {
	theme := styles.NewTheme()
	u := model.User{
		ID: "u1", FirstName: "Grace", LastName: "Hopper", Age: 30, Gender: "female",
		Role: "backend", Skills: []string{"cobol", "go"}, About: "Wrote the **first** compiler.",
		GithubURL: "https://github.com/grace",
	}
	out := RenderCard(theme, u, CardOptions{Width: 60, Buttons: true})
	for _, want := range []string{"Grace Hopper", "cobol", "compiler", "github.com/grace", "Ignore", "Interested"} {
		if !strings.Contains(out, want) {
			t.Errorf("card missing %q:\n%s", want, out)
		}
	}

	right := RenderCard(theme, u, CardOptions{Width: 60, Offset: 5})
	if !strings.Contains(right, "INTERESTED") {
		t.Error("right drag shows no label")
	}
	left := RenderCard(theme, u, CardOptions{Width: 60, Offset: -5})
	if !strings.Contains(left, "IGNORE") {
		t.Error("left drag shows no label")
	}
}

func TestRenderUserLine(t *testing.T) {
	theme := styles.NewTheme()
	out := RenderUserLine(theme, model.User{FirstName: "Linus", LastName: "T", Role: "kernel"}, true, 40)
	if !strings.Contains(out, "(LT) Linus T") {
		t.Errorf("line = %q", out)
	}
}

func TestRenderMarkdownEmpty(t *testing.T) {
	if RenderMarkdown("   ", "dark", 40) != "" {
		t.Error("blank markdown rendered")
	}
	if out := RenderMarkdown("hello", "notty", 40); !strings.Contains(out, "hello") {
		t.Errorf("RenderMarkdown = %q", out)
	}
}

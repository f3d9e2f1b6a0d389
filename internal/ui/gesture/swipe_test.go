// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gesture

import (
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devtinder/devtinder-tui/internal/model"
)

var t0 = time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

func at(ms int) time.Time { return t0.Add(time.Duration(ms) * time.Millisecond) }

func TestSwipeDistance(t *testing.T) {
	tests := []struct {
		name  string
		moves []int
		want  model.Decision
		ok    bool
	}{
		{"right past threshold", []int{10, 20, 32}, model.DecisionInterested, true},
		{"left past threshold", []int{5, -3, -12}, model.DecisionIgnored, true},
		{"short drag snaps back", []int{11, 14}, "", false},
		{"back to start", []int{30, 10}, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSwipe(Thresholds{Distance: 12, Velocity: 1000})
			s.Press(10, at(0))
			// Slow: 500ms per step keeps velocity out of play.
			for i, x := range tt.moves[:len(tt.moves)-1] {
				s.Move(x, at(500*(i+1)))
			}
			got, ok := s.Release(tt.moves[len(tt.moves)-1], at(500*len(tt.moves)))
			if got != tt.want || ok != tt.ok {
				t.Errorf("Release = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
			if s.Dragging() {
				t.Error("still dragging after release")
			}
		})
	}
}

func TestSwipeFlick(t *testing.T) {
	s := NewSwipe(Thresholds{Distance: 20, Velocity: 60})
	s.Press(40, at(0))
	s.Move(40, at(1000))
	// 5 cells in 50ms = 100 cells/s.
	got, ok := s.Release(35, at(1050))
	if !ok || got != model.DecisionIgnored {
		t.Errorf("flick = (%q, %v), want ignored", got, ok)
	}
}

func TestSwipeFlickReleasedInPlace(t *testing.T) {
	s := NewSwipe(Thresholds{Distance: 12, Velocity: 60})
	clock := t0
	s.now = func() time.Time { return clock }

	s.HandleMouse(tea.MouseMsg{X: 40, Type: tea.MouseLeft})
	clock = at(50)
	// 8 cells in 50ms = 160 cells/s, short of the distance threshold.
	s.HandleMouse(tea.MouseMsg{X: 32, Type: tea.MouseMotion})
	clock = at(110)
	got, ok := s.HandleMouse(tea.MouseMsg{X: 32, Type: tea.MouseRelease})
	if !ok || got != model.DecisionIgnored {
		t.Errorf("release at last motion cell = (%q, %v), want ignored", got, ok)
	}
}

func TestSwipeRestBeforeRelease(t *testing.T) {
	s := NewSwipe(Thresholds{Distance: 12, Velocity: 60})
	s.Press(40, at(0))
	s.Move(32, at(50))
	if got, ok := s.Release(32, at(500)); ok {
		t.Errorf("release after resting = (%q, %v), want snap back", got, ok)
	}

	s.Press(40, at(1000))
	s.Move(32, at(1050))
	s.Move(32, at(1400))
	if got, ok := s.Release(32, at(1420)); ok {
		t.Errorf("release after a still report = (%q, %v), want snap back", got, ok)
	}
}

func TestSwipeOffset(t *testing.T) {
	s := NewSwipe(Thresholds{})
	if s.Offset() != 0 {
		t.Errorf("Offset before press = %d", s.Offset())
	}
	s.Press(10, at(0))
	if got := s.Move(16, at(100)); got != 6 {
		t.Errorf("Move offset = %d, want 6", got)
	}
	s.Cancel()
	if s.Offset() != 0 || s.Dragging() {
		t.Error("Cancel did not reset drag")
	}
	if _, ok := s.Release(50, at(200)); ok {
		t.Error("Release without press decided")
	}
}

func TestHandleMouse(t *testing.T) {
	s := NewSwipe(Thresholds{Distance: 10, Velocity: 1e9})
	clock := t0
	s.now = func() time.Time { clock = clock.Add(time.Second); return clock }

	if _, ok := s.HandleMouse(tea.MouseMsg{X: 5, Type: tea.MouseLeft}); ok {
		t.Fatal("press decided")
	}
	s.HandleMouse(tea.MouseMsg{X: 10, Type: tea.MouseMotion})
	if s.Offset() != 5 {
		t.Errorf("Offset = %d, want 5", s.Offset())
	}
	d, ok := s.HandleMouse(tea.MouseMsg{X: 20, Type: tea.MouseRelease})
	if !ok || d != model.DecisionInterested {
		t.Errorf("release = (%q, %v), want interested", d, ok)
	}
}

func TestKey(t *testing.T) {
	tests := []struct {
		msg  tea.KeyMsg
		want model.Decision
		ok   bool
	}{
		{tea.KeyMsg{Type: tea.KeyLeft}, model.DecisionIgnored, true},
		{tea.KeyMsg{Type: tea.KeyRight}, model.DecisionInterested, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("h")}, model.DecisionIgnored, true},
		{tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("l")}, model.DecisionInterested, true},
		{tea.KeyMsg{Type: tea.KeyEnter}, "", false},
	}
	for _, tt := range tests {
		got, ok := Key(tt.msg)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Key(%q) = (%q, %v), want (%q, %v)", tt.msg.String(), got, ok, tt.want, tt.ok)
		}
	}
}

func TestDefaultsApplied(t *testing.T) {
	s := NewSwipe(Thresholds{Distance: -1})
	if s.th != DefaultThresholds {
		t.Errorf("thresholds = %+v, want %+v", s.th, DefaultThresholds)
	}
}

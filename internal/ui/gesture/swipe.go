// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package gesture

import (
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// Thresholds decide when a drag becomes a decision. Either one is enough.
type Thresholds struct {
	// Distance in cells.
	Distance int
	// Velocity in cells per second, measured over the last step that moved
	// the pointer.
	Velocity float64
}

// flickWindow is how long the last step's velocity still counts. A pointer
// that rests longer than this before release is not flicking.
const flickWindow = 150 * time.Millisecond

// DefaultThresholds match the config defaults.
var DefaultThresholds = Thresholds{Distance: 12, Velocity: 60}

// Swipe recognizes one drag at a time. Not safe for concurrent use; it
// lives inside a Bubble Tea model.
type Swipe struct {
	th  Thresholds
	now func() time.Time

	active bool
	startX int
	lastX  int
	lastT  time.Time
	// vel is the velocity of the last step that changed x.
	vel float64
}

// NewSwipe creates a recognizer. Non-positive thresholds fall back to the
// defaults.
func NewSwipe(th Thresholds) *Swipe {
	if th.Distance <= 0 {
		th.Distance = DefaultThresholds.Distance
	}
	if th.Velocity <= 0 {
		th.Velocity = DefaultThresholds.Velocity
	}
	return &Swipe{th: th, now: time.Now}
}

// Dragging reports whether a drag is in progress.
func (s *Swipe) Dragging() bool { return s.active }

// Offset is the horizontal displacement of the current drag.
func (s *Swipe) Offset() int {
	if !s.active {
		return 0
	}
	return s.lastX - s.startX
}

// Press starts a drag at x.
func (s *Swipe) Press(x int, at time.Time) {
	s.active = true
	s.startX, s.lastX = x, x
	s.lastT = at
	s.vel = 0
}

// Move records pointer motion and returns the current offset.
func (s *Swipe) Move(x int, at time.Time) int {
	if !s.active {
		return 0
	}
	dt := at.Sub(s.lastT)
	switch {
	case x != s.lastX:
		if dt > 0 {
			s.vel = float64(x-s.lastX) / dt.Seconds()
		}
		s.lastX, s.lastT = x, at
	case dt > flickWindow:
		// The pointer rested; a later release is not a flick.
		s.vel = 0
		s.lastT = at
	}
	// A repeat report at the same cell keeps the last step's velocity:
	// terminals send the release where the last motion ended.
	return s.Offset()
}

// Release ends the drag at x. ok is false when the drag was too short and
// too slow; the card then snaps back.
func (s *Swipe) Release(x int, at time.Time) (d model.Decision, ok bool) {
	if !s.active {
		return "", false
	}
	s.Move(x, at)
	dx := s.lastX - s.startX
	v := s.velocity(at)
	s.Cancel()

	if abs(dx) < s.th.Distance && math.Abs(v) < s.th.Velocity {
		return "", false
	}
	dir := dx
	if abs(dx) < s.th.Distance {
		// Fast flick: the flick's direction wins.
		dir = int(math.Copysign(1, v))
	}
	if dir == 0 {
		return "", false
	}
	if dir > 0 {
		return model.DecisionInterested, true
	}
	return model.DecisionIgnored, true
}

// Cancel drops the current drag.
func (s *Swipe) Cancel() {
	s.active = false
}

func (s *Swipe) velocity(at time.Time) float64 {
	if at.Sub(s.lastT) > flickWindow {
		return 0
	}
	return s.vel
}

// HandleMouse feeds a Bubble Tea mouse event into the recognizer.
func (s *Swipe) HandleMouse(msg tea.MouseMsg) (model.Decision, bool) {
	at := s.now()
	switch msg.Type {
	case tea.MouseLeft:
		if !s.active {
			s.Press(msg.X, at)
		} else {
			s.Move(msg.X, at)
		}
	case tea.MouseMotion:
		s.Move(msg.X, at)
	case tea.MouseRelease:
		return s.Release(msg.X, at)
	}
	return "", false
}

// Key maps the keyboard equivalents of a swipe.
func Key(msg tea.KeyMsg) (model.Decision, bool) {
	switch msg.String() {
	case "left", "h":
		return model.DecisionIgnored, true
	case "right", "l":
		return model.DecisionInterested, true
	}
	return "", false
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

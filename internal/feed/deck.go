// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package feed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/store"
)

// Backend is the slice of the REST client the deck needs.
type Backend interface {
	Feed(ctx context.Context) ([]model.User, error)
	SendDecision(ctx context.Context, decision model.Decision, userID string) error
}

var (
	// ErrEmpty is returned when there is no card to decide.
	ErrEmpty = errors.New("feed: no more profiles")
	// ErrBusy is returned while another decision is in flight.
	ErrBusy = errors.New("feed: a decision is already in flight")
	// ErrNotTop is returned when deciding a card other than the top one.
	ErrNotTop = errors.New("feed: only the top profile can be decided")
)

// Outcome reports a finished decision.
type Outcome struct {
	User     model.User
	Decision model.Decision
	// Reconciled is set when the feed was re-fetched after a failure.
	Reconciled bool
	// Refilled is set when the deck ran empty and was re-fetched.
	Refilled bool
}

// Deck drives decisions over the feed. Safe for concurrent use.
type Deck struct {
	backend Backend
	store   *store.Store
	log     logrus.FieldLogger

	mu      sync.Mutex
	exiting string
}

// NewDeck creates a deck backed by st.
func NewDeck(backend Backend, st *store.Store, log logrus.FieldLogger) *Deck {
	return &Deck{backend: backend, store: st, log: logging.OrDiscard(log)}
}

// Top returns the card on top of the deck.
func (d *Deck) Top() (model.User, bool) {
	feed := d.store.Feed()
	if len(feed) == 0 {
		return model.User{}, false
	}
	return feed[0], true
}

// Exiting returns the id of the card whose decision is in flight, or "".
func (d *Deck) Exiting() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exiting
}

// Refresh replaces the feed with the backend's. On failure the current feed
// is kept.
func (d *Deck) Refresh(ctx context.Context) error {
	users, err := d.backend.Feed(ctx)
	if err != nil {
		d.log.WithError(err).Warn("Failed to load feed")
		return fmt.Errorf("feed: load: %w", err)
	}
	d.store.SetFeed(users)
	d.log.WithField("count", len(users)).Debug("Feed loaded")
	return nil
}

// EnsureLoaded fetches the feed when the deck is empty.
func (d *Deck) EnsureLoaded(ctx context.Context) error {
	if len(d.store.Feed()) > 0 {
		return nil
	}
	return d.Refresh(ctx)
}

// Decide applies decision to the top card.
func (d *Deck) Decide(ctx context.Context, decision model.Decision) (Outcome, error) {
	top, ok := d.Top()
	if !ok {
		return Outcome{}, ErrEmpty
	}
	return d.DecideID(ctx, top.ID, decision)
}

// DecideID applies decision to the card with id, which must be on top.
func (d *Deck) DecideID(ctx context.Context, id string, decision model.Decision) (Outcome, error) {
	if !decision.Valid() {
		return Outcome{}, fmt.Errorf("feed: unknown decision %q", decision)
	}

	d.mu.Lock()
	if d.exiting != "" {
		d.mu.Unlock()
		return Outcome{}, ErrBusy
	}
	top, ok := d.Top()
	switch {
	case !ok:
		d.mu.Unlock()
		return Outcome{}, ErrEmpty
	case top.ID != id:
		d.mu.Unlock()
		return Outcome{}, ErrNotTop
	}
	d.exiting = id
	d.mu.Unlock()

	defer func() {
		d.mu.Lock()
		d.exiting = ""
		d.mu.Unlock()
	}()

	log := d.log.WithFields(logrus.Fields{"user": id, "decision": string(decision)})
	err := d.backend.SendDecision(ctx, decision, id)
	d.store.RemoveFromFeed(id)

	out := Outcome{User: top, Decision: decision}
	if err != nil {
		log.WithError(err).Warn("Decision failed")
		if rerr := d.Refresh(ctx); rerr == nil {
			out.Reconciled = true
		}
		return out, fmt.Errorf("feed: %s %s: %w", decision, top.FirstName, err)
	}
	log.Debug("Decision sent")

	if len(d.store.Feed()) == 0 {
		if rerr := d.Refresh(ctx); rerr == nil {
			out.Refilled = true
		}
	}
	return out, nil
}

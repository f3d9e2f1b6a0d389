// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package requests

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

// Backend is the slice of the REST client the reviewer needs.
type Backend interface {
	Requests(ctx context.Context) ([]model.ConnectionRequest, error)
	Connections(ctx context.Context) ([]model.User, error)
	ReviewRequest(ctx context.Context, status model.ReviewStatus, requestID string) error
}

var (
	// ErrUnknownRequest is returned for an id that is not pending.
	ErrUnknownRequest = errors.New("requests: no such pending request")
	// ErrInFlight is returned when the request is already being reviewed.
	ErrInFlight = errors.New("requests: review already in flight")
)

// Reviewer drives the requests and connections slices. Safe for concurrent
// use.
type Reviewer struct {
	backend Backend
	store   *store.Store
	log     logrus.FieldLogger

	mu       sync.Mutex
	inFlight map[string]struct{}
}

// NewReviewer creates a reviewer backed by st.
func NewReviewer(backend Backend, st *store.Store, log logrus.FieldLogger) *Reviewer {
	return &Reviewer{
		backend:  backend,
		store:    st,
		log:      logging.OrDiscard(log),
		inFlight: make(map[string]struct{}),
	}
}

// Load replaces the requests slice with the pending inbound requests.
func (r *Reviewer) Load(ctx context.Context) error {
	reqs, err := r.backend.Requests(ctx)
	if err != nil {
		r.log.WithError(err).Warn("Failed to load requests")
		return fmt.Errorf("requests: load: %w", err)
	}
	r.store.SetRequests(reqs)
	return nil
}

// LoadConnections replaces the connections slice.
func (r *Reviewer) LoadConnections(ctx context.Context) error {
	conns, err := r.backend.Connections(ctx)
	if err != nil {
		r.log.WithError(err).Warn("Failed to load connections")
		return fmt.Errorf("connections: load: %w", err)
	}
	r.store.SetConnections(conns)
	return nil
}

// Pending reports whether a review of id is in flight.
func (r *Reviewer) Pending(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.inFlight[id]
	return ok
}

// Review accepts or rejects the pending request id. The request leaves the
// list only once the backend agrees; an acceptance then re-fetches
// connections once. A failed review re-fetches the requests instead.
func (r *Reviewer) Review(ctx context.Context, id string, status model.ReviewStatus) error {
	if !status.Valid() {
		return fmt.Errorf("requests: unknown review status %q", status)
	}
	if !r.has(id) {
		return ErrUnknownRequest
	}

	r.mu.Lock()
	if _, busy := r.inFlight[id]; busy {
		r.mu.Unlock()
		return ErrInFlight
	}
	r.inFlight[id] = struct{}{}
	r.mu.Unlock()
	defer func() {
		r.mu.Lock()
		delete(r.inFlight, id)
		r.mu.Unlock()
	}()

	log := r.log.WithFields(logrus.Fields{"request": id, "status": string(status)})
	if err := r.backend.ReviewRequest(ctx, status, id); err != nil {
		log.WithError(err).Warn("Review failed")
		_ = r.Load(ctx)
		return fmt.Errorf("requests: %s: %w", status, err)
	}
	r.store.RemoveRequest(id)
	log.Debug("Request reviewed")

	if status == model.ReviewAccepted {
		return r.LoadConnections(ctx)
	}
	return nil
}

func (r *Reviewer) has(id string) bool {
	for _, req := range r.store.Requests() {
		if req.ID == id {
			return true
		}
	}
	return false
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package theme

import (
	"context"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/storage"
)

// KV is the slice of local storage the preference needs.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
}

// Parse maps name onto a theme, falling back to the default for anything
// outside the fixed set.
func Parse(name string) model.ThemeName {
	t, _ := model.ParseTheme(name)
	return t
}

// Preference is the current theme plus its persistence.
type Preference struct {
	mu       sync.RWMutex
	kv       KV
	current  model.ThemeName
	fallback model.ThemeName
	log      logrus.FieldLogger
}

// NewPreference creates a preference backed by kv. fallback is used when
// nothing valid is stored; an invalid fallback becomes the package default.
func NewPreference(kv KV, fallback model.ThemeName, log logrus.FieldLogger) *Preference {
	if !fallback.Valid() {
		fallback = model.DefaultTheme
	}
	return &Preference{kv: kv, current: fallback, fallback: fallback, log: logging.OrDiscard(log)}
}

// Load reads the stored theme. Unknown stored values fall back without
// error; only storage failures are returned, and the fallback is still
// applied in that case.
func (p *Preference) Load(ctx context.Context) (model.ThemeName, error) {
	raw, ok, err := p.kv.Get(ctx, storage.KeyTheme)
	t := p.fallback
	if err == nil && ok {
		if parsed, valid := model.ParseTheme(raw); valid {
			t = parsed
		} else {
			p.log.WithFields(logrus.Fields{"stored": raw, "fallback": t}).Warn("Unknown stored theme")
		}
	}

	p.mu.Lock()
	p.current = t
	p.mu.Unlock()

	if err != nil {
		return t, fmt.Errorf("failed to load theme: %w", err)
	}
	return t, nil
}

// Set validates, persists and applies t.
func (p *Preference) Set(ctx context.Context, t model.ThemeName) error {
	if !t.Valid() {
		return fmt.Errorf("unknown theme %q", t)
	}
	if err := p.kv.Set(ctx, storage.KeyTheme, string(t)); err != nil {
		return fmt.Errorf("failed to save theme: %w", err)
	}
	p.mu.Lock()
	p.current = t
	p.mu.Unlock()
	return nil
}

// Current returns the applied theme.
func (p *Preference) Current() model.ThemeName {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.current
}

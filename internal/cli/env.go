// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// env.go - Wiring shared by the TUI and the one-shot commands.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/chat"
	"github.com/devtinder/devtinder-tui/internal/config"
	"github.com/devtinder/devtinder-tui/internal/feed"
	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/premium"
	"github.com/devtinder/devtinder-tui/internal/realtime"
	"github.com/devtinder/devtinder-tui/internal/requests"
	"github.com/devtinder/devtinder-tui/internal/session"
	"github.com/devtinder/devtinder-tui/internal/storage"
	"github.com/devtinder/devtinder-tui/internal/store"
	"github.com/devtinder/devtinder-tui/internal/theme"
	"github.com/devtinder/devtinder-tui/internal/ui/gesture"
	"github.com/devtinder/devtinder-tui/internal/ui/views"
)

// Env is everything a command needs.
type Env struct {
	Config     *config.Config
	ConfigPath string

	DB       *storage.DB
	Client   *api.Client
	Session  *session.Manager
	Theme    *theme.Preference
	Store    *store.Store
	Deck     *feed.Deck
	Reviewer *requests.Reviewer
	Premium  *premium.Service

	// Restored is set when a saved login was loaded at startup.
	Restored bool

	In  io.Reader
	Out io.Writer
	Err io.Writer
	Log logrus.FieldLogger

	// Prompt is created on first use when nil.
	Prompt Prompter
}

// Open builds an Env from cfg: the state database, the REST client, and
// the saved session (restored when present).
func Open(ctx context.Context, cfg *config.Config, log logrus.FieldLogger) (*Env, error) {
	log = logging.OrDiscard(log)

	dbPath, err := cfg.StoragePath()
	if err != nil {
		return nil, fmt.Errorf("resolve storage path: %w", err)
	}
	db, err := storage.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open state database: %w", err)
	}

	client, err := api.NewClientWithConfig(&api.ClientConfig{
		BaseURL:           cfg.Server.APIURL,
		Timeout:           time.Duration(cfg.Server.TimeoutSecs) * time.Second,
		RequestsPerSecond: cfg.Server.RequestsPerSecond,
		Burst:             cfg.Server.Burst,
		Logger:            log.WithField("component", "api"),
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	var cookies session.CookieStore
	if cfg.Storage.PersistSession {
		s, err := storage.NewSessionStore(ctx, db)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("open session store: %w", err)
		}
		cookies = s
	}

	cfgPath, _ := config.ConfigPathTOML()
	env := NewEnv(cfg, db, client, cookies, log)
	env.ConfigPath = cfgPath

	restored, err := env.Session.Restore(ctx)
	if err != nil {
		// A broken saved session is not fatal; the user logs in again.
		log.WithError(err).Warn("Could not restore saved session")
	}
	env.Restored = restored
	return env, nil
}

// NewEnv assembles an Env from already-open parts. cookies may be nil.
func NewEnv(cfg *config.Config, db *storage.DB, client *api.Client, cookies session.CookieStore, log logrus.FieldLogger) *Env {
	log = logging.OrDiscard(log)
	st := store.New()
	return &Env{
		Config:   cfg,
		DB:       db,
		Client:   client,
		Session:  session.NewManager(client, cookies, log.WithField("component", "session")),
		Theme:    theme.NewPreference(db, theme.Parse(cfg.UI.DefaultTheme), log),
		Store:    st,
		Deck:     feed.NewDeck(client, st, log.WithField("component", "feed")),
		Reviewer: requests.NewReviewer(client, st, log.WithField("component", "requests")),
		Premium:  premium.NewService(client, st, log.WithField("component", "premium")),
		In:       os.Stdin,
		Out:      os.Stdout,
		Err:      os.Stderr,
		Log:      log,
	}
}

// Close releases the prompter and the database.
func (e *Env) Close() error {
	if e.Prompt != nil {
		_ = e.Prompt.Close()
	}
	if e.DB != nil {
		return e.DB.Close()
	}
	return nil
}

// prompter returns Prompt, creating a terminal prompter on first use.
func (e *Env) prompter() (Prompter, error) {
	if e.Prompt != nil {
		return e.Prompt, nil
	}
	history := ""
	if dir, err := config.ConfigDir(); err == nil {
		history = filepath.Join(dir, "prompt_history")
	}
	p, err := NewTerminalPrompter(history)
	if err != nil {
		return nil, err
	}
	e.Prompt = p
	return p, nil
}

// requireSession fails fast when no session cookie is held.
func (e *Env) requireSession() error {
	if info, ok := e.Session.Info(); !ok || info.Expired(time.Now()) {
		return errNotLoggedIn
	}
	return nil
}

// Deps returns what the TUI views need.
func (e *Env) Deps() *views.Deps {
	swipe := gesture.DefaultThresholds
	if e.Config.UI.SwipeDistance > 0 {
		swipe.Distance = e.Config.UI.SwipeDistance
	}
	if e.Config.UI.SwipeVelocity > 0 {
		swipe.Velocity = e.Config.UI.SwipeVelocity
	}

	socketURL := e.Config.EffectiveSocketURL()
	client, log, optimistic := e.Client, e.Log, e.Config.UI.OptimisticSend
	return &views.Deps{
		Client:   e.Client,
		Store:    e.Store,
		Deck:     e.Deck,
		Reviewer: e.Reviewer,
		Premium:  e.Premium,
		Theme:    e.Theme,
		Session:  e.Session,
		Swipe:    swipe,
		Log:      e.Log,
		NewChat: func() *chat.Controller {
			return chat.New(chat.Options{
				Dial: chat.RealtimeDialer(socketURL, realtime.Options{
					Jar:    client.Jar(),
					Logger: log.WithField("component", "realtime"),
				}),
				History:    client,
				Optimistic: optimistic,
				Logger:     log.WithField("component", "chat"),
			})
		},
	}
}

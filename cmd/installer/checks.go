// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/dustin/go-humanize"

	"github.com/devtinder/devtinder-tui/internal/api"
	"github.com/devtinder/devtinder-tui/internal/config"
	"github.com/devtinder/devtinder-tui/internal/model"
)

// minFreeBytes is what the state database and logs need to be comfortable.
const minFreeBytes = 20 << 20

// Check statuses.
const (
	statusChecking = "checking"
	statusPass     = "pass"
	statusWarn     = "warn"
	statusFail     = "fail"
)

// CheckResult represents a system check result
type CheckResult struct {
	Name    string
	Status  string // "pass", "fail", "warn", "checking"
	Message string
	Fix     string
}

// Checker runs the system checks. Probe and FreeBytes are swapped in
// tests.
type Checker struct {
	ConfigDir string
	APIURL    string
	Probe     func(ctx context.Context, apiURL string) error
	FreeBytes func(path string) (uint64, error)
}

// NewChecker checks dir and the backend at apiURL.
func NewChecker(dir, apiURL string) *Checker {
	return &Checker{ConfigDir: dir, APIURL: apiURL, Probe: probeBackend, FreeBytes: freeDiskBytes}
}

// checkNames lists the checks in the order Run takes.
var checkNames = []string{"Operating System", "Config Directory", "Disk Space", "DevTinder Backend"}

// Run performs check index.
func (c *Checker) Run(ctx context.Context, index int) CheckResult {
	switch index {
	case 0:
		return CheckResult{Name: checkNames[0], Status: statusPass, Message: runtime.GOOS + "/" + runtime.GOARCH}
	case 1:
		return c.checkConfigDir()
	case 2:
		return c.checkDisk()
	case 3:
		return c.checkBackend(ctx)
	}
	return CheckResult{Name: "unknown", Status: statusFail}
}

func (c *Checker) checkConfigDir() CheckResult {
	res := CheckResult{Name: checkNames[1]}
	if err := os.MkdirAll(c.ConfigDir, 0o700); err != nil {
		res.Status, res.Message, res.Fix = statusFail, err.Error(), "Check permissions on "+c.ConfigDir
		return res
	}
	probe, err := os.CreateTemp(c.ConfigDir, ".setup-*")
	if err != nil {
		res.Status, res.Message, res.Fix = statusFail, "not writable", "Check permissions on "+c.ConfigDir
		return res
	}
	probe.Close()
	os.Remove(probe.Name())
	res.Status, res.Message = statusPass, c.ConfigDir
	return res
}

func (c *Checker) checkDisk() CheckResult {
	res := CheckResult{Name: checkNames[2]}
	free, err := c.FreeBytes(c.ConfigDir)
	if err != nil {
		res.Status, res.Message = statusWarn, "could not measure free space"
		return res
	}
	res.Message = humanize.IBytes(free) + " available"
	if free < minFreeBytes {
		res.Status, res.Fix = statusWarn, "Free up some space in "+c.ConfigDir
		return res
	}
	res.Status = statusPass
	return res
}

func (c *Checker) checkBackend(ctx context.Context) CheckResult {
	res := CheckResult{Name: checkNames[3]}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.Probe(ctx, c.APIURL); err != nil {
		res.Status = statusWarn
		res.Message = "not reachable at " + c.APIURL
		res.Fix = "Start the backend or enter its address in the next step"
		return res
	}
	res.Status, res.Message = statusPass, "reachable at "+c.APIURL
	return res
}

// probeBackend reports whether a DevTinder backend answers at apiURL. A
// 401 from the profile endpoint counts: the server is there, we just have
// no session yet.
func probeBackend(ctx context.Context, apiURL string) error {
	client, err := api.NewClientWithConfig(&api.ClientConfig{BaseURL: apiURL, Timeout: 5 * time.Second})
	if err != nil {
		return err
	}
	_, err = client.Profile(ctx)
	if err == nil || errors.Is(err, api.ErrUnauthorized) {
		return nil
	}
	return err
}

// =============================================================================
// CONFIG FILE
// =============================================================================

// Choices are what the setup asks for.
type Choices struct {
	APIURL string
	Theme  model.ThemeName
	Mouse  bool
}

// writeConfig merges choices into the file at path (or the defaults when
// there is none) and saves it.
func writeConfig(path string, ch Choices) (*config.Config, error) {
	cfg := config.Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read existing config: %w", err)
	}
	cfg.Server.APIURL = strings.TrimRight(strings.TrimSpace(ch.APIURL), "/")
	cfg.UI.DefaultTheme = string(ch.Theme)
	cfg.UI.Mouse = ch.Mouse
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := config.SaveTOML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}

// configFile is where the setup writes.
func configFile(dir string) string {
	return filepath.Join(dir, "config.toml")
}

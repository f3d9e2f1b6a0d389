// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devtinder/devtinder-tui/internal/backendtest"
	"github.com/devtinder/devtinder-tui/internal/config"
	"github.com/devtinder/devtinder-tui/internal/model"
)

func readBack(t *testing.T, path string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	_, err := toml.DecodeFile(path, cfg)
	require.NoError(t, err)
	return cfg
}

func TestProbeBackend(t *testing.T) {
	srv := backendtest.New(t)
	assert.NoError(t, probeBackend(t.Context(), srv.URL), "401 means the backend is there")

	url := srv.URL
	srv.Close()
	assert.Error(t, probeBackend(t.Context(), url))
}

func TestChecks(t *testing.T) {
	dir := t.TempDir()
	c := NewChecker(dir, "http://backend.invalid")
	c.Probe = func(context.Context, string) error { return errors.New("refused") }
	c.FreeBytes = func(string) (uint64, error) { return 1 << 20, nil }

	assert.Equal(t, statusPass, c.Run(t.Context(), 0).Status)
	assert.Equal(t, statusPass, c.Run(t.Context(), 1).Status)

	disk := c.Run(t.Context(), 2)
	assert.Equal(t, statusWarn, disk.Status)
	assert.Contains(t, disk.Message, "1.0 MiB")

	backend := c.Run(t.Context(), 3)
	assert.Equal(t, statusWarn, backend.Status)
	assert.Contains(t, backend.Message, "http://backend.invalid")
	assert.NotEmpty(t, backend.Fix)

	c.FreeBytes = func(string) (uint64, error) { return 1 << 30, nil }
	assert.Equal(t, statusPass, c.Run(t.Context(), 2).Status)
}

func TestWriteConfigKeepsOtherSettings(t *testing.T) {
	path := configFile(t.TempDir())
	require.NoError(t, os.WriteFile(path, []byte("[logging]\nlevel = \"debug\"\n"), 0o600))

	_, err := writeConfig(path, Choices{APIURL: "http://api.example.com/ ", Theme: model.ThemeRetro})
	require.NoError(t, err)

	cfg := readBack(t, path)
	assert.Equal(t, "http://api.example.com", cfg.Server.APIURL)
	assert.Equal(t, "retro", cfg.UI.DefaultTheme)
	assert.False(t, cfg.UI.Mouse)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestWriteConfigRejectsBadURL(t *testing.T) {
	path := configFile(t.TempDir())
	_, err := writeConfig(path, Choices{APIURL: "ftp://nope", Theme: model.ThemeDark})
	require.Error(t, err)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestTextInstaller(t *testing.T) {
	srv := backendtest.New(t)
	dir := t.TempDir()
	in := strings.NewReader("\nneon\nDracula\nn\n")
	var out bytes.Buffer

	require.NoError(t, runTextInstaller(in, &out, dir, srv.URL))
	assert.Contains(t, out.String(), "[OK] DevTinder Backend: reachable")
	assert.Contains(t, out.String(), "Unknown theme, try again.")

	cfg := readBack(t, configFile(dir))
	assert.Equal(t, srv.URL, cfg.Server.APIURL)
	assert.Equal(t, "dracula", cfg.UI.DefaultTheme)
	assert.False(t, cfg.UI.Mouse)
}

func TestInstallerFlow(t *testing.T) {
	dir := t.TempDir()
	i := NewInstaller(dir, "http://localhost:7777")
	i.checker.Probe = func(context.Context, string) error { return nil }
	i.checker.FreeBytes = func(string) (uint64, error) { return 1 << 30, nil }

	press := func(k tea.KeyType) tea.Cmd {
		_, cmd := i.Update(tea.KeyMsg{Type: k})
		return cmd
	}

	cmd := press(tea.KeyEnter)
	require.Equal(t, PhaseSystemCheck, i.phase)
	// Enter does nothing until every check has reported.
	press(tea.KeyEnter)
	assert.Equal(t, PhaseSystemCheck, i.phase)

	for !i.checksDone() {
		require.NotNil(t, cmd)
		msg, ok := cmd().(checkCompleteMsg)
		require.True(t, ok)
		i.Update(msg)
		cmd = i.runCheck(i.currentCheck)
	}
	for _, c := range i.checks {
		assert.Equal(t, statusPass, c.Status, c.Name)
	}
	assert.Contains(t, i.View(), "Press ENTER to continue")

	press(tea.KeyEnter)
	require.Equal(t, PhaseConfigure, i.phase)

	press(tea.KeyTab)
	press(tea.KeyRight)
	press(tea.KeyRight)
	press(tea.KeyTab)
	press(tea.KeyRight)
	assert.Equal(t, model.Themes[2], i.choices().Theme)
	assert.False(t, i.choices().Mouse)

	save := press(tea.KeyEnter)
	require.NotNil(t, save)
	i.Update(save())
	require.Equal(t, PhaseComplete, i.phase)
	assert.Contains(t, i.View(), configFile(dir))

	cfg := readBack(t, configFile(dir))
	assert.Equal(t, string(model.Themes[2]), cfg.UI.DefaultTheme)
	assert.Equal(t, "http://localhost:7777", cfg.Server.APIURL)

	_, quit := i.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, quit)
	assert.Equal(t, tea.Quit(), quit())
}

func TestInstallerShowsSaveErrors(t *testing.T) {
	i := NewInstaller(t.TempDir(), "ftp://nope")
	i.phase = PhaseConfigure
	i.focus(fieldURL)

	_, save := i.Update(tea.KeyMsg{Type: tea.KeyEnter})
	i.Update(save())
	assert.Equal(t, PhaseConfigure, i.phase)
	assert.Contains(t, i.View(), "invalid URL")
}

// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// config_cmd.go - Read and change the configuration file.
//
// Command: config [show|get <key>|set <key> <value>|path] [--json]
// Short:   Show or change settings
//
// Examples:
//   devtinder config                           Show every setting
//   devtinder config get server.api_url        Show one setting
//   devtinder config set ui.default_theme retro
//   devtinder config set server.api_url http://localhost:7777
//   devtinder config path                      Print the file location

package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"

	"github.com/devtinder/devtinder-tui/internal/config"
)

// ConfigEntry is one key of `config show --json`.
type ConfigEntry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
}

// HandleConfig handles "config". show prints the effective configuration
// (file plus environment); set edits the file only.
func HandleConfig(_ context.Context, env *Env, args Args) error {
	p := args.Parser()
	switch args.Subcommand {
	case "", "show", "list", "ls":
		entries := make([]ConfigEntry, 0, len(config.Keys()))
		for _, key := range config.Keys() {
			v, err := env.Config.Get(key)
			if err != nil {
				return NewCommandError("config", "show", "unreadable key "+key, err)
			}
			entries = append(entries, ConfigEntry{Key: key, Value: v})
		}
		if args.JSON {
			return NewJSONResponse("config", entries).Print(env.Out)
		}
		fmt.Fprintln(env.Out, TitleStyle.Render("Configuration"))
		for _, e := range entries {
			fmt.Fprintf(env.Out, "  %-26s %s\n", e.Key, ValueStyle.Render(fmt.Sprint(e.Value)))
		}
		return nil

	case "get":
		key := p.Positional(1)
		if key == "" {
			return ErrMissingArgument("key", "devtinder config get server.api_url")
		}
		v, err := env.Config.Get(key)
		if err != nil {
			return NewValidationError("key", key, err.Error())
		}
		if args.JSON {
			return NewJSONResponse("config get", ConfigEntry{Key: key, Value: v}).Print(env.Out)
		}
		fmt.Fprintln(env.Out, fmt.Sprint(v))
		return nil

	case "set":
		key, value := p.Positional(1), p.Positional(2)
		if key == "" || p.PositionalCount() < 3 {
			return ErrMissingArgument("key and value", "devtinder config set ui.mouse false")
		}
		path, err := env.configPath()
		if err != nil {
			return NewCommandError("config", "set", "no config location", err)
		}
		cfg, err := readConfigFile(path)
		if err != nil {
			return NewCommandError("config", "set", "could not read "+path, err)
		}
		if err := cfg.Set(key, value); err != nil {
			return NewValidationError("key", key, err.Error())
		}
		cfg.SetDefaults()
		if err := cfg.Validate(); err != nil {
			return err
		}
		if err := config.SaveTOML(cfg, path); err != nil {
			return NewCommandError("config", "set", "could not write "+path, err)
		}
		// Keep the running Env in step so a following TUI start sees it.
		_ = env.Config.Set(key, value)
		if !args.Quiet {
			fmt.Fprintf(env.Out, "%s %s = %s\n", SuccessStyle.Render("✓"), key, value)
		}
		return nil

	case "path":
		path, err := env.configPath()
		if err != nil {
			return NewCommandError("config", "path", "no config location", err)
		}
		fmt.Fprintln(env.Out, path)
		return nil
	}
	return NewValidationError("config subcommand", args.Subcommand, "expected show, get, set or path")
}

// configPath is the file config set writes to.
func (e *Env) configPath() (string, error) {
	if e.ConfigPath != "" {
		return e.ConfigPath, nil
	}
	return config.ConfigPathTOML()
}

// readConfigFile decodes path over the defaults without environment
// overrides, so saving it back does not capture DEVTINDER_* values. A
// missing file yields the defaults.
func readConfigFile(path string) (*config.Config, error) {
	cfg := config.Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}
	return cfg, nil
}

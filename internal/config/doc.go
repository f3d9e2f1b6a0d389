// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides configuration loading and management for devtinder.
//
// # Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    // cfg still holds defaults when only the file failed to parse
//	}
//	client := api.NewClient(api.ConfigFrom(cfg))
//
// Values can be read and written by dotted key, which is what the
// `devtinder config set` command uses:
//
//	_ = cfg.Set("ui.mouse", "false")
//	v, _ := cfg.Get("server.api_url")
//
// Watch reloads the file on change so UI tweaks apply without a restart.
package config

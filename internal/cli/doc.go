// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package cli provides command-line parsing and the non-interactive
// devtinder commands.
//
// With no command the TUI starts. Every other command runs once against the
// backend and exits, sharing the saved session with the TUI.
//
// # Key Types
//
//   - Command: enumeration of the available commands
//   - Args: parsed command-line arguments (global flags plus the rest)
//   - Env: what a command needs (config, REST client, session, storage)
//   - Prompter: line editing and password input for interactive commands
//
// # Usage
//
//	cmd, args := cli.Parse()
//	env, err := cli.Open(cfg, log)
//	...
//	err = cli.Run(ctx, env, cmd, args)
//	os.Exit(cli.GetExitCode(err))
//
// # Commands Overview
//
//   - login, logout, whoami: session management
//   - feed, connections, requests: read the social graph, review requests
//   - premium: membership status, orders and payment verification
//   - theme, config: local preferences
//
// Commands that print data accept --json.
package cli

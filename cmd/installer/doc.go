// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

/*
Package installer is the devtinder first-run setup: a short guided flow
that checks the machine, finds the backend and writes the configuration
file.

# Overview

The setup is a Bubble Tea program with a text fallback for terminals that
cannot run it (or for pasting into a script).

# Command Line Options

	--text, -t     Run in text mode (no TUI)
	--api URL      Backend address to try first
	--help, -h     Show help information
	--version, -v  Show version number

# Files Created

	~/.devtinder/
	    config.toml      # Written by the setup
	    state.db         # Created by devtinder on first run

# Architecture

  - main.go: entry point, flag handling, text mode
  - installer.go: the TUI model and its phases
  - checks.go: the system checks both modes run

The TUI uses a phase-based state machine:

  - PhaseWelcome: what the setup will do
  - PhaseSystemCheck: OS, config directory, disk space, backend
  - PhaseConfigure: backend address, theme and mouse swiping
  - PhaseComplete: where the file went and how to start
*/
package main

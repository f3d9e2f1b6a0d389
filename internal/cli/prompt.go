// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// prompt.go - Interactive input for commands that ask the user something.
//
// Lines are read with liner (history, arrow keys); passwords are read with
// echo off through x/term.

package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"
	"golang.org/x/term"
)

// ErrPromptAborted is returned when the user presses Ctrl+C at a prompt.
var ErrPromptAborted = errors.New("aborted")

// Prompter reads interactive input.
type Prompter interface {
	// Line reads one line. def is returned for an empty answer.
	Line(prompt, def string) (string, error)
	// Password reads a secret without echo.
	Password(prompt string) (string, error)
	Close() error
}

// =============================================================================
// TERMINAL PROMPTER
// =============================================================================

// TerminalPrompter reads from the controlling terminal. Input history is
// kept in historyFile across runs.
type TerminalPrompter struct {
	line        *liner.State
	historyFile string
	out         io.Writer
}

// NewTerminalPrompter creates a prompter. It fails when stdin is not a
// terminal. An empty historyFile disables history.
func NewTerminalPrompter(historyFile string) (*TerminalPrompter, error) {
	if !IsTTY() {
		return nil, errors.New("stdin is not a terminal; cannot prompt")
	}
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	p := &TerminalPrompter{line: line, historyFile: historyFile, out: os.Stderr}
	if historyFile != "" {
		if f, err := os.Open(historyFile); err == nil {
			_, _ = line.ReadHistory(f)
			f.Close()
		}
	}
	return p, nil
}

// Line reads one line with editing and history.
func (p *TerminalPrompter) Line(prompt, def string) (string, error) {
	var (
		input string
		err   error
	)
	if def != "" {
		input, err = p.line.PromptWithSuggestion(prompt, def, -1)
	} else {
		input, err = p.line.Prompt(prompt)
	}
	if errors.Is(err, liner.ErrPromptAborted) {
		return "", ErrPromptAborted
	}
	if err != nil {
		return "", err
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return def, nil
	}
	p.line.AppendHistory(input)
	return input, nil
}

// Password reads a secret with echo off.
func (p *TerminalPrompter) Password(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}

// Close saves history and restores the terminal.
func (p *TerminalPrompter) Close() error {
	if p.historyFile != "" {
		if err := os.MkdirAll(filepath.Dir(p.historyFile), 0o700); err == nil {
			if f, err := os.OpenFile(p.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600); err == nil {
				_, _ = p.line.WriteHistory(f)
				f.Close()
			}
		}
	}
	return p.line.Close()
}

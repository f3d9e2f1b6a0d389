// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package main provides the devtinder first-run setup.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/devtinder/devtinder-tui/internal/config"
	"github.com/devtinder/devtinder-tui/internal/model"
)

var version = "0.1.0"

func main() {
	text := false
	apiURL := config.Default().Server.APIURL
	if env := os.Getenv("DEVTINDER_API_URL"); env != "" {
		apiURL = env
	}

	argv := os.Args[1:]
	for idx := 0; idx < len(argv); idx++ {
		switch arg := argv[idx]; {
		case arg == "--text" || arg == "-t":
			text = true
		case arg == "--api" && idx+1 < len(argv):
			idx++
			apiURL = argv[idx]
		case strings.HasPrefix(arg, "--api="):
			apiURL = strings.TrimPrefix(arg, "--api=")
		case arg == "--help" || arg == "-h":
			printHelp()
			return
		case arg == "--version" || arg == "-v":
			fmt.Printf("devtinder setup v%s\n", version)
			return
		default:
			fmt.Fprintf(os.Stderr, "unknown option %q\n\n", arg)
			printHelp()
			os.Exit(2)
		}
	}

	dir := defaultConfigDir(config.ConfigDir)

	if text {
		if err := runTextInstaller(os.Stdin, os.Stdout, dir, apiURL); err != nil {
			fmt.Fprintf(os.Stderr, "Setup failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) {
		fmt.Println("The devtinder setup needs an interactive terminal.")
		fmt.Println("Run with --text for a plain text setup.")
		os.Exit(1)
	}

	// Mouse capture stays off so text can be selected and copied.
	p := tea.NewProgram(NewInstaller(dir, apiURL), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running setup: %v\n", err)
		os.Exit(1)
	}
}

// printHelp shows usage information
func printHelp() {
	fmt.Println(`devtinder setup v` + version + `

Usage: devtinder-setup [OPTIONS]

Options:
  --text, -t     Run in text mode (no TUI)
  --api URL      Backend address to try first
  --help, -h     Show this help
  --version, -v  Show version

Writes ~/.devtinder/config.toml. Run it again any time to change the
backend address, theme or mouse swiping.`)
}

// =============================================================================
// TEXT MODE
// =============================================================================

// runTextInstaller runs the same checks and questions as the TUI with
// plain prompts.
func runTextInstaller(in io.Reader, out io.Writer, dir, apiURL string) error {
	reader := bufio.NewReader(in)
	ask := func(prompt, def string) string {
		if def != "" {
			fmt.Fprintf(out, "%s [%s]: ", prompt, def)
		} else {
			fmt.Fprintf(out, "%s: ", prompt)
		}
		line, _ := reader.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			return line
		}
		return def
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "================================================================================")
	fmt.Fprintln(out, "                                DEVTINDER SETUP")
	fmt.Fprintln(out, "             "+tagline)
	fmt.Fprintln(out, "================================================================================")
	fmt.Fprintln(out)

	checker := NewChecker(dir, apiURL)
	for idx := range checkNames {
		res := checker.Run(context.Background(), idx)
		tag := "[OK]"
		switch res.Status {
		case statusWarn:
			tag = "[!!]"
		case statusFail:
			tag = "[XX]"
		}
		fmt.Fprintf(out, "  %s %s: %s\n", tag, res.Name, res.Message)
		if res.Fix != "" {
			fmt.Fprintf(out, "       -> %s\n", res.Fix)
		}
		if res.Status == statusFail {
			return fmt.Errorf("%s check failed", strings.ToLower(res.Name))
		}
	}
	fmt.Fprintln(out)

	ch := Choices{APIURL: ask("Backend URL", apiURL), Theme: model.DefaultTheme, Mouse: true}
	names := make([]string, len(model.Themes))
	for idx, t := range model.Themes {
		names[idx] = string(t)
	}
	for {
		t, ok := model.ParseTheme(ask("Theme ("+strings.Join(names, ", ")+")", string(model.DefaultTheme)))
		if ok {
			ch.Theme = t
			break
		}
		fmt.Fprintln(out, "  Unknown theme, try again.")
	}
	if v := strings.ToLower(ask("Drag to swipe with the mouse? (y/n)", "y")); v == "n" || v == "no" {
		ch.Mouse = false
	}

	path := configFile(dir)
	if _, err := writeConfig(path, ch); err != nil {
		return err
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "  [OK] Saved %s\n", path)
	fmt.Fprintln(out, "  Next: run `devtinder login`, then `devtinder`.")
	return nil
}

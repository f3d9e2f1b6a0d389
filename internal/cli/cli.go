// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - Command-line parsing and top-level dispatch for devtinder.

package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"
)

// Version information (overridden at build time).
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command is the command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdFeed
	CmdConnections
	CmdRequests
	CmdChat
	CmdTheme
	CmdConfig
	CmdPremium
	CmdVersion
	CmdHelp
)

var commandNames = map[Command]string{
	CmdTUI:         "tui",
	CmdLogin:       "login",
	CmdLogout:      "logout",
	CmdWhoami:      "whoami",
	CmdFeed:        "feed",
	CmdConnections: "connections",
	CmdRequests:    "requests",
	CmdChat:        "chat",
	CmdTheme:       "theme",
	CmdConfig:      "config",
	CmdPremium:     "premium",
	CmdVersion:     "version",
	CmdHelp:        "help",
}

func (c Command) String() string {
	if name, ok := commandNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Command(%d)", int(c))
}

// Args holds parsed arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool
	JSON    bool
	// APIURL overrides server.api_url for this run.
	APIURL string
	// Theme overrides the stored theme for this TUI run.
	Theme string
	// Start is the route the TUI opens on.
	Start string

	// Subcommand is the first argument after the command.
	Subcommand string
	// Unknown holds an unrecognized command word.
	Unknown string

	// Raw holds the arguments after the command.
	Raw []string
}

// Parser returns an ArgParser over the command's arguments.
func (a Args) Parser() *ArgParser {
	return NewArgParser(a.Raw)
}

const usageText = `devtinder - swipe to connect with developers, from your terminal

Usage:
  devtinder                          Start the TUI (default)
  devtinder tui [--start PATH]       Start the TUI on a route (e.g. /connections)
  devtinder login [--email EMAIL]    Log in (prompts for the password)
  devtinder logout                   End the session
  devtinder whoami                   Show the logged-in user and session expiry
  devtinder feed                     List profiles waiting for a decision
  devtinder connections              List your connections
  devtinder requests                 List pending connection requests
  devtinder requests accept <id>     Accept a request
  devtinder requests reject <id>     Reject a request
  devtinder chat <userId>            Print the conversation with a connection
  devtinder chat export <userId> [--format md|json] [--out DIR]
                                     Save the conversation to a file
  devtinder theme [get]              Show the current theme
  devtinder theme set <name>         Pick a theme (dark, light, cupcake, synthwave, retro, dracula)
  devtinder config [show]            Show configuration
  devtinder config set <key> <value> Change a setting (e.g. ui.mouse false)
  devtinder config path              Print the config file path
  devtinder premium [status]         Show membership status
  devtinder premium order <plan>     Create a payment order (silver, gold)
  devtinder premium verify --order ID --payment ID --signature HEX
                                     Submit a payment provider callback
  devtinder version                  Show version
  devtinder help                     Show this help

Global Flags:
  --api URL       Backend REST address (overrides server.api_url)
  --theme NAME    Theme for this run only
  -q, --quiet     Minimal output
  -v, --verbose   Debug logging
  --json          JSON output for commands that print data

Environment:
  DEVTINDER_API_URL, DEVTINDER_SOCKET_URL, DEVTINDER_LOG_LEVEL, DEVTINDER_THEME

Version: %s
`

// PrintUsage writes the help text.
func PrintUsage(w io.Writer) {
	fmt.Fprintf(w, usageText, Version)
}

// PrintVersion writes version information.
func PrintVersion(w io.Writer) {
	fmt.Fprintf(w, "devtinder version %s\n", Version)
	fmt.Fprintf(w, "  Git commit: %s\n", GitCommit)
	fmt.Fprintf(w, "  Build date: %s\n", BuildDate)
	fmt.Fprintf(w, "  Go:         %s\n", runtime.Version())
}

// Parse parses os.Args.
func Parse() (Command, Args) {
	return ParseArgs(os.Args[1:])
}

// ParseArgs parses argv (without the program name).
func ParseArgs(argv []string) (Command, Args) {
	remaining, args := parseGlobalFlags(argv)
	if len(remaining) == 0 {
		return CmdTUI, args
	}

	name := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	args.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		args.Subcommand = strings.ToLower(remaining[0])
	}

	switch name {
	case "tui", "ui":
		if start := NewArgParser(remaining).Flag("start"); start != "" {
			args.Start = start
		}
		return CmdTUI, args
	case "login", "signin":
		return CmdLogin, args
	case "logout", "signout":
		return CmdLogout, args
	case "whoami", "me":
		return CmdWhoami, args
	case "feed":
		return CmdFeed, args
	case "connections", "conn":
		return CmdConnections, args
	case "requests", "req":
		return CmdRequests, args
	case "chat", "messages":
		return CmdChat, args
	case "theme":
		return CmdTheme, args
	case "config":
		return CmdConfig, args
	case "premium":
		return CmdPremium, args
	case "version", "-v", "--version":
		return CmdVersion, args
	case "help", "-h", "--help":
		return CmdHelp, args
	}

	// Unknown words are usage errors rather than a silent TUI start.
	args.Unknown = name
	return CmdHelp, args
}

// parseGlobalFlags extracts the global flags and returns what is left.
func parseGlobalFlags(argv []string) ([]string, Args) {
	var remaining []string
	var args Args

	for i := 0; i < len(argv); i++ {
		arg := argv[i]
		switch arg {
		case "-q", "--quiet":
			args.Quiet = true
		case "--verbose":
			args.Verbose = true
		case "--json":
			args.JSON = true
		case "--api", "--theme":
			if i+1 < len(argv) {
				i++
				args.setValue(arg, argv[i])
			}
		default:
			if k, v, ok := strings.Cut(arg, "="); ok && (k == "--api" || k == "--theme") {
				args.setValue(k, v)
				continue
			}
			// -v alone is --version as a command; after a command it is --verbose.
			if arg == "-v" && len(remaining) > 0 {
				args.Verbose = true
				continue
			}
			remaining = append(remaining, arg)
		}
	}
	return remaining, args
}

func (a *Args) setValue(flag, value string) {
	switch flag {
	case "--api":
		a.APIURL = value
	case "--theme":
		a.Theme = value
	}
}

// =============================================================================
// DISPATCH
// =============================================================================

// Run executes a non-TUI command.
func Run(ctx context.Context, env *Env, cmd Command, args Args) error {
	switch cmd {
	case CmdLogin:
		return HandleLogin(ctx, env, args)
	case CmdLogout:
		return HandleLogout(ctx, env, args)
	case CmdWhoami:
		return HandleWhoami(ctx, env, args)
	case CmdFeed:
		return HandleFeed(ctx, env, args)
	case CmdConnections:
		return HandleConnections(ctx, env, args)
	case CmdRequests:
		return HandleRequests(ctx, env, args)
	case CmdChat:
		return HandleChat(ctx, env, args)
	case CmdTheme:
		return HandleTheme(ctx, env, args)
	case CmdConfig:
		return HandleConfig(ctx, env, args)
	case CmdPremium:
		return HandlePremium(ctx, env, args)
	case CmdVersion:
		return HandleVersion(env, args)
	case CmdHelp:
		return HandleHelp(env, args)
	}
	return NewCommandError(cmd.String(), "run", "not a one-shot command", nil)
}

// HandleVersion prints version information.
func HandleVersion(env *Env, args Args) error {
	if args.JSON {
		return NewJSONResponse("version", VersionData{
			Version:   Version,
			GitCommit: GitCommit,
			BuildDate: BuildDate,
			GoVersion: runtime.Version(),
		}).Print(env.Out)
	}
	PrintVersion(env.Out)
	return nil
}

// HandleHelp prints usage. An unknown command word is reported as a usage
// error after the help text.
func HandleHelp(env *Env, args Args) error {
	if args.Unknown != "" {
		PrintUsage(env.Err)
		return NewValidationError("command", args.Unknown, "unknown command")
	}
	PrintUsage(env.Out)
	return nil
}

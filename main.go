// devtinder - swipe to connect with developers, from your terminal.
//
// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"github.com/devtinder/devtinder-tui/internal/cli"
	"github.com/devtinder/devtinder-tui/internal/config"
	"github.com/devtinder/devtinder-tui/internal/logging"
	"github.com/devtinder/devtinder-tui/internal/model"
	"github.com/devtinder/devtinder-tui/internal/ui/app"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	// Sync version info with cli package
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	cmd, args := cli.Parse()

	// help and version need neither config nor a backend.
	if cmd == cli.CmdHelp || cmd == cli.CmdVersion {
		cli.ConfigureStyles()
		env := &cli.Env{Out: os.Stdout, Err: os.Stderr}
		return report(cli.Run(context.Background(), env, cmd, args), args)
	}

	cfg, err := loadConfig(args)
	if err != nil {
		return report(err, args)
	}

	log, closeLog, err := setupLogging(cfg, args)
	if err != nil {
		return report(err, args)
	}
	defer closeLog.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := cli.Open(ctx, cfg, log)
	if err != nil {
		return report(err, args)
	}
	defer env.Close()

	if cmd == cli.CmdTUI {
		if err := runTUI(ctx, env, args, log); err != nil {
			fmt.Fprintf(os.Stderr, "Error running devtinder: %v\n", err)
			return cli.ExitGeneralError
		}
		return cli.ExitSuccess
	}

	cli.ConfigureStyles()
	return report(cli.Run(ctx, env, cmd, args), args)
}

// loadConfig reads the config file and applies the per-run flags.
func loadConfig(args cli.Args) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		if cfg == nil {
			return nil, err
		}
		// The file was unreadable; defaults are in use.
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
	}
	if args.APIURL != "" {
		cfg.Server.APIURL = args.APIURL
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}
	if args.Theme != "" {
		if _, ok := model.ParseTheme(args.Theme); !ok {
			return nil, cli.NewValidationError("theme", args.Theme, "unknown theme")
		}
	}
	return cfg, nil
}

// setupLogging opens the log file. The TUI owns the terminal, so logs
// never go to stderr.
func setupLogging(cfg *config.Config, args cli.Args) (*logrus.Logger, io.Closer, error) {
	path, err := cfg.LogPath()
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Logging.Level
	if args.Verbose {
		level = "debug"
	}
	if err := config.EnsureConfigDir(); err != nil {
		return nil, nil, err
	}
	return logging.Setup(logging.Options{Level: level, Path: path})
}

func runTUI(ctx context.Context, env *cli.Env, args cli.Args, log logrus.FieldLogger) error {
	t, _ := model.ParseTheme(args.Theme)
	if args.Theme == "" {
		var err error
		if t, err = env.Theme.Load(ctx); err != nil {
			log.WithError(err).Warn("Could not load saved theme")
		}
	}

	m := app.New(app.Options{
		Deps:       env.Deps(),
		StartPath:  args.Start,
		Theme:      t,
		ConfigPath: env.ConfigPath,
		Logger:     log.WithField("component", "app"),
	})
	defer m.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if env.Config.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	log.WithFields(logrus.Fields{"start": args.Start, "theme": t, "restored": env.Restored}).Info("Starting TUI")
	_, err := tea.NewProgram(m, opts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// report prints err and maps it onto an exit code.
func report(err error, args cli.Args) int {
	if err == nil {
		return cli.ExitSuccess
	}
	cli.DisplayError(os.Stderr, err, args.JSON)
	return cli.GetExitCode(err)
}

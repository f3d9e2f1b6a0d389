// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// theme_cmd.go - Show or change the saved theme.
//
// Command: theme [get|list|set <name>] [--json]
// Short:   Show the current theme or pick a new one
//
// Examples:
//   devtinder theme             Show the current theme and the choices
//   devtinder theme set retro   Save "retro" for the next TUI start

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/devtinder/devtinder-tui/internal/model"
)

// ThemeData is the payload of `theme --json`.
type ThemeData struct {
	Current   model.ThemeName   `json:"current"`
	Available []model.ThemeName `json:"available"`
}

// HandleTheme handles "theme". It works without a session; the theme is a
// local preference.
func HandleTheme(ctx context.Context, env *Env, args Args) error {
	p := args.Parser()
	switch args.Subcommand {
	case "", "get", "show", "list", "ls":
		current, err := env.Theme.Load(ctx)
		if err != nil {
			env.Log.WithError(err).Warn("Could not read saved theme")
		}
		if args.JSON {
			return NewJSONResponse("theme", ThemeData{Current: current, Available: model.Themes}).Print(env.Out)
		}
		fmt.Fprintln(env.Out, TitleStyle.Render("Theme"))
		for _, t := range model.Themes {
			marker := "  "
			if t == current {
				marker = SuccessStyle.Render("● ")
			}
			fmt.Fprintf(env.Out, "  %s%s\n", marker, string(t))
		}
		return nil

	case "set", "use":
		name := p.Positional(1)
		if name == "" {
			return ErrMissingArgument("name", "devtinder theme set <name>")
		}
		t, ok := model.ParseTheme(name)
		if !ok {
			return &ValidationError{
				Field:   "theme",
				Value:   name,
				Reason:  "unknown theme",
				Example: "one of " + themeList(),
			}
		}
		if err := env.Theme.Set(ctx, t); err != nil {
			return NewCommandError("theme", "set", "could not save the theme", err)
		}
		if args.JSON {
			return NewJSONResponse("theme set", ThemeData{Current: t, Available: model.Themes}).Print(env.Out)
		}
		if !args.Quiet {
			fmt.Fprintf(env.Out, "%s Theme set to %s\n", SuccessStyle.Render("✓"), string(t))
		}
		return nil
	}
	return NewValidationError("theme subcommand", args.Subcommand, "expected get or set")
}

func themeList() string {
	names := make([]string, len(model.Themes))
	for i, t := range model.Themes {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}

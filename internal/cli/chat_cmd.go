// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat_cmd.go - Read or save a conversation without opening the TUI.
//
// Command: chat [history] <userId> [--json]
// Short:   Print the message history with a connection
//
// Command: chat export <userId> [--format md|json] [--out DIR]
// Short:   Write the conversation to a file
//
// Examples:
//   devtinder chat 66a1f0                       Print the history
//   devtinder chat export 66a1f0 --format json  Save it as JSON

package cli

import (
	"context"
	"fmt"

	"github.com/devtinder/devtinder-tui/internal/export"
)

const chatUsage = "devtinder chat export <userId> [--format md|json] [--out DIR]"

// HandleChat handles "chat".
func HandleChat(ctx context.Context, env *Env, args Args) error {
	if err := env.requireSession(); err != nil {
		return err
	}

	p := args.Parser()
	sub, peerIdx := args.Subcommand, 1
	switch sub {
	case "history", "export":
	default:
		// "chat <userId>" is short for "chat history <userId>".
		sub, peerIdx = "history", 0
	}
	peerID := p.Positional(peerIdx)
	if peerID == "" {
		return ErrMissingArgument("userId", chatUsage)
	}

	var exporter export.Exporter
	opts := &export.Options{
		OutputDir:         p.FlagOrDefault("out", "."),
		IncludeTimestamps: !p.BoolFlag("no-timestamps"),
	}
	if sub == "export" {
		e, err := export.ForFormat(p.Flag("format"), opts)
		if err != nil {
			return &ValidationError{Field: "format", Value: p.Flag("format"), Reason: "expected md or json", Example: chatUsage}
		}
		exporter = e
	}

	self, err := env.Client.Profile(ctx)
	if err != nil {
		return NewCommandError("chat", "profile", "could not load the profile", err)
	}
	history, err := env.Client.ChatHistory(ctx, peerID)
	if err != nil {
		return NewCommandError("chat", "history", "could not load the conversation", err)
	}
	t := export.NewTranscript(*self, peerID, history)

	if sub == "history" {
		if args.JSON {
			return NewJSONResponse("chat history", t).Print(env.Out)
		}
		printTranscript(env, t)
		return nil
	}

	path, err := export.ExportToFile(t, exporter, opts)
	if err != nil {
		return NewCommandError("chat", "export", "could not write the transcript", err)
	}
	if args.JSON {
		return NewJSONResponse("chat export", map[string]interface{}{
			"path":     path,
			"messages": len(t.Messages),
		}).Print(env.Out)
	}
	fmt.Fprintf(env.Out, "%s Saved %d messages to %s\n", SuccessStyle.Render("✓"), len(t.Messages), path)
	return nil
}

func printTranscript(env *Env, t *export.Transcript) {
	w := env.Out
	fmt.Fprintln(w, TitleStyle.Render("Chat with "+t.PeerName()))
	if len(t.Messages) == 0 {
		fmt.Fprintln(w, DimStyle.Render("No messages yet."))
		return
	}
	width := TerminalWidth()
	for _, m := range t.Messages {
		name := m.DisplayName()
		if m.IsFrom(t.Self.ID) {
			name = "You"
		}
		stamp := ""
		if !m.CreatedAt.IsZero() {
			stamp = " " + DimStyle.Render(m.CreatedAt.Local().Format("Jan 2 15:04"))
		}
		fmt.Fprintf(w, "%s%s\n", SectionStyle.Render(name), stamp)
		printWrapped(w, m.Text, width)
	}
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// session_cmd.go - session management commands.
package cli

import (
	"fmt"
	"time"

	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/export"
	"github.com/jeranaias/sahayak-tui/internal/model"
)

// HandleSessions routes the session subcommands.
func HandleSessions(args Args) {
	parser := NewArgParser(args.Raw)

	user, _ := requireLogin()
	settings := config.OpenStore()
	client := newAPIClient(settings)

	ctx, cancel := cmdContext()
	defer cancel()

	switch parser.Subcommand() {
	case "", "list", "ls":
		result, err := client.Sessions(ctx, user.UserID)
		if err != nil {
			exitErr("cannot list sessions: %v", err)
		}
		if len(result.Sessions) == 0 {
			fmt.Println("No sessions yet. Run: sahayak sessions new")
			return
		}
		fmt.Println(TitleStyle.Render("Sessions"))
		for i, s := range result.Sessions {
			line := fmt.Sprintf("%2d. %s  %s", i+1, s.Name, DimStyle.Render(s.ID))
			if ts := sessionTime(s); ts != "" {
				line += "  " + DimStyle.Render(ts)
			}
			fmt.Println(line)
		}

	case "new", "create":
		id, err := client.CreateSession(ctx, user.UserID)
		if err != nil {
			exitErr("cannot create session: %v", err)
		}
		fmt.Println(SuccessStyle.Render("Created " + model.SessionName(id.ID)))
		fmt.Println(DimStyle.Render(id.ID))

	case "show":
		id := parser.Positional(1)
		if id == "" {
			exitErr("usage: sahayak sessions show <id>")
		}
		msgs, err := client.SessionMessages(ctx, user.UserID, id)
		if err != nil {
			exitErr("cannot load transcript: %v", err)
		}
		if len(msgs) == 0 {
			fmt.Println("Empty session.")
			return
		}
		for _, msg := range msgs {
			who := msg.Role.DisplayName()
			if msg.Role == model.RoleUser {
				who = user.DisplayName()
			}
			fmt.Println(SectionStyle.Render(who))
			fmt.Println(renderMarkdown(msg.Content))
		}

	case "export":
		id := parser.Positional(1)
		if id == "" {
			exitErr("usage: sahayak sessions export <id> [--format md|json|html] [--output DIR]")
		}
		msgs, err := client.SessionMessages(ctx, user.UserID, id)
		if err != nil {
			exitErr("cannot load transcript: %v", err)
		}
		opts := export.DefaultOptions()
		opts.OutputDir = parser.FlagOrDefault("output", ".")
		exporter, err := export.ForFormat(parser.Flag("format"), opts)
		if err != nil {
			exitErr("%v", err)
		}
		path, err := export.ExportToFile(&export.Transcript{
			SessionID:   id,
			SessionName: model.SessionName(id),
			UserName:    user.DisplayName(),
			Language:    settings.Chat().Language,
			Messages:    msgs,
		}, exporter, opts)
		if err != nil {
			exitErr("export failed: %v", err)
		}
		fmt.Println(SuccessStyle.Render("Exported to " + path))

	case "delete", "rm":
		id := parser.Positional(1)
		if id == "" {
			exitErr("usage: sahayak sessions delete <id>")
		}
		if err := client.DeleteSession(ctx, user.UserID, id); err != nil {
			exitErr("cannot delete session: %v", err)
		}
		if h := openHistory(); h != nil {
			h.DeleteSession(ctx, id)
			h.Close()
		}
		fmt.Println(SuccessStyle.Render("Deleted " + model.SessionName(id)))

	default:
		exitErr("unknown sessions subcommand: %s", parser.Subcommand())
	}
}

// sessionTime formats the backend's fractional Unix timestamp.
func sessionTime(s model.Session) string {
	if s.LastUpdate <= 0 {
		return ""
	}
	return time.Unix(int64(s.LastUpdate), 0).Format("2006-01-02 15:04")
}

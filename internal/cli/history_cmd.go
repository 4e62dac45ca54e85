// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// history_cmd.go - browse and manage the local prompt history.
package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/jeranaias/sahayak-tui/internal/history"
)

// HandleHistory routes the history subcommands.
func HandleHistory(args Args) {
	parser := NewArgParser(args.Raw)

	user, _ := requireLogin()
	h := openHistory()
	if h == nil {
		exitErr("cannot open history database")
	}
	defer h.Close()

	ctx, cancel := cmdContext()
	defer cancel()

	switch parser.Subcommand() {
	case "", "recent", "list":
		entries, err := h.Recent(ctx, user.UserID, parser.IntFlag("limit", 20))
		if err != nil {
			exitErr("cannot read history: %v", err)
		}
		printEntries(entries)

	case "starred":
		entries, err := h.Starred(ctx, user.UserID)
		if err != nil {
			exitErr("cannot read history: %v", err)
		}
		printEntries(entries)

	case "search":
		query := parser.Rest()
		if query == "" {
			exitErr("usage: sahayak history search <query>")
		}
		entries, err := h.Search(ctx, user.UserID, query, parser.IntFlag("limit", 20))
		if err != nil {
			exitErr("search failed: %v", err)
		}
		printEntries(entries)

	case "star", "unstar":
		id := parseEntryID(parser.Positional(1))
		err := h.SetStarred(ctx, id, parser.Subcommand() == "star")
		if errors.Is(err, history.ErrNotFound) {
			exitErr("no history entry %d", id)
		}
		if err != nil {
			exitErr("cannot update entry: %v", err)
		}
		fmt.Println(SuccessStyle.Render("Updated."))

	case "delete", "rm":
		id := parseEntryID(parser.Positional(1))
		err := h.Delete(ctx, id)
		if errors.Is(err, history.ErrNotFound) {
			exitErr("no history entry %d", id)
		}
		if err != nil {
			exitErr("cannot delete entry: %v", err)
		}
		fmt.Println(SuccessStyle.Render("Deleted."))

	default:
		exitErr("unknown history subcommand: %s", parser.Subcommand())
	}
}

func parseEntryID(raw string) int64 {
	if raw == "" {
		exitErr("usage: sahayak history <star|unstar|delete> <id>")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		exitErr("bad entry id %q", raw)
	}
	return id
}

func printEntries(entries []history.Entry) {
	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return
	}
	for _, e := range entries {
		star := "  "
		if e.Starred {
			star = WarningStyle.Render("* ")
		}
		fmt.Printf("%s%4d  %s  %s\n",
			star, e.ID,
			DimStyle.Render(e.CreatedAt.Format("2006-01-02 15:04")),
			ValueStyle.Render(e.Title))
	}
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// helpers.go - Shared plumbing for CLI command handlers.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/glamour"

	"github.com/jeranaias/sahayak-tui/internal/api"
	"github.com/jeranaias/sahayak-tui/internal/auth"
	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/history"
)

// cmdTimeout bounds one-shot CLI operations against the backend.
const cmdTimeout = 2 * time.Minute

// Exit codes follow sysexits conventions loosely.
const (
	exitError  = 1
	exitNoAuth = 2
)

func exitErr(format string, args ...any) {
	fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+fmt.Sprintf(format, args...))
	os.Exit(exitError)
}

// requireLogin loads the stored user record or exits with a hint.
func requireLogin() (auth.User, *auth.Store) {
	store, err := auth.DefaultStore()
	if err != nil {
		exitErr("cannot locate config directory: %v", err)
	}
	user, err := store.Load()
	if err != nil {
		if errors.Is(err, auth.ErrNotLoggedIn) {
			fmt.Fprintln(os.Stderr, "Not logged in. Run: sahayak login")
			os.Exit(exitNoAuth)
		}
		exitErr("cannot read login record: %v", err)
	}
	return user, store
}

// newAPIClient builds the backend client from stored settings.
func newAPIClient(store *config.Store) *api.Client {
	cfg := store.Config()
	return api.NewClient(cfg.API.BaseURL, cfg.API.UploadBaseURL)
}

// openHistory opens the prompt history database. A nil return means
// history is unavailable; one-shot commands treat that as non-fatal.
func openHistory() *history.Store {
	path, err := history.DefaultPath()
	if err != nil {
		return nil
	}
	h, err := history.Open(path)
	if err != nil {
		return nil
	}
	return h
}

func cmdContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), cmdTimeout)
}

// renderMarkdown renders model output for the terminal, falling back to
// plain text when styling is unavailable.
func renderMarkdown(text string) string {
	if !ColorsEnabled() {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(GetTerminalWidth(), 100)),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return out
}

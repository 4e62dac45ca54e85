// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// auth_cmd.go - login, logout, and whoami commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jeranaias/sahayak-tui/internal/auth"
)

// defaultCallbackPort is the loopback port for OAuth logins.
const defaultCallbackPort = 8765

// HandleLogin records a local login, either by prompting for
// credentials or by waiting for a browser OAuth callback.
func HandleLogin(args Args) {
	parser := NewArgParser(args.Raw)
	admin := parser.BoolFlag("admin")

	store, err := auth.DefaultStore()
	if err != nil {
		exitErr("cannot locate config directory: %v", err)
	}

	if parser.BoolFlag("oauth") {
		runOAuthLogin(store, parser.IntFlag("port", defaultCallbackPort))
		return
	}

	user, err := store.PromptLogin(os.Stdin, os.Stdout, admin)
	if err != nil {
		exitErr("login failed: %v", err)
	}
	fmt.Println(SuccessStyle.Render("Logged in as " + user.DisplayName()))
}

func runOAuthLogin(store *auth.Store, port int) {
	server, err := auth.NewCallbackServer(store, port)
	if err != nil {
		exitErr("cannot start callback listener: %v", err)
	}

	fmt.Println("Waiting for the browser to complete sign-in.")
	fmt.Println("Callback URL: " + ValueStyle.Render(server.URL()))
	fmt.Println(DimStyle.Render("Press ctrl+c to cancel."))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	user, err := server.Wait(ctx)
	if err != nil {
		if errors.Is(err, auth.ErrCallbackTimeout) && ctx.Err() != nil {
			fmt.Fprintln(os.Stderr, "Login cancelled.")
			os.Exit(exitError)
		}
		exitErr("login failed: %v", err)
	}
	fmt.Println(SuccessStyle.Render("Logged in as " + user.DisplayName()))
}

// HandleLogout removes the stored login record.
func HandleLogout(args Args) {
	store, err := auth.DefaultStore()
	if err != nil {
		exitErr("cannot locate config directory: %v", err)
	}
	if !store.LoggedIn() {
		fmt.Println("Not logged in.")
		return
	}
	if err := store.Clear(); err != nil {
		exitErr("logout failed: %v", err)
	}
	fmt.Println(SuccessStyle.Render("Logged out."))
}

// HandleWhoami prints the stored user record.
func HandleWhoami(args Args) {
	user, store := requireLogin()

	fmt.Println(RenderLabel("User") + ValueStyle.Render(user.DisplayName()))
	fmt.Println(RenderLabel("ID") + ValueStyle.Render(user.UserID))
	if user.IsAdmin {
		fmt.Println(RenderLabel("Role") + WarningStyle.Render("admin"))
	}
	if !user.LoginTime.IsZero() {
		fmt.Println(RenderLabel("Since") + DimStyle.Render(user.LoginTime.Format("2006-01-02 15:04")))
	}
	if args.Verbose {
		fmt.Println(RenderLabel("Record") + DimStyle.Render(store.Path()))
	}
}

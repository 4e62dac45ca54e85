// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// sahayak is a teaching assistant for the terminal. Run it bare for the
// TUI, or see `sahayak help` for the one-shot commands.
package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sahayak-tui/internal/api"
	"github.com/jeranaias/sahayak-tui/internal/audio"
	"github.com/jeranaias/sahayak-tui/internal/auth"
	"github.com/jeranaias/sahayak-tui/internal/cli"
	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/conversation"
	"github.com/jeranaias/sahayak-tui/internal/history"
	"github.com/jeranaias/sahayak-tui/internal/session"
	"github.com/jeranaias/sahayak-tui/internal/speech"
	"github.com/jeranaias/sahayak-tui/internal/ui/chat"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

func init() {
	cli.Version = Version
	cli.GitCommit = GitCommit
	cli.BuildDate = BuildDate
}

func main() {
	cmd, args := cli.Parse()

	switch cmd {
	case cli.CmdTUI:
		runTUI(args)
	case cli.CmdAsk:
		cli.HandleAsk(args)
	case cli.CmdChat:
		cli.HandleChat(args)
	case cli.CmdLogin:
		cli.HandleLogin(args)
	case cli.CmdLogout:
		cli.HandleLogout(args)
	case cli.CmdWhoami:
		cli.HandleWhoami(args)
	case cli.CmdSessions:
		cli.HandleSessions(args)
	case cli.CmdSettings:
		cli.HandleSettings(args)
	case cli.CmdThought:
		cli.HandleThought(args)
	case cli.CmdSpeak:
		cli.HandleSpeak(args)
	case cli.CmdHistory:
		cli.HandleHistory(args)
	case cli.CmdVersion:
		cli.PrintVersion()
	case cli.CmdHelp:
		cli.PrintUsage()
	default:
		runTUI(args)
	}
}

// runTUI wires the backend clients together and starts the TUI.
func runTUI(args cli.Args) {
	// Background warnings must not scribble over the alt screen.
	if dir, err := config.ConfigDir(); err == nil {
		if f, err := os.OpenFile(filepath.Join(dir, "sahayak.log"),
			os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600); err == nil {
			log.SetOutput(f)
			defer f.Close()
		}
	}

	userStore, err := auth.DefaultStore()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot locate config directory: %v\n", err)
		os.Exit(1)
	}
	user, err := userStore.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Not logged in. Run: sahayak login")
		os.Exit(2)
	}

	settings := config.OpenStore()
	cfg := settings.Config()

	client := api.NewClient(cfg.API.BaseURL, cfg.API.UploadBaseURL)
	sessions := session.NewManager(client, user.UserID)
	speaker := speech.NewClient(cfg.Speech.APIKey, cfg.Speech.Voice)
	conv := conversation.NewController(client, sessions, settings, speaker, audio.NewPlayer())

	var hist *history.Store
	if path, err := history.DefaultPath(); err == nil {
		if h, err := history.Open(path); err == nil {
			hist = h
			defer hist.Close()
		}
	}

	m := chat.New(chat.Deps{
		Client:    client,
		Sessions:  sessions,
		Conv:      conv,
		Settings:  settings,
		Speech:    speaker,
		Recorder:  audio.NewRecorder(cfg.Speech.CaptureSeconds),
		User:      user,
		UserStore: userStore,
		History:   hist,
	})

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

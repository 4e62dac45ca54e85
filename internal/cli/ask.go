// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// ask.go - One-shot question, thought-of-the-day, and speak commands.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/jeranaias/sahayak-tui/internal/audio"
	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/conversation"
	"github.com/jeranaias/sahayak-tui/internal/session"
	"github.com/jeranaias/sahayak-tui/internal/speech"
)

// HandleAsk sends a single question to the active session and prints
// the rendered answer.
func HandleAsk(args Args) {
	query := strings.TrimSpace(args.Query)
	if query == "" && args.File == "" {
		exitErr("nothing to ask. Usage: sahayak ask \"question\" [--file PATH]")
	}

	user, _ := requireLogin()
	settings := config.OpenStore()
	client := newAPIClient(settings)

	ctx, cancel := cmdContext()
	defer cancel()

	sessions := session.NewManager(client, user.UserID)
	if err := sessions.Initialize(ctx); err != nil {
		exitErr("cannot load sessions: %v", err)
	}

	conv := conversation.NewController(client, sessions, settings, nil, nil)
	conv.SetInput(query)
	if args.File != "" {
		if _, err := os.Stat(args.File); err != nil {
			exitErr("cannot attach %s: %v", args.File, err)
		}
		conv.Attach(args.File)
	}

	if !args.Quiet {
		fmt.Println(DimStyle.Render("Asking in " + sessionLabel(sessions)))
	}

	res, err := conv.Send(ctx)
	if err != nil {
		exitErr("%v", err)
	}

	if h := openHistory(); h != nil {
		defer h.Close()
		if query != "" {
			h.Record(ctx, user.UserID, sessions.ActiveID(), query)
		}
	}

	fmt.Println(renderMarkdown(res.Reply.Content))
}

// HandleThought prints today's thought.
func HandleThought(args Args) {
	settings := config.OpenStore()
	client := newAPIClient(settings)

	ctx, cancel := cmdContext()
	defer cancel()

	thought, err := client.ThoughtOfTheDay(ctx, settings.Chat().State)
	if err != nil && args.Verbose {
		fmt.Fprintf(os.Stderr, "thought fetch failed, using fallback: %v\n", err)
	}
	fmt.Println(renderMarkdown(thought))
}

// HandleSpeak synthesizes the given text and plays it.
func HandleSpeak(args Args) {
	text := strings.TrimSpace(args.Query)
	if text == "" {
		exitErr("nothing to speak. Usage: sahayak speak \"text\"")
	}

	cfg := config.OpenStore().Config()
	speaker := speech.NewClient(cfg.Speech.APIKey, cfg.Speech.Voice)
	if !speaker.IsConfigured() {
		exitErr("no speech API key configured. Set SAHAYAK_SPEECH_API_KEY or GEMINI_API_KEY")
	}
	if _, play := audio.Available(); !play {
		exitErr("no audio player found on PATH")
	}

	ctx, cancel := cmdContext()
	defer cancel()

	wav, err := speaker.Synthesize(ctx, text)
	if err != nil {
		exitErr("synthesis failed: %v", err)
	}
	if err := audio.NewPlayer().Play(ctx, wav); err != nil {
		exitErr("playback failed: %v", err)
	}
}

func sessionLabel(sessions *session.Manager) string {
	active := sessions.ActiveID()
	for _, s := range sessions.List() {
		if s.ID == active {
			return s.Name
		}
	}
	return "a new session"
}

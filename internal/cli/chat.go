// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat.go - Interactive terminal chat with input history.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/peterh/liner"

	"github.com/jeranaias/sahayak-tui/internal/api"
	"github.com/jeranaias/sahayak-tui/internal/audio"
	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/conversation"
	"github.com/jeranaias/sahayak-tui/internal/model"
	"github.com/jeranaias/sahayak-tui/internal/session"
	"github.com/jeranaias/sahayak-tui/internal/speech"
)

// chatHistoryFile keeps liner's input history next to the settings.
const chatHistoryFile = "chat_history"

// chatCommands feeds liner's tab completion.
var chatCommands = []string{
	"/help", "/new", "/sessions", "/switch", "/attach", "/detach",
	"/voice", "/speak", "/thought", "/quit",
}

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a ChatCLI with persistent input history.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)
	line.SetCompleter(func(prefix string) []string {
		if !strings.HasPrefix(prefix, "/") {
			return nil
		}
		var out []string
		for _, c := range chatCommands {
			if strings.HasPrefix(c, prefix) {
				out = append(out, c)
			}
		}
		return out
	})

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}

	c := &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, chatHistoryFile),
	}
	c.loadHistory()
	return c
}

func (c *ChatCLI) loadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

func (c *ChatCLI) saveHistory() {
	f, err := os.OpenFile(c.historyFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// ReadInput reads one line with history navigation.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close saves history and restores the terminal.
func (c *ChatCLI) Close() {
	c.saveHistory()
	c.line.Close()
}

// HandleChat runs the interactive chat loop.
func HandleChat(args Args) {
	user, _ := requireLogin()
	settings := config.OpenStore()
	client := newAPIClient(settings)

	initCtx, initCancel := cmdContext()
	sessions := session.NewManager(client, user.UserID)
	err := sessions.Initialize(initCtx)
	initCancel()
	if err != nil {
		exitErr("cannot load sessions: %v", err)
	}

	cfg := settings.Config()
	speaker := speech.NewClient(cfg.Speech.APIKey, cfg.Speech.Voice)
	conv := conversation.NewController(client, sessions, settings, speaker, audio.NewPlayer())

	cli := NewChatCLI()
	defer cli.Close()

	hist := openHistory()
	if hist != nil {
		defer hist.Close()
	}

	if !args.Quiet {
		fmt.Println(TitleStyle.Render("Sahayak chat"))
		fmt.Printf("Hello %s. Session: %s. Type /help for commands.\n",
			user.DisplayName(), sessionLabel(sessions))
		for _, msg := range sessions.Messages() {
			printTurn(user.DisplayName(), msg)
		}
	}

	for {
		input, err := cli.ReadInput("you> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) || errors.Is(err, io.EOF) {
				fmt.Println()
				return
			}
			exitErr("input error: %v", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		if strings.HasPrefix(input, "/") {
			if quit := runChatCommand(input, sessions, conv, settings, client); quit {
				return
			}
			continue
		}

		conv.SetInput(input)
		turnCtx, turnCancel := cmdContext()
		res, err := conv.Send(turnCtx)
		if err != nil {
			turnCancel()
			fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
			continue
		}
		if hist != nil {
			hist.Record(turnCtx, user.UserID, sessions.ActiveID(), input)
		}
		turnCancel()
		fmt.Println(renderMarkdown(res.Reply.Content))
		if res.SpeakErr != nil {
			fmt.Println(WarningStyle.Render("Voice output failed: ") + res.SpeakErr.Error())
		}
	}
}

// runChatCommand executes one slash command. Returns true to quit.
func runChatCommand(input string, sessions *session.Manager, conv *conversation.Controller, settings *config.Store, client *api.Client) bool {
	name, rest, _ := strings.Cut(input, " ")
	rest = strings.TrimSpace(rest)

	ctx, cancel := cmdContext()
	defer cancel()

	switch name {
	case "/quit", "/q", "/exit":
		return true

	case "/help", "/h":
		fmt.Println(`Commands:
  /new             Start a new session
  /sessions        List sessions
  /switch <n>      Switch to session number n
  /attach <file>   Stage a file for the next message
  /detach          Unstage the attachment
  /voice           Toggle spoken replies
  /speak           Read the last reply aloud
  /thought         Show today's thought
  /quit            Leave chat`)

	case "/new":
		created, err := sessions.Create(ctx)
		if err != nil {
			fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
			return false
		}
		fmt.Println(SuccessStyle.Render("Started " + created.Name))

	case "/sessions", "/ls":
		active := sessions.ActiveID()
		for i, s := range sessions.List() {
			marker := "  "
			if s.ID == active {
				marker = SuccessStyle.Render("> ")
			}
			fmt.Printf("%s%2d. %s\n", marker, i+1, s.Name)
		}

	case "/switch":
		list := sessions.List()
		var n int
		if _, err := fmt.Sscanf(rest, "%d", &n); err != nil || n < 1 || n > len(list) {
			fmt.Println(ErrorStyle.Render("Usage: ") + "/switch <1.." + fmt.Sprint(len(list)) + ">")
			return false
		}
		if err := sessions.Select(ctx, list[n-1].ID); err != nil {
			fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
			return false
		}
		fmt.Println("Switched to " + list[n-1].Name)

	case "/attach":
		if rest == "" {
			fmt.Println(ErrorStyle.Render("Usage: ") + "/attach <file>")
			return false
		}
		if _, err := os.Stat(rest); err != nil {
			fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
			return false
		}
		conv.Attach(rest)
		fmt.Println("Attached " + conv.Attachment().Name)

	case "/detach":
		conv.ClearAttachment()
		fmt.Println("Attachment removed.")

	case "/voice":
		chat := settings.SetVoiceOutput(!settings.Chat().VoiceOutput)
		fmt.Println("Spoken replies " + onOff(chat.VoiceOutput))

	case "/speak":
		if err := conv.SpeakLast(ctx); err != nil {
			fmt.Println(ErrorStyle.Render("Error: ") + err.Error())
		}

	case "/thought":
		thought, _ := client.ThoughtOfTheDay(ctx, settings.Chat().State)
		fmt.Println(renderMarkdown(thought))

	default:
		fmt.Println(ErrorStyle.Render("Unknown command: ") + name + " (try /help)")
	}
	return false
}

func printTurn(userName string, msg model.Message) {
	who := msg.Role.DisplayName()
	if msg.Role == model.RoleUser {
		who = userName
	}
	fmt.Println(SectionStyle.Render(who))
	fmt.Println(renderMarkdown(msg.Content))
}

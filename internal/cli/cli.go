// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// cli.go - CLI parsing and command routing for sahayak.
package cli

import (
	"fmt"
	"os"
	"strings"
)

// Version information (can be overridden at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Command represents the CLI command to execute.
type Command int

const (
	CmdTUI Command = iota
	CmdAsk
	CmdChat
	CmdLogin
	CmdLogout
	CmdWhoami
	CmdSessions
	CmdSettings
	CmdThought
	CmdHistory
	CmdSpeak
	CmdVersion
	CmdHelp
)

// Args holds parsed CLI arguments.
type Args struct {
	// Global flags
	Quiet   bool
	Verbose bool

	// Command-specific
	Query      string
	File       string
	Subcommand string

	// Raw args (remaining after flag parsing)
	Raw []string
}

const usageText = `sahayak - teaching assistant for the terminal

Sahayak answers classroom questions, keeps per-user chat sessions on the
Sahayak backend, and can speak its replies out loud.

Usage:
  sahayak                     Start the TUI (default)
  sahayak ask "question"      Ask a single question
    --file PATH               Attach a file to the question
  sahayak chat                Interactive chat in the terminal
  sahayak login               Log in (prompts for credentials)
    --oauth                   Log in via browser OAuth callback
    --port N                  Loopback port for the OAuth callback (default 8765)
    --admin                   Request the admin role
  sahayak logout              Remove the local login record
  sahayak whoami              Show the logged-in user
  sahayak sessions list       List sessions
  sahayak sessions new        Create a session
  sahayak sessions show <id>  Print a session transcript
  sahayak sessions delete <id> Delete a session
  sahayak sessions export <id> Export a transcript
    --format md|json|html     Export format (default md)
    --output DIR              Output directory (default .)
  sahayak settings show       Show chat settings
  sahayak settings set <key> <value>
                              Update a setting (state, language, grades,
                              tone, complexity, voice)
  sahayak thought             Print today's thought
  sahayak speak "text"        Synthesize text and play it
  sahayak history [recent|starred|search <q>|star <id>|unstar <id>|delete <id>]
                              Browse saved prompts
  sahayak version             Show version

Global Flags:
  -q, --quiet     Minimal output
  -v, --verbose   Debug output

Environment:
  SAHAYAK_BASE_URL          Override the chat backend URL
  SAHAYAK_SPEECH_API_KEY    Gemini API key for voice features
                            (GEMINI_API_KEY also works)

Examples:
  sahayak ask "Explain photosynthesis for grade 5"
  sahayak ask "Summarize this worksheet" --file notes.pdf
  sahayak settings set state Karnataka
  sahayak history search fractions

Version: %s
`

// PrintUsage prints the usage/help text.
func PrintUsage() {
	fmt.Printf(usageText, Version)
}

// PrintVersion prints version information.
func PrintVersion() {
	fmt.Printf("sahayak version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Build date: %s\n", BuildDate)
}

// Parse parses command-line arguments and returns the command and args.
func Parse() (Command, Args) {
	args := os.Args[1:]

	remaining, parsedArgs := parseGlobalFlags(args)
	if len(remaining) == 0 {
		return CmdTUI, parsedArgs
	}

	cmd := strings.ToLower(remaining[0])
	remaining = remaining[1:]
	parsedArgs.Raw = remaining
	if len(remaining) > 0 && !strings.HasPrefix(remaining[0], "-") {
		parsedArgs.Subcommand = remaining[0]
	}

	switch cmd {
	case "tui":
		return CmdTUI, parsedArgs

	case "ask":
		parseAskArgs(&parsedArgs, remaining)
		return CmdAsk, parsedArgs

	case "chat":
		return CmdChat, parsedArgs

	case "login":
		return CmdLogin, parsedArgs

	case "logout":
		return CmdLogout, parsedArgs

	case "whoami", "me":
		return CmdWhoami, parsedArgs

	case "session", "sessions":
		return CmdSessions, parsedArgs

	case "settings", "config":
		return CmdSettings, parsedArgs

	case "thought":
		return CmdThought, parsedArgs

	case "speak", "say":
		parseAskArgs(&parsedArgs, remaining)
		return CmdSpeak, parsedArgs

	case "history", "hist":
		return CmdHistory, parsedArgs

	case "version", "--version", "-V":
		return CmdVersion, parsedArgs

	case "help", "--help", "-h":
		return CmdHelp, parsedArgs

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		return CmdHelp, parsedArgs
	}
}

// parseGlobalFlags extracts global flags and returns the remaining args.
func parseGlobalFlags(args []string) ([]string, Args) {
	var parsed Args
	remaining := make([]string, 0, len(args))

	for _, arg := range args {
		switch arg {
		case "-q", "--quiet":
			parsed.Quiet = true
		case "-v", "--verbose":
			parsed.Verbose = true
		default:
			remaining = append(remaining, arg)
		}
	}
	return remaining, parsed
}

// parseAskArgs collects the query text and the optional --file flag.
func parseAskArgs(parsed *Args, remaining []string) {
	var queryParts []string
	i := 0
	for i < len(remaining) {
		arg := remaining[i]
		switch {
		case arg == "--file" || arg == "-f":
			if i+1 < len(remaining) {
				parsed.File = remaining[i+1]
				i += 2
				continue
			}
			i++
		case strings.HasPrefix(arg, "--file="):
			parsed.File = strings.TrimPrefix(arg, "--file=")
			i++
		default:
			queryParts = append(queryParts, arg)
			i++
		}
	}
	parsed.Query = strings.Join(queryParts, " ")
	parsed.Subcommand = ""
}

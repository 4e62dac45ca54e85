// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package commands provides the slash command system for the TUI.
package commands

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// COMMAND DEFINITION
// =============================================================================

// Command names understood by the chat view. The registry carries only
// metadata; execution lives in the update loop that owns the state.
const (
	CmdHelp     = "/help"
	CmdNew      = "/new"
	CmdSessions = "/sessions"
	CmdDelete   = "/delete"
	CmdAttach   = "/attach"
	CmdDetach   = "/detach"
	CmdRecord   = "/record"
	CmdVoice    = "/voice"
	CmdSpeak    = "/speak"
	CmdSettings = "/settings"
	CmdThought  = "/thought"
	CmdClear    = "/clear"
	CmdQuit     = "/quit"
)

// Command represents a slash command.
type Command struct {
	// Name is the primary command name (e.g., "/help")
	Name string

	// Aliases are alternative names (e.g., "/h", "/?")
	Aliases []string

	// Description is shown in help and completion
	Description string

	// Usage shows argument syntax (e.g., "/attach <file>")
	Usage string

	// Hidden commands don't appear in help
	Hidden bool
}

// =============================================================================
// COMMAND REGISTRY
// =============================================================================

// Registry holds all registered commands.
type Registry struct {
	commands map[string]*Command
	aliases  map[string]string
}

// NewRegistry creates a registry with the built-in command set.
func NewRegistry() *Registry {
	r := &Registry{
		commands: map[string]*Command{},
		aliases:  map[string]string{},
	}
	for _, c := range builtins() {
		r.Register(c)
	}
	return r
}

func builtins() []*Command {
	return []*Command{
		{Name: CmdHelp, Aliases: []string{"/h", "/?"}, Description: "Show available commands"},
		{Name: CmdNew, Aliases: []string{"/n"}, Description: "Start a new session"},
		{Name: CmdSessions, Aliases: []string{"/ls"}, Description: "Toggle the session list"},
		{Name: CmdDelete, Usage: "/delete [id]", Description: "Delete the active (or given) session"},
		{Name: CmdAttach, Usage: "/attach <file>", Description: "Stage a file for the next message"},
		{Name: CmdDetach, Description: "Unstage the attachment"},
		{Name: CmdRecord, Aliases: []string{"/rec"}, Description: "Start or stop voice input"},
		{Name: CmdVoice, Description: "Toggle spoken replies"},
		{Name: CmdSpeak, Description: "Read the last reply aloud"},
		{Name: CmdSettings, Aliases: []string{"/set"}, Description: "Open the settings form"},
		{Name: CmdThought, Description: "Show today's thought"},
		{Name: CmdClear, Description: "Clear the input line"},
		{Name: CmdQuit, Aliases: []string{"/q", "/exit"}, Description: "Quit"},
	}
}

// Register adds a command and its aliases.
func (r *Registry) Register(c *Command) {
	r.commands[c.Name] = c
	for _, a := range c.Aliases {
		r.aliases[a] = c.Name
	}
}

// Lookup resolves a name or alias to its command.
func (r *Registry) Lookup(name string) (*Command, bool) {
	if canonical, ok := r.aliases[name]; ok {
		name = canonical
	}
	c, ok := r.commands[name]
	return c, ok
}

// List returns the visible commands sorted by name.
func (r *Registry) List() []*Command {
	out := make([]*Command, 0, len(r.commands))
	for _, c := range r.commands {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Complete returns command names matching a prefix, for tab completion.
func (r *Registry) Complete(prefix string) []string {
	var out []string
	for name := range r.commands {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	for alias := range r.aliases {
		if strings.HasPrefix(alias, prefix) {
			out = append(out, alias)
		}
	}
	sort.Strings(out)
	return out
}

// HelpText renders the help listing.
func (r *Registry) HelpText() string {
	var b strings.Builder
	b.WriteString("Commands:\n")
	for _, c := range r.List() {
		usage := c.Usage
		if usage == "" {
			usage = c.Name
		}
		fmt.Fprintf(&b, "  %-20s %s\n", usage, c.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// =============================================================================
// PARSER
// =============================================================================

// ErrUnknownCommand indicates a slash input with no matching command.
var ErrUnknownCommand = errors.New("unknown command")

// ParseResult is the outcome of parsing one input line.
type ParseResult struct {
	// IsCommand is true if the input starts with /
	IsCommand bool

	// Command is the matched command (nil if not found)
	Command *Command

	// Args are the whitespace-split arguments
	Args []string

	// RawArgs is the unparsed argument text
	RawArgs string

	// Err is set when the command is unknown
	Err error
}

// Parse classifies an input line. Input not starting with / is a plain
// message and returns IsCommand false.
func (r *Registry) Parse(input string) ParseResult {
	input = strings.TrimSpace(input)
	if !strings.HasPrefix(input, "/") {
		return ParseResult{}
	}

	name, rest, _ := strings.Cut(input, " ")
	result := ParseResult{
		IsCommand: true,
		RawArgs:   strings.TrimSpace(rest),
	}
	if result.RawArgs != "" {
		result.Args = strings.Fields(result.RawArgs)
	}

	cmd, ok := r.Lookup(name)
	if !ok {
		result.Err = fmt.Errorf("%w: %s", ErrUnknownCommand, name)
		return result
	}
	result.Command = cmd
	return result
}

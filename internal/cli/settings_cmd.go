// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// settings_cmd.go - show and update chat settings.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jeranaias/sahayak-tui/internal/config"
)

// HandleSettings routes the settings subcommands.
func HandleSettings(args Args) {
	parser := NewArgParser(args.Raw)
	settings := config.OpenStore()

	switch parser.Subcommand() {
	case "", "show":
		printSettings(settings.Chat())

	case "set":
		key := parser.Positional(1)
		var valueParts []string
		for i := 2; i < parser.PositionalCount(); i++ {
			valueParts = append(valueParts, parser.Positional(i))
		}
		value := strings.Join(valueParts, " ")
		if key == "" || value == "" {
			exitErr("usage: sahayak settings set <key> <value>")
		}
		applySetting(settings, strings.ToLower(key), value)
		printSettings(settings.Chat())

	case "path":
		path, err := config.ConfigPath()
		if err != nil {
			exitErr("%v", err)
		}
		fmt.Println(path)

	case "states":
		for _, s := range config.States() {
			fmt.Printf("%-20s %s\n", s, DimStyle.Render(config.LanguageForState(s)))
		}

	default:
		exitErr("unknown settings subcommand: %s", parser.Subcommand())
	}
}

func printSettings(chat config.ChatConfig) {
	fmt.Println(TitleStyle.Render("Chat settings"))
	fmt.Println(RenderLabel("State") + ValueStyle.Render(orDash(chat.State)))
	fmt.Println(RenderLabel("Language") + ValueStyle.Render(orDash(chat.Language)))
	fmt.Println(RenderLabel("Grades") + ValueStyle.Render(gradeList(chat.TargetGrades)))
	fmt.Println(RenderLabel("Tone") + ValueStyle.Render(chat.Tone))
	fmt.Println(RenderLabel("Complexity") + ValueStyle.Render(chat.Complexity))
	fmt.Println(RenderLabel("Voice") + ValueStyle.Render(onOff(chat.VoiceOutput)))
}

func applySetting(settings *config.Store, key, value string) {
	var update config.ChatUpdate
	switch key {
	case "state":
		if value != "" && config.LanguageForState(value) == "" {
			fmt.Println(WarningStyle.Render("Unknown state; language left unchanged. See: sahayak settings states"))
		}
		update.State = &value
	case "language", "lang":
		update.Language = &value
	case "grades", "grade":
		grades, err := parseGrades(value)
		if err != nil {
			exitErr("%v", err)
		}
		update.TargetGrades = &grades
	case "tone":
		update.Tone = &value
	case "complexity":
		update.Complexity = &value
	case "voice":
		on := value == "on" || value == "true" || value == "yes"
		update.VoiceOutput = &on
	default:
		exitErr("unknown setting: %s (state, language, grades, tone, complexity, voice)", key)
	}
	settings.UpdateChat(update)
}

// parseGrades accepts a comma or space separated list like "3,4,5".
func parseGrades(value string) ([]int, error) {
	fields := strings.FieldsFunc(value, func(r rune) bool {
		return r == ',' || r == ' '
	})
	grades := make([]int, 0, len(fields))
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("bad grade %q: grades are numbers 1-10", f)
		}
		grades = append(grades, n)
	}
	return grades, nil
}

func gradeList(grades []int) string {
	if len(grades) == 0 {
		return "-"
	}
	parts := make([]string, len(grades))
	for i, g := range grades {
		parts[i] = strconv.Itoa(g)
	}
	return strings.Join(parts, ", ")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

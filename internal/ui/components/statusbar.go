// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sahayak-tui/internal/ui/styles"
)

// StatusInfo is everything the status bar shows.
type StatusInfo struct {
	UserName    string
	SessionName string
	Language    string
	VoiceOutput bool
	Recording   bool
	Sending     bool
}

// shortcuts shown on the right edge when there is room.
var shortcuts = []struct{ key, desc string }{
	{"ctrl+n", "new"},
	{"ctrl+r", "record"},
	{"ctrl+s", "settings"},
	{"ctrl+c", "quit"},
}

// StatusBar renders the bottom bar.
func StatusBar(theme *styles.Theme, info StatusInfo) string {
	var left []string
	if info.UserName != "" {
		left = append(left, info.UserName)
	}
	if info.SessionName != "" {
		left = append(left, info.SessionName)
	}
	if info.Language != "" {
		left = append(left, info.Language)
	}
	switch {
	case info.Recording:
		left = append(left, theme.Recording.Render("REC"))
	case info.VoiceOutput:
		left = append(left, theme.VoiceOn.Render("voice"))
	default:
		left = append(left, theme.VoiceOff.Render("voice off"))
	}
	if info.Sending {
		left = append(left, "sending...")
	}
	leftText := strings.Join(left, " | ")

	var right []string
	for _, sc := range shortcuts {
		right = append(right, theme.ShortcutKey.Render(sc.key)+" "+theme.ShortcutDesc.Render(sc.desc))
	}
	rightText := strings.Join(right, "  ")

	gap := theme.Width - lipgloss.Width(leftText) - lipgloss.Width(rightText) - 2
	if gap < 1 {
		return theme.StatusBar.Width(theme.Width).Render(leftText)
	}
	return theme.StatusBar.Width(theme.Width).Render(leftText + strings.Repeat(" ", gap) + rightText)
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// terminal.go - TTY detection and terminal sizing for CLI output.
package cli

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// IsTTY reports whether stdout is a terminal.
func IsTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ColorsEnabled reports whether styled output should be used. Respects
// NO_COLOR (https://no-color.org/) and FORCE_COLOR.
func ColorsEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}
	return IsTTY()
}

// GetColorProfile returns the color profile to hand to lipgloss.
func GetColorProfile() termenv.Profile {
	if !ColorsEnabled() {
		return termenv.Ascii
	}
	return termenv.ColorProfile()
}

// GetTerminalWidth returns the terminal width, or 80 when unknown.
func GetTerminalWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}

// WrapText wraps text to the given width on word boundaries. Words
// longer than the width are left intact.
func WrapText(text string, width int) string {
	if width <= 0 {
		return text
	}

	var out strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			out.WriteString("\n")
		}
		lineLen := 0
		for j, word := range strings.Fields(line) {
			if j > 0 {
				if lineLen+1+len(word) > width {
					out.WriteString("\n")
					lineLen = 0
				} else {
					out.WriteString(" ")
					lineLen++
				}
			}
			out.WriteString(word)
			lineLen += len(word)
		}
	}
	return out.String()
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/sahayak-tui/internal/ui/styles"
)

const banner = `
  ____        _                         _
 / ___|  __ _| |__   __ _ _   _  __ _  | | __
 \___ \ / _` + "`" + ` | '_ \ / _` + "`" + ` | | | |/ _` + "`" + ` | | |/ /
  ___) | (_| | | | | (_| | |_| | (_| | |   <
 |____/ \__,_|_| |_|\__,_|\__, |\__,_| |_|\_\
                          |___/`

// Welcome renders the empty-transcript greeting with the daily thought.
func Welcome(theme *styles.Theme, userName, thought string) string {
	var b strings.Builder
	b.WriteString(theme.Brand.Render(banner))
	b.WriteString("\n\n")
	if userName != "" {
		b.WriteString(theme.FormValue.Render("Welcome back, " + userName + "!"))
	} else {
		b.WriteString(theme.FormValue.Render("Welcome! Your teaching assistant is ready."))
	}
	b.WriteString("\n\n")
	if thought != "" {
		b.WriteString(theme.Thought.Render(thought))
		b.WriteString("\n\n")
	}
	b.WriteString(theme.Muted.Render("Type a question, or /help for commands."))
	return b.String()
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/sahayak-tui/internal/model"
	"github.com/jeranaias/sahayak-tui/internal/ui/styles"
	"github.com/jeranaias/sahayak-tui/internal/util"
)

// Sidebar renders the session list with a movable cursor. The cursor is
// navigation state only; selection happens when the user confirms.
type Sidebar struct {
	sessions []model.Session
	activeID string
	cursor   int
	width    int
}

// NewSidebar creates an empty sidebar.
func NewSidebar(width int) *Sidebar {
	return &Sidebar{width: width}
}

// SetSessions replaces the list, keeping the cursor in range.
func (s *Sidebar) SetSessions(sessions []model.Session, activeID string) {
	s.sessions = sessions
	s.activeID = activeID
	if s.cursor >= len(sessions) {
		s.cursor = len(sessions) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// SetWidth updates the column budget.
func (s *Sidebar) SetWidth(width int) { s.width = width }

// CursorUp moves the cursor toward the top.
func (s *Sidebar) CursorUp() {
	if s.cursor > 0 {
		s.cursor--
	}
}

// CursorDown moves the cursor toward the bottom.
func (s *Sidebar) CursorDown() {
	if s.cursor < len(s.sessions)-1 {
		s.cursor++
	}
}

// Hovered returns the session under the cursor.
func (s *Sidebar) Hovered() (model.Session, bool) {
	if s.cursor < 0 || s.cursor >= len(s.sessions) {
		return model.Session{}, false
	}
	return s.sessions[s.cursor], true
}

// View renders the list.
func (s *Sidebar) View(theme *styles.Theme) string {
	var b strings.Builder
	b.WriteString(theme.SidebarTitle.Render("Sessions"))
	b.WriteString("\n")

	if len(s.sessions) == 0 {
		b.WriteString(theme.Muted.Render("no sessions"))
		return theme.Sidebar.Render(b.String())
	}

	inner := s.width - 4
	if inner < 8 {
		inner = 8
	}
	for i, sess := range s.sessions {
		name := util.TruncateWidth(sess.Name, inner)
		marker := "  "
		if sess.ID == s.activeID {
			marker = "* "
		}
		line := marker + name
		switch {
		case i == s.cursor:
			line = theme.SessionSelected.Render(line)
		default:
			line = theme.SessionItem.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return theme.Sidebar.Render(strings.TrimRight(b.String(), "\n"))
}

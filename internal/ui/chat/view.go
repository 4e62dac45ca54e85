// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"

	"github.com/jeranaias/sahayak-tui/internal/model"
	"github.com/jeranaias/sahayak-tui/internal/ui/components"
)

// chromeHeight is the rows taken by header, input line, and status bar.
const chromeHeight = 5

// transcriptGutter is the horizontal room reserved around message bodies.
const transcriptGutter = 4

func newViewport(width, height int) viewport.Model {
	vp := viewport.New(width, height)
	vp.SetContent("")
	return vp
}

// View renders the whole chat screen.
func (m *Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Starting Sahayak..."
	}

	if m.form.IsOpen() {
		return lipgloss.Place(m.theme.Width, m.theme.Height,
			lipgloss.Center, lipgloss.Center, m.form.View(m.theme))
	}

	main := m.viewport.View()
	if m.showSidebar {
		main = lipgloss.JoinHorizontal(lipgloss.Top, m.sidebar.View(m.theme), main)
	}

	var b strings.Builder
	b.WriteString(m.headerView())
	b.WriteString("\n")
	b.WriteString(main)
	b.WriteString("\n")
	b.WriteString(m.inputView())
	b.WriteString("\n")
	b.WriteString(m.statusView())

	if m.toasts.Active() {
		b.WriteString("\n")
		b.WriteString(m.toasts.View(m.theme))
	}
	return b.String()
}

func (m *Model) headerView() string {
	brand := m.theme.Brand.Render("Sahayak")
	user := m.theme.Muted.Render(m.deps.User.DisplayName())
	gap := m.theme.Width - lipgloss.Width(brand) - lipgloss.Width(user) - 2
	if gap < 1 {
		gap = 1
	}
	return m.theme.Header.Render(brand + strings.Repeat(" ", gap) + user)
}

func (m *Model) inputView() string {
	var b strings.Builder
	if att := m.deps.Conv.Attachment(); !att.IsZero() {
		b.WriteString(m.theme.AttachmentChip.Render("📎 " + att.Name))
		b.WriteString(" ")
	}
	if m.spinner.Active() {
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
	}
	b.WriteString(m.theme.InputPrompt.Render("> "))
	b.WriteString(m.input.View())
	return m.theme.InputContainer.Render(b.String())
}

func (m *Model) statusView() string {
	return components.StatusBar(m.theme, components.StatusInfo{
		UserName:    m.deps.User.DisplayName(),
		SessionName: m.activeSessionName(),
		Language:    m.deps.Settings.Chat().Language,
		VoiceOutput: m.deps.Settings.Chat().VoiceOutput,
		Recording:   m.recording,
		Sending:     m.deps.Conv.Sending(),
	})
}

func (m *Model) activeSessionName() string {
	active := m.deps.Sessions.ActiveID()
	for _, s := range m.deps.Sessions.List() {
		if s.ID == active {
			return s.Name
		}
	}
	return ""
}

// =============================================================================
// TRANSCRIPT
// =============================================================================

// refreshTranscript re-renders the active session into the viewport and
// scrolls to the newest message.
func (m *Model) refreshTranscript() {
	if !m.ready {
		return
	}
	msgs := m.deps.Sessions.Messages()
	if len(msgs) == 0 {
		m.viewport.SetContent(components.Welcome(m.theme, m.deps.User.DisplayName(), m.thought))
		m.viewport.GotoTop()
		return
	}

	var b strings.Builder
	for i, msg := range msgs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderMessage(msg))
		b.WriteString("\n")
	}
	m.viewport.SetContent(b.String())
	m.viewport.GotoBottom()
}

func (m *Model) renderMessage(msg model.Message) string {
	width := m.viewport.Width - transcriptGutter
	if width < 10 {
		width = 10
	}

	label := m.theme.ModelLabel.Render(msg.Role.DisplayName())
	if msg.Role == model.RoleUser {
		label = m.theme.UserLabel.Render(m.deps.User.DisplayName())
	}
	if m.deps.Settings.Config().UI.ShowTimestamps && !msg.Timestamp.IsZero() {
		label += " " + m.theme.Timestamp.Render(msg.Timestamp.Format("15:04"))
	}

	var body string
	if msg.Role == model.RoleModel {
		body = m.theme.ModelBubble.Width(width).Render(m.markdown.Render(msg.Content))
	} else {
		body = m.theme.UserBubble.Width(width).Render(msg.Content)
	}
	return label + "\n" + body
}

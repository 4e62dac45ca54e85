// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sahayak-tui/internal/commands"
	"github.com/jeranaias/sahayak-tui/internal/conversation"
	"github.com/jeranaias/sahayak-tui/internal/model"
	"github.com/jeranaias/sahayak-tui/internal/ui/components"
)

// Update routes messages to the right handler.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m, m.handleResize(msg)

	case components.ToastExpiredMsg:
		m.toasts.Sweep()
		return m, nil

	case sessionsLoadedMsg:
		m.spinner.Stop()
		if msg.err != nil {
			return m, m.toasts.Push(components.NewErrorToast("Could not load sessions: " + short(msg.err)))
		}
		m.syncSessions()
		return m, nil

	case sessionSelectedMsg:
		m.spinner.Stop()
		if msg.err != nil {
			return m, m.toasts.Push(components.NewErrorToast("Could not open session: " + short(msg.err)))
		}
		m.syncSessions()
		return m, nil

	case sessionCreatedMsg:
		m.spinner.Stop()
		if msg.err != nil {
			return m, m.toasts.Push(components.NewErrorToast("Could not create session: " + short(msg.err)))
		}
		m.syncSessions()
		return m, m.toasts.Push(components.NewSuccessToast("Started " + msg.session.Name))

	case sessionDeletedMsg:
		m.spinner.Stop()
		m.syncSessions()
		if msg.err != nil {
			return m, m.toasts.Push(components.NewErrorToast("Delete failed, session restored: " + short(msg.err)))
		}
		return m, m.toasts.Push(components.NewStatusToast("Session deleted"))

	case turnStagedMsg:
		if msg.err != nil {
			return m, m.handleSendResult(sendResultMsg{err: msg.err})
		}
		m.refreshTranscript()
		return m, m.awaitReplyCmd(msg.prompt)

	case sendResultMsg:
		return m, m.handleSendResult(msg)

	case thoughtMsg:
		m.thought = msg.thought
		if m.deps.Sessions.Count() > 0 && len(m.deps.Sessions.Messages()) == 0 {
			m.refreshTranscript()
		}
		return m, nil

	case speakDoneMsg:
		m.spinner.Stop()
		if msg.err != nil {
			return m, m.toasts.Push(components.NewErrorToast("Cannot speak reply: " + short(msg.err)))
		}
		return m, nil

	case transcriptionMsg:
		m.spinner.Stop()
		m.transcribing = false
		if msg.err != nil {
			return m, m.toasts.Push(components.NewErrorToast("Transcription failed: " + short(msg.err)))
		}
		m.setInputText(joinInput(m.input.Value(), msg.text))
		return m, nil

	case userChangedMsg:
		return m, m.handleUserChange(msg)

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	// Everything else (spinner ticks, blink) flows to the animated bits.
	var cmds []tea.Cmd
	if cmd := m.spinner.Update(msg); cmd != nil {
		cmds = append(cmds, cmd)
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// =============================================================================
// LAYOUT
// =============================================================================

func (m *Model) handleResize(msg tea.WindowSizeMsg) tea.Cmd {
	m.theme.SetSize(msg.Width, msg.Height)
	m.showSidebar = m.theme.SidebarVisible()
	if !m.showSidebar {
		m.sidebarFocus = false
	}

	contentWidth := msg.Width - m.theme.SidebarWidth()
	if contentWidth < 20 {
		contentWidth = 20
	}
	// Header, input line, and status bar take fixed rows.
	contentHeight := msg.Height - chromeHeight
	if contentHeight < 3 {
		contentHeight = 3
	}

	if !m.ready {
		m.viewport = newViewport(contentWidth, contentHeight)
		m.ready = true
	} else {
		m.viewport.Width = contentWidth
		m.viewport.Height = contentHeight
	}
	m.input.Width = contentWidth - 4
	m.markdown.SetWidth(contentWidth - transcriptGutter)
	m.sidebar.SetWidth(m.theme.SidebarWidth())
	m.refreshTranscript()
	return nil
}

// =============================================================================
// KEY HANDLING
// =============================================================================

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) {
		return m, m.quit()
	}

	if m.form.IsOpen() {
		return m, m.handleFormKey(msg)
	}
	if m.sidebarFocus {
		return m, m.handleSidebarKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Send):
		return m, m.handleSubmit()
	case key.Matches(msg, m.keys.NewSession):
		return m, tea.Batch(m.spinner.Start("Creating session"), m.createSessionCmd())
	case key.Matches(msg, m.keys.Sidebar):
		return m, m.toggleSidebar()
	case key.Matches(msg, m.keys.Record):
		return m, m.toggleRecording()
	case key.Matches(msg, m.keys.Settings):
		m.form.Open()
		return m, nil
	case key.Matches(msg, m.keys.Voice):
		return m, m.toggleVoice()
	case key.Matches(msg, m.keys.PageUp):
		m.viewport.HalfViewUp()
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		m.viewport.HalfViewDown()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) handleFormKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.form.Close()
	case key.Matches(msg, m.keys.Confirm):
		m.form.Apply()
		return m.toasts.Push(components.NewSuccessToast("Settings saved"))
	case key.Matches(msg, m.keys.Up):
		m.form.Prev()
	case key.Matches(msg, m.keys.Down):
		m.form.Next()
	case key.Matches(msg, m.keys.ToggleCell):
		m.form.Toggle()
	case msg.String() == "left", msg.String() == "h":
		m.form.Left()
	case msg.String() == "right", msg.String() == "l":
		m.form.Right()
	}
	return nil
}

func (m *Model) handleSidebarKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Sidebar):
		m.sidebarFocus = false
		m.input.Focus()
	case key.Matches(msg, m.keys.Up):
		m.sidebar.CursorUp()
	case key.Matches(msg, m.keys.Down):
		m.sidebar.CursorDown()
	case key.Matches(msg, m.keys.Confirm):
		if s, ok := m.sidebar.Hovered(); ok {
			m.sidebarFocus = false
			m.input.Focus()
			if s.ID == m.deps.Sessions.ActiveID() {
				return nil
			}
			return tea.Batch(m.spinner.Start("Loading session"), m.selectSessionCmd(s.ID))
		}
	case key.Matches(msg, m.keys.DeleteEntry):
		if s, ok := m.sidebar.Hovered(); ok {
			return m.deleteSession(s.ID)
		}
	case key.Matches(msg, m.keys.NewSession):
		return tea.Batch(m.spinner.Start("Creating session"), m.createSessionCmd())
	}
	return nil
}

// =============================================================================
// SUBMIT AND COMMANDS
// =============================================================================

func (m *Model) handleSubmit() tea.Cmd {
	text := strings.TrimSpace(m.input.Value())
	if text == "" && m.deps.Conv.Attachment().IsZero() {
		return nil
	}

	if parsed := m.registry.Parse(text); parsed.IsCommand {
		m.input.Reset()
		if parsed.Err != nil {
			return m.toasts.Push(components.NewErrorToast(short(parsed.Err) + " (try /help)"))
		}
		return m.runCommand(parsed)
	}

	if m.deps.Conv.Sending() {
		return m.toasts.Push(components.NewStatusToast("Still waiting for the last reply"))
	}
	if m.transcribing {
		return m.toasts.Push(components.NewStatusToast("Still transcribing your recording"))
	}

	m.deps.Conv.SetInput(text)
	m.input.Reset()
	return tea.Batch(m.spinner.Start("Thinking"), m.beginSendCmd())
}

func (m *Model) runCommand(parsed commands.ParseResult) tea.Cmd {
	switch parsed.Command.Name {
	case commands.CmdHelp:
		m.deps.Sessions.Append(model.NewModelMessage(m.registry.HelpText()))
		m.refreshTranscript()
		return nil

	case commands.CmdNew:
		return tea.Batch(m.spinner.Start("Creating session"), m.createSessionCmd())

	case commands.CmdSessions:
		return m.toggleSidebar()

	case commands.CmdDelete:
		id := m.deps.Sessions.ActiveID()
		if len(parsed.Args) > 0 {
			id = parsed.Args[0]
		}
		return m.deleteSession(id)

	case commands.CmdAttach:
		if parsed.RawArgs == "" {
			return m.toasts.Push(components.NewErrorToast("Usage: /attach <file>"))
		}
		path := parsed.RawArgs
		if _, err := os.Stat(path); err != nil {
			return m.toasts.Push(components.NewErrorToast("Cannot attach: " + short(err)))
		}
		m.deps.Conv.Attach(path)
		return m.toasts.Push(components.NewStatusToast("Attached " + m.deps.Conv.Attachment().Name))

	case commands.CmdDetach:
		m.deps.Conv.ClearAttachment()
		return m.toasts.Push(components.NewStatusToast("Attachment removed"))

	case commands.CmdRecord:
		return m.toggleRecording()

	case commands.CmdVoice:
		return m.toggleVoice()

	case commands.CmdSpeak:
		return tea.Batch(m.spinner.Start("Speaking"), m.speakLastCmd())

	case commands.CmdSettings:
		m.form.Open()
		return nil

	case commands.CmdThought:
		if m.thought == "" {
			return m.thoughtCmd()
		}
		m.deps.Sessions.Append(model.NewModelMessage(m.thought))
		m.refreshTranscript()
		return nil

	case commands.CmdClear:
		m.input.Reset()
		m.deps.Conv.SetInput("")
		return nil

	case commands.CmdQuit:
		return m.quit()
	}
	return nil
}

func (m *Model) deleteSession(id string) tea.Cmd {
	if id == "" {
		return m.toasts.Push(components.NewErrorToast("No session to delete"))
	}
	return tea.Batch(m.spinner.Start("Deleting session"), m.deleteSessionCmd(id))
}

// =============================================================================
// TOGGLES
// =============================================================================

func (m *Model) toggleSidebar() tea.Cmd {
	if !m.theme.SidebarVisible() {
		return m.toasts.Push(components.NewStatusToast("Terminal too narrow for the session list"))
	}
	m.sidebarFocus = !m.sidebarFocus
	if m.sidebarFocus {
		m.input.Blur()
	} else {
		m.input.Focus()
	}
	return nil
}

func (m *Model) toggleRecording() tea.Cmd {
	if m.deps.Recorder == nil {
		return m.toasts.Push(components.NewErrorToast("No recorder available"))
	}
	if !m.recording {
		if !m.deps.Speech.IsConfigured() {
			return m.toasts.Push(components.NewErrorToast("Set a speech API key to use voice input"))
		}
		if err := m.deps.Recorder.Start(); err != nil {
			return m.toasts.Push(components.NewErrorToast("Recording failed: " + short(err)))
		}
		m.recording = true
		return m.toasts.Push(components.NewStatusToast("Recording... press ctrl+r to stop"))
	}

	m.recording = false
	wav, err := m.deps.Recorder.Stop()
	if err != nil {
		return m.toasts.Push(components.NewErrorToast("Recording failed: " + short(err)))
	}
	m.transcribing = true
	return tea.Batch(m.spinner.Start("Transcribing"), m.transcribeCmd(wav))
}

func (m *Model) toggleVoice() tea.Cmd {
	chat := m.deps.Settings.Chat()
	updated := m.deps.Settings.SetVoiceOutput(!chat.VoiceOutput)
	if updated.VoiceOutput {
		return m.toasts.Push(components.NewStatusToast("Spoken replies on"))
	}
	return m.toasts.Push(components.NewStatusToast("Spoken replies off"))
}

// =============================================================================
// RESULT HANDLERS
// =============================================================================

func (m *Model) handleSendResult(msg sendResultMsg) tea.Cmd {
	m.spinner.Stop()
	m.refreshTranscript()
	if msg.err == nil {
		if msg.speakErr != nil {
			return m.toasts.Push(components.NewWarningToast("Voice output failed: " + short(msg.speakErr)))
		}
		return nil
	}

	// A failed upload leaves the draft staged in the controller. Put it
	// back in the input line so the user can retry.
	if staged := m.deps.Conv.Input(); staged != "" && m.input.Value() == "" {
		m.setInputText(staged)
	}

	switch {
	case errors.Is(msg.err, conversation.ErrNothingToSend):
		return nil
	case errors.Is(msg.err, conversation.ErrSendInFlight):
		return m.toasts.Push(components.NewStatusToast("Still waiting for the last reply"))
	default:
		return m.toasts.Push(components.NewErrorToast("Send failed: " + short(msg.err)))
	}
}

func (m *Model) handleUserChange(msg userChangedMsg) tea.Cmd {
	if !msg.ok {
		return nil
	}
	rearm := m.awaitUserChangeCmd()
	if !msg.change.LoggedIn {
		m.toasts.Push(components.NewErrorToast("Logged out elsewhere"))
		return m.quit()
	}
	if msg.change.User.UserID != m.deps.User.UserID {
		return tea.Batch(rearm, m.toasts.Push(components.NewStatusToast(
			fmt.Sprintf("Logged in as %s elsewhere. Restart to switch.", msg.change.User.DisplayName()))))
	}
	m.deps.User = msg.change.User
	return rearm
}

// =============================================================================
// HELPERS
// =============================================================================

func (m *Model) quit() tea.Cmd {
	m.quitting = true
	m.watchCancel()
	if m.recording && m.deps.Recorder != nil {
		m.deps.Recorder.Abort()
	}
	return tea.Quit
}

func (m *Model) syncSessions() {
	m.sidebar.SetSessions(m.deps.Sessions.List(), m.deps.Sessions.ActiveID())
	m.refreshTranscript()
}

func (m *Model) setInputText(text string) {
	m.input.SetValue(text)
	m.input.CursorEnd()
}

func joinInput(existing, extra string) string {
	existing = strings.TrimSpace(existing)
	extra = strings.TrimSpace(extra)
	if existing == "" {
		return extra
	}
	if extra == "" {
		return existing
	}
	return existing + " " + extra
}

// short keeps toast text to a single readable line.
func short(err error) string {
	s := err.Error()
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	const max = 80
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}

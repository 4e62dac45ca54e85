// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package chat implements the main TUI: transcript, input line, session
// sidebar, settings form, and voice controls.
package chat

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sahayak-tui/internal/api"
	"github.com/jeranaias/sahayak-tui/internal/audio"
	"github.com/jeranaias/sahayak-tui/internal/auth"
	"github.com/jeranaias/sahayak-tui/internal/commands"
	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/conversation"
	"github.com/jeranaias/sahayak-tui/internal/history"
	"github.com/jeranaias/sahayak-tui/internal/session"
	"github.com/jeranaias/sahayak-tui/internal/speech"
	"github.com/jeranaias/sahayak-tui/internal/ui/components"
	"github.com/jeranaias/sahayak-tui/internal/ui/styles"
)

// opTimeout bounds ordinary backend calls issued from the UI.
const opTimeout = 60 * time.Second

// Deps carries everything the chat model needs.
type Deps struct {
	Client    *api.Client
	Sessions  *session.Manager
	Conv      *conversation.Controller
	Settings  *config.Store
	Speech    *speech.Client
	Recorder  *audio.Recorder
	User      auth.User
	UserStore *auth.Store
	History   *history.Store
}

// Model is the Bubble Tea model for the chat screen.
type Model struct {
	deps  Deps
	theme *styles.Theme

	// Components
	input    textinput.Model
	viewport viewport.Model
	sidebar  *components.Sidebar
	toasts   *components.ToastManager
	spinner  components.Spinner
	form     *components.SettingsForm
	markdown *components.MarkdownRenderer
	registry *commands.Registry
	keys     keyMap

	// Screen state
	ready        bool
	showSidebar  bool
	sidebarFocus bool
	recording    bool
	transcribing bool
	thought      string

	// User change watching
	watchCtx    context.Context
	watchCancel context.CancelFunc
	userChanges <-chan auth.Change

	quitting bool
}

// New creates the chat model.
func New(deps Deps) *Model {
	theme := styles.NewTheme()

	input := textinput.New()
	input.Placeholder = "Ask your teaching assistant..."
	input.Prompt = ""
	input.Focus()

	watchCtx, watchCancel := context.WithCancel(context.Background())

	return &Model{
		deps:        deps,
		theme:       theme,
		input:       input,
		sidebar:     components.NewSidebar(theme.SidebarWidth()),
		toasts:      components.NewToastManager(),
		spinner:     components.NewSpinner(theme),
		form:        components.NewSettingsForm(deps.Settings),
		markdown:    components.NewMarkdownRenderer(80, theme.IsDark),
		registry:    commands.NewRegistry(),
		keys:        defaultKeyMap(),
		watchCtx:    watchCtx,
		watchCancel: watchCancel,
	}
}

// Init starts the initial loads: sessions, the daily thought, and the
// user-record watch.
func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.loadSessionsCmd(),
		m.thoughtCmd(),
		textinput.Blink,
	}
	if m.deps.UserStore != nil {
		if ch, err := m.deps.UserStore.Watch(m.watchCtx); err == nil {
			m.userChanges = ch
			cmds = append(cmds, m.awaitUserChangeCmd())
		}
	}
	return tea.Batch(cmds...)
}

// =============================================================================
// ASYNC COMMANDS
// =============================================================================

func (m *Model) loadSessionsCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return sessionsLoadedMsg{err: m.deps.Sessions.Initialize(ctx)}
	}
}

func (m *Model) selectSessionCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		err := m.deps.Sessions.Select(ctx, sessionID)
		return sessionSelectedMsg{sessionID: sessionID, err: err}
	}
}

func (m *Model) createSessionCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		created, err := m.deps.Sessions.Create(ctx)
		return sessionCreatedMsg{session: created, err: err}
	}
}

func (m *Model) deleteSessionCmd(sessionID string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		err := m.deps.Sessions.Delete(ctx, sessionID)
		if err == nil && m.deps.History != nil {
			m.deps.History.DeleteSession(ctx, sessionID)
		}
		return sessionDeletedMsg{sessionID: sessionID, err: err}
	}
}

func (m *Model) beginSendCmd() tea.Cmd {
	prompt := m.deps.Conv.Input()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		_, err := m.deps.Conv.Begin(ctx)
		return turnStagedMsg{prompt: prompt, err: err}
	}
}

func (m *Model) awaitReplyCmd(prompt string) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout*2)
		defer cancel()
		res, err := m.deps.Conv.Await(ctx)
		if err == nil && m.deps.History != nil && prompt != "" {
			m.deps.History.Record(ctx, m.deps.Sessions.UserID(), m.deps.Sessions.ActiveID(), prompt)
		}
		return sendResultMsg{reply: res.Reply, speakErr: res.SpeakErr, err: err}
	}
}

func (m *Model) thoughtCmd() tea.Cmd {
	return func() tea.Msg {
		state := m.deps.Settings.Chat().State
		thought, _ := m.deps.Client.ThoughtOfTheDay(context.Background(), state)
		return thoughtMsg{thought: thought}
	}
}

func (m *Model) speakLastCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		return speakDoneMsg{err: m.deps.Conv.SpeakLast(ctx)}
	}
}

func (m *Model) transcribeCmd(wav []byte) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
		defer cancel()
		text, err := m.deps.Speech.Transcribe(ctx, wav, "audio/wav")
		return transcriptionMsg{text: text, err: err}
	}
}

func (m *Model) awaitUserChangeCmd() tea.Cmd {
	ch := m.userChanges
	return func() tea.Msg {
		change, ok := <-ch
		return userChangedMsg{change: change, ok: ok}
	}
}

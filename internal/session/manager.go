// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package session mirrors the backend's session list and the active
// transcript, with optimistic mutations that roll back on API failure.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jeranaias/sahayak-tui/internal/api"
	"github.com/jeranaias/sahayak-tui/internal/model"
)

// =============================================================================
// SESSION MANAGER
// =============================================================================

// API is the backend surface the manager needs. *api.Client satisfies it.
type API interface {
	Sessions(ctx context.Context, userID string) (*api.SessionsResult, error)
	CreateSession(ctx context.Context, userID string) (model.Session, error)
	DeleteSession(ctx context.Context, userID, sessionID string) error
	SessionMessages(ctx context.Context, userID, sessionID string) ([]model.Message, error)
}

// ErrNoActiveSession indicates an operation that needs a selected session.
var ErrNoActiveSession = errors.New("no active session")

// Manager owns the session list, the active selection, and its transcript.
// All methods are safe for concurrent use; mutations hold the lock only
// around state changes, never across API calls that are part of an
// optimistic flow's rollback window.
type Manager struct {
	mu sync.Mutex

	api    API
	userID string

	sessions []model.Session
	activeID string
	messages []model.Message
	loading  bool
}

// NewManager creates a manager for the given user.
func NewManager(api API, userID string) *Manager {
	return &Manager{api: api, userID: userID}
}

// UserID returns the user this manager belongs to.
func (m *Manager) UserID() string { return m.userID }

// =============================================================================
// SNAPSHOT ACCESSORS
// =============================================================================

// List returns a copy of the session list, newest first.
func (m *Manager) List() []model.Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Session(nil), m.sessions...)
}

// ActiveID returns the selected session ID, or "" when none is selected.
func (m *Manager) ActiveID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeID
}

// Messages returns a copy of the active transcript.
func (m *Manager) Messages() []model.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.Message(nil), m.messages...)
}

// Loading reports whether a transcript fetch is in flight.
func (m *Manager) Loading() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loading
}

// Count returns the number of sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// =============================================================================
// LIFECYCLE
// =============================================================================

// Initialize fetches the session list and selects the most recent session.
// The backend embeds that session's transcript in the listing, so no
// second fetch is needed; when the embed is missing the transcript is
// fetched explicitly. A user with no sessions gets a fresh one.
func (m *Manager) Initialize(ctx context.Context) error {
	result, err := m.api.Sessions(ctx, m.userID)
	if err != nil {
		return fmt.Errorf("load sessions: %w", err)
	}

	if len(result.Sessions) == 0 {
		created, err := m.api.CreateSession(ctx, m.userID)
		if err != nil {
			return fmt.Errorf("create first session: %w", err)
		}
		m.mu.Lock()
		m.sessions = []model.Session{created}
		m.activeID = created.ID
		m.messages = nil
		m.mu.Unlock()
		return nil
	}

	active := result.Sessions[0]
	var messages []model.Message
	if result.HasMessages {
		messages = result.Messages
	} else {
		messages, err = m.api.SessionMessages(ctx, m.userID, active.ID)
		if err != nil {
			return fmt.Errorf("load transcript: %w", err)
		}
	}

	m.mu.Lock()
	m.sessions = result.Sessions
	m.activeID = active.ID
	m.messages = messages
	m.mu.Unlock()
	return nil
}

// Refresh re-fetches the session list without changing the selection,
// unless the selected session no longer exists.
func (m *Manager) Refresh(ctx context.Context) error {
	result, err := m.api.Sessions(ctx, m.userID)
	if err != nil {
		return fmt.Errorf("refresh sessions: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = result.Sessions
	for _, s := range m.sessions {
		if s.ID == m.activeID {
			return nil
		}
	}
	if len(m.sessions) > 0 {
		m.activeID = m.sessions[0].ID
	} else {
		m.activeID = ""
	}
	m.messages = nil
	return nil
}

// Select makes the given session active and loads its transcript. The
// loading flag is set for the duration of the fetch so the UI can show a
// placeholder. A fetch failure leaves the selection in place with an
// empty transcript.
func (m *Manager) Select(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	if m.activeID == sessionID {
		m.mu.Unlock()
		return nil
	}
	m.activeID = sessionID
	m.messages = nil
	m.loading = true
	m.mu.Unlock()

	messages, err := m.api.SessionMessages(ctx, m.userID, sessionID)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.loading = false
	if m.activeID != sessionID {
		// Selection moved on while we were fetching.
		return nil
	}
	if err != nil {
		return fmt.Errorf("load transcript: %w", err)
	}
	m.messages = messages
	return nil
}

// Create starts a new session, prepends it to the list, and selects it
// with an empty transcript.
func (m *Manager) Create(ctx context.Context) (model.Session, error) {
	created, err := m.api.CreateSession(ctx, m.userID)
	if err != nil {
		return model.Session{}, fmt.Errorf("create session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append([]model.Session{created}, m.sessions...)
	m.activeID = created.ID
	m.messages = nil
	m.loading = false
	return created, nil
}

// Delete removes a session optimistically: the list shrinks immediately,
// and the full pre-delete list is restored if the API call fails. When
// the active session was deleted, the first remaining session is selected
// and its transcript fetched; deleting the last session creates a fresh
// one so the user always has somewhere to type.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	m.mu.Lock()
	snapshot := append([]model.Session(nil), m.sessions...)
	snapshotActive := m.activeID
	snapshotMessages := m.messages

	kept := m.sessions[:0:0]
	found := false
	for _, s := range m.sessions {
		if s.ID == sessionID {
			found = true
			continue
		}
		kept = append(kept, s)
	}
	if !found {
		m.mu.Unlock()
		return nil
	}
	m.sessions = kept
	wasActive := m.activeID == sessionID
	if wasActive {
		m.activeID = ""
		m.messages = nil
	}
	m.mu.Unlock()

	if err := m.api.DeleteSession(ctx, m.userID, sessionID); err != nil {
		m.mu.Lock()
		m.sessions = snapshot
		m.activeID = snapshotActive
		m.messages = snapshotMessages
		m.mu.Unlock()
		return fmt.Errorf("delete session: %w", err)
	}

	if !wasActive {
		return nil
	}

	m.mu.Lock()
	remaining := len(m.sessions)
	var next string
	if remaining > 0 {
		next = m.sessions[0].ID
	}
	m.mu.Unlock()

	if remaining == 0 {
		if _, err := m.Create(ctx); err != nil {
			return err
		}
		return nil
	}
	return m.Select(ctx, next)
}

// =============================================================================
// TRANSCRIPT MUTATORS
// =============================================================================

// Append adds a message to the active transcript.
func (m *Manager) Append(msg model.Message) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.messages = append(m.messages, msg)
}

// RemoveLast removes and returns the most recent message with the given
// role, searching from the end. Used to unwind optimistic sends.
func (m *Manager) RemoveLast(role model.Role) (model.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Role == role {
			removed := m.messages[i]
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return removed, true
		}
	}
	return model.Message{}, false
}

// LastMessage returns the newest transcript entry.
func (m *Manager) LastMessage() (model.Message, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.messages) == 0 {
		return model.Message{}, false
	}
	return m.messages[len(m.messages)-1], true
}

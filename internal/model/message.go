// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package model contains the data structures for sessions and messages.
package model

import (
	"time"

	"github.com/google/uuid"
)

// =============================================================================
// ROLE TYPE
// =============================================================================

// Role represents the sender of a message. The backend knows exactly two
// roles: the teacher typing, and the model answering.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// DisplayName returns a human-readable name for the role.
func (r Role) DisplayName() string {
	switch r {
	case RoleUser:
		return "You"
	case RoleModel:
		return "Sahayak"
	default:
		return string(r)
	}
}

// Valid reports whether the role is one the backend can produce.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleModel
}

// =============================================================================
// MESSAGE TYPE
// =============================================================================

// Message represents a single turn in a session transcript.
//
// The wire field for the text is "message", matching the backend's
// /get_session_message and /get_answer payloads.
type Message struct {
	// ID is a client-side identifier used to address a message in the
	// transcript (optimistic removal on a failed send). It is never sent
	// to the backend.
	ID string `json:"-"`

	Role    Role   `json:"role"`
	Content string `json:"message"`

	// Timestamp is when the client appended the message. The backend does
	// not return timestamps, so this is local bookkeeping only.
	Timestamp time.Time `json:"-"`
}

// NewMessage creates a message with a generated client-side ID.
func NewMessage(role Role, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	}
}

// NewUserMessage creates a user-turn message.
func NewUserMessage(content string) Message {
	return NewMessage(RoleUser, content)
}

// NewModelMessage creates a model-turn message.
func NewModelMessage(content string) Message {
	return NewMessage(RoleModel, content)
}

// IsUser reports whether the message is a user turn.
func (m Message) IsUser() bool {
	return m.Role == RoleUser
}

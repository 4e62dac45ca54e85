// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package chat

import (
	"github.com/jeranaias/sahayak-tui/internal/auth"
	"github.com/jeranaias/sahayak-tui/internal/model"
)

// =============================================================================
// ASYNC RESULT MESSAGES
// =============================================================================

// sessionsLoadedMsg reports the initial session load.
type sessionsLoadedMsg struct {
	err error
}

// sessionSelectedMsg reports a transcript load after selecting a session.
type sessionSelectedMsg struct {
	sessionID string
	err       error
}

// sessionCreatedMsg reports a new session.
type sessionCreatedMsg struct {
	session model.Session
	err     error
}

// sessionDeletedMsg reports an optimistic delete's outcome.
type sessionDeletedMsg struct {
	sessionID string
	err       error
}

// turnStagedMsg reports that the user turn was appended (or that staging
// failed) so the transcript can show it before the answer arrives.
type turnStagedMsg struct {
	prompt string
	err    error
}

// sendResultMsg reports a completed send. speakErr is a voice-output
// failure on an otherwise successful turn.
type sendResultMsg struct {
	reply    model.Message
	speakErr error
	err      error
}

// thoughtMsg carries the daily thought (or its fallback).
type thoughtMsg struct {
	thought string
}

// speakDoneMsg reports a finished read-aloud of the last reply.
type speakDoneMsg struct {
	err error
}

// transcriptionMsg carries transcribed voice input.
type transcriptionMsg struct {
	text string
	err  error
}

// userChangedMsg reports that another process logged in or out.
type userChangedMsg struct {
	change auth.Change
	ok     bool
}

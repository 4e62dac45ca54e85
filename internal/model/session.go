// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// =============================================================================
// SESSION TYPE
// =============================================================================

// sessionNamePrefixLen is how many characters of the session ID appear in
// the derived display name.
const sessionNamePrefixLen = 8

// Session is a conversation thread created and owned by the backend.
// The client only mirrors it: the ID is opaque and the display name is
// derived deterministically from the ID prefix.
type Session struct {
	ID string `json:"id"`
	// LastUpdate is the backend's lastUpdateTime, a unix timestamp in
	// seconds with a fractional part. Listings are sorted by it descending.
	LastUpdate float64 `json:"lastUpdateTime"`
	Name       string  `json:"-"`
}

// NewSession builds a client-side mirror of a backend session.
func NewSession(id string) Session {
	return Session{ID: id, Name: SessionName(id)}
}

// SessionName derives the display name for a session ID.
func SessionName(id string) string {
	if len(id) > sessionNamePrefixLen {
		return "Session " + id[:sessionNamePrefixLen] + "..."
	}
	return "Session " + id
}

// =============================================================================
// ATTACHMENT TYPE
// =============================================================================

// Attachment is a staged file reference, held only between selection and a
// successful upload. It is cleared on send or explicit removal.
type Attachment struct {
	// Path is the local filesystem path of the staged file.
	Path string
	// Name is the base name shown in the UI and sent as the multipart
	// filename.
	Name string
}

// IsZero reports whether no attachment is staged.
func (a Attachment) IsZero() bool {
	return a.Path == "" && a.Name == ""
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

import (
	"encoding/json"
	"testing"
)

func TestSessionName(t *testing.T) {
	tests := []struct {
		name string
		id   string
		want string
	}{
		{"long id truncated", "abcdef1234567890", "Session abcdef12..."},
		{"short id kept whole", "abc", "Session abc"},
		{"exactly prefix length", "12345678", "Session 12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SessionName(tt.id); got != tt.want {
				t.Errorf("SessionName(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestNewMessage(t *testing.T) {
	m := NewUserMessage("hello")
	if m.ID == "" {
		t.Error("message ID should be generated")
	}
	if m.Role != RoleUser {
		t.Errorf("Role = %v, want %v", m.Role, RoleUser)
	}
	if m.Timestamp.IsZero() {
		t.Error("Timestamp should be set")
	}

	other := NewUserMessage("hello")
	if other.ID == m.ID {
		t.Error("message IDs should be unique")
	}
}

func TestMessageWireFormat(t *testing.T) {
	// The backend uses "message", not "content", for the text field, and
	// client-side bookkeeping must stay off the wire.
	data, err := json.Marshal(NewModelMessage("hi there"))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var wire map[string]any
	if err := json.Unmarshal(data, &wire); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if wire["message"] != "hi there" {
		t.Errorf("wire message = %v, want %q", wire["message"], "hi there")
	}
	if wire["role"] != "model" {
		t.Errorf("wire role = %v, want %q", wire["role"], "model")
	}
	if _, ok := wire["id"]; ok {
		t.Error("client-side ID must not be serialized")
	}
}

func TestRoleValid(t *testing.T) {
	if !RoleUser.Valid() || !RoleModel.Valid() {
		t.Error("user and model roles should be valid")
	}
	if Role("assistant").Valid() {
		t.Error("unknown role should be invalid")
	}
}

func TestAttachmentIsZero(t *testing.T) {
	var a Attachment
	if !a.IsZero() {
		t.Error("zero attachment should report IsZero")
	}
	a = Attachment{Path: "/tmp/worksheet.pdf", Name: "worksheet.pdf"}
	if a.IsZero() {
		t.Error("staged attachment should not report IsZero")
	}
}

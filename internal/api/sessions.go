// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"net/url"
	"sort"

	"github.com/jeranaias/sahayak-tui/internal/model"
)

// SessionsResult is the response of the session listing endpoint.
//
// The backend guarantees at least one session exists (it creates one for a
// new user) and embeds the messages of the most recent session so the
// client can skip a follow-up fetch for the common case. HasMessages
// distinguishes "embedded empty transcript" from "not embedded": a listing
// with a sessions array always embeds, even when the transcript is empty.
type SessionsResult struct {
	Sessions    []model.Session
	Messages    []model.Message
	HasMessages bool
}

type sessionsResponse struct {
	Sessions []model.Session `json:"sessions"`
	Messages []wireMessage   `json:"messages"`
}

// wireMessage is a transcript entry as the backend sends it.
type wireMessage struct {
	Role    string `json:"role"`
	Message string `json:"message"`
}

func (w wireMessage) toModel() model.Message {
	role := model.Role(w.Role)
	if !role.Valid() {
		role = model.RoleModel
	}
	return model.NewMessage(role, w.Message)
}

func toModelMessages(wire []wireMessage) []model.Message {
	out := make([]model.Message, 0, len(wire))
	for _, w := range wire {
		out = append(out, w.toModel())
	}
	return out
}

// Sessions lists the user's sessions, most recently updated first, along
// with the embedded transcript of the newest session.
func (c *Client) Sessions(ctx context.Context, userID string) (*SessionsResult, error) {
	q := url.Values{"user_id": {userID}}
	var resp sessionsResponse
	if err := c.get(ctx, "/get_sessions", q, &resp); err != nil {
		return nil, err
	}

	sessions := resp.Sessions
	sort.SliceStable(sessions, func(i, j int) bool {
		return sessions[i].LastUpdate > sessions[j].LastUpdate
	})
	for i := range sessions {
		sessions[i].Name = model.SessionName(sessions[i].ID)
	}

	return &SessionsResult{
		Sessions:    sessions,
		Messages:    toModelMessages(resp.Messages),
		HasMessages: resp.Sessions != nil,
	}, nil
}

// CreateSession creates a new session for the user and returns it.
func (c *Client) CreateSession(ctx context.Context, userID string) (model.Session, error) {
	q := url.Values{"user_id": {userID}}
	var resp struct {
		SessionID string `json:"session_id"`
	}
	if err := c.send(ctx, "POST", "/create_session", q, &resp); err != nil {
		return model.Session{}, err
	}
	return model.NewSession(resp.SessionID), nil
}

// DeleteSession removes a session. The backend replies 200 with a status
// message even for unknown sessions, so only transport and HTTP errors
// surface here.
func (c *Client) DeleteSession(ctx context.Context, userID, sessionID string) error {
	q := url.Values{"user_id": {userID}, "session_id": {sessionID}}
	return c.send(ctx, "DELETE", "/delete_session", q, nil)
}

// SessionMessages fetches the full transcript of one session.
func (c *Client) SessionMessages(ctx context.Context, userID, sessionID string) ([]model.Message, error) {
	q := url.Values{"user_id": {userID}, "session_id": {sessionID}}
	var resp struct {
		Messages []wireMessage `json:"messages"`
	}
	if err := c.get(ctx, "/get_session_message", q, &resp); err != nil {
		return nil, err
	}
	return toModelMessages(resp.Messages), nil
}

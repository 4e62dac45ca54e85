// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// AnswerRequest is the body of the answer generation endpoint. The field
// names are the backend's wire contract.
type AnswerRequest struct {
	UserID             string `json:"user_id"`
	SessionID          string `json:"session_id"`
	Message            string `json:"message"`
	AttachmentFilename string `json:"attachment_filename,omitempty"`
	TargetGradeList    []int  `json:"target_grade_list"`
	ResponseTone       string `json:"response_tone"`
	Complexity         string `json:"complexity"`
}

// Answer sends a message to the assistant and returns the reply text.
func (c *Client) Answer(ctx context.Context, req AnswerRequest) (string, error) {
	if req.TargetGradeList == nil {
		req.TargetGradeList = []int{}
	}
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.postJSON(ctx, "/get_answer", req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.Message) == "" {
		return "", ErrEmptyAnswer
	}
	return resp.Message, nil
}

// =============================================================================
// THOUGHT OF THE DAY
// =============================================================================

const (
	// thoughtUserID is the dedicated account the daily thought runs under,
	// keeping it out of any real user's session list.
	thoughtUserID = "thought-of-day"

	// thoughtTimeout bounds the whole fetch. The dashboard shows a default
	// quote instead of waiting longer.
	thoughtTimeout = 10 * time.Second

	// DefaultThought is shown when the backend cannot produce one in time.
	DefaultThought = `"The beautiful thing about learning is that nobody can take it away from you." - B.B. King`
)

// ThoughtOfTheDay asks the assistant for a short inspirational quote,
// localized to the given state when one is set. Any failure, including
// timeout, falls back to DefaultThought; the error is returned alongside
// so the caller can log it.
func (c *Client) ThoughtOfTheDay(ctx context.Context, state string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, thoughtTimeout)
	defer cancel()

	sessionID, err := c.thoughtSession(ctx)
	if err != nil {
		return DefaultThought, err
	}

	location := "India"
	if state != "" {
		location = state + ", India"
	}

	thought, err := c.Answer(ctx, AnswerRequest{
		UserID:          thoughtUserID,
		SessionID:       sessionID,
		Message:         fmt.Sprintf("Give me thought of the day. I'm from %s.", location),
		TargetGradeList: []int{},
		ResponseTone:    "inspirational",
		Complexity:      "simple",
	})
	if err != nil {
		return DefaultThought, err
	}
	return thought, nil
}

// thoughtSession reuses the dedicated account's newest session, creating
// one only when none exists.
func (c *Client) thoughtSession(ctx context.Context) (string, error) {
	result, err := c.Sessions(ctx, thoughtUserID)
	if err == nil && len(result.Sessions) > 0 {
		return result.Sessions[0].ID, nil
	}
	if err != nil {
		// Listing failed outright. Creating may still work.
		created, cerr := c.CreateSession(ctx, thoughtUserID)
		if cerr != nil {
			return "", err
		}
		return created.ID, nil
	}
	created, err := c.CreateSession(ctx, thoughtUserID)
	if err != nil {
		return "", err
	}
	return created.ID, nil
}

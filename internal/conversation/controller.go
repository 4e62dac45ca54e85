// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package conversation drives the send flow: staged attachments, the
// optimistic user turn, answer generation with the current teaching
// settings, and optional spoken replies. One send runs at a time.
package conversation

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jeranaias/sahayak-tui/internal/api"
	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/model"
	"github.com/jeranaias/sahayak-tui/internal/session"
)

// Answerer is the answer-generation surface. *api.Client satisfies it.
type Answerer interface {
	Answer(ctx context.Context, req api.AnswerRequest) (string, error)
	UploadFile(ctx context.Context, userID, sessionID, path string) (string, error)
}

// Speaker synthesizes replies. *speech.Client satisfies it.
type Speaker interface {
	Synthesize(ctx context.Context, text string) ([]byte, error)
	IsConfigured() bool
}

// Player plays synthesized audio. *audio.Player satisfies it.
type Player interface {
	Play(ctx context.Context, wav []byte) error
}

// Errors the send flow can return.
var (
	ErrNothingToSend = errors.New("nothing to send")
	ErrSendInFlight  = errors.New("a send is already in progress")
	ErrNoPendingTurn = errors.New("no turn in progress")

	// ErrVoiceUnavailable means no configured speaker or player.
	ErrVoiceUnavailable = errors.New("voice output is not available")
	// ErrNothingToSpeak means the transcript has no model reply yet.
	ErrNothingToSpeak = errors.New("no reply to speak")
)

// TurnResult is one completed send. SpeakErr reports a voice-output
// failure; the appended reply stands regardless.
type TurnResult struct {
	Reply    model.Message
	SpeakErr error
}

// pendingTurn carries the staged request between Begin and Await.
type pendingTurn struct {
	userID       string
	sessionID    string
	outgoing     string
	uploadedName string
}

// Controller owns the input line, the staged attachment, and the send
// state machine for the active session.
type Controller struct {
	api      Answerer
	sessions *session.Manager
	settings *config.Store
	speaker  Speaker
	player   Player

	mu         sync.Mutex
	input      string
	attachment model.Attachment
	sending    bool
	pending    pendingTurn
}

// NewController wires the send flow together. speaker and player may be
// nil; voice output is then silently skipped.
func NewController(a Answerer, sessions *session.Manager, settings *config.Store, speaker Speaker, player Player) *Controller {
	return &Controller{
		api:      a,
		sessions: sessions,
		settings: settings,
		speaker:  speaker,
		player:   player,
	}
}

// =============================================================================
// INPUT AND ATTACHMENT STATE
// =============================================================================

// SetInput replaces the draft input line.
func (c *Controller) SetInput(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.input = text
}

// Input returns the draft input line.
func (c *Controller) Input() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.input
}

// AppendInput appends transcribed or typed text to the draft, separating
// it from existing content with a space.
func (c *Controller) AppendInput(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.input == "" {
		c.input = text
		return
	}
	c.input = strings.TrimRight(c.input, " ") + " " + text
}

// Attach stages a local file for the next send, replacing any previous
// staged file.
func (c *Controller) Attach(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = model.Attachment{Path: path, Name: filepath.Base(path)}
}

// Attachment returns the staged attachment, zero when none.
func (c *Controller) Attachment() model.Attachment {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.attachment
}

// ClearAttachment unstages the attachment.
func (c *Controller) ClearAttachment() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.attachment = model.Attachment{}
}

// Sending reports whether a send is in flight.
func (c *Controller) Sending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sending
}

// =============================================================================
// SEND FLOW
// =============================================================================

// Begin stages one turn against the active session:
//
//  1. Reject when nothing is staged or a send is already running.
//  2. Upload the staged attachment first. An upload failure aborts the
//     send with nothing appended and the attachment still staged.
//  3. Append the user turn optimistically and clear input + attachment.
//
// The appended user message is returned so the caller can render it
// right away. Await completes the turn.
func (c *Controller) Begin(ctx context.Context) (model.Message, error) {
	c.mu.Lock()
	if c.sending {
		c.mu.Unlock()
		return model.Message{}, ErrSendInFlight
	}
	input := strings.TrimSpace(c.input)
	attachment := c.attachment
	if input == "" && attachment.IsZero() {
		c.mu.Unlock()
		return model.Message{}, ErrNothingToSend
	}
	c.sending = true
	c.mu.Unlock()

	staged := false
	defer func() {
		if !staged {
			c.mu.Lock()
			c.sending = false
			c.mu.Unlock()
		}
	}()

	sessionID := c.sessions.ActiveID()
	if sessionID == "" {
		return model.Message{}, session.ErrNoActiveSession
	}
	userID := c.sessions.UserID()

	var uploadedName string
	if !attachment.IsZero() {
		name, err := c.api.UploadFile(ctx, userID, sessionID, attachment.Path)
		if err != nil {
			// Attachment stays staged for a retry.
			return model.Message{}, fmt.Errorf("upload attachment: %w", err)
		}
		uploadedName = name
	}

	outgoing := input
	if outgoing == "" {
		outgoing = "Attached: " + attachment.Name
	}

	userMsg := model.NewUserMessage(outgoing)
	c.sessions.Append(userMsg)
	c.mu.Lock()
	c.input = ""
	c.attachment = model.Attachment{}
	c.pending = pendingTurn{
		userID:       userID,
		sessionID:    sessionID,
		outgoing:     outgoing,
		uploadedName: uploadedName,
	}
	c.mu.Unlock()
	staged = true
	return userMsg, nil
}

// Await completes the turn Begin staged:
//
//  1. Ask for the answer with the current teaching settings.
//  2. On failure, unwind the optimistic append.
//  3. On success, speak the reply when voice output is on; a playback
//     failure is reported in the result but never reverts the transcript.
func (c *Controller) Await(ctx context.Context) (TurnResult, error) {
	c.mu.Lock()
	if !c.sending {
		c.mu.Unlock()
		return TurnResult{}, ErrNoPendingTurn
	}
	turn := c.pending
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.sending = false
		c.pending = pendingTurn{}
		c.mu.Unlock()
	}()

	chat := c.settings.Chat()
	replyText, err := c.api.Answer(ctx, api.AnswerRequest{
		UserID:             turn.userID,
		SessionID:          turn.sessionID,
		Message:            turn.outgoing,
		AttachmentFilename: turn.uploadedName,
		TargetGradeList:    chat.TargetGrades,
		ResponseTone:       chat.Tone,
		Complexity:         chat.Complexity,
	})
	if err != nil {
		c.rollback()
		return TurnResult{}, fmt.Errorf("get answer: %w", err)
	}

	reply := model.NewModelMessage(replyText)
	c.sessions.Append(reply)

	res := TurnResult{Reply: reply}
	if chat.VoiceOutput {
		res.SpeakErr = c.speak(ctx, replyText)
	}
	return res, nil
}

// Send runs Begin and Await back to back for callers that render the
// whole turn at once.
func (c *Controller) Send(ctx context.Context) (TurnResult, error) {
	if _, err := c.Begin(ctx); err != nil {
		return TurnResult{}, err
	}
	return c.Await(ctx)
}

// rollback unwinds an optimistic send: the model reply if one slipped in,
// otherwise the user turn.
func (c *Controller) rollback() {
	if last, ok := c.sessions.LastMessage(); ok && last.Role == model.RoleModel {
		c.sessions.RemoveLast(model.RoleModel)
		return
	}
	c.sessions.RemoveLast(model.RoleUser)
}

// SpeakLast reads the newest model reply aloud.
func (c *Controller) SpeakLast(ctx context.Context) error {
	if c.speaker == nil || c.player == nil || !c.speaker.IsConfigured() {
		return ErrVoiceUnavailable
	}
	last, ok := c.sessions.LastMessage()
	if !ok || last.Role != model.RoleModel {
		return ErrNothingToSpeak
	}
	wav, err := c.speaker.Synthesize(ctx, last.Content)
	if err != nil {
		return fmt.Errorf("synthesize reply: %w", err)
	}
	if err := c.player.Play(ctx, wav); err != nil {
		return fmt.Errorf("play reply: %w", err)
	}
	return nil
}

// speak synthesizes and plays the reply. The transcript already holds
// the answer, so the error is returned for reporting only.
func (c *Controller) speak(ctx context.Context, text string) error {
	if c.speaker == nil || c.player == nil || !c.speaker.IsConfigured() {
		return nil
	}
	wav, err := c.speaker.Synthesize(ctx, text)
	if err != nil {
		return fmt.Errorf("synthesize reply: %w", err)
	}
	if err := c.player.Play(ctx, wav); err != nil {
		return fmt.Errorf("play reply: %w", err)
	}
	return nil
}

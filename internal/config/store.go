// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"log"
	"sort"
	"sync"
)

// ChatUpdate is a partial update to the chat settings. Nil fields are
// left unchanged.
type ChatUpdate struct {
	State        *string
	Language     *string
	TargetGrades *[]int
	Tone         *string
	Complexity   *string
	VoiceOutput  *bool
}

// Observer receives the full chat settings after every committed update.
type Observer func(ChatConfig)

// Store owns the chat settings and their persistence. Updates are applied
// in memory first and broadcast synchronously to observers; the disk write
// happens afterwards and a failure there is logged but never rolls back
// the in-memory state.
type Store struct {
	mu        sync.RWMutex
	cfg       *Config
	observers []Observer
}

// NewStore wraps an already-loaded Config.
func NewStore(cfg *Config) *Store {
	if cfg == nil {
		cfg = Default()
	}
	return &Store{cfg: cfg}
}

// OpenStore loads configuration from disk and wraps it in a Store.
// Load errors are logged and the caller proceeds with whatever Load
// returned, the parsed file when only validation failed.
func OpenStore() *Store {
	cfg, err := Load()
	if err != nil {
		log.Printf("config: load: %v", err)
	}
	return NewStore(cfg)
}

// Chat returns a copy of the current chat settings.
func (s *Store) Chat() ChatConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneChat(s.cfg.Chat)
}

// Config returns a copy of the full configuration.
func (s *Store) Config() Config {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := *s.cfg
	out.Chat = cloneChat(s.cfg.Chat)
	return out
}

// Subscribe registers an observer that is called synchronously, with the
// store unlocked, after each committed chat update. It returns a cancel
// function.
func (s *Store) Subscribe(fn Observer) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, fn)
	idx := len(s.observers) - 1
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if idx < len(s.observers) {
			s.observers[idx] = nil
		}
	}
}

// UpdateChat merges a partial update into the chat settings.
//
// When the update sets a new state, does not itself choose a language, and
// the state actually changed, the language is re-derived from the state's
// primary classroom language. An explicit language in the same update
// always wins over derivation.
func (s *Store) UpdateChat(u ChatUpdate) ChatConfig {
	s.mu.Lock()

	prev := s.cfg.Chat
	next := cloneChat(prev)

	if u.State != nil {
		next.State = *u.State
	}
	if u.Language != nil {
		next.Language = *u.Language
	}
	if u.TargetGrades != nil {
		next.TargetGrades = normalizeGrades(*u.TargetGrades)
	}
	if u.Tone != nil {
		next.Tone = *u.Tone
	}
	if u.Complexity != nil {
		next.Complexity = *u.Complexity
	}
	if u.VoiceOutput != nil {
		next.VoiceOutput = *u.VoiceOutput
	}

	if u.State != nil && u.Language == nil && *u.State != prev.State {
		if lang := LanguageForState(*u.State); lang != "" {
			next.Language = lang
		}
	}

	s.cfg.Chat = next
	observers := make([]Observer, len(s.observers))
	copy(observers, s.observers)
	snapshot := cloneChat(next)
	cfg := *s.cfg
	s.mu.Unlock()

	for _, fn := range observers {
		if fn != nil {
			fn(cloneChat(snapshot))
		}
	}

	if err := cfg.Save(); err != nil {
		log.Printf("config: persist failed: %v", err)
	}
	return snapshot
}

// SetVoiceOutput toggles spoken replies.
func (s *Store) SetVoiceOutput(on bool) ChatConfig {
	return s.UpdateChat(ChatUpdate{VoiceOutput: &on})
}

func cloneChat(c ChatConfig) ChatConfig {
	out := c
	out.TargetGrades = append([]int(nil), c.TargetGrades...)
	if out.TargetGrades == nil {
		out.TargetGrades = []int{}
	}
	return out
}

// normalizeGrades sorts, deduplicates, and clamps grades to the 1-10 range.
func normalizeGrades(grades []int) []int {
	seen := make(map[int]bool, len(grades))
	out := make([]int, 0, len(grades))
	for _, g := range grades {
		if g < 1 || g > 10 || seen[g] {
			continue
		}
		seen[g] = true
		out = append(out, g)
	}
	sort.Ints(out)
	return out
}

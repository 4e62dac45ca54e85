// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package auth manages the local user record and the two ways it gets
// created: an interactive terminal login and an identity-provider
// callback. The record lives at ~/.sahayak/user.json; other processes
// observe changes to it through a filesystem watcher.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jeranaias/sahayak-tui/internal/util"
)

// userFileName is the record's file name inside the config directory.
const userFileName = "user.json"

// ErrNotLoggedIn indicates no user record exists.
var ErrNotLoggedIn = errors.New("not logged in")

// User is the locally stored identity. Field names match the record the
// web frontend kept, so the two can share a backend account.
type User struct {
	UserID  string `json:"userId"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
	IsAdmin bool   `json:"isAdmin"`

	// LoginTime is when this record was written.
	LoginTime time.Time `json:"loginTime,omitempty"`
}

// DisplayName returns the best human-readable name for the user.
func (u User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.UserID
}

// Store reads and writes the user record.
type Store struct {
	dir string
}

// NewStore creates a store rooted at the given config directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// DefaultStore roots the store at ~/.sahayak, creating the directory.
func DefaultStore() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, ".sahayak")
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("cannot create config directory: %w", err)
	}
	return NewStore(dir), nil
}

// Path returns the user record's path.
func (s *Store) Path() string {
	return filepath.Join(s.dir, userFileName)
}

// Load reads the current user record. ErrNotLoggedIn when none exists.
func (s *Store) Load() (User, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return User{}, ErrNotLoggedIn
		}
		return User{}, fmt.Errorf("read user record: %w", err)
	}
	var u User
	if err := json.Unmarshal(data, &u); err != nil {
		return User{}, fmt.Errorf("parse user record: %w", err)
	}
	if u.UserID == "" {
		return User{}, ErrNotLoggedIn
	}
	return u, nil
}

// Save writes the user record atomically with owner-only permissions.
func (s *Store) Save(u User) error {
	if u.UserID == "" {
		return errors.New("user id required")
	}
	if u.LoginTime.IsZero() {
		u.LoginTime = time.Now()
	}
	data, err := json.MarshalIndent(u, "", "  ")
	if err != nil {
		return fmt.Errorf("encode user record: %w", err)
	}
	if err := util.AtomicWriteFile(s.Path(), data, 0600); err != nil {
		return fmt.Errorf("write user record: %w", err)
	}
	return nil
}

// Clear removes the user record. Missing is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.Path())
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove user record: %w", err)
	}
	return nil
}

// LoggedIn reports whether a valid record exists.
func (s *Store) LoggedIn() bool {
	_, err := s.Load()
	return err == nil
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

func TestStoreRoundTrip(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Load(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("Load on empty store = %v, want ErrNotLoggedIn", err)
	}
	if s.LoggedIn() {
		t.Error("LoggedIn true on empty store")
	}

	u := User{UserID: "teacher@example.com", Name: "Asha", IsAdmin: true}
	if err := s.Save(u); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(s.Path())
	if err != nil {
		t.Fatalf("stat record: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("record perms = %o, want 0600", info.Mode().Perm())
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.UserID != u.UserID || got.Name != u.Name || !got.IsAdmin {
		t.Errorf("loaded = %+v", got)
	}
	if got.LoginTime.IsZero() {
		t.Error("login time not stamped")
	}

	if err := s.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if s.LoggedIn() {
		t.Error("still logged in after Clear")
	}
	if err := s.Clear(); err != nil {
		t.Errorf("second Clear should be a no-op: %v", err)
	}
}

func TestLoginValidation(t *testing.T) {
	s := NewStore(t.TempDir())

	if _, err := s.Login("", "pw", false); !errors.Is(err, ErrEmptyCredentials) {
		t.Errorf("empty user id: %v", err)
	}
	if _, err := s.Login("u", "", false); !errors.Is(err, ErrEmptyCredentials) {
		t.Errorf("empty password: %v", err)
	}
	if _, err := s.Login("   ", "pw", false); !errors.Is(err, ErrEmptyCredentials) {
		t.Errorf("whitespace user id: %v", err)
	}

	u, err := s.Login("teacher-7", "secret", true)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if u.UserID != "teacher-7" || !u.IsAdmin {
		t.Errorf("user = %+v", u)
	}

	// The password must never reach disk.
	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "secret") {
		t.Error("password persisted to the user record")
	}
}

func TestPromptLoginFromPipe(t *testing.T) {
	s := NewStore(t.TempDir())
	in := strings.NewReader("teacher-9\nhunter2\n")
	var out strings.Builder

	u, err := s.PromptLogin(in, &out, false)
	if err != nil {
		t.Fatalf("PromptLogin: %v", err)
	}
	if u.UserID != "teacher-9" {
		t.Errorf("user id = %q", u.UserID)
	}
	if !strings.Contains(out.String(), "User ID:") {
		t.Errorf("prompt output = %q", out.String())
	}
}

func TestDisplayName(t *testing.T) {
	if got := (User{UserID: "x@y.z", Name: "Asha"}).DisplayName(); got != "Asha" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := (User{UserID: "x@y.z"}).DisplayName(); got != "x@y.z" {
		t.Errorf("DisplayName = %q", got)
	}
}

func TestCallbackConsumedOnce(t *testing.T) {
	s := NewStore(t.TempDir())
	cs, err := NewCallbackServer(s, 0)
	if err != nil {
		t.Fatalf("NewCallbackServer: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type waitResult struct {
		user User
		err  error
	}
	done := make(chan waitResult, 1)
	go func() {
		u, err := cs.Wait(ctx)
		done <- waitResult{u, err}
	}()

	url := cs.URL() + "?email=t%40e.x&name=Asha&picture=http%3A%2F%2Fpic"

	// Incomplete parameters are rejected without consuming the callback.
	resp, err := http.Get(cs.URL() + "?email=only")
	if err != nil {
		t.Fatalf("incomplete get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("incomplete status = %d", resp.StatusCode)
	}

	resp, err = http.Get(url)
	if err != nil {
		t.Fatalf("callback get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("callback status = %d", resp.StatusCode)
	}

	result := <-done
	if result.err != nil {
		t.Fatalf("Wait: %v", result.err)
	}
	if result.user.UserID != "t@e.x" || result.user.Name != "Asha" {
		t.Errorf("user = %+v", result.user)
	}

	loaded, err := s.Load()
	if err != nil || loaded.UserID != "t@e.x" {
		t.Errorf("record not written: %+v, %v", loaded, err)
	}
	if loaded.IsAdmin {
		t.Error("callback login must not grant admin")
	}
}

func TestWatchSeesLoginAndLogout(t *testing.T) {
	s := NewStore(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx)
	if err != nil {
		t.Fatalf("Watch: %v", err)
	}

	if err := s.Save(User{UserID: "teacher-1"}); err != nil {
		t.Fatal(err)
	}

	select {
	case change := <-ch:
		if !change.LoggedIn || change.User.UserID != "teacher-1" {
			t.Errorf("change = %+v", change)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change after login")
	}

	if err := s.Clear(); err != nil {
		t.Fatal(err)
	}
	select {
	case change := <-ch:
		if change.LoggedIn {
			t.Errorf("logout change reports logged in: %+v", change)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change after logout")
	}
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package history

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRecordAndRecent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	for _, p := range []string{"first prompt", "second prompt", "third prompt"} {
		if _, err := s.Record(ctx, "u1", "s1", p); err != nil {
			t.Fatalf("Record(%q): %v", p, err)
		}
	}
	s.Record(ctx, "u2", "s9", "someone else's prompt")

	entries, err := s.Recent(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("got %d entries", len(entries))
	}
	if entries[0].Title != "third prompt" {
		t.Errorf("newest first violated: %q", entries[0].Title)
	}
	for _, e := range entries {
		if e.UserID != "u1" {
			t.Errorf("foreign entry leaked: %+v", e)
		}
	}
}

func TestRecordFlattensTitle(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, err := s.Record(ctx, "u", "s", "multi line prompt\nsecond line")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == 0 {
		t.Error("id = 0")
	}

	entries, _ := s.Recent(ctx, "u", 1)
	if entries[0].Title != "multi line prompt second line" {
		t.Errorf("title = %q", entries[0].Title)
	}

	if _, err := s.Record(ctx, "u", "s", "   \n"); err == nil {
		t.Error("empty prompt should be rejected")
	}
}

func TestRecordTruncatesOnRuneBoundary(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	// 150 three-byte runes: a byte slice at the limit would split one.
	long := strings.Repeat("क", 150)
	if _, err := s.Record(ctx, "u", "s", long); err != nil {
		t.Fatalf("Record: %v", err)
	}

	entries, _ := s.Recent(ctx, "u", 1)
	title := entries[0].Title
	if !utf8.ValidString(title) {
		t.Errorf("title is not valid UTF-8: %q", title)
	}
	if n := utf8.RuneCountInString(title); n != titleLimit {
		t.Errorf("title runes = %d, want %d", n, titleLimit)
	}
	if !strings.HasSuffix(title, "...") {
		t.Errorf("long title not marked truncated: %q", title)
	}
}

func TestStarring(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id1, _ := s.Record(ctx, "u", "s", "plain")
	id2, _ := s.Record(ctx, "u", "s", "important")

	if err := s.SetStarred(ctx, id2, true); err != nil {
		t.Fatalf("SetStarred: %v", err)
	}

	starred, err := s.Starred(ctx, "u")
	if err != nil {
		t.Fatalf("Starred: %v", err)
	}
	if len(starred) != 1 || starred[0].ID != id2 {
		t.Errorf("starred = %+v", starred)
	}

	if err := s.SetStarred(ctx, id2, false); err != nil {
		t.Fatal(err)
	}
	starred, _ = s.Starred(ctx, "u")
	if len(starred) != 0 {
		t.Errorf("unstar failed: %+v", starred)
	}

	if err := s.SetStarred(ctx, 99999, true); !errors.Is(err, ErrNotFound) {
		t.Errorf("unknown id err = %v", err)
	}
	_ = id1
}

func TestSearch(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	s.Record(ctx, "u", "s", "Lesson plan for Grade 5 science")
	s.Record(ctx, "u", "s", "Math worksheet generator")
	s.Record(ctx, "u", "s", "100% effort grading rubric")

	got, err := s.Search(ctx, "u", "lesson", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 || !strings.Contains(got[0].Title, "Lesson") {
		t.Errorf("search = %+v", got)
	}

	// LIKE metacharacters are literals.
	got, err = s.Search(ctx, "u", "100%", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("escaped search = %+v", got)
	}
}

func TestDeleteAndDeleteSession(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	id, _ := s.Record(ctx, "u", "doomed", "one")
	s.Record(ctx, "u", "doomed", "two")
	s.Record(ctx, "u", "kept", "three")

	if err := s.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("double delete err = %v", err)
	}

	if err := s.DeleteSession(ctx, "doomed"); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}
	entries, _ := s.Recent(ctx, "u", 10)
	if len(entries) != 1 || entries[0].SessionID != "kept" {
		t.Errorf("entries = %+v", entries)
	}
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package history keeps a local record of past prompts so the dashboard
// can show recent and starred activity without a backend round trip.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/jeranaias/sahayak-tui/internal/util"
)

// ErrNotFound indicates the entry does not exist.
var ErrNotFound = errors.New("history entry not found")

// Entry is one recorded prompt.
type Entry struct {
	ID        int64
	UserID    string
	SessionID string
	Title     string
	Starred   bool
	CreatedAt time.Time
}

// Store is the history database.
type Store struct {
	db *sql.DB
}

// DefaultPath returns ~/.sahayak/history.db.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".sahayak", "history.db"), nil
}

// Open opens (and if needed creates) the history database.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("set pragma: %w", err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS prompts (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id    TEXT NOT NULL,
		session_id TEXT NOT NULL,
		title      TEXT NOT NULL,
		starred    INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_prompts_user_time ON prompts(user_id, created_at DESC);
	CREATE INDEX IF NOT EXISTS idx_prompts_starred ON prompts(user_id, starred);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// titleLimit keeps dashboard titles to one line.
const titleLimit = 120

// Record stores a prompt. Multi-line prompts are flattened and long ones
// truncated on a rune boundary so the title stays one display line.
func (s *Store) Record(ctx context.Context, userID, sessionID, prompt string) (int64, error) {
	title := strings.TrimSpace(util.Flatten(prompt))
	title = util.TruncateRunes(title, titleLimit)
	if title == "" {
		return 0, errors.New("empty prompt")
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO prompts (user_id, session_id, title, created_at) VALUES (?, ?, ?, ?)`,
		userID, sessionID, title, time.Now().Unix())
	if err != nil {
		return 0, fmt.Errorf("record prompt: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the user's newest entries, most recent first.
func (s *Store) Recent(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, title, starred, created_at
		 FROM prompts WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Starred returns the user's starred entries, most recent first.
func (s *Store) Starred(ctx context.Context, userID string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, title, starred, created_at
		 FROM prompts WHERE user_id = ? AND starred = 1
		 ORDER BY created_at DESC, id DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query starred: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// Search returns entries whose title contains the query, case-insensitive.
func (s *Store) Search(ctx context.Context, userID, query string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, session_id, title, starred, created_at
		 FROM prompts WHERE user_id = ? AND title LIKE ? ESCAPE '\'
		 ORDER BY created_at DESC, id DESC LIMIT ?`, userID, pattern, limit)
	if err != nil {
		return nil, fmt.Errorf("search history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// SetStarred stars or unstars an entry.
func (s *Store) SetStarred(ctx context.Context, id int64, starred bool) error {
	flag := 0
	if starred {
		flag = 1
	}
	res, err := s.db.ExecContext(ctx, `UPDATE prompts SET starred = ? WHERE id = ?`, flag, id)
	if err != nil {
		return fmt.Errorf("update star: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes an entry.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteSession removes every entry recorded against a session, used when
// the session itself is deleted.
func (s *Store) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM prompts WHERE session_id = ?`, sessionID)
	if err != nil {
		return fmt.Errorf("delete session history: %w", err)
	}
	return nil
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var out []Entry
	for rows.Next() {
		var e Entry
		var starred int
		var created int64
		if err := rows.Scan(&e.ID, &e.UserID, &e.SessionID, &e.Title, &starred, &created); err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		e.Starred = starred == 1
		e.CreatedAt = time.Unix(created, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

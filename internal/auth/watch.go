// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Change describes one observed change to the user record. A zero User
// with LoggedIn false means the record was removed (logout).
type Change struct {
	User     User
	LoggedIn bool
}

// Watch observes the user record and sends a Change whenever another
// process logs in or out. The initial state is not sent. Watching stops
// when the context is cancelled.
//
// The watch is on the directory, not the file: the record is written by
// atomic rename, which replaces the inode a file watch would be pinned to.
func (s *Store) Watch(ctx context.Context) (<-chan Change, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := w.Add(s.dir); err != nil {
		w.Close()
		return nil, fmt.Errorf("watch %s: %w", s.dir, err)
	}

	ch := make(chan Change, 1)
	go func() {
		defer w.Close()
		defer close(ch)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != userFileName {
					continue
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) &&
					!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
					continue
				}
				var change Change
				if u, err := s.Load(); err == nil {
					change = Change{User: u, LoggedIn: true}
				}
				select {
				case ch <- change:
				case <-ctx.Done():
					return
				}
			case _, ok := <-w.Errors:
				if !ok {
					return
				}
			}
		}
	}()
	return ch, nil
}

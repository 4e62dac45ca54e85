// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"
)

// ErrCallbackTimeout indicates no identity callback arrived in time.
var ErrCallbackTimeout = errors.New("identity callback timed out")

const callbackPage = `<!DOCTYPE html>
<html><head><title>Sahayak</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
<h2>Signed in</h2>
<p>You can close this tab and return to the terminal.</p>
</body></html>`

// CallbackServer is a loopback HTTP listener that accepts one identity
// redirect. The provider redirects to it with email, name, and picture
// query parameters; the first complete set is consumed, written as the
// user record, and every later hit gets 410 Gone.
type CallbackServer struct {
	store    *Store
	listener net.Listener
	server   *http.Server

	mu       sync.Mutex
	consumed bool
	result   chan User
}

// NewCallbackServer binds a loopback port. Port 0 picks a free one.
func NewCallbackServer(store *Store, port int) (*CallbackServer, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		return nil, fmt.Errorf("bind callback listener: %w", err)
	}
	cs := &CallbackServer{
		store:    store,
		listener: ln,
		result:   make(chan User, 1),
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/callback", cs.handle)
	cs.server = &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	return cs, nil
}

// URL returns the redirect URL the provider must be pointed at.
func (cs *CallbackServer) URL() string {
	return fmt.Sprintf("http://%s/callback", cs.listener.Addr().String())
}

func (cs *CallbackServer) handle(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	email, name, picture := q.Get("email"), q.Get("name"), q.Get("picture")

	cs.mu.Lock()
	if cs.consumed {
		cs.mu.Unlock()
		http.Error(w, "callback already used", http.StatusGone)
		return
	}
	if email == "" || name == "" || picture == "" {
		cs.mu.Unlock()
		http.Error(w, "missing identity parameters", http.StatusBadRequest)
		return
	}
	cs.consumed = true
	cs.mu.Unlock()

	u := User{
		UserID:  email,
		Name:    name,
		Picture: picture,
		IsAdmin: false,
	}
	if err := cs.store.Save(u); err != nil {
		http.Error(w, "could not persist login", http.StatusInternalServerError)
		cs.result <- User{}
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, callbackPage)
	cs.result <- u
}

// Wait serves until one callback is consumed or the context ends, then
// shuts the listener down and returns the logged-in user.
func (cs *CallbackServer) Wait(ctx context.Context) (User, error) {
	errc := make(chan error, 1)
	go func() {
		if err := cs.server.Serve(cs.listener); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		cs.server.Shutdown(shutdownCtx)
	}()

	select {
	case u := <-cs.result:
		if u.UserID == "" {
			return User{}, errors.New("login could not be persisted")
		}
		return u, nil
	case err := <-errc:
		return User{}, fmt.Errorf("callback server: %w", err)
	case <-ctx.Done():
		return User{}, ErrCallbackTimeout
	}
}

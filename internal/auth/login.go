// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package auth

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrEmptyCredentials indicates a blank user id or password.
var ErrEmptyCredentials = errors.New("user id and password are required")

// Login validates credentials and writes the user record. There is no
// server-side account check; the password only gates the local record and
// is never stored.
func (s *Store) Login(userID, password string, admin bool) (User, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" || password == "" {
		return User{}, ErrEmptyCredentials
	}
	u := User{
		UserID:  userID,
		IsAdmin: admin,
	}
	if err := s.Save(u); err != nil {
		return User{}, err
	}
	return u, nil
}

// PromptLogin runs an interactive login on the terminal, reading the
// password without echo.
func (s *Store) PromptLogin(in io.Reader, out io.Writer, admin bool) (User, error) {
	reader := bufio.NewReader(in)

	fmt.Fprint(out, "User ID: ")
	userID, err := reader.ReadString('\n')
	if err != nil {
		return User{}, fmt.Errorf("read user id: %w", err)
	}

	fmt.Fprint(out, "Password: ")
	password, err := readPassword(reader)
	fmt.Fprintln(out)
	if err != nil {
		return User{}, fmt.Errorf("read password: %w", err)
	}

	return s.Login(strings.TrimSpace(userID), password, admin)
}

// readPassword reads without echo when stdin is a terminal, and falls
// back to a plain line read otherwise (pipes, tests).
func readPassword(fallback *bufio.Reader) (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		if err != nil {
			return "", err
		}
		return string(raw), nil
	}
	line, err := fallback.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package components provides UI components for the sahayak TUI.
//
// Toasts are non-blocking notifications in the corner that auto-dismiss,
// so API failures never interrupt typing.
package components

import (
	"strings"
	"sync"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sahayak-tui/internal/ui/styles"
)

// =============================================================================
// TOAST TYPES
// =============================================================================

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastKindStatus is an informational toast
	ToastKindStatus ToastKind = iota
	// ToastKindError is an error toast
	ToastKindError
	// ToastKindWarning is a warning toast
	ToastKindWarning
	// ToastKindSuccess is a success toast
	ToastKindSuccess
)

// DefaultToastDuration is the auto-dismiss duration for status toasts.
const DefaultToastDuration = 4 * time.Second

// ErrorToastDuration is the auto-dismiss duration for error toasts.
const ErrorToastDuration = 8 * time.Second

var toastCounter int64

func nextToastID() int {
	return int(atomic.AddInt64(&toastCounter, 1))
}

// Toast is one notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// NewErrorToast creates an error toast.
func NewErrorToast(message string) Toast {
	return Toast{
		ID:        nextToastID(),
		Message:   message,
		Kind:      ToastKindError,
		CreatedAt: time.Now(),
		Duration:  ErrorToastDuration,
	}
}

// NewSuccessToast creates a success toast.
func NewSuccessToast(message string) Toast {
	return Toast{
		ID:        nextToastID(),
		Message:   message,
		Kind:      ToastKindSuccess,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// NewWarningToast creates a warning toast.
func NewWarningToast(message string) Toast {
	return Toast{
		ID:        nextToastID(),
		Message:   message,
		Kind:      ToastKindWarning,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// NewStatusToast creates an informational toast.
func NewStatusToast(message string) Toast {
	return Toast{
		ID:        nextToastID(),
		Message:   message,
		Kind:      ToastKindStatus,
		CreatedAt: time.Now(),
		Duration:  DefaultToastDuration,
	}
}

// Expired reports whether the toast should be dismissed.
func (t Toast) Expired(now time.Time) bool {
	return now.After(t.CreatedAt.Add(t.Duration))
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastExpiredMsg asks the update loop to sweep expired toasts.
type ToastExpiredMsg struct{}

// maxVisibleToasts bounds how many toasts stack at once.
const maxVisibleToasts = 3

// ToastManager holds the active toasts.
type ToastManager struct {
	mu     sync.Mutex
	toasts []Toast
}

// NewToastManager creates an empty manager.
func NewToastManager() *ToastManager {
	return &ToastManager{}
}

// Push adds a toast and returns the command that triggers its sweep.
func (m *ToastManager) Push(t Toast) tea.Cmd {
	m.mu.Lock()
	m.toasts = append(m.toasts, t)
	if len(m.toasts) > maxVisibleToasts {
		m.toasts = m.toasts[len(m.toasts)-maxVisibleToasts:]
	}
	m.mu.Unlock()
	return tea.Tick(t.Duration, func(time.Time) tea.Msg {
		return ToastExpiredMsg{}
	})
}

// Sweep drops expired toasts.
func (m *ToastManager) Sweep() {
	now := time.Now()
	m.mu.Lock()
	defer m.mu.Unlock()
	kept := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.Expired(now) {
			kept = append(kept, t)
		}
	}
	m.toasts = kept
}

// DismissAll clears every toast.
func (m *ToastManager) DismissAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.toasts = nil
}

// Active reports whether any toast is showing.
func (m *ToastManager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// View renders the toast stack.
func (m *ToastManager) View(theme *styles.Theme) string {
	m.mu.Lock()
	toasts := append([]Toast(nil), m.toasts...)
	m.mu.Unlock()

	if len(toasts) == 0 {
		return ""
	}
	var lines []string
	for _, t := range toasts {
		var style = theme.ToastStatus
		switch t.Kind {
		case ToastKindError:
			style = theme.ToastError
		case ToastKindWarning:
			style = theme.ToastWarning
		case ToastKindSuccess:
			style = theme.ToastSuccess
		}
		lines = append(lines, style.Render(t.Message))
	}
	return strings.Join(lines, "\n")
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jeranaias/sahayak-tui/internal/ui/styles"
)

// Spinner wraps the bubbles spinner with a label for in-flight work.
type Spinner struct {
	inner  spinner.Model
	label  string
	active bool
}

// NewSpinner creates a dot spinner in the theme's accent color.
func NewSpinner(theme *styles.Theme) Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = theme.Spinner
	return Spinner{inner: s}
}

// Start activates the spinner with a label and returns its tick command.
func (s *Spinner) Start(label string) tea.Cmd {
	s.label = label
	s.active = true
	return s.inner.Tick
}

// Stop deactivates the spinner.
func (s *Spinner) Stop() {
	s.active = false
	s.label = ""
}

// Active reports whether the spinner is running.
func (s *Spinner) Active() bool { return s.active }

// Update advances the animation.
func (s *Spinner) Update(msg tea.Msg) tea.Cmd {
	if !s.active {
		return nil
	}
	var cmd tea.Cmd
	s.inner, cmd = s.inner.Update(msg)
	return cmd
}

// View renders the spinner with its label.
func (s *Spinner) View() string {
	if !s.active {
		return ""
	}
	if s.label == "" {
		return s.inner.View()
	}
	return s.inner.View() + " " + s.label
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"
	"sync"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant answers as terminal markdown with
// syntax-highlighted code blocks. Rendering falls back to the raw text on
// any failure so an odd answer never blanks the transcript.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
	dark     bool
}

// NewMarkdownRenderer creates a renderer for the given wrap width.
func NewMarkdownRenderer(width int, dark bool) *MarkdownRenderer {
	m := &MarkdownRenderer{width: width, dark: dark}
	m.rebuild()
	return m
}

func (m *MarkdownRenderer) rebuild() {
	style := glamour.WithStandardStyle("light")
	if m.dark {
		style = glamour.WithStandardStyle("dark")
	}
	r, err := glamour.NewTermRenderer(
		style,
		glamour.WithWordWrap(m.width),
		glamour.WithEmoji(),
	)
	if err != nil {
		r = nil
	}
	m.renderer = r
}

// SetWidth updates the wrap width, rebuilding the renderer when needed.
func (m *MarkdownRenderer) SetWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width {
		return
	}
	m.width = width
	m.rebuild()
}

// Render converts markdown to styled terminal text.
func (m *MarkdownRenderer) Render(markdown string) string {
	m.mu.Lock()
	r := m.renderer
	m.mu.Unlock()

	if r == nil {
		return markdown
	}
	out, err := r.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.TrimRight(out, "\n")
}

// HighlightCode renders a standalone code snippet with chroma, used for
// code the user pastes outside of a markdown answer.
func HighlightCode(code, language string, dark bool) string {
	theme := "github"
	if dark {
		theme = "monokai"
	}
	var sb strings.Builder
	if err := quick.Highlight(&sb, code, language, "terminal256", theme); err != nil {
		return code
	}
	return sb.String()
}

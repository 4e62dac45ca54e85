// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Theme holds the styled components for the application. It detects the
// terminal's color capability and adjusts accordingly.
type Theme struct {
	IsDark       bool
	ColorProfile termenv.Profile

	Width  int
	Height int

	// Application container
	App    lipgloss.Style
	Header lipgloss.Style
	Brand  lipgloss.Style

	// Transcript bubbles
	UserBubble  lipgloss.Style
	UserLabel   lipgloss.Style
	ModelBubble lipgloss.Style
	ModelLabel  lipgloss.Style
	Timestamp   lipgloss.Style

	// Sidebar (session list)
	Sidebar         lipgloss.Style
	SidebarTitle    lipgloss.Style
	SessionItem     lipgloss.Style
	SessionSelected lipgloss.Style

	// Input area
	InputContainer lipgloss.Style
	InputPrompt    lipgloss.Style
	Placeholder    lipgloss.Style
	AttachmentChip lipgloss.Style

	// Status bar
	StatusBar    lipgloss.Style
	ShortcutKey  lipgloss.Style
	ShortcutDesc lipgloss.Style
	VoiceOn      lipgloss.Style
	VoiceOff     lipgloss.Style
	Recording    lipgloss.Style

	// Toasts
	ToastError   lipgloss.Style
	ToastWarning lipgloss.Style
	ToastSuccess lipgloss.Style
	ToastStatus  lipgloss.Style

	// Settings form
	FormLabel    lipgloss.Style
	FormValue    lipgloss.Style
	FormSelected lipgloss.Style
	FormHint     lipgloss.Style

	// Misc
	Spinner lipgloss.Style
	ErrText lipgloss.Style
	Muted   lipgloss.Style
	Thought lipgloss.Style
	Divider lipgloss.Style
}

// NewTheme builds the theme for the current terminal.
func NewTheme() *Theme {
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		ColorProfile: termenv.ColorProfile(),
	}
	t.initStyles()
	return t
}

func (t *Theme) initStyles() {
	t.App = lipgloss.NewStyle().Background(Surface)
	t.Header = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextPrimary).
		Padding(0, 1)
	t.Brand = lipgloss.NewStyle().Foreground(Saffron).Bold(true)

	t.UserBubble = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Teal).
		Padding(0, 1)
	t.UserLabel = lipgloss.NewStyle().Foreground(Teal).Bold(true)
	t.ModelBubble = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Saffron).
		Padding(0, 1)
	t.ModelLabel = lipgloss.NewStyle().Foreground(Saffron).Bold(true)
	t.Timestamp = lipgloss.NewStyle().Foreground(TextMuted)

	t.Sidebar = lipgloss.NewStyle().
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.SidebarTitle = lipgloss.NewStyle().Foreground(TextSecondary).Bold(true)
	t.SessionItem = lipgloss.NewStyle().Foreground(TextSecondary)
	t.SessionSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Teal).
		Bold(true)

	t.InputContainer = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(Overlay).
		Padding(0, 1)
	t.InputPrompt = lipgloss.NewStyle().Foreground(Saffron).Bold(true)
	t.Placeholder = lipgloss.NewStyle().Foreground(TextMuted)
	t.AttachmentChip = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(TealDeep).
		Padding(0, 1)

	t.StatusBar = lipgloss.NewStyle().
		Background(SurfaceDim).
		Foreground(TextSecondary).
		Padding(0, 1)
	t.ShortcutKey = lipgloss.NewStyle().Foreground(Saffron).Bold(true)
	t.ShortcutDesc = lipgloss.NewStyle().Foreground(TextMuted)
	t.VoiceOn = lipgloss.NewStyle().Foreground(Emerald).Bold(true)
	t.VoiceOff = lipgloss.NewStyle().Foreground(TextMuted)
	t.Recording = lipgloss.NewStyle().Foreground(Rose).Bold(true).Blink(true)

	toast := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)
	t.ToastError = toast.BorderForeground(Rose).Foreground(Rose)
	t.ToastWarning = toast.BorderForeground(Amber).Foreground(Amber)
	t.ToastSuccess = toast.BorderForeground(Emerald).Foreground(Emerald)
	t.ToastStatus = toast.BorderForeground(Teal).Foreground(Teal)

	t.FormLabel = lipgloss.NewStyle().Foreground(TextSecondary)
	t.FormValue = lipgloss.NewStyle().Foreground(TextPrimary)
	t.FormSelected = lipgloss.NewStyle().
		Foreground(TextInverse).
		Background(Saffron).
		Bold(true)
	t.FormHint = lipgloss.NewStyle().Foreground(TextMuted).Italic(true)

	t.Spinner = lipgloss.NewStyle().Foreground(Saffron)
	t.ErrText = lipgloss.NewStyle().Foreground(Rose)
	t.Muted = lipgloss.NewStyle().Foreground(TextMuted)
	t.Thought = lipgloss.NewStyle().Foreground(TextSecondary).Italic(true)
	t.Divider = lipgloss.NewStyle().Foreground(Overlay)
}

// SetSize records the terminal dimensions for layout decisions.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// SidebarVisible reports whether the layout is wide enough for the
// session sidebar.
func (t *Theme) SidebarVisible() bool {
	return t.Width >= 100
}

// SidebarWidth returns the sidebar's column budget.
func (t *Theme) SidebarWidth() int {
	if !t.SidebarVisible() {
		return 0
	}
	return 28
}

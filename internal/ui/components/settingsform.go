// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"fmt"
	"strings"

	"github.com/jeranaias/sahayak-tui/internal/config"
	"github.com/jeranaias/sahayak-tui/internal/ui/styles"
)

// Settings form field indices.
const (
	FieldState = iota
	FieldLanguage
	FieldGrades
	FieldTone
	FieldComplexity
	FieldVoice
	fieldCount
)

// languages offered for explicit override, beyond whatever the state
// derivation picks.
var languageChoices = []string{
	"", "English", "Hindi", "Assamese", "Bengali", "Gujarati", "Kannada",
	"Konkani", "Malayalam", "Marathi", "Meiteilon (Manipuri)", "Mizo", "Nepali", "Odia",
	"Punjabi", "Tamil", "Telugu", "Urdu",
}

// SettingsForm is the interactive editor for teaching preferences.
// Editing happens on a draft; Apply commits it through the store so the
// state->language derivation runs exactly once per save.
type SettingsForm struct {
	store *config.Store

	draft       config.ChatConfig
	field       int
	gradeCursor int
	langTouched bool
	open        bool
}

// NewSettingsForm creates a form bound to the settings store.
func NewSettingsForm(store *config.Store) *SettingsForm {
	return &SettingsForm{store: store}
}

// Open loads the current settings into the draft and shows the form.
func (f *SettingsForm) Open() {
	f.draft = f.store.Chat()
	f.field = 0
	f.gradeCursor = 0
	f.langTouched = false
	f.open = true
}

// Close hides the form, discarding the draft.
func (f *SettingsForm) Close() { f.open = false }

// IsOpen reports whether the form is showing.
func (f *SettingsForm) IsOpen() bool { return f.open }

// Next moves focus down.
func (f *SettingsForm) Next() { f.field = (f.field + 1) % fieldCount }

// Prev moves focus up.
func (f *SettingsForm) Prev() { f.field = (f.field + fieldCount - 1) % fieldCount }

// Left cycles the focused field backward.
func (f *SettingsForm) Left() { f.cycle(-1) }

// Right cycles the focused field forward.
func (f *SettingsForm) Right() { f.cycle(1) }

func (f *SettingsForm) cycle(dir int) {
	switch f.field {
	case FieldState:
		states := append([]string{""}, config.States()...)
		f.draft.State = cycleChoice(states, f.draft.State, dir)
	case FieldLanguage:
		f.draft.Language = cycleChoice(languageChoices, f.draft.Language, dir)
		f.langTouched = true
	case FieldGrades:
		f.gradeCursor += dir
		if f.gradeCursor < 0 {
			f.gradeCursor = 9
		}
		if f.gradeCursor > 9 {
			f.gradeCursor = 0
		}
	case FieldTone:
		f.draft.Tone = cycleChoice(config.ValidTones, f.draft.Tone, dir)
	case FieldComplexity:
		f.draft.Complexity = cycleChoice(config.ValidComplexities, f.draft.Complexity, dir)
	case FieldVoice:
		f.draft.VoiceOutput = !f.draft.VoiceOutput
	}
}

// Toggle flips the focused boolean or grade under the cursor.
func (f *SettingsForm) Toggle() {
	switch f.field {
	case FieldGrades:
		grade := f.gradeCursor + 1
		for i, g := range f.draft.TargetGrades {
			if g == grade {
				f.draft.TargetGrades = append(f.draft.TargetGrades[:i], f.draft.TargetGrades[i+1:]...)
				return
			}
		}
		f.draft.TargetGrades = append(f.draft.TargetGrades, grade)
	case FieldVoice:
		f.draft.VoiceOutput = !f.draft.VoiceOutput
	}
}

// Apply commits the draft through the store and closes the form. The
// language is passed only when the user touched it, so picking a new
// state still derives its classroom language.
func (f *SettingsForm) Apply() config.ChatConfig {
	update := config.ChatUpdate{
		State:        &f.draft.State,
		TargetGrades: &f.draft.TargetGrades,
		Tone:         &f.draft.Tone,
		Complexity:   &f.draft.Complexity,
		VoiceOutput:  &f.draft.VoiceOutput,
	}
	if f.langTouched {
		update.Language = &f.draft.Language
	}
	applied := f.store.UpdateChat(update)
	f.open = false
	return applied
}

func cycleChoice(choices []string, current string, dir int) string {
	idx := 0
	for i, c := range choices {
		if c == current {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(choices)) % len(choices)
	return choices[idx]
}

// View renders the form.
func (f *SettingsForm) View(theme *styles.Theme) string {
	if !f.open {
		return ""
	}

	display := func(v string) string {
		if v == "" {
			return "(none)"
		}
		return v
	}

	rows := []struct {
		label string
		value string
	}{
		{"State", display(f.draft.State)},
		{"Language", display(f.draft.Language)},
		{"Grades", f.gradesView(theme)},
		{"Tone", f.draft.Tone},
		{"Complexity", f.draft.Complexity},
		{"Voice output", onOff(f.draft.VoiceOutput)},
	}

	var b strings.Builder
	b.WriteString(theme.Brand.Render("Settings"))
	b.WriteString("\n\n")
	for i, row := range rows {
		label := theme.FormLabel.Render(fmt.Sprintf("%-14s", row.label))
		value := theme.FormValue.Render(row.value)
		if i == f.field {
			value = theme.FormSelected.Render(row.value)
		}
		b.WriteString(label + value + "\n")
	}
	b.WriteString("\n")
	b.WriteString(theme.FormHint.Render("up/down field - left/right change - space toggle grade - enter save - esc cancel"))
	return b.String()
}

func (f *SettingsForm) gradesView(theme *styles.Theme) string {
	selected := make(map[int]bool, len(f.draft.TargetGrades))
	for _, g := range f.draft.TargetGrades {
		selected[g] = true
	}
	var parts []string
	for g := 1; g <= 10; g++ {
		cell := fmt.Sprintf("%d", g)
		if selected[g] {
			cell = "[" + cell + "]"
		}
		if f.field == FieldGrades && f.gradeCursor == g-1 {
			cell = theme.FormSelected.Render(cell)
		}
		parts = append(parts, cell)
	}
	return strings.Join(parts, " ")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

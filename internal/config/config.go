// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package config provides unified configuration loading and management for sahayak.
//
// Supports both TOML and JSON configuration formats, with sensible defaults,
// environment variable overrides, and validation.
//
// Configuration file locations (in order of precedence):
//   - ~/.sahayak/settings.toml
//   - ~/.sahayak/settings.json
//   - Built-in defaults
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/jeranaias/sahayak-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete sahayak configuration.
type Config struct {
	// Version of the config schema, used for migration.
	Version string `toml:"version" json:"version"`

	// Chat settings sent with every answer request.
	Chat ChatConfig `toml:"chat" json:"chat"`

	// API endpoint configuration.
	API APIConfig `toml:"api" json:"api"`

	// Speech (TTS/STT) configuration.
	Speech SpeechConfig `toml:"speech" json:"speech"`

	// UI configuration.
	UI UIConfig `toml:"ui" json:"ui"`
}

// ChatConfig holds the teaching preferences that shape every answer.
type ChatConfig struct {
	// State is the Indian state or union territory the teacher works in.
	// Used to localize answers and to derive Language.
	State string `toml:"state" json:"state"`
	// Language is the preferred answer language. Empty means English.
	Language string `toml:"language" json:"language"`
	// TargetGrades lists the grade levels (1-10) the teacher is preparing for.
	TargetGrades []int `toml:"target_grades" json:"target_grades"`
	// Tone is the response tone: "formal", "informal", "friendly", or "professional".
	Tone string `toml:"tone" json:"tone"`
	// Complexity is the answer complexity: "simple", "medium", or "advanced".
	Complexity string `toml:"complexity" json:"complexity"`
	// VoiceOutput speaks model replies aloud when true.
	VoiceOutput bool `toml:"voice_output" json:"voice_output"`
}

// APIConfig holds the backend endpoints.
type APIConfig struct {
	// BaseURL is the Sahayak backend API base URL.
	BaseURL string `toml:"base_url" json:"base_url"`
	// UploadBaseURL is the file upload service base URL.
	UploadBaseURL string `toml:"upload_base_url" json:"upload_base_url"`
}

// SpeechConfig holds text-to-speech and speech-to-text configuration.
type SpeechConfig struct {
	// APIKey is the Gemini API key used for synthesis and transcription.
	APIKey string `toml:"api_key" json:"api_key"`
	// Voice is the synthesis voice name.
	Voice string `toml:"voice" json:"voice"`
	// CaptureSeconds is the maximum recording length for voice input.
	CaptureSeconds int `toml:"capture_seconds" json:"capture_seconds"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// Theme is the color theme: "dark", "light", "dracula", "solarized"
	Theme string `toml:"theme" json:"theme"`
	// ShowTimestamps shows message timestamps in the transcript
	ShowTimestamps bool `toml:"show_timestamps" json:"show_timestamps"`
	// SyntaxHighlight enables code syntax highlighting in answers
	SyntaxHighlight bool `toml:"syntax_highlight" json:"syntax_highlight"`
	// CompactMode reduces padding in the transcript view
	CompactMode bool `toml:"compact_mode" json:"compact_mode"`
}

// =============================================================================
// CONSTANTS AND DEFAULTS
// =============================================================================

const (
	// CurrentVersion is the current config schema version.
	CurrentVersion = "1.0"

	// DefaultTone is the response tone used when none is configured.
	DefaultTone = "friendly"
	// DefaultComplexity is the answer complexity used when none is configured.
	DefaultComplexity = "medium"

	// DefaultBaseURL is the Sahayak backend endpoint.
	DefaultBaseURL = "https://sahayak-api-108198760570.asia-south1.run.app"
	// DefaultUploadBaseURL is the upload service endpoint.
	DefaultUploadBaseURL = "https://sahayak-upload-108198760570.asia-south1.run.app"

	// DefaultVoice is the synthesis voice used when none is configured.
	DefaultVoice = "Kore"
	// DefaultCaptureSeconds bounds a single voice recording.
	DefaultCaptureSeconds = 30

	configDirName = ".sahayak"
)

// ValidTones enumerates the accepted response tones.
var ValidTones = []string{"formal", "informal", "friendly", "professional"}

// ValidComplexities enumerates the accepted answer complexities.
var ValidComplexities = []string{"simple", "medium", "advanced"}

// stateLanguages maps each Indian state and union territory to its primary
// classroom language. Selecting a state without an explicit language choice
// derives the language from this table.
var stateLanguages = map[string]string{
	"Andhra Pradesh":    "Telugu",
	"Arunachal Pradesh": "English",
	"Assam":             "Assamese",
	"Bihar":             "Hindi",
	"Chhattisgarh":      "Hindi",
	"Goa":               "Konkani",
	"Gujarat":           "Gujarati",
	"Haryana":           "Hindi",
	"Himachal Pradesh":  "Hindi",
	"Jharkhand":         "Hindi",
	"Karnataka":         "Kannada",
	"Kerala":            "Malayalam",
	"Madhya Pradesh":    "Hindi",
	"Maharashtra":       "Marathi",
	"Manipur":           "Meiteilon (Manipuri)",
	"Meghalaya":         "English",
	"Mizoram":           "Mizo",
	"Nagaland":          "English",
	"Odisha":            "Odia",
	"Punjab":            "Punjabi",
	"Rajasthan":         "Hindi",
	"Sikkim":            "Nepali",
	"Tamil Nadu":        "Tamil",
	"Telangana":         "Telugu",
	"Tripura":           "Bengali",
	"Uttar Pradesh":     "Hindi",
	"Uttarakhand":       "Hindi",
	"West Bengal":       "Bengali",
}

// LanguageForState returns the derived classroom language for a state,
// or "" if the state is not in the table.
func LanguageForState(state string) string {
	return stateLanguages[state]
}

// States returns the known state names in sorted order.
func States() []string {
	out := make([]string, 0, len(stateLanguages))
	for s := range stateLanguages {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// Default returns a Config populated with built-in defaults.
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Chat: ChatConfig{
			State:        "",
			Language:     "",
			TargetGrades: []int{},
			Tone:         DefaultTone,
			Complexity:   DefaultComplexity,
			VoiceOutput:  false,
		},
		API: APIConfig{
			BaseURL:       DefaultBaseURL,
			UploadBaseURL: DefaultUploadBaseURL,
		},
		Speech: SpeechConfig{
			Voice:          DefaultVoice,
			CaptureSeconds: DefaultCaptureSeconds,
		},
		UI: UIConfig{
			Theme:           "dark",
			ShowTimestamps:  false,
			SyntaxHighlight: true,
			CompactMode:     false,
		},
	}
}

// =============================================================================
// LOADING AND SAVING
// =============================================================================

// ConfigDir returns the sahayak configuration directory (~/.sahayak),
// creating it if needed.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	dir := filepath.Join(home, configDirName)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return "", fmt.Errorf("cannot create config directory: %w", err)
	}
	return dir, nil
}

// ConfigPath returns the path to the TOML settings file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "settings.toml"), nil
}

// Load reads configuration from disk, merging persisted values over the
// built-in defaults. A missing file is not an error: defaults are returned.
// Unknown keys in the file are ignored so older binaries can read newer files.
func Load() (*Config, error) {
	cfg := Default()

	dir, err := ConfigDir()
	if err != nil {
		return cfg, err
	}

	tomlPath := filepath.Join(dir, "settings.toml")
	jsonPath := filepath.Join(dir, "settings.json")

	switch {
	case fileExists(tomlPath):
		if _, err := toml.DecodeFile(tomlPath, cfg); err != nil {
			return Default(), fmt.Errorf("cannot parse %s: %w", tomlPath, err)
		}
	case fileExists(jsonPath):
		data, err := os.ReadFile(jsonPath)
		if err != nil {
			return Default(), fmt.Errorf("cannot read %s: %w", jsonPath, err)
		}
		if err := json.Unmarshal(data, cfg); err != nil {
			return Default(), fmt.Errorf("cannot parse %s: %w", jsonPath, err)
		}
	}

	cfg.fillDefaults()
	cfg.ApplyEnvOverrides()
	cfg.Migrate()

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Save writes the configuration to ~/.sahayak/settings.toml atomically
// with owner-only permissions.
func (c *Config) Save() error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to the given path in TOML format.
func (c *Config) SaveTo(path string) error {
	var buf strings.Builder
	buf.WriteString("# Sahayak configuration file\n")
	buf.WriteString("# Edit with: sahayak settings\n\n")

	enc := toml.NewEncoder(&buf)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("cannot encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("cannot write config: %w", err)
	}
	return nil
}

// fillDefaults fills zero-valued fields with defaults after a partial load.
func (c *Config) fillDefaults() {
	def := Default()
	if c.Version == "" {
		c.Version = def.Version
	}
	if c.Chat.Tone == "" {
		c.Chat.Tone = def.Chat.Tone
	}
	if c.Chat.Complexity == "" {
		c.Chat.Complexity = def.Chat.Complexity
	}
	if c.Chat.TargetGrades == nil {
		c.Chat.TargetGrades = []int{}
	}
	if c.API.BaseURL == "" {
		c.API.BaseURL = def.API.BaseURL
	}
	if c.API.UploadBaseURL == "" {
		c.API.UploadBaseURL = def.API.UploadBaseURL
	}
	if c.Speech.Voice == "" {
		c.Speech.Voice = def.Speech.Voice
	}
	if c.Speech.CaptureSeconds == 0 {
		c.Speech.CaptureSeconds = def.Speech.CaptureSeconds
	}
	if c.UI.Theme == "" {
		c.UI.Theme = def.UI.Theme
	}
}

// ApplyEnvOverrides applies environment variable overrides.
//
// Supported variables:
//   - SAHAYAK_BASE_URL
//   - SAHAYAK_UPLOAD_BASE_URL
//   - SAHAYAK_SPEECH_API_KEY (also GEMINI_API_KEY as a fallback)
//   - SAHAYAK_THEME
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("SAHAYAK_BASE_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("SAHAYAK_UPLOAD_BASE_URL"); v != "" {
		c.API.UploadBaseURL = v
	}
	if v := os.Getenv("SAHAYAK_SPEECH_API_KEY"); v != "" {
		c.Speech.APIKey = v
	} else if v := os.Getenv("GEMINI_API_KEY"); v != "" && c.Speech.APIKey == "" {
		c.Speech.APIKey = v
	}
	if v := os.Getenv("SAHAYAK_THEME"); v != "" {
		c.UI.Theme = v
	}
}

// Migrate upgrades older config versions in place.
func (c *Config) Migrate() {
	switch c.Version {
	case CurrentVersion:
		return
	default:
		// Unknown or pre-1.0 version. fillDefaults has already backfilled
		// any fields the old file lacked, so stamping the version suffices.
		c.Version = CurrentVersion
	}
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError describes a single invalid config field.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config field %q: %s (got %v)", e.Field, e.Message, e.Value)
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if !contains(ValidTones, c.Chat.Tone) {
		errs = append(errs, &ValidationError{
			Field:   "chat.tone",
			Value:   c.Chat.Tone,
			Message: "must be one of " + strings.Join(ValidTones, ", "),
		})
	}
	if !contains(ValidComplexities, c.Chat.Complexity) {
		errs = append(errs, &ValidationError{
			Field:   "chat.complexity",
			Value:   c.Chat.Complexity,
			Message: "must be one of " + strings.Join(ValidComplexities, ", "),
		})
	}
	for _, g := range c.Chat.TargetGrades {
		if g < 1 || g > 10 {
			errs = append(errs, &ValidationError{
				Field:   "chat.target_grades",
				Value:   g,
				Message: "grades must be between 1 and 10",
			})
		}
	}
	if _, err := url.Parse(c.API.BaseURL); err != nil || c.API.BaseURL == "" {
		errs = append(errs, &ValidationError{
			Field:   "api.base_url",
			Value:   c.API.BaseURL,
			Message: "must be a valid URL",
		})
	}
	if _, err := url.Parse(c.API.UploadBaseURL); err != nil || c.API.UploadBaseURL == "" {
		errs = append(errs, &ValidationError{
			Field:   "api.upload_base_url",
			Value:   c.API.UploadBaseURL,
			Message: "must be a valid URL",
		})
	}
	if c.Speech.CaptureSeconds < 1 || c.Speech.CaptureSeconds > 300 {
		errs = append(errs, &ValidationError{
			Field:   "speech.capture_seconds",
			Value:   c.Speech.CaptureSeconds,
			Message: "must be between 1 and 300",
		})
	}
	validThemes := map[string]bool{"dark": true, "light": true, "dracula": true, "solarized": true}
	if !validThemes[c.UI.Theme] {
		errs = append(errs, &ValidationError{
			Field:   "ui.theme",
			Value:   c.UI.Theme,
			Message: "must be one of dark, light, dracula, solarized",
		})
	}

	return errors.Join(errs...)
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

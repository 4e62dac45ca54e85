// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"time"
)

// JSONExporter exports transcripts to JSON. JSON exports always carry
// the complete transcript so they can be re-imported faithfully.
type JSONExporter struct {
	options *Options
}

// NewJSONExporter creates a JSON exporter.
func NewJSONExporter(opts *Options) *JSONExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &JSONExporter{options: opts}
}

// jsonTranscript is the stable on-disk shape.
type jsonTranscript struct {
	SessionID   string        `json:"sessionId"`
	SessionName string        `json:"sessionName"`
	UserName    string        `json:"userName,omitempty"`
	Language    string        `json:"language,omitempty"`
	ExportedAt  time.Time     `json:"exportedAt"`
	Messages    []jsonMessage `json:"messages"`
}

type jsonMessage struct {
	Role      string     `json:"role"`
	Content   string     `json:"message"`
	Timestamp *time.Time `json:"timestamp,omitempty"`
}

// Export converts a transcript to indented JSON.
func (e *JSONExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil || len(t.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	out := jsonTranscript{
		SessionID:   t.SessionID,
		SessionName: t.SessionName,
		UserName:    t.UserName,
		Language:    t.Language,
		ExportedAt:  time.Now().UTC(),
		Messages:    make([]jsonMessage, len(t.Messages)),
	}
	for i, msg := range t.Messages {
		out.Messages[i] = jsonMessage{
			Role:    string(msg.Role),
			Content: msg.Content,
		}
		if !msg.Timestamp.IsZero() {
			ts := msg.Timestamp
			out.Messages[i].Timestamp = &ts
		}
	}
	return json.MarshalIndent(out, "", "  ")
}

// FileExtension returns the file extension for JSON.
func (e *JSONExporter) FileExtension() string {
	return ".json"
}

// MimeType returns the MIME type for JSON.
func (e *JSONExporter) MimeType() string {
	return "application/json"
}

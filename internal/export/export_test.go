// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jeranaias/sahayak-tui/internal/model"
)

func sampleTranscript() *Transcript {
	return &Transcript{
		SessionID:   "abc123",
		SessionName: "Session abc123...",
		UserName:    "Priya",
		Language:    "Kannada",
		Messages: []model.Message{
			{Role: model.RoleUser, Content: "What is photosynthesis?", Timestamp: time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)},
			{Role: model.RoleModel, Content: "Plants make food\nusing sunlight."},
		},
	}
}

func TestMarkdownExport(t *testing.T) {
	out, err := NewMarkdownExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	md := string(out)

	for _, want := range []string{
		"# Session abc123...",
		"### Priya",
		"### Sahayak",
		"What is photosynthesis?",
		"language: Kannada",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestMarkdownNoMetadata(t *testing.T) {
	opts := DefaultOptions()
	opts.IncludeMetadata = false
	out, err := NewMarkdownExporter(opts).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if strings.Contains(string(out), "---\ntitle:") {
		t.Error("frontmatter present despite IncludeMetadata=false")
	}
}

func TestJSONExportRoundTrips(t *testing.T) {
	out, err := NewJSONExporter(nil).Export(sampleTranscript())
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var decoded jsonTranscript
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("exported JSON does not parse: %v", err)
	}
	if decoded.SessionID != "abc123" || len(decoded.Messages) != 2 {
		t.Errorf("decoded = %+v", decoded)
	}
	if decoded.Messages[0].Role != "user" || decoded.Messages[1].Role != "model" {
		t.Errorf("roles = %s, %s", decoded.Messages[0].Role, decoded.Messages[1].Role)
	}
	if decoded.Messages[1].Timestamp != nil {
		t.Error("zero timestamp should be omitted")
	}
}

func TestHTMLExportEscapes(t *testing.T) {
	tr := sampleTranscript()
	tr.Messages[0].Content = "<script>alert(1)</script>"

	out, err := NewHTMLExporter(nil).Export(tr)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	page := string(out)
	if strings.Contains(page, "<script>alert") {
		t.Error("HTML content not escaped")
	}
	if !strings.Contains(page, "dark-theme") {
		t.Error("default theme missing")
	}
}

func TestEmptyTranscriptRejected(t *testing.T) {
	for _, e := range []Exporter{
		NewMarkdownExporter(nil), NewJSONExporter(nil), NewHTMLExporter(nil),
	} {
		if _, err := e.Export(&Transcript{}); !errors.Is(err, ErrEmptyTranscript) {
			t.Errorf("%T: err = %v, want ErrEmptyTranscript", e, err)
		}
	}
}

func TestExportToFile(t *testing.T) {
	opts := DefaultOptions()
	opts.OutputDir = t.TempDir()

	path, err := ExportToFile(sampleTranscript(), NewMarkdownExporter(opts), opts)
	if err != nil {
		t.Fatalf("ExportToFile: %v", err)
	}
	if filepath.Ext(path) != ".md" {
		t.Errorf("extension = %s", filepath.Ext(path))
	}
	if strings.Contains(filepath.Base(path), " ") {
		t.Errorf("filename not sanitized: %s", filepath.Base(path))
	}
}

func TestForFormat(t *testing.T) {
	for format, ext := range map[string]string{
		"": ".md", "md": ".md", "markdown": ".md", "json": ".json", "html": ".html",
	} {
		e, err := ForFormat(format, nil)
		if err != nil {
			t.Fatalf("ForFormat(%q): %v", format, err)
		}
		if e.FileExtension() != ext {
			t.Errorf("ForFormat(%q) ext = %s, want %s", format, e.FileExtension(), ext)
		}
	}
	if _, err := ForFormat("pdf", nil); err == nil {
		t.Error("expected error for unknown format")
	}
}

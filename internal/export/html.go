// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package export

import (
	"fmt"
	"html"
	"strings"
	"time"

	"github.com/jeranaias/sahayak-tui/internal/model"
)

// HTMLExporter exports transcripts to a standalone HTML page with
// embedded CSS.
type HTMLExporter struct {
	options *Options
}

// NewHTMLExporter creates an HTML exporter.
func NewHTMLExporter(opts *Options) *HTMLExporter {
	if opts == nil {
		opts = DefaultOptions()
	}
	return &HTMLExporter{options: opts}
}

// Export converts a transcript to HTML.
func (e *HTMLExporter) Export(t *Transcript) ([]byte, error) {
	if t == nil || len(t.Messages) == 0 {
		return nil, ErrEmptyTranscript
	}

	var sb strings.Builder

	sb.WriteString("<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n")
	sb.WriteString("    <meta charset=\"UTF-8\">\n")
	sb.WriteString("    <meta name=\"viewport\" content=\"width=device-width, initial-scale=1.0\">\n")
	sb.WriteString(fmt.Sprintf("    <title>%s</title>\n", html.EscapeString(t.SessionName)))
	sb.WriteString("    <meta name=\"generator\" content=\"sahayak\">\n")
	sb.WriteString(e.css())
	sb.WriteString("</head>\n")
	sb.WriteString(fmt.Sprintf("<body class=\"%s-theme\">\n", e.options.Theme))
	sb.WriteString("    <div class=\"container\">\n")

	if e.options.IncludeMetadata {
		sb.WriteString("        <header class=\"header\">\n")
		sb.WriteString(fmt.Sprintf("            <h1>%s</h1>\n", html.EscapeString(t.SessionName)))
		var meta []string
		if t.UserName != "" {
			meta = append(meta, html.EscapeString(t.UserName))
		}
		if t.Language != "" {
			meta = append(meta, html.EscapeString(t.Language))
		}
		meta = append(meta, fmt.Sprintf("%d messages", len(t.Messages)))
		sb.WriteString(fmt.Sprintf("            <p class=\"meta\">%s</p>\n", strings.Join(meta, " · ")))
		sb.WriteString("        </header>\n")
	}

	sb.WriteString("        <main class=\"conversation\">\n")
	for _, msg := range t.Messages {
		sb.WriteString(e.renderMessage(t, msg))
	}
	sb.WriteString("        </main>\n")

	sb.WriteString("        <footer class=\"footer\">\n")
	sb.WriteString(fmt.Sprintf("            <p>Exported from Sahayak on %s</p>\n",
		time.Now().Format("January 2, 2006")))
	sb.WriteString("        </footer>\n")
	sb.WriteString("    </div>\n</body>\n</html>\n")

	return []byte(sb.String()), nil
}

func (e *HTMLExporter) renderMessage(t *Transcript, msg model.Message) string {
	cls := "model"
	if msg.Role == model.RoleUser {
		cls = "user"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("            <div class=\"message %s\">\n", cls))
	sb.WriteString(fmt.Sprintf("                <div class=\"role\">%s", html.EscapeString(roleLabel(t, msg.Role))))
	if e.options.IncludeTimestamps && !msg.Timestamp.IsZero() {
		sb.WriteString(fmt.Sprintf(" <span class=\"time\">%s</span>", msg.Timestamp.Format("15:04")))
	}
	sb.WriteString("</div>\n")

	content := html.EscapeString(msg.Content)
	content = strings.ReplaceAll(content, "\n", "<br>\n")
	sb.WriteString(fmt.Sprintf("                <div class=\"content\">%s</div>\n", content))
	sb.WriteString("            </div>\n")
	return sb.String()
}

func (e *HTMLExporter) css() string {
	return `    <style>
        body { font-family: -apple-system, "Segoe UI", sans-serif; margin: 0; }
        .container { max-width: 760px; margin: 0 auto; padding: 2rem 1rem; }
        .header h1 { margin-bottom: 0.25rem; }
        .meta, .footer p { font-size: 0.85rem; opacity: 0.7; }
        .message { margin: 1rem 0; padding: 0.75rem 1rem; border-radius: 8px; }
        .role { font-weight: 600; margin-bottom: 0.35rem; }
        .time { font-weight: 400; font-size: 0.8rem; opacity: 0.6; }
        .light-theme { background: #fafafa; color: #1a1a1a; }
        .light-theme .user { background: #fff3e0; }
        .light-theme .model { background: #e0f2f1; }
        .dark-theme { background: #121212; color: #eaeaea; }
        .dark-theme .user { background: #33261a; }
        .dark-theme .model { background: #16302d; }
    </style>
`
}

// FileExtension returns the file extension for HTML.
func (e *HTMLExporter) FileExtension() string {
	return ".html"
}

// MimeType returns the MIME type for HTML.
func (e *HTMLExporter) MimeType() string {
	return "text/html"
}

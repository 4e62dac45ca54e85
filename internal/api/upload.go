// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
)

// MaxUploadSize bounds a single attachment upload.
const MaxUploadSize = 25 * 1024 * 1024 // 25MB

// ErrUploadTooLarge indicates the attachment exceeds MaxUploadSize.
var ErrUploadTooLarge = errors.New("attachment exceeds upload size limit")

// UploadFile uploads a local file to the upload service and returns the
// object name the backend stored it under. That name is what the answer
// endpoint expects in AttachmentFilename.
func (c *Client) UploadFile(ctx context.Context, userID, sessionID, path string) (string, error) {
	if c.uploadBaseURL == "" {
		return "", ErrNoBaseURL
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open attachment: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat attachment: %w", err)
	}
	if info.Size() > MaxUploadSize {
		return "", fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, info.Size())
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("user_id", userID); err != nil {
		return "", fmt.Errorf("encode form: %w", err)
	}
	if err := w.WriteField("session_id", sessionID); err != nil {
		return "", fmt.Errorf("encode form: %w", err)
	}
	part, err := w.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("encode form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read attachment: %w", err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("encode form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.uploadBaseURL+"/upload_file", &buf)
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp struct {
		Filename string `json:"filename"`
	}
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if resp.Filename == "" {
		// Older upload services echo nothing; fall back to the local name.
		return filepath.Base(path), nil
	}
	return resp.Filename, nil
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package api implements the client for the Sahayak backend.
//
// The backend exposes a small REST surface: session management, answer
// generation, and a separate upload service for attachments. All calls
// take a context and return typed results; HTTP failures surface as
// *APIError so callers can branch on status.
package api

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

const (
	// DefaultTimeout is the default timeout for API requests. Answer
	// generation can take a while on long prompts.
	DefaultTimeout = 120 * time.Second

	// MaxResponseSize is the maximum allowed response body size.
	MaxResponseSize = 10 * 1024 * 1024 // 10MB limit
)

// sharedHTTPClient pools connections across all backend requests.
var sharedHTTPClient = &http.Client{
	Transport: &http.Transport{
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
	},
	Timeout: DefaultTimeout,
}

// Error variables for common backend errors.
var (
	// ErrNoBaseURL indicates the client was built without a backend URL.
	ErrNoBaseURL = errors.New("backend base URL not configured")

	// ErrEmptyAnswer indicates the backend returned a reply with no text.
	ErrEmptyAnswer = errors.New("backend returned an empty answer")
)

// APIError represents a non-2xx response from the backend.
type APIError struct {
	Status     int
	StatusText string
	Body       string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("API request failed: %d %s - %s", e.Status, e.StatusText, e.Body)
	}
	return fmt.Sprintf("API request failed: %d %s", e.Status, e.StatusText)
}

// IsNotFound reports whether the error is a 404 from the backend.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// Client talks to the Sahayak backend and its upload service.
type Client struct {
	baseURL       string
	uploadBaseURL string
	httpClient    *http.Client
}

// NewClient creates a backend client. Both URLs may carry a trailing
// slash; it is stripped.
func NewClient(baseURL, uploadBaseURL string) *Client {
	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		uploadBaseURL: strings.TrimRight(uploadBaseURL, "/"),
		httpClient:    sharedHTTPClient,
	}
}

// WithHTTPClient overrides the HTTP client, mainly for tests.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// WithTimeout sets a request timeout by cloning the underlying client.
func (c *Client) WithTimeout(timeout time.Duration) *Client {
	hc := *c.httpClient
	hc.Timeout = timeout
	c.httpClient = &hc
	return c
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string { return c.baseURL }

// IsConfigured reports whether the client has a backend URL.
func (c *Client) IsConfigured() bool { return c.baseURL != "" }

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do issues a request and decodes the JSON response into out. A non-2xx
// status becomes an *APIError carrying the response body.
func (c *Client) do(req *http.Request, out interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Body:       strings.TrimSpace(string(body)),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// get issues a GET against the backend with query parameters.
func (c *Client) get(ctx context.Context, endpoint string, query url.Values, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNoBaseURL
	}
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// send issues a bodyless request (POST or DELETE) with query parameters.
func (c *Client) send(ctx context.Context, method, endpoint string, query url.Values, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNoBaseURL
	}
	u := c.baseURL + endpoint
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	return c.do(req, out)
}

// postJSON issues a POST with a JSON body.
func (c *Client) postJSON(ctx context.Context, endpoint string, in, out interface{}) error {
	if !c.IsConfigured() {
		return ErrNoBaseURL
	}
	payload, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

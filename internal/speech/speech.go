// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package speech provides text-to-speech and speech-to-text through the
// Gemini API. Synthesis returns playable WAV audio; transcription accepts
// raw recorded audio and returns normalized text.
package speech

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/time/rate"
)

// =============================================================================
// CLIENT
// =============================================================================

const (
	// DefaultEndpoint is the Gemini generateContent endpoint base.
	DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

	// ttsModel produces audio responses.
	ttsModel = "gemini-2.5-flash-preview-tts"
	// sttModel transcribes audio prompts.
	sttModel = "gemini-2.5-flash"

	// pcmSampleRate is the sample rate of Gemini TTS output.
	pcmSampleRate = 24000

	requestTimeout = 60 * time.Second
)

// ErrNoAPIKey indicates speech features are used without a configured key.
var ErrNoAPIKey = errors.New("speech API key not configured")

// ErrNoAudio indicates the model reply carried no audio data.
var ErrNoAudio = errors.New("no audio in response")

// Client calls the Gemini API for speech synthesis and transcription.
// Requests are rate limited to stay inside the free-tier quota.
type Client struct {
	apiKey     string
	endpoint   string
	voice      string
	httpClient *http.Client
	limiter    *rate.Limiter
}

// NewClient creates a speech client with the given API key and voice.
func NewClient(apiKey, voice string) *Client {
	return &Client{
		apiKey:   apiKey,
		endpoint: DefaultEndpoint,
		voice:    voice,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
		// 10 requests per minute, short bursts allowed.
		limiter: rate.NewLimiter(rate.Every(6*time.Second), 3),
	}
}

// WithEndpoint overrides the API endpoint, mainly for tests.
func (c *Client) WithEndpoint(url string) *Client {
	c.endpoint = strings.TrimRight(url, "/")
	return c
}

// WithHTTPClient overrides the HTTP client.
func (c *Client) WithHTTPClient(hc *http.Client) *Client {
	c.httpClient = hc
	return c
}

// IsConfigured reports whether an API key is set.
func (c *Client) IsConfigured() bool { return c.apiKey != "" }

// =============================================================================
// WIRE TYPES
// =============================================================================

type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseModalities []string      `json:"responseModalities,omitempty"`
	SpeechConfig       *speechConfig `json:"speechConfig,omitempty"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoiceConfig `json:"prebuiltVoiceConfig"`
}

type prebuiltVoiceConfig struct {
	VoiceName string `json:"voiceName"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// =============================================================================
// OPERATIONS
// =============================================================================

// Synthesize converts text to playable WAV audio.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, ErrNoAPIKey
	}
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: text}}}},
		GenerationConfig: &generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: &speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoiceConfig{VoiceName: c.voice},
				},
			},
		},
	}

	resp, err := c.generate(ctx, ttsModel, req)
	if err != nil {
		return nil, err
	}

	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.InlineData == nil {
				continue
			}
			pcm, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
			if err != nil {
				return nil, fmt.Errorf("decode audio: %w", err)
			}
			return wrapWAV(pcm, pcmSampleRate), nil
		}
	}
	return nil, ErrNoAudio
}

// Transcribe converts recorded audio to text. The text is NFC-normalized
// so Indic transcripts compare and render consistently.
func (c *Client) Transcribe(ctx context.Context, audio []byte, mimeType string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNoAPIKey
	}
	if mimeType == "" {
		mimeType = "audio/wav"
	}
	req := generateRequest{
		Contents: []content{{
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: mimeType,
					Data:     base64.StdEncoding.EncodeToString(audio),
				}},
				{Text: "Transcribe the following audio."},
			},
		}},
	}

	resp, err := c.generate(ctx, sttModel, req)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			sb.WriteString(p.Text)
		}
	}
	text := strings.TrimSpace(sb.String())
	return norm.NFC.String(text), nil
}

// generate issues one generateContent call under the rate limit.
func (c *Client) generate(ctx context.Context, model string, body generateRequest) (*generateResponse, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}
	url := fmt.Sprintf("%s/models/%s:generateContent", c.endpoint, model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("speech API: %d %s", resp.StatusCode, strings.TrimSpace(string(raw)))
	}

	var out generateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}

// =============================================================================
// AUDIO ENCODING
// =============================================================================

// wrapWAV wraps 16-bit mono PCM in a RIFF/WAV header.
func wrapWAV(pcm []byte, sampleRate int) []byte {
	const (
		channels      = 1
		bitsPerSample = 16
	)
	byteRate := sampleRate * channels * bitsPerSample / 8
	blockAlign := channels * bitsPerSample / 8

	var buf bytes.Buffer
	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+len(pcm)))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(channels))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(byteRate))
	binary.Write(&buf, binary.LittleEndian, uint16(blockAlign))
	binary.Write(&buf, binary.LittleEndian, uint16(bitsPerSample))
	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(len(pcm)))
	buf.Write(pcm)
	return buf.Bytes()
}

// DataURI encodes audio as a data URI, the shape the transcription prompt
// historically used and a convenient clipboard/export format.
func DataURI(audio []byte, mimeType string) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(audio)
}

// ParseDataURI splits a data URI into its MIME type and decoded bytes.
func ParseDataURI(uri string) (mimeType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, errors.New("not a data URI")
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, errors.New("malformed data URI")
	}
	mimeType = strings.TrimSuffix(meta, ";base64")
	data, err = base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", nil, fmt.Errorf("decode data URI: %w", err)
	}
	return mimeType, data, nil
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package speech

import (
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestSpeech(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient("test-key", "Kore").WithEndpoint(srv.URL)
}

func TestSynthesizeWrapsWAV(t *testing.T) {
	pcm := []byte{1, 0, 2, 0, 3, 0, 4, 0}
	client := newTestSpeech(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "gemini-2.5-flash-preview-tts") {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.Header.Get("x-goog-api-key"); got != "test-key" {
			t.Errorf("api key header = %q", got)
		}
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		if _, ok := req["generationConfig"]; !ok {
			t.Error("missing generationConfig")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{{
						"inlineData": map[string]string{
							"mimeType": "audio/L16;rate=24000",
							"data":     base64.StdEncoding.EncodeToString(pcm),
						},
					}},
				},
			}},
		})
	}))

	wav, err := client.Synthesize(context.Background(), "namaste")
	if err != nil {
		t.Fatalf("Synthesize: %v", err)
	}
	if string(wav[:4]) != "RIFF" || string(wav[8:12]) != "WAVE" {
		t.Fatalf("not a WAV header: % x", wav[:12])
	}
	rate := binary.LittleEndian.Uint32(wav[24:28])
	if rate != 24000 {
		t.Errorf("sample rate = %d", rate)
	}
	dataLen := binary.LittleEndian.Uint32(wav[40:44])
	if int(dataLen) != len(pcm) {
		t.Errorf("data length = %d, want %d", dataLen, len(pcm))
	}
}

func TestSynthesizeNoAudio(t *testing.T) {
	client := newTestSpeech(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"sorry"}]}}]}`))
	}))

	_, err := client.Synthesize(context.Background(), "hello")
	if !errors.Is(err, ErrNoAudio) {
		t.Errorf("want ErrNoAudio, got %v", err)
	}
}

func TestTranscribeNormalizes(t *testing.T) {
	decomposed := "café" // e + combining acute, composes to é
	client := newTestSpeech(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]interface{}
		json.NewDecoder(r.Body).Decode(&req)
		raw, _ := json.Marshal(req)
		if !strings.Contains(string(raw), "Transcribe the following audio.") {
			t.Error("transcription prompt missing")
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"candidates": []map[string]interface{}{{
				"content": map[string]interface{}{
					"parts": []map[string]interface{}{{"text": "  " + decomposed + "  "}},
				},
			}},
		})
	}))

	got, err := client.Transcribe(context.Background(), []byte("audio"), "audio/wav")
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != "café" {
		t.Errorf("transcript = %q, want NFC-composed trimmed text", got)
	}
}

func TestUnconfiguredClient(t *testing.T) {
	client := NewClient("", "Kore")
	if _, err := client.Synthesize(context.Background(), "x"); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Synthesize err = %v", err)
	}
	if _, err := client.Transcribe(context.Background(), nil, ""); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("Transcribe err = %v", err)
	}
}

func TestDataURIRoundTrip(t *testing.T) {
	audio := []byte{0xde, 0xad, 0xbe, 0xef}
	uri := DataURI(audio, "audio/webm")
	if !strings.HasPrefix(uri, "data:audio/webm;base64,") {
		t.Fatalf("uri = %q", uri)
	}

	mime, data, err := ParseDataURI(uri)
	if err != nil {
		t.Fatalf("ParseDataURI: %v", err)
	}
	if mime != "audio/webm" {
		t.Errorf("mime = %q", mime)
	}
	if string(data) != string(audio) {
		t.Errorf("data = % x", data)
	}
}

func TestParseDataURIRejectsGarbage(t *testing.T) {
	for _, bad := range []string{"", "http://x", "data:nope", "data:audio/wav;base64,!!!"} {
		if _, _, err := ParseDataURI(bad); err == nil {
			t.Errorf("ParseDataURI(%q) should fail", bad)
		}
	}
}

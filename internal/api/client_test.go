// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/jeranaias/sahayak-tui/internal/model"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, srv.URL), srv
}

func TestSessionsSortsAndEmbeds(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/get_sessions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if got := r.URL.Query().Get("user_id"); got != "teacher-1" {
			t.Errorf("user_id = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"sessions": []map[string]interface{}{
				{"id": "old-session", "lastUpdateTime": 100.5},
				{"id": "new-session", "lastUpdateTime": 200.25},
			},
			"messages": []map[string]string{
				{"role": "user", "message": "hello"},
				{"role": "model", "message": "hi there"},
			},
		})
	}))

	result, err := client.Sessions(context.Background(), "teacher-1")
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if len(result.Sessions) != 2 {
		t.Fatalf("got %d sessions", len(result.Sessions))
	}
	if result.Sessions[0].ID != "new-session" {
		t.Errorf("sessions not sorted newest first: %v", result.Sessions)
	}
	if result.Sessions[0].Name == "" {
		t.Error("session name not derived")
	}
	if !result.HasMessages {
		t.Error("HasMessages should be true when the listing embeds a transcript")
	}
	if len(result.Messages) != 2 {
		t.Fatalf("got %d messages", len(result.Messages))
	}
	if result.Messages[0].Role != model.RoleUser || result.Messages[0].Content != "hello" {
		t.Errorf("first message = %+v", result.Messages[0])
	}
	if result.Messages[1].Role != model.RoleModel {
		t.Errorf("second message role = %q", result.Messages[1].Role)
	}
}

func TestSessionsEmptyTranscriptStillEmbedded(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"sessions":[{"id":"s1","lastUpdateTime":1}],"messages":[]}`))
	}))

	result, err := client.Sessions(context.Background(), "u")
	if err != nil {
		t.Fatalf("Sessions: %v", err)
	}
	if !result.HasMessages {
		t.Error("empty embedded transcript must still count as embedded")
	}
	if len(result.Messages) != 0 {
		t.Errorf("got %d messages, want 0", len(result.Messages))
	}
}

func TestCreateSession(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/create_session" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		w.Write([]byte(`{"session_id":"abcdef1234"}`))
	}))

	sess, err := client.CreateSession(context.Background(), "teacher-1")
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if sess.ID != "abcdef1234" {
		t.Errorf("id = %q", sess.ID)
	}
	if sess.Name != "Session abcdef12..." {
		t.Errorf("name = %q", sess.Name)
	}
}

func TestDeleteSessionSurfacesAPIError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodDelete {
			t.Errorf("method = %s", r.Method)
		}
		http.Error(w, "boom", http.StatusInternalServerError)
	}))

	err := client.DeleteSession(context.Background(), "u", "s")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("want *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusInternalServerError {
		t.Errorf("status = %d", apiErr.Status)
	}
	if apiErr.Body != "boom" {
		t.Errorf("body = %q", apiErr.Body)
	}
}

func TestSessionMessages(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("session_id"); got != "s-9" {
			t.Errorf("session_id = %q", got)
		}
		w.Write([]byte(`{"messages":[{"role":"user","message":"q"},{"role":"model","message":"a"}]}`))
	}))

	msgs, err := client.SessionMessages(context.Background(), "u", "s-9")
	if err != nil {
		t.Fatalf("SessionMessages: %v", err)
	}
	if len(msgs) != 2 || msgs[1].Content != "a" {
		t.Errorf("messages = %+v", msgs)
	}
}

func TestAnswerSendsContract(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		for _, key := range []string{"user_id", "session_id", "message", "target_grade_list", "response_tone", "complexity"} {
			if _, ok := body[key]; !ok {
				t.Errorf("body missing %q", key)
			}
		}
		if _, ok := body["attachment_filename"]; ok {
			t.Error("attachment_filename should be omitted when empty")
		}
		w.Write([]byte(`{"message":"the answer"}`))
	}))

	got, err := client.Answer(context.Background(), AnswerRequest{
		UserID:       "u",
		SessionID:    "s",
		Message:      "what is photosynthesis",
		ResponseTone: "friendly",
		Complexity:   "medium",
	})
	if err != nil {
		t.Fatalf("Answer: %v", err)
	}
	if got != "the answer" {
		t.Errorf("answer = %q", got)
	}
}

func TestAnswerEmptyReply(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"  "}`))
	}))

	_, err := client.Answer(context.Background(), AnswerRequest{UserID: "u", SessionID: "s", Message: "q"})
	if !errors.Is(err, ErrEmptyAnswer) {
		t.Errorf("want ErrEmptyAnswer, got %v", err)
	}
}

func TestUploadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lesson.pdf")
	if err := os.WriteFile(path, []byte("pdf bytes"), 0600); err != nil {
		t.Fatal(err)
	}

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/upload_file" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if got := r.FormValue("user_id"); got != "u" {
			t.Errorf("user_id = %q", got)
		}
		if got := r.FormValue("session_id"); got != "s" {
			t.Errorf("session_id = %q", got)
		}
		f, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if header.Filename != "lesson.pdf" {
			t.Errorf("filename = %q", header.Filename)
		}
		w.Write([]byte(`{"filename":"stored-lesson.pdf"}`))
	}))

	name, err := client.UploadFile(context.Background(), "u", "s", path)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if name != "stored-lesson.pdf" {
		t.Errorf("stored name = %q", name)
	}
}

func TestUploadFileMissing(t *testing.T) {
	client := NewClient("http://unused", "http://unused")
	_, err := client.UploadFile(context.Background(), "u", "s", "/no/such/file")
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestThoughtOfTheDayReusesSession(t *testing.T) {
	var answerBody AnswerRequest
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get_sessions":
			if got := r.URL.Query().Get("user_id"); got != "thought-of-day" {
				t.Errorf("user_id = %q", got)
			}
			w.Write([]byte(`{"sessions":[{"id":"t-1","lastUpdateTime":5}],"messages":[]}`))
		case "/get_answer":
			json.NewDecoder(r.Body).Decode(&answerBody)
			w.Write([]byte(`{"message":"Shine on."}`))
		default:
			t.Errorf("unexpected path %q", r.URL.Path)
		}
	}))

	thought, err := client.ThoughtOfTheDay(context.Background(), "Karnataka")
	if err != nil {
		t.Fatalf("ThoughtOfTheDay: %v", err)
	}
	if thought != "Shine on." {
		t.Errorf("thought = %q", thought)
	}
	if answerBody.SessionID != "t-1" {
		t.Errorf("session = %q, want reuse of t-1", answerBody.SessionID)
	}
	if answerBody.ResponseTone != "inspirational" || answerBody.Complexity != "simple" {
		t.Errorf("tone/complexity = %q/%q", answerBody.ResponseTone, answerBody.Complexity)
	}
	if answerBody.Message != "Give me thought of the day. I'm from Karnataka, India." {
		t.Errorf("message = %q", answerBody.Message)
	}
}

func TestThoughtOfTheDayCreatesWhenNone(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/get_sessions":
			w.Write([]byte(`{"sessions":[],"messages":[]}`))
		case "/create_session":
			w.Write([]byte(`{"session_id":"fresh"}`))
		case "/get_answer":
			w.Write([]byte(`{"message":"Keep going."}`))
		}
	}))

	thought, err := client.ThoughtOfTheDay(context.Background(), "")
	if err != nil {
		t.Fatalf("ThoughtOfTheDay: %v", err)
	}
	if thought != "Keep going." {
		t.Errorf("thought = %q", thought)
	}
}

func TestThoughtOfTheDayFallsBack(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusServiceUnavailable)
	}))

	thought, err := client.ThoughtOfTheDay(context.Background(), "Kerala")
	if err == nil {
		t.Error("expected error alongside fallback")
	}
	if thought != DefaultThought {
		t.Errorf("thought = %q, want default", thought)
	}
}

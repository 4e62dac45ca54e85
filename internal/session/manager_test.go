// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jeranaias/sahayak-tui/internal/api"
	"github.com/jeranaias/sahayak-tui/internal/model"
)

// fakeAPI is an in-memory backend double.
type fakeAPI struct {
	sessions    []model.Session
	transcripts map[string][]model.Message
	nextID      int

	failDelete   bool
	failMessages bool
	failList     bool

	deleteCalls []string
}

func newFakeAPI(ids ...string) *fakeAPI {
	f := &fakeAPI{transcripts: map[string][]model.Message{}}
	for i, id := range ids {
		f.sessions = append(f.sessions, model.Session{ID: id, LastUpdate: float64(len(ids) - i), Name: model.SessionName(id)})
		f.transcripts[id] = []model.Message{model.NewUserMessage("hello from " + id)}
	}
	return f
}

func (f *fakeAPI) Sessions(ctx context.Context, userID string) (*api.SessionsResult, error) {
	if f.failList {
		return nil, errors.New("list failed")
	}
	result := &api.SessionsResult{
		Sessions:    append([]model.Session(nil), f.sessions...),
		HasMessages: true,
	}
	if len(f.sessions) > 0 {
		result.Messages = f.transcripts[f.sessions[0].ID]
	}
	return result, nil
}

func (f *fakeAPI) CreateSession(ctx context.Context, userID string) (model.Session, error) {
	f.nextID++
	id := fmt.Sprintf("created-%d", f.nextID)
	s := model.NewSession(id)
	f.sessions = append([]model.Session{s}, f.sessions...)
	f.transcripts[id] = nil
	return s, nil
}

func (f *fakeAPI) DeleteSession(ctx context.Context, userID, sessionID string) error {
	f.deleteCalls = append(f.deleteCalls, sessionID)
	if f.failDelete {
		return &api.APIError{Status: 500, StatusText: "Internal Server Error"}
	}
	kept := f.sessions[:0:0]
	for _, s := range f.sessions {
		if s.ID != sessionID {
			kept = append(kept, s)
		}
	}
	f.sessions = kept
	return nil
}

func (f *fakeAPI) SessionMessages(ctx context.Context, userID, sessionID string) ([]model.Message, error) {
	if f.failMessages {
		return nil, errors.New("fetch failed")
	}
	return f.transcripts[sessionID], nil
}

func ids(sessions []model.Session) []string {
	out := make([]string, len(sessions))
	for i, s := range sessions {
		out[i] = s.ID
	}
	return out
}

func TestInitializeSelectsNewestWithEmbeddedTranscript(t *testing.T) {
	f := newFakeAPI("s1", "s2", "s3")
	m := NewManager(f, "teacher-1")

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if m.ActiveID() != "s1" {
		t.Errorf("active = %q, want s1", m.ActiveID())
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Content != "hello from s1" {
		t.Errorf("transcript = %+v", msgs)
	}
}

func TestInitializeCreatesWhenEmpty(t *testing.T) {
	f := newFakeAPI()
	m := NewManager(f, "teacher-1")

	if err := m.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if m.Count() != 1 {
		t.Fatalf("count = %d, want 1", m.Count())
	}
	if m.ActiveID() == "" {
		t.Error("no session selected after create")
	}
	if len(m.Messages()) != 0 {
		t.Error("fresh session should have an empty transcript")
	}
}

func TestSelectLoadsTranscript(t *testing.T) {
	f := newFakeAPI("s1", "s2")
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.Select(context.Background(), "s2"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if m.ActiveID() != "s2" {
		t.Errorf("active = %q", m.ActiveID())
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Content != "hello from s2" {
		t.Errorf("transcript = %+v", msgs)
	}
	if m.Loading() {
		t.Error("loading flag stuck")
	}
}

func TestSelectSameSessionIsNoop(t *testing.T) {
	f := newFakeAPI("s1")
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	m.Append(model.NewUserMessage("unsaved local message"))

	if err := m.Select(context.Background(), "s1"); err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(m.Messages()) != 2 {
		t.Error("re-selecting the active session must not reload the transcript")
	}
}

func TestCreatePrependsAndSelects(t *testing.T) {
	f := newFakeAPI("s1")
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	created, err := m.Create(context.Background())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	list := m.List()
	if list[0].ID != created.ID {
		t.Errorf("new session not first: %v", ids(list))
	}
	if m.ActiveID() != created.ID {
		t.Errorf("active = %q", m.ActiveID())
	}
	if len(m.Messages()) != 0 {
		t.Error("new session transcript not empty")
	}
}

func TestDeleteInactiveSession(t *testing.T) {
	f := newFakeAPI("s1", "s2", "s3")
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := m.Messages()

	if err := m.Delete(context.Background(), "s3"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	got := ids(m.List())
	if len(got) != 2 || got[0] != "s1" || got[1] != "s2" {
		t.Errorf("list = %v", got)
	}
	if m.ActiveID() != "s1" {
		t.Errorf("active changed to %q", m.ActiveID())
	}
	if len(m.Messages()) != len(before) {
		t.Error("transcript disturbed by deleting another session")
	}
}

func TestDeleteActiveSelectsFirstRemaining(t *testing.T) {
	f := newFakeAPI("s1", "s2", "s3")
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if m.ActiveID() != "s2" {
		t.Errorf("active = %q, want s2", m.ActiveID())
	}
	msgs := m.Messages()
	if len(msgs) != 1 || msgs[0].Content != "hello from s2" {
		t.Errorf("transcript = %+v", msgs)
	}
}

func TestDeleteLastSessionCreatesReplacement(t *testing.T) {
	f := newFakeAPI("s1")
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if m.Count() != 1 {
		t.Fatalf("count = %d, want replacement session", m.Count())
	}
	if m.ActiveID() == "s1" || m.ActiveID() == "" {
		t.Errorf("active = %q", m.ActiveID())
	}
	if len(m.Messages()) != 0 {
		t.Error("replacement transcript not empty")
	}
}

func TestDeleteRollsBackOnFailure(t *testing.T) {
	f := newFakeAPI("s1", "s2", "s3")
	f.failDelete = true
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	wantList := ids(m.List())
	wantMsgs := m.Messages()

	err := m.Delete(context.Background(), "s1")
	if err == nil {
		t.Fatal("expected delete failure")
	}
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		t.Errorf("error should wrap *api.APIError, got %v", err)
	}

	gotList := ids(m.List())
	if len(gotList) != len(wantList) {
		t.Fatalf("list not restored: %v vs %v", gotList, wantList)
	}
	for i := range wantList {
		if gotList[i] != wantList[i] {
			t.Errorf("list[%d] = %q, want %q", i, gotList[i], wantList[i])
		}
	}
	if m.ActiveID() != "s1" {
		t.Errorf("active = %q, want s1 restored", m.ActiveID())
	}
	if len(m.Messages()) != len(wantMsgs) {
		t.Error("transcript not restored")
	}
}

func TestDeleteUnknownSessionIsNoop(t *testing.T) {
	f := newFakeAPI("s1")
	m := NewManager(f, "u")
	if err := m.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := m.Delete(context.Background(), "ghost"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if len(f.deleteCalls) != 0 {
		t.Error("API called for unknown session")
	}
}

func TestRemoveLast(t *testing.T) {
	f := newFakeAPI()
	m := NewManager(f, "u")
	m.Append(model.NewUserMessage("q1"))
	m.Append(model.NewModelMessage("a1"))
	m.Append(model.NewUserMessage("q2"))

	removed, ok := m.RemoveLast(model.RoleUser)
	if !ok || removed.Content != "q2" {
		t.Errorf("removed = %+v, ok = %v", removed, ok)
	}
	if len(m.Messages()) != 2 {
		t.Errorf("len = %d", len(m.Messages()))
	}

	_, ok = m.RemoveLast(model.RoleModel)
	if !ok {
		t.Error("model message not found")
	}
	_, ok = m.RemoveLast(model.RoleModel)
	if ok {
		t.Error("second model removal should fail")
	}
}

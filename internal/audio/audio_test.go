// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package audio

import (
	"errors"
	"testing"
)

func TestStopWithoutStart(t *testing.T) {
	r := NewRecorder(5)
	if _, err := r.Stop(); err == nil {
		t.Error("Stop before Start should fail")
	}
}

func TestAbortWithoutStart(t *testing.T) {
	r := NewRecorder(5)
	r.Abort() // must not panic
	if r.Recording() {
		t.Error("recording flag set without a start")
	}
}

func TestNoToolsOnEmptyPath(t *testing.T) {
	t.Setenv("PATH", "")

	if _, err := recordCommand("/tmp/x.wav", 1); !errors.Is(err, ErrNoRecorder) {
		t.Errorf("recordCommand err = %v", err)
	}
	if _, err := playCommand("/tmp/x.wav"); !errors.Is(err, ErrNoPlayer) {
		t.Errorf("playCommand err = %v", err)
	}

	r := NewRecorder(5)
	if err := r.Start(); !errors.Is(err, ErrNoRecorder) {
		t.Errorf("Start err = %v", err)
	}
}

func TestRecorderDefaultLimit(t *testing.T) {
	r := NewRecorder(0)
	if r.maxSeconds != 30 {
		t.Errorf("maxSeconds = %d, want 30", r.maxSeconds)
	}
}

// Copyright (c) 2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package audio records from the microphone and plays WAV audio using
// whatever capture and playback tool the host provides. The microphone is
// held exclusively while a recording is active and released by
// terminating the capture process, so Stop is always deterministic.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// =============================================================================
// TOOL DISCOVERY
// =============================================================================

// ErrNoRecorder indicates no supported capture tool is installed.
var ErrNoRecorder = errors.New("no audio capture tool found (need arecord, sox, or ffmpeg)")

// ErrNoPlayer indicates no supported playback tool is installed.
var ErrNoPlayer = errors.New("no audio playback tool found (need aplay, paplay, afplay, or ffplay)")

// ErrAlreadyRecording indicates a capture is already in progress.
var ErrAlreadyRecording = errors.New("recording already in progress")

// recordCommand returns the capture command for the first available tool,
// writing 16kHz mono WAV to path for at most maxSeconds.
func recordCommand(path string, maxSeconds int) (*exec.Cmd, error) {
	if _, err := exec.LookPath("arecord"); err == nil {
		return exec.Command("arecord", "-q",
			"-f", "S16_LE", "-r", "16000", "-c", "1",
			"-d", fmt.Sprint(maxSeconds), path), nil
	}
	if _, err := exec.LookPath("sox"); err == nil {
		return exec.Command("sox", "-q",
			"-d", "-r", "16000", "-c", "1", "-b", "16", path,
			"trim", "0", fmt.Sprint(maxSeconds)), nil
	}
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		input := "default"
		format := "alsa"
		if runtime.GOOS == "darwin" {
			input = ":0"
			format = "avfoundation"
		}
		return exec.Command("ffmpeg", "-hide_banner", "-loglevel", "error",
			"-f", format, "-i", input,
			"-t", fmt.Sprint(maxSeconds),
			"-ar", "16000", "-ac", "1", "-y", path), nil
	}
	return nil, ErrNoRecorder
}

// playCommand returns the playback command for the first available tool.
func playCommand(path string) (*exec.Cmd, error) {
	for _, tool := range []string{"aplay", "paplay", "afplay"} {
		if _, err := exec.LookPath(tool); err == nil {
			if tool == "aplay" {
				return exec.Command(tool, "-q", path), nil
			}
			return exec.Command(tool, path), nil
		}
	}
	if _, err := exec.LookPath("ffplay"); err == nil {
		return exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "error", path), nil
	}
	return nil, ErrNoPlayer
}

// Available reports whether both capture and playback are possible.
func Available() (record, play bool) {
	_, rerr := recordCommand(os.DevNull, 1)
	_, perr := playCommand(os.DevNull)
	return rerr == nil, perr == nil
}

// =============================================================================
// RECORDER
// =============================================================================

// Recorder captures one recording at a time to a temp WAV file.
type Recorder struct {
	mu         sync.Mutex
	cmd        *exec.Cmd
	path       string
	maxSeconds int
}

// NewRecorder creates a recorder with the given maximum clip length.
func NewRecorder(maxSeconds int) *Recorder {
	if maxSeconds <= 0 {
		maxSeconds = 30
	}
	return &Recorder{maxSeconds: maxSeconds}
}

// Recording reports whether a capture is in progress.
func (r *Recorder) Recording() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cmd != nil
}

// Start begins capturing. The microphone stays held until Stop or the
// time limit, whichever comes first.
func (r *Recorder) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cmd != nil {
		return ErrAlreadyRecording
	}

	f, err := os.CreateTemp("", "sahayak-rec-*.wav")
	if err != nil {
		return fmt.Errorf("create recording file: %w", err)
	}
	path := f.Name()
	f.Close()

	cmd, err := recordCommand(path, r.maxSeconds)
	if err != nil {
		os.Remove(path)
		return err
	}
	if err := cmd.Start(); err != nil {
		os.Remove(path)
		return fmt.Errorf("start capture: %w", err)
	}

	r.cmd = cmd
	r.path = path
	return nil
}

// Stop ends the capture and returns the recorded WAV bytes. The caller
// owns nothing on disk afterwards; the temp file is removed.
func (r *Recorder) Stop() ([]byte, error) {
	r.mu.Lock()
	cmd := r.cmd
	path := r.path
	r.cmd = nil
	r.path = ""
	r.mu.Unlock()

	if cmd == nil {
		return nil, errors.New("not recording")
	}

	// Interrupt lets the tool flush its WAV header; fall back to Kill.
	if err := cmd.Process.Signal(os.Interrupt); err != nil {
		cmd.Process.Kill()
	}
	done := make(chan struct{})
	go func() {
		cmd.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(3 * time.Second):
		cmd.Process.Kill()
		<-done
	}

	defer os.Remove(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read recording: %w", err)
	}
	if len(data) == 0 {
		return nil, errors.New("empty recording")
	}
	return data, nil
}

// Abort ends the capture and discards anything recorded.
func (r *Recorder) Abort() {
	r.mu.Lock()
	cmd := r.cmd
	path := r.path
	r.cmd = nil
	r.path = ""
	r.mu.Unlock()

	if cmd != nil {
		cmd.Process.Kill()
		cmd.Wait()
	}
	if path != "" {
		os.Remove(path)
	}
}

// =============================================================================
// PLAYER
// =============================================================================

// Player plays WAV audio through the host's playback tool.
type Player struct {
	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewPlayer creates a player.
func NewPlayer() *Player { return &Player{} }

// Play writes the audio to a temp file and plays it, blocking until
// playback finishes or the context is cancelled. Starting a new playback
// stops the previous one.
func (p *Player) Play(ctx context.Context, wav []byte) error {
	p.Stop()

	dir, err := os.MkdirTemp("", "sahayak-play-")
	if err != nil {
		return fmt.Errorf("create playback dir: %w", err)
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "reply.wav")
	if err := os.WriteFile(path, wav, 0600); err != nil {
		return fmt.Errorf("write playback file: %w", err)
	}

	cmd, err := playCommand(path)
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start playback: %w", err)
	}

	p.mu.Lock()
	p.cmd = cmd
	p.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case err := <-done:
		p.clear(cmd)
		if err != nil {
			return fmt.Errorf("playback: %w", err)
		}
		return nil
	case <-ctx.Done():
		cmd.Process.Kill()
		<-done
		p.clear(cmd)
		return ctx.Err()
	}
}

// Stop interrupts any in-flight playback.
func (p *Player) Stop() {
	p.mu.Lock()
	cmd := p.cmd
	p.cmd = nil
	p.mu.Unlock()
	if cmd != nil && cmd.Process != nil {
		cmd.Process.Kill()
	}
}

func (p *Player) clear(cmd *exec.Cmd) {
	p.mu.Lock()
	if p.cmd == cmd {
		p.cmd = nil
	}
	p.mu.Unlock()
}

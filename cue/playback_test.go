package cue

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestPlaybackPrepare(t *testing.T) {
	dir := t.TempDir()
	file := writeWAV(t, dir, "one-second.wav", 44100)

	tests := []struct {
		name         string
		action       PlaybackCue
		wantSamples  int
		wantDuration time.Duration
	}{
		{name: "whole file", action: NewPlaybackCue(file), wantSamples: 44100, wantDuration: time.Second},
		{name: "truncated", action: NewPlaybackCue(file).ForDuration(250 * time.Millisecond), wantSamples: 11025, wantDuration: 250 * time.Millisecond},
		{name: "from memory", action: NewPlaybackCue(file).Cached(), wantSamples: 44100, wantDuration: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := prepared(t, tt.action, "SQ1")
			if x.Label() != "SQ1" {
				t.Errorf("Label() = %q", x.Label())
			}
			if x.Meta().Duration() != tt.wantDuration {
				t.Errorf("Meta().Duration() = %v, want %v", x.Meta().Duration(), tt.wantDuration)
			}

			sink := x.Sink()
			if !sink.Paused() {
				t.Error("prepared sink should not be playing")
			}
			sink.Play()

			if got := len(drain(sink, 10*44100)); got != tt.wantSamples {
				t.Errorf("played %d samples, want %d", got, tt.wantSamples)
			}
			if !sink.Empty() {
				t.Error("sink should be empty after the file ends")
			}
		})
	}
}

func TestPlaybackRepeat(t *testing.T) {
	file := writeWAV(t, t.TempDir(), "loop.wav", 4410)

	sink := started(t, NewPlaybackCue(file).Looped())

	const want = 5 * 4410
	if got := len(drain(sink, want)); got != want {
		t.Errorf("looped playback produced %d samples, want %d", got, want)
	}
	if sink.Empty() {
		t.Error("looping sink reported empty")
	}
	sink.Stop()
}

func TestPlaybackVolumeAndFades(t *testing.T) {
	file := writeWAV(t, t.TempDir(), "tone.wav", 44100)

	t.Run("volume", func(t *testing.T) {
		got := drain(started(t, NewPlaybackCue(file).WithVolume(50)), 100)
		if math.Abs(got[50][0]-0.125) > 0.01 {
			t.Errorf("sample = %v, want about 0.125", got[50][0])
		}
	})

	t.Run("fade in", func(t *testing.T) {
		got := drain(started(t, NewPlaybackCue(file).FadeInFor(500*time.Millisecond)), 44100)
		if got[0][0] != 0 {
			t.Errorf("first sample = %v, want silence", got[0][0])
		}
		if math.Abs(got[11025][0]-0.125) > 0.01 {
			t.Errorf("sample at quarter second = %v, want about 0.125", got[11025][0])
		}
		if math.Abs(got[30000][0]-0.25) > 0.01 {
			t.Errorf("sample after the fade = %v, want about 0.25", got[30000][0])
		}
	})

	t.Run("fade out", func(t *testing.T) {
		got := drain(started(t, NewPlaybackCue(file).FadeOutFor(500*time.Millisecond)), 44100)
		if len(got) != 44100 {
			t.Fatalf("played %d samples, want 44100", len(got))
		}
		if math.Abs(got[10000][0]-0.25) > 0.01 {
			t.Errorf("sample before the fade = %v, want about 0.25", got[10000][0])
		}
		if math.Abs(got[22050+11025][0]-0.125) > 0.01 {
			t.Errorf("sample half way through the fade = %v, want about 0.125", got[22050+11025][0])
		}
		if math.Abs(got[44099][0]) > 0.001 {
			t.Errorf("last sample = %v, want about 0", got[44099][0])
		}
	})
}

func TestPlaybackPrepareErrors(t *testing.T) {
	dir := t.TempDir()
	text := filepath.Join(dir, "readme.txt")
	if err := os.WriteFile(text, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		file string
	}{
		{name: "missing", file: filepath.Join(dir, "missing.wav")},
		{name: "unsupported", file: text},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPlaybackCue(tt.file).Prepare("SQ7", testRate)

			var perr *PrepareError
			if !errors.As(err, &perr) {
				t.Fatalf("Prepare() error = %v, want *PrepareError", err)
			}
			if perr.Label != "SQ7" || perr.Path != tt.file {
				t.Errorf("PrepareError = %+v", perr)
			}
		})
	}
}

func TestPrepareErrorMessage(t *testing.T) {
	tests := []struct {
		err  *PrepareError
		want string
	}{
		{&PrepareError{Label: "SQ1", Path: "a.wav", Err: errors.New("boom")}, "cue SQ1: a.wav: boom"},
		{&PrepareError{Err: errors.New("boom")}, "cue <anonymous>: boom"},
	}

	for _, tt := range tests {
		if got := tt.err.Error(); got != tt.want {
			t.Errorf("Error() = %q, want %q", got, tt.want)
		}
	}
}

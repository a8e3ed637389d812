package cue

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"cuebox/engine"
	"cuebox/playback"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

const testRate = beep.SampleRate(44100)

type fakeOutput struct {
	mu     sync.Mutex
	played []beep.Streamer
}

func (o *fakeOutput) Play(s beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.played = append(o.played, s)
	return nil
}

func (o *fakeOutput) SampleRate() beep.SampleRate {
	return testRate
}

func (o *fakeOutput) count() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.played)
}

func newTestEngine() (*engine.Engine, *fakeOutput) {
	out := &fakeOutput{}
	return engine.New(out), out
}

// writeWAV writes n samples of a constant 0.25 signal at testRate
func writeWAV(t *testing.T, dir, name string, n int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: testRate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, beep.Take(n, constant(0.25)), format); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

func constant(v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{v, v}
		}
		return len(samples), true
	})
}

// drain pulls at most limit samples out of s
func drain(s beep.Streamer, limit int) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, 441)
	for len(out) < limit {
		n, ok := s.Stream(buf[:min(len(buf), limit-len(out))])
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out
}

// prepared prepares action and returns its playback executable
func prepared(t *testing.T, a Action, label string) *PlaybackExecutable {
	t.Helper()

	x, err := a.Prepare(label, testRate)
	if err != nil {
		t.Fatalf("Prepare() error = %v", err)
	}
	px, ok := x.(*PlaybackExecutable)
	if !ok {
		t.Fatalf("Prepare() returned %T, want *PlaybackExecutable", x)
	}
	return px
}

// started prepares action and starts its sink without an engine
func started(t *testing.T, a Action) *playback.Sink {
	t.Helper()

	sink := prepared(t, a, "").Sink()
	sink.Play()
	return sink
}

package engine

import (
	"sync"
	"testing"
	"time"

	"cuebox/playback"

	"github.com/gopxl/beep/v2"
)

type fakeOutput struct {
	mu     sync.Mutex
	played []beep.Streamer
	closed bool
}

func (o *fakeOutput) Play(s beep.Streamer) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.played = append(o.played, s)
	return nil
}

func (o *fakeOutput) SampleRate() beep.SampleRate {
	return playback.DefaultSampleRate
}

func (o *fakeOutput) Close() error {
	o.closed = true
	return nil
}

// playing returns a started sink with n samples of audio queued
func playing(n int) *playback.Sink {
	sink := playback.NewSink()
	sink.Append(beep.Silence(n))
	sink.Play()
	return sink
}

// gate is a fade sleep that holds every step until opened. reached fires the
// first time a step is waiting.
type gate struct {
	reached chan struct{}
	open    chan struct{}
}

func newGate() *gate {
	return &gate{reached: make(chan struct{}, 1), open: make(chan struct{})}
}

func (g *gate) sleep(time.Duration) {
	select {
	case g.reached <- struct{}{}:
	default:
	}
	<-g.open
}

func wait(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

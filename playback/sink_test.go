package playback

import (
	"math"
	"testing"
	"time"
)

func TestSinkStartsPaused(t *testing.T) {
	sink := NewSink()
	sink.Append(constant(10, 1))

	if !sink.Paused() {
		t.Fatal("new sink should be paused")
	}

	buf := make([][2]float64, 4)
	for i := range buf {
		buf[i] = [2]float64{9, 9}
	}
	n, ok := sink.Stream(buf)
	if n != 4 || !ok {
		t.Fatalf("Stream() = %d, %v; want 4, true", n, ok)
	}
	for i, s := range buf {
		if s != [2]float64{} {
			t.Errorf("sample %d = %v, want silence", i, s)
		}
	}

	sink.Play()
	got := drain(sink, 3)
	if len(got) != 10 {
		t.Errorf("drained %d samples after Play, want the full 10", len(got))
	}
}

func TestSinkVolume(t *testing.T) {
	tests := []struct {
		name   string
		volume float64
		want   float64
	}{
		{name: "unity", volume: 1, want: 0.5},
		{name: "half", volume: 0.5, want: 0.25},
		{name: "silent", volume: 0, want: 0},
		{name: "negative clamps to zero", volume: -1, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := NewSink()
			sink.Append(constant(8, 0.5))
			sink.SetVolume(tt.volume)
			sink.Play()

			for i, s := range drain(sink, 8) {
				if math.Abs(s[0]-tt.want) > 1e-9 || math.Abs(s[1]-tt.want) > 1e-9 {
					t.Fatalf("sample %d = %v, want %v", i, s, tt.want)
				}
			}
		})
	}
}

func TestSinkPlaysQueueInOrder(t *testing.T) {
	sink := NewSink()
	sink.Append(constant(3, 1))
	sink.Append(constant(2, 2))
	sink.Play()

	got := drain(sink, 4)
	want := []float64{1, 1, 1, 2, 2}
	if len(got) != len(want) {
		t.Fatalf("drained %d samples, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i][0] != want[i] {
			t.Errorf("sample %d = %v, want %v", i, got[i][0], want[i])
		}
	}
}

func TestSinkDrainReleasesClosers(t *testing.T) {
	closer := &countingCloser{}
	sink := NewSink()
	sink.Append(constant(5, 1))
	sink.AddCloser(closer)
	sink.Play()

	if sink.Empty() {
		t.Fatal("sink with queued audio reported empty")
	}

	drain(sink, 2)

	if !sink.Empty() {
		t.Error("drained sink should be empty")
	}
	if sink.Stopped() {
		t.Error("drained sink should not report stopped")
	}
	if n, ok := sink.Stream(make([][2]float64, 4)); n != 0 || ok {
		t.Errorf("Stream() on drained sink = %d, %v; want 0, false", n, ok)
	}

	sink.Stop()
	if closer.closed != 1 {
		t.Errorf("closer closed %d times, want 1", closer.closed)
	}
}

func TestSinkStop(t *testing.T) {
	closer := &countingCloser{}
	sink := NewSink()
	sink.Append(constant(100, 1))
	sink.AddCloser(closer)
	sink.SetVolume(0.8)
	sink.Play()
	sink.Stop()

	if !sink.Stopped() || !sink.Empty() {
		t.Fatalf("Stopped() = %v, Empty() = %v; want true, true", sink.Stopped(), sink.Empty())
	}
	if closer.closed != 1 {
		t.Errorf("closer closed %d times, want 1", closer.closed)
	}
	if n, ok := sink.Stream(make([][2]float64, 4)); n != 0 || ok {
		t.Errorf("Stream() on stopped sink = %d, %v; want 0, false", n, ok)
	}

	// control after a stop does nothing
	sink.SetVolume(0.2)
	if got := sink.Volume(); got != 0.8 {
		t.Errorf("Volume() after stop = %v, want 0.8", got)
	}
	sink.Append(constant(10, 1))
	if !sink.Empty() {
		t.Error("Append after stop queued audio")
	}
	sink.Stop()
	if closer.closed != 1 {
		t.Errorf("second Stop closed again: %d", closer.closed)
	}

	late := &countingCloser{}
	sink.AddCloser(late)
	if late.closed != 1 {
		t.Error("closer added to a stopped sink should be closed immediately")
	}
}

func TestSinkPauseHoldsPosition(t *testing.T) {
	sink := NewSink()
	sink.Append(counting(6))
	sink.Play()

	buf := make([][2]float64, 2)
	sink.Stream(buf)
	sink.Pause()
	sink.Stream(buf)
	sink.Play()

	n, _ := sink.Stream(buf)
	if n != 2 || math.Abs(buf[0][0]-0.2) > 1e-9 || math.Abs(buf[1][0]-0.3) > 1e-9 {
		t.Errorf("after resume got %v (n=%d), want samples 2 and 3", buf[:n], n)
	}
}

// stalled blocks inside Stream until released, like a file being opened
type stalled struct {
	entered chan struct{}
	release chan struct{}
}

func (s *stalled) Stream(samples [][2]float64) (int, bool) {
	select {
	case s.entered <- struct{}{}:
	default:
	}
	<-s.release
	clear(samples)
	return len(samples), true
}

func (s *stalled) Err() error { return nil }

func TestSinkControlsDuringSlowPull(t *testing.T) {
	src := &stalled{entered: make(chan struct{}, 1), release: make(chan struct{})}
	closer := &countingCloser{}

	sink := NewSink()
	sink.Append(src)
	sink.AddCloser(closer)
	sink.Play()

	var (
		n  int
		ok bool
	)
	pulled := make(chan struct{})
	go func() {
		defer close(pulled)
		n, ok = sink.Stream(make([][2]float64, 4))
	}()
	<-src.entered

	controlled := make(chan struct{})
	go func() {
		defer close(controlled)
		sink.SetVolume(0.5)
		sink.Empty()
		sink.Stop()
	}()

	select {
	case <-controlled:
	case <-time.After(5 * time.Second):
		t.Fatal("control calls blocked while the output was pulling")
	}
	if closer.closed != 0 {
		t.Error("closers released while the output was still pulling")
	}

	close(src.release)
	<-pulled

	if n != 0 || ok {
		t.Errorf("Stream() = %d, %v; want 0, false after Stop", n, ok)
	}
	if closer.closed != 1 {
		t.Errorf("closed %d times, want 1", closer.closed)
	}
}

package engine

import (
	"math"
	"sync"
	"testing"
	"time"

	"cuebox/playback"

	"github.com/gopxl/beep/v2"
)

type fakeFadeable struct {
	mu      sync.Mutex
	volume  float64
	history []float64
	stopped bool
}

func (f *fakeFadeable) Volume() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.volume
}

func (f *fakeFadeable) SetVolume(v float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.volume = v
	f.history = append(f.history, v)
}

func (f *fakeFadeable) Stop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stopped = true
}

func TestPlanFade(t *testing.T) {
	tests := []struct {
		name      string
		current   int
		desired   int
		duration  time.Duration
		wantSteps int
		wantDelay time.Duration
	}{
		{name: "down", current: 80, desired: 20, duration: time.Second, wantSteps: 60, wantDelay: time.Second / 60},
		{name: "up", current: 20, desired: 80, duration: time.Second, wantSteps: 60, wantDelay: time.Second / 60},
		{name: "to silence", current: 100, desired: 0, duration: 5 * time.Second, wantSteps: 100, wantDelay: 50 * time.Millisecond},
		{name: "already there", current: 50, desired: 50, duration: time.Second},
		{name: "instant", current: 100, desired: 0, duration: 0, wantSteps: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			steps, delay := PlanFade(tt.current, tt.desired, tt.duration)
			if steps != tt.wantSteps || delay != tt.wantDelay {
				t.Errorf("PlanFade() = %d, %v; want %d, %v", steps, delay, tt.wantSteps, tt.wantDelay)
			}
		})
	}
}

func TestFadeRun(t *testing.T) {
	tests := []struct {
		name      string
		from      float64
		to        uint8
		wantSteps int
		wantStop  bool
	}{
		{name: "down", from: 0.8, to: 20, wantSteps: 60},
		{name: "up", from: 0.2, to: 80, wantSteps: 60},
		{name: "out", from: 1, to: 0, wantSteps: 100, wantStop: true},
		{name: "no change", from: 0.5, to: 50, wantSteps: 1},
		{name: "clamped above unity", from: 0.9, to: 200, wantSteps: 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeFadeable{volume: tt.from}
			var slept time.Duration
			f := &Fade{
				Target:   target,
				Volume:   tt.to,
				Duration: time.Second,
				Sleep:    func(d time.Duration) { slept += d },
			}
			f.Run()

			if len(target.history) != tt.wantSteps {
				t.Fatalf("SetVolume called %d times, want %d", len(target.history), tt.wantSteps)
			}

			want := math.Min(float64(tt.to), 100) / 100
			if last := target.history[len(target.history)-1]; math.Abs(last-want) > 1e-9 {
				t.Errorf("final volume = %v, want %v", last, want)
			}

			rising := want > tt.from
			for i := 1; i < len(target.history); i++ {
				prev, cur := target.history[i-1], target.history[i]
				if (rising && cur < prev) || (!rising && cur > prev) {
					t.Fatalf("volume not monotonic at step %d: %v -> %v", i, prev, cur)
				}
			}

			if target.stopped != tt.wantStop {
				t.Errorf("stopped = %v, want %v", target.stopped, tt.wantStop)
			}
			if tt.wantSteps > 1 && (slept < 990*time.Millisecond || slept > time.Second) {
				t.Errorf("slept %v in total, want about 1s", slept)
			}
		})
	}
}

func TestFadeOutStopsSink(t *testing.T) {
	sink := playback.NewSink()
	sink.Append(beep.Silence(-1))
	sink.SetVolume(0.3)
	sink.Play()

	f := &Fade{Target: sink, Volume: 0, Duration: 30 * time.Millisecond, Sleep: func(time.Duration) {}}

	select {
	case <-f.Start():
	case <-time.After(5 * time.Second):
		t.Fatal("fade did not finish")
	}

	if !sink.Stopped() {
		t.Error("fading to zero should stop the sink")
	}
	if sink.Volume() != 0 {
		t.Errorf("Volume() = %v, want 0", sink.Volume())
	}
}

func TestFadeAfterStopIsHarmless(t *testing.T) {
	sink := playback.NewSink()
	sink.SetVolume(1)
	sink.Play()
	sink.Stop()

	f := &Fade{Target: sink, Volume: 50, Duration: time.Second, Sleep: func(time.Duration) {}}
	f.Run()

	if sink.Volume() != 1 {
		t.Errorf("fade changed a stopped sink's volume to %v", sink.Volume())
	}
}

func TestFadeStartReadsVolumeAtSpawn(t *testing.T) {
	target := &fakeFadeable{volume: 0.5}
	g := newGate()
	f := &Fade{Target: target, Volume: 40, Duration: time.Second, Sleep: g.sleep}
	done := f.Start()

	// a change made after Start returns must not move the starting point
	target.SetVolume(0.9)
	close(g.open)
	wait(t, done)

	target.mu.Lock()
	history := append([]float64(nil), target.history...)
	target.mu.Unlock()

	if len(history) != 11 {
		t.Fatalf("SetVolume called %d times, want 11: %v", len(history), history)
	}
	if math.Abs(history[1]-0.49) > 1e-9 {
		t.Errorf("first fade step = %v, want 0.49", history[1])
	}
	if last := history[len(history)-1]; math.Abs(last-0.4) > 1e-9 {
		t.Errorf("final volume = %v, want 0.4", last)
	}
}

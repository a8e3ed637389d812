package engine

import (
	"log/slog"
	"math"
	"time"

	"cuebox/logger"
)

// Fadeable is the part of a sink a fade needs
type Fadeable interface {
	Volume() float64
	SetVolume(volume float64)
	Stop()
}

// Fade ramps the volume of a sink from wherever it currently is to Volume
// percent. One step is taken per percentage point, evenly spread over Duration.
type Fade struct {
	Target   Fadeable
	Volume   uint8
	Duration time.Duration

	// Sleep waits between steps; time.Sleep when nil
	Sleep func(time.Duration)
}

// PlanFade returns how many steps a fade from current to desired percent takes
// and how long to wait before each one
func PlanFade(current, desired int, duration time.Duration) (steps int, delay time.Duration) {
	steps = current - desired
	if steps < 0 {
		steps = -steps
	}
	if steps == 0 {
		return 0, 0
	}
	return steps, duration / time.Duration(steps)
}

// Run executes the fade on the calling goroutine
func (f *Fade) Run() {
	f.run(percent(f.Target.Volume()))
}

func (f *Fade) run(current int) {
	sleep := f.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}

	desired := int(f.Volume)
	if desired > 100 {
		desired = 100
	}

	steps, delay := PlanFade(current, desired, f.Duration)
	if steps == 0 {
		f.Target.SetVolume(float64(desired) / 100)
	}

	dir := 1
	if desired < current {
		dir = -1
	}

	for i := 1; i <= steps; i++ {
		sleep(delay)
		f.Target.SetVolume(float64(current+dir*i) / 100)
	}

	if desired == 0 {
		f.Target.Stop()
	}
}

// Start runs the fade in the background. The starting volume is read before
// Start returns. The returned channel is closed when the fade has finished.
func (f *Fade) Start() <-chan struct{} {
	current := percent(f.Target.Volume())
	done := make(chan struct{})
	go func() {
		defer close(done)
		f.run(current)
	}()
	return done
}

// StartFade fades target to volume percent over duration in the background
func StartFade(target Fadeable, volume uint8, duration time.Duration) <-chan struct{} {
	logger.WithComponent("fade").Debug("Starting fade",
		slog.Int("volume", int(volume)),
		slog.Duration("duration", duration))

	f := &Fade{Target: target, Volume: volume, Duration: duration}
	return f.Start()
}

func percent(volume float64) int {
	p := int(math.Round(volume * 100))
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

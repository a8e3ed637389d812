package cue

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cuebox/engine"
	"cuebox/logger"
	"cuebox/playback"
)

// ErrConsumed is returned when an executable is run a second time
var ErrConsumed = errors.New("cue has already been executed")

// PlaybackExecutable starts a prepared sink. Playback and playlist cues both
// produce one.
type PlaybackExecutable struct {
	label string
	sink  *playback.Sink
	meta  *playback.Meta
	used  bool
}

func newPlaybackExecutable(label string, sink *playback.Sink, meta *playback.Meta) *PlaybackExecutable {
	return &PlaybackExecutable{label: label, sink: sink, meta: meta}
}

// Label returns the label the sink is registered under; empty when anonymous
func (x *PlaybackExecutable) Label() string { return x.label }

// Sink returns the prepared sink
func (x *PlaybackExecutable) Sink() *playback.Sink { return x.sink }

// Meta returns the progress metadata shared with the sink's sources
func (x *PlaybackExecutable) Meta() *playback.Meta { return x.meta }

// Execute hands the sink to the output and starts it. Labelled cues are
// registered with the engine, anonymous ones play detached.
func (x *PlaybackExecutable) Execute(e *engine.Engine) error {
	if x.used {
		return ErrConsumed
	}
	x.used = true

	if err := e.Output().Play(x.sink); err != nil {
		x.sink.Stop()
		return fmt.Errorf("failed to start playback: %w", err)
	}
	x.sink.Play()

	if x.label != "" {
		e.Add(x.label, x.sink, x.meta)
	}
	return nil
}

// Discard stops the never-started sink and closes its files
func (x *PlaybackExecutable) Discard() {
	x.used = true
	x.sink.Stop()
}

// FadeExecutable fades a registered sink
type FadeExecutable struct {
	Target   string
	Volume   uint8
	Duration time.Duration
}

// Execute looks the target up and starts the fade without waiting for it
func (x *FadeExecutable) Execute(e *engine.Engine) error {
	var sinks []*playback.Sink
	if x.Target == TargetAll {
		sinks = e.Sinks()
	} else {
		sink, ok := e.Get(x.Target)
		if !ok {
			return &engine.MissingTargetError{Target: x.Target}
		}
		sinks = append(sinks, sink)
	}

	logger.WithComponent("cue").Info("Fading cue",
		slog.String("target", x.Target),
		slog.Int("volume", int(x.Volume)),
		slog.Duration("duration", x.Duration))

	for _, sink := range sinks {
		engine.StartFade(sink, x.Volume, x.Duration)
	}
	return nil
}

// Discard implements Executable
func (x *FadeExecutable) Discard() {}

// StopExecutable stops a registered sink, or all of them
type StopExecutable struct {
	Target string
}

// Execute removes the target from the engine and stops it
func (x *StopExecutable) Execute(e *engine.Engine) error {
	if x.Target == TargetAll {
		e.StopAll()
		return nil
	}

	sink, ok := e.Take(x.Target)
	if !ok {
		return &engine.MissingTargetError{Target: x.Target}
	}
	sink.Stop()

	logger.WithComponent("cue").Info("Stopped cue", slog.String("target", x.Target))
	return nil
}

// Discard implements Executable
func (x *StopExecutable) Discard() {}

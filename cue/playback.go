package cue

import (
	"fmt"
	"time"

	"cuebox/playback"

	"github.com/gopxl/beep/v2"
	"gopkg.in/yaml.v3"
)

// PlaybackCue plays a single file
type PlaybackCue struct {
	File     string
	Volume   *uint8
	Repeat   bool
	Duration *Seconds
	FadeIn   *Seconds
	FadeOut  *Seconds

	// Cache keeps the decoded file in memory between firings
	Cache bool
}

// NewPlaybackCue plays file once at the sink's default volume
func NewPlaybackCue(file string) PlaybackCue {
	return PlaybackCue{File: file}
}

// ForDuration truncates (or, when repeating, bounds each pass of) the file
func (c PlaybackCue) ForDuration(d time.Duration) PlaybackCue {
	c.Duration = SecondsOf(d)
	return c
}

// FadeInFor ramps the start of the playback in over d
func (c PlaybackCue) FadeInFor(d time.Duration) PlaybackCue {
	c.FadeIn = SecondsOf(d)
	return c
}

// FadeOutFor ramps the end of the playback out over d
func (c PlaybackCue) FadeOutFor(d time.Duration) PlaybackCue {
	c.FadeOut = SecondsOf(d)
	return c
}

// WithVolume sets the initial volume in percent
func (c PlaybackCue) WithVolume(v uint8) PlaybackCue {
	c.Volume = &v
	return c
}

// Looped makes the playback repeat indefinitely
func (c PlaybackCue) Looped() PlaybackCue {
	c.Repeat = true
	return c
}

// Cached decodes the file into memory once and reuses it on every firing
func (c PlaybackCue) Cached() PlaybackCue {
	c.Cache = true
	return c
}

// Kind implements Action
func (PlaybackCue) Kind() string { return "playback" }

type playbackDocument struct {
	File     string   `yaml:"file"`
	Volume   *uint8   `yaml:"volume"`
	Repeat   bool     `yaml:"repeat"`
	Loop     bool     `yaml:"loop"`
	Duration *Seconds `yaml:"duration"`
	FadeIn   *Seconds `yaml:"fade_in"`
	FadeOut  *Seconds `yaml:"fade_out"`
	Cache    bool     `yaml:"cache"`
}

// UnmarshalYAML accepts either a file name or a full mapping
func (c *PlaybackCue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = NewPlaybackCue(node.Value)
		return nil
	}

	var doc playbackDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}
	if doc.File == "" {
		return fmt.Errorf("line %d: playback requires a file", node.Line)
	}

	*c = PlaybackCue{
		File:     doc.File,
		Volume:   doc.Volume,
		Repeat:   doc.Repeat || doc.Loop,
		Duration: doc.Duration,
		FadeIn:   doc.FadeIn,
		FadeOut:  doc.FadeOut,
		Cache:    doc.Cache,
	}
	return nil
}

// Prepare decodes the file and composes the stream into an idle sink
func (c PlaybackCue) Prepare(label string, rate beep.SampleRate) (Executable, error) {
	open := playback.Decode
	if c.Cache {
		open = playback.DefaultCache().Open
	}

	decoded, err := open(c.File)
	if err != nil {
		return nil, &PrepareError{Label: label, Path: c.File, Err: err}
	}

	var duration time.Duration
	if c.Duration != nil {
		duration = c.Duration.Duration()
	} else {
		duration, err = decoded.Duration()
		if err != nil {
			decoded.Close()
			return nil, &PrepareError{Label: label, Path: c.File, Err: err}
		}
	}

	native := decoded.Format.SampleRate.N(duration)

	var s beep.Streamer
	if c.Repeat {
		s = playback.Loop(decoded, native)
	} else {
		s = beep.Take(native, decoded)
	}

	s = playback.Resample(s, decoded.Format.SampleRate, rate)

	if c.FadeIn != nil {
		s = playback.FadeIn(s, rate.N(c.FadeIn.Duration()))
	}

	meta := playback.NewMeta(duration)
	s = playback.Periodic(s, rate.N(duration), meta.Restart)

	sink := playback.NewSink()
	sink.AddCloser(decoded)

	if c.FadeOut != nil {
		fade := min(c.FadeOut.Duration(), duration)
		sink.Append(beep.Take(rate.N(duration-fade), s))
		sink.Append(playback.FadeOut(beep.Take(rate.N(fade), s), rate.N(fade)))
	} else {
		sink.Append(s)
	}

	if c.Volume != nil {
		sink.SetVolume(float64(*c.Volume) / 100)
	}

	return newPlaybackExecutable(label, sink, meta), nil
}

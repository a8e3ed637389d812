package playback

import (
	"errors"
	"sync"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
)

var (
	ErrClosed            = errors.New("output device is closed")
	ErrUnsupportedFormat = errors.New("unsupported audio format")
	ErrUnknownLength     = errors.New("unable to determine audio length")
)

// DefaultSampleRate is used when no rate is configured
var DefaultSampleRate = beep.SampleRate(44100)

const resampleQuality = 4

// Output is the capability to hand a sink to the audio hardware.
type Output interface {
	// Play starts pulling samples from s. Sources must already be at SampleRate.
	Play(s beep.Streamer) error
	// SampleRate returns the rate every played streamer must produce.
	SampleRate() beep.SampleRate
}

// Device is the speaker-backed Output. All started sinks are mixed into a
// single stream that passes through a master gain stage.
type Device struct {
	mixer      *beep.Mixer
	master     *effects.Gain
	mu         sync.RWMutex
	closed     bool
	sampleRate beep.SampleRate
}

var _ Output = (*Device)(nil)

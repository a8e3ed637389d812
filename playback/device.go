package playback

import (
	"fmt"
	"log/slog"
	"time"

	"cuebox/logger"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
)

// NewDevice opens the default output device at the given sample rate
func NewDevice(sampleRate beep.SampleRate, buffer time.Duration) (*Device, error) {
	if sampleRate <= 0 {
		sampleRate = DefaultSampleRate
	}

	err := speaker.Init(sampleRate, sampleRate.N(buffer))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	mixer := &beep.Mixer{}
	// Sinks come and go; the mixer keeps the speaker fed with silence in between.
	mixer.KeepAlive(true)

	device := &Device{
		mixer:      mixer,
		master:     &effects.Gain{Streamer: mixer},
		sampleRate: sampleRate,
	}

	speaker.Play(device.master)

	logger.WithComponent("device").Info("Audio output opened",
		slog.Int("sample_rate", int(sampleRate)),
		slog.Duration("buffer", buffer))

	return device, nil
}

// Play adds a streamer to the output mixer
func (d *Device) Play(s beep.Streamer) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return ErrClosed
	}

	speaker.Lock()
	d.mixer.Add(s)
	speaker.Unlock()

	return nil
}

// SampleRate returns the rate the speaker was opened with
func (d *Device) SampleRate() beep.SampleRate {
	return d.sampleRate
}

// SetMaster sets the master volume in percent (0-100)
func (d *Device) SetMaster(percent uint8) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	speaker.Lock()
	d.master.Gain = float64(percent)/100 - 1
	speaker.Unlock()
}

// Active returns the number of streamers currently mixed
func (d *Device) Active() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return 0
	}

	speaker.Lock()
	n := d.mixer.Len()
	speaker.Unlock()

	return n
}

// Close silences every streamer and releases the speaker
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	d.closed = true

	speaker.Lock()
	d.mixer.Clear()
	speaker.Unlock()

	speaker.Close()

	return nil
}

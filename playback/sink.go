package playback

import (
	"errors"
	"io"
	"sync"

	"github.com/gopxl/beep/v2"
)

// Sink is a controllable handle to a queue of streamers. It is itself a
// beep.Streamer and is handed to an Output once started.
//
// A Sink is safe for concurrent use: the output pulls samples from one
// goroutine while the control loop and fades change its state from others.
// Every control operation on a stopped sink is a no-op.
type Sink struct {
	mu      sync.Mutex
	queue   []beep.Streamer
	closers []io.Closer
	volume  float64
	paused  bool
	stopped bool
	closed  bool
	err     error

	// set while the output pulls from the head of the queue without mu held
	streaming bool
}

var _ beep.Streamer = (*Sink)(nil)

// NewSink creates an idle sink. It produces silence until Play is called.
func NewSink() *Sink {
	return &Sink{
		volume: 1,
		paused: true,
	}
}

// Append queues s after everything already queued
func (s *Sink) Append(streamer beep.Streamer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.queue = append(s.queue, streamer)
}

// AddCloser registers a resource that is released once the sink is drained or stopped
func (s *Sink) AddCloser(c io.Closer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		_ = c.Close()
		return
	}
	s.closers = append(s.closers, c)
}

// Play resumes output
func (s *Sink) Play() {
	s.mu.Lock()
	s.paused = false
	s.mu.Unlock()
}

// Pause holds the queue in place and outputs silence
func (s *Sink) Pause() {
	s.mu.Lock()
	s.paused = true
	s.mu.Unlock()
}

// Paused reports whether the sink is paused
func (s *Sink) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// SetVolume sets the linear amplitude multiplier (1.0 is unity gain)
func (s *Sink) SetVolume(volume float64) {
	if volume < 0 {
		volume = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}
	s.volume = volume
}

// Volume returns the current amplitude multiplier
func (s *Sink) Volume() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Stop drops everything queued. The output removes the sink on its next pull.
func (s *Sink) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	s.queue = nil
	// a sink being pulled releases its closers once the pull returns
	if !s.streaming {
		s.releaseLocked()
	}
}

// Stopped reports whether Stop has been called
func (s *Sink) Stopped() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped
}

// Empty reports whether the sink has no more audio to produce
func (s *Sink) Empty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stopped || len(s.queue) == 0
}

// Stream implements beep.Streamer
func (s *Sink) Stream(samples [][2]float64) (n int, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return 0, false
	}

	if s.paused {
		clear(samples)
		return len(samples), true
	}

	for n < len(samples) && len(s.queue) > 0 {
		head := s.queue[0]
		sn, sok := s.pull(head, samples[n:])
		if s.stopped {
			s.releaseLocked()
			return 0, false
		}

		n += sn
		if !sok {
			if err := head.Err(); err != nil && s.err == nil {
				s.err = err
			}
			s.queue[0] = nil
			s.queue = s.queue[1:]
			continue
		}
		if sn == 0 {
			break
		}
	}

	for i := range samples[:n] {
		samples[i][0] *= s.volume
		samples[i][1] *= s.volume
	}

	if len(s.queue) == 0 {
		s.releaseLocked()
		if n == 0 {
			return 0, false
		}
	}

	return n, true
}

// pull streams from head with mu released. Only the output goroutine pulls.
func (s *Sink) pull(head beep.Streamer, samples [][2]float64) (int, bool) {
	s.streaming = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.streaming = false
	}()
	return head.Stream(samples)
}

// Err returns the first error reported by a queued streamer
func (s *Sink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Sink) releaseLocked() {
	if s.closed {
		return
	}
	s.closed = true

	var errs []error
	for _, c := range s.closers {
		if err := c.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	s.closers = nil

	if err := errors.Join(errs...); err != nil && s.err == nil {
		s.err = err
	}
}

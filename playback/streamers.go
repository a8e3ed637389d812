package playback

import (
	"github.com/gopxl/beep/v2"
)

// Resample converts s from one rate to another, passing it through untouched
// when the rates already match
func Resample(s beep.Streamer, from, to beep.SampleRate) beep.Streamer {
	if from == to || from <= 0 || to <= 0 {
		return s
	}
	return beep.Resample(resampleQuality, from, to, s)
}

// Loop plays the first n samples of s over and over. A pass that yields no
// audio at all ends the loop so an empty source cannot spin forever.
func Loop(s beep.StreamSeeker, n int) beep.Streamer {
	return &looper{
		src:  s,
		num:  n,
		pass: beep.Take(n, s),
	}
}

type looper struct {
	src      beep.StreamSeeker
	num      int
	pass     beep.Streamer
	produced bool
	err      error
}

func (l *looper) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) {
		sn, sok := l.pass.Stream(samples[n:])
		n += sn
		if sn > 0 {
			l.produced = true
		}
		if sok {
			continue
		}
		if !l.produced {
			return n, n > 0
		}
		if err := l.src.Seek(0); err != nil {
			l.err = err
			return n, n > 0
		}
		l.produced = false
		l.pass = beep.Take(l.num, l.src)
	}
	return n, true
}

func (l *looper) Err() error {
	if l.err != nil {
		return l.err
	}
	return l.src.Err()
}

// Periodic calls fn before the first sample and again every period samples.
// A non-positive period fires only once.
func Periodic(s beep.Streamer, period int, fn func()) beep.Streamer {
	return &periodic{s: s, period: period, fn: fn}
}

type periodic struct {
	s      beep.Streamer
	period int
	until  int
	fired  bool
	fn     func()
}

func (p *periodic) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = p.s.Stream(samples)

	left := n
	for left > 0 {
		if !p.fired || (p.period > 0 && p.until == 0) {
			p.fired = true
			p.until = p.period
			p.fn()
		}
		if p.period <= 0 {
			break
		}
		step := min(left, p.until)
		p.until -= step
		left -= step
	}

	return n, ok
}

func (p *periodic) Err() error {
	return p.s.Err()
}

// FadeIn ramps the amplitude of s linearly from silence to unity over the
// first n samples
func FadeIn(s beep.Streamer, n int) beep.Streamer {
	return &ramp{s: s, length: n, from: 0, to: 1}
}

// FadeOut ramps the amplitude of s linearly from unity to silence over the
// first n samples and keeps it silent afterwards
func FadeOut(s beep.Streamer, n int) beep.Streamer {
	return &ramp{s: s, length: n, from: 1, to: 0}
}

type ramp struct {
	s        beep.Streamer
	pos      int
	length   int
	from, to float64
}

func (r *ramp) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = r.s.Stream(samples)

	for i := range samples[:n] {
		gain := r.to
		if r.pos < r.length {
			gain = r.from + (r.to-r.from)*float64(r.pos)/float64(r.length)
		}
		samples[i][0] *= gain
		samples[i][1] *= gain
		r.pos++
	}

	return n, ok
}

func (r *ramp) Err() error {
	return r.s.Err()
}

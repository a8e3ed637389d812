package cue

import (
	"github.com/gopxl/beep/v2"
)

// State is the load state of a Lazy slot
type State int

const (
	StateNotLoaded State = iota
	StateReady
	StateError
)

func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StateError:
		return "error"
	default:
		return "not loaded"
	}
}

// Lazy caches at most one prepared executable for a cue. A slot that failed
// to prepare stays failed until Reset.
type Lazy struct {
	state State
	exec  Executable
	err   error
}

// Load prepares p if the slot is empty. Only the transition into the error
// state returns an error; loading a ready or failed slot again does nothing.
func (l *Lazy) Load(p Preparer, rate beep.SampleRate) error {
	if l.state != StateNotLoaded {
		return nil
	}

	x, err := p.Prepare(rate)
	if err != nil {
		l.state = StateError
		l.err = err
		return err
	}

	l.state = StateReady
	l.exec = x
	return nil
}

// Take hands out the cached executable and empties the slot
func (l *Lazy) Take() (Executable, bool) {
	if l.state != StateReady {
		return nil, false
	}
	x := l.exec
	l.exec = nil
	l.state = StateNotLoaded
	return x, true
}

// State returns the current load state
func (l *Lazy) State() State {
	return l.state
}

// Err returns the preparation error of a failed slot
func (l *Lazy) Err() error {
	return l.err
}

// Reset empties the slot, discarding a cached executable
func (l *Lazy) Reset() {
	if l.exec != nil {
		l.exec.Discard()
	}
	*l = Lazy{}
}

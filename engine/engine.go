package engine

import (
	"io"
	"log/slog"
	"sort"
	"sync"

	"cuebox/logger"
	"cuebox/playback"
)

type activeCue struct {
	sink *playback.Sink
	meta *playback.Meta
}

// Entry is a labelled progress record of an active cue
type Entry struct {
	Label string
	Meta  *playback.Meta
}

// Engine owns the output device and the registry of currently playing cues
type Engine struct {
	output playback.Output
	logger *slog.Logger
	mu     sync.RWMutex
	sinks  map[string]*activeCue
}

// New creates an Engine playing through output
func New(output playback.Output) *Engine {
	return &Engine{
		output: output,
		logger: logger.WithComponent("engine"),
		sinks:  make(map[string]*activeCue),
	}
}

// Output returns the device sinks are played through
func (e *Engine) Output() playback.Output {
	return e.output
}

// Add registers sink under label. A sink already registered under the same
// label is stopped and replaced.
func (e *Engine) Add(label string, sink *playback.Sink, meta *playback.Meta) {
	e.mu.Lock()
	old := e.sinks[label]
	e.sinks[label] = &activeCue{sink: sink, meta: meta}
	e.mu.Unlock()

	if old != nil && old.sink != sink {
		old.sink.Stop()
		e.logger.Debug("Replaced active cue", slog.String("label", label))
	}
}

// Get looks up the sink registered under label without removing it
func (e *Engine) Get(label string) (*playback.Sink, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c, ok := e.sinks[label]
	if !ok {
		return nil, false
	}
	return c.sink, true
}

// Take removes the sink registered under label and hands it to the caller
func (e *Engine) Take(label string) (*playback.Sink, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.sinks[label]
	if !ok {
		return nil, false
	}
	delete(e.sinks, label)
	return c.sink, true
}

// Sinks returns every registered sink
func (e *Engine) Sinks() []*playback.Sink {
	e.mu.RLock()
	defer e.mu.RUnlock()

	sinks := make([]*playback.Sink, 0, len(e.sinks))
	for _, c := range e.sinks {
		sinks = append(sinks, c.sink)
	}
	return sinks
}

// StopAll stops and forgets every registered sink
func (e *Engine) StopAll() {
	e.mu.Lock()
	drained := e.sinks
	e.sinks = make(map[string]*activeCue)
	e.mu.Unlock()

	for _, c := range drained {
		c.sink.Stop()
	}

	if len(drained) > 0 {
		e.logger.Info("Stopped all cues", slog.Int("count", len(drained)))
	}
}

// Metadata returns a snapshot of the active cues sorted by label
func (e *Engine) Metadata() []Entry {
	e.mu.RLock()
	entries := make([]Entry, 0, len(e.sinks))
	for label, c := range e.sinks {
		entries = append(entries, Entry{Label: label, Meta: c.meta})
	}
	e.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Label < entries[j].Label
	})
	return entries
}

// GC forgets every sink that has nothing left to play and returns how many were removed
func (e *Engine) GC() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	removed := 0
	for label, c := range e.sinks {
		if c.sink.Empty() {
			delete(e.sinks, label)
			removed++
			e.logger.Debug("Cue finished", slog.String("label", label))
		}
	}
	return removed
}

// Len returns the number of registered sinks
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.sinks)
}

// Close stops everything and closes the output when it supports it
func (e *Engine) Close() error {
	e.StopAll()

	if c, ok := e.output.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

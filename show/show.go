package show

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"cuebox/cue"
	"cuebox/engine"
	"cuebox/logger"
	"cuebox/playback"

	"github.com/gopxl/beep/v2"
)

// ErrNotLoaded is returned when the selected cue has no prepared executable
var ErrNotLoaded = errors.New("cue failed to load")

// ActiveCue is a progress snapshot of a playing cue
type ActiveCue struct {
	Label   string
	Elapsed time.Duration
	Total   time.Duration
}

// Progress formats the snapshot as MM:SS/MM:SS
func (a ActiveCue) Progress() string {
	return playback.FormatClock(a.Elapsed) + "/" + playback.FormatClock(a.Total)
}

// Show drives a script: it tracks the selected cue, keeps one prepared
// executable per cue and runs them against the engine. It is not safe for
// concurrent use; the control loop owns it.
type Show struct {
	script   *cue.Script
	engine   *engine.Engine
	rate     beep.SampleRate
	cache    []cue.Lazy
	selected int
	logger   *slog.Logger
}

// New creates a show for script playing through eng and preloads the first cue
func New(script *cue.Script, eng *engine.Engine) *Show {
	s := &Show{
		script: script,
		engine: eng,
		rate:   eng.Output().SampleRate(),
		cache:  make([]cue.Lazy, len(script.Cuelist)),
		logger: logger.WithComponent("show"),
	}
	s.preload(0)
	return s
}

// Cues returns the cue list in order
func (s *Show) Cues() []cue.Cue {
	return s.script.Cuelist
}

// Selected returns the index of the selected cue
func (s *Show) Selected() int {
	return s.selected
}

// Status returns the cache state of cue i and its preparation error, if any
func (s *Show) Status(i int) (cue.State, error) {
	if i < 0 || i >= len(s.cache) {
		return cue.StateNotLoaded, nil
	}
	return s.cache[i].State(), s.cache[i].Err()
}

// SelectNext moves the selection down, wrapping to the first cue
func (s *Show) SelectNext() {
	if len(s.cache) == 0 {
		return
	}
	s.selected = (s.selected + 1) % len(s.cache)
	s.preload(s.selected)
}

// SelectPrev moves the selection up, wrapping to the last cue
func (s *Show) SelectPrev() {
	if len(s.cache) == 0 {
		return
	}
	s.selected = (s.selected + len(s.cache) - 1) % len(s.cache)
	s.preload(s.selected)
}

// ExecuteSelected prepares the selected cue if needed and runs it
func (s *Show) ExecuteSelected() error {
	if len(s.cache) == 0 {
		return ErrNotLoaded
	}

	c := s.script.Cuelist[s.selected]
	slot := &s.cache[s.selected]
	s.load(c, slot)

	x, ok := slot.Take()
	if !ok {
		if err := slot.Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrNotLoaded, err)
		}
		return ErrNotLoaded
	}

	s.logger.Info("Executing cue", slog.String("label", c.Label), slog.String("action", c.Action.Kind()))
	return x.Execute(s.engine)
}

// Reload drops the cached executable of the selected cue, clearing a failed
// load so it can be tried again
func (s *Show) Reload() {
	if len(s.cache) == 0 {
		return
	}
	s.cache[s.selected].Reset()
	s.preload(s.selected)
}

// StopAll stops every active cue
func (s *Show) StopAll() {
	s.engine.StopAll()
}

// Upkeep forgets cues that have finished playing
func (s *Show) Upkeep() {
	s.engine.GC()
}

// Active returns progress snapshots of the playing cues
func (s *Show) Active() []ActiveCue {
	entries := s.engine.Metadata()
	active := make([]ActiveCue, len(entries))
	for i, e := range entries {
		elapsed, total := e.Meta.Progress()
		active[i] = ActiveCue{Label: e.Label, Elapsed: elapsed, Total: total}
	}
	return active
}

// Close discards every prepared cue and shuts the engine down
func (s *Show) Close() error {
	for i := range s.cache {
		s.cache[i].Reset()
	}
	return s.engine.Close()
}

func (s *Show) preload(i int) {
	if i < 0 || i >= len(s.cache) {
		return
	}
	s.load(s.script.Cuelist[i], &s.cache[i])
}

func (s *Show) load(c cue.Cue, slot *cue.Lazy) {
	if err := slot.Load(c, s.rate); err != nil {
		s.logger.Error("Failed to load cue", slog.String("label", c.Label), slog.Any("error", err))
	}
}

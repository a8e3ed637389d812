package cue

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"cuebox/engine"

	"github.com/gopxl/beep/v2"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// TargetAll is the stop/fade target that addresses every active cue
const TargetAll = "all"

// DefaultFadeDuration applies to fade cues that omit a duration
const DefaultFadeDuration = 5 * time.Second

// Action is one kind of triggerable work. Prepare does all the expensive and
// fallible setup without any audible effect; the returned Executable performs
// the side effect.
type Action interface {
	// Kind names the action as it appears in a script
	Kind() string
	// Prepare builds an executable producing audio at rate. An empty label
	// makes an anonymous cue that is not tracked by the engine.
	Prepare(label string, rate beep.SampleRate) (Executable, error)
}

// Executable is a prepared, one-shot cue
type Executable interface {
	// Execute performs the cue against the engine. It may only be called once.
	Execute(e *engine.Engine) error
	// Discard releases whatever Prepare acquired without running the cue
	Discard()
}

// Preparer is anything that can produce an Executable on demand
type Preparer interface {
	Prepare(rate beep.SampleRate) (Executable, error)
}

// Seconds is a duration written in a script as fractional seconds
type Seconds time.Duration

// Duration converts s to a time.Duration
func (s Seconds) Duration() time.Duration {
	return time.Duration(s)
}

// UnmarshalYAML reads a non-negative number of seconds
func (s *Seconds) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: expected a number of seconds", node.Line)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(node.Value), 64)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, node.Value, err)
	}
	if v < 0 {
		return fmt.Errorf("line %d: duration must not be negative", node.Line)
	}
	*s = Seconds(time.Duration(v * float64(time.Second)))
	return nil
}

// MarshalYAML writes s as fractional seconds
func (s Seconds) MarshalYAML() (interface{}, error) {
	return time.Duration(s).Seconds(), nil
}

// SecondsOf is a helper for building optional durations in code
func SecondsOf(d time.Duration) *Seconds {
	s := Seconds(d)
	return &s
}

func normalizeLabel(label string) string {
	return norm.NFC.String(strings.TrimSpace(label))
}

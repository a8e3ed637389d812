package cue

import "fmt"

// PrepareError is returned when a cue cannot be made ready to run
type PrepareError struct {
	Label string
	Path  string
	Err   error
}

func (e *PrepareError) Error() string {
	name := e.Label
	if name == "" {
		name = "<anonymous>"
	}
	if e.Path != "" {
		return fmt.Sprintf("cue %s: %s: %v", name, e.Path, e.Err)
	}
	return fmt.Sprintf("cue %s: %v", name, e.Err)
}

func (e *PrepareError) Unwrap() error {
	return e.Err
}

// ValidationError describes a script that cannot be run
type ValidationError struct {
	Cue     string
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Cue == "" {
		return e.Field + ": " + e.Message
	}
	return fmt.Sprintf("cue %s: %s %q: %s", e.Cue, e.Field, e.Value, e.Message)
}

package engine

import "fmt"

// MissingTargetError is returned when a cue refers to a label that is not
// currently playing
type MissingTargetError struct {
	Target string
}

func (e *MissingTargetError) Error() string {
	return fmt.Sprintf("couldn't find target cue %s", e.Target)
}

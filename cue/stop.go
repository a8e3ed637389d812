package cue

import (
	"github.com/gopxl/beep/v2"
	"gopkg.in/yaml.v3"
)

// StopCue silences a playing cue, or every cue when the target is "all"
type StopCue struct {
	Target string
}

// NewStopCue stops target
func NewStopCue(target string) StopCue {
	return StopCue{Target: normalizeLabel(target)}
}

// Kind implements Action
func (StopCue) Kind() string { return "stop" }

// UnmarshalYAML accepts either a target label or a mapping with a target key
func (c *StopCue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = NewStopCue(node.Value)
		return nil
	}

	var doc struct {
		Target string `yaml:"target"`
	}
	if err := node.Decode(&doc); err != nil {
		return err
	}

	*c = NewStopCue(doc.Target)
	return nil
}

// Prepare has nothing to load
func (c StopCue) Prepare(string, beep.SampleRate) (Executable, error) {
	return &StopExecutable{Target: c.Target}, nil
}

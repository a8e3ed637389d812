package cue

import (
	"time"

	"github.com/gopxl/beep/v2"
	"gopkg.in/yaml.v3"
)

// FadeCue ramps the volume of a playing cue
type FadeCue struct {
	Target   string
	Volume   uint8
	Duration Seconds
}

// NewFadeCue fades target to silence over the default duration
func NewFadeCue(target string) FadeCue {
	return FadeCue{
		Target:   normalizeLabel(target),
		Duration: Seconds(DefaultFadeDuration),
	}
}

// ToVolume sets the volume in percent the fade ends at
func (c FadeCue) ToVolume(v uint8) FadeCue {
	c.Volume = v
	return c
}

// ForDuration sets how long the fade takes
func (c FadeCue) ForDuration(d time.Duration) FadeCue {
	c.Duration = Seconds(d)
	return c
}

// Kind implements Action
func (FadeCue) Kind() string { return "fade" }

type fadeDocument struct {
	Target   string   `yaml:"target"`
	Volume   uint8    `yaml:"volume"`
	Duration *Seconds `yaml:"duration"`
}

// UnmarshalYAML accepts either a target label or a full mapping
func (c *FadeCue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = NewFadeCue(node.Value)
		return nil
	}

	var doc fadeDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}

	*c = NewFadeCue(doc.Target).ToVolume(doc.Volume)
	if doc.Duration != nil {
		c.Duration = *doc.Duration
	}
	return nil
}

// Prepare has nothing to load; the target is resolved when the cue runs
func (c FadeCue) Prepare(string, beep.SampleRate) (Executable, error) {
	return &FadeExecutable{
		Target:   c.Target,
		Volume:   c.Volume,
		Duration: c.Duration.Duration(),
	}, nil
}

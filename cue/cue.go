package cue

import (
	"fmt"

	"github.com/gopxl/beep/v2"
	"gopkg.in/yaml.v3"
)

// Cue is a named, user-triggerable unit of show control
type Cue struct {
	Label       string
	Description string
	Hint        string
	Action      Action
}

// New creates a cue with the given label and action
func New(label string, action Action) Cue {
	return Cue{Label: normalizeLabel(label), Action: action}
}

// WithDescription returns a copy of c with the description set
func (c Cue) WithDescription(desc string) Cue {
	c.Description = desc
	return c
}

// WithHint returns a copy of c with the hint set
func (c Cue) WithHint(hint string) Cue {
	c.Hint = hint
	return c
}

// Prepare builds the cue's executable, tracked under the cue's label
func (c Cue) Prepare(rate beep.SampleRate) (Executable, error) {
	if c.Action == nil {
		return nil, &PrepareError{Label: c.Label, Err: fmt.Errorf("cue has no action")}
	}
	return c.Action.Prepare(c.Label, rate)
}

// Check prepares the cue and throws the result away
func (c Cue) Check(rate beep.SampleRate) error {
	x, err := c.Prepare(rate)
	if err != nil {
		return err
	}
	x.Discard()
	return nil
}

type cueDocument struct {
	Label       string       `yaml:"label"`
	Description string       `yaml:"description"`
	Hint        string       `yaml:"hint"`
	Playback    *PlaybackCue `yaml:"playback"`
	Playlist    *PlaylistCue `yaml:"playlist"`
	Fade        *FadeCue     `yaml:"fade"`
	Stop        *StopCue     `yaml:"stop"`
}

// UnmarshalYAML reads a cue mapping holding exactly one action key
func (c *Cue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: cue must be a mapping", node.Line)
	}

	var doc cueDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}

	label := normalizeLabel(doc.Label)
	if label == "" {
		return fmt.Errorf("line %d: cue is missing a label", node.Line)
	}

	var actions []Action
	if doc.Playback != nil {
		actions = append(actions, *doc.Playback)
	}
	if doc.Playlist != nil {
		actions = append(actions, *doc.Playlist)
	}
	if doc.Fade != nil {
		actions = append(actions, *doc.Fade)
	}
	if doc.Stop != nil {
		actions = append(actions, *doc.Stop)
	}
	if len(actions) != 1 {
		return fmt.Errorf("line %d: cue %s must have exactly one of playback, playlist, fade or stop", node.Line, label)
	}

	*c = Cue{
		Label:       label,
		Description: doc.Description,
		Hint:        doc.Hint,
		Action:      actions[0],
	}
	return nil
}

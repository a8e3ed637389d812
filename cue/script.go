package cue

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultMaster is the master volume of a script that does not set one
const DefaultMaster = 100

// Script is an ordered cue list plus global settings
type Script struct {
	Master  uint8 `yaml:"master"`
	Cuelist []Cue `yaml:"cuelist"`
}

// NewScript creates a script at full master volume
func NewScript(cues ...Cue) *Script {
	return &Script{Master: DefaultMaster, Cuelist: cues}
}

// WithMaster sets the master volume
func (s *Script) WithMaster(master uint8) *Script {
	s.Master = master
	return s
}

// Parse decodes a YAML script
func Parse(data []byte) (*Script, error) {
	s := &Script{Master: DefaultMaster}
	if err := yaml.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("failed to parse script: %w", err)
	}
	return s, nil
}

// Load reads and parses the script at path. Relative file references are
// resolved against the script's directory.
func Load(path string) (*Script, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read script: %w", err)
	}

	s, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	s.resolve(filepath.Dir(path))
	return s, nil
}

// Labels returns every cue label in list order
func (s *Script) Labels() []string {
	labels := make([]string, len(s.Cuelist))
	for i, c := range s.Cuelist {
		labels[i] = c.Label
	}
	return labels
}

// Find returns the cue with the given label
func (s *Script) Find(label string) (Cue, bool) {
	label = normalizeLabel(label)
	for _, c := range s.Cuelist {
		if c.Label == label {
			return c, true
		}
	}
	return Cue{}, false
}

func (s *Script) resolve(base string) {
	for i, c := range s.Cuelist {
		switch a := c.Action.(type) {
		case PlaybackCue:
			a.File = resolvePath(base, a.File)
			s.Cuelist[i].Action = a
		case PlaylistCue:
			if a.Folder != "" {
				a.Folder = resolvePath(base, a.Folder)
			}
			files := make([]string, len(a.Files))
			for j, f := range a.Files {
				files[j] = resolvePath(base, f)
			}
			a.Files = files
			s.Cuelist[i].Action = a
		}
	}
}

func resolvePath(base, path string) string {
	if path == "" || filepath.IsAbs(path) || base == "" || base == "." {
		return path
	}
	return filepath.Join(base, path)
}

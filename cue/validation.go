package cue

import (
	"errors"
	"fmt"
	"os"
)

// Validate checks that a script can be run: labels are unique, referenced
// files exist and targets name a cue in the list.
func (s *Script) Validate() error {
	if len(s.Cuelist) == 0 {
		return &ValidationError{Field: "cuelist", Message: "script has no cues"}
	}
	if s.Master > 100 {
		return &ValidationError{Field: "master", Message: fmt.Sprintf("must be between 0 and 100, got %d", s.Master)}
	}

	labels := make(map[string]struct{}, len(s.Cuelist))
	var errs []error

	for _, c := range s.Cuelist {
		if _, dup := labels[c.Label]; dup {
			errs = append(errs, &ValidationError{Cue: c.Label, Field: "label", Value: c.Label, Message: "is used more than once"})
		}
		labels[c.Label] = struct{}{}
	}

	for _, c := range s.Cuelist {
		errs = append(errs, c.validate(labels)...)
	}

	return errors.Join(errs...)
}

func (c Cue) validate(labels map[string]struct{}) []error {
	var errs []error
	fail := func(field, value, msg string) {
		errs = append(errs, &ValidationError{Cue: c.Label, Field: field, Value: value, Message: msg})
	}

	switch a := c.Action.(type) {
	case PlaybackCue:
		if err := checkFile(a.File); err != nil {
			fail("file", a.File, err.Error())
		}
		if a.Volume != nil && *a.Volume > 100 {
			fail("volume", fmt.Sprint(*a.Volume), "must be between 0 and 100")
		}

	case PlaylistCue:
		if a.Folder == "" && len(a.Files) == 0 {
			fail("playlist", "", "needs a folder or files")
		}
		if a.Folder != "" {
			if info, err := os.Stat(a.Folder); err != nil {
				fail("folder", a.Folder, "does not exist")
			} else if !info.IsDir() {
				fail("folder", a.Folder, "is not a directory")
			}
		}
		for _, f := range a.Files {
			if err := checkFile(f); err != nil {
				fail("file", f, err.Error())
			}
		}
		if a.Volume != nil && *a.Volume > 100 {
			fail("volume", fmt.Sprint(*a.Volume), "must be between 0 and 100")
		}

	case FadeCue:
		if _, ok := labels[a.Target]; !ok && a.Target != TargetAll {
			fail("target", a.Target, "no cue with this label")
		}
		if a.Volume > 100 {
			fail("volume", fmt.Sprint(a.Volume), "must be between 0 and 100")
		}

	case StopCue:
		if _, ok := labels[a.Target]; !ok && a.Target != TargetAll {
			fail("target", a.Target, "no cue with this label")
		}

	case nil:
		fail("action", "", "cue has no action")
	}

	return errs
}

func checkFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return errors.New("does not exist")
	}
	if info.IsDir() {
		return errors.New("is a directory")
	}
	return nil
}

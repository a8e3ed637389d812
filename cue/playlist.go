package cue

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"cuebox/logger"
	"cuebox/playback"

	"github.com/gopxl/beep/v2"
	"gopkg.in/yaml.v3"
)

// ErrEmptyPlaylist is returned when a playlist resolves to no files
var ErrEmptyPlaylist = errors.New("playlist has no files")

// PlaylistCue plays a list of files back to back
type PlaylistCue struct {
	Folder    string
	Files     []string
	Repeat    bool
	Shuffle   bool
	Volume    *uint8
	Crossfade *Seconds
}

// NewFolderPlaylist plays every file in folder
func NewFolderPlaylist(folder string) PlaylistCue {
	return PlaylistCue{Folder: folder}
}

// NewFilePlaylist plays the given files in order
func NewFilePlaylist(files ...string) PlaylistCue {
	return PlaylistCue{Files: files}
}

// Kind implements Action
func (PlaylistCue) Kind() string { return "playlist" }

type playlistDocument struct {
	Folder    string   `yaml:"folder"`
	Files     []string `yaml:"files"`
	Repeat    bool     `yaml:"repeat"`
	Loop      bool     `yaml:"loop"`
	Shuffle   bool     `yaml:"shuffle"`
	Volume    *uint8   `yaml:"volume"`
	Crossfade *Seconds `yaml:"crossfade"`
}

// UnmarshalYAML accepts either a folder name or a full mapping
func (c *PlaylistCue) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*c = NewFolderPlaylist(node.Value)
		return nil
	}

	var doc playlistDocument
	if err := node.Decode(&doc); err != nil {
		return err
	}

	*c = PlaylistCue{
		Folder:    doc.Folder,
		Files:     doc.Files,
		Repeat:    doc.Repeat || doc.Loop,
		Shuffle:   doc.Shuffle,
		Volume:    doc.Volume,
		Crossfade: doc.Crossfade,
	}
	return nil
}

// Entries returns the explicit files followed by the folder contents in
// directory order. Subdirectories and files without a decodable extension are
// left out of the folder listing.
func (c PlaylistCue) Entries() ([]string, error) {
	files := append([]string(nil), c.Files...)

	if c.Folder != "" {
		entries, err := os.ReadDir(c.Folder)
		if err != nil {
			return nil, fmt.Errorf("failed to read folder: %w", err)
		}
		for _, entry := range entries {
			if entry.IsDir() || !playback.Supported(entry.Name()) {
				continue
			}
			files = append(files, filepath.Join(c.Folder, entry.Name()))
		}
	}

	return files, nil
}

// Prepare fixes the play order and wires a lazily opened file sequence into an idle sink
func (c PlaylistCue) Prepare(label string, rate beep.SampleRate) (Executable, error) {
	files, err := c.Entries()
	if err != nil {
		return nil, &PrepareError{Label: label, Path: c.Folder, Err: err}
	}
	if len(files) == 0 {
		return nil, &PrepareError{Label: label, Path: c.Folder, Err: ErrEmptyPlaylist}
	}

	if c.Shuffle {
		shuffle(files)
	}

	meta := playback.NewMeta(0)
	list := &playlist{
		files:  files,
		repeat: c.Repeat,
		rate:   rate,
		meta:   meta,
		logger: logger.WithFields("component", "playlist", "cue", label),
	}
	if c.Crossfade != nil {
		list.crossfade = c.Crossfade.Duration()
	}

	sink := playback.NewSink()
	sink.Append(list)
	sink.AddCloser(list)

	if c.Volume != nil {
		sink.SetVolume(float64(*c.Volume) / 100)
	}

	return newPlaybackExecutable(label, sink, meta), nil
}

func shuffle(files []string) {
	rand.Shuffle(len(files), func(i, j int) {
		files[i], files[j] = files[j], files[i]
	})
}

// playlist streams its files back to back, opening each one only when the
// previous one has finished
type playlist struct {
	files     []string
	pos       int
	repeat    bool
	rate      beep.SampleRate
	crossfade time.Duration
	meta      *playback.Meta
	current   *playback.Decoded
	stream    beep.Streamer
	produced  bool
	empty     int
	done      bool
	logger    *slog.Logger
}

func (p *playlist) Stream(samples [][2]float64) (n int, ok bool) {
	for n < len(samples) && !p.done {
		if p.stream == nil {
			// a full round of files without a single sample ends the list
			if p.empty >= len(p.files) {
				p.done = true
				break
			}
			if p.stream = p.next(); p.stream == nil {
				p.done = true
				break
			}
		}

		sn, sok := p.stream.Stream(samples[n:])
		n += sn
		if sn > 0 {
			p.produced = true
		}
		if sok {
			if sn == 0 {
				break
			}
			continue
		}

		if err := p.stream.Err(); err != nil {
			p.logger.Warn("Playlist file ended with an error", slog.Any("error", err))
		}
		if p.produced {
			p.empty = 0
		} else {
			p.empty++
		}
		p.produced = false
		p.stream = nil
	}

	if p.done {
		p.closeCurrent()
	}
	return n, n > 0 || !p.done
}

func (p *playlist) Err() error {
	return nil
}

func (p *playlist) next() beep.Streamer {
	p.closeCurrent()

	for failures := 0; failures < len(p.files); {
		if p.pos >= len(p.files) {
			if !p.repeat {
				return nil
			}
			p.pos = 0
		}

		path := p.files[p.pos]
		p.pos++

		decoded, err := playback.Decode(path)
		if err != nil {
			p.logger.Warn("Skipped playlist file", slog.String("file", path), slog.Any("error", err))
			failures++
			continue
		}

		duration, err := decoded.Duration()
		if err != nil {
			p.logger.Warn("Skipped playlist file", slog.String("file", path), slog.Any("error", err))
			decoded.Close()
			failures++
			continue
		}

		p.current = decoded
		p.meta.Set(time.Now(), duration)
		p.logger.Debug("Loading playlist file", slog.String("file", path))

		s := playback.Resample(decoded, decoded.Format.SampleRate, p.rate)
		if p.crossfade > 0 {
			s = edges(s, p.rate.N(duration), p.rate.N(min(p.crossfade, duration/2)))
		}
		return s
	}

	p.logger.Error("Every playlist file failed to load, stopping playlist")
	return nil
}

// edges fades the first and last n of total samples
func edges(s beep.Streamer, total, n int) beep.Streamer {
	s = playback.FadeIn(s, n)
	return beep.Seq(beep.Take(total-n, s), playback.FadeOut(s, n))
}

func (p *playlist) closeCurrent() {
	if p.current != nil {
		p.current.Close()
		p.current = nil
	}
}

// Close releases the file currently being played
func (p *playlist) Close() error {
	p.closeCurrent()
	return nil
}

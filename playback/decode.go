package playback

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// Decoded is an opened audio file or a cached buffer. Closing it closes the
// file as well as the decoder.
type Decoded struct {
	beep.StreamSeekCloser
	Format beep.Format
	file   *os.File
}

// Duration returns the length of the file according to its headers
func (d *Decoded) Duration() (time.Duration, error) {
	n := d.Len()
	if n <= 0 {
		return 0, ErrUnknownLength
	}
	return d.Format.SampleRate.D(n), nil
}

// Close releases the decoder and the underlying file
func (d *Decoded) Close() error {
	err := d.StreamSeekCloser.Close()
	if d.file == nil {
		return err
	}
	if ferr := d.file.Close(); ferr != nil && !errors.Is(ferr, os.ErrClosed) && err == nil {
		err = ferr
	}
	return err
}

// SupportedExtensions lists the file extensions Decode understands
var SupportedExtensions = []string{".mp3", ".wav", ".flac", ".ogg"}

// Supported reports whether path has a decodable extension
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Decode opens path and picks a decoder by file extension
func Decode(path string) (*Decoded, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", path, err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(file)
	case ".wav":
		streamer, format, err = wav.Decode(file)
	case ".flac":
		streamer, format, err = flac.Decode(file)
	case ".ogg":
		streamer, format, err = vorbis.Decode(file)
	default:
		file.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return &Decoded{
		StreamSeekCloser: streamer,
		Format:           format,
		file:             file,
	}, nil
}

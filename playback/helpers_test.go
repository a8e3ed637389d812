package playback

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/wav"
)

// constant streams n samples of value v on both channels
func constant(n int, v float64) beep.Streamer {
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if n <= 0 {
			return 0, false
		}
		k := min(n, len(samples))
		for i := range samples[:k] {
			samples[i] = [2]float64{v, v}
		}
		n -= k
		return k, true
	})
}

// counting streams a tenth of the sample index as the value of each sample.
// Values past 1 are clamped by a 16-bit buffer.
func counting(n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		k := min(n-pos, len(samples))
		for i := range samples[:k] {
			v := float64(pos+i) / 10
			samples[i] = [2]float64{v, v}
		}
		pos += k
		return k, true
	})
}

func buffered(s beep.Streamer) beep.StreamSeeker {
	buf := beep.NewBuffer(beep.Format{SampleRate: 44100, NumChannels: 2, Precision: 2})
	buf.Append(s)
	return buf.Streamer(0, buf.Len())
}

// drain pulls everything out of s, reading chunk samples at a time
func drain(s beep.Streamer, chunk int) [][2]float64 {
	var out [][2]float64
	buf := make([][2]float64, chunk)
	for i := 0; i < 1_000_000; i++ {
		n, ok := s.Stream(buf)
		out = append(out, buf[:n]...)
		if !ok {
			break
		}
	}
	return out
}

type countingCloser struct {
	closed int
}

func (c *countingCloser) Close() error {
	c.closed++
	return nil
}

func writeWAV(t *testing.T, dir, name string, samples int, rate beep.SampleRate) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create %s: %v", path, err)
	}
	defer f.Close()

	format := beep.Format{SampleRate: rate, NumChannels: 2, Precision: 2}
	if err := wav.Encode(f, constant(samples, 0.25), format); err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	return path
}

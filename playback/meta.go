package playback

import (
	"fmt"
	"sync"
	"time"
)

// Meta tracks the progress of one playback. It is shared between the source
// that resets it and the UI that reads it, and carries its own lock.
type Meta struct {
	mu       sync.RWMutex
	start    time.Time
	duration time.Duration
	now      func() time.Time
}

// NewMeta creates progress metadata starting now
func NewMeta(duration time.Duration) *Meta {
	return &Meta{
		start:    time.Now(),
		duration: duration,
		now:      time.Now,
	}
}

// Restart moves the start timestamp to now
func (m *Meta) Restart() {
	m.mu.Lock()
	m.start = m.now()
	m.mu.Unlock()
}

// Set replaces both the start timestamp and the total duration
func (m *Meta) Set(start time.Time, duration time.Duration) {
	m.mu.Lock()
	m.start = start
	m.duration = duration
	m.mu.Unlock()
}

// Start returns when the current pass began
func (m *Meta) Start() time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.start
}

// Duration returns the total length of the current pass
func (m *Meta) Duration() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.duration
}

// Progress returns elapsed and total wall-clock time. Elapsed never exceeds a
// non-zero total.
func (m *Meta) Progress() (elapsed, total time.Duration) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	elapsed = m.now().Sub(m.start)
	if elapsed < 0 {
		elapsed = 0
	}
	if m.duration > 0 && elapsed > m.duration {
		elapsed = m.duration
	}
	return elapsed, m.duration
}

// String formats the progress as MM:SS/MM:SS
func (m *Meta) String() string {
	elapsed, total := m.Progress()
	return FormatClock(elapsed) + "/" + FormatClock(total)
}

// FormatClock renders d as MM:SS; minutes are not wrapped at the hour
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}

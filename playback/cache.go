package playback

import (
	"fmt"
	"log/slog"
	"sync"

	"cuebox/logger"

	"github.com/gopxl/beep/v2"
)

// Cache holds fully decoded files in memory. Cues fired many times, such as
// short effects, decode once and then stream from the buffer.
type Cache struct {
	mu      sync.RWMutex
	buffers map[string]*beep.Buffer
	logger  *slog.Logger
}

var (
	defaultCache *Cache
	cacheOnce    sync.Once
)

// DefaultCache returns the process-wide buffer cache
func DefaultCache() *Cache {
	cacheOnce.Do(func() {
		defaultCache = NewCache()
	})
	return defaultCache
}

// NewCache creates an empty cache
func NewCache() *Cache {
	return &Cache{
		buffers: make(map[string]*beep.Buffer),
		logger:  logger.WithComponent("cache"),
	}
}

// Open returns a seekable stream over the decoded contents of path, decoding
// and storing the file on first use
func (c *Cache) Open(path string) (*Decoded, error) {
	buffer, err := c.buffer(path)
	if err != nil {
		return nil, err
	}

	return &Decoded{
		StreamSeekCloser: nopCloser{buffer.Streamer(0, buffer.Len())},
		Format:           buffer.Format(),
	}, nil
}

// Len returns the number of cached files
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.buffers)
}

func (c *Cache) buffer(path string) (*beep.Buffer, error) {
	c.mu.RLock()
	buffer, ok := c.buffers[path]
	c.mu.RUnlock()
	if ok {
		return buffer, nil
	}

	decoded, err := Decode(path)
	if err != nil {
		return nil, err
	}
	defer decoded.Close()

	buffer = beep.NewBuffer(decoded.Format)
	buffer.Append(decoded)
	if err := decoded.Err(); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	c.mu.Lock()
	if existing, ok := c.buffers[path]; ok {
		buffer = existing
	} else {
		c.buffers[path] = buffer
	}
	c.mu.Unlock()

	c.logger.Debug("Cached file", slog.String("file", path), slog.Int("samples", buffer.Len()))
	return buffer, nil
}

type nopCloser struct {
	beep.StreamSeeker
}

func (nopCloser) Close() error { return nil }

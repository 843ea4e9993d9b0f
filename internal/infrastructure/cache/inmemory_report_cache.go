package cache

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

// Constants for in-memory cache configuration
const (
	defaultCleanupInterval = 30 * time.Second
)

// InMemoryReportCache implements ReportCache using process-local storage.
// It is suitable for single-instance deployments and as a fallback when
// Redis is unavailable.
type InMemoryReportCache struct {
	entries sync.Map // map[string]*memoryEntry
	logger  *zap.Logger
	stopCh  chan struct{}
	stopped int32

	// Stats for monitoring
	hits   int64
	misses int64
}

// memoryEntry wraps a cached value with its expiration time. Values are
// stored pre-serialized so Get behaves identically to the Redis cache.
type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

func (e *memoryEntry) isExpired() bool {
	return time.Now().After(e.expiresAt)
}

// InMemoryReportCacheOption is a functional option for configuring the cache
type InMemoryReportCacheOption func(*InMemoryReportCache)

// WithInMemoryLogger sets the logger for the cache
func WithInMemoryLogger(logger *zap.Logger) InMemoryReportCacheOption {
	return func(c *InMemoryReportCache) {
		c.logger = logger
	}
}

// NewInMemoryReportCache creates a new in-memory report cache and starts
// its background cleanup loop
func NewInMemoryReportCache(opts ...InMemoryReportCacheOption) *InMemoryReportCache {
	cache := &InMemoryReportCache{
		logger: zap.NewNop(),
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(cache)
	}

	go cache.cleanupLoop()

	return cache
}

// Get retrieves a cached report and unmarshals it into dest
func (c *InMemoryReportCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	value, ok := c.entries.Load(key)
	if !ok {
		atomic.AddInt64(&c.misses, 1)
		return false, nil
	}

	entry := value.(*memoryEntry)
	if entry.isExpired() {
		c.entries.Delete(key)
		atomic.AddInt64(&c.misses, 1)
		return false, nil
	}

	if err := json.Unmarshal(entry.data, dest); err != nil {
		c.entries.Delete(key)
		atomic.AddInt64(&c.misses, 1)
		return false, nil
	}

	atomic.AddInt64(&c.hits, 1)
	return true, nil
}

// Set stores a report result with the given TTL
func (c *InMemoryReportCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	c.entries.Store(key, &memoryEntry{
		data:      data,
		expiresAt: time.Now().Add(ttl),
	})
	return nil
}

// DeletePrefix removes every cached entry whose key starts with prefix
func (c *InMemoryReportCache) DeletePrefix(_ context.Context, prefix string) error {
	c.entries.Range(func(key, _ interface{}) bool {
		if strings.HasPrefix(key.(string), prefix) {
			c.entries.Delete(key)
		}
		return true
	})
	return nil
}

// Close stops the background cleanup loop
func (c *InMemoryReportCache) Close() error {
	if atomic.CompareAndSwapInt32(&c.stopped, 0, 1) {
		close(c.stopCh)
	}
	return nil
}

// Stats returns the hit and miss counters
func (c *InMemoryReportCache) Stats() (hits, misses int64) {
	return atomic.LoadInt64(&c.hits), atomic.LoadInt64(&c.misses)
}

func (c *InMemoryReportCache) cleanupLoop() {
	ticker := time.NewTicker(defaultCleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.removeExpired()
		case <-c.stopCh:
			return
		}
	}
}

func (c *InMemoryReportCache) removeExpired() {
	removed := 0
	c.entries.Range(func(key, value interface{}) bool {
		if value.(*memoryEntry).isExpired() {
			c.entries.Delete(key)
			removed++
		}
		return true
	})
	if removed > 0 {
		c.logger.Debug("removed expired report cache entries", zap.Int("count", removed))
	}
}

var _ ReportCache = (*InMemoryReportCache)(nil)

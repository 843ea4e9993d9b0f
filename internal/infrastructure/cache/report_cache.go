package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Constants for Redis cache configuration
const (
	defaultScanBatchSize = 100
	keyPrefix            = "feereport:"
)

// ReportCache stores serialized report results under string keys.
// Get returns (false, nil) on a cache miss so callers can fall through
// to the database without treating a miss as an error.
type ReportCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

// RedisConfig holds the connection settings for a Redis-backed cache
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisReportCache implements ReportCache using Redis
type RedisReportCache struct {
	client     *redis.Client
	ownsClient bool // true if we created the client and should close it
	logger     *zap.Logger
}

// RedisReportCacheOption is a functional option for configuring the cache
type RedisReportCacheOption func(*RedisReportCache)

// WithCacheLogger sets the logger for the cache
func WithCacheLogger(logger *zap.Logger) RedisReportCacheOption {
	return func(c *RedisReportCache) {
		c.logger = logger
	}
}

// NewRedisReportCache creates a new Redis-based report cache
func NewRedisReportCache(cfg RedisConfig, opts ...RedisReportCacheOption) (*RedisReportCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	cache := &RedisReportCache{
		client:     client,
		ownsClient: true, // We created this client, so we own it
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache, nil
}

// NewRedisReportCacheWithClient creates a cache with an existing Redis client.
// The caller retains ownership of the client and is responsible for closing it.
func NewRedisReportCacheWithClient(client *redis.Client, opts ...RedisReportCacheOption) *RedisReportCache {
	cache := &RedisReportCache{
		client:     client,
		ownsClient: false,
		logger:     zap.NewNop(),
	}

	for _, opt := range opts {
		opt(cache)
	}

	return cache
}

func (c *RedisReportCache) cacheKey(key string) string {
	return keyPrefix + key
}

// Get retrieves a cached report and unmarshals it into dest
func (c *RedisReportCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.cacheKey(key)).Bytes()
	if err == redis.Nil {
		c.logger.Debug("report cache miss", zap.String("key", key))
		return false, nil
	}
	if err != nil {
		c.logger.Error("failed to read report cache",
			zap.String("key", key),
			zap.Error(err))
		return false, fmt.Errorf("failed to read report cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		// A corrupt entry is treated as a miss so it gets rewritten
		c.logger.Warn("discarding corrupt report cache entry",
			zap.String("key", key),
			zap.Error(err))
		_ = c.client.Del(ctx, c.cacheKey(key)).Err()
		return false, nil
	}

	c.logger.Debug("report cache hit", zap.String("key", key))
	return true, nil
}

// Set stores a report result with the given TTL
func (c *RedisReportCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal report for cache: %w", err)
	}

	if err := c.client.Set(ctx, c.cacheKey(key), data, ttl).Err(); err != nil {
		c.logger.Error("failed to write report cache",
			zap.String("key", key),
			zap.Error(err))
		return fmt.Errorf("failed to write report cache: %w", err)
	}

	return nil
}

// DeletePrefix removes every cached entry whose key starts with prefix
func (c *RedisReportCache) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := c.cacheKey(prefix) + "*"
	iter := c.client.Scan(ctx, 0, pattern, defaultScanBatchSize).Iterator()

	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) >= defaultScanBatchSize {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete cached reports: %w", err)
			}
			keys = keys[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan report cache: %w", err)
	}
	if len(keys) > 0 {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("failed to delete cached reports: %w", err)
		}
	}

	return nil
}

// Close releases the Redis client if this cache owns it
func (c *RedisReportCache) Close() error {
	if c.ownsClient {
		return c.client.Close()
	}
	return nil
}

var _ ReportCache = (*RedisReportCache)(nil)

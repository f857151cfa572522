// Package redis provides an extraction cache shared across processes through Redis.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure ExtractionCache implements the interface.
var _ driven.ExtractionCache = (*ExtractionCache)(nil)

// DefaultPrefix namespaces cache keys.
const DefaultPrefix = "docsum:extract:"

// scanBatch is the COUNT hint for SCAN iterations.
const scanBatch = 256

// Config holds connection and expiry settings.
type Config struct {
	// Addr is the server address (default: localhost:6379).
	Addr string

	// Password is optional.
	Password string

	// DB selects the logical database.
	DB int

	// Prefix is prepended to every fingerprint (default: docsum:extract:).
	Prefix string

	// TTL sets key expiry. Zero keeps keys until cleared.
	TTL time.Duration
}

// ExtractionCache stores extracted text as plain string keys.
type ExtractionCache struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewExtractionCache connects to Redis and verifies the server responds.
func NewExtractionCache(ctx context.Context, cfg Config) (*ExtractionCache, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect redis %s: %w", cfg.Addr, err)
	}
	return newWithClient(client, cfg.Prefix, cfg.TTL), nil
}

func newWithClient(client *redis.Client, prefix string, ttl time.Duration) *ExtractionCache {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &ExtractionCache{client: client, prefix: prefix, ttl: max(ttl, 0)}
}

func (c *ExtractionCache) key(fp domain.Fingerprint) string {
	return c.prefix + fp.String()
}

// Get returns the cached text. redis.Nil is reported as a miss.
func (c *ExtractionCache) Get(ctx context.Context, fp domain.Fingerprint) (string, bool, error) {
	text, err := c.client.Get(ctx, c.key(fp)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return text, true, nil
}

// Put writes the entry with the configured TTL.
func (c *ExtractionCache) Put(ctx context.Context, fp domain.Fingerprint, text string) error {
	if err := c.client.Set(ctx, c.key(fp), text, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Len counts keys under the prefix.
func (c *ExtractionCache) Len(ctx context.Context) (int, error) {
	n := 0
	err := c.scan(ctx, func(keys []string) error {
		n += len(keys)
		return nil
	})
	return n, err
}

// Clear deletes every key under the prefix.
func (c *ExtractionCache) Clear(ctx context.Context) error {
	return c.scan(ctx, func(keys []string) error {
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return fmt.Errorf("redis del: %w", err)
		}
		return nil
	})
}

// Close closes the client connection pool.
func (c *ExtractionCache) Close() error {
	return c.client.Close()
}

// scan walks the keyspace under the prefix, calling fn for each non-empty batch.
func (c *ExtractionCache) scan(ctx context.Context, fn func(keys []string) error) error {
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, c.prefix+"*", scanBatch).Result()
		if err != nil {
			return fmt.Errorf("redis scan: %w", err)
		}
		if len(keys) > 0 {
			if err := fn(keys); err != nil {
				return err
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/custodia-labs/docsum/internal/core/domain"
	"github.com/custodia-labs/docsum/internal/core/ports/driven"
)

// Ensure ExtractionCache implements the interface.
var _ driven.ExtractionCache = (*ExtractionCache)(nil)

// CacheOptions bounds the persistent cache.
type CacheOptions struct {
	// MaxEntries trims the least recently used rows after each Put. Zero never trims.
	MaxEntries int

	// TTL hides and lazily deletes rows older than this. Zero never expires.
	TTL time.Duration
}

// ExtractionCache stores extracted text in the extraction_cache table.
type ExtractionCache struct {
	store *Store
	opts  CacheOptions
	now   func() time.Time

	// clock orders accessed_at strictly even when the wall clock stalls.
	mu    sync.Mutex
	clock int64
}

func newExtractionCache(s *Store, opts CacheOptions) *ExtractionCache {
	return &ExtractionCache{
		store: s,
		opts:  CacheOptions{MaxEntries: max(opts.MaxEntries, 0), TTL: max(opts.TTL, 0)},
		now:   time.Now,
	}
}

func (c *ExtractionCache) tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.now().UnixNano()
	if now <= c.clock {
		now = c.clock + 1
	}
	c.clock = now
	return now
}

func (c *ExtractionCache) expired(createdAt int64) bool {
	if c.opts.TTL == 0 {
		return false
	}
	return c.now().Sub(time.Unix(0, createdAt)) > c.opts.TTL
}

// Get returns the cached text and refreshes the entry's access time.
func (c *ExtractionCache) Get(ctx context.Context, fp domain.Fingerprint) (string, bool, error) {
	var text string
	var createdAt int64
	err := c.store.db.QueryRowContext(ctx,
		"SELECT text, created_at FROM extraction_cache WHERE fingerprint = ?", fp.String(),
	).Scan(&text, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("query cache: %w", err)
	}

	if c.expired(createdAt) {
		if _, err := c.store.db.ExecContext(ctx,
			"DELETE FROM extraction_cache WHERE fingerprint = ?", fp.String()); err != nil {
			return "", false, fmt.Errorf("delete expired entry: %w", err)
		}
		return "", false, nil
	}

	if _, err := c.store.db.ExecContext(ctx,
		"UPDATE extraction_cache SET accessed_at = ? WHERE fingerprint = ?", c.tick(), fp.String()); err != nil {
		return "", false, fmt.Errorf("touch cache entry: %w", err)
	}
	return text, true, nil
}

// Put upserts the entry and trims the table to MaxEntries.
func (c *ExtractionCache) Put(ctx context.Context, fp domain.Fingerprint, text string) error {
	now := c.tick()
	_, err := c.store.db.ExecContext(ctx, `
		INSERT INTO extraction_cache (fingerprint, text, created_at, accessed_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(fingerprint) DO UPDATE SET
			text = excluded.text,
			created_at = excluded.created_at,
			accessed_at = excluded.accessed_at
	`, fp.String(), text, now, now)
	if err != nil {
		return fmt.Errorf("insert cache entry: %w", err)
	}

	if c.opts.MaxEntries == 0 {
		return nil
	}
	_, err = c.store.db.ExecContext(ctx, `
		DELETE FROM extraction_cache WHERE fingerprint NOT IN (
			SELECT fingerprint FROM extraction_cache ORDER BY accessed_at DESC LIMIT ?
		)
	`, c.opts.MaxEntries)
	if err != nil {
		return fmt.Errorf("trim cache: %w", err)
	}
	return nil
}

// Len returns the number of rows, expired or not.
func (c *ExtractionCache) Len(ctx context.Context) (int, error) {
	var n int
	if err := c.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM extraction_cache").Scan(&n); err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return n, nil
}

// Clear removes every row.
func (c *ExtractionCache) Clear(ctx context.Context) error {
	if _, err := c.store.db.ExecContext(ctx, "DELETE FROM extraction_cache"); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sma-admin-console/internal/models"
	appErrors "github.com/noah-isme/sma-admin-console/pkg/errors"
)

const defaultTableCacheTTL = 5 * time.Second

// CacheRepository abstracts persistence for cached payloads.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// TableCache serves whole-table reads from a short-lived shared cache. Writes
// never invalidate it, so readers may observe rows up to ttl old.
type TableCache struct {
	repo    CacheRepository
	metrics *MetricsService
	ttl     time.Duration
	logger  *zap.Logger
	enabled bool
}

// NewTableCache constructs a table cache.
func NewTableCache(repo CacheRepository, metrics *MetricsService, ttl time.Duration, logger *zap.Logger, enabled bool) *TableCache {
	if ttl <= 0 {
		ttl = defaultTableCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TableCache{repo: repo, metrics: metrics, ttl: ttl, logger: logger, enabled: enabled}
}

// Enabled indicates whether caching is active.
func (c *TableCache) Enabled() bool {
	return c != nil && c.enabled && c.repo != nil
}

// Load returns every row of table, from cache when fresh. The boolean reports
// a cache hit. Cache failures fall back to the store.
func (c *TableCache) Load(ctx context.Context, store TableStore, table models.TableName) ([]models.Row, bool, error) {
	if !c.Enabled() {
		rows, err := store.LoadTable(ctx, table)
		return rows, false, err
	}

	key := tableCacheKey(table)
	start := time.Now()
	var cached []models.Row
	err := c.repo.Get(ctx, key, &cached)
	c.metrics.RecordCacheOperation(err == nil, time.Since(start))
	if err == nil {
		return cached, true, nil
	}
	if !errors.Is(err, appErrors.ErrCacheMiss) {
		c.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}

	rows, err := store.LoadTable(ctx, table)
	if err != nil {
		return nil, false, err
	}

	start = time.Now()
	if err := c.repo.Set(ctx, key, rows, c.ttl); err != nil {
		c.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.ObserveCacheWrite(time.Since(start))
	return rows, false, nil
}

func tableCacheKey(table models.TableName) string {
	return "tables:" + string(table)
}

package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/incident-report-service/internal/domain"
)

const (
	allReportsKey     = "reports:all"
	userReportsPrefix = "reports:user:"
)

// ReportCache is a cache-aside layer over report listings. Every mutation
// invalidates the affected keys; the cache is never authoritative. A nil
// cache no-ops so the service runs unchanged without Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewReportCache builds a cache with the given entry lifetime.
func NewReportCache(client *redis.Client, ttl time.Duration, logger *zap.Logger) *ReportCache {
	if client == nil {
		return nil
	}
	return &ReportCache{client: client, ttl: ttl, logger: logger}
}

// GetAll returns the cached full listing, if present.
func (c *ReportCache) GetAll(ctx context.Context) ([]domain.Report, bool) {
	return c.get(ctx, allReportsKey)
}

// SetAll stores the full listing.
func (c *ReportCache) SetAll(ctx context.Context, reports []domain.Report) {
	c.set(ctx, allReportsKey, reports)
}

// GetByUser returns the cached per-user listing, if present.
func (c *ReportCache) GetByUser(ctx context.Context, userID string) ([]domain.Report, bool) {
	return c.get(ctx, userReportsPrefix+userID)
}

// SetByUser stores a per-user listing.
func (c *ReportCache) SetByUser(ctx context.Context, userID string, reports []domain.Report) {
	c.set(ctx, userReportsPrefix+userID, reports)
}

// Invalidate drops the full listing and the owner's listing after a write.
func (c *ReportCache) Invalidate(ctx context.Context, userID string) {
	if c == nil {
		return
	}
	keys := []string{allReportsKey}
	if userID != "" {
		keys = append(keys, userReportsPrefix+userID)
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.logger.Warn("cache invalidation failed", zap.Error(err))
	}
}

func (c *ReportCache) get(ctx context.Context, key string) ([]domain.Report, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	var reports []domain.Report
	if err := json.Unmarshal(raw, &reports); err != nil {
		// stale or corrupt entry; treat as a miss
		return nil, false
	}
	return reports, true
}

func (c *ReportCache) set(ctx context.Context, key string, reports []domain.Report) {
	if c == nil {
		return
	}
	raw, err := json.Marshal(reports)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
	}
}

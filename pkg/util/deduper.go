package util

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Deduper is a redis SetNX once-guard. It keeps a double-clicked enhancement
// from generating and persisting the same suggestions twice while the first
// request is still in flight.
type Deduper struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func NewDeduper(rdb *redis.Client, ttl time.Duration, logger *zap.Logger) *Deduper {
	return &Deduper{
		rdb:    rdb,
		ttl:    ttl,
		logger: logger,
	}
}

// AcquireOnce tries to acquire the guard for an operation on a resource.
// Returns true if this caller holds the guard, false on a duplicate.
// Fails open: when redis is unavailable (or not configured) processing is
// allowed rather than blocked.
func (d *Deduper) AcquireOnce(ctx context.Context, operation, resourceID string) bool {
	if d == nil || d.rdb == nil {
		return true
	}

	key := fmt.Sprintf("dedup:%s:%s", operation, resourceID)
	ok, err := d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
	if err != nil {
		if d.logger != nil {
			d.logger.Warn("Redis dedup check failed, allowing processing",
				zap.String("operation", operation),
				zap.String("resource_id", resourceID),
				zap.Error(err),
			)
		}
		return true
	}
	return ok
}

// Release frees the guard early so the operation can be retried before the
// TTL expires.
func (d *Deduper) Release(ctx context.Context, operation, resourceID string) {
	if d == nil || d.rdb == nil {
		return
	}
	key := fmt.Sprintf("dedup:%s:%s", operation, resourceID)
	if err := d.rdb.Del(ctx, key).Err(); err != nil && d.logger != nil {
		d.logger.Warn("Redis dedup release failed",
			zap.String("operation", operation),
			zap.Error(err),
		)
	}
}

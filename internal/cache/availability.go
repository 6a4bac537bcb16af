package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// Availability responses are cheap to rebuild, so entries are short-lived
// and every write path that changes a day's occupancy invalidates the
// provider's day eagerly.
const availabilityTTL = 60 * time.Second

// AvailabilityCache fronts the availability query with Redis. A nil
// *AvailabilityCache is valid and disables caching, so the service and its
// tests run without Redis.
type AvailabilityCache struct {
	rdb *redis.Client
	log *zap.Logger
}

func NewAvailabilityCache(addr string, log *zap.Logger) *AvailabilityCache {
	if addr == "" {
		return nil
	}
	return &AvailabilityCache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		log: log,
	}
}

func key(providerID uint, date string, durationMin int) string {
	return fmt.Sprintf("availability:%d:%s:%d", providerID, date, durationMin)
}

// Get unmarshals a cached response into out and reports a hit. Cache
// failures are logged and reported as misses, never surfaced.
func (c *AvailabilityCache) Get(ctx context.Context, providerID uint, date string, durationMin int, out any) bool {
	if c == nil {
		return false
	}

	raw, err := c.rdb.Get(ctx, key(providerID, date, durationMin)).Result()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("availability cache read failed", zap.Error(err))
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), out); err != nil {
		return false
	}
	return true
}

func (c *AvailabilityCache) Set(ctx context.Context, providerID uint, date string, durationMin int, value any) {
	if c == nil {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.rdb.Set(ctx, key(providerID, date, durationMin), raw, availabilityTTL).Err(); err != nil {
		c.log.Warn("availability cache write failed", zap.Error(err))
	}
}

// Invalidate drops every cached duration variant for the provider day.
func (c *AvailabilityCache) Invalidate(ctx context.Context, providerID uint, date string) {
	if c == nil {
		return
	}

	pattern := fmt.Sprintf("availability:%d:%s:*", providerID, date)
	keys, err := c.rdb.Keys(ctx, pattern).Result()
	if err != nil {
		c.log.Warn("availability cache invalidation failed", zap.Error(err))
		return
	}
	if len(keys) > 0 {
		c.rdb.Del(ctx, keys...)
	}
}

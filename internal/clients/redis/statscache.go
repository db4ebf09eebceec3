package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/services"
)

const statsTTL = 30 * time.Second

// StatsCache backs services.StatsCache with redis. It is wired only when
// REDIS_ADDR is set; without it the services run uncached.
type StatsCache struct {
	log *logger.Logger
	rdb *redis.Client
}

func NewStatsCache(log *logger.Logger) (*StatsCache, error) {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &StatsCache{
		log: log.With("client", "RedisStatsCache"),
		rdb: rdb,
	}, nil
}

func cacheKey(key string) string {
	return "sporthub:regstats:" + key
}

func (c *StatsCache) GetStats(ctx context.Context, key string) (*services.RegistrationStats, bool) {
	raw, err := c.rdb.Get(ctx, cacheKey(key)).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("Stats cache read failed", "key", key, "error", err)
		}
		return nil, false
	}
	var stats services.RegistrationStats
	if err := json.Unmarshal(raw, &stats); err != nil {
		c.log.Warn("Stats cache entry corrupt, dropping", "key", key, "error", err)
		_ = c.rdb.Del(ctx, cacheKey(key)).Err()
		return nil, false
	}
	return &stats, true
}

func (c *StatsCache) SetStats(ctx context.Context, key string, stats *services.RegistrationStats) {
	raw, err := json.Marshal(stats)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, cacheKey(key), raw, statsTTL).Err(); err != nil {
		c.log.Warn("Stats cache write failed", "key", key, "error", err)
	}
}

func (c *StatsCache) Invalidate(ctx context.Context, key string) {
	if err := c.rdb.Del(ctx, cacheKey(key)).Err(); err != nil {
		c.log.Warn("Stats cache invalidation failed", "key", key, "error", err)
	}
}

func (c *StatsCache) Close() error {
	return c.rdb.Close()
}

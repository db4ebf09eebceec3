package app

import (
	"os"

	redisclient "github.com/yungbote/sporthub-backend/internal/clients/redis"
	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/services"
)

type Clients struct {
	StatsCache *redisclient.StatsCache
}

// wireClients returns a nil stats cache when REDIS_ADDR is unset; the
// registration service treats that as cache-off.
func wireClients(log *logger.Logger) Clients {
	if os.Getenv("REDIS_ADDR") == "" {
		log.Info("REDIS_ADDR not set, registration stats caching disabled")
		return Clients{}
	}
	cache, err := redisclient.NewStatsCache(log)
	if err != nil {
		log.Warn("Redis stats cache unavailable, continuing without it", "error", err)
		return Clients{}
	}
	return Clients{StatsCache: cache}
}

func statsCacheOrNil(c Clients) services.StatsCache {
	if c.StatsCache == nil {
		return nil
	}
	return c.StatsCache
}

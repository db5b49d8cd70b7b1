package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"clubbet/domain/entities"
	"clubbet/domain/interfaces"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

const leaderboardCacheTTL = 5 * time.Minute

// RedisLeaderboardCache caches computed leaderboards in Redis. All failures
// degrade to a cache miss; the aggregator recomputes from the database.
type RedisLeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

var _ interfaces.LeaderboardCache = (*RedisLeaderboardCache)(nil)

// NewRedisLeaderboardCache creates a leaderboard cache backed by Redis
func NewRedisLeaderboardCache(client *redis.Client) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{
		client: client,
		ttl:    leaderboardCacheTTL,
	}
}

func (c *RedisLeaderboardCache) key(period entities.Period, metric entities.SortMetric) string {
	return fmt.Sprintf("leaderboard:%s:%s", period, metric)
}

// Get returns a cached leaderboard, or ok=false on miss or backend failure
func (c *RedisLeaderboardCache) Get(ctx context.Context, period entities.Period, metric entities.SortMetric) ([]*entities.LeaderboardEntry, bool) {
	data, err := c.client.Get(ctx, c.key(period, metric)).Bytes()
	if err != nil {
		if err != redis.Nil {
			log.WithFields(log.Fields{
				"period": period,
				"metric": metric,
				"error":  err,
			}).Warn("Leaderboard cache read failed")
		}
		return nil, false
	}

	var entries []*entities.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		log.WithError(err).Warn("Discarding undecodable leaderboard cache entry")
		return nil, false
	}

	return entries, true
}

// Set stores a computed leaderboard with the cache TTL
func (c *RedisLeaderboardCache) Set(ctx context.Context, period entities.Period, metric entities.SortMetric, entries []*entities.LeaderboardEntry) {
	data, err := json.Marshal(entries)
	if err != nil {
		log.WithError(err).Warn("Failed to marshal leaderboard for cache")
		return
	}

	if err := c.client.Set(ctx, c.key(period, metric), data, c.ttl).Err(); err != nil {
		log.WithFields(log.Fields{
			"period": period,
			"metric": metric,
			"error":  err,
		}).Warn("Leaderboard cache write failed")
	}
}

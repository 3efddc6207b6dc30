// AngelaMos | 2026
// cache.go

package stats

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/VanshTuteja/BookReviewsPlatform/internal/core"
)

// LeaderboardCache holds computed leaderboards for a fixed TTL. Misses and
// backend errors look the same to callers.
type LeaderboardCache interface {
	Get(ctx context.Context, key string) ([]LeaderboardEntry, bool)
	Set(ctx context.Context, key string, entries []LeaderboardEntry)
}

const leaderboardPrefix = "leaderboard:"

type redisCache struct {
	rdb *core.Redis
	ttl time.Duration
}

func (c *redisCache) Get(ctx context.Context, key string) ([]LeaderboardEntry, bool) {
	raw, err := c.rdb.Cmd().Get(ctx, leaderboardPrefix+key).Bytes()
	if err != nil {
		return nil, false
	}

	var entries []LeaderboardEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		slog.Warn("discarding corrupt leaderboard cache entry",
			"key", key,
			"error", err,
		)
		return nil, false
	}

	return entries, true
}

func (c *redisCache) Set(ctx context.Context, key string, entries []LeaderboardEntry) {
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}

	if err := c.rdb.Cmd().Set(ctx, leaderboardPrefix+key, raw, c.ttl).Err(); err != nil {
		slog.Warn("leaderboard cache write failed", "key", key, "error", err)
	}
}

type localCache struct {
	lru *expirable.LRU[string, []LeaderboardEntry]
}

func (c *localCache) Get(_ context.Context, key string) ([]LeaderboardEntry, bool) {
	return c.lru.Get(key)
}

func (c *localCache) Set(_ context.Context, key string, entries []LeaderboardEntry) {
	c.lru.Add(key, entries)
}

// NewLeaderboardCache uses Redis when configured so every replica shares one
// view. A non-positive ttl disables caching.
func NewLeaderboardCache(rdb *core.Redis, ttl time.Duration) LeaderboardCache {
	if ttl <= 0 {
		return noCache{}
	}
	if rdb.Available() {
		return &redisCache{rdb: rdb, ttl: ttl}
	}
	return &localCache{
		lru: expirable.NewLRU[string, []LeaderboardEntry](64, nil, ttl),
	}
}

type noCache struct{}

func (noCache) Get(context.Context, string) ([]LeaderboardEntry, bool) { return nil, false }
func (noCache) Set(context.Context, string, []LeaderboardEntry)        {}

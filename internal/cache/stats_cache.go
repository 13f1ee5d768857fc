package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redisv9 "github.com/redis/go-redis/v9"

	"graphdesk/internal/model"
)

// StatsCache caches per-owner graph stats so the dashboard does not hit three
// count queries on every poll.
type StatsCache struct {
	client *redisv9.Client
	ttl    time.Duration
}

func NewStatsCache(client *redisv9.Client, ttl time.Duration) *StatsCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &StatsCache{client: client, ttl: ttl}
}

func (c *StatsCache) GetStats(ctx context.Context, userID uint) (*model.GraphStats, bool, error) {
	raw, err := c.client.Get(ctx, c.key(userID)).Result()
	if err == redisv9.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get stats failed: %w", err)
	}

	var stats model.GraphStats
	if err := json.Unmarshal([]byte(raw), &stats); err != nil {
		return nil, false, fmt.Errorf("unmarshal cached stats failed: %w", err)
	}
	return &stats, true, nil
}

func (c *StatsCache) SetStats(ctx context.Context, userID uint, stats model.GraphStats) error {
	payload, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("marshal stats cache failed: %w", err)
	}
	if err := c.client.Set(ctx, c.key(userID), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set stats failed: %w", err)
	}
	return nil
}

func (c *StatsCache) InvalidateStats(ctx context.Context, userID uint) error {
	if err := c.client.Del(ctx, c.key(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete stats failed: %w", err)
	}
	return nil
}

func (c *StatsCache) key(userID uint) string {
	return fmt.Sprintf("graph:stats:%d", userID)
}

package leaderboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	topKeyPrefix  = "leaderboard:top:"
	generationKey = "leaderboard:generation"
)

// Cache stores rendered top lists under a generation. Invalidate bumps the
// generation, so a list computed before the bump is written under a key no
// reader asks for and expires with its TTL.
type Cache interface {
	Generation(ctx context.Context) (int64, error)
	GetTop(ctx context.Context, generation int64, limit int) ([]Entry, bool, error)
	SetTop(ctx context.Context, generation int64, limit int, entries []Entry) error
	Invalidate(ctx context.Context) error
}

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache returns a Redis-backed cache, or nil when client is nil.
func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	if client == nil {
		return nil
	}
	return &redisCache{client: client, ttl: ttl}
}

func topKey(generation int64, limit int) string {
	return fmt.Sprintf("%s%d:%d", topKeyPrefix, generation, limit)
}

func (c *redisCache) Generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if err == redis.Nil {
		return 0, nil
	}
	return gen, err
}

func (c *redisCache) GetTop(ctx context.Context, generation int64, limit int) ([]Entry, bool, error) {
	raw, err := c.client.Get(ctx, topKey(generation, limit)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var entries []Entry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, false, err
	}
	return entries, true, nil
}

func (c *redisCache) SetTop(ctx context.Context, generation int64, limit int, entries []Entry) error {
	raw, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, topKey(generation, limit), raw, c.ttl).Err()
}

func (c *redisCache) Invalidate(ctx context.Context) error {
	return c.client.Incr(ctx, generationKey).Err()
}

package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

// RedisCache shares lookup outcomes across server instances. Keys are scoped
// by session so one client's failures never hide a store from another.
type RedisCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewRedisCache(client redis.Cmdable, ttl time.Duration) *RedisCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCache{client: client, ttl: ttl}
}

func cacheKey(session, sellerID string) string {
	return fmt.Sprintf("geocode:%s:%s", session, sellerID)
}

func (c *RedisCache) Get(ctx context.Context, session, sellerID string) (Entry, bool, error) {
	raw, err := c.client.Get(ctx, cacheKey(session, sellerID)).Result()
	if errors.Is(err, redis.Nil) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("redis get: %w", err)
	}

	var e Entry
	if err := json.Unmarshal([]byte(raw), &e); err != nil {
		return Entry{}, false, fmt.Errorf("decode cached entry: %w", err)
	}
	return e, true, nil
}

func (c *RedisCache) Set(ctx context.Context, session, sellerID string, e Entry) error {
	b, err := json.Marshal(e)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, cacheKey(session, sellerID), string(b), c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

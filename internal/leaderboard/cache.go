package leaderboard

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Cache is a best-effort redis cache for serialized leaderboard snapshots.
// A nil Cache (or a Cache without a client) is valid and disables caching.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCache constructs a snapshot cache. A nil client disables caching.
func NewCache(client *redis.Client, ttl time.Duration) *Cache {
	if client == nil {
		return nil
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{client: client, ttl: ttl}
}

func cacheKey(typ string) string {
	return "leaderboard:" + typ
}

// Get returns the cached snapshot payload for a type, if present.
func (c *Cache) Get(ctx context.Context, typ string) ([]byte, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}
	payload, errGet := c.client.Get(ctx, cacheKey(typ)).Bytes()
	if errGet != nil {
		if errGet != redis.Nil {
			log.WithError(errGet).Warnf("leaderboard cache: get failed (type=%s)", typ)
		}
		return nil, false
	}
	return payload, true
}

// Set stores a snapshot payload with the configured TTL.
func (c *Cache) Set(ctx context.Context, typ string, payload []byte) {
	if c == nil || c.client == nil {
		return
	}
	if errSet := c.client.Set(ctx, cacheKey(typ), payload, c.ttl).Err(); errSet != nil {
		log.WithError(errSet).Warnf("leaderboard cache: set failed (type=%s)", typ)
	}
}

// Invalidate drops the cached payload for a type.
func (c *Cache) Invalidate(ctx context.Context, typ string) {
	if c == nil || c.client == nil {
		return
	}
	if errDel := c.client.Del(ctx, cacheKey(typ)).Err(); errDel != nil {
		log.WithError(errDel).Warnf("leaderboard cache: invalidate failed (type=%s)", typ)
	}
}

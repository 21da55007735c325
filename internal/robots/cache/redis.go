package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache is a Redis-backed Cache adapter. It gives robots.txt cache
// entries (`r:<domain>`, spec.md §6) a real TTL and makes the cache shared
// across Crawler replicas, unlike MemoryCache which is process-local.
type RedisCache struct {
	client *redis.Client
	ctx    context.Context
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client, ctx: context.Background()}
}

func (c *RedisCache) Get(key string) (string, bool) {
	val, err := c.client.Get(c.ctx, key).Result()
	if err != nil {
		return "", false
	}
	return val, true
}

func (c *RedisCache) Put(key string, value string) {
	c.client.Set(c.ctx, key, value, 0)
}

func (c *RedisCache) PutTTL(key string, value string, ttl time.Duration) {
	c.client.Set(c.ctx, key, value, ttl)
}

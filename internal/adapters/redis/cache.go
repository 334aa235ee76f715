package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const catalogKey = "catalog:events"

// CatalogCache stores the rendered events reply so repeated /events commands
// do not hit the store. Invalidated on every successful purchase.
type CatalogCache struct {
	client *redis.Client
}

func NewCatalogCache(client *redis.Client) *CatalogCache {
	return &CatalogCache{client: client}
}

func (c *CatalogCache) Get(ctx context.Context) (string, error) {
	val, err := c.client.Get(ctx, catalogKey).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

func (c *CatalogCache) Set(ctx context.Context, reply string, ttl time.Duration) error {
	return c.client.Set(ctx, catalogKey, reply, ttl).Err()
}

func (c *CatalogCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, catalogKey).Err()
}

package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Dedupe records processed update ids. Telegram redelivers a webhook until it
// gets a 2xx, so the same update can arrive more than once.
type Dedupe struct {
	client *redis.Client
}

func NewDedupe(client *redis.Client) *Dedupe {
	return &Dedupe{client: client}
}

// FirstSeen marks the update id and reports whether this was its first
// appearance within the ttl window.
func (d *Dedupe) FirstSeen(ctx context.Context, updateID int64, ttl time.Duration) (bool, error) {
	key := "update:" + strconv.FormatInt(updateID, 10)
	res := d.client.SetNX(ctx, key, 1, ttl)
	return res.Val(), res.Err()
}

package idempotency

import (
	"context"
	"time"

	redisadapter "github.com/ticketlab/telegram-tickets-bot/internal/adapters/redis"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
)

// Deduper suppresses reprocessing of redelivered updates. Redis being down
// degrades to processing without deduplication; command handling is safe to
// repeat except for the purchase path, where a rare duplicate issues a
// duplicate ticket rather than corrupting inventory.
type Deduper struct {
	redis  *redisadapter.Dedupe
	ttl    time.Duration
	logger observability.Logger
}

func NewDeduper(redis *redisadapter.Dedupe, ttl time.Duration, logger observability.Logger) *Deduper {
	return &Deduper{redis: redis, ttl: ttl, logger: logger}
}

// ShouldProcess reports whether the update id has not been seen before.
func (d *Deduper) ShouldProcess(ctx context.Context, updateID int64) bool {
	first, err := d.redis.FirstSeen(ctx, updateID, d.ttl)
	if err != nil {
		d.logger.WithField("update_id", updateID).Warn("update dedupe unavailable: ", err)
		return true
	}
	return first
}

package bot

import (
	"context"
	"sync/atomic"

	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
	"golang.org/x/sync/errgroup"
)

// fanOut delivers text to every chat id, at most BroadcastConcurrency sends in
// flight. Each recipient is attempted exactly once; a failed send is tallied
// and logged, never aborts the batch. Returns the exact sent/failed counts.
func (d *Dispatcher) fanOut(ctx context.Context, chatIDs []int64, text string) (sent, failed int) {
	body := broadcastBodyPrefix + text

	var sentN, failedN int64
	g := new(errgroup.Group)
	g.SetLimit(d.cfg.BroadcastConcurrency)
	for _, chatID := range chatIDs {
		chatID := chatID
		g.Go(func() error {
			sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
			defer cancel()
			if err := d.sender.SendMessage(sendCtx, chatID, body); err != nil {
				atomic.AddInt64(&failedN, 1)
				observability.BroadcastRecipients.WithLabelValues("failed").Inc()
				d.logger.WithField("chat_id", chatID).Warn("broadcast send failed: ", err)
				return nil
			}
			atomic.AddInt64(&sentN, 1)
			observability.BroadcastRecipients.WithLabelValues("sent").Inc()
			return nil
		})
	}
	g.Wait()

	return int(sentN), int(failedN)
}

package outbox

import (
	"context"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ticketlab/telegram-tickets-bot/internal/adapters/postgres"
	"github.com/ticketlab/telegram-tickets-bot/internal/adapters/rabbit"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
)

const (
	pollInterval = 5 * time.Second
	batchSize    = 50
)

// Publisher drains NEW outbox records to RabbitMQ. Records written inside the
// issuance transaction become visible here only after that transaction
// commits, so a published ticket.issued always has a committed ticket behind it.
type Publisher struct {
	repo      *postgres.Repository
	rabbitPub *rabbit.Publisher
	logger    observability.Logger
}

func NewPublisher(repo *postgres.Repository, rabbitPub *rabbit.Publisher, logger observability.Logger) *Publisher {
	return &Publisher{repo: repo, rabbitPub: rabbitPub, logger: logger}
}

func (p *Publisher) Run(ctx context.Context) {
	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.drain(ctx)
		}
	}
}

func (p *Publisher) drain(ctx context.Context) {
	records, err := p.repo.GetUnpublishedOutbox(ctx, batchSize)
	if err != nil {
		p.logger.Error("outbox fetch failed: ", err)
		return
	}
	if len(records) == 0 {
		observability.OutboxLag.Set(0)
		return
	}
	observability.OutboxLag.Set(time.Since(records[0].CreatedAt).Seconds())

	for _, rec := range records {
		msg := amqp.Publishing{
			MessageId:   rec.DedupeKey,
			ContentType: "application/json",
			Body:        rec.Payload,
		}
		if err := p.rabbitPub.Publish(ctx, rec.EventType, msg); err != nil {
			p.logger.WithField("outbox_id", rec.ID).Error("outbox publish failed: ", err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, rec.ID, time.Now()); err != nil {
			p.logger.WithField("outbox_id", rec.ID).Error("outbox mark failed: ", err)
		}
	}
}

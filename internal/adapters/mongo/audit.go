package mongo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
	"go.mongodb.org/mongo-driver/mongo"
)

// AuditLogger records every processed command for after-the-fact inspection.
// Writes are best-effort; the dispatcher logs and moves on when one fails.
type AuditLogger struct {
	coll   *mongo.Collection
	logger observability.Logger
}

func NewAuditLogger(db *mongo.Database, logger observability.Logger) *AuditLogger {
	return &AuditLogger{
		coll:   db.Collection("command_audit"),
		logger: logger,
	}
}

type CommandRecord struct {
	ID             uuid.UUID `bson:"_id"`
	ChatID         int64     `bson:"chat_id"`
	TelegramUserID int64     `bson:"telegram_user_id"`
	Command        string    `bson:"command"`
	Outcome        string    `bson:"outcome"`
	Timestamp      time.Time `bson:"timestamp"`
}

func (a *AuditLogger) RecordCommand(ctx context.Context, chatID, telegramUserID int64, command, outcome string) error {
	rec := CommandRecord{
		ID:             uuid.New(),
		ChatID:         chatID,
		TelegramUserID: telegramUserID,
		Command:        command,
		Outcome:        outcome,
		Timestamp:      time.Now(),
	}
	_, err := a.coll.InsertOne(ctx, rec)
	if err != nil {
		a.logger.Error("failed to insert command audit record", err)
		return err
	}
	return nil
}

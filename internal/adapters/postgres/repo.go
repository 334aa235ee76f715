package postgres

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ticketlab/telegram-tickets-bot/internal/domain"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
)

const (
	UniqueViolationCode = "23505"

	// codeRetries bounds regeneration attempts when a generated ticket code
	// collides with an existing row.
	codeRetries = 3
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

func (r *Repository) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	start := time.Now()
	defer func() {
		observability.StoreTxDuration.Observe(time.Since(start).Seconds())
	}()

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return markStore(err)
	}
	defer tx.Rollback(ctx)

	if err := fn(tx); err != nil {
		return err
	}

	return markStore(tx.Commit(ctx))
}

// markStore tags non-business failures as transient store unavailability so
// callers can degrade to a retry-safe reply.
func markStore(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, domain.ErrStoreUnavailable)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == UniqueViolationCode
}

func (r *Repository) UpsertUser(ctx context.Context, user domain.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO telegram_users (id, telegram_user_id, first_name, last_name, username, created_at, updated_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NULLIF($5, ''), now(), now())
		ON CONFLICT (telegram_user_id) DO UPDATE SET
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			username = EXCLUDED.username,
			updated_at = now()
	`, uuid.New(), user.TelegramUserID, user.FirstName, user.LastName, user.Username)
	return markStore(errors.Wrap(err, "upsert user"))
}

func (r *Repository) UpsertChat(ctx context.Context, chatID int64) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO chats (chat_id, active, last_seen_at)
		VALUES ($1, TRUE, now())
		ON CONFLICT (chat_id) DO UPDATE SET active = TRUE, last_seen_at = now()
	`, chatID)
	return markStore(errors.Wrap(err, "upsert chat"))
}

func (r *Repository) GetUserByTelegramID(ctx context.Context, telegramUserID int64) (domain.User, error) {
	var user domain.User
	err := r.pool.QueryRow(ctx, `
		SELECT id, telegram_user_id, first_name, COALESCE(last_name, ''), COALESCE(username, '')
		FROM telegram_users WHERE telegram_user_id = $1
	`, telegramUserID).Scan(&user.ID, &user.TelegramUserID, &user.FirstName, &user.LastName, &user.Username)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.User{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.User{}, markStore(errors.Wrap(err, "get user"))
	}
	return user, nil
}

func (r *Repository) ListAvailableEvents(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, description, date, location, price, available_tickets
		FROM events WHERE available_tickets > 0 ORDER BY date ASC
	`)
	if err != nil {
		return nil, markStore(errors.Wrap(err, "list events"))
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Date, &e.Location, &e.Price, &e.AvailableTickets); err != nil {
			return nil, markStore(errors.Wrap(err, "scan event"))
		}
		events = append(events, e)
	}
	return events, markStore(rows.Err())
}

func (r *Repository) ListTicketsForUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketWithEvent, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT t.id, t.user_id, t.event_id, t.ticket_code, t.status, t.purchase_date,
		       e.title, e.date, e.location
		FROM tickets t
		JOIN events e ON e.id = t.event_id
		WHERE t.user_id = $1
		ORDER BY t.purchase_date DESC
	`, userID)
	if err != nil {
		return nil, markStore(errors.Wrap(err, "list tickets"))
	}
	defer rows.Close()

	var tickets []domain.TicketWithEvent
	for rows.Next() {
		var t domain.TicketWithEvent
		if err := rows.Scan(&t.ID, &t.UserID, &t.EventID, &t.Code, &t.Status, &t.PurchaseDate,
			&t.EventTitle, &t.EventDate, &t.EventLocation); err != nil {
			return nil, markStore(errors.Wrap(err, "scan ticket"))
		}
		tickets = append(tickets, t)
	}
	return tickets, markStore(rows.Err())
}

func (r *Repository) ListActiveChatIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.pool.Query(ctx, `SELECT chat_id FROM chats WHERE active ORDER BY chat_id`)
	if err != nil {
		return nil, markStore(errors.Wrap(err, "list chats"))
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, markStore(errors.Wrap(err, "scan chat"))
		}
		ids = append(ids, id)
	}
	return ids, markStore(rows.Err())
}

// IssueTicket performs the purchase as one transaction: resolve the event and
// user, insert the ticket, then decrement inventory with
// `available_tickets > 0` as the guard. When the guard refuses the decrement
// (the last unit went to a concurrent purchase) the whole transaction rolls
// back, so no orphaned ticket row survives, and ErrSoldOut is returned.
func (r *Repository) IssueTicket(ctx context.Context, eventID string, telegramUserID int64) (domain.Ticket, domain.Event, error) {
	id, err := uuid.Parse(eventID)
	if err != nil {
		return domain.Ticket{}, domain.Event{}, domain.ErrNotFound
	}

	var ticket domain.Ticket
	var event domain.Event

	err = r.WithTx(ctx, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx, `
			SELECT id, title, description, date, location, price, available_tickets
			FROM events WHERE id = $1
		`, id).Scan(&event.ID, &event.Title, &event.Description, &event.Date, &event.Location, &event.Price, &event.AvailableTickets)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return markStore(errors.Wrap(err, "get event"))
		}
		if event.AvailableTickets <= 0 {
			return domain.ErrSoldOut
		}

		var userID uuid.UUID
		err = tx.QueryRow(ctx, `
			SELECT id FROM telegram_users WHERE telegram_user_id = $1
		`, telegramUserID).Scan(&userID)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotRegistered
		}
		if err != nil {
			return markStore(errors.Wrap(err, "resolve user"))
		}

		// The insert runs inside a savepoint so a code collision can be
		// retried without aborting the surrounding transaction.
		for attempt := 0; ; attempt++ {
			ticket = domain.NewTicket(userID, id)
			sp, err := tx.Begin(ctx)
			if err != nil {
				return markStore(errors.Wrap(err, "begin savepoint"))
			}
			_, err = sp.Exec(ctx, `
				INSERT INTO tickets (id, user_id, event_id, ticket_code, status, purchase_date)
				VALUES ($1, $2, $3, $4, $5, $6)
			`, ticket.ID, ticket.UserID, ticket.EventID, ticket.Code, ticket.Status, ticket.PurchaseDate)
			if err == nil {
				if err := sp.Commit(ctx); err != nil {
					return markStore(errors.Wrap(err, "commit savepoint"))
				}
				break
			}
			sp.Rollback(ctx)
			if isUniqueViolation(err) && attempt < codeRetries {
				continue
			}
			return markStore(errors.Wrap(err, "insert ticket"))
		}

		result, err := tx.Exec(ctx, `
			UPDATE events SET available_tickets = available_tickets - 1
			WHERE id = $1 AND available_tickets > 0
		`, id)
		if err != nil {
			return markStore(errors.Wrap(err, "decrement inventory"))
		}
		if result.RowsAffected() == 0 {
			return domain.ErrSoldOut
		}
		event.AvailableTickets--

		payload, _ := json.Marshal(map[string]interface{}{
			"ticket_id":   ticket.ID,
			"event_id":    id,
			"ticket_code": ticket.Code,
			"user_id":     userID,
		})
		return r.InsertOutbox(ctx, tx, OutboxRecord{
			ID:            uuid.New(),
			AggregateType: "ticket",
			AggregateID:   ticket.ID,
			EventType:     "ticket.issued",
			Payload:       payload,
			DedupeKey:     ticket.Code,
		})
	})
	if err != nil {
		return domain.Ticket{}, domain.Event{}, err
	}
	return ticket, event, nil
}

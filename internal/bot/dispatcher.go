package bot

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"github.com/ticketlab/telegram-tickets-bot/internal/config"
	"github.com/ticketlab/telegram-tickets-bot/internal/domain"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
)

// Inbound is one textual update from the messaging platform, already
// unwrapped from the transport envelope.
type Inbound struct {
	UpdateID  int64
	ChatID    int64
	Text      string
	UserID    int64
	FirstName string
	LastName  string
	Username  string
}

// Store is the ticketing store consumed by the dispatcher. IssueTicket is an
// atomic unit: ticket insertion and the conditional inventory decrement either
// both apply or neither does, and losing the inventory race surfaces as
// domain.ErrSoldOut.
type Store interface {
	UpsertUser(ctx context.Context, user domain.User) error
	UpsertChat(ctx context.Context, chatID int64) error
	ListAvailableEvents(ctx context.Context) ([]domain.Event, error)
	GetUserByTelegramID(ctx context.Context, telegramUserID int64) (domain.User, error)
	ListTicketsForUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketWithEvent, error)
	IssueTicket(ctx context.Context, eventID string, telegramUserID int64) (domain.Ticket, domain.Event, error)
	ListActiveChatIDs(ctx context.Context) ([]int64, error)
}

type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// CatalogCache holds the rendered /events reply. Get returns "" on miss.
type CatalogCache interface {
	Get(ctx context.Context) (string, error)
	Set(ctx context.Context, reply string, ttl time.Duration) error
	Invalidate(ctx context.Context) error
}

type Auditor interface {
	RecordCommand(ctx context.Context, chatID, telegramUserID int64, command, outcome string) error
}

// Dispatcher routes one classified command to its handler and replies to the
// triggering chat. It holds no per-conversation state; every invocation is
// independent and all shared state lives behind Store.
type Dispatcher struct {
	cfg    *config.Config
	store  Store
	sender Sender
	cache  CatalogCache
	audit  Auditor
	logger observability.Logger
}

// NewDispatcher wires the dispatcher. cache and audit may be nil; both are
// best-effort side channels.
func NewDispatcher(cfg *config.Config, store Store, sender Sender, cache CatalogCache, audit Auditor, logger observability.Logger) *Dispatcher {
	return &Dispatcher{
		cfg:    cfg,
		store:  store,
		sender: sender,
		cache:  cache,
		audit:  audit,
		logger: logger,
	}
}

// Handle processes one inbound message end to end. Messages without text are
// ignored. The returned error is non-nil only when the reply to the
// triggering chat could not be delivered; business failures render as reply
// text and are not propagated.
func (d *Dispatcher) Handle(ctx context.Context, in Inbound) error {
	if in.Text == "" {
		return nil
	}

	d.register(ctx, in)

	cmd := Classify(in.Text)
	reply, outcome := d.execute(ctx, cmd, in)
	observability.CommandsTotal.WithLabelValues(cmd.Kind.String(), outcome).Inc()

	if d.audit != nil {
		if err := d.audit.RecordCommand(ctx, in.ChatID, in.UserID, cmd.Kind.String(), outcome); err != nil {
			d.logger.WithField("chat_id", in.ChatID).Warn("audit record failed: ", err)
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, d.cfg.SendTimeout)
	defer cancel()
	if err := d.sender.SendMessage(sendCtx, in.ChatID, reply); err != nil {
		observability.TelegramSendFailures.Inc()
		return errors.Mark(errors.Wrapf(err, "reply to chat %d", in.ChatID), domain.ErrDeliveryFailed)
	}
	return nil
}

// register upserts the sender's profile and the chat registry entry. Both are
// best-effort: a store failure here is logged, never blocks the command.
func (d *Dispatcher) register(ctx context.Context, in Inbound) {
	user := domain.User{
		TelegramUserID: in.UserID,
		FirstName:      in.FirstName,
		LastName:       in.LastName,
		Username:       in.Username,
	}
	if err := d.store.UpsertUser(ctx, user); err != nil {
		d.logger.WithField("telegram_user_id", in.UserID).Error("user upsert failed: ", err)
	}
	if err := d.store.UpsertChat(ctx, in.ChatID); err != nil {
		d.logger.WithField("chat_id", in.ChatID).Error("chat upsert failed: ", err)
	}
}

func (d *Dispatcher) execute(ctx context.Context, cmd Command, in Inbound) (reply, outcome string) {
	switch cmd.Kind {
	case CmdStart:
		return welcomeReply(in.FirstName), "ok"
	case CmdHelp:
		return helpReply, "ok"
	case CmdEvents:
		return d.handleEvents(ctx)
	case CmdBuy:
		return d.handleBuy(ctx, cmd.EventID, in.UserID)
	case CmdMyTickets:
		return d.handleMyTickets(ctx, in.UserID)
	case CmdBroadcast:
		return d.handleBroadcast(ctx, cmd.Broadcast)
	default:
		return unknownReply(cmd.Raw), "unknown"
	}
}

func (d *Dispatcher) handleEvents(ctx context.Context) (string, string) {
	if d.cache != nil {
		if cached, err := d.cache.Get(ctx); err != nil {
			d.logger.Warn("catalog cache get failed: ", err)
		} else if cached != "" {
			return cached, "ok"
		}
	}

	events, err := d.store.ListAvailableEvents(ctx)
	if err != nil {
		d.logger.Error("list events failed: ", err)
		return eventsErrorReply, "store_error"
	}
	if len(events) == 0 {
		return noEventsReply, "ok"
	}

	reply := eventsReply(events)
	if d.cache != nil {
		if err := d.cache.Set(ctx, reply, d.cfg.CatalogCacheTTL); err != nil {
			d.logger.Warn("catalog cache set failed: ", err)
		}
	}
	return reply, "ok"
}

func (d *Dispatcher) handleBuy(ctx context.Context, eventID string, telegramUserID int64) (string, string) {
	ticket, event, err := d.store.IssueTicket(ctx, eventID, telegramUserID)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return eventNotFoundReply, "not_found"
	case errors.Is(err, domain.ErrSoldOut):
		observability.SoldOutRejections.Inc()
		return soldOutReply, "sold_out"
	case errors.Is(err, domain.ErrUserNotRegistered):
		return notRegisteredReply, "unregistered"
	case err != nil:
		d.logger.WithField("event_id", eventID).Error("ticket issuance failed: ", err)
		return purchaseErrorReply, "store_error"
	}

	observability.TicketsIssued.Inc()
	if d.cache != nil {
		if err := d.cache.Invalidate(ctx); err != nil {
			d.logger.Warn("catalog cache invalidate failed: ", err)
		}
	}
	return purchaseReply(ticket, event), "ok"
}

func (d *Dispatcher) handleMyTickets(ctx context.Context, telegramUserID int64) (string, string) {
	user, err := d.store.GetUserByTelegramID(ctx, telegramUserID)
	if errors.Is(err, domain.ErrNotFound) {
		return notRegisteredReply, "unregistered"
	}
	if err != nil {
		d.logger.Error("user lookup failed: ", err)
		return ticketsErrorReply, "store_error"
	}

	tickets, err := d.store.ListTicketsForUser(ctx, user.ID)
	if err != nil {
		d.logger.Error("list tickets failed: ", err)
		return ticketsErrorReply, "store_error"
	}
	if len(tickets) == 0 {
		return noTicketsReply, "ok"
	}
	return ticketsReply(tickets), "ok"
}

func (d *Dispatcher) handleBroadcast(ctx context.Context, text string) (string, string) {
	if strings.TrimSpace(text) == "" {
		return broadcastUsage, "ok"
	}

	chatIDs, err := d.store.ListActiveChatIDs(ctx)
	if err != nil {
		d.logger.Error("list chats failed: ", err)
		return broadcastErrorReply, "store_error"
	}
	if len(chatIDs) == 0 {
		return noRecipientsReply, "ok"
	}

	sent, failed := d.fanOut(ctx, chatIDs, text)
	return broadcastReply(sent, failed), "ok"
}

package domain

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors a Telegram identity. TelegramUserID is the stable platform
// id; profile fields are overwritten on every inbound message.
type User struct {
	ID             uuid.UUID
	TelegramUserID int64
	FirstName      string
	LastName       string
	Username       string
}

type Event struct {
	ID               uuid.UUID
	Title            string
	Description      string
	Date             time.Time
	Location         string
	Price            float64
	AvailableTickets int
}

const (
	TicketStatusActive  = "active"
	TicketStatusUsed    = "used"
	TicketStatusExpired = "expired"
)

type Ticket struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	EventID      uuid.UUID
	Code         string
	Status       string
	PurchaseDate time.Time
}

// TicketWithEvent is a ledger row: a ticket joined with its event metadata.
type TicketWithEvent struct {
	Ticket
	EventTitle    string
	EventDate     time.Time
	EventLocation string
}

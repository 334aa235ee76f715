package domain

import (
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 13
)

// NewTicketCode draws a 13-character code from a base-36 alphabet. At ~67
// bits of entropy a collision across any realistic ticket volume is
// negligible; the store's unique index on the code is the backstop.
func NewTicketCode() string {
	max := big.NewInt(int64(len(codeAlphabet)))
	buf := make([]byte, codeLength)
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand only fails if the OS entropy source is broken
			panic(err)
		}
		buf[i] = codeAlphabet[n.Int64()]
	}
	return string(buf)
}

func NewTicket(userID, eventID uuid.UUID) Ticket {
	return Ticket{
		ID:           uuid.New(),
		UserID:       userID,
		EventID:      eventID,
		Code:         NewTicketCode(),
		Status:       TicketStatusActive,
		PurchaseDate: time.Now(),
	}
}

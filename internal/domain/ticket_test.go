package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestNewTicketCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		code := NewTicketCode()
		if len(code) != codeLength {
			t.Fatalf("expected %d chars, got %q", codeLength, code)
		}
		for _, c := range code {
			if !strings.ContainsRune(codeAlphabet, c) {
				t.Fatalf("code %q contains %q outside the alphabet", code, c)
			}
		}
		if seen[code] {
			t.Fatalf("duplicate code %q within 1000 draws", code)
		}
		seen[code] = true
	}
}

func TestNewTicket(t *testing.T) {
	userID := uuid.New()
	eventID := uuid.New()
	ticket := NewTicket(userID, eventID)

	if ticket.UserID != userID || ticket.EventID != eventID {
		t.Errorf("ticket references wrong owner or event: %+v", ticket)
	}
	if ticket.Status != TicketStatusActive {
		t.Errorf("expected active status, got %q", ticket.Status)
	}
	if ticket.Code == "" || ticket.ID == uuid.Nil {
		t.Errorf("ticket missing code or id: %+v", ticket)
	}
}

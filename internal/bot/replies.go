package bot

import (
	"fmt"
	"strings"

	"github.com/ticketlab/telegram-tickets-bot/internal/domain"
)

const dateLayout = "Jan 2, 2006"

const helpReply = `🎫 Event Tickets Bot Help

Available commands:
/start - Welcome message
/events - View all available events
/mytickets - View your purchased tickets
/broadcast <message> - Send message to all users
/help - Show this help message

To purchase a ticket:
1. Use /events to see available events
2. Copy the /buy_[event_id] command for the event you want
3. Send that command to purchase your ticket`

const (
	noEventsReply       = "No events available at the moment."
	eventNotFoundReply  = "Event not found."
	soldOutReply        = "Sorry, this event is sold out."
	notRegisteredReply  = "Please start a conversation with the bot first using /start"
	eventsErrorReply    = "Error fetching events. Please try again."
	ticketsErrorReply   = "Error fetching your tickets. Please try again."
	purchaseErrorReply  = "Error purchasing ticket. Please try again."
	broadcastUsage      = "Usage: /broadcast <your message>"
	broadcastErrorReply = "Error broadcasting message. Please try again."
	noRecipientsReply   = "No chats found for broadcasting."
	noTicketsReply      = "🎫 You don't have any tickets yet.\n\nUse /events to browse available events and purchase tickets!"
	broadcastBodyPrefix = "📢 BROADCAST MESSAGE:\n\n"
)

func welcomeReply(firstName string) string {
	return fmt.Sprintf(`🎫 Welcome to Event Tickets Bot, %s!

Available commands:
/events - View available events
/mytickets - View your tickets
/broadcast - Send message to all users (admin only)
/help - Show this help message

Get started by checking out available events with /events`, firstName)
}

func unknownReply(text string) string {
	return fmt.Sprintf("❓ Unknown command: %q\n\nUse /help to see available commands.", text)
}

func eventsReply(events []domain.Event) string {
	var b strings.Builder
	b.WriteString("🎫 Available Events:\n\n")
	for i, e := range events {
		fmt.Fprintf(&b, "%d. %s\n", i+1, e.Title)
		fmt.Fprintf(&b, "📅 %s\n", e.Date.Format(dateLayout))
		fmt.Fprintf(&b, "📍 %s\n", e.Location)
		fmt.Fprintf(&b, "💰 $%.2f\n", e.Price)
		fmt.Fprintf(&b, "🎟️ %d tickets available\n", e.AvailableTickets)
		fmt.Fprintf(&b, "\nTo buy: /buy_%s\n\n", e.ID)
	}
	return b.String()
}

func ticketsReply(tickets []domain.TicketWithEvent) string {
	var b strings.Builder
	b.WriteString("🎫 Your Tickets:\n\n")
	for i, t := range tickets {
		fmt.Fprintf(&b, "%d. %s\n", i+1, t.EventTitle)
		fmt.Fprintf(&b, "🏷️ Code: %s\n", t.Code)
		fmt.Fprintf(&b, "📅 %s\n", t.EventDate.Format(dateLayout))
		fmt.Fprintf(&b, "📍 %s\n", t.EventLocation)
		fmt.Fprintf(&b, "📊 Status: %s\n\n", t.Status)
	}
	return b.String()
}

func purchaseReply(ticket domain.Ticket, event domain.Event) string {
	return fmt.Sprintf(`✅ Ticket purchased successfully!

🎫 Event: %s
🏷️ Ticket Code: %s
📅 Date: %s
📍 Location: %s
💰 Price: $%.2f

Keep your ticket code safe! Use /mytickets to view all your tickets.`,
		event.Title, ticket.Code, event.Date.Format(dateLayout), event.Location, event.Price)
}

func broadcastReply(sent, failed int) string {
	return fmt.Sprintf("📢 Broadcast completed!\n✅ Sent to: %d users\n❌ Failed: %d users", sent, failed)
}

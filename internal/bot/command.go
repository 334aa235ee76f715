package bot

import "strings"

type CommandKind int

const (
	CmdUnknown CommandKind = iota
	CmdStart
	CmdHelp
	CmdEvents
	CmdBuy
	CmdMyTickets
	CmdBroadcast
)

func (k CommandKind) String() string {
	switch k {
	case CmdStart:
		return "start"
	case CmdHelp:
		return "help"
	case CmdEvents:
		return "events"
	case CmdBuy:
		return "buy"
	case CmdMyTickets:
		return "mytickets"
	case CmdBroadcast:
		return "broadcast"
	default:
		return "unknown"
	}
}

// Command is the classified form of one inbound message. EventID is set for
// CmdBuy, Broadcast for CmdBroadcast, Raw always carries the original text.
type Command struct {
	Kind      CommandKind
	EventID   string
	Broadcast string
	Raw       string
}

// Classify maps message text to a command by prefix. The table is ordered and
// the first match wins; anything else is CmdUnknown. Classification is pure:
// no state survives between messages.
func Classify(text string) Command {
	cmd := Command{Raw: text}
	switch {
	case strings.HasPrefix(text, "/start"):
		cmd.Kind = CmdStart
	case strings.HasPrefix(text, "/events"):
		cmd.Kind = CmdEvents
	case strings.HasPrefix(text, "/buy_"):
		cmd.Kind = CmdBuy
		cmd.EventID = strings.TrimPrefix(text, "/buy_")
	case strings.HasPrefix(text, "/mytickets"):
		cmd.Kind = CmdMyTickets
	case strings.HasPrefix(text, "/broadcast "):
		cmd.Kind = CmdBroadcast
		cmd.Broadcast = strings.TrimPrefix(text, "/broadcast ")
	case strings.HasPrefix(text, "/help"):
		cmd.Kind = CmdHelp
	default:
		cmd.Kind = CmdUnknown
	}
	return cmd
}

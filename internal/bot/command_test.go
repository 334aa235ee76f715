package bot

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		text      string
		kind      CommandKind
		eventID   string
		broadcast string
	}{
		{text: "/start", kind: CmdStart},
		{text: "/start extra words", kind: CmdStart},
		{text: "/help", kind: CmdHelp},
		{text: "/events", kind: CmdEvents},
		{text: "/buy_3f1c0e9a", kind: CmdBuy, eventID: "3f1c0e9a"},
		{text: "/buy_", kind: CmdBuy, eventID: ""},
		{text: "/mytickets", kind: CmdMyTickets},
		{text: "/broadcast hello everyone", kind: CmdBroadcast, broadcast: "hello everyone"},
		{text: "/broadcast", kind: CmdUnknown},
		{text: "hello", kind: CmdUnknown},
		{text: "/unknown", kind: CmdUnknown},
		{text: "buy_123", kind: CmdUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			cmd := Classify(tt.text)
			if cmd.Kind != tt.kind {
				t.Errorf("Classify(%q).Kind = %v, want %v", tt.text, cmd.Kind, tt.kind)
			}
			if cmd.EventID != tt.eventID {
				t.Errorf("Classify(%q).EventID = %q, want %q", tt.text, cmd.EventID, tt.eventID)
			}
			if cmd.Broadcast != tt.broadcast {
				t.Errorf("Classify(%q).Broadcast = %q, want %q", tt.text, cmd.Broadcast, tt.broadcast)
			}
			if cmd.Raw != tt.text {
				t.Errorf("Classify(%q).Raw = %q", tt.text, cmd.Raw)
			}
		})
	}
}

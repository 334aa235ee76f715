package http_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ticketlab/telegram-tickets-bot/internal/adapters/telegram"
	"github.com/ticketlab/telegram-tickets-bot/internal/bot"
	"github.com/ticketlab/telegram-tickets-bot/internal/config"
	"github.com/ticketlab/telegram-tickets-bot/internal/domain"
	httphandler "github.com/ticketlab/telegram-tickets-bot/internal/http"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
)

type stubStore struct{}

func (stubStore) UpsertUser(ctx context.Context, user domain.User) error { return nil }
func (stubStore) UpsertChat(ctx context.Context, chatID int64) error     { return nil }
func (stubStore) ListAvailableEvents(ctx context.Context) ([]domain.Event, error) {
	return nil, nil
}
func (stubStore) GetUserByTelegramID(ctx context.Context, telegramUserID int64) (domain.User, error) {
	return domain.User{}, domain.ErrNotFound
}
func (stubStore) ListTicketsForUser(ctx context.Context, userID uuid.UUID) ([]domain.TicketWithEvent, error) {
	return nil, nil
}
func (stubStore) IssueTicket(ctx context.Context, eventID string, telegramUserID int64) (domain.Ticket, domain.Event, error) {
	return domain.Ticket{}, domain.Event{}, domain.ErrNotFound
}
func (stubStore) ListActiveChatIDs(ctx context.Context) ([]int64, error) { return nil, nil }

type recordingSender struct {
	mu   sync.Mutex
	sent map[int64][]string
	fail bool
}

func (s *recordingSender) SendMessage(ctx context.Context, chatID int64, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return domain.ErrDeliveryFailed
	}
	if s.sent == nil {
		s.sent = make(map[int64][]string)
	}
	s.sent[chatID] = append(s.sent[chatID], text)
	return nil
}

func newTestServer(t *testing.T, sender bot.Sender, tgBase string) *httptest.Server {
	t.Helper()
	cfg := &config.Config{
		SendTimeout:          time.Second,
		BroadcastConcurrency: 2,
		CatalogCacheTTL:      time.Minute,
		TelegramAPIBase:      tgBase,
		BotToken:             "test-token",
	}
	logger := observability.NewLogger()
	disp := bot.NewDispatcher(cfg, stubStore{}, sender, nil, nil, logger)
	tg := telegram.NewClient(cfg.TelegramAPIBase, cfg.BotToken, cfg.SendTimeout)
	handlers := httphandler.NewHandlers(cfg, disp, tg, nil, logger)
	srv := httptest.NewServer(httphandler.SetupRouter(handlers, logger))
	t.Cleanup(srv.Close)
	return srv
}

func postUpdate(t *testing.T, url string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url+"/webhook", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestWebhook_TextlessUpdateIsAccepted(t *testing.T) {
	sender := &recordingSender{}
	srv := newTestServer(t, sender, "http://unused")

	resp := postUpdate(t, srv.URL, `{"update_id": 1, "message": {"message_id": 1, "chat": {"id": 5, "type": "private"}, "from": {"id": 9, "first_name": "A"}}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if len(sender.sent) != 0 {
		t.Errorf("textless update produced a reply: %v", sender.sent)
	}
}

func TestWebhook_InvalidJSON(t *testing.T) {
	srv := newTestServer(t, &recordingSender{}, "http://unused")

	resp := postUpdate(t, srv.URL, `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestWebhook_CommandRoundTrip(t *testing.T) {
	sender := &recordingSender{}
	srv := newTestServer(t, sender, "http://unused")

	resp := postUpdate(t, srv.URL, `{"update_id": 2, "message": {"message_id": 2, "chat": {"id": 5, "type": "private"}, "from": {"id": 9, "first_name": "Ann"}, "text": "/start"}}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	msgs := sender.sent[5]
	if len(msgs) != 1 || !strings.Contains(msgs[0], "Welcome to Event Tickets Bot, Ann!") {
		t.Errorf("unexpected reply %v", msgs)
	}
}

func TestWebhook_ReplyDeliveryFailureAnswers502(t *testing.T) {
	sender := &recordingSender{fail: true}
	srv := newTestServer(t, sender, "http://unused")

	resp := postUpdate(t, srv.URL, `{"update_id": 3, "message": {"message_id": 3, "chat": {"id": 5, "type": "private"}, "from": {"id": 9, "first_name": "Ann"}, "text": "/help"}}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", resp.StatusCode)
	}
}

func TestAdmin_SetWebhook(t *testing.T) {
	tgAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/setWebhook") {
			t.Errorf("unexpected telegram call %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{"ok": true, "result": true})
	}))
	defer tgAPI.Close()

	srv := newTestServer(t, &recordingSender{}, tgAPI.URL)

	resp, err := http.Post(srv.URL+"/admin/webhook", "application/json",
		strings.NewReader(`{"webhook_url": "https://bot.example.com/webhook"}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		Success bool `json:"success"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.Success {
		t.Error("expected success response")
	}
}

func TestAdmin_BotInfo(t *testing.T) {
	tgAPI := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getMe"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok": true, "result": map[string]interface{}{"id": 1, "username": "tickets_bot", "first_name": "Tickets"},
			})
		case strings.HasSuffix(r.URL.Path, "/getWebhookInfo"):
			json.NewEncoder(w).Encode(map[string]interface{}{
				"ok": true, "result": map[string]interface{}{"url": "https://bot.example.com/webhook"},
			})
		default:
			t.Errorf("unexpected telegram call %s", r.URL.Path)
		}
	}))
	defer tgAPI.Close()

	srv := newTestServer(t, &recordingSender{}, tgAPI.URL)

	resp, err := http.Get(srv.URL + "/admin/bot-info")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var body struct {
		WebhookConfigured bool `json:"webhook_configured"`
		BotInfo           struct {
			Username string `json:"username"`
		} `json:"bot_info"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if !body.WebhookConfigured || body.BotInfo.Username != "tickets_bot" {
		t.Errorf("unexpected bot info %+v", body)
	}
}

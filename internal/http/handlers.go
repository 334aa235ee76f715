package http

import (
	"encoding/json"
	"net/http"

	"github.com/ticketlab/telegram-tickets-bot/internal/adapters/telegram"
	"github.com/ticketlab/telegram-tickets-bot/internal/bot"
	"github.com/ticketlab/telegram-tickets-bot/internal/config"
	"github.com/ticketlab/telegram-tickets-bot/internal/idempotency"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
)

type Handlers struct {
	cfg    *config.Config
	disp   *bot.Dispatcher
	tg     *telegram.Client
	dedupe *idempotency.Deduper
	logger observability.Logger
}

// NewHandlers wires the webhook and admin endpoints. dedupe may be nil, in
// which case redelivered updates are processed again.
func NewHandlers(cfg *config.Config, disp *bot.Dispatcher, tg *telegram.Client, dedupe *idempotency.Deduper, logger observability.Logger) *Handlers {
	return &Handlers{
		cfg:    cfg,
		disp:   disp,
		tg:     tg,
		dedupe: dedupe,
		logger: logger,
	}
}

// Webhook receives one Telegram update. Business failures are rendered as
// reply text by the dispatcher and still answer 200, so Telegram does not
// redeliver; only a failure to deliver the reply itself answers 502.
func (h *Handlers) Webhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if update.Message == nil || update.Message.Text == "" {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
		return
	}

	if h.dedupe != nil && !h.dedupe.ShouldProcess(r.Context(), update.UpdateID) {
		h.logger.WithField("update_id", update.UpdateID).Info("duplicate update skipped")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
		return
	}

	in := bot.Inbound{
		UpdateID:  update.UpdateID,
		ChatID:    update.Message.Chat.ID,
		Text:      update.Message.Text,
		UserID:    update.Message.From.ID,
		FirstName: update.Message.From.FirstName,
		LastName:  update.Message.From.LastName,
		Username:  update.Message.From.Username,
	}
	if err := h.disp.Handle(r.Context(), in); err != nil {
		h.logger.WithField("chat_id", in.ChatID).Error("reply delivery failed: ", err)
		http.Error(w, "reply delivery failed", http.StatusBadGateway)
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) BotInfo(w http.ResponseWriter, r *http.Request) {
	info, err := h.tg.GetMe(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}
	webhook, err := h.tg.GetWebhookInfo(r.Context())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"bot_info":           info,
		"webhook_configured": webhook.URL != "",
		"webhook_info":       webhook,
	})
}

func (h *Handlers) SetWebhook(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WebhookURL string `json:"webhook_url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.WebhookURL == "" {
		http.Error(w, "webhook_url required", http.StatusBadRequest)
		return
	}

	if err := h.tg.SetWebhook(r.Context(), req.WebhookURL); err != nil {
		http.Error(w, err.Error(), http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"message": "Webhook configured successfully",
	})
}

func (h *Handlers) Healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func (h *Handlers) Readyz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ready"))
}

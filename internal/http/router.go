package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
)

func SetupRouter(h *Handlers, logger observability.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(RequestIDMiddleware)
	r.Use(LoggerMiddleware(logger))
	r.Use(TracingMiddleware)

	r.Post("/webhook", h.Webhook)
	r.Get("/healthz", h.Healthz)
	r.Get("/readyz", h.Readyz)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)
	r.Get("/admin/bot-info", h.BotInfo)
	r.Post("/admin/webhook", h.SetWebhook)

	return r
}

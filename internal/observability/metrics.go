package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CommandsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbot_commands_total",
			Help: "Total commands processed, by command and outcome",
		},
		[]string{"command", "outcome"},
	)

	TicketsIssued = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketbot_tickets_issued_total",
			Help: "Total tickets successfully issued",
		},
	)

	SoldOutRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketbot_sold_out_total",
			Help: "Total purchase attempts rejected for exhausted inventory",
		},
	)

	StoreTxDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "ticketbot_store_tx_seconds",
			Help:    "Duration of store transactions",
			Buckets: prometheus.DefBuckets,
		},
	)

	BroadcastRecipients = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ticketbot_broadcast_recipients_total",
			Help: "Broadcast recipient sends, by result",
		},
		[]string{"result"},
	)

	TelegramSendFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ticketbot_telegram_send_failures_total",
			Help: "Total failed sendMessage calls to the Telegram API",
		},
	)

	OutboxLag = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ticketbot_outbox_lag_seconds",
			Help: "Age of the oldest unpublished outbox record",
		},
	)
)

package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	BotToken             string
	TelegramAPIBase      string
	PostgresDSN          string
	MongoURI             string
	RedisAddr            string
	RabbitURL            string
	HTTPAddr             string
	SendTimeout          time.Duration
	BroadcastConcurrency int
	CatalogCacheTTL      time.Duration
	OTLPEndpoint         string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	sendTimeout, _ := time.ParseDuration(os.Getenv("SEND_TIMEOUT"))
	if sendTimeout == 0 {
		sendTimeout = 10 * time.Second
	}

	cacheTTL, _ := time.ParseDuration(os.Getenv("CATALOG_CACHE_TTL"))
	if cacheTTL == 0 {
		cacheTTL = 30 * time.Second
	}

	concurrency, _ := strconv.Atoi(os.Getenv("BROADCAST_CONCURRENCY"))
	if concurrency <= 0 {
		concurrency = 8
	}

	apiBase := os.Getenv("TELEGRAM_API_BASE")
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}

	httpAddr := os.Getenv("HTTP_ADDR")
	if httpAddr == "" {
		httpAddr = ":8080"
	}

	return &Config{
		BotToken:             os.Getenv("TELEGRAM_BOT_TOKEN"),
		TelegramAPIBase:      apiBase,
		PostgresDSN:          os.Getenv("PG_DSN"),
		MongoURI:             os.Getenv("MONGO_URI"),
		RedisAddr:            os.Getenv("REDIS_ADDR"),
		RabbitURL:            os.Getenv("RABBIT_URL"),
		HTTPAddr:             httpAddr,
		SendTimeout:          sendTimeout,
		BroadcastConcurrency: concurrency,
		CatalogCacheTTL:      cacheTTL,
		OTLPEndpoint:         os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}, nil
}

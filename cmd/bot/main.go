package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	redisclient "github.com/redis/go-redis/v9"
	mongoadapter "github.com/ticketlab/telegram-tickets-bot/internal/adapters/mongo"
	"github.com/ticketlab/telegram-tickets-bot/internal/adapters/postgres"
	redisadapter "github.com/ticketlab/telegram-tickets-bot/internal/adapters/redis"
	"github.com/ticketlab/telegram-tickets-bot/internal/adapters/telegram"
	"github.com/ticketlab/telegram-tickets-bot/internal/bot"
	"github.com/ticketlab/telegram-tickets-bot/internal/config"
	httphandler "github.com/ticketlab/telegram-tickets-bot/internal/http"
	"github.com/ticketlab/telegram-tickets-bot/internal/idempotency"
	"github.com/ticketlab/telegram-tickets-bot/internal/observability"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if cfg.BotToken == "" {
		log.Fatal("TELEGRAM_BOT_TOKEN is required")
	}

	shutdown, err := observability.SetupOTel(context.Background(), cfg)
	if err != nil {
		log.Fatalf("failed to setup otel: %v", err)
	}
	defer shutdown()

	logger := observability.NewLogger()

	pool, err := pgxpool.New(context.Background(), cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	repo := postgres.NewRepository(pool)

	var cache bot.CatalogCache
	var dedupe *idempotency.Deduper
	if cfg.RedisAddr != "" {
		redisClient := redisclient.NewClient(&redisclient.Options{Addr: cfg.RedisAddr})
		cache = redisadapter.NewCatalogCache(redisClient)
		dedupe = idempotency.NewDeduper(redisadapter.NewDedupe(redisClient), 24*time.Hour, logger)
	}

	var audit bot.Auditor
	if cfg.MongoURI != "" {
		mongoClient, err := mongo.Connect(context.Background(), options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			log.Fatalf("failed to connect to mongo: %v", err)
		}
		defer mongoClient.Disconnect(context.Background())
		audit = mongoadapter.NewAuditLogger(mongoClient.Database("ticketbot"), logger)
	}

	tg := telegram.NewClient(cfg.TelegramAPIBase, cfg.BotToken, cfg.SendTimeout)
	disp := bot.NewDispatcher(cfg, repo, tg, cache, audit, logger)

	handlers := httphandler.NewHandlers(cfg, disp, tg, dedupe, logger)
	r := httphandler.SetupRouter(handlers, logger)

	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutdown Server ...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server Shutdown:", err)
	}
	logger.Info("Server exiting")
}

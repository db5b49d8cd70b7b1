package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"clubbet/application"
	"clubbet/config"
	"clubbet/database"
	"clubbet/domain/interfaces"
	"clubbet/infrastructure"
	"clubbet/server"
)

// Run initializes and starts the betting engine
func Run(ctx context.Context) error {
	cfg := config.Get()
	configureLogging(cfg.LogLevel)

	log.Info("Starting clubbet betting engine...")

	log.Info("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.GetDatabaseURL())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	log.Info("Connecting to NATS...")
	natsClient := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := natsClient.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to NATS: %w", err)
	}
	defer natsClient.Close()

	eventPublisher := infrastructure.NewNATSEventPublisher(natsClient, infrastructure.NewEventSubjectMapper())
	if err := eventPublisher.EnsureDomainEventStream(); err != nil {
		return fmt.Errorf("failed to ensure domain event stream: %w", err)
	}

	uowFactory := infrastructure.NewUnitOfWorkFactory(db, eventPublisher)

	// Leaderboard cache is optional
	var leaderboardCache interfaces.LeaderboardCache
	if cfg.RedisAddr != "" {
		log.WithField("addr", cfg.RedisAddr).Info("Connecting to Redis...")
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		leaderboardCache = infrastructure.NewRedisLeaderboardCache(redisClient)
	} else {
		log.Info("Redis not configured, leaderboard cache disabled")
	}

	matchCatalog := infrastructure.NewHTTPMatchCatalog(cfg.MatchCatalogURL)
	resultHandler := application.NewMatchResultHandler(uowFactory, eventPublisher, cfg.InitialBalance)

	log.Info("Subscribing to match results...")
	resultConsumer := infrastructure.NewMatchResultConsumer(natsClient, resultHandler)
	if err := resultConsumer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start match result consumer: %w", err)
	}

	srv := server.NewServer(cfg, db, uowFactory, matchCatalog, resultHandler, leaderboardCache)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- srv.Start()
	}()

	log.WithField("environment", cfg.Environment).Info("Betting engine is running")

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	log.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("HTTP server shutdown failed")
	}

	log.Info("Shutdown completed")
	return nil
}

func configureLogging(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

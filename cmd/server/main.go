package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/peerconnect/backend/internal/application"
	"github.com/peerconnect/backend/internal/config"
	"github.com/peerconnect/backend/internal/infrastructure/openai"
	"github.com/peerconnect/backend/internal/infrastructure/postgres"
	"github.com/peerconnect/backend/internal/infrastructure/redisrank"
	kafkaconsumer "github.com/peerconnect/backend/internal/kafka"
	transporthttp "github.com/peerconnect/backend/internal/transport/http"
)

func main() {
	// ── Logging ──────────────────────────────────────────────────────────────
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// ── Config ───────────────────────────────────────────────────────────────
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	if cfg.Server.Env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	log.Info().Str("env", cfg.Server.Env).Str("port", cfg.Server.Port).Msg("starting peerconnect-backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ── Database ──────────────────────────────────────────────────────────────
	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatal().Err(err).Msg("postgres ping failed")
	}
	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatal().Err(err).Msg("schema setup failed")
	}
	log.Info().Msg("postgres connected")

	// ── Redis leaderboard (optional) ──────────────────────────────────────────
	var board application.Leaderboard
	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Msg("redis unavailable, trending falls back to SQL")
		} else {
			board = redisrank.New(rdb, "peerconnect:trending")
			log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
		}
	}

	// ── Repositories & SSE Hub ───────────────────────────────────────────────
	discussionRepo := postgres.NewDiscussionRepo(pool)
	studentRepo := postgres.NewStudentRepo(pool)
	moduleRepo := postgres.NewModuleRepo(pool)
	messageRepo := postgres.NewMessageRepo(pool)
	notificationRepo := postgres.NewNotificationRepo(pool)
	materialRepo := postgres.NewMaterialRepo(pool)
	hub := transporthttp.NewHub()

	// ── Moderation ────────────────────────────────────────────────────────────
	var classifier application.Classifier
	if cfg.Moderation.OpenAIAPIKey != "" {
		classifier = openai.New(cfg.Moderation.BaseURL, cfg.Moderation.OpenAIAPIKey, cfg.Moderation.Model)
	} else {
		log.Warn().Msg("no OpenAI key configured, moderation uses keyword filter only")
	}
	gate := application.NewContentGate(classifier)

	// ── Application Services ──────────────────────────────────────────────────
	notifier := application.NewNotifier(notificationRepo, hub)
	discussions := application.NewDiscussionService(discussionRepo, studentRepo, notifier, gate, board, hub)
	messaging := application.NewMessagingService(messageRepo, hub)
	materials := application.NewMaterialService(materialRepo, notifier)
	subs := application.NewSubscriptionService(moduleRepo, notifier)

	// ── HTTP Server ───────────────────────────────────────────────────────────
	handler := transporthttp.NewHandler(discussions, messaging, materials, subs, notifier, hub)
	router := transporthttp.NewRouter(handler, cfg.Auth.JWTSecret)

	// ── Kafka Consumer ────────────────────────────────────────────────────────
	if cfg.Kafka.Enabled {
		consumer, err := kafkaconsumer.New(
			cfg.Kafka.Brokers,
			cfg.Kafka.ConsumerGroupID,
			cfg.Kafka.Topics,
			notifier,
			subs,
		)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create kafka consumer")
		}
		go consumer.Start(ctx)
		log.Info().Strs("topics", cfg.Kafka.Topics).Msg("kafka consumer started")
	}

	// ── Trending Broadcast Job ────────────────────────────────────────────────
	go func() {
		interval := time.Duration(cfg.Trending.RefreshSeconds) * time.Second
		if interval <= 0 {
			interval = time.Minute
		}
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if _, err := discussions.Trending(context.Background()); err != nil {
					log.Error().Err(err).Msg("trending refresh failed")
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	// ── Start HTTP Server ─────────────────────────────────────────────────────
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := router.Start(":" + cfg.Server.Port); err != nil {
			log.Info().Msg("HTTP server stopped")
		}
	}()

	// ── Graceful Shutdown ─────────────────────────────────────────────────────
	<-ctx.Done()
	log.Info().Msg("shutting down gracefully...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := router.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	log.Info().Msg("peerconnect-backend stopped")
}

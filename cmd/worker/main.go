package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/ghuser/blindtasting/pkg/app"
	"github.com/ghuser/blindtasting/pkg/cache"
	"github.com/ghuser/blindtasting/pkg/config"
	"github.com/ghuser/blindtasting/pkg/database"
	"github.com/ghuser/blindtasting/pkg/events"
	"github.com/ghuser/blindtasting/pkg/logger"
	"github.com/ghuser/blindtasting/pkg/telemetry"
	tastingServices "github.com/ghuser/blindtasting/services/tasting/application/services"
	tastingEvents "github.com/ghuser/blindtasting/services/tasting/domain/events"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if err := config.ValidateForProduction(cfg); err != nil {
		slog.Error("production config validation failed", "error", err)
		os.Exit(1)
	}

	log := logger.New(cfg)

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	otelShutdown, _, err := telemetry.Setup(ctx, cfg)
	if err != nil {
		log.Error("failed to setup otel", "error", err)
		os.Exit(1)
	}
	defer otelShutdown(context.Background()) //nolint:errcheck

	if err := telemetry.SetupSentry(cfg); err != nil {
		log.Warn("failed to setup sentry, continuing without crash reporting", "error", err)
	}
	defer telemetry.SentryFlush()

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer pool.Close()
	log.Info("database pool connected")

	eventBus, err := events.NewEventBus(cfg, log)
	if err != nil {
		log.Error("failed to setup event bus", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer eventBus.Close() //nolint:errcheck

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("failed to connect to redis", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer redisClient.Close() //nolint:errcheck
	log.Info("redis connected")

	appConfig := &app.Application{
		Config:   cfg,
		Db:       pool,
		Logger:   log,
		EventBus: eventBus,
		Redis:    redisClient,
	}

	tastings, err := tastingServices.New(appConfig)
	if err != nil {
		log.Error("failed to wire tasting services", "error", err)
		os.Exit(1) //nolint:gocritic
	}
	defer tastings.Close() //nolint:errcheck

	if err := registerSubscribers(ctx, appConfig, tastings); err != nil {
		log.Error("failed to register subscribers", "error", err)
		os.Exit(1) //nolint:gocritic
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down worker...")
	stop()

	// EventBus.Close() (via defer) waits up to 30s for in-flight handlers.
	log.Info("worker stopped")
}

// registerSubscribers wires all domain event handlers.
// Add new topics here as more services publish events.
func registerSubscribers(ctx context.Context, a *app.Application, tastings *tastingServices.Services) error {
	errCh, err := a.EventBus.Subscribe(ctx, tastingEvents.TopicTastingChanged, handleTastingChanged(a, tastings))
	if err != nil {
		return err
	}

	// Drain subscriber errors in background so the channel never blocks.
	go func() {
		for err := range errCh {
			a.Logger.ErrorContext(ctx, "subscriber error",
				"topic", tastingEvents.TopicTastingChanged,
				"error", err,
			)
		}
	}()

	a.Logger.Info("event subscribers registered", "topics", []string{tastingEvents.TopicTastingChanged})
	return nil
}

// handleTastingChanged returns a handler for tasting.changed events.
// Handlers must be idempotent; EventBus retries up to 3x on failure.
// Rebuilds the Redis snapshot so the next unscoped listing is served from cache.
func handleTastingChanged(a *app.Application, tastings *tastingServices.Services) func(context.Context, *message.Message) error {
	return func(ctx context.Context, msg *message.Message) error {
		var evt tastingEvents.TastingChangedEvent
		if err := json.Unmarshal(msg.Payload, &evt); err != nil {
			a.Logger.WarnContext(ctx, "dropping undecodable tasting.changed event",
				"message_uuid", msg.UUID, "error", err)
			return nil
		}

		if err := tastings.Remote.Warm(ctx); err != nil {
			// Cache warming is best-effort; log but do not fail the handler.
			a.Logger.WarnContext(ctx, "snapshot warm failed for tasting.changed",
				"note_id", evt.NoteID, "op", evt.Op, "error", err)
			return nil
		}
		a.Logger.InfoContext(ctx, "snapshot warmed",
			"note_id", evt.NoteID, "op", evt.Op, "owner_id", evt.OwnerID)
		return nil
	}
}

package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/blindtasting/pkg/cache"
	"github.com/ghuser/blindtasting/pkg/config"
	"github.com/ghuser/blindtasting/pkg/database"
	"github.com/ghuser/blindtasting/pkg/events"
	"github.com/ghuser/blindtasting/pkg/logger"
)

// Application holds shared infrastructure dependencies for all services.
// Pass to all service route registrations (TastingRoutes) during server initialization.
//
// Logging: app.Logger is backed by a trace-aware handler. Use slog's context methods
// and trace_id, span_id, and request_id are injected automatically:
//
//	app.Logger.InfoContext(ctx, "saving tasting note", "note_id", id)
//	app.Logger.ErrorContext(ctx, "failed to save", "error", err)
//
// Use app.Logger.Info/Error (no context) only for startup and shutdown messages.
//
// Db, EventBus and Redis may be nil in processes that only serve the local
// store (tastectl).
type Application struct {
	Config       *config.Config
	Db           *database.Database
	Logger       logger.Logger
	EventBus     *events.EventBus
	Redis        *cache.RedisClient
	SessionStore sessions.Store // Redis-backed session store; nil in worker and CLI processes
}

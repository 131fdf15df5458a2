package app

import (
	"github.com/gorilla/sessions"

	"github.com/ghuser/shopfloor/pkg/cache"
	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/database"
	"github.com/ghuser/shopfloor/pkg/events"
	"github.com/ghuser/shopfloor/pkg/httpx"
	"github.com/ghuser/shopfloor/pkg/logger"
	"github.com/ghuser/shopfloor/pkg/storage"
	"github.com/ghuser/shopfloor/pkg/workflows"
)

// Application is the shared infrastructure of one shopfloor process. cmd/api
// and cmd/worker each build one and hand it to the catalog and production
// wiring.
//
// Log with the Context methods inside requests and message handlers so the
// trace, request and operator attributes are attached:
//
//	app.Logger.InfoContext(ctx, "unit confirmed", "produced", n)
type Application struct {
	Config         *config.Config
	Db             *database.Database
	Logger         logger.Logger
	EventBus       *events.Bus
	Redis          *cache.RedisClient
	TemporalClient *workflows.TemporalClient // nil unless TEMPORAL_ENABLED
	SessionStore   sessions.Store            // nil in the worker
	Archive        *storage.Archive          // nil unless ARCHIVE_ENABLED
}

// HealthChecks lists the checks for /health. Disabled optional dependencies
// are reported as "disabled" rather than omitted.
func (a *Application) HealthChecks() httpx.HealthChecks {
	checks := httpx.HealthChecks{
		Optional: map[string]httpx.HealthChecker{"temporal": nil, "archive": nil},
	}
	// typed nils must not reach the interface fields
	if a.Db != nil {
		checks.Database = a.Db
	}
	if a.Redis != nil {
		checks.Redis = a.Redis
	}
	if a.EventBus != nil {
		checks.EventBus = a.EventBus
	}
	if a.TemporalClient != nil {
		checks.Optional["temporal"] = a.TemporalClient
	}
	if a.Archive != nil {
		checks.Optional["archive"] = a.Archive
	}
	return checks
}

// Close releases connections in reverse dependency order. Temporal first, so
// no workflow can start against a closed bus, then the bus (which waits for
// running handlers), then Redis and the pool.
func (a *Application) Close() {
	if a.TemporalClient != nil {
		a.TemporalClient.Close()
	}
	if a.EventBus != nil {
		if err := a.EventBus.Close(); err != nil {
			a.Logger.Error("event bus close failed", "error", err)
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			a.Logger.Error("redis close failed", "error", err)
		}
	}
	if a.Db != nil {
		a.Db.Close()
	}
}

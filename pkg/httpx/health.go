package httpx

import (
	"context"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const healthTimeout = 2 * time.Second

// HealthChecker is anything with a Ping: the database, Redis, the event bus,
// the archive and the Temporal client all qualify.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// HealthChecks lists what /health checks. Optional entries are dependencies
// behind a feature flag; a nil entry reports "disabled".
type HealthChecks struct {
	Database HealthChecker
	Redis    HealthChecker
	EventBus HealthChecker
	Optional map[string]HealthChecker
}

type healthResponse struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Redis    string            `json:"redis"`
	EventBus string            `json:"event_bus"`
	Optional map[string]string `json:"optional,omitempty"`
}

// HealthHandler pings every dependency concurrently and answers 503 when any
// enabled one fails.
func HealthHandler(checks HealthChecks) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		var (
			mu       sync.Mutex
			degraded bool
		)
		checkOne := func(c HealthChecker, out *string) func() error {
			return func() error {
				state := "ok"
				if c == nil {
					state = "unconfigured"
				} else if err := c.Ping(ctx); err != nil {
					state = "unreachable"
				}
				mu.Lock()
				defer mu.Unlock()
				*out = state
				degraded = degraded || state != "ok"
				return nil
			}
		}

		var resp healthResponse
		var g errgroup.Group
		g.Go(checkOne(checks.Database, &resp.Database))
		g.Go(checkOne(checks.Redis, &resp.Redis))
		g.Go(checkOne(checks.EventBus, &resp.EventBus))

		optional := make(map[string]*string, len(checks.Optional))
		for name, c := range checks.Optional {
			state := "disabled"
			optional[name] = &state
			if c != nil {
				g.Go(checkOne(c, optional[name]))
			}
		}
		_ = g.Wait()

		if len(optional) > 0 {
			resp.Optional = make(map[string]string, len(optional))
			for name, state := range optional {
				resp.Optional[name] = *state
			}
		}

		resp.Status = "ok"
		status := http.StatusOK
		if degraded {
			resp.Status = "degraded"
			status = http.StatusServiceUnavailable
		}
		JSON(w, status, resp)
	}
}

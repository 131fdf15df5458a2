package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ghuser/shopfloor/pkg/httpx"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("connection refused") })
	// hangs until the check deadline
	hung = pingFunc(func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
)

type healthBody struct {
	Status   string            `json:"status"`
	Database string            `json:"database"`
	Redis    string            `json:"redis"`
	EventBus string            `json:"event_bus"`
	Optional map[string]string `json:"optional"`
}

func getHealth(t *testing.T, checks httpx.HealthChecks) (int, healthBody) {
	t.Helper()
	w := httptest.NewRecorder()
	httpx.HealthHandler(checks)(w, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	var body healthBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return w.Code, body
}

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name       string
		checks     httpx.HealthChecks
		wantCode   int
		wantStatus string
		check      func(t *testing.T, b healthBody)
	}{
		{
			name:       "all up",
			checks:     httpx.HealthChecks{Database: up, Redis: up, EventBus: up},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name:       "postgres down",
			checks:     httpx.HealthChecks{Database: down, Redis: up, EventBus: up},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			check: func(t *testing.T, b healthBody) {
				if b.Database != "unreachable" || b.Redis != "ok" {
					t.Errorf("got %+v", b)
				}
			},
		},
		{
			name:       "event bus down",
			checks:     httpx.HealthChecks{Database: up, Redis: up, EventBus: down},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			check: func(t *testing.T, b healthBody) {
				if b.EventBus != "unreachable" {
					t.Errorf("event_bus = %q", b.EventBus)
				}
			},
		},
		{
			name: "disabled temporal does not degrade",
			checks: httpx.HealthChecks{Database: up, Redis: up, EventBus: up,
				Optional: map[string]httpx.HealthChecker{"temporal": nil, "archive": up}},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			check: func(t *testing.T, b healthBody) {
				if b.Optional["temporal"] != "disabled" || b.Optional["archive"] != "ok" {
					t.Errorf("optional = %v", b.Optional)
				}
			},
		},
		{
			name: "enabled archive down",
			checks: httpx.HealthChecks{Database: up, Redis: up, EventBus: up,
				Optional: map[string]httpx.HealthChecker{"archive": down}},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
		},
		{
			name:       "missing required checker",
			checks:     httpx.HealthChecks{Redis: up, EventBus: up},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			check: func(t *testing.T, b healthBody) {
				if b.Database != "unconfigured" {
					t.Errorf("database = %q", b.Database)
				}
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := getHealth(t, tt.checks)
			if code != tt.wantCode || body.Status != tt.wantStatus {
				t.Fatalf("got %d %q, want %d %q", code, body.Status, tt.wantCode, tt.wantStatus)
			}
			if tt.check != nil {
				tt.check(t, body)
			}
		})
	}
}

func TestHealthHandler_HungDependencyIsBounded(t *testing.T) {
	start := time.Now()
	code, body := getHealth(t, httpx.HealthChecks{Database: up, Redis: hung, EventBus: up})
	if elapsed := time.Since(start); elapsed > 3*time.Second {
		t.Fatalf("health check took %s", elapsed)
	}
	if code != http.StatusServiceUnavailable || body.Redis != "unreachable" {
		t.Fatalf("got %d %+v", code, body)
	}
}

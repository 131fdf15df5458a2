package app

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/shopfloor/pkg/httpx"
)

func TestHealthChecks_WorkerWithoutOptionalDeps(t *testing.T) {
	a := &Application{}
	checks := a.HealthChecks()

	if checks.Database != nil || checks.Redis != nil || checks.EventBus != nil {
		t.Fatalf("nil dependencies must stay untyped nil: %+v", checks)
	}
	for _, name := range []string{"temporal", "archive"} {
		c, ok := checks.Optional[name]
		if !ok || c != nil {
			t.Fatalf("%s: present=%v checker=%v", name, ok, c)
		}
	}

	w := httptest.NewRecorder()
	httpx.HealthHandler(checks)(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	var body struct {
		Status   string            `json:"status"`
		Database string            `json:"database"`
		Optional map[string]string `json:"optional"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if w.Code != http.StatusServiceUnavailable || body.Database != "unconfigured" {
		t.Fatalf("got %d %+v", w.Code, body)
	}
	if body.Optional["archive"] != "disabled" {
		t.Fatalf("archive = %q", body.Optional["archive"])
	}
}

func TestClose_EmptyApplication(t *testing.T) {
	(&Application{}).Close()
}

package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ghuser/shopfloor/pkg/httpx"
)

func TestSecurityHeaders(t *testing.T) {
	h := httpx.SecurityHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/production/states", http.NoBody))

	checks := map[string]string{
		"X-Content-Type-Options":  "nosniff",
		"X-Frame-Options":         "DENY",
		"Referrer-Policy":         "strict-origin-when-cross-origin",
		"Content-Security-Policy": "default-src 'self'",
	}
	for header, expected := range checks {
		if got := rr.Header().Get(header); got != expected {
			t.Errorf("%s: got %q, want %q", header, got, expected)
		}
	}
}

func TestTimeoutExcept(t *testing.T) {
	var deadlines = map[string]bool{}
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, ok := r.Context().Deadline()
		deadlines[r.URL.Path] = ok
		w.WriteHeader(http.StatusOK)
	})
	h := httpx.TimeoutExcept(time.Minute, "/api/realtime")(inner)

	for _, path := range []string{"/api/production/select", "/api/realtime"} {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}
	if !deadlines["/api/production/select"] {
		t.Error("ordinary handler has no deadline")
	}
	if deadlines["/api/realtime"] {
		t.Error("stream handler got a deadline")
	}
}

func TestCORSMiddleware_Credentials(t *testing.T) {
	tests := []struct {
		name      string
		origins   string
		wantCreds string
	}{
		{"explicit origin", "https://floor.example.com", "true"},
		{"wildcard", "*", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := httpx.CORSMiddleware(tt.origins)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {}))
			req := httptest.NewRequest(http.MethodOptions, "/api/production/select", http.NoBody)
			req.Header.Set("Origin", "https://floor.example.com")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if got := rr.Header().Get("Access-Control-Allow-Credentials"); got != tt.wantCreds {
				t.Errorf("Allow-Credentials = %q, want %q", got, tt.wantCreds)
			}
		})
	}
}

func TestRequestBodyLimit(t *testing.T) {
	const limit = 10
	tests := []struct {
		name string
		size int
		want int
	}{
		{"within limit", 5, http.StatusOK},
		{"exceeds limit", limit + 1, http.StatusRequestEntityTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				buf := make([]byte, limit+5)
				if _, err := r.Body.Read(buf); err != nil && tt.size > limit {
					w.WriteHeader(http.StatusRequestEntityTooLarge)
					return
				}
				w.WriteHeader(http.StatusOK)
			})
			rr := httptest.NewRecorder()
			httpx.RequestBodyLimit(limit)(inner).ServeHTTP(rr,
				httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", tt.size))))
			if rr.Code != tt.want {
				t.Fatalf("status = %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestNewServer_NoWriteTimeout(t *testing.T) {
	srv := httpx.NewServer(":0", http.NotFoundHandler())
	if srv.WriteTimeout != 0 {
		t.Errorf("WriteTimeout = %v; realtime streams need none", srv.WriteTimeout)
	}
	if srv.ReadHeaderTimeout == 0 {
		t.Error("ReadHeaderTimeout must be set")
	}
	_ = srv.Shutdown(context.Background())
}

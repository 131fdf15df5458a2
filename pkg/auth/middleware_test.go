package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/sessions"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/logger"
)

// newTestStore returns a gorilla CookieStore (no Redis required) for unit tests.
// In production the RedisStore is used; the sessions.Store interface is identical.
func newTestStore() sessions.Store {
	return sessions.NewCookieStore(
		[]byte("test-auth-key-must-be-32-bytes!!"),
		[]byte("test-enc-key-must-be-32-bytes!!!"),
	)
}

func newTestLogger() logger.Logger {
	return logger.New(&config.Config{LogLevel: "error"})
}

// requestWithCookies copies the Set-Cookie headers of w onto a fresh request.
func requestWithCookies(w *httptest.ResponseRecorder) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/production/start", nil)
	for _, c := range w.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func sessionWith(t *testing.T, store sessions.Store, values map[string]string) *http.Request {
	t.Helper()
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	session, err := store.Get(r, sessionName)
	if err != nil {
		t.Fatalf("get session: %v", err)
	}
	for k, v := range values {
		session.Values[k] = v
	}
	if err := session.Save(r, w); err != nil {
		t.Fatalf("save session: %v", err)
	}
	return requestWithCookies(w)
}

func TestRequireOperator_ValidSession(t *testing.T) {
	store := newTestStore()

	var captured Operator
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured, _ = OperatorFromCtx(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	r := sessionWith(t, store, map[string]string{sessionOperatorIDKey: "op-1", sessionOperatorNameKey: "Ada"})
	w := httptest.NewRecorder()
	RequireOperator(store, newTestLogger())(next).ServeHTTP(w, r)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if captured != (Operator{ID: "op-1", Name: "Ada"}) {
		t.Fatalf("unexpected operator in context: %+v", captured)
	}
}

func TestRequireOperator_Rejects(t *testing.T) {
	store := newTestStore()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler should not be called")
	})

	tests := []struct {
		name string
		req  *http.Request
	}{
		{"missing cookie", httptest.NewRequest(http.MethodPost, "/", nil)},
		{"missing operator", sessionWith(t, store, map[string]string{sessionOperatorNameKey: "Ada"})},
		{"empty operator", sessionWith(t, store, map[string]string{sessionOperatorIDKey: ""})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			RequireOperator(store, newTestLogger())(next).ServeHTTP(w, tt.req)
			if w.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", w.Code)
			}
		})
	}
}

func TestSessionHandler_SignInThenRequire(t *testing.T) {
	store := newTestStore()
	h := NewSessionHandler(store, newTestLogger())

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/operator/session",
		strings.NewReader(`{"operator_id":"op-9","operator_name":"Grace"}`))
	h.SignIn(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var got Operator
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = OperatorFromCtx(r.Context())
	})
	RequireOperator(store, newTestLogger())(next).ServeHTTP(httptest.NewRecorder(), requestWithCookies(w))
	if got.ID != "op-9" || got.Name != "Grace" {
		t.Fatalf("operator not carried by session: %+v", got)
	}
}

func TestSessionHandler_SignInValidation(t *testing.T) {
	h := NewSessionHandler(newTestStore(), newTestLogger())

	w := httptest.NewRecorder()
	h.SignIn(w, httptest.NewRequest(http.MethodPost, "/api/operator/session", strings.NewReader(`{"operator_name":"x"}`)))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", w.Code)
	}
}

func TestSessionHandler_SignOut(t *testing.T) {
	h := NewSessionHandler(newTestStore(), newTestLogger())

	w := httptest.NewRecorder()
	h.SignOut(w, httptest.NewRequest(http.MethodDelete, "/api/operator/session", nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}

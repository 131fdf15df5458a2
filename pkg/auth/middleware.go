package auth

import (
	"net/http"

	"github.com/gorilla/sessions"

	"github.com/ghuser/shopfloor/pkg/httpx"
	"github.com/ghuser/shopfloor/pkg/logger"
)

const (
	sessionName            = "shopfloor_session"
	sessionOperatorIDKey   = "operator_id"
	sessionOperatorNameKey = "operator_name"
)

// RequireOperator rejects requests whose session has no operator with 401.
// Otherwise the operator is put on the request context, and its id on every
// log record of the request.
func RequireOperator(store sessions.Store, log logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := store.Get(r, sessionName)
			if err != nil {
				log.WarnContext(r.Context(), "invalid session cookie", "error", err)
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}

			id, ok := session.Values[sessionOperatorIDKey].(string)
			if !ok || id == "" {
				log.WarnContext(r.Context(), "session missing operator_id")
				httpx.JSON(w, http.StatusUnauthorized, map[string]string{"error": "authentication required"})
				return
			}
			name, _ := session.Values[sessionOperatorNameKey].(string)

			ctx := WithOperator(r.Context(), Operator{ID: id, Name: name})
			ctx = logger.WithContext(ctx, "operator_id", id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

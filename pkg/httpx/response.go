package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with status. Responses are never cached: terminals must not
// show a stale produced quantity.
func JSON(w http.ResponseWriter, status int, v any) {
	h := w.Header()
	h.Set("Content-Type", "application/json; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": message}.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// NoContent writes an empty 204.
func NoContent(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusNoContent)
}

// SafeError is the client-facing message for err. With mask set, 5xx
// causes are replaced by the status text.
func SafeError(err error, status int, mask bool) string {
	if mask && status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}

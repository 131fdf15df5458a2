// Package errhttp maps domain sentinel errors to HTTP responses.
package errhttp

import (
	"context"
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"

	"github.com/ghuser/shopfloor/pkg/auth"
	"github.com/ghuser/shopfloor/pkg/httpx"
	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
)

type maskKey struct{}

// Policy marks requests whose 5xx messages must be hidden from clients.
func Policy(isProduction bool) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), maskKey{}, isProduction)))
		})
	}
}

// WriteError writes err as a JSON error with the status of its sentinel.
// Unrecognised errors are 500s: they are reported to the request's Sentry
// hub and, under a production Policy, their message is replaced.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status := mapErrorToStatus(err)
	if status >= http.StatusInternalServerError {
		if hub := sentry.GetHubFromContext(r.Context()); hub != nil {
			hub.CaptureException(err)
		}
	}
	mask, _ := r.Context().Value(maskKey{}).(bool)
	httpx.JSONError(w, status, httpx.SafeError(err, status, mask))
}

func mapErrorToStatus(err error) int {
	switch {
	case errors.Is(err, auth.ErrOperatorNotFound):
		return http.StatusUnauthorized // 401

	case errors.Is(err, catalogdomain.ErrProductNotFound),
		errors.Is(err, productiondomain.ErrProductionNotFound),
		errors.Is(err, productiondomain.ErrOrderNotFound),
		errors.Is(err, productiondomain.ErrOrderLineNotFound):
		return http.StatusNotFound // 404

	case errors.Is(err, catalogdomain.ErrInvalidKind):
		return http.StatusBadRequest // 400

	case errors.Is(err, productiondomain.ErrManualEntryDisabled):
		return http.StatusForbidden // 403

	case errors.Is(err, catalogdomain.ErrCyclicBOM),
		errors.Is(err, catalogdomain.ErrDataIntegrity),
		errors.Is(err, productiondomain.ErrAlreadyActive),
		errors.Is(err, productiondomain.ErrProductionCompleted),
		errors.Is(err, productiondomain.ErrConcurrentUpdate):
		return http.StatusConflict // 409

	case errors.Is(err, catalogdomain.ErrInvalidBOMEdge),
		errors.Is(err, catalogdomain.ErrSelfReference),
		errors.Is(err, catalogdomain.ErrInvalidQuantity),
		errors.Is(err, productiondomain.ErrQuantityExceedsTarget),
		errors.Is(err, productiondomain.ErrTargetNotReached),
		errors.Is(err, productiondomain.ErrBarcodeRejected),
		errors.Is(err, productiondomain.ErrInvalidQuantity),
		errors.Is(err, productiondomain.ErrInsufficientStock),
		errors.Is(err, productiondomain.ErrInvalidKey),
		errors.Is(err, productiondomain.ErrInvalidOperator):
		return http.StatusUnprocessableEntity // 422

	default:
		// includes ErrInvariantViolated: a state that broke its own rules is a server bug
		return http.StatusInternalServerError // 500
	}
}

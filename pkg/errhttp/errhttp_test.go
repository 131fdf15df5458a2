package errhttp

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ghuser/shopfloor/pkg/auth"
	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
)

func TestWriteError_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"ErrOperatorNotFound", auth.ErrOperatorNotFound, http.StatusUnauthorized},
		{"ErrProductNotFound", catalogdomain.ErrProductNotFound, http.StatusNotFound},
		{"ErrInvalidKind", catalogdomain.ErrInvalidKind, http.StatusBadRequest},
		{"ErrCyclicBOM", catalogdomain.ErrCyclicBOM, http.StatusConflict},
		{"ErrSelfReference", catalogdomain.ErrSelfReference, http.StatusUnprocessableEntity},
		{"ErrProductionNotFound", productiondomain.ErrProductionNotFound, http.StatusNotFound},
		{"ErrOrderLineNotFound", productiondomain.ErrOrderLineNotFound, http.StatusNotFound},
		{"ErrAlreadyActive", productiondomain.ErrAlreadyActive, http.StatusConflict},
		{"ErrConcurrentUpdate", productiondomain.ErrConcurrentUpdate, http.StatusConflict},
		{"ErrQuantityExceedsTarget", productiondomain.ErrQuantityExceedsTarget, http.StatusUnprocessableEntity},
		{"ErrBarcodeRejected", productiondomain.ErrBarcodeRejected, http.StatusUnprocessableEntity},
		{"ErrInsufficientStock", productiondomain.ErrInsufficientStock, http.StatusUnprocessableEntity},
		{"ErrManualEntryDisabled", productiondomain.ErrManualEntryDisabled, http.StatusForbidden},
		{"ErrInvariantViolated", productiondomain.ErrInvariantViolated, http.StatusInternalServerError},
		{"wrapped ErrProductNotFound", fmt.Errorf("get product: %w", catalogdomain.ErrProductNotFound), http.StatusNotFound},
		{"wrapped ErrAlreadyActive", fmt.Errorf("insert state: %w", productiondomain.ErrAlreadyActive), http.StatusConflict},
		{"unknown error", errors.New("something unexpected"), http.StatusInternalServerError},
		{"generic wrapped error", fmt.Errorf("context: %w", errors.New("db down")), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteError(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody), tt.err)

			if w.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
		})
	}
}

func TestWriteError_JSONBody(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody), productiondomain.ErrProductionNotFound)

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response body is not valid JSON: %v", err)
	}
	if body["error"] != productiondomain.ErrProductionNotFound.Error() {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestWriteError_ContentType(t *testing.T) {
	w := httptest.NewRecorder()
	WriteError(w, httptest.NewRequest(http.MethodGet, "/", http.NoBody), catalogdomain.ErrProductNotFound)

	if ct := w.Header().Get("Content-Type"); ct == "" {
		t.Fatal("Content-Type header not set")
	}
}

func TestPolicy_MasksServerErrors(t *testing.T) {
	tests := []struct {
		name       string
		production bool
		err        error
		want       string
	}{
		{"development shows cause", false, errors.New("pq: connection refused"), "pq: connection refused"},
		{"production hides cause", true, errors.New("pq: connection refused"), "Internal Server Error"},
		{"production keeps domain message", true, productiondomain.ErrTargetNotReached, productiondomain.ErrTargetNotReached.Error()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := Policy(tt.production)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				WriteError(w, r, tt.err)
			}))
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/production/states/x/complete", http.NoBody))

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body["error"] != tt.want {
				t.Errorf("error = %q, want %q", body["error"], tt.want)
			}
		})
	}
}

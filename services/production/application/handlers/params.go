package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ghuser/shopfloor/pkg/auth"
	"github.com/ghuser/shopfloor/pkg/errhttp"
	"github.com/ghuser/shopfloor/pkg/httpx"
	"github.com/ghuser/shopfloor/services/production/domain/models"
)

var errInvalidStateID = errors.New("state id must be a UUID")

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"production already active"`
} // @name ProductionErrorResponse

// OperatorPayload identifies who touched a state.
type OperatorPayload struct {
	ID   string `json:"id" example:"op-17"`
	Name string `json:"name" example:"Ada Lovelace"`
} // @name OperatorPayload

// HistoryPayload is one confirmation.
type HistoryPayload struct {
	Barcode   string          `json:"barcode" example:"8690000000017"`
	Quantity  int             `json:"quantity" example:"1"`
	Timestamp time.Time       `json:"timestamp"`
	Operator  OperatorPayload `json:"operator"`
} // @name HistoryPayload

// StateResponse is a production state as seen by terminals.
type StateResponse struct {
	ID               uuid.UUID        `json:"id"`
	OrderID          string           `json:"order_id" example:"ORD-1042"`
	ProductCode      string           `json:"product_code" example:"CAB-01"`
	ProductName      string           `json:"product_name" example:"Cabinet"`
	TargetQuantity   int              `json:"target_quantity" example:"10"`
	ProducedQuantity int              `json:"produced_quantity" example:"7"`
	Remaining        int              `json:"remaining" example:"3"`
	Status           string           `json:"status" example:"active"`
	IsActive         bool             `json:"is_active"`
	IsCompleted      bool             `json:"is_completed"`
	StartTime        time.Time        `json:"start_time"`
	LastUpdateTime   time.Time        `json:"last_update_time"`
	CompletedAt      *time.Time       `json:"completed_at,omitempty"`
	Operator         OperatorPayload  `json:"operator"`
	History          []HistoryPayload `json:"history"`
	Version          int64            `json:"version" example:"3"`
} // @name ProductionState

func stateResponse(s *models.ProductionState) StateResponse {
	history := make([]HistoryPayload, len(s.History))
	for i, h := range s.History {
		history[i] = HistoryPayload{
			Barcode:   h.Barcode,
			Quantity:  h.Quantity,
			Timestamp: h.Timestamp,
			Operator:  OperatorPayload(h.Operator),
		}
	}
	return StateResponse{
		ID:               s.ID,
		OrderID:          s.OrderID,
		ProductCode:      s.ProductCode,
		ProductName:      s.ProductName,
		TargetQuantity:   s.TargetQuantity,
		ProducedQuantity: s.ProducedQuantity,
		Remaining:        s.Remaining(),
		Status:           string(s.Status()),
		IsActive:         s.IsActive,
		IsCompleted:      s.IsCompleted,
		StartTime:        s.StartTime,
		LastUpdateTime:   s.LastUpdateTime,
		CompletedAt:      s.CompletedAt,
		Operator:         OperatorPayload(s.Operator),
		History:          history,
		Version:          s.Version,
	}
}

// operatorFromRequest reads the signed-in operator, writing 401 when absent.
func operatorFromRequest(w http.ResponseWriter, r *http.Request) (models.Operator, bool) {
	op, err := auth.OperatorFromCtx(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return models.Operator{}, false
	}
	return models.Operator{ID: op.ID, Name: op.Name}, true
}

func stateIDFromPath(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, errInvalidStateID
	}
	return id, nil
}

func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

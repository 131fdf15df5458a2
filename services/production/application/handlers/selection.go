package handlers

import (
	"errors"
	"net/http"

	"github.com/ghuser/shopfloor/pkg/errhttp"
	"github.com/ghuser/shopfloor/pkg/httpx"
	pkgvalidator "github.com/ghuser/shopfloor/pkg/validator"
	appsvcs "github.com/ghuser/shopfloor/services/production/application/services"
	"github.com/ghuser/shopfloor/services/production/domain/models"
)

var errMissingKey = errors.New("order_id and product_code are required")

// SelectRequest is the request body for POST /production/select.
type SelectRequest struct {
	OrderID     string `json:"order_id" validate:"required,max=64" example:"ORD-1042"`
	ProductCode string `json:"product_code" validate:"required,max=64,product_code" example:"CAB-01"`
} // @name SelectRequest

// SelectResponse carries the state the operator should work on.
type SelectResponse struct {
	State   StateResponse `json:"state"`
	Resumed bool          `json:"resumed"`
} // @name SelectResponse

// StartRequest is the request body for POST /production/start. Without a
// target quantity the order line decides target and name.
type StartRequest struct {
	OrderID        string `json:"order_id" validate:"required,max=64" example:"ORD-1042"`
	ProductCode    string `json:"product_code" validate:"required,max=64,product_code" example:"CAB-01"`
	ProductName    string `json:"product_name" validate:"max=256" example:"Cabinet"`
	TargetQuantity int    `json:"target_quantity" validate:"gte=0,lte=2147483647" example:"10"`
} // @name StartRequest

// SelectHandler handles POST /production/select.
type SelectHandler struct {
	svc *appsvcs.Services
}

func NewSelectHandler(svc *appsvcs.Services) *SelectHandler {
	return &SelectHandler{svc: svc}
}

// Execute resumes the live state for the order line or starts a new one.
//
//	@Summary		Select product
//	@Description	Resumes the live production state for an order line, or starts one from the order
//	@Tags			production
//	@Accept			json
//	@Produce		json
//	@Param			request	body		SelectRequest	true	"Order line"
//	@Success		200		{object}	SelectResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/production/select [post]
func (h *SelectHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[SelectRequest](w, r)
	if !ok {
		return
	}

	s, resumed, err := h.svc.Tracker.Select(r.Context(), req.OrderID, req.ProductCode, op)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, SelectResponse{State: stateResponse(s), Resumed: resumed})
}

// StartHandler handles POST /production/start.
type StartHandler struct {
	svc *appsvcs.Services
}

func NewStartHandler(svc *appsvcs.Services) *StartHandler {
	return &StartHandler{svc: svc}
}

// Execute starts a new production state.
//
//	@Summary		Start production
//	@Tags			production
//	@Accept			json
//	@Produce		json
//	@Param			request	body		StartRequest	true	"Order line"
//	@Success		201		{object}	StateResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/production/start [post]
func (h *StartHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	req, ok := pkgvalidator.ValidateRequest[StartRequest](w, r)
	if !ok {
		return
	}

	var (
		s   *models.ProductionState
		err error
	)
	if req.TargetQuantity > 0 {
		s, err = h.svc.Tracker.Start(r.Context(), appsvcs.StartInput{
			OrderID:        req.OrderID,
			ProductCode:    req.ProductCode,
			ProductName:    req.ProductName,
			TargetQuantity: req.TargetQuantity,
		}, op)
	} else {
		s, err = h.svc.Tracker.StartFromOrder(r.Context(), req.OrderID, req.ProductCode, op)
	}
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, stateResponse(s))
}

// LiveHandler handles GET /production/live.
type LiveHandler struct {
	svc *appsvcs.Services
}

func NewLiveHandler(svc *appsvcs.Services) *LiveHandler {
	return &LiveHandler{svc: svc}
}

// Execute returns the live state for an order line without changing it.
//
//	@Summary	Get live state
//	@Tags		production
//	@Produce	json
//	@Param		order_id		query		string	true	"Order id"
//	@Param		product_code	query		string	true	"Product code"
//	@Success	200				{object}	StateResponse
//	@Failure	400				{object}	ErrorResponse
//	@Failure	404				{object}	ErrorResponse
//	@Router		/production/live [get]
func (h *LiveHandler) Execute(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	orderID, code := q.Get("order_id"), q.Get("product_code")
	if orderID == "" || code == "" {
		writeBadRequest(w, errMissingKey)
		return
	}

	s, err := h.svc.Tracker.Resume(r.Context(), orderID, code)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stateResponse(s))
}

// ListStatesHandler handles GET /production/states.
type ListStatesHandler struct {
	svc *appsvcs.Services
}

func NewListStatesHandler(svc *appsvcs.Services) *ListStatesHandler {
	return &ListStatesHandler{svc: svc}
}

// Execute lists the signed-in operator's states, live ones first.
//
//	@Summary	List my production states
//	@Tags		production
//	@Produce	json
//	@Success	200	{array}		StateResponse
//	@Failure	401	{object}	ErrorResponse
//	@Router		/production/states [get]
func (h *ListStatesHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	states, err := h.svc.Tracker.ListForOperator(r.Context(), op.ID)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	out := make([]StateResponse, len(states))
	for i, s := range states {
		out[i] = stateResponse(s)
	}
	httpx.JSON(w, http.StatusOK, out)
}

package handlers

import (
	"net/http"

	"github.com/ghuser/shopfloor/pkg/errhttp"
	"github.com/ghuser/shopfloor/pkg/httpx"
	pkgvalidator "github.com/ghuser/shopfloor/pkg/validator"
	appsvcs "github.com/ghuser/shopfloor/services/production/application/services"
)

// ConfirmRequest is the request body for POST /production/states/{id}/confirm.
// Barcode "manual" records a manual entry.
type ConfirmRequest struct {
	Barcode  string `json:"barcode" validate:"required,max=128,barcode" example:"8690000000017"`
	Quantity int    `json:"quantity" validate:"gte=0,lte=2147483647" example:"1"`
} // @name ConfirmRequest

// ConfirmResponse is the state after a confirmation.
type ConfirmResponse struct {
	State     StateResponse `json:"state"`
	Debounced bool          `json:"debounced"`
	Tier      string        `json:"tier" example:"static_mapping"`
} // @name ConfirmResponse

// GetStateHandler handles GET /production/states/{id}.
type GetStateHandler struct {
	svc *appsvcs.Services
}

func NewGetStateHandler(svc *appsvcs.Services) *GetStateHandler {
	return &GetStateHandler{svc: svc}
}

// Execute returns one state.
//
//	@Summary	Get production state
//	@Tags		production
//	@Produce	json
//	@Param		id	path		string	true	"State id"	Format(uuid)
//	@Success	200	{object}	StateResponse
//	@Failure	400	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Router		/production/states/{id} [get]
func (h *GetStateHandler) Execute(w http.ResponseWriter, r *http.Request) {
	id, err := stateIDFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s, err := h.svc.Tracker.Get(r.Context(), id)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stateResponse(s))
}

// ConfirmHandler handles POST /production/states/{id}/confirm.
type ConfirmHandler struct {
	svc *appsvcs.Services
}

func NewConfirmHandler(svc *appsvcs.Services) *ConfirmHandler {
	return &ConfirmHandler{svc: svc}
}

// Execute validates a scanned barcode and adds the quantity.
//
//	@Summary		Confirm units
//	@Description	Validates the barcode against the product and adds the quantity. A repeat of the same scan inside the debounce window changes nothing.
//	@Tags			production
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string			true	"State id"	Format(uuid)
//	@Param			request	body		ConfirmRequest	true	"Scan"
//	@Success		200		{object}	ConfirmResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		401		{object}	ErrorResponse
//	@Failure		403		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/production/states/{id}/confirm [post]
func (h *ConfirmHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := stateIDFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	req, ok := pkgvalidator.ValidateRequest[ConfirmRequest](w, r)
	if !ok {
		return
	}

	res, err := h.svc.Tracker.ConfirmUnit(r.Context(), appsvcs.ConfirmInput{
		StateID:  id,
		Barcode:  req.Barcode,
		Quantity: req.Quantity,
	}, op)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, ConfirmResponse{State: stateResponse(res.State), Debounced: res.Debounced, Tier: res.Tier})
}

// CompleteHandler handles POST /production/states/{id}/complete.
type CompleteHandler struct {
	svc *appsvcs.Services
}

func NewCompleteHandler(svc *appsvcs.Services) *CompleteHandler {
	return &CompleteHandler{svc: svc}
}

// Execute closes a state whose target is reached.
//
//	@Summary	Complete production
//	@Tags		production
//	@Produce	json
//	@Param		id	path		string	true	"State id"	Format(uuid)
//	@Success	200	{object}	StateResponse
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Failure	422	{object}	ErrorResponse
//	@Router		/production/states/{id}/complete [post]
func (h *CompleteHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := stateIDFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s, err := h.svc.Tracker.Complete(r.Context(), id, op)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stateResponse(s))
}

// SaveHandler handles POST /production/states/{id}/save.
type SaveHandler struct {
	svc *appsvcs.Services
}

func NewSaveHandler(svc *appsvcs.Services) *SaveHandler {
	return &SaveHandler{svc: svc}
}

// Execute pauses a state so it can be resumed later.
//
//	@Summary		Save and close
//	@Description	Persists partial progress and leaves the state live. A state at target is completed instead.
//	@Tags			production
//	@Produce		json
//	@Param			id	path		string	true	"State id"	Format(uuid)
//	@Success		200	{object}	StateResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Router			/production/states/{id}/save [post]
func (h *SaveHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := stateIDFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	s, err := h.svc.Tracker.SaveAndClose(r.Context(), id, op)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, stateResponse(s))
}

// CancelHandler handles DELETE /production/states/{id}.
type CancelHandler struct {
	svc *appsvcs.Services
}

func NewCancelHandler(svc *appsvcs.Services) *CancelHandler {
	return &CancelHandler{svc: svc}
}

// Execute discards a state that has not been completed.
//
//	@Summary	Cancel production
//	@Tags		production
//	@Param		id	path	string	true	"State id"	Format(uuid)
//	@Success	204
//	@Failure	401	{object}	ErrorResponse
//	@Failure	404	{object}	ErrorResponse
//	@Failure	409	{object}	ErrorResponse
//	@Router		/production/states/{id} [delete]
func (h *CancelHandler) Execute(w http.ResponseWriter, r *http.Request) {
	op, ok := operatorFromRequest(w, r)
	if !ok {
		return
	}
	id, err := stateIDFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	if err := h.svc.Tracker.Cancel(r.Context(), id, op); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

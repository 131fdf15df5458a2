package handlers

import (
	"net/http"

	"github.com/ghuser/shopfloor/pkg/errhttp"
	"github.com/ghuser/shopfloor/pkg/httpx"
	appsvcs "github.com/ghuser/shopfloor/services/catalog/application/services"
	"github.com/ghuser/shopfloor/services/catalog/application/workflows"
	domainsvcs "github.com/ghuser/shopfloor/services/catalog/domain/services"
)

// CostResponse is the aggregated unit cost of a product.
type CostResponse struct {
	Product   ProductRefPayload     `json:"product"`
	TotalCost float64               `json:"total_cost" example:"60"`
	Breakdown []domainsvcs.CostLine `json:"breakdown"`
	Warnings  []string              `json:"warnings,omitempty"`
} // @name CostResponse

// RefreshCostResponse is returned after a single product's cost is refreshed.
type RefreshCostResponse struct {
	Product      ProductRefPayload `json:"product"`
	PreviousCost float64           `json:"previous_cost" example:"55"`
	UnitCost     float64           `json:"unit_cost" example:"60"`
	Updated      bool              `json:"updated"`
	Warnings     []string          `json:"warnings,omitempty"`
} // @name RefreshCostResponse

// RefreshAllResponse reports either an inline sweep summary or a started workflow.
type RefreshAllResponse struct {
	Summary    *appsvcs.RefreshSummary `json:"summary,omitempty"`
	WorkflowID string                  `json:"workflow_id,omitempty" example:"catalog-refresh-costs"`
	RunID      string                  `json:"run_id,omitempty"`
} // @name RefreshAllResponse

// GetCostHandler handles GET /catalog/products/{kind}/{id}/cost.
type GetCostHandler struct {
	svc *appsvcs.Services
}

// NewGetCostHandler returns a GetCostHandler backed by the given services.
func NewGetCostHandler(svc *appsvcs.Services) *GetCostHandler {
	return &GetCostHandler{svc: svc}
}

// Execute computes the product's cost from its BOM without storing it.
//
//	@Summary		Compute product cost
//	@Description	Recursively aggregates the unit cost of a product over its bill of materials
//	@Tags			catalog
//	@Produce		json
//	@Param			kind	path		string	true	"Product kind"	Enums(raw, semiFinished, final)
//	@Param			id		path		int		true	"Product id"
//	@Success		200		{object}	CostResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/catalog/products/{kind}/{id}/cost [get]
func (h *GetCostHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ref, err := productRefFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.svc.Cost.ComputeCost(r.Context(), ref)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, CostResponse{
		Product:   refPayload(ref),
		TotalCost: res.TotalCost,
		Breakdown: res.Breakdown,
		Warnings:  warningMessages(res.Warnings),
	})
}

// RefreshCostHandler handles POST /catalog/products/{kind}/{id}/cost/refresh.
type RefreshCostHandler struct {
	svc *appsvcs.Services
}

// NewRefreshCostHandler returns a RefreshCostHandler backed by the given services.
func NewRefreshCostHandler(svc *appsvcs.Services) *RefreshCostHandler {
	return &RefreshCostHandler{svc: svc}
}

// Execute recomputes and stores the product's unit cost.
//
//	@Summary		Refresh product cost
//	@Description	Recomputes a semi-finished or final product's cost and stores it as computed. Products without a BOM keep their cost.
//	@Tags			catalog
//	@Produce		json
//	@Param			kind	path		string	true	"Product kind"	Enums(semiFinished, final)
//	@Param			id		path		int		true	"Product id"
//	@Success		200		{object}	RefreshCostResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Router			/catalog/products/{kind}/{id}/cost/refresh [post]
func (h *RefreshCostHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ref, err := productRefFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	res, err := h.svc.Cost.RefreshUnitCost(r.Context(), ref)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, RefreshCostResponse{
		Product:      refPayload(ref),
		PreviousCost: res.PreviousCost,
		UnitCost:     res.UnitCost,
		Updated:      res.Updated,
		Warnings:     warningMessages(res.Warnings),
	})
}

// RefreshAllHandler handles POST /catalog/costs/refresh.
type RefreshAllHandler struct {
	svc *appsvcs.Services
}

// NewRefreshAllHandler returns a RefreshAllHandler backed by the given services.
func NewRefreshAllHandler(svc *appsvcs.Services) *RefreshAllHandler {
	return &RefreshAllHandler{svc: svc}
}

// Execute sweeps every semi-finished and final product. With Temporal
// configured the sweep runs as a workflow and 202 is returned.
//
//	@Summary		Refresh all product costs
//	@Tags			catalog
//	@Produce		json
//	@Success		200	{object}	RefreshAllResponse
//	@Success		202	{object}	RefreshAllResponse
//	@Failure		500	{object}	ErrorResponse
//	@Router			/catalog/costs/refresh [post]
func (h *RefreshAllHandler) Execute(w http.ResponseWriter, r *http.Request) {
	if h.svc.Temporal != nil {
		runID, err := workflows.StartRefresh(r.Context(), h.svc.Temporal.Client, h.svc.TaskQueue, workflows.RefreshCostsInput{})
		if err != nil {
			errhttp.WriteError(w, r, err)
			return
		}
		httpx.JSON(w, http.StatusAccepted, RefreshAllResponse{
			WorkflowID: workflows.RefreshCostsWorkflowID,
			RunID:      runID,
		})
		return
	}

	summary, err := h.svc.Cost.RefreshAll(r.Context())
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, RefreshAllResponse{Summary: summary})
}

func writeBadRequest(w http.ResponseWriter, err error) {
	httpx.JSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
}

package handlers

import (
	"net/http"

	"github.com/ghuser/shopfloor/pkg/errhttp"
	"github.com/ghuser/shopfloor/pkg/httpx"
	appsvcs "github.com/ghuser/shopfloor/services/catalog/application/services"
	domainsvcs "github.com/ghuser/shopfloor/services/catalog/domain/services"
)

// StockResponse reports direct-component shortages.
type StockResponse struct {
	Product           ProductRefPayload     `json:"product"`
	RequestedQuantity float64               `json:"requested_quantity" example:"3"`
	Sufficient        bool                  `json:"sufficient"`
	Shortages         []domainsvcs.Shortage `json:"shortages"`
} // @name StockResponse

// RequirementsResponse reports aggregated raw material demand.
type RequirementsResponse struct {
	Product           ProductRefPayload                `json:"product"`
	RequestedQuantity float64                          `json:"requested_quantity" example:"3"`
	Sufficient        bool                             `json:"sufficient"`
	Materials         []domainsvcs.MaterialRequirement `json:"materials"`
	Warnings          []string                         `json:"warnings,omitempty"`
} // @name RequirementsResponse

// GetStockHandler handles GET /catalog/products/{kind}/{id}/stock.
type GetStockHandler struct {
	svc *appsvcs.Services
}

// NewGetStockHandler returns a GetStockHandler backed by the given services.
func NewGetStockHandler(svc *appsvcs.Services) *GetStockHandler {
	return &GetStockHandler{svc: svc}
}

// Execute checks whether on-hand stock covers producing the requested quantity.
//
//	@Summary		Check component stock
//	@Description	Compares direct BOM components against on-hand stock for a requested quantity
//	@Tags			catalog
//	@Produce		json
//	@Param			kind		path		string	true	"Product kind"	Enums(semiFinished, final)
//	@Param			id			path		int		true	"Product id"
//	@Param			quantity	query		number	false	"Units to produce (default 1)"
//	@Success		200			{object}	StockResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/catalog/products/{kind}/{id}/stock [get]
func (h *GetStockHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ref, err := productRefFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	qty, err := quantityFromQuery(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	report, err := h.svc.Cost.CheckStock(r.Context(), ref, qty)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	shortages := report.Shortages
	if shortages == nil {
		shortages = []domainsvcs.Shortage{}
	}
	httpx.JSON(w, http.StatusOK, StockResponse{
		Product:           refPayload(ref),
		RequestedQuantity: report.RequestedQuantity,
		Sufficient:        report.Sufficient,
		Shortages:         shortages,
	})
}

// GetRequirementsHandler handles GET /catalog/products/{kind}/{id}/requirements.
type GetRequirementsHandler struct {
	svc *appsvcs.Services
}

// NewGetRequirementsHandler returns a GetRequirementsHandler backed by the given services.
func NewGetRequirementsHandler(svc *appsvcs.Services) *GetRequirementsHandler {
	return &GetRequirementsHandler{svc: svc}
}

// Execute explodes the full BOM and totals raw material demand.
//
//	@Summary		Explode material requirements
//	@Description	Walks every BOM level and reports required, available and shortfall per raw material
//	@Tags			catalog
//	@Produce		json
//	@Param			kind		path		string	true	"Product kind"	Enums(semiFinished, final)
//	@Param			id			path		int		true	"Product id"
//	@Param			quantity	query		number	false	"Units to produce (default 1)"
//	@Success		200			{object}	RequirementsResponse
//	@Failure		400			{object}	ErrorResponse
//	@Failure		404			{object}	ErrorResponse
//	@Failure		409			{object}	ErrorResponse
//	@Failure		422			{object}	ErrorResponse
//	@Router			/catalog/products/{kind}/{id}/requirements [get]
func (h *GetRequirementsHandler) Execute(w http.ResponseWriter, r *http.Request) {
	ref, err := productRefFromPath(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}
	qty, err := quantityFromQuery(r)
	if err != nil {
		writeBadRequest(w, err)
		return
	}

	report, err := h.svc.Cost.ExplodeRequirements(r.Context(), ref, qty)
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusOK, RequirementsResponse{
		Product:           refPayload(ref),
		RequestedQuantity: report.RequestedQuantity,
		Sufficient:        report.Sufficient,
		Materials:         report.Materials,
		Warnings:          warningMessages(report.Warnings),
	})
}

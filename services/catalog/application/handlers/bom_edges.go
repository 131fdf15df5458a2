package handlers

import (
	"net/http"

	"github.com/ghuser/shopfloor/pkg/errhttp"
	"github.com/ghuser/shopfloor/pkg/httpx"
	pkgvalidator "github.com/ghuser/shopfloor/pkg/validator"
	appsvcs "github.com/ghuser/shopfloor/services/catalog/application/services"
)

// PostEdgeRequest is the request body for POST /catalog/bom-edges.
type PostEdgeRequest struct {
	Parent          ProductRefPayload `json:"parent" validate:"required"`
	Child           ProductRefPayload `json:"child" validate:"required"`
	QuantityPerUnit float64           `json:"quantity_per_unit" validate:"required,gt=0" example:"2"`
	Unit            string            `json:"unit" validate:"max=16" example:"kg"`
} // @name PostEdgeRequest

// DeleteEdgeRequest is the request body for DELETE /catalog/bom-edges.
type DeleteEdgeRequest struct {
	Parent ProductRefPayload `json:"parent" validate:"required"`
	Child  ProductRefPayload `json:"child" validate:"required"`
} // @name DeleteEdgeRequest

// EdgeResponse echoes a stored BOM edge.
type EdgeResponse struct {
	Parent          ProductRefPayload `json:"parent"`
	Child           ProductRefPayload `json:"child"`
	QuantityPerUnit float64           `json:"quantity_per_unit"`
	Unit            string            `json:"unit"`
} // @name EdgeResponse

// PostEdgeHandler handles POST /catalog/bom-edges.
type PostEdgeHandler struct {
	svc *appsvcs.Services
}

// NewPostEdgeHandler returns a PostEdgeHandler backed by the given services.
func NewPostEdgeHandler(svc *appsvcs.Services) *PostEdgeHandler {
	return &PostEdgeHandler{svc: svc}
}

// Execute adds or replaces a BOM edge.
//
//	@Summary		Add BOM edge
//	@Description	Adds a component to a semi-finished or final product. Self references and cycles are rejected.
//	@Tags			catalog
//	@Accept			json
//	@Produce		json
//	@Param			request	body		PostEdgeRequest	true	"Edge"
//	@Success		201		{object}	EdgeResponse
//	@Failure		400		{object}	ErrorResponse
//	@Failure		404		{object}	ErrorResponse
//	@Failure		409		{object}	ErrorResponse
//	@Failure		422		{object}	ErrorResponse
//	@Router			/catalog/bom-edges [post]
func (h *PostEdgeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[PostEdgeRequest](w, r)
	if !ok {
		return
	}
	parent, err := req.Parent.ref()
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	child, err := req.Child.ref()
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	edge, err := h.svc.Cost.AddEdge(r.Context(), appsvcs.EdgeInput{
		Parent:          parent,
		Child:           child,
		QuantityPerUnit: req.QuantityPerUnit,
		Unit:            req.Unit,
	})
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	httpx.JSON(w, http.StatusCreated, EdgeResponse{
		Parent:          refPayload(edge.Parent()),
		Child:           refPayload(edge.Child()),
		QuantityPerUnit: edge.QuantityPerUnit,
		Unit:            edge.Unit,
	})
}

// DeleteEdgeHandler handles DELETE /catalog/bom-edges.
type DeleteEdgeHandler struct {
	svc *appsvcs.Services
}

// NewDeleteEdgeHandler returns a DeleteEdgeHandler backed by the given services.
func NewDeleteEdgeHandler(svc *appsvcs.Services) *DeleteEdgeHandler {
	return &DeleteEdgeHandler{svc: svc}
}

// Execute removes a BOM edge.
//
//	@Summary		Remove BOM edge
//	@Tags			catalog
//	@Accept			json
//	@Param			request	body	DeleteEdgeRequest	true	"Edge"
//	@Success		204
//	@Failure		400	{object}	ErrorResponse
//	@Router			/catalog/bom-edges [delete]
func (h *DeleteEdgeHandler) Execute(w http.ResponseWriter, r *http.Request) {
	req, ok := pkgvalidator.ValidateRequest[DeleteEdgeRequest](w, r)
	if !ok {
		return
	}
	parent, err := req.Parent.ref()
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	child, err := req.Child.ref()
	if err != nil {
		errhttp.WriteError(w, r, err)
		return
	}

	if err := h.svc.Cost.RemoveEdge(r.Context(), parent, child); err != nil {
		errhttp.WriteError(w, r, err)
		return
	}
	httpx.NoContent(w)
}

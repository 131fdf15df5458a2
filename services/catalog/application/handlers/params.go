package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	domainsvcs "github.com/ghuser/shopfloor/services/catalog/domain/services"
)

var (
	errInvalidID       = errors.New("product id must be a positive integer")
	errInvalidQuantity = errors.New("quantity must be a number")
)

// ErrorResponse is returned on all error responses.
type ErrorResponse struct {
	Error string `json:"error" example:"product not found"`
} // @name CatalogErrorResponse

// ProductRefPayload identifies a product in request and response bodies.
type ProductRefPayload struct {
	ID   int64  `json:"id" validate:"required,gt=0" example:"12"`
	Kind string `json:"kind" validate:"required,product_kind" example:"semiFinished"`
} // @name ProductRef

func (p ProductRefPayload) ref() (models.ProductRef, error) {
	kind, err := models.ParseKind(p.Kind)
	if err != nil {
		return models.ProductRef{}, err
	}
	return models.ProductRef{ID: p.ID, Kind: kind}, nil
}

func refPayload(ref models.ProductRef) ProductRefPayload {
	return ProductRefPayload{ID: ref.ID, Kind: ref.Kind.String()}
}

// productRefFromPath reads the {kind} and {id} URL parameters.
func productRefFromPath(r *http.Request) (models.ProductRef, error) {
	kind, err := models.ParseKind(chi.URLParam(r, "kind"))
	if err != nil {
		return models.ProductRef{}, err
	}
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return models.ProductRef{}, errInvalidID
	}
	return models.ProductRef{ID: id, Kind: kind}, nil
}

// quantityFromQuery reads ?quantity=, defaulting to 1.
func quantityFromQuery(r *http.Request) (float64, error) {
	raw := r.URL.Query().Get("quantity")
	if raw == "" {
		return 1, nil
	}
	q, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errInvalidQuantity
	}
	return q, nil
}

func warningMessages(ws []domainsvcs.IntegrityWarning) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.Err().Error()
	}
	return out
}

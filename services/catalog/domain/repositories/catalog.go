package repositories

import (
	"context"

	"github.com/ghuser/shopfloor/services/catalog/domain/models"
)

// QueryOpts contains pagination parameters for list queries.
type QueryOpts struct {
	Limit  int // Maximum number of records to return
	Offset int // Number of records to skip
}

// CatalogReader is the read-only view of the catalog consumed by the cost engine
// and the barcode validator.
type CatalogReader interface {
	// GetProduct returns ErrProductNotFound when no product matches ref.
	GetProduct(ctx context.Context, ref models.ProductRef) (models.Product, error)

	// GetBOMEdges returns the direct component edges of parent. A product without
	// a BOM yields an empty slice, not an error.
	GetBOMEdges(ctx context.Context, parent models.ProductRef) ([]models.BOMEdge, error)

	// FindProductByBarcode returns ErrProductNotFound when no product carries barcode.
	// Barcodes may be shared; any one matching product is returned.
	FindProductByBarcode(ctx context.Context, barcode string) (models.Product, error)
}

// CatalogRepository is the persistence interface for products and BOM edges.
// The domain layer owns this interface; infrastructure implements it.
type CatalogRepository interface {
	CatalogReader

	// FindProductByCode looks a product up by its human code within kind.
	FindProductByCode(ctx context.Context, kind models.Kind, code string) (models.Product, error)

	// ListProducts returns active products of kind ordered by id.
	ListProducts(ctx context.Context, kind models.Kind, opts QueryOpts) ([]models.Product, error)

	// SetUnitCost overwrites the unit cost of a semi-finished or final product
	// and marks it as computed.
	SetUnitCost(ctx context.Context, ref models.ProductRef, cost float64) error

	// SaveEdge inserts or replaces the edge between parent and child.
	SaveEdge(ctx context.Context, edge *models.BOMEdge) error

	// DeleteEdge removes the edge between parent and child if present.
	DeleteEdge(ctx context.Context, parent, child models.ProductRef) error
}

// Package catalogbridge adapts the catalog context to the ports the
// production context consumes: live barcode lookup and the stock gate.
package catalogbridge

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	catalogsvcs "github.com/ghuser/shopfloor/services/catalog/domain/services"
	"github.com/ghuser/shopfloor/services/production/domain/repositories"
)

// Catalog is the slice of the catalog repository the bridge reads.
type Catalog interface {
	FindProductByBarcode(ctx context.Context, barcode string) (models.Product, error)
	FindProductByCode(ctx context.Context, kind models.Kind, code string) (models.Product, error)
}

// StockChecker is satisfied by the catalog CostService and CostEngine.
type StockChecker interface {
	CheckStock(ctx context.Context, ref models.ProductRef, quantity float64) (*catalogsvcs.StockReport, error)
}

// producibleKinds are searched in order when resolving an order line code.
var producibleKinds = []models.Kind{models.KindFinal, models.KindSemiFinished}

// Bridge implements repositories.BarcodeCatalog and repositories.StockGate.
type Bridge struct {
	catalog Catalog
	stock   StockChecker
}

var (
	_ repositories.BarcodeCatalog = (*Bridge)(nil)
	_ repositories.StockGate      = (*Bridge)(nil)
)

func New(catalog Catalog, stock StockChecker) *Bridge {
	return &Bridge{catalog: catalog, stock: stock}
}

// ProductCodeForBarcode looks the barcode up in the catalog.
func (b *Bridge) ProductCodeForBarcode(ctx context.Context, barcode string) (string, bool, error) {
	p, err := b.catalog.FindProductByBarcode(ctx, barcode)
	if err != nil {
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			return "", false, nil
		}
		return "", false, err
	}
	return p.Info().Code, true, nil
}

// CheckStock resolves productCode to a final or semi-finished product and
// checks its direct components for quantity units. A code the catalog does
// not know has no BOM to gate on and passes.
func (b *Bridge) CheckStock(ctx context.Context, productCode string, quantity int) ([]string, error) {
	ref, ok, err := b.resolve(ctx, productCode)
	if err != nil || !ok {
		return nil, err
	}
	report, err := b.stock.CheckStock(ctx, ref, float64(quantity))
	if err != nil {
		return nil, fmt.Errorf("check stock for %s: %w", productCode, err)
	}
	shortages := make([]string, 0, len(report.Shortages))
	for _, s := range report.Shortages {
		name := s.Code
		if name == "" {
			name = s.Name
		}
		shortages = append(shortages, fmt.Sprintf("%s: missing %g %s", name, s.Missing, s.Unit))
	}
	return shortages, nil
}

func (b *Bridge) resolve(ctx context.Context, code string) (models.ProductRef, bool, error) {
	for _, kind := range producibleKinds {
		p, err := b.catalog.FindProductByCode(ctx, kind, code)
		if err == nil {
			return models.Ref(p), true, nil
		}
		if !errors.Is(err, catalogdomain.ErrProductNotFound) {
			return models.ProductRef{}, false, err
		}
	}
	return models.ProductRef{}, false, nil
}

// Package services contains stateless domain services for the catalog bounded context.
// They operate on domain types through the CatalogReader interface and never log;
// non-fatal findings are returned as IntegrityWarnings for the caller to report.
package services

import (
	"context"
	"errors"
	"fmt"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	"github.com/ghuser/shopfloor/services/catalog/domain/repositories"
)

// CostLine is one edge of a product's BOM priced at its effective unit price.
type CostLine struct {
	ComponentID      int64       `json:"component_id"`
	ComponentKind    models.Kind `json:"component_kind"`
	Code             string      `json:"code"`
	Name             string      `json:"name"`
	RequiredQuantity float64     `json:"required_quantity"`
	Unit             string      `json:"unit"`
	UnitPrice        float64     `json:"unit_price"`
	LineCost         float64     `json:"line_cost"`
}

// IntegrityWarning reports an edge that was skipped because the catalog is inconsistent.
type IntegrityWarning struct {
	Parent models.ProductRef
	Child  models.ProductRef
	Reason string
}

// Err returns the warning as an error wrapping ErrDataIntegrity.
func (w IntegrityWarning) Err() error {
	return fmt.Errorf("%w: %s -> %s: %s", catalogdomain.ErrDataIntegrity, w.Parent, w.Child, w.Reason)
}

// CostResult is the outcome of ComputeCost. A zero TotalCost with an empty
// Breakdown means the product has no BOM, not that its cost is zero.
type CostResult struct {
	Product   models.ProductRef
	TotalCost float64
	Breakdown []CostLine
	Warnings  []IntegrityWarning
}

// HasBOM reports whether the product had at least one priced component.
func (r *CostResult) HasBOM() bool {
	return len(r.Breakdown) > 0
}

// CostEngine resolves BOM costs and material availability from a CatalogReader.
// It holds no state between calls and is safe for concurrent use.
type CostEngine struct {
	catalog repositories.CatalogReader
}

// NewCostEngine returns a CostEngine reading from catalog.
func NewCostEngine(catalog repositories.CatalogReader) *CostEngine {
	return &CostEngine{catalog: catalog}
}

// ComputeCost returns the per-unit cost of ref aggregated over its BOM.
//
// Raw components contribute quantity × purchase price. Semi-finished components
// are recomputed recursively and their total is used as the unit price.
// Dangling edges and final-product children are skipped with a warning.
// A cycle through ref fails with ErrCyclicBOM.
func (e *CostEngine) ComputeCost(ctx context.Context, ref models.ProductRef) (*CostResult, error) {
	w := newWalk(e.catalog)
	total, lines, err := w.cost(ctx, ref)
	if err != nil {
		return nil, err
	}
	return &CostResult{
		Product:   ref,
		TotalCost: total,
		Breakdown: lines,
		Warnings:  w.warnings,
	}, nil
}

// walk carries per-call recursion state: the current path for cycle detection
// and memoized totals so shared sub-assemblies are priced once.
type walk struct {
	catalog  repositories.CatalogReader
	onPath   map[models.ProductRef]bool
	memo     map[models.ProductRef]float64
	warnings []IntegrityWarning
}

func newWalk(catalog repositories.CatalogReader) *walk {
	return &walk{
		catalog: catalog,
		onPath:  make(map[models.ProductRef]bool),
		memo:    make(map[models.ProductRef]float64),
	}
}

func (w *walk) warn(parent, child models.ProductRef, reason string) {
	w.warnings = append(w.warnings, IntegrityWarning{Parent: parent, Child: child, Reason: reason})
}

func (w *walk) enter(ref models.ProductRef) error {
	if w.onPath[ref] {
		return fmt.Errorf("%w: %s is its own component", catalogdomain.ErrCyclicBOM, ref)
	}
	w.onPath[ref] = true
	return nil
}

func (w *walk) leave(ref models.ProductRef) {
	delete(w.onPath, ref)
}

func (w *walk) cost(ctx context.Context, ref models.ProductRef) (float64, []CostLine, error) {
	if err := ctx.Err(); err != nil {
		return 0, nil, err
	}
	if err := w.enter(ref); err != nil {
		return 0, nil, err
	}
	defer w.leave(ref)

	edges, err := w.catalog.GetBOMEdges(ctx, ref)
	if err != nil {
		return 0, nil, fmt.Errorf("get bom edges for %s: %w", ref, err)
	}

	lines := make([]CostLine, 0, len(edges))
	var total float64
	for _, edge := range edges {
		child := edge.Child()
		if child.Kind == models.KindFinal {
			w.warn(ref, child, "final products cannot be components")
			continue
		}

		product, err := w.catalog.GetProduct(ctx, child)
		if errors.Is(err, catalogdomain.ErrProductNotFound) {
			w.warn(ref, child, "component not found")
			continue
		}
		if err != nil {
			return 0, nil, fmt.Errorf("get component %s: %w", child, err)
		}

		price := product.UnitPrice()
		if child.Kind == models.KindSemiFinished {
			price, err = w.unitCost(ctx, child)
			if err != nil {
				return 0, nil, err
			}
		}

		info := product.Info()
		line := CostLine{
			ComponentID:      child.ID,
			ComponentKind:    child.Kind,
			Code:             info.Code,
			Name:             info.Name,
			RequiredQuantity: edge.QuantityPerUnit,
			Unit:             edge.Unit,
			UnitPrice:        price,
			LineCost:         edge.QuantityPerUnit * price,
		}
		total += line.LineCost
		lines = append(lines, line)
	}
	return total, lines, nil
}

func (w *walk) unitCost(ctx context.Context, ref models.ProductRef) (float64, error) {
	if v, ok := w.memo[ref]; ok {
		return v, nil
	}
	total, _, err := w.cost(ctx, ref)
	if err != nil {
		return 0, err
	}
	w.memo[ref] = total
	return total, nil
}

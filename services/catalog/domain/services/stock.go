package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
)

// Shortage is one component whose on-hand stock cannot cover a request.
type Shortage struct {
	ComponentID   int64       `json:"component_id"`
	ComponentKind models.Kind `json:"component_kind"`
	Code          string      `json:"code"`
	Name          string      `json:"name"`
	Required      float64     `json:"required"`
	Available     float64     `json:"available"`
	Missing       float64     `json:"missing"`
	Unit          string      `json:"unit"`
}

// StockReport is the outcome of CheckStock.
type StockReport struct {
	Product           models.ProductRef
	RequestedQuantity float64
	Sufficient        bool
	Shortages         []Shortage
}

// CheckStock compares the direct components of ref against on-hand stock for
// requested units. Only one BOM level is inspected. A component that no longer
// exists is reported as a shortage with nothing available.
func (e *CostEngine) CheckStock(ctx context.Context, ref models.ProductRef, requested float64) (*StockReport, error) {
	if requested <= 0 {
		return nil, fmt.Errorf("%w: requested %v", catalogdomain.ErrInvalidQuantity, requested)
	}

	edges, err := e.catalog.GetBOMEdges(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get bom edges for %s: %w", ref, err)
	}

	report := &StockReport{Product: ref, RequestedQuantity: requested, Sufficient: true}
	for _, edge := range edges {
		child := edge.Child()
		required := edge.QuantityPerUnit * requested

		var available float64
		shortage := Shortage{
			ComponentID:   child.ID,
			ComponentKind: child.Kind,
			Unit:          edge.Unit,
			Required:      required,
		}

		product, err := e.catalog.GetProduct(ctx, child)
		switch {
		case errors.Is(err, catalogdomain.ErrProductNotFound):
			shortage.Name = "unknown component"
		case err != nil:
			return nil, fmt.Errorf("get component %s: %w", child, err)
		default:
			info := product.Info()
			available = info.OnHand
			shortage.Code = info.Code
			shortage.Name = info.Name
		}

		if required > available {
			shortage.Available = available
			shortage.Missing = required - available
			report.Shortages = append(report.Shortages, shortage)
			report.Sufficient = false
		}
	}
	return report, nil
}

// MaterialRequirement is the aggregated demand for one raw material across a
// fully exploded BOM.
type MaterialRequirement struct {
	MaterialID int64   `json:"material_id"`
	Code       string  `json:"code"`
	Name       string  `json:"name"`
	Required   float64 `json:"required"`
	Available  float64 `json:"available"`
	Shortfall  float64 `json:"shortfall"`
	Unit       string  `json:"unit"`
}

// RequirementsReport is the outcome of ExplodeRequirements.
type RequirementsReport struct {
	Product           models.ProductRef
	RequestedQuantity float64
	Sufficient        bool
	Materials         []MaterialRequirement
	Warnings          []IntegrityWarning
}

// ExplodeRequirements walks the whole BOM below ref and sums the raw material
// needed for requested units, then compares each total against on-hand stock.
// Semi-finished stock is not netted off; every level is assumed to be built.
func (e *CostEngine) ExplodeRequirements(ctx context.Context, ref models.ProductRef, requested float64) (*RequirementsReport, error) {
	if requested <= 0 {
		return nil, fmt.Errorf("%w: requested %v", catalogdomain.ErrInvalidQuantity, requested)
	}

	w := newWalk(e.catalog)
	reqs := make(map[int64]*MaterialRequirement)
	if err := w.explode(ctx, ref, requested, reqs); err != nil {
		return nil, err
	}

	report := &RequirementsReport{
		Product:           ref,
		RequestedQuantity: requested,
		Sufficient:        true,
		Materials:         make([]MaterialRequirement, 0, len(reqs)),
		Warnings:          w.warnings,
	}
	for _, r := range reqs {
		if r.Required > r.Available {
			r.Shortfall = r.Required - r.Available
			report.Sufficient = false
		}
		report.Materials = append(report.Materials, *r)
	}
	sort.Slice(report.Materials, func(i, j int) bool {
		return report.Materials[i].Code < report.Materials[j].Code
	})
	return report, nil
}

func (w *walk) explode(ctx context.Context, ref models.ProductRef, qty float64, reqs map[int64]*MaterialRequirement) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := w.enter(ref); err != nil {
		return err
	}
	defer w.leave(ref)

	edges, err := w.catalog.GetBOMEdges(ctx, ref)
	if err != nil {
		return fmt.Errorf("get bom edges for %s: %w", ref, err)
	}

	for _, edge := range edges {
		child := edge.Child()
		required := edge.QuantityPerUnit * qty

		switch child.Kind {
		case models.KindSemiFinished:
			if err := w.explode(ctx, child, required, reqs); err != nil {
				return err
			}
		case models.KindRaw:
			if r, ok := reqs[child.ID]; ok {
				r.Required += required
				continue
			}
			product, err := w.catalog.GetProduct(ctx, child)
			if errors.Is(err, catalogdomain.ErrProductNotFound) {
				w.warn(ref, child, "component not found")
				continue
			}
			if err != nil {
				return fmt.Errorf("get component %s: %w", child, err)
			}
			info := product.Info()
			reqs[child.ID] = &MaterialRequirement{
				MaterialID: child.ID,
				Code:       info.Code,
				Name:       info.Name,
				Required:   required,
				Available:  info.OnHand,
				Unit:       info.Unit,
			}
		default:
			w.warn(ref, child, "final products cannot be components")
		}
	}
	return nil
}

// WouldCreateCycle reports whether adding edge would make its parent reachable
// from its child.
func (e *CostEngine) WouldCreateCycle(ctx context.Context, edge *models.BOMEdge) (bool, error) {
	target := edge.Parent()
	seen := make(map[models.ProductRef]bool)
	stack := []models.ProductRef{edge.Child()}

	for len(stack) > 0 {
		ref := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if ref == target {
			return true, nil
		}
		if seen[ref] || ref.Kind == models.KindRaw {
			continue
		}
		seen[ref] = true

		edges, err := e.catalog.GetBOMEdges(ctx, ref)
		if err != nil {
			return false, fmt.Errorf("get bom edges for %s: %w", ref, err)
		}
		for _, next := range edges {
			stack = append(stack, next.Child())
		}
	}
	return false, nil
}

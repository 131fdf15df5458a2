package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/ghuser/shopfloor/pkg/logger"
	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	"github.com/ghuser/shopfloor/services/catalog/domain/repositories"
	domainsvcs "github.com/ghuser/shopfloor/services/catalog/domain/services"
)

const (
	refreshPageSize = 200
	computeTimeout  = 30 * time.Second
)

// RefreshResult describes one RefreshUnitCost call. Updated is false when the
// product has no BOM and its stored cost was left alone.
type RefreshResult struct {
	Product      models.ProductRef
	PreviousCost float64
	UnitCost     float64
	Updated      bool
	Warnings     []domainsvcs.IntegrityWarning
}

// RefreshSummary totals a RefreshAll sweep.
type RefreshSummary struct {
	Refreshed int      `json:"refreshed"`
	Skipped   int      `json:"skipped"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors,omitempty"`
}

// EdgeInput identifies a BOM edge to add.
type EdgeInput struct {
	Parent          models.ProductRef
	Child           models.ProductRef
	QuantityPerUnit float64
	Unit            string
}

// CostService is the application entry point for BOM costing and maintenance.
// Concurrent ComputeCost calls for the same product share one computation.
type CostService struct {
	repo      repositories.CatalogRepository
	engine    *domainsvcs.CostEngine
	log       logger.Logger
	group     singleflight.Group
	computeMs metric.Float64Histogram
}

// NewCostService returns a CostService over repo.
func NewCostService(repo repositories.CatalogRepository, log logger.Logger) *CostService {
	hist, err := otel.Meter("shopfloor/catalog").Float64Histogram(
		"catalog.cost_compute_ms",
		metric.WithDescription("Duration of a BOM cost computation"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		log.Warn("catalog: cost histogram unavailable", "error", err)
	}
	return &CostService{
		repo:      repo,
		engine:    domainsvcs.NewCostEngine(repo),
		log:       log,
		computeMs: hist,
	}
}

// Engine exposes the underlying domain engine for read-only callers such as
// the production stock gate.
func (s *CostService) Engine() *domainsvcs.CostEngine {
	return s.engine
}

// ComputeCost returns the aggregated unit cost of ref. It fails with
// ErrProductNotFound for an unknown product and ErrCyclicBOM for a cyclic BOM.
// Data-integrity warnings are logged and returned on the result.
func (s *CostService) ComputeCost(ctx context.Context, ref models.ProductRef) (*domainsvcs.CostResult, error) {
	if _, err := s.repo.GetProduct(ctx, ref); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	// the shared computation outlives any single caller; each caller stops
	// waiting when its own context ends
	ch := s.group.DoChan(ref.String(), func() (interface{}, error) {
		cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), computeTimeout)
		defer cancel()
		start := time.Now()
		res, err := s.engine.ComputeCost(cctx, ref)
		if s.computeMs != nil {
			s.computeMs.Record(cctx, float64(time.Since(start).Microseconds())/1000,
				metric.WithAttributes(attribute.String("kind", ref.Kind.String())))
		}
		return res, err
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("compute cost: %w", ctx.Err())
	case r = <-ch:
	}
	v, err, shared := r.Val, r.Err, r.Shared
	if err != nil {
		if errors.Is(err, catalogdomain.ErrCyclicBOM) {
			s.log.ErrorContext(ctx, "catalog: cyclic bom", "product", ref.String(), "error", err)
		}
		return nil, fmt.Errorf("compute cost: %w", err)
	}

	res := v.(*domainsvcs.CostResult)
	if !shared {
		s.logWarnings(ctx, res.Warnings)
	}
	return res, nil
}

// CheckStock reports direct-component shortages for producing quantity units of ref.
func (s *CostService) CheckStock(ctx context.Context, ref models.ProductRef, quantity float64) (*domainsvcs.StockReport, error) {
	if _, err := s.repo.GetProduct(ctx, ref); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	report, err := s.engine.CheckStock(ctx, ref, quantity)
	if err != nil {
		return nil, fmt.Errorf("check stock: %w", err)
	}
	return report, nil
}

// ExplodeRequirements reports aggregated raw material demand for quantity units of ref.
func (s *CostService) ExplodeRequirements(ctx context.Context, ref models.ProductRef, quantity float64) (*domainsvcs.RequirementsReport, error) {
	if _, err := s.repo.GetProduct(ctx, ref); err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	report, err := s.engine.ExplodeRequirements(ctx, ref, quantity)
	if err != nil {
		return nil, fmt.Errorf("explode requirements: %w", err)
	}
	s.logWarnings(ctx, report.Warnings)
	return report, nil
}

// RefreshUnitCost recomputes ref and stores the result as its computed unit
// cost. Raw materials are rejected with ErrInvalidKind. A product without a
// BOM keeps its stored cost.
func (s *CostService) RefreshUnitCost(ctx context.Context, ref models.ProductRef) (*RefreshResult, error) {
	if ref.Kind == models.KindRaw {
		return nil, fmt.Errorf("%w: raw materials carry a purchase price", catalogdomain.ErrInvalidKind)
	}

	product, err := s.repo.GetProduct(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}

	res, err := s.ComputeCost(ctx, ref)
	if err != nil {
		return nil, err
	}

	out := &RefreshResult{
		Product:      ref,
		PreviousCost: product.UnitPrice(),
		UnitCost:     product.UnitPrice(),
		Warnings:     res.Warnings,
	}
	if !res.HasBOM() {
		s.log.InfoContext(ctx, "catalog: no bom, unit cost kept", "product", ref.String())
		return out, nil
	}

	if err := s.repo.SetUnitCost(ctx, ref, res.TotalCost); err != nil {
		return nil, fmt.Errorf("set unit cost: %w", err)
	}
	out.UnitCost = res.TotalCost
	out.Updated = true

	s.log.InfoContext(ctx, "catalog: unit cost refreshed",
		"product", ref.String(),
		"previous_cost", out.PreviousCost,
		"unit_cost", out.UnitCost,
	)
	return out, nil
}

// RefreshAll recomputes every active semi-finished product and then every
// final product. Individual failures are counted and the sweep continues.
func (s *CostService) RefreshAll(ctx context.Context) (*RefreshSummary, error) {
	summary := &RefreshSummary{}
	for _, kind := range []models.Kind{models.KindSemiFinished, models.KindFinal} {
		refs, err := s.ListRefs(ctx, kind)
		if err != nil {
			return summary, err
		}
		for _, ref := range refs {
			if err := ctx.Err(); err != nil {
				return summary, err
			}
			outcome, err := s.RefreshOne(ctx, ref)
			summary.Add(ref, outcome, err)
			if err != nil {
				s.log.WarnContext(ctx, "catalog: refresh failed", "product", ref.String(), "error", err)
			}
		}
	}
	s.log.InfoContext(ctx, "catalog: refresh sweep finished",
		"refreshed", summary.Refreshed,
		"skipped", summary.Skipped,
		"failed", summary.Failed,
	)
	return summary, nil
}

// ListRefs returns the refs of every active product of kind.
func (s *CostService) ListRefs(ctx context.Context, kind models.Kind) ([]models.ProductRef, error) {
	var refs []models.ProductRef
	for offset := 0; ; offset += refreshPageSize {
		page, err := s.repo.ListProducts(ctx, kind, repositories.QueryOpts{Limit: refreshPageSize, Offset: offset})
		if err != nil {
			return nil, fmt.Errorf("list %s products: %w", kind, err)
		}
		for _, p := range page {
			refs = append(refs, models.Ref(p))
		}
		if len(page) < refreshPageSize {
			return refs, nil
		}
	}
}

// RefreshOutcome is the per-product result used by RefreshAll and the
// workflow activity.
type RefreshOutcome int

const (
	OutcomeRefreshed RefreshOutcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// RefreshOne refreshes a single product and classifies the result.
func (s *CostService) RefreshOne(ctx context.Context, ref models.ProductRef) (RefreshOutcome, error) {
	res, err := s.RefreshUnitCost(ctx, ref)
	switch {
	case err != nil:
		return OutcomeFailed, err
	case !res.Updated:
		return OutcomeSkipped, nil
	default:
		return OutcomeRefreshed, nil
	}
}

// Add records one product's outcome.
func (r *RefreshSummary) Add(ref models.ProductRef, outcome RefreshOutcome, err error) {
	switch outcome {
	case OutcomeRefreshed:
		r.Refreshed++
	case OutcomeSkipped:
		r.Skipped++
	default:
		r.Failed++
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", ref, err))
	}
}

// AddEdge validates and stores a BOM edge. Both products must exist and the
// edge must not close a cycle.
func (s *CostService) AddEdge(ctx context.Context, in EdgeInput) (*models.BOMEdge, error) {
	edge, err := models.NewBOMEdge(in.Parent, in.Child, in.QuantityPerUnit, in.Unit)
	if err != nil {
		return nil, err
	}
	for _, ref := range []models.ProductRef{in.Parent, in.Child} {
		if _, err := s.repo.GetProduct(ctx, ref); err != nil {
			return nil, fmt.Errorf("get product: %w", err)
		}
	}

	cyclic, err := s.engine.WouldCreateCycle(ctx, edge)
	if err != nil {
		return nil, fmt.Errorf("check cycle: %w", err)
	}
	if cyclic {
		return nil, fmt.Errorf("%w: %s -> %s", catalogdomain.ErrCyclicBOM, in.Parent, in.Child)
	}

	if err := s.repo.SaveEdge(ctx, edge); err != nil {
		return nil, fmt.Errorf("save edge: %w", err)
	}
	return edge, nil
}

// RemoveEdge deletes the edge between parent and child. Removing an absent
// edge is not an error.
func (s *CostService) RemoveEdge(ctx context.Context, parent, child models.ProductRef) error {
	if err := s.repo.DeleteEdge(ctx, parent, child); err != nil {
		return fmt.Errorf("delete edge: %w", err)
	}
	return nil
}

func (s *CostService) logWarnings(ctx context.Context, warnings []domainsvcs.IntegrityWarning) {
	for _, w := range warnings {
		s.log.WarnContext(ctx, "catalog: bom data integrity",
			"parent", w.Parent.String(),
			"child", w.Child.String(),
			"reason", w.Reason,
		)
	}
}

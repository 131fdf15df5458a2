// Package memory is an in-process implementation of the catalog repository.
// It backs unit tests across bounded contexts and local runs without Postgres.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	"github.com/ghuser/shopfloor/services/catalog/domain/repositories"
)

// CatalogRepository implements repositories.CatalogRepository with maps guarded
// by a RWMutex. The zero value is not usable; call NewCatalogRepository.
type CatalogRepository struct {
	mu       sync.RWMutex
	products map[models.ProductRef]models.Product
	edges    map[models.ProductRef][]models.BOMEdge
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository returns an empty repository.
func NewCatalogRepository() *CatalogRepository {
	return &CatalogRepository{
		products: make(map[models.ProductRef]models.Product),
		edges:    make(map[models.ProductRef][]models.BOMEdge),
	}
}

// PutProduct inserts or replaces p.
func (r *CatalogRepository) PutProduct(p models.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[models.Ref(p)] = p
}

// PutEdge appends an edge without structural validation, so tests can model
// dangling or otherwise inconsistent catalogs.
func (r *CatalogRepository) PutEdge(edge models.BOMEdge) {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent := edge.Parent()
	r.edges[parent] = append(r.edges[parent], edge)
}

// GetProduct implements repositories.CatalogReader.
func (r *CatalogRepository) GetProduct(_ context.Context, ref models.ProductRef) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, ref)
	}
	return p, nil
}

// GetBOMEdges implements repositories.CatalogReader.
func (r *CatalogRepository) GetBOMEdges(_ context.Context, parent models.ProductRef) ([]models.BOMEdge, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	edges := r.edges[parent]
	out := make([]models.BOMEdge, len(edges))
	copy(out, edges)
	return out, nil
}

// FindProductByBarcode implements repositories.CatalogReader. Ties are broken
// by kind then id so results are stable.
func (r *CatalogRepository) FindProductByBarcode(_ context.Context, barcode string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var matches []models.Product
	for _, p := range r.products {
		if barcode != "" && p.Info().Barcode == barcode {
			matches = append(matches, p)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("%w: barcode %q", catalogdomain.ErrProductNotFound, barcode)
	}
	sortProducts(matches)
	return matches[0], nil
}

// FindProductByCode implements repositories.CatalogRepository.
func (r *CatalogRepository) FindProductByCode(_ context.Context, kind models.Kind, code string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for ref, p := range r.products {
		if ref.Kind == kind && p.Info().Code == code {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%w: %s code %q", catalogdomain.ErrProductNotFound, kind, code)
}

// ListProducts implements repositories.CatalogRepository.
func (r *CatalogRepository) ListProducts(_ context.Context, kind models.Kind, opts repositories.QueryOpts) ([]models.Product, error) {
	r.mu.RLock()
	var out []models.Product
	for ref, p := range r.products {
		if ref.Kind == kind && p.Info().Active {
			out = append(out, p)
		}
	}
	r.mu.RUnlock()

	sortProducts(out)
	if opts.Offset >= len(out) {
		return nil, nil
	}
	out = out[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(out) {
		out = out[:opts.Limit]
	}
	return out, nil
}

// SetUnitCost implements repositories.CatalogRepository.
func (r *CatalogRepository) SetUnitCost(_ context.Context, ref models.ProductRef, cost float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[ref]
	if !ok {
		return fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, ref)
	}
	switch v := p.(type) {
	case models.SemiFinished:
		v.UnitCost, v.CostSource, v.UpdatedAt = cost, models.CostSourceComputed, time.Now().UTC()
		r.products[ref] = v
	case models.FinalProduct:
		v.UnitCost, v.CostSource, v.UpdatedAt = cost, models.CostSourceComputed, time.Now().UTC()
		r.products[ref] = v
	default:
		return fmt.Errorf("%w: cannot set unit cost on %s", catalogdomain.ErrInvalidKind, ref)
	}
	return nil
}

// SaveEdge implements repositories.CatalogRepository.
func (r *CatalogRepository) SaveEdge(_ context.Context, edge *models.BOMEdge) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	parent := edge.Parent()
	edges := r.edges[parent]
	for i := range edges {
		if edges[i].Child() == edge.Child() {
			edges[i] = *edge
			return nil
		}
	}
	r.edges[parent] = append(edges, *edge)
	return nil
}

// DeleteEdge implements repositories.CatalogRepository.
func (r *CatalogRepository) DeleteEdge(_ context.Context, parent, child models.ProductRef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	edges := r.edges[parent]
	for i := range edges {
		if edges[i].Child() == child {
			r.edges[parent] = append(edges[:i:i], edges[i+1:]...)
			return nil
		}
	}
	return nil
}

func sortProducts(ps []models.Product) {
	sort.Slice(ps, func(i, j int) bool {
		a, b := models.Ref(ps[i]), models.Ref(ps[j])
		if a.Kind != b.Kind {
			return a.Kind < b.Kind
		}
		return a.ID < b.ID
	})
}

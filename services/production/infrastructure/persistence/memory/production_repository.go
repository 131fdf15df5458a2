// Package memory holds in-process implementations of the production
// repositories, used by tests and by single-node runs without PostgreSQL.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
	"github.com/ghuser/shopfloor/services/production/domain/models"
	"github.com/ghuser/shopfloor/services/production/domain/repositories"
)

// ProductionRepository keeps states in a map and enforces the same live-key
// uniqueness and version checks as the PostgreSQL store.
type ProductionRepository struct {
	mu     sync.RWMutex
	states map[uuid.UUID]*models.ProductionState
}

var _ repositories.ProductionRepository = (*ProductionRepository)(nil)

func NewProductionRepository() *ProductionRepository {
	return &ProductionRepository{states: make(map[uuid.UUID]*models.ProductionState)}
}

func (r *ProductionRepository) Insert(_ context.Context, s *models.ProductionState) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[s.ID]; ok {
		return fmt.Errorf("state %s already stored", s.ID)
	}
	if s.IsLive() {
		if live := r.findLive(s.OrderID, s.ProductCode); live != nil {
			return fmt.Errorf("%w: %s", productiondomain.ErrAlreadyActive, s.Key())
		}
	}
	r.states[s.ID] = s.Clone()
	return nil
}

func (r *ProductionRepository) Update(_ context.Context, s *models.ProductionState, _ []models.HistoryEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.states[s.ID]
	if !ok {
		return fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, s.ID)
	}
	if stored.Version != s.Version {
		return fmt.Errorf("%w: %s at version %d, stored %d", productiondomain.ErrConcurrentUpdate, s.ID, s.Version, stored.Version)
	}
	s.Version++
	r.states[s.ID] = s.Clone()
	return nil
}

func (r *ProductionRepository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.states[id]; !ok {
		return fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, id)
	}
	delete(r.states, id)
	return nil
}

func (r *ProductionRepository) GetByID(_ context.Context, id uuid.UUID) (*models.ProductionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.states[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, id)
	}
	return s.Clone(), nil
}

func (r *ProductionRepository) FindLive(_ context.Context, orderID, productCode string) (*models.ProductionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s := r.findLive(orderID, productCode)
	if s == nil {
		return nil, fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, models.LiveKey(orderID, productCode))
	}
	return s.Clone(), nil
}

func (r *ProductionRepository) ListByOperator(_ context.Context, operatorID string) ([]*models.ProductionState, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*models.ProductionState
	for _, s := range r.states {
		if s.Operator.ID == operatorID {
			out = append(out, s.Clone())
		}
	}
	sortStates(out)
	return out, nil
}

// Len reports the number of stored states.
func (r *ProductionRepository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.states)
}

func (r *ProductionRepository) findLive(orderID, productCode string) *models.ProductionState {
	for _, s := range r.states {
		if s.IsLive() && s.OrderID == orderID && s.ProductCode == productCode {
			return s
		}
	}
	return nil
}

// sortStates orders live states first, then by most recent update.
func sortStates(states []*models.ProductionState) {
	sort.SliceStable(states, func(i, j int) bool {
		if states[i].IsLive() != states[j].IsLive() {
			return states[i].IsLive()
		}
		return states[i].LastUpdateTime.After(states[j].LastUpdateTime)
	})
}

// OrderBook is an in-memory OrderReader.
type OrderBook struct {
	mu     sync.RWMutex
	orders map[string]models.Order
}

var _ repositories.OrderReader = (*OrderBook)(nil)

func NewOrderBook(orders ...models.Order) *OrderBook {
	b := &OrderBook{orders: make(map[string]models.Order)}
	for _, o := range orders {
		b.Put(o)
	}
	return b
}

func (b *OrderBook) Put(o models.Order) {
	b.mu.Lock()
	defer b.mu.Unlock()
	o.ProductDetails = append([]models.OrderLine(nil), o.ProductDetails...)
	b.orders[o.ID] = o
}

func (b *OrderBook) GetOrder(_ context.Context, orderID string) (*models.Order, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	o, ok := b.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", productiondomain.ErrOrderNotFound, orderID)
	}
	o.ProductDetails = append([]models.OrderLine(nil), o.ProductDetails...)
	return &o, nil
}

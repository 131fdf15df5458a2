package repositories

import (
	"context"

	"github.com/google/uuid"

	"github.com/ghuser/shopfloor/services/production/domain/models"
)

// ProductionRepository is the persistence interface for ProductionState.
// The domain layer owns this interface; infrastructure implements it.
type ProductionRepository interface {
	// Insert stores a new state. A second live state for the same key fails
	// with ErrAlreadyActive.
	Insert(ctx context.Context, s *models.ProductionState) error

	// Update writes s if the stored version still equals s.Version, appends
	// the given history entries in the same transaction and bumps s.Version.
	// A stale version fails with ErrConcurrentUpdate.
	Update(ctx context.Context, s *models.ProductionState, appended []models.HistoryEntry) error

	// Delete removes the state and its history.
	Delete(ctx context.Context, id uuid.UUID) error

	GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionState, error)

	// FindLive returns the active, uncompleted state for the key.
	FindLive(ctx context.Context, orderID, productCode string) (*models.ProductionState, error)

	// ListByOperator returns the operator's states, live ones first.
	ListByOperator(ctx context.Context, operatorID string) ([]*models.ProductionState, error)
}

// OrderReader reads orders owned by the order book.
type OrderReader interface {
	// GetOrder returns ErrOrderNotFound when no order has orderID.
	GetOrder(ctx context.Context, orderID string) (*models.Order, error)
}

// BarcodeCatalog is the live catalog lookup used by the barcode validator.
type BarcodeCatalog interface {
	// ProductCodeForBarcode returns the code of a product carrying barcode.
	// found is false when no product carries it.
	ProductCodeForBarcode(ctx context.Context, barcode string) (code string, found bool, err error)
}

// StockGate decides whether enough material is on hand to start production.
type StockGate interface {
	// CheckStock returns a human readable shortage list; empty means sufficient.
	CheckStock(ctx context.Context, productCode string, quantity int) (shortages []string, err error)
}

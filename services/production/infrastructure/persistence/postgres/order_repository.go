package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ghuser/shopfloor/pkg/database"
	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
	"github.com/ghuser/shopfloor/services/production/domain/models"
	"github.com/ghuser/shopfloor/services/production/domain/repositories"
	"github.com/ghuser/shopfloor/services/production/infrastructure/persistence/postgres/db"
)

// OrderRepository reads orders and their lines.
type OrderRepository struct {
	db *database.Database
}

var _ repositories.OrderReader = (*OrderRepository)(nil)

func NewOrderRepository(database *database.Database) *OrderRepository {
	return &OrderRepository{db: database}
}

// GetOrder returns ErrOrderNotFound when no order has orderID.
func (r *OrderRepository) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	q := db.New(r.db.DB())
	row, err := q.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", productiondomain.ErrOrderNotFound, orderID)
		}
		return nil, fmt.Errorf("query order: %w", err)
	}
	lines, err := q.ListOrderLines(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("query order lines: %w", err)
	}
	o := &models.Order{
		ID:             row.ID,
		CustomerName:   row.CustomerName,
		ProductDetails: make([]models.OrderLine, len(lines)),
	}
	if row.DeliveryDate.Valid {
		o.DeliveryDate = row.DeliveryDate.Time
	}
	for i, l := range lines {
		o.ProductDetails[i] = models.OrderLine{Code: l.ProductCode, Name: l.ProductName, Quantity: int(l.Quantity)}
	}
	return o, nil
}

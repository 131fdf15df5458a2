package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/shopfloor/pkg/database"
	"github.com/ghuser/shopfloor/pkg/events"
	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
	domainevents "github.com/ghuser/shopfloor/services/catalog/domain/events"
	"github.com/ghuser/shopfloor/services/catalog/domain/models"
	"github.com/ghuser/shopfloor/services/catalog/domain/repositories"
	"github.com/ghuser/shopfloor/services/catalog/infrastructure/persistence/postgres/db"
)

// CatalogRepository implements repositories.CatalogRepository against PostgreSQL.
type CatalogRepository struct {
	db  *database.Database
	bus *events.Bus
}

var _ repositories.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository returns a CatalogRepository backed by the given pool.
// When bus is non-nil, SetUnitCost publishes a UnitCostRefreshedEvent in the
// same transaction as the update.
func NewCatalogRepository(database *database.Database, bus *events.Bus) *CatalogRepository {
	return &CatalogRepository{db: database, bus: bus}
}

// GetProduct returns ErrProductNotFound when no row matches ref.
func (r *CatalogRepository) GetProduct(ctx context.Context, ref models.ProductRef) (models.Product, error) {
	row, err := db.New(r.db.DB()).GetProduct(ctx, db.GetProductParams{
		Kind: ref.Kind.String(),
		ID:   ref.ID,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, ref)
		}
		return nil, fmt.Errorf("query product: %w", err)
	}
	return rowToProduct(row)
}

// GetBOMEdges returns the direct component edges of parent.
func (r *CatalogRepository) GetBOMEdges(ctx context.Context, parent models.ProductRef) ([]models.BOMEdge, error) {
	rows, err := db.New(r.db.DB()).ListBOMEdges(ctx, db.ListBOMEdgesParams{
		ParentKind: parent.Kind.String(),
		ParentID:   parent.ID,
	})
	if err != nil {
		return nil, fmt.Errorf("query bom edges: %w", err)
	}
	edges := make([]models.BOMEdge, len(rows))
	for i, row := range rows {
		edges[i] = models.BOMEdge{
			ParentID:        row.ParentID,
			ParentKind:      models.Kind(row.ParentKind),
			ChildID:         row.ChildID,
			ChildKind:       models.Kind(row.ChildKind),
			QuantityPerUnit: row.QuantityPerUnit,
			Unit:            row.Unit,
		}
	}
	return edges, nil
}

// FindProductByBarcode returns the lowest (kind, id) product carrying barcode.
func (r *CatalogRepository) FindProductByBarcode(ctx context.Context, barcode string) (models.Product, error) {
	if barcode == "" {
		return nil, fmt.Errorf("%w: empty barcode", catalogdomain.ErrProductNotFound)
	}
	row, err := db.New(r.db.DB()).FindProductByBarcode(ctx, sql.NullString{String: barcode, Valid: true})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: barcode %q", catalogdomain.ErrProductNotFound, barcode)
		}
		return nil, fmt.Errorf("query product by barcode: %w", err)
	}
	return rowToProduct(row)
}

// FindProductByCode returns ErrProductNotFound when kind has no product with code.
func (r *CatalogRepository) FindProductByCode(ctx context.Context, kind models.Kind, code string) (models.Product, error) {
	row, err := db.New(r.db.DB()).FindProductByCode(ctx, db.FindProductByCodeParams{
		Kind: kind.String(),
		Code: code,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s code %q", catalogdomain.ErrProductNotFound, kind, code)
		}
		return nil, fmt.Errorf("query product by code: %w", err)
	}
	return rowToProduct(row)
}

// ListProducts returns a page of active products of kind ordered by id.
func (r *CatalogRepository) ListProducts(ctx context.Context, kind models.Kind, opts repositories.QueryOpts) ([]models.Product, error) {
	rows, err := db.New(r.db.DB()).ListProducts(ctx, db.ListProductsParams{
		Kind:   kind.String(),
		Limit:  int32(opts.Limit),
		Offset: int32(opts.Offset),
	})
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	products := make([]models.Product, 0, len(rows))
	for _, row := range rows {
		p, err := rowToProduct(row)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, nil
}

// SetUnitCost overwrites the stored unit cost and flips the source to computed.
func (r *CatalogRepository) SetUnitCost(ctx context.Context, ref models.ProductRef, cost float64) error {
	if ref.Kind == models.KindRaw {
		return fmt.Errorf("%w: cannot set unit cost on %s", catalogdomain.ErrInvalidKind, ref)
	}
	return r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		previous, err := q.LockProductCost(ctx, db.LockProductCostParams{Kind: ref.Kind.String(), ID: ref.ID})
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("%w: %s", catalogdomain.ErrProductNotFound, ref)
			}
			return fmt.Errorf("lock product: %w", err)
		}

		if _, err := q.SetUnitCost(ctx, db.SetUnitCostParams{
			Kind:      ref.Kind.String(),
			ID:        ref.ID,
			UnitPrice: cost,
		}); err != nil {
			return fmt.Errorf("update unit cost: %w", err)
		}

		if r.bus != nil {
			if err := r.publishCostRefreshed(ctx, tx, ref, previous, cost); err != nil {
				return fmt.Errorf("publish unit cost refreshed: %w", err)
			}
		}
		return nil
	})
}

// SaveEdge inserts or replaces the edge between parent and child. Constraint
// violations map to ErrInvalidBOMEdge, or ErrProductNotFound for an unknown parent.
func (r *CatalogRepository) SaveEdge(ctx context.Context, edge *models.BOMEdge) error {
	err := db.New(r.db.DB()).UpsertBOMEdge(ctx, db.UpsertBOMEdgeParams{
		ParentID:        edge.ParentID,
		ParentKind:      edge.ParentKind.String(),
		ChildID:         edge.ChildID,
		ChildKind:       edge.ChildKind.String(),
		QuantityPerUnit: edge.QuantityPerUnit,
		Unit:            edge.Unit,
	})
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "23503":
				return fmt.Errorf("%w: parent %s", catalogdomain.ErrProductNotFound, edge.Parent())
			case "23514":
				return fmt.Errorf("%w: %s", catalogdomain.ErrInvalidBOMEdge, pgErr.ConstraintName)
			}
		}
		return fmt.Errorf("upsert bom edge: %w", err)
	}
	return nil
}

// DeleteEdge removes the edge between parent and child if present.
func (r *CatalogRepository) DeleteEdge(ctx context.Context, parent, child models.ProductRef) error {
	if err := db.New(r.db.DB()).DeleteBOMEdge(ctx, db.DeleteBOMEdgeParams{
		ParentKind: parent.Kind.String(),
		ParentID:   parent.ID,
		ChildKind:  child.Kind.String(),
		ChildID:    child.ID,
	}); err != nil {
		return fmt.Errorf("delete bom edge: %w", err)
	}
	return nil
}

func (r *CatalogRepository) publishCostRefreshed(ctx context.Context, tx *sql.Tx, ref models.ProductRef, previous, cost float64) error {
	event := domainevents.UnitCostRefreshedEvent{
		EventID:      uuid.New(),
		Version:      1,
		ProductID:    ref.ID,
		ProductKind:  ref.Kind.String(),
		PreviousCost: previous,
		UnitCost:     cost,
		OccurredAt:   time.Now().UTC(),
	}
	msg, err := events.NewJSONMessage(event.EventID, event.Version, event)
	if err != nil {
		return err
	}
	return r.bus.PublishInTx(ctx, tx, domainevents.TopicUnitCostRefreshed, msg)
}

// rowToProduct maps a db.CatalogProduct to the matching domain variant.
func rowToProduct(row db.CatalogProduct) (models.Product, error) {
	info := models.ProductInfo{
		ID:        row.ID,
		Code:      row.Code,
		Name:      row.Name,
		OnHand:    row.OnHand,
		Unit:      row.Unit,
		Barcode:   row.Barcode.String,
		Active:    row.Active,
		UpdatedAt: row.UpdatedAt,
	}
	p, err := models.NewProduct(models.Kind(row.Kind), info, row.UnitPrice, models.CostSource(row.CostSource))
	if err != nil {
		return nil, fmt.Errorf("map product row: %w", err)
	}
	return p, nil
}

package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/shopfloor/pkg/database"
	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
	"github.com/ghuser/shopfloor/services/production/domain/models"
	"github.com/ghuser/shopfloor/services/production/domain/repositories"
	"github.com/ghuser/shopfloor/services/production/infrastructure/persistence/postgres/db"
)

const liveKeyIndex = "states_live_key_idx"

// ProductionRepository implements repositories.ProductionRepository against PostgreSQL.
type ProductionRepository struct {
	db *database.Database
}

var _ repositories.ProductionRepository = (*ProductionRepository)(nil)

// NewProductionRepository returns a ProductionRepository backed by the given pool.
func NewProductionRepository(database *database.Database) *ProductionRepository {
	return &ProductionRepository{db: database}
}

// Insert stores s and its history. The partial unique index on live keys turns
// a duplicate live start into ErrAlreadyActive even across processes.
func (r *ProductionRepository) Insert(ctx context.Context, s *models.ProductionState) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		if err := q.InsertState(ctx, db.InsertStateParams{
			ID:               s.ID,
			OrderID:          s.OrderID,
			ProductCode:      s.ProductCode,
			ProductName:      s.ProductName,
			TargetQuantity:   int32(s.TargetQuantity),
			ProducedQuantity: int32(s.ProducedQuantity),
			IsActive:         s.IsActive,
			IsCompleted:      s.IsCompleted,
			StartTime:        s.StartTime,
			LastUpdateTime:   s.LastUpdateTime,
			CompletedAt:      nullTime(s),
			OperatorID:       s.Operator.ID,
			OperatorName:     s.Operator.Name,
			Version:          s.Version,
		}); err != nil {
			return err
		}
		return insertHistory(ctx, q, s.ID, s.History)
	})
	if err != nil {
		return mapWriteError(err, s)
	}
	return nil
}

// Update is a conditional write on (id, version). The appended entries are
// inserted in the same transaction.
func (r *ProductionRepository) Update(ctx context.Context, s *models.ProductionState, appended []models.HistoryEntry) error {
	err := r.db.WithTx(ctx, func(tx *sql.Tx) error {
		q := db.New(tx)
		n, err := q.UpdateState(ctx, db.UpdateStateParams{
			ID:               s.ID,
			Version:          s.Version,
			ProducedQuantity: int32(s.ProducedQuantity),
			IsActive:         s.IsActive,
			IsCompleted:      s.IsCompleted,
			LastUpdateTime:   s.LastUpdateTime,
			CompletedAt:      nullTime(s),
		})
		if err != nil {
			return err
		}
		if n == 0 {
			exists, err := q.StateExists(ctx, s.ID)
			if err != nil {
				return fmt.Errorf("check state: %w", err)
			}
			if !exists {
				return fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, s.ID)
			}
			return fmt.Errorf("%w: %s at version %d", productiondomain.ErrConcurrentUpdate, s.ID, s.Version)
		}
		return insertHistory(ctx, q, s.ID, appended)
	})
	if err != nil {
		return mapWriteError(err, s)
	}
	s.Version++
	return nil
}

// Delete removes the state; history rows cascade.
func (r *ProductionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := db.New(r.db.DB()).DeleteState(ctx, id)
	if err != nil {
		return fmt.Errorf("delete state: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, id)
	}
	return nil
}

func (r *ProductionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.ProductionState, error) {
	q := db.New(r.db.DB())
	row, err := q.GetState(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, id)
		}
		return nil, fmt.Errorf("query state: %w", err)
	}
	return r.withHistory(ctx, q, row)
}

func (r *ProductionRepository) FindLive(ctx context.Context, orderID, productCode string) (*models.ProductionState, error) {
	q := db.New(r.db.DB())
	row, err := q.FindLiveState(ctx, db.FindLiveStateParams{OrderID: orderID, ProductCode: productCode})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", productiondomain.ErrProductionNotFound, models.LiveKey(orderID, productCode))
		}
		return nil, fmt.Errorf("query live state: %w", err)
	}
	return r.withHistory(ctx, q, row)
}

func (r *ProductionRepository) ListByOperator(ctx context.Context, operatorID string) ([]*models.ProductionState, error) {
	q := db.New(r.db.DB())
	rows, err := q.ListStatesByOperator(ctx, operatorID)
	if err != nil {
		return nil, fmt.Errorf("query operator states: %w", err)
	}
	states := make([]*models.ProductionState, 0, len(rows))
	for _, row := range rows {
		s, err := r.withHistory(ctx, q, row)
		if err != nil {
			return nil, err
		}
		states = append(states, s)
	}
	return states, nil
}

func (r *ProductionRepository) withHistory(ctx context.Context, q *db.Queries, row db.ProductionState) (*models.ProductionState, error) {
	history, err := q.ListHistory(ctx, row.ID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	return rowToState(row, history), nil
}

func insertHistory(ctx context.Context, q *db.Queries, stateID uuid.UUID, entries []models.HistoryEntry) error {
	for _, h := range entries {
		if err := q.InsertHistory(ctx, db.InsertHistoryParams{
			StateID:      stateID,
			Barcode:      h.Barcode,
			Quantity:     int32(h.Quantity),
			OccurredAt:   h.Timestamp,
			OperatorID:   h.Operator.ID,
			OperatorName: h.Operator.Name,
		}); err != nil {
			return fmt.Errorf("insert history: %w", err)
		}
	}
	return nil
}

// mapWriteError translates constraint violations into domain errors.
func mapWriteError(err error, s *models.ProductionState) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == "23505" && pgErr.ConstraintName == liveKeyIndex:
			return fmt.Errorf("%w: %s", productiondomain.ErrAlreadyActive, s.Key())
		case pgErr.Code == "23514":
			return fmt.Errorf("%w: %s", productiondomain.ErrInvariantViolated, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, productiondomain.ErrProductionNotFound) || errors.Is(err, productiondomain.ErrConcurrentUpdate) {
		return err
	}
	return fmt.Errorf("write state %s: %w", s.ID, err)
}

func nullTime(s *models.ProductionState) sql.NullTime {
	if s.CompletedAt == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *s.CompletedAt, Valid: true}
}

func rowToState(row db.ProductionState, history []db.ProductionHistory) *models.ProductionState {
	s := &models.ProductionState{
		ID:               row.ID,
		OrderID:          row.OrderID,
		ProductCode:      row.ProductCode,
		ProductName:      row.ProductName,
		TargetQuantity:   int(row.TargetQuantity),
		ProducedQuantity: int(row.ProducedQuantity),
		IsActive:         row.IsActive,
		IsCompleted:      row.IsCompleted,
		StartTime:        row.StartTime.UTC(),
		LastUpdateTime:   row.LastUpdateTime.UTC(),
		Operator:         models.Operator{ID: row.OperatorID, Name: row.OperatorName},
		History:          make([]models.HistoryEntry, len(history)),
		Version:          row.Version,
	}
	if row.CompletedAt.Valid {
		t := row.CompletedAt.Time.UTC()
		s.CompletedAt = &t
	}
	for i, h := range history {
		s.History[i] = models.HistoryEntry{
			Barcode:   h.Barcode,
			Quantity:  int(h.Quantity),
			Timestamp: h.OccurredAt.UTC(),
			Operator:  models.Operator{ID: h.OperatorID, Name: h.OperatorName},
		}
	}
	return s
}

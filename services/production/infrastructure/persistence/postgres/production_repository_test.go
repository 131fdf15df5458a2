package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/ghuser/shopfloor/pkg/config"
	"github.com/ghuser/shopfloor/pkg/database"
	"github.com/ghuser/shopfloor/pkg/logger"
	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
	"github.com/ghuser/shopfloor/services/production/domain/models"
	"github.com/ghuser/shopfloor/services/production/infrastructure/persistence/postgres/db"
)

var op = models.Operator{ID: "op-1", Name: "Ada"}

func TestRowToState(t *testing.T) {
	now := time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
	id := uuid.New()
	row := db.ProductionState{
		ID: id, OrderID: "ORD-1", ProductCode: "CAB", TargetQuantity: 2, ProducedQuantity: 2,
		IsCompleted: true, StartTime: now, LastUpdateTime: now,
		CompletedAt: sql.NullTime{Time: now, Valid: true}, OperatorID: "op-1", OperatorName: "Ada", Version: 4,
	}
	history := []db.ProductionHistory{{StateID: id, Barcode: "CAB", Quantity: 2, OccurredAt: now, OperatorID: "op-1"}}

	s := rowToState(row, history)
	if s.CompletedAt == nil || !s.CompletedAt.Equal(now) || s.Version != 4 || len(s.History) != 1 {
		t.Fatalf("unexpected state: %+v", s)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("mapped state breaks invariants: %v", err)
	}
}

func TestMapWriteError(t *testing.T) {
	s, err := models.NewProductionState("ORD-1", "CAB", "Cabinet", 5, op, time.Now())
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"live key conflict", &pgconn.PgError{Code: "23505", ConstraintName: liveKeyIndex}, productiondomain.ErrAlreadyActive},
		{"check violation", &pgconn.PgError{Code: "23514", ConstraintName: "states_produced_range"}, productiondomain.ErrInvariantViolated},
		{"stale version", fmt.Errorf("%w: x", productiondomain.ErrConcurrentUpdate), productiondomain.ErrConcurrentUpdate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := mapWriteError(tt.err, s); !errors.Is(got, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}

	other := &pgconn.PgError{Code: "23505", ConstraintName: "states_pkey"}
	if got := mapWriteError(other, s); errors.Is(got, productiondomain.ErrAlreadyActive) {
		t.Fatal("primary key conflicts are not live-key conflicts")
	}
}

// Integration tests: skipped unless DATABASE_URL is set. Expects the
// production migrations to have been applied.
func TestProductionRepositoryIntegration(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration tests")
	}

	ctx := context.Background()
	pool, err := database.NewPool(ctx, dsn, logger.New(&config.Config{LogLevel: "error"}))
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	repo := NewProductionRepository(pool)
	orderID := "IT-" + uuid.NewString()
	t.Cleanup(func() {
		_, _ = pool.DB().ExecContext(ctx, `DELETE FROM production.states WHERE order_id = $1`, orderID)
	})

	s, err := models.NewProductionState(orderID, "CAB", "Cabinet", 10, op, time.Now())
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	if err := repo.Insert(ctx, s); err != nil {
		t.Fatalf("insert: %v", err)
	}

	t.Run("DuplicateLiveKey", func(t *testing.T) {
		dup, _ := models.NewProductionState(orderID, "CAB", "Cabinet", 10, op, time.Now())
		if err := repo.Insert(ctx, dup); !errors.Is(err, productiondomain.ErrAlreadyActive) {
			t.Fatalf("expected ErrAlreadyActive, got %v", err)
		}
	})

	t.Run("UpdateAppendsHistory", func(t *testing.T) {
		entry, err := s.Confirm("CAB", 7, op, time.Now())
		if err != nil {
			t.Fatalf("confirm: %v", err)
		}
		if err := repo.Update(ctx, s, []models.HistoryEntry{entry}); err != nil {
			t.Fatalf("update: %v", err)
		}
		got, err := repo.FindLive(ctx, orderID, "CAB")
		if err != nil {
			t.Fatalf("find live: %v", err)
		}
		if got.ProducedQuantity != 7 || len(got.History) != 1 || got.Version != s.Version {
			t.Fatalf("unexpected stored state: %+v", got)
		}
	})

	t.Run("StaleVersion", func(t *testing.T) {
		stale := s.Clone()
		stale.Version--
		if err := repo.Update(ctx, stale, nil); !errors.Is(err, productiondomain.ErrConcurrentUpdate) {
			t.Fatalf("expected ErrConcurrentUpdate, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := repo.Delete(ctx, s.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := repo.GetByID(ctx, s.ID); !errors.Is(err, productiondomain.ErrProductionNotFound) {
			t.Fatalf("expected ErrProductionNotFound, got %v", err)
		}
	})
}

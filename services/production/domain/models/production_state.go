package models

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
)

// ManualEntry is recorded as the barcode of a history entry created by a
// manual quantity entry instead of a scan.
const ManualEntry = "manual"

// Operator identifies who owns or acted on a production state.
type Operator struct {
	ID   string
	Name string
}

// Valid reports whether the operator carries an id.
func (o Operator) Valid() bool {
	return strings.TrimSpace(o.ID) != ""
}

// HistoryEntry is one accepted confirmation. History is append-only.
type HistoryEntry struct {
	Barcode   string
	Quantity  int
	Timestamp time.Time
	Operator  Operator
}

// IsManual reports whether the entry came from manual quantity entry.
func (h HistoryEntry) IsManual() bool {
	return h.Barcode == ManualEntry
}

// Status is the lifecycle position derived from the active/completed flags.
type Status string

const (
	StatusActive    Status = "active"
	StatusPaused    Status = "paused"
	StatusCompleted Status = "completed"
)

// ProductionState is one production attempt for an (order, product) pair,
// owned by one operator.
type ProductionState struct {
	ID               uuid.UUID
	OrderID          string
	ProductCode      string
	ProductName      string
	TargetQuantity   int
	ProducedQuantity int
	IsActive         bool
	IsCompleted      bool
	StartTime        time.Time
	LastUpdateTime   time.Time
	CompletedAt      *time.Time
	Operator         Operator
	History          []HistoryEntry
	// Version is the optimistic concurrency token; every persisted write bumps it.
	Version int64
}

// LiveKey builds the "orderID-productCode" key that identifies at most one
// live state.
func LiveKey(orderID, productCode string) string {
	return orderID + "-" + productCode
}

// MaxQuantity bounds target and produced quantities; they are stored as int4.
const MaxQuantity = math.MaxInt32

// NewProductionState returns a fresh active state with nothing produced.
func NewProductionState(orderID, productCode, productName string, target int, op Operator, now time.Time) (*ProductionState, error) {
	if strings.TrimSpace(orderID) == "" || strings.TrimSpace(productCode) == "" {
		return nil, fmt.Errorf("%w: order id and product code are required", productiondomain.ErrInvalidKey)
	}
	if target <= 0 || target > MaxQuantity {
		return nil, fmt.Errorf("%w: target quantity must be within 1..%d, got %d", productiondomain.ErrInvalidQuantity, MaxQuantity, target)
	}
	if !op.Valid() {
		return nil, fmt.Errorf("%w: operator id is required", productiondomain.ErrInvalidOperator)
	}
	now = now.UTC()
	return &ProductionState{
		ID:             uuid.New(),
		OrderID:        orderID,
		ProductCode:    productCode,
		ProductName:    productName,
		TargetQuantity: target,
		IsActive:       true,
		StartTime:      now,
		LastUpdateTime: now,
		Operator:       op,
		History:        []HistoryEntry{},
		Version:        1,
	}, nil
}

// Key returns the live key of the state.
func (s *ProductionState) Key() string {
	return LiveKey(s.OrderID, s.ProductCode)
}

// Remaining is the quantity still allowed before the target is reached.
func (s *ProductionState) Remaining() int {
	return s.TargetQuantity - s.ProducedQuantity
}

// IsLive reports whether the state still accepts confirmations.
func (s *ProductionState) IsLive() bool {
	return s.IsActive && !s.IsCompleted
}

// Status maps the flags to a lifecycle name. Paused is an open state with
// partial output and is not stored separately.
func (s *ProductionState) Status() Status {
	switch {
	case s.IsCompleted:
		return StatusCompleted
	case s.ProducedQuantity > 0 && s.ProducedQuantity < s.TargetQuantity:
		return StatusPaused
	default:
		return StatusActive
	}
}

// Confirm adds delta produced units and appends one history entry.
// On error the state is left unchanged.
func (s *ProductionState) Confirm(barcode string, delta int, op Operator, now time.Time) (HistoryEntry, error) {
	if s.IsCompleted {
		return HistoryEntry{}, fmt.Errorf("%w: %s", productiondomain.ErrProductionCompleted, s.ID)
	}
	if delta <= 0 {
		return HistoryEntry{}, fmt.Errorf("%w: delta must be positive, got %d", productiondomain.ErrInvalidQuantity, delta)
	}
	if delta > s.Remaining() {
		return HistoryEntry{}, fmt.Errorf("%w: delta %d, remaining %d", productiondomain.ErrQuantityExceedsTarget, delta, s.Remaining())
	}
	now = now.UTC()
	entry := HistoryEntry{Barcode: barcode, Quantity: delta, Timestamp: now, Operator: op}
	s.ProducedQuantity += delta
	s.History = append(s.History, entry)
	s.LastUpdateTime = now
	return entry, nil
}

// Complete closes the state. Produced quantity must equal the target.
func (s *ProductionState) Complete(now time.Time) error {
	if s.IsCompleted {
		return fmt.Errorf("%w: %s", productiondomain.ErrProductionCompleted, s.ID)
	}
	if s.ProducedQuantity != s.TargetQuantity {
		return fmt.Errorf("%w: produced %d of %d", productiondomain.ErrTargetNotReached, s.ProducedQuantity, s.TargetQuantity)
	}
	now = now.UTC()
	s.IsActive = false
	s.IsCompleted = true
	s.CompletedAt = &now
	s.LastUpdateTime = now
	return nil
}

// CheckInvariants verifies 0 <= produced <= target, completed implies
// produced == target, and that completion and activity are exclusive.
func (s *ProductionState) CheckInvariants() error {
	switch {
	case s.TargetQuantity <= 0:
		return fmt.Errorf("%w: target %d", productiondomain.ErrInvariantViolated, s.TargetQuantity)
	case s.ProducedQuantity < 0 || s.ProducedQuantity > s.TargetQuantity:
		return fmt.Errorf("%w: produced %d outside [0, %d]", productiondomain.ErrInvariantViolated, s.ProducedQuantity, s.TargetQuantity)
	case s.IsCompleted && s.ProducedQuantity != s.TargetQuantity:
		return fmt.Errorf("%w: completed with %d of %d", productiondomain.ErrInvariantViolated, s.ProducedQuantity, s.TargetQuantity)
	case s.IsCompleted && (s.IsActive || s.CompletedAt == nil):
		return fmt.Errorf("%w: completed state must be inactive with a completion time", productiondomain.ErrInvariantViolated)
	case !s.IsCompleted && s.CompletedAt != nil:
		return fmt.Errorf("%w: completion time set on open state", productiondomain.ErrInvariantViolated)
	}
	sum := 0
	for _, h := range s.History {
		sum += h.Quantity
	}
	if sum != s.ProducedQuantity {
		return fmt.Errorf("%w: history sums to %d, produced %d", productiondomain.ErrInvariantViolated, sum, s.ProducedQuantity)
	}
	return nil
}

// Clone returns a deep copy so callers can mutate without touching shared state.
func (s *ProductionState) Clone() *ProductionState {
	c := *s
	c.History = append([]HistoryEntry(nil), s.History...)
	if c.History == nil {
		c.History = []HistoryEntry{}
	}
	if s.CompletedAt != nil {
		t := *s.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}

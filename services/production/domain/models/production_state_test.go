package models

import (
	"errors"
	"testing"
	"time"

	productiondomain "github.com/ghuser/shopfloor/services/production/domain"
)

var (
	ada = Operator{ID: "op-1", Name: "Ada"}
	t0  = time.Date(2025, 3, 1, 8, 0, 0, 0, time.UTC)
)

func newState(t *testing.T, target int) *ProductionState {
	t.Helper()
	s, err := NewProductionState("ORD-1", "CAB", "Cabinet", target, ada, t0)
	if err != nil {
		t.Fatalf("new state: %v", err)
	}
	return s
}

func TestNewProductionState(t *testing.T) {
	tests := []struct {
		name    string
		order   string
		code    string
		target  int
		op      Operator
		wantErr error
	}{
		{"valid", "ORD-1", "CAB", 10, ada, nil},
		{"zero target", "ORD-1", "CAB", 0, ada, productiondomain.ErrInvalidQuantity},
		{"negative target", "ORD-1", "CAB", -3, ada, productiondomain.ErrInvalidQuantity},
		{"largest storable target", "ORD-1", "CAB", MaxQuantity, ada, nil},
		{"target beyond int4", "ORD-1", "CAB", 1<<32 + 10, ada, productiondomain.ErrInvalidQuantity},
		{"missing order", "", "CAB", 10, ada, productiondomain.ErrInvalidKey},
		{"missing code", "ORD-1", " ", 10, ada, productiondomain.ErrInvalidKey},
		{"missing operator", "ORD-1", "CAB", 10, Operator{Name: "nobody"}, productiondomain.ErrInvalidOperator},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewProductionState(tt.order, tt.code, "Cabinet", tt.target, tt.op, t0)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !s.IsLive() || s.ProducedQuantity != 0 || len(s.History) != 0 || s.CompletedAt != nil {
				t.Fatalf("unexpected fresh state: %+v", s)
			}
			if s.Key() != "ORD-1-CAB" {
				t.Fatalf("key = %q", s.Key())
			}
			if err := s.CheckInvariants(); err != nil {
				t.Fatalf("fresh state breaks invariants: %v", err)
			}
		})
	}
}

func TestConfirm(t *testing.T) {
	s := newState(t, 10)

	if _, err := s.Confirm("CAB", 7, ada, t0.Add(time.Minute)); err != nil {
		t.Fatalf("confirm 7: %v", err)
	}
	if s.Remaining() != 3 || s.Status() != StatusPaused {
		t.Fatalf("remaining %d status %s", s.Remaining(), s.Status())
	}

	before := s.Clone()
	if _, err := s.Confirm("CAB", 5, ada, t0.Add(2*time.Minute)); !errors.Is(err, productiondomain.ErrQuantityExceedsTarget) {
		t.Fatalf("expected ErrQuantityExceedsTarget, got %v", err)
	}
	if s.ProducedQuantity != before.ProducedQuantity || len(s.History) != len(before.History) || !s.LastUpdateTime.Equal(before.LastUpdateTime) {
		t.Fatal("rejected confirm must leave the state unchanged")
	}

	entry, err := s.Confirm(ManualEntry, 3, ada, t0.Add(3*time.Minute))
	if err != nil {
		t.Fatalf("confirm 3: %v", err)
	}
	if !entry.IsManual() || s.ProducedQuantity != 10 || len(s.History) != 2 {
		t.Fatalf("unexpected state after manual entry: %+v", s)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}
}

func TestConfirm_InvalidDelta(t *testing.T) {
	for _, delta := range []int{0, -1} {
		s := newState(t, 10)
		if _, err := s.Confirm("CAB", delta, ada, t0); !errors.Is(err, productiondomain.ErrInvalidQuantity) {
			t.Fatalf("delta %d: expected ErrInvalidQuantity, got %v", delta, err)
		}
	}
}

func TestComplete(t *testing.T) {
	s := newState(t, 2)

	if err := s.Complete(t0); !errors.Is(err, productiondomain.ErrTargetNotReached) {
		t.Fatalf("expected ErrTargetNotReached, got %v", err)
	}
	if _, err := s.Confirm("CAB", 2, ada, t0); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	done := t0.Add(time.Hour)
	if err := s.Complete(done); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if s.IsActive || !s.IsCompleted || s.CompletedAt == nil || !s.CompletedAt.Equal(done) || s.Status() != StatusCompleted {
		t.Fatalf("unexpected completed state: %+v", s)
	}
	if err := s.CheckInvariants(); err != nil {
		t.Fatalf("invariants: %v", err)
	}

	if err := s.Complete(done); !errors.Is(err, productiondomain.ErrProductionCompleted) {
		t.Fatalf("expected ErrProductionCompleted on second complete, got %v", err)
	}
	if _, err := s.Confirm("CAB", 1, ada, done); !errors.Is(err, productiondomain.ErrProductionCompleted) {
		t.Fatalf("expected ErrProductionCompleted on confirm, got %v", err)
	}
}

func TestCheckInvariants(t *testing.T) {
	completedAt := t0
	tests := []struct {
		name   string
		mutate func(s *ProductionState)
	}{
		{"over target", func(s *ProductionState) { s.ProducedQuantity = 11 }},
		{"negative", func(s *ProductionState) { s.ProducedQuantity = -1 }},
		{"completed short", func(s *ProductionState) { s.IsCompleted, s.IsActive, s.CompletedAt = true, false, &completedAt }},
		{"completed and active", func(s *ProductionState) {
			s.ProducedQuantity = 10
			s.History = []HistoryEntry{{Quantity: 10}}
			s.IsCompleted, s.CompletedAt = true, &completedAt
		}},
		{"history mismatch", func(s *ProductionState) { s.ProducedQuantity = 4 }},
		{"completion time on open state", func(s *ProductionState) { s.CompletedAt = &completedAt }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newState(t, 10)
			tt.mutate(s)
			if err := s.CheckInvariants(); !errors.Is(err, productiondomain.ErrInvariantViolated) {
				t.Fatalf("expected ErrInvariantViolated, got %v", err)
			}
		})
	}
}

func TestClone_IsDeep(t *testing.T) {
	s := newState(t, 5)
	if _, err := s.Confirm("CAB", 1, ada, t0); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	c := s.Clone()
	c.History[0].Quantity = 99
	if s.History[0].Quantity != 1 {
		t.Fatal("clone shares history with the original")
	}
}

func TestOrder_Line(t *testing.T) {
	o := &Order{ID: "ORD-1", ProductDetails: []OrderLine{{Code: "CAB", Name: "Cabinet", Quantity: 10}}}
	if l, ok := o.Line("CAB"); !ok || l.Quantity != 10 {
		t.Fatalf("unexpected line: %+v %v", l, ok)
	}
	if _, ok := o.Line("NOPE"); ok {
		t.Fatal("expected no line for unknown code")
	}
}

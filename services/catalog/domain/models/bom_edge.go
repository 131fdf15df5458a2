package models

import (
	"fmt"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
)

// BOMEdge is a directed parent→child component relation: one unit of the
// parent consumes QuantityPerUnit of the child.
type BOMEdge struct {
	ParentID        int64
	ParentKind      Kind
	ChildID         int64
	ChildKind       Kind
	QuantityPerUnit float64
	Unit            string
}

// Parent returns the parent's (id, kind) key.
func (e BOMEdge) Parent() ProductRef {
	return ProductRef{ID: e.ParentID, Kind: e.ParentKind}
}

// Child returns the child's (id, kind) key.
func (e BOMEdge) Child() ProductRef {
	return ProductRef{ID: e.ChildID, Kind: e.ChildKind}
}

// NewBOMEdge constructs a structurally valid edge.
//
// Rules:
//   - parent must be semi-finished or final
//   - child must be raw or semi-finished
//   - parent and child must differ by id or by kind (same id across kinds is allowed)
//   - quantity per unit must be positive
func NewBOMEdge(parent, child ProductRef, qtyPerUnit float64, unit string) (*BOMEdge, error) {
	if parent.Kind != KindSemiFinished && parent.Kind != KindFinal {
		return nil, fmt.Errorf("%w: parent kind %q cannot have components", catalogdomain.ErrInvalidBOMEdge, parent.Kind)
	}
	if child.Kind != KindRaw && child.Kind != KindSemiFinished {
		return nil, fmt.Errorf("%w: child kind %q cannot be a component", catalogdomain.ErrInvalidBOMEdge, child.Kind)
	}
	if parent == child {
		return nil, fmt.Errorf("%w: %s", catalogdomain.ErrSelfReference, parent)
	}
	if qtyPerUnit <= 0 {
		return nil, fmt.Errorf("%w: quantity per unit must be positive, got %v", catalogdomain.ErrInvalidBOMEdge, qtyPerUnit)
	}
	return &BOMEdge{
		ParentID:        parent.ID,
		ParentKind:      parent.Kind,
		ChildID:         child.ID,
		ChildKind:       child.Kind,
		QuantityPerUnit: qtyPerUnit,
		Unit:            unit,
	}, nil
}

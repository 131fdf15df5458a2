package models

import (
	"errors"
	"testing"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
)

func TestNewBOMEdge(t *testing.T) {
	semi1 := ProductRef{ID: 1, Kind: KindSemiFinished}
	raw1 := ProductRef{ID: 1, Kind: KindRaw}
	final1 := ProductRef{ID: 1, Kind: KindFinal}
	raw2 := ProductRef{ID: 2, Kind: KindRaw}

	tests := []struct {
		name    string
		parent  ProductRef
		child   ProductRef
		qty     float64
		wantErr error
	}{
		{"semi to raw", semi1, raw2, 2, nil},
		{"final to semi", final1, semi1, 3, nil},
		{"same id different kind is allowed", semi1, raw1, 1, nil},
		{"self reference", semi1, semi1, 1, catalogdomain.ErrSelfReference},
		{"raw parent", raw1, raw2, 1, catalogdomain.ErrInvalidBOMEdge},
		{"final child", semi1, final1, 1, catalogdomain.ErrInvalidBOMEdge},
		{"zero quantity", semi1, raw2, 0, catalogdomain.ErrInvalidBOMEdge},
		{"negative quantity", semi1, raw2, -1, catalogdomain.ErrInvalidBOMEdge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			edge, err := NewBOMEdge(tt.parent, tt.child, tt.qty, "pcs")
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if edge.Parent() != tt.parent || edge.Child() != tt.child {
				t.Fatalf("edge endpoints mismatch: %+v", edge)
			}
			if edge.QuantityPerUnit != tt.qty {
				t.Fatalf("expected qty %v, got %v", tt.qty, edge.QuantityPerUnit)
			}
		})
	}
}

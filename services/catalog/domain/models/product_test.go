package models

import (
	"errors"
	"testing"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"raw", KindRaw, false},
		{"semiFinished", KindSemiFinished, false},
		{"final", KindFinal, false},
		{"semi", "", true},
		{"", "", true},
		{"RAW", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v, wantErr = %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, catalogdomain.ErrInvalidKind) {
				t.Fatalf("expected ErrInvalidKind, got %v", err)
			}
			if got != tt.want {
				t.Fatalf("ParseKind(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewProduct_Variants(t *testing.T) {
	info := ProductInfo{ID: 7, Code: "P-7", Name: "Panel"}

	t.Run("raw uses purchase price", func(t *testing.T) {
		p, err := NewProduct(KindRaw, info, 12.5, CostSourceManual)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		raw, ok := p.(RawMaterial)
		if !ok {
			t.Fatalf("expected RawMaterial, got %T", p)
		}
		if raw.UnitPrice() != 12.5 || raw.Kind() != KindRaw {
			t.Fatalf("unexpected raw material: %+v", raw)
		}
	})

	t.Run("semi-finished keeps cost source", func(t *testing.T) {
		p, err := NewProduct(KindSemiFinished, info, 30, CostSourceComputed)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		semi, ok := p.(SemiFinished)
		if !ok {
			t.Fatalf("expected SemiFinished, got %T", p)
		}
		if semi.CostSource != CostSourceComputed || semi.UnitPrice() != 30 {
			t.Fatalf("unexpected semi-finished: %+v", semi)
		}
	})

	t.Run("final", func(t *testing.T) {
		p, err := NewProduct(KindFinal, info, 99, CostSourceManual)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := p.(FinalProduct); !ok {
			t.Fatalf("expected FinalProduct, got %T", p)
		}
		if Ref(p) != (ProductRef{ID: 7, Kind: KindFinal}) {
			t.Fatalf("unexpected ref %v", Ref(p))
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := NewProduct("widget", info, 1, CostSourceManual); !errors.Is(err, catalogdomain.ErrInvalidKind) {
			t.Fatalf("expected ErrInvalidKind, got %v", err)
		}
	})
}

func TestProductRef_String(t *testing.T) {
	if got := (ProductRef{ID: 3, Kind: KindSemiFinished}).String(); got != "semiFinished/3" {
		t.Fatalf("unexpected ref string %q", got)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
)

type fakeCatalog map[string]string

func (f fakeCatalog) ProductCodeForBarcode(_ context.Context, barcode string) (string, bool, error) {
	code, ok := f[barcode]
	return code, ok, nil
}

type failingCatalog struct{}

func (failingCatalog) ProductCodeForBarcode(context.Context, string) (string, bool, error) {
	return "", false, errors.New("connection refused")
}

type table map[string]string

func (t table) Expected(code string) (string, bool) {
	b, ok := t[code]
	return b, ok
}

func TestBarcodeValidator_Tiers(t *testing.T) {
	catalog := fakeCatalog{"8690000000011": "CAB-01", "8690000000028": "DESK-01"}
	static := table{"PANEL-9": "123", "CAB-01": "999"}
	v := NewDefaultBarcodeValidator(catalog, static)

	tests := []struct {
		name     string
		barcode  string
		code     string
		accepted bool
		tier     string
	}{
		{"live lookup wins over static table", "8690000000011", "CAB-01", true, TierLiveLookup},
		{"live mismatch falls through to static reject", "8690000000028", "CAB-01", false, TierStaticMapping},
		{"static exact", "123", "PANEL-9", true, TierStaticMapping},
		{"static entry rejects other code", "456", "PANEL-9", false, TierStaticMapping},
		{"static entry rejects the product code itself", "PANEL-9", "PANEL-9", false, TierStaticMapping},
		{"exact match", "BOLT-7", "BOLT-7", true, TierExactMatch},
		{"normalized match", " bolt_7\n", "BOLT-7", true, TierNormalizedMatch},
		{"alphanumeric scanner prefix is kept", "]c1bolt 7\n", "BOLT-7", false, TierNone},
		{"no tier accepts", "XYZ", "BOLT-7", false, TierNone},
		{"empty barcode", "", "", false, TierNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := v.Validate(context.Background(), tt.barcode, tt.code)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Accepted != tt.accepted || d.Tier != tt.tier {
				t.Fatalf("got %+v, want accepted=%v tier=%s", d, tt.accepted, tt.tier)
			}
		})
	}
}

func TestBarcodeValidator_LookupErrorAbstains(t *testing.T) {
	v := NewDefaultBarcodeValidator(failingCatalog{}, nil)

	d, err := v.Validate(context.Background(), "BOLT-7", "BOLT-7")
	if !d.Accepted || d.Tier != TierExactMatch {
		t.Fatalf("expected exact match to decide, got %+v", d)
	}
	if err == nil {
		t.Fatal("expected the lookup error to be reported")
	}
}

func TestBarcodeValidator_NilSources(t *testing.T) {
	v := NewDefaultBarcodeValidator(nil, nil)
	if d, _ := v.Validate(context.Background(), "a-b-c", "ABC"); !d.Accepted {
		t.Fatalf("expected normalized accept, got %+v", d)
	}
}

func TestNormalize(t *testing.T) {
	tests := map[string]string{
		"":            "",
		"abc-123":     "ABC123",
		" A_b.C/9 ":   "ABC9",
		"ÇAB-01":      "AB01",
		"\x1d0101234": "0101234",
		"]c1bolt 7":   "C1BOLT7",
	}
	for in, want := range tests {
		if got := Normalize(in); got != want {
			t.Fatalf("Normalize(%q) = %q, want %q", in, got, want)
		}
	}
}

// Package services contains domain services for the production bounded context.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ghuser/shopfloor/services/production/domain/repositories"
)

// Verdict is one strategy's opinion on a scan.
type Verdict int

const (
	// Abstain passes the decision to the next strategy.
	Abstain Verdict = iota
	Accept
	// Reject is final; later strategies are not consulted.
	Reject
)

func (v Verdict) String() string {
	switch v {
	case Accept:
		return "accept"
	case Reject:
		return "reject"
	default:
		return "abstain"
	}
}

// Tier names reported on Decision.
const (
	TierLiveLookup      = "live_lookup"
	TierStaticMapping   = "static_mapping"
	TierExactMatch      = "exact_match"
	TierNormalizedMatch = "normalized_match"
	TierNone            = "none"
)

// BarcodeStrategy is one tier of the validator.
type BarcodeStrategy interface {
	Name() string
	Evaluate(ctx context.Context, barcode, productCode string) (Verdict, error)
}

// Decision is the validator's answer together with the tier that produced it.
type Decision struct {
	Accepted bool
	Tier     string
}

// BarcodeValidator runs its strategies in order and stops at the first
// Accept or Reject. If every strategy abstains the scan is rejected.
type BarcodeValidator struct {
	strategies []BarcodeStrategy
}

// NewBarcodeValidator returns a validator over strategies, in priority order.
func NewBarcodeValidator(strategies ...BarcodeStrategy) *BarcodeValidator {
	return &BarcodeValidator{strategies: strategies}
}

// NewDefaultBarcodeValidator wires the four standard tiers: live catalog
// lookup, static mapping, exact match, normalized match. Either source may be nil.
func NewDefaultBarcodeValidator(catalog repositories.BarcodeCatalog, table MappingTable) *BarcodeValidator {
	var strategies []BarcodeStrategy
	if catalog != nil {
		strategies = append(strategies, LiveLookup{Catalog: catalog})
	}
	if table != nil {
		strategies = append(strategies, StaticMapping{Table: table})
	}
	strategies = append(strategies, ExactMatch{}, NormalizedMatch{})
	return NewBarcodeValidator(strategies...)
}

// Validate decides whether barcode authorizes productCode. A strategy error
// counts as an abstention; the errors are returned joined next to the decision
// so callers can log them without failing the scan.
func (v *BarcodeValidator) Validate(ctx context.Context, barcode, productCode string) (Decision, error) {
	var errs []error
	for _, s := range v.strategies {
		verdict, err := s.Evaluate(ctx, barcode, productCode)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
			continue
		}
		switch verdict {
		case Accept:
			return Decision{Accepted: true, Tier: s.Name()}, errors.Join(errs...)
		case Reject:
			return Decision{Accepted: false, Tier: s.Name()}, errors.Join(errs...)
		}
	}
	return Decision{Accepted: false, Tier: TierNone}, errors.Join(errs...)
}

// LiveLookup accepts when the catalog product carrying the barcode has the
// expected code. Unknown barcodes and mismatches abstain.
type LiveLookup struct {
	Catalog repositories.BarcodeCatalog
}

func (LiveLookup) Name() string { return TierLiveLookup }

func (l LiveLookup) Evaluate(ctx context.Context, barcode, productCode string) (Verdict, error) {
	code, found, err := l.Catalog.ProductCodeForBarcode(ctx, barcode)
	if err != nil {
		return Abstain, err
	}
	if found && code == productCode {
		return Accept, nil
	}
	return Abstain, nil
}

// MappingTable holds productCode -> expected barcode overrides.
type MappingTable interface {
	Expected(productCode string) (barcode string, ok bool)
}

// StaticMapping accepts an exact match against the table entry and rejects
// anything else for a product that has an entry.
type StaticMapping struct {
	Table MappingTable
}

func (StaticMapping) Name() string { return TierStaticMapping }

func (m StaticMapping) Evaluate(_ context.Context, barcode, productCode string) (Verdict, error) {
	expected, ok := m.Table.Expected(productCode)
	if !ok {
		return Abstain, nil
	}
	if barcode == expected {
		return Accept, nil
	}
	return Reject, nil
}

// ExactMatch accepts products barcoded with their own code.
type ExactMatch struct{}

func (ExactMatch) Name() string { return TierExactMatch }

func (ExactMatch) Evaluate(_ context.Context, barcode, productCode string) (Verdict, error) {
	if barcode != "" && barcode == productCode {
		return Accept, nil
	}
	return Abstain, nil
}

// NormalizedMatch compares after Normalize, tolerating scanner prefixes,
// separators and case.
type NormalizedMatch struct{}

func (NormalizedMatch) Name() string { return TierNormalizedMatch }

func (NormalizedMatch) Evaluate(_ context.Context, barcode, productCode string) (Verdict, error) {
	n := Normalize(barcode)
	if n != "" && n == Normalize(productCode) {
		return Accept, nil
	}
	return Abstain, nil
}

// Normalize drops every character outside [A-Za-z0-9] and uppercases the rest.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= '0' && c <= '9', c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		case c >= 'a' && c <= 'z':
			b.WriteByte(c - 'a' + 'A')
		}
	}
	return b.String()
}

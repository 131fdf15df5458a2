package models

import (
	"fmt"
	"time"

	catalogdomain "github.com/ghuser/shopfloor/services/catalog/domain"
)

// Kind discriminates the three product classes. Product ids are only unique
// within a kind, so every lookup key carries both.
type Kind string

const (
	KindRaw          Kind = "raw"
	KindSemiFinished Kind = "semiFinished"
	KindFinal        Kind = "final"
)

// ParseKind validates s against the known kinds.
func ParseKind(s string) (Kind, error) {
	switch k := Kind(s); k {
	case KindRaw, KindSemiFinished, KindFinal:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", catalogdomain.ErrInvalidKind, s)
	}
}

// String returns the underlying string value.
func (k Kind) String() string {
	return string(k)
}

// ProductRef identifies a product across kinds.
type ProductRef struct {
	ID   int64
	Kind Kind
}

// String renders the ref as "kind/id".
func (r ProductRef) String() string {
	return fmt.Sprintf("%s/%d", r.Kind, r.ID)
}

// CostSource records where a semi-finished or final product's unit cost came from.
type CostSource string

const (
	CostSourceManual   CostSource = "manual"
	CostSourceComputed CostSource = "computed"
)

// ProductInfo holds the fields every product kind shares.
type ProductInfo struct {
	ID        int64
	Code      string
	Name      string
	OnHand    float64
	Unit      string
	Barcode   string // empty when the product has no dedicated barcode
	Active    bool
	UpdatedAt time.Time
}

// Product is the sum type RawMaterial | SemiFinished | FinalProduct.
// The unexported marker keeps the set of variants closed to this package.
type Product interface {
	Kind() Kind
	Info() ProductInfo
	// UnitPrice is the per-unit price a parent BOM would use for this product
	// when it is not recomputed: purchase price for raw materials, stored unit
	// cost for the other kinds.
	UnitPrice() float64
	isProduct()
}

// Ref returns the (id, kind) key of p.
func Ref(p Product) ProductRef {
	return ProductRef{ID: p.Info().ID, Kind: p.Kind()}
}

// RawMaterial is a purchased BOM leaf.
type RawMaterial struct {
	ProductInfo
	PurchasePrice float64
}

func (RawMaterial) Kind() Kind           { return KindRaw }
func (r RawMaterial) Info() ProductInfo  { return r.ProductInfo }
func (r RawMaterial) UnitPrice() float64 { return r.PurchasePrice }
func (RawMaterial) isProduct()           {}

// SemiFinished is an intermediate assembly; its cost is either entered
// manually or derived from its BOM.
type SemiFinished struct {
	ProductInfo
	UnitCost   float64
	CostSource CostSource
}

func (SemiFinished) Kind() Kind           { return KindSemiFinished }
func (s SemiFinished) Info() ProductInfo  { return s.ProductInfo }
func (s SemiFinished) UnitPrice() float64 { return s.UnitCost }
func (SemiFinished) isProduct()           {}

// FinalProduct is a sellable BOM root.
type FinalProduct struct {
	ProductInfo
	UnitCost   float64
	CostSource CostSource
}

func (FinalProduct) Kind() Kind           { return KindFinal }
func (f FinalProduct) Info() ProductInfo  { return f.ProductInfo }
func (f FinalProduct) UnitPrice() float64 { return f.UnitCost }
func (FinalProduct) isProduct()           {}

// NewProduct builds the variant matching kind. cost is the purchase price for
// raw materials and the stored unit cost otherwise; source is ignored for raw.
func NewProduct(kind Kind, info ProductInfo, cost float64, source CostSource) (Product, error) {
	switch kind {
	case KindRaw:
		return RawMaterial{ProductInfo: info, PurchasePrice: cost}, nil
	case KindSemiFinished:
		return SemiFinished{ProductInfo: info, UnitCost: cost, CostSource: source}, nil
	case KindFinal:
		return FinalProduct{ProductInfo: info, UnitCost: cost, CostSource: source}, nil
	default:
		return nil, fmt.Errorf("%w: %q", catalogdomain.ErrInvalidKind, kind)
	}
}

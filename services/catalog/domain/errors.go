package domain

import "errors"

// Sentinel errors for the catalog domain. Use errors.Is() to check these.
var (
	// ErrProductNotFound indicates no product exists for the (id, kind) pair or barcode.
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidKind indicates an unknown product kind, or a kind the operation does not accept.
	ErrInvalidKind = errors.New("invalid product kind")

	// ErrInvalidBOMEdge indicates an edge that violates structural BOM rules.
	ErrInvalidBOMEdge = errors.New("invalid bom edge")

	// ErrSelfReference indicates an edge whose parent and child are the same product.
	ErrSelfReference = errors.New("bom edge references itself")

	// ErrCyclicBOM indicates the BOM graph contains a cycle through the requested product.
	ErrCyclicBOM = errors.New("cyclic bom")

	// ErrDataIntegrity marks non-fatal catalog inconsistencies such as dangling edges.
	// It is carried on warnings and never aborts a cost computation.
	ErrDataIntegrity = errors.New("catalog data integrity")

	// ErrInvalidQuantity indicates a non-positive requested quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
)

package domain

import "errors"

// Sentinel errors for the production domain. Use errors.Is() to check these.
var (
	// ErrProductionNotFound indicates no production state exists for the id or live key.
	ErrProductionNotFound = errors.New("production state not found")

	// ErrAlreadyActive indicates a live state already exists for the (order, product) key.
	// Callers should resume it instead of starting a new one.
	ErrAlreadyActive = errors.New("production already active")

	// ErrQuantityExceedsTarget indicates a confirmation larger than the remaining quantity.
	ErrQuantityExceedsTarget = errors.New("quantity exceeds target")

	// ErrTargetNotReached indicates completion was requested before produced == target.
	ErrTargetNotReached = errors.New("target quantity not reached")

	// ErrBarcodeRejected indicates the scanned code does not authorize the product.
	ErrBarcodeRejected = errors.New("barcode rejected")

	// ErrInvalidQuantity indicates a non-positive target or delta.
	ErrInvalidQuantity = errors.New("invalid quantity")

	// ErrProductionCompleted indicates a mutation on a completed state.
	ErrProductionCompleted = errors.New("production already completed")

	// ErrConcurrentUpdate indicates the stored version moved since the state was read.
	ErrConcurrentUpdate = errors.New("concurrent production update")

	// ErrOrderNotFound indicates the referenced order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrOrderLineNotFound indicates the order has no line for the product code.
	ErrOrderLineNotFound = errors.New("order line not found")

	// ErrInsufficientStock indicates the stock gate refused to start production.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrManualEntryDisabled indicates a manual confirmation while manual entry is off.
	ErrManualEntryDisabled = errors.New("manual entry disabled")

	// ErrInvalidKey indicates a missing order id or product code.
	ErrInvalidKey = errors.New("invalid production key")

	// ErrInvalidOperator indicates a missing operator identity.
	ErrInvalidOperator = errors.New("invalid operator")

	// ErrInvariantViolated indicates a state that breaks the quantity invariants.
	ErrInvariantViolated = errors.New("production invariant violated")
)

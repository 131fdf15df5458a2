package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const operatorKey contextKey = "operator"

// ErrOperatorNotFound is returned when no operator exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrOperatorNotFound = errors.New("operator not found in context")

// Operator is the signed-in shop-floor operator.
type Operator struct {
	ID   string
	Name string
}

// OperatorFromCtx extracts the authenticated operator from the request context.
func OperatorFromCtx(ctx context.Context) (Operator, error) {
	op, ok := ctx.Value(operatorKey).(Operator)
	if !ok || op.ID == "" {
		return Operator{}, ErrOperatorNotFound
	}
	return op, nil
}

// WithOperator returns a new context with op attached.
// Used by RequireOperator after validating the session.
func WithOperator(ctx context.Context, op Operator) context.Context {
	return context.WithValue(ctx, operatorKey, op)
}

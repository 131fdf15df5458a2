package auth

import (
	"context"
	"errors"
	"testing"
)

func TestWithOperator_OperatorFromCtx(t *testing.T) {
	op := Operator{ID: "op-7", Name: "Lin"}
	ctx := WithOperator(context.Background(), op)

	got, err := OperatorFromCtx(ctx)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != op {
		t.Fatalf("expected %+v, got %+v", op, got)
	}
}

func TestOperatorFromCtx_EmptyContext(t *testing.T) {
	_, err := OperatorFromCtx(context.Background())
	if !errors.Is(err, ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound, got %v", err)
	}
}

func TestOperatorFromCtx_EmptyID(t *testing.T) {
	ctx := WithOperator(context.Background(), Operator{Name: "nobody"})
	if _, err := OperatorFromCtx(ctx); !errors.Is(err, ErrOperatorNotFound) {
		t.Fatalf("expected ErrOperatorNotFound for empty id, got %v", err)
	}
}

func TestOperatorFromCtx_Isolation(t *testing.T) {
	ctx1 := WithOperator(context.Background(), Operator{ID: "a"})
	ctx2 := WithOperator(context.Background(), Operator{ID: "b"})

	got1, _ := OperatorFromCtx(ctx1)
	got2, _ := OperatorFromCtx(ctx2)
	if got1.ID != "a" || got2.ID != "b" {
		t.Fatalf("contexts leaked: %+v %+v", got1, got2)
	}
}

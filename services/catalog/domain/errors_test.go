package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrProductNotFound,
		ErrInvalidKind,
		ErrInvalidBOMEdge,
		ErrSelfReference,
		ErrCyclicBOM,
		ErrDataIntegrity,
		ErrInvalidQuantity,
	}
	for i, a := range all {
		if a == nil {
			t.Fatalf("sentinel %d must not be nil", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("%q must not match %q", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("compute cost: %w", ErrCyclicBOM)
	if !errors.Is(wrapped, ErrCyclicBOM) {
		t.Fatal("errors.Is must match wrapped ErrCyclicBOM")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrInvalidBOMEdge, ErrSelfReference)
	if !errors.Is(wrapped2, ErrSelfReference) || !errors.Is(wrapped2, ErrInvalidBOMEdge) {
		t.Fatal("errors.Is must match both sides of a double wrap")
	}
}

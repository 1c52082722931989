package domain

import (
	"errors"
	"fmt"
	"testing"
)

func TestSentinelErrors_Distinct(t *testing.T) {
	all := []error{
		ErrUnauthenticated, ErrNotFound, ErrBackendUnavailable, ErrMalformed,
		ErrInvalidTasting, ErrTastingAlreadyExists, ErrWineNotRevealable,
	}
	for i, a := range all {
		if a == nil {
			t.Fatalf("sentinel %d must not be nil", i)
		}
		for j, b := range all {
			if i != j && errors.Is(a, b) {
				t.Fatalf("sentinels %q and %q must not match each other", a, b)
			}
		}
	}
}

func TestSentinelErrors_WrappedIdentity(t *testing.T) {
	wrapped := fmt.Errorf("update note: %w", ErrNotFound)
	if !errors.Is(wrapped, ErrNotFound) {
		t.Fatal("errors.Is must match wrapped ErrNotFound")
	}

	wrapped2 := fmt.Errorf("%w: %w", ErrBackendUnavailable, errors.New("connection refused"))
	if !errors.Is(wrapped2, ErrBackendUnavailable) {
		t.Fatal("errors.Is must match double-wrapped ErrBackendUnavailable")
	}
}

package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/neomorfeo/growspace/internal/domain"
)

func TestNotFoundError_Error(t *testing.T) {
	err := &domain.NotFoundError{Kind: "growing unit", ID: "gu-1"}
	want := `growing unit "gu-1" not found`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNotFoundError_IsErrNotFound(t *testing.T) {
	err := fmt.Errorf("loading: %w", &domain.NotFoundError{Kind: "plant", ID: "p-1"})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("errors.Is(%v, ErrNotFound) = false, want true", err)
	}
}

func TestCapacityExceededError_Error(t *testing.T) {
	err := &domain.CapacityExceededError{GrowingUnitID: "gu-1", Capacity: 10, Requested: 11}
	want := `growing unit "gu-1" cannot hold 11 plants (capacity 10)`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestTransitionError_Error(t *testing.T) {
	err := &domain.TransitionError{Current: domain.PlantHarvested, Target: domain.PlantGrowing}
	want := `plant status cannot change from "HARVESTED" to "GROWING"`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestConflictError_Error(t *testing.T) {
	err := &domain.ConflictError{Kind: "location", Field: "name", Value: "Balcony"}
	want := `location name "Balcony" is already in use`
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestIsInvariantViolation(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"capacity", &domain.CapacityExceededError{}, true},
		{"number", &domain.InvalidNumberError{}, true},
		{"value", &domain.InvalidValueError{}, true},
		{"enum", &domain.InvalidEnumError{}, true},
		{"transition", &domain.TransitionError{}, true},
		{"wrapped", fmt.Errorf("x: %w", &domain.InvalidEnumError{}), true},
		{"not found", &domain.NotFoundError{}, false},
		{"conflict", &domain.ConflictError{}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		if got := domain.IsInvariantViolation(tc.err); got != tc.want {
			t.Errorf("%s: IsInvariantViolation = %v, want %v", tc.name, got, tc.want)
		}
	}
}

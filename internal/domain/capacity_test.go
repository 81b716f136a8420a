package domain_test

import (
	"errors"
	"testing"

	"github.com/neomorfeo/growspace/internal/domain"
)

func TestNewCapacity_RejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := domain.NewCapacity(n)
		var numErr *domain.InvalidNumberError
		if !errors.As(err, &numErr) {
			t.Errorf("NewCapacity(%d): expected InvalidNumberError, got %v", n, err)
		}
	}
}

func TestNewCapacityFromFloat(t *testing.T) {
	if _, err := domain.NewCapacityFromFloat(10.5); err == nil {
		t.Error("NewCapacityFromFloat(10.5): expected error for non-integral value")
	}

	var numErr *domain.InvalidNumberError
	if _, err := domain.NewCapacityFromFloat(0); !errors.As(err, &numErr) {
		t.Errorf("NewCapacityFromFloat(0): expected InvalidNumberError, got %v", err)
	}

	c, err := domain.NewCapacityFromFloat(10)
	if err != nil {
		t.Fatalf("NewCapacityFromFloat(10): %v", err)
	}
	if c.Int() != 10 {
		t.Errorf("Int() = %d, want 10", c.Int())
	}
}

func TestCapacity_Remaining(t *testing.T) {
	c, _ := domain.NewCapacity(10)

	cases := []struct{ count, want int }{
		{0, 10}, {4, 6}, {10, 0}, {12, 0},
	}
	for _, tc := range cases {
		if got := c.Remaining(tc.count); got != tc.want {
			t.Errorf("Remaining(%d) = %d, want %d", tc.count, got, tc.want)
		}
	}
}

func TestCapacity_CanAdd(t *testing.T) {
	c, _ := domain.NewCapacity(5)

	cases := []struct {
		current, delta int
		want           bool
	}{
		{0, 5, true},
		{3, 2, true},
		{3, 3, false},
		{5, 0, true},
		{0, -1, false},
	}
	for _, tc := range cases {
		if got := c.CanAdd(tc.current, tc.delta); got != tc.want {
			t.Errorf("CanAdd(%d, %d) = %v, want %v", tc.current, tc.delta, got, tc.want)
		}
	}
}

func TestCapacity_PercentagesClamp(t *testing.T) {
	c, _ := domain.NewCapacity(4)

	cases := []struct {
		count     int
		used      float64
		available float64
	}{
		{0, 0, 100},
		{1, 25, 75},
		{4, 100, 0},
		{5, 100, 0},
		{40, 100, 0},
	}
	for _, tc := range cases {
		if got := c.UsedPercentage(tc.count); got != tc.used {
			t.Errorf("UsedPercentage(%d) = %v, want %v", tc.count, got, tc.used)
		}
		if got := c.AvailablePercentage(tc.count); got != tc.available {
			t.Errorf("AvailablePercentage(%d) = %v, want %v", tc.count, got, tc.available)
		}
	}
}

func TestNewDimensions(t *testing.T) {
	d, err := domain.NewDimensions(2, 3, 4, "METERS")
	if err != nil {
		t.Fatalf("NewDimensions: %v", err)
	}
	if d.Volume() != 24 {
		t.Errorf("Volume() = %v, want 24", d.Volume())
	}
	if d.Area() != 6 {
		t.Errorf("Area() = %v, want 6", d.Area())
	}

	var numErr *domain.InvalidNumberError
	if _, err := domain.NewDimensions(0, 3, 4, "METERS"); !errors.As(err, &numErr) {
		t.Errorf("zero length: expected InvalidNumberError, got %v", err)
	}

	var enumErr *domain.InvalidEnumError
	if _, err := domain.NewDimensions(1, 1, 1, "FURLONGS"); !errors.As(err, &enumErr) {
		t.Errorf("bad unit: expected InvalidEnumError, got %v", err)
	}
}

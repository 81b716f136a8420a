package domain

import "math"

// Capacity is the maximum number of plants a growing unit can hold.
// It is always a positive integer.
type Capacity struct {
	value int
}

// NewCapacity validates n and returns a Capacity.
func NewCapacity(n int) (Capacity, error) {
	if n <= 0 {
		return Capacity{}, &InvalidNumberError{Field: "capacity", Value: float64(n), Reason: "must be greater than zero"}
	}
	return Capacity{value: n}, nil
}

// NewCapacityFromFloat accepts numbers from untyped sources (JSON, forms) and
// rejects non-integral values.
func NewCapacityFromFloat(f float64) (Capacity, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return Capacity{}, &InvalidNumberError{Field: "capacity", Value: f, Reason: "must be an integer"}
	}
	if f > math.MaxInt32 {
		return Capacity{}, &InvalidNumberError{Field: "capacity", Value: f, Reason: "too large"}
	}
	return NewCapacity(int(f))
}

// Int returns the capacity as an int.
func (c Capacity) Int() int {
	return c.value
}

// Remaining returns how many more plants fit given the current count.
// It never goes below zero.
func (c Capacity) Remaining(count int) int {
	return max(c.value-count, 0)
}

// HasCapacity reports whether at least one more plant fits.
func (c Capacity) HasCapacity(count int) bool {
	return count < c.value
}

// CanAdd reports whether delta plants can be added to current.
func (c Capacity) CanAdd(current, delta int) bool {
	if delta < 0 || current < 0 {
		return false
	}
	return current+delta <= c.value
}

// UsedPercentage returns the share of capacity in use, clamped to [0,100].
func (c Capacity) UsedPercentage(count int) float64 {
	if c.value <= 0 {
		return 100
	}
	return clampPercentage(float64(count) / float64(c.value) * 100)
}

// AvailablePercentage returns the share of capacity still free, clamped to [0,100].
func (c Capacity) AvailablePercentage(count int) float64 {
	return clampPercentage(100 - c.UsedPercentage(count))
}

func clampPercentage(p float64) float64 {
	return math.Min(100, math.Max(0, p))
}

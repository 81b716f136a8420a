package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for simple conditions without extra context.
var (
	ErrNotFound = errors.New("not found")
)

// NotFoundError is returned when a referenced aggregate, entity or view does not exist.
// It matches ErrNotFound with errors.Is.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// CapacityExceededError is returned when a growing unit cannot hold more plants.
type CapacityExceededError struct {
	GrowingUnitID string
	Capacity      int
	Requested     int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("growing unit %q cannot hold %d plants (capacity %d)", e.GrowingUnitID, e.Requested, e.Capacity)
}

// InvalidNumberError is returned when a numeric value object receives an unusable number.
type InvalidNumberError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *InvalidNumberError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// InvalidValueError is returned when a value object receives malformed input.
type InvalidValueError struct {
	Field  string
	Value  string
	Reason string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// InvalidEnumError is returned when a value is not one of an enum's members.
type InvalidEnumError struct {
	Enum  string
	Value string
}

func (e *InvalidEnumError) Error() string {
	return fmt.Sprintf("%q is not a valid %s", e.Value, e.Enum)
}

// TransitionError is returned when a plant status change is not allowed.
type TransitionError struct {
	Current PlantStatus
	Target  PlantStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("plant status cannot change from %q to %q", e.Current, e.Target)
}

// ConflictError is returned when a natural key is already in use.
type ConflictError struct {
	Kind  string
	Field string
	Value string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %s %q is already in use", e.Kind, e.Field, e.Value)
}

// LocationInUseError is returned when deleting a location that still holds growing units.
type LocationInUseError struct {
	LocationID   string
	GrowingUnits int
}

func (e *LocationInUseError) Error() string {
	return fmt.Sprintf("location %q still holds %d growing units", e.LocationID, e.GrowingUnits)
}

// ConcurrencyConflictError is returned when an aggregate was modified by another
// command between load and save.
type ConcurrencyConflictError struct {
	Kind    string
	ID      string
	Version int
}

func (e *ConcurrencyConflictError) Error() string {
	return fmt.Sprintf("%s %q was modified concurrently (expected version %d)", e.Kind, e.ID, e.Version)
}

// IsInvariantViolation reports whether err is a domain invariant violation:
// the command was rejected before anything was persisted.
func IsInvariantViolation(err error) bool {
	var (
		capErr   *CapacityExceededError
		numErr   *InvalidNumberError
		valErr   *InvalidValueError
		enumErr  *InvalidEnumError
		transErr *TransitionError
	)
	return errors.As(err, &capErr) ||
		errors.As(err, &numErr) ||
		errors.As(err, &valErr) ||
		errors.As(err, &enumErr) ||
		errors.As(err, &transErr)
}

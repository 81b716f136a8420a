package domain

import "math"

// LengthUnit is the unit all three dimensions are expressed in.
type LengthUnit string

const (
	UnitMillimeters LengthUnit = "MILLIMETERS"
	UnitCentimeters LengthUnit = "CENTIMETERS"
	UnitMeters      LengthUnit = "METERS"
	UnitInches      LengthUnit = "INCHES"
)

// ParseLengthUnit validates s as a LengthUnit.
func ParseLengthUnit(s string) (LengthUnit, error) {
	switch u := LengthUnit(s); u {
	case UnitMillimeters, UnitCentimeters, UnitMeters, UnitInches:
		return u, nil
	}
	return "", &InvalidEnumError{Enum: "length unit", Value: s}
}

// Dimensions describes the physical size of a location or growing unit.
type Dimensions struct {
	length float64
	width  float64
	height float64
	unit   LengthUnit
}

// DimensionsPrimitives is the storage form of Dimensions.
type DimensionsPrimitives struct {
	Length float64 `json:"length"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Unit   string  `json:"unit"`
}

// NewDimensions validates each measure and the unit.
func NewDimensions(length, width, height float64, unit string) (Dimensions, error) {
	for _, m := range []struct {
		field string
		value float64
	}{{"length", length}, {"width", width}, {"height", height}} {
		if math.IsNaN(m.value) || math.IsInf(m.value, 0) || m.value <= 0 {
			return Dimensions{}, &InvalidNumberError{Field: m.field, Value: m.value, Reason: "must be greater than zero"}
		}
	}
	u, err := ParseLengthUnit(unit)
	if err != nil {
		return Dimensions{}, err
	}
	return Dimensions{length: length, width: width, height: height, unit: u}, nil
}

// DimensionsFromPrimitives rebuilds Dimensions from storage, revalidating it.
func DimensionsFromPrimitives(p DimensionsPrimitives) (Dimensions, error) {
	return NewDimensions(p.Length, p.Width, p.Height, p.Unit)
}

func (d Dimensions) Length() float64  { return d.length }
func (d Dimensions) Width() float64   { return d.width }
func (d Dimensions) Height() float64  { return d.height }
func (d Dimensions) Unit() LengthUnit { return d.unit }

// Volume returns length × width × height in cubic units.
func (d Dimensions) Volume() float64 {
	return d.length * d.width * d.height
}

// Area returns the footprint, length × width.
func (d Dimensions) Area() float64 {
	return d.length * d.width
}

// Equal compares all measures and the unit.
func (d Dimensions) Equal(other Dimensions) bool {
	return d == other
}

// ToPrimitives flattens the value object.
func (d Dimensions) ToPrimitives() DimensionsPrimitives {
	return DimensionsPrimitives{Length: d.length, Width: d.width, Height: d.height, Unit: string(d.unit)}
}

func dimensionsPrimitives(d *Dimensions) *DimensionsPrimitives {
	if d == nil {
		return nil
	}
	p := d.ToPrimitives()
	return &p
}

func equalDimensions(a, b *Dimensions) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

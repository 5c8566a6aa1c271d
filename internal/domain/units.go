package domain

import (
	"fmt"
	"math"
)

// Unit identifies a supported temperature scale.
type Unit int

const (
	Celsius Unit = iota
	Fahrenheit
	Kelvin
)

// Absolute zero expressed in each supported unit.
const (
	AbsoluteZeroCelsius    = -273.15
	AbsoluteZeroFahrenheit = -459.67
	AbsoluteZeroKelvin     = 0.0
)

// Units lists every supported unit in presentation order.
var Units = []Unit{Celsius, Fahrenheit, Kelvin}

// String returns the canonical unit name used on the wire.
func (u Unit) String() string {
	switch u {
	case Celsius:
		return "Celsius"
	case Fahrenheit:
		return "Fahrenheit"
	case Kelvin:
		return "Kelvin"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Temperature is a value on a specific scale.
type Temperature struct {
	Value float64
	Unit  Unit
}

// UnitRange bounds the valid values of a unit.
type UnitRange struct {
	Minimum float64
	Maximum float64
	Unit    Unit
}

// NewUnitRange validates that maximum is not below minimum.
func NewUnitRange(minimum, maximum float64, unit Unit) (UnitRange, error) {
	if maximum < minimum {
		return UnitRange{}, fmt.Errorf("maximum must be greater than minimum")
	}
	return UnitRange{Minimum: minimum, Maximum: maximum, Unit: unit}, nil
}

// Contains reports whether v lies within the range, bounds included.
func (r UnitRange) Contains(v float64) bool {
	return v >= r.Minimum && v <= r.Maximum
}

// RangeOf returns the valid range for a unit. Absolute hot is a theoretical
// limit far beyond anything representable, so every range tops out at MaxFloat64.
func RangeOf(u Unit) (UnitRange, bool) {
	switch u {
	case Celsius:
		return UnitRange{Minimum: AbsoluteZeroCelsius, Maximum: math.MaxFloat64, Unit: Celsius}, true
	case Fahrenheit:
		return UnitRange{Minimum: AbsoluteZeroFahrenheit, Maximum: math.MaxFloat64, Unit: Fahrenheit}, true
	case Kelvin:
		return UnitRange{Minimum: AbsoluteZeroKelvin, Maximum: math.MaxFloat64, Unit: Kelvin}, true
	default:
		return UnitRange{}, false
	}
}

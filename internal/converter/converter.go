package converter

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/unit-service/internal/domain"
)

var (
	// ErrUnsupportedUnit is returned when a unit name cannot be parsed.
	ErrUnsupportedUnit = errors.New("unsupported temperature unit")
	// ErrOutOfRange is returned when a value lies outside its unit's range.
	ErrOutOfRange = errors.New("temperature out of range")
)

// roundingSlack absorbs float error when a conversion lands exactly on absolute zero.
const roundingSlack = 1e-9

// ParseUnit accepts single-letter and full unit names, ignoring case and surrounding space.
func ParseUnit(s string) (domain.Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "c", "celsius":
		return domain.Celsius, nil
	case "f", "fahrenheit":
		return domain.Fahrenheit, nil
	case "k", "kelvin":
		return domain.Kelvin, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedUnit, s)
	}
}

// NewTemperature builds a Temperature. Only Kelvin is bounded: it must not be
// negative. Celsius and Fahrenheit values convert even below absolute zero.
func NewTemperature(value float64, unit domain.Unit) (domain.Temperature, error) {
	if _, ok := domain.RangeOf(unit); !ok {
		return domain.Temperature{}, fmt.Errorf("%w: %s", ErrUnsupportedUnit, unit)
	}
	if unit == domain.Kelvin && value < domain.AbsoluteZeroKelvin {
		return domain.Temperature{}, fmt.Errorf("%w: Kelvin temperature must be greater than or equal to 0", ErrOutOfRange)
	}
	return domain.Temperature{Value: value, Unit: unit}, nil
}

// Converter converts temperatures through Celsius. It holds no state and is safe for concurrent use.
type Converter struct{}

// New returns a Converter.
func New() *Converter { return &Converter{} }

// Convert returns source expressed in target. Same-unit conversions return source unchanged.
func (c *Converter) Convert(source domain.Temperature, target domain.Unit) (domain.Temperature, error) {
	if source.Unit == target {
		return source, nil
	}

	celsius, err := toCelsius(source)
	if err != nil {
		return domain.Temperature{}, err
	}
	value, err := fromCelsius(celsius, target)
	if err != nil {
		return domain.Temperature{}, err
	}

	if target == domain.Kelvin && value < 0 && -value <= roundingSlack {
		value = 0
	}
	return NewTemperature(value, target)
}

// ConvertBulk converts every temperature to target in order; the first failure aborts the batch.
func (c *Converter) ConvertBulk(temps []domain.Temperature, target domain.Unit) ([]domain.Temperature, error) {
	out := make([]domain.Temperature, 0, len(temps))
	for i, t := range temps {
		res, err := c.Convert(t, target)
		if err != nil {
			return nil, fmt.Errorf("conversion[%d]: %w", i, err)
		}
		out = append(out, res)
	}
	return out, nil
}

// SupportedUnits returns the valid range of every supported unit.
func (c *Converter) SupportedUnits() []domain.UnitRange {
	out := make([]domain.UnitRange, 0, len(domain.Units))
	for _, u := range domain.Units {
		if r, ok := domain.RangeOf(u); ok {
			out = append(out, r)
		}
	}
	return out
}

// ConvertRequest parses and converts a wire request into a wire result.
func (c *Converter) ConvertRequest(req domain.ConversionRequest) (domain.ConversionResult, error) {
	from, err := ParseUnit(req.FromUnit)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	to, err := ParseUnit(req.ToUnit)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	source, err := NewTemperature(req.Value, from)
	if err != nil {
		return domain.ConversionResult{}, err
	}
	result, err := c.Convert(source, to)
	if err != nil {
		return domain.ConversionResult{}, err
	}

	return domain.ConversionResult{
		OriginalValue:  source.Value,
		OriginalUnit:   source.Unit.String(),
		ConvertedValue: result.Value,
		TargetUnit:     result.Unit.String(),
	}, nil
}

func toCelsius(t domain.Temperature) (float64, error) {
	switch t.Unit {
	case domain.Celsius:
		return t.Value, nil
	case domain.Fahrenheit:
		return (t.Value - 32) * 5 / 9, nil
	case domain.Kelvin:
		return t.Value - 273.15, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedUnit, t.Unit)
	}
}

func fromCelsius(celsius float64, target domain.Unit) (float64, error) {
	switch target {
	case domain.Celsius:
		return celsius, nil
	case domain.Fahrenheit:
		return celsius*9/5 + 32, nil
	case domain.Kelvin:
		return celsius + 273.15, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedUnit, target)
	}
}

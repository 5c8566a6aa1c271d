package smoke

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Adda-Baaj/unit-service/internal/domain"
	"github.com/Adda-Baaj/unit-service/internal/fileconfig"
)

// Supported check types.
const (
	TypeSingle = "single"
	TypeBulk   = "bulk"
	TypeInfo   = "info"
)

// Check is one call the smoke client makes against the service.
type Check struct {
	ID          string                     `json:"id" yaml:"id"`
	Type        string                     `json:"type" yaml:"type"`
	Value       float64                    `json:"value" yaml:"value"`
	FromUnit    string                     `json:"from_unit" yaml:"from_unit"`
	ToUnit      string                     `json:"to_unit" yaml:"to_unit"`
	Conversions []domain.ConversionRequest `json:"conversions" yaml:"conversions"`
}

type planFile struct {
	Checks []Check `json:"checks" yaml:"checks"`
}

// DefaultPlan is the demonstration sequence: one single conversion, one bulk
// conversion and the unit listing.
func DefaultPlan() []Check {
	return []Check{
		{ID: "single-conversion", Type: TypeSingle, Value: 0, FromUnit: "f", ToUnit: "c"},
		{ID: "bulk-conversion", Type: TypeBulk, Conversions: []domain.ConversionRequest{
			{Value: 32, FromUnit: "f", ToUnit: "c"},
			{Value: 100, FromUnit: "c", ToUnit: "f"},
		}},
		{ID: "unit-info", Type: TypeInfo},
	}
}

// LoadPlan reads checks from a YAML or JSON file.
func LoadPlan(path string) ([]Check, error) {
	var pf planFile
	if err := fileconfig.Load(path, "checks", &pf); err != nil {
		return nil, err
	}
	if len(pf.Checks) == 0 {
		return nil, errors.New("checks file contains no checks entries")
	}

	seen := make(map[string]struct{}, len(pf.Checks))
	checks := make([]Check, len(pf.Checks))
	for i := range pf.Checks {
		c := sanitizeCheck(pf.Checks[i])
		if err := validateCheck(c); err != nil {
			return nil, fmt.Errorf("checks[%d]: %w", i, err)
		}
		if _, exists := seen[c.ID]; exists {
			return nil, fmt.Errorf("duplicate check id %q", c.ID)
		}
		seen[c.ID] = struct{}{}
		checks[i] = c
	}
	return checks, nil
}

func sanitizeCheck(c Check) Check {
	c.ID = strings.TrimSpace(c.ID)
	c.Type = strings.ToLower(strings.TrimSpace(c.Type))
	c.FromUnit = strings.TrimSpace(c.FromUnit)
	c.ToUnit = strings.TrimSpace(c.ToUnit)
	return c
}

// validateCheck only checks shape; unit names are left for the service to judge.
func validateCheck(c Check) error {
	if c.ID == "" {
		return errors.New("id is required")
	}
	switch c.Type {
	case TypeSingle:
		if c.FromUnit == "" || c.ToUnit == "" {
			return fmt.Errorf("from_unit and to_unit are required for check %q", c.ID)
		}
	case TypeBulk:
		if len(c.Conversions) == 0 {
			return fmt.Errorf("conversions are required for check %q", c.ID)
		}
	case TypeInfo:
	case "":
		return fmt.Errorf("type is required for check %q", c.ID)
	default:
		return fmt.Errorf("unsupported type %q for check %q", c.Type, c.ID)
	}
	return nil
}

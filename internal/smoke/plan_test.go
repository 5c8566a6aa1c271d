package smoke

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadPlanYAML(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "checks.yaml")
	content := `
checks:
  - id: freezing
    type: single
    value: 32
    from_unit: " F "
    to_unit: c
  - id: batch
    type: BULK
    conversions:
      - value: 0
        from_unit: c
        to_unit: k
  - id: units
    type: info
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write checks file: %v", err)
	}

	checks, err := LoadPlan(file)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if len(checks) != 3 {
		t.Fatalf("expected 3 checks, got %d", len(checks))
	}
	if checks[0].FromUnit != "F" || checks[0].Value != 32 {
		t.Fatalf("unexpected single check %+v", checks[0])
	}
	if checks[1].Type != TypeBulk || len(checks[1].Conversions) != 1 || checks[1].Conversions[0].ToUnit != "k" {
		t.Fatalf("unexpected bulk check %+v", checks[1])
	}
}

func TestLoadPlanJSON(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "checks.json")
	content := `{"checks":[{"id":"b","type":"bulk","conversions":[{"value":1,"fromUnit":"c","toUnit":"f"}]}]}`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write checks file: %v", err)
	}

	checks, err := LoadPlan(file)
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	if checks[0].Conversions[0].FromUnit != "c" {
		t.Fatalf("unexpected conversions %+v", checks[0].Conversions)
	}
}

func TestLoadPlanDuplicateID(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "checks.yaml")
	content := `
checks:
  - id: dup
    type: info
  - id: dup
    type: info
`
	if err := os.WriteFile(file, []byte(content), 0o644); err != nil {
		t.Fatalf("write checks file: %v", err)
	}

	if _, err := LoadPlan(file); err == nil {
		t.Fatalf("expected duplicate check error, got nil")
	}
}

func TestValidateCheckRejectsBadShapes(t *testing.T) {
	bad := []Check{
		{Type: TypeInfo},
		{ID: "s", Type: TypeSingle, FromUnit: "c"},
		{ID: "b", Type: TypeBulk},
		{ID: "u", Type: "stream"},
		{ID: "e"},
	}
	for _, c := range bad {
		if err := validateCheck(c); err == nil {
			t.Fatalf("expected validation error for %+v", c)
		}
	}
}

func TestDefaultPlanOrder(t *testing.T) {
	plan := DefaultPlan()
	if len(plan) != 3 || plan[0].Type != TypeSingle || plan[1].Type != TypeBulk || plan[2].Type != TypeInfo {
		t.Fatalf("unexpected default plan %+v", plan)
	}
	if plan[0].Value != 0 || plan[0].FromUnit != "f" || plan[0].ToUnit != "c" {
		t.Fatalf("unexpected single check %+v", plan[0])
	}
}

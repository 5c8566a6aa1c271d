package smoke

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Adda-Baaj/unit-service/internal/domain"
	"github.com/Adda-Baaj/unit-service/pkg/unitclient"
)

// stubService records the last request and replies with a canned status and body.
type stubService struct {
	status int
	body   string

	method string
	path   string
	query  map[string][]string
	raw    []byte
}

func (s *stubService) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.method = r.Method
		s.path = r.URL.Path
		s.query = r.URL.Query()
		if r.Body != nil {
			buf := new(bytes.Buffer)
			if _, err := buf.ReadFrom(r.Body); err != nil {
				t.Errorf("read body: %v", err)
			}
			s.raw = buf.Bytes()
		}
		status := s.status
		if status == 0 {
			status = http.StatusOK
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(s.body))
	}
}

func newRunner(t *testing.T, stub *stubService) (*Runner, *bytes.Buffer) {
	t.Helper()
	srv := httptest.NewServer(stub.handler(t))
	t.Cleanup(srv.Close)

	out := new(bytes.Buffer)
	base := srv.URL + "/api/v1/units"
	return NewRunner(unitclient.New(base, nil), out, nil, base), out
}

func TestConvertSingleSendsExactQueryAndPrintsFields(t *testing.T) {
	stub := &stubService{body: `{"originalValue":0,"originalUnit":"Fahrenheit","convertedValue":-17.5,"targetUnit":"Celsius"}`}
	runner, out := newRunner(t, stub)

	res := runner.ConvertSingle(context.Background(), 0, "f", "c")
	if !res.OK {
		t.Fatalf("expected success, got %+v", res)
	}
	if stub.method != http.MethodGet || stub.path != "/api/v1/units/convert" {
		t.Fatalf("unexpected request %s %s", stub.method, stub.path)
	}
	if len(stub.query) != 3 || stub.query["value"][0] != "0" || stub.query["fromUnit"][0] != "f" || stub.query["toUnit"][0] != "c" {
		t.Fatalf("unexpected query %v", stub.query)
	}

	want := "Result: originalValue=0 originalUnit=Fahrenheit convertedValue=-17.5 targetUnit=Celsius\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestConvertBulkSendsOrderedBodyAndPrintsEachEntry(t *testing.T) {
	stub := &stubService{body: `[
		{"originalValue":32,"originalUnit":"Fahrenheit","convertedValue":0,"targetUnit":"Celsius"},
		{"originalValue":100,"originalUnit":"Celsius","convertedValue":212,"targetUnit":"Fahrenheit"}
	]`}
	runner, out := newRunner(t, stub)

	res := runner.ConvertBulk(context.Background(), []domain.ConversionRequest{
		{Value: 32, FromUnit: "f", ToUnit: "c"},
		{Value: 100, FromUnit: "c", ToUnit: "f"},
	})
	if !res.OK || res.Items != 2 {
		t.Fatalf("unexpected result %+v", res)
	}
	if stub.method != http.MethodPost || stub.path != "/api/v1/units/convert/bulk" {
		t.Fatalf("unexpected request %s %s", stub.method, stub.path)
	}

	var body domain.BulkConversionRequest
	if err := json.Unmarshal(stub.raw, &body); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	if len(body.Conversions) != 2 || body.Conversions[0].Value != 32 || body.Conversions[1].Value != 100 {
		t.Fatalf("unexpected conversions %+v", body.Conversions)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %q", out.String())
	}
	if !strings.Contains(lines[0], "originalValue=32") || !strings.Contains(lines[1], "convertedValue=212") {
		t.Fatalf("lines out of order: %q", lines)
	}
}

func TestUnitInfoSendsNoQueryAndPrintsInOrder(t *testing.T) {
	stub := &stubService{body: `[
		{"unit":"Celsius","minimumValue":-273.15,"maximumValue":1.7976931348623157e308},
		{"unit":"Fahrenheit","minimumValue":-459.67,"maximumValue":1.7976931348623157e308},
		{"unit":"Kelvin","minimumValue":0,"maximumValue":1.7976931348623157e308}
	]`}
	runner, out := newRunner(t, stub)

	res := runner.UnitInfo(context.Background())
	if !res.OK || res.Items != 3 {
		t.Fatalf("unexpected result %+v", res)
	}
	if len(stub.query) != 0 || stub.path != "/api/v1/units/info" {
		t.Fatalf("unexpected request %s?%v", stub.path, stub.query)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"Unit: Celsius range=[-273.15, 1.7976931348623157e+308]",
		"Unit: Fahrenheit range=[-459.67, 1.7976931348623157e+308]",
		"Unit: Kelvin range=[0, 1.7976931348623157e+308]",
	}
	if len(lines) != len(want) {
		t.Fatalf("got %d lines: %q", len(lines), out.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d = %q, want %q", i, lines[i], want[i])
		}
	}
}

func TestServerErrorPrintsStatusAndBody(t *testing.T) {
	stub := &stubService{status: http.StatusInternalServerError, body: "internal failure"}
	runner, out := newRunner(t, stub)

	res := runner.ConvertSingle(context.Background(), 1, "c", "f")
	if res.OK || res.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected result %+v", res)
	}
	if got := out.String(); got != "Error: status 500: internal failure\n" {
		t.Fatalf("output = %q", got)
	}
}

func TestConnectionFailurePrintsException(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	out := new(bytes.Buffer)
	runner := NewRunner(unitclient.New(base, nil), out, nil, base)

	res := runner.UnitInfo(context.Background())
	if res.OK || res.Error == "" {
		t.Fatalf("expected failure, got %+v", res)
	}
	if !strings.HasPrefix(out.String(), "Exception: ") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunContinuesAfterFailures(t *testing.T) {
	stub := &stubService{status: http.StatusBadRequest, body: `{"error":"unsupported temperature unit: x"}`}
	runner, out := newRunner(t, stub)

	report := runner.Run(context.Background(), DefaultPlan())
	if len(report.Checks) != 3 {
		t.Fatalf("expected all 3 checks to run, got %d", len(report.Checks))
	}
	if report.Failed() != 3 || report.Passed() != 0 {
		t.Fatalf("unexpected tally passed=%d failed=%d", report.Passed(), report.Failed())
	}
	if strings.Count(out.String(), "Error: status 400") != 3 {
		t.Fatalf("expected three error lines, got %q", out.String())
	}
	for i, id := range []string{"single-conversion", "bulk-conversion", "unit-info"} {
		if report.Checks[i].ID != id {
			t.Fatalf("checks[%d].ID = %q, want %q", i, report.Checks[i].ID, id)
		}
	}
}

func TestRunStopsOnCancelledContext(t *testing.T) {
	stub := &stubService{body: `[]`}
	runner, out := newRunner(t, stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := runner.Run(ctx, DefaultPlan())
	if len(report.Checks) != 0 {
		t.Fatalf("expected no checks on cancelled context, got %d", len(report.Checks))
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}

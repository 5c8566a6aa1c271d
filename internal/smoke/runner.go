package smoke

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/Adda-Baaj/unit-service/internal/domain"
	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/Adda-Baaj/unit-service/pkg/unitclient"
)

// API is the slice of the unit service client the runner drives.
type API interface {
	Convert(ctx context.Context, value float64, fromUnit, toUnit string) (domain.ConversionResult, error)
	ConvertBulk(ctx context.Context, conversions []domain.ConversionRequest) ([]domain.ConversionResult, error)
	UnitInfo(ctx context.Context) ([]domain.UnitInfo, error)
}

// Runner issues checks one at a time and prints each outcome to out.
// Failures are reported, never returned.
type Runner struct {
	api     API
	out     io.Writer
	log     logger.Logger
	baseURL string
}

// NewRunner wires a runner. baseURL is only recorded in reports.
func NewRunner(api API, out io.Writer, log logger.Logger, baseURL string) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{
		api:     api,
		out:     out,
		log:     logger.Ensure(log),
		baseURL: baseURL,
	}
}

// Run executes checks sequentially. A cancelled context stops before the next check.
func (r *Runner) Run(ctx context.Context, checks []Check) Report {
	report := Report{
		BaseURL:   r.baseURL,
		StartedAt: time.Now().UTC(),
		Checks:    make([]CheckResult, 0, len(checks)),
	}

	for _, c := range checks {
		if ctx.Err() != nil {
			r.log.WarnObj("smoke run interrupted", "smoke_interrupt", map[string]any{
				"next_check": c.ID,
				"reason":     ctx.Err().Error(),
			})
			break
		}

		r.printf("\n== %s (%s)\n", c.ID, c.Type)

		var res CheckResult
		switch c.Type {
		case TypeSingle:
			res = r.ConvertSingle(ctx, c.Value, c.FromUnit, c.ToUnit)
		case TypeBulk:
			res = r.ConvertBulk(ctx, c.Conversions)
		case TypeInfo:
			res = r.UnitInfo(ctx)
		default:
			res = CheckResult{Error: fmt.Sprintf("unsupported check type %q", c.Type)}
			r.printf("Exception: %s\n", res.Error)
		}
		res.ID = c.ID
		res.Type = c.Type
		report.Checks = append(report.Checks, res)

		r.log.DebugObj("smoke check finished", "smoke_check", res)
	}

	report.FinishedAt = time.Now().UTC()
	return report
}

// ConvertSingle requests one conversion and prints the four result fields.
func (r *Runner) ConvertSingle(ctx context.Context, value float64, fromUnit, toUnit string) CheckResult {
	start := time.Now()
	res, err := r.api.Convert(ctx, value, fromUnit, toUnit)
	if err != nil {
		return r.failure(err, start)
	}
	r.printResult(res)
	return success(1, start)
}

// ConvertBulk submits a batch and prints one line per returned entry, in response order.
func (r *Runner) ConvertBulk(ctx context.Context, conversions []domain.ConversionRequest) CheckResult {
	start := time.Now()
	results, err := r.api.ConvertBulk(ctx, conversions)
	if err != nil {
		return r.failure(err, start)
	}
	for _, res := range results {
		r.printResult(res)
	}
	return success(len(results), start)
}

// UnitInfo lists supported units and prints one line per unit, in response order.
func (r *Runner) UnitInfo(ctx context.Context) CheckResult {
	start := time.Now()
	units, err := r.api.UnitInfo(ctx)
	if err != nil {
		return r.failure(err, start)
	}
	for _, u := range units {
		r.printf("Unit: %s range=[%s, %s]\n", u.Unit, formatFloat(u.MinimumValue), formatFloat(u.MaximumValue))
	}
	return success(len(units), start)
}

func (r *Runner) printResult(res domain.ConversionResult) {
	r.printf("Result: originalValue=%s originalUnit=%s convertedValue=%s targetUnit=%s\n",
		formatFloat(res.OriginalValue), res.OriginalUnit, formatFloat(res.ConvertedValue), res.TargetUnit)
}

// failure prints a non-2xx answer as status + raw body and anything else as an exception.
func (r *Runner) failure(err error, start time.Time) CheckResult {
	res := CheckResult{
		Error:     err.Error(),
		ElapsedMs: time.Since(start).Milliseconds(),
	}
	if se, ok := unitclient.AsStatusError(err); ok {
		res.StatusCode = se.StatusCode
		r.printf("Error: status %d: %s\n", se.StatusCode, strings.TrimRight(string(se.Body), "\r\n"))
		return res
	}
	r.printf("Exception: %s\n", err.Error())
	return res
}

func (r *Runner) printf(format string, args ...any) {
	if _, err := fmt.Fprintf(r.out, format, args...); err != nil {
		r.log.WarnObj("smoke output write failed", "error", err.Error())
	}
}

func success(items int, start time.Time) CheckResult {
	return CheckResult{
		OK:        true,
		Items:     items,
		ElapsedMs: time.Since(start).Milliseconds(),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

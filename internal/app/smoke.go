package app

import (
	"context"
	"fmt"
	"io"

	"github.com/Adda-Baaj/unit-service/internal/config"
	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/Adda-Baaj/unit-service/internal/smoke"
	"github.com/Adda-Baaj/unit-service/pkg/httpclient"
	"github.com/Adda-Baaj/unit-service/pkg/publishers"
	"github.com/Adda-Baaj/unit-service/pkg/unitclient"
	"github.com/google/uuid"
)

// SmokeTest runs one pass of checks against the unit service and hands the
// report to the configured publishers.
type SmokeTest struct {
	cfg    *config.Config
	log    logger.Logger
	checks []smoke.Check
	runner *smoke.Runner
	fanout *publishers.Fanout
}

// NewSmokeTest builds the check plan, API client, runner and publisher fanout.
// Output for each check is written to out.
func NewSmokeTest(ctx context.Context, cfg *config.Config, log logger.Logger, out io.Writer) (*SmokeTest, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	log = logger.Ensure(log)
	if ctx == nil {
		ctx = context.Background()
	}

	checks := smoke.DefaultPlan()
	if cfg.ChecksFile != "" {
		loaded, err := smoke.LoadPlan(cfg.ChecksFile)
		if err != nil {
			return nil, fmt.Errorf("load checks: %w", err)
		}
		checks = loaded
	}
	ids := make([]string, 0, len(checks))
	for _, c := range checks {
		ids = append(ids, c.ID)
	}
	log.InfoObj("smoke plan loaded", "smoke_plan", map[string]any{
		"count":  len(ids),
		"ids":    ids,
		"source": planSource(cfg.ChecksFile),
	})

	fanout, err := buildFanout(ctx, cfg.PublishersFile, log)
	if err != nil {
		return nil, err
	}

	client := unitclient.New(cfg.BaseURL, httpclient.NewRestyClient(cfg.HTTPTimeout))

	return &SmokeTest{
		cfg:    cfg,
		log:    log,
		checks: checks,
		runner: smoke.NewRunner(client, out, log, cfg.BaseURL),
		fanout: fanout,
	}, nil
}

// OverrideSingle replaces the parameters of every single-conversion check.
// A nil value or empty unit keeps what the plan declared.
func (s *SmokeTest) OverrideSingle(value *float64, fromUnit, toUnit string) {
	for i := range s.checks {
		if s.checks[i].Type != smoke.TypeSingle {
			continue
		}
		if value != nil {
			s.checks[i].Value = *value
		}
		if fromUnit != "" {
			s.checks[i].FromUnit = fromUnit
		}
		if toUnit != "" {
			s.checks[i].ToUnit = toUnit
		}
	}
}

// Checks returns a copy of the plan that Run will execute.
func (s *SmokeTest) Checks() []smoke.Check {
	out := make([]smoke.Check, len(s.checks))
	copy(out, s.checks)
	return out
}

// Run executes the plan once. Check failures are part of the report, not the
// returned error; publishing failures are only logged.
func (s *SmokeTest) Run(ctx context.Context) (smoke.Report, error) {
	if s == nil || s.runner == nil {
		return smoke.Report{}, fmt.Errorf("smoke test is not initialized")
	}
	defer s.closeFanout()

	report := s.runner.Run(ctx, s.checks)
	s.log.InfoObj("smoke run completed", "smoke_summary", map[string]any{
		"base_url": report.BaseURL,
		"passed":   report.Passed(),
		"failed":   report.Failed(),
	})

	if s.fanout.Size() == 0 {
		return report, nil
	}

	evt := publishers.NewEvent(uuid.NewString(), s.cfg.AppName, report)
	// Publishing still gets a chance after an interrupt cancelled the checks.
	sent, err := s.fanout.Publish(context.WithoutCancel(ctx), evt)
	if err != nil {
		s.log.ErrorObj("smoke report publish failed", "publish_error", map[string]any{
			"run_id":    evt.RunID,
			"delivered": sent,
			"error":     err.Error(),
		})
		return report, nil
	}
	s.log.InfoObj("smoke report published", "publish_meta", map[string]any{
		"run_id":    evt.RunID,
		"delivered": sent,
	})
	return report, nil
}

func (s *SmokeTest) closeFanout() {
	if err := s.fanout.Close(); err != nil {
		s.log.ErrorObj("publisher close failed", "error", err.Error())
	}
}

// buildFanout loads enabled publishers; an empty path means no publishing.
func buildFanout(ctx context.Context, path string, log logger.Logger) (*publishers.Fanout, error) {
	if path == "" {
		return publishers.NewFanout(nil), nil
	}

	reg, err := publishers.LoadRegistry(path)
	if err != nil {
		return nil, fmt.Errorf("load publishers registry: %w", err)
	}
	enabled := reg.Enabled()
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), enabled, log)
	if err != nil {
		return nil, fmt.Errorf("build publishers: %w", err)
	}

	summaries := make([]map[string]string, 0, len(enabled))
	for _, cfg := range enabled {
		summaries = append(summaries, map[string]string{"id": cfg.ID, "type": cfg.Type})
	}
	log.InfoObj("publishers registry loaded", "publishers_meta", map[string]any{
		"count":      len(summaries),
		"publishers": summaries,
	})
	return publishers.NewFanout(pubs), nil
}

func planSource(path string) string {
	if path == "" {
		return "default"
	}
	return path
}

package publishers

import (
	"time"

	"github.com/Adda-Baaj/unit-service/internal/smoke"
)

// Event represents the smoke run summary published downstream.
type Event struct {
	RunID       string       `json:"run_id"`
	AppName     string       `json:"app_name"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Report      smoke.Report `json:"report"`
	PublishedAt time.Time    `json:"published_at"`
}

// NewEvent constructs an Event for the given run.
func NewEvent(runID, appName string, report smoke.Report) Event {
	return Event{
		RunID:       runID,
		AppName:     appName,
		Passed:      report.Passed(),
		Failed:      report.Failed(),
		Report:      report,
		PublishedAt: time.Now().UTC(),
	}
}

// Outcome is "pass" when every check succeeded and "fail" otherwise.
func (e Event) Outcome() string {
	if e.Failed > 0 {
		return "fail"
	}
	return "pass"
}

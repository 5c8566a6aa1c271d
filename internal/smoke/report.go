package smoke

import "time"

// CheckResult is the outcome of one check.
type CheckResult struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	OK         bool   `json:"ok"`
	StatusCode int    `json:"status_code,omitempty"`
	Error      string `json:"error,omitempty"`
	Items      int    `json:"items"`
	ElapsedMs  int64  `json:"elapsed_ms"`
}

// Report collects the ordered outcomes of one smoke run.
type Report struct {
	BaseURL    string        `json:"base_url"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at"`
	Checks     []CheckResult `json:"checks"`
}

// Passed counts successful checks.
func (r Report) Passed() int {
	n := 0
	for _, c := range r.Checks {
		if c.OK {
			n++
		}
	}
	return n
}

// Failed counts unsuccessful checks.
func (r Report) Failed() int {
	return len(r.Checks) - r.Passed()
}

package publishers

import (
	"time"

	"github.com/google/uuid"
)

// Check is the outcome of one probe request.
type Check struct {
	Name       string `json:"name"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	StatusCode int    `json:"status_code"`
	ElapsedMs  int64  `json:"elapsed_ms"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
}

// Report represents the payload published downstream after a probe run.
type Report struct {
	RunID      string    `json:"run_id"`
	BaseURL    string    `json:"base_url"`
	Checks     []Check   `json:"checks"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewReport starts a report for a probe of baseURL.
func NewReport(baseURL string) Report {
	return Report{
		RunID:     uuid.NewString(),
		BaseURL:   baseURL,
		StartedAt: time.Now().UTC(),
	}
}

// OK reports whether every check passed.
func (r Report) OK() bool {
	for _, c := range r.Checks {
		if !c.OK {
			return false
		}
	}
	return len(r.Checks) > 0
}

// Failed counts failing checks.
func (r Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.OK {
			n++
		}
	}
	return n
}

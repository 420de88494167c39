package probe

import "time"

// Config holds configuration for a probe run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Requests int           // Number of sequential lookups
	Timeout  time.Duration // HTTP request timeout
	Verbose  bool          // Log every response
}

// Outcome is one observed response of the row-count route.
type Outcome struct {
	StatusCode       int    `json:"-"`
	Success          bool   `json:"success"`
	RowCount         int    `json:"rowCount"`
	ExceedsThreshold bool   `json:"exceedsThreshold"`
	Error            string `json:"error,omitempty"`
}

// Report summarizes a probe run.
type Report struct {
	Outcomes   []Outcome
	Consistent bool
	StartTime  time.Time
	Duration   time.Duration
}

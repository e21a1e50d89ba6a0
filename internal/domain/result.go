package domain

import (
	"fmt"
	"time"
)

// Outcome is the final status of a test case
type Outcome string

const (
	OutcomePass Outcome = "pass"
	OutcomeFail Outcome = "fail"
	OutcomeSkip Outcome = "skip"
)

// Valid reports whether o is one of the known outcomes
func (o Outcome) Valid() bool {
	switch o {
	case OutcomePass, OutcomeFail, OutcomeSkip:
		return true
	}
	return false
}

// Label returns the upper-case verb used in report labels ("PASSED", "FAILED", "SKIPPED")
func (o Outcome) Label() string {
	switch o {
	case OutcomePass:
		return "PASSED"
	case OutcomeFail:
		return "FAILED"
	case OutcomeSkip:
		return "SKIPPED"
	}
	return fmt.Sprintf("UNKNOWN(%s)", string(o))
}

// TestResult represents the result of executing one test case
type TestResult struct {
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Source      string        `json:"source,omitempty"`
	Outcome     Outcome       `json:"outcome"`
	Cause       string        `json:"cause,omitempty"`       // Failure or skip reason
	FailedStep  string        `json:"failed_step,omitempty"` // Description of the step that stopped the case
	StepsRun    int           `json:"steps_run"`
	Screenshot  string        `json:"screenshot,omitempty"` // Evidence captured on failure
	Duration    time.Duration `json:"-"`
	DurationMS  int64         `json:"duration_ms"`
	Resolved    bool          `json:"resolved,omitempty"` // Marked in the failures viewer
	Err         error         `json:"-"`
}

// Failed reports whether the result is a failure
func (r TestResult) Failed() bool {
	return r.Outcome == OutcomeFail
}

// RunMeta contains metadata about a test run
type RunMeta struct {
	RunID           string  `json:"run_id"`
	Total           int     `json:"total"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	Skipped         int     `json:"skipped"`
	Duration        string  `json:"duration"`
	DurationSeconds float64 `json:"duration_seconds"`
	ReportPath      string  `json:"report_path"`
	BaseURL         string  `json:"base_url"`
	Timestamp       string  `json:"timestamp"`
}

// RunOutput is the complete output structure for a run
type RunOutput struct {
	Meta    RunMeta      `json:"meta"`
	Results []TestResult `json:"results"`
}

// Failures returns the failed results in run order
func (o *RunOutput) Failures() []TestResult {
	var failures []TestResult
	for _, r := range o.Results {
		if r.Failed() {
			failures = append(failures, r)
		}
	}
	return failures
}

// NewRunOutput builds the run output and its counters from results
func NewRunOutput(runID string, results []TestResult, duration time.Duration, reportPath, baseURL string, started time.Time) *RunOutput {
	meta := RunMeta{
		RunID:           runID,
		Total:           len(results),
		Duration:        duration.String(),
		DurationSeconds: duration.Seconds(),
		ReportPath:      reportPath,
		BaseURL:         baseURL,
		Timestamp:       started.Format(time.RFC3339),
	}
	for i := range results {
		results[i].DurationMS = results[i].Duration.Milliseconds()
		switch results[i].Outcome {
		case OutcomePass:
			meta.Passed++
		case OutcomeFail:
			meta.Failed++
		case OutcomeSkip:
			meta.Skipped++
		}
	}
	return &RunOutput{Meta: meta, Results: results}
}

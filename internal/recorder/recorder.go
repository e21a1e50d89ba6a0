// Package recorder turns a finished test case into labeled report entries and,
// on failure, captures a screenshot of the browser as evidence.
package recorder

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"

	"sitecheck/internal/browser"
	"sitecheck/internal/domain"
	"sitecheck/internal/report"
)

// TimestampLayout is yyyy-MM-dd_HH-mm-ss
const TimestampLayout = "2006-01-02_15-04-05"

// DefaultCause is recorded for failures that carry no cause
const DefaultCause = "test failed without a reported cause"

// maxSuffix bounds the search for a free screenshot name within one second
const maxSuffix = 1000

// ErrUnnamedTest is returned for results without a name
var ErrUnnamedTest = errors.New("test result has no name")

// EvidenceError reports that the failure screenshot could not be captured or saved
type EvidenceError struct {
	Test string
	Err  error
}

func (e *EvidenceError) Error() string {
	return fmt.Sprintf("failed to save screenshot for %s: %v", e.Test, e.Err)
}

func (e *EvidenceError) Unwrap() error {
	return e.Err
}

// Recorder records the outcome of each test case once its status is known
type Recorder struct {
	camera browser.Screenshotter
	dir    string
	out    io.Writer
	now    func() time.Time
}

// New returns a Recorder writing screenshots into dir and console lines to out
func New(camera browser.Screenshotter, dir string, out io.Writer) *Recorder {
	if out == nil {
		out = color.Output
	}
	return &Recorder{
		camera: camera,
		dir:    dir,
		out:    out,
		now:    time.Now,
	}
}

// RecordOutcome writes the outcome of result into entry.
// A failure captures a screenshot and sets result.Screenshot; an error is
// returned only when that evidence could not be captured or saved.
func (r *Recorder) RecordOutcome(ctx context.Context, entry report.Entry, result *domain.TestResult) error {
	if result.Name == "" {
		return ErrUnnamedTest
	}

	var evidenceErr error
	switch result.Outcome {
	case domain.OutcomeFail:
		evidenceErr = r.recordFailure(ctx, entry, result)
	case domain.OutcomePass:
		entry.Label(report.StatusPass, result.Name+" Test case PASSED", report.ColorGreen)
		color.New(color.FgGreen).Fprintf(r.out, "✓ %s PASSED\n", result.Name)
	case domain.OutcomeSkip:
		entry.Label(report.StatusSkip, result.Name+" Test case SKIPPED", report.ColorBlue)
		if result.Cause != "" {
			entry.Log(report.StatusSkip, result.Cause)
		}
		color.New(color.FgBlue).Fprintf(r.out, "⊘ %s SKIPPED\n", result.Name)
	default:
		return fmt.Errorf("test %s has unknown outcome %q", result.Name, result.Outcome)
	}

	entry.Log(report.StatusInfo, "Test case "+result.Name+" completed")
	return evidenceErr
}

func (r *Recorder) recordFailure(ctx context.Context, entry report.Entry, result *domain.TestResult) error {
	if result.Cause == "" {
		result.Cause = DefaultCause
	}

	entry.Label(report.StatusFail, result.Name+" Test case FAILED due to issues below:", report.ColorRed)
	entry.Log(report.StatusFail, result.Cause)

	red := color.New(color.FgRed)
	red.Fprintf(r.out, "✗ %s FAILED\n", result.Name)
	fmt.Fprintf(r.out, "  %s\n", result.Cause)

	path, err := r.capture(ctx, result.Name)
	if err != nil {
		evidence := &EvidenceError{Test: result.Name, Err: err}
		entry.Log(report.StatusFail, evidence.Error())
		red.Fprintf(r.out, "  %v\n", evidence)
		return evidence
	}

	result.Screenshot = path
	entry.Log(report.StatusFail, "Attached screenshot")
	entry.AttachImage(path)
	fmt.Fprintf(r.out, "  screenshot: %s\n", path)
	return nil
}

// capture takes the screenshot and stores it under a name no earlier capture uses
func (r *Recorder) capture(ctx context.Context, testName string) (string, error) {
	data, err := r.camera.Screenshot(ctx)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return "", fmt.Errorf("create screenshot dir: %w", err)
	}

	stamp := r.now().Format(TimestampLayout)
	for n := 1; n <= maxSuffix; n++ {
		path := filepath.Join(r.dir, ScreenshotName(testName, stamp, n))
		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("create screenshot file: %w", err)
		}
		if _, err := f.Write(data); err != nil {
			f.Close()
			return "", fmt.Errorf("write screenshot: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("write screenshot: %w", err)
		}
		return path, nil
	}
	return "", fmt.Errorf("no free screenshot name for %s at %s", testName, stamp)
}

// ScreenshotName returns {test}_failure_{stamp}.png, with _n appended for n > 1
func ScreenshotName(testName, stamp string, n int) string {
	if n <= 1 {
		return fmt.Sprintf("%s_failure_%s.png", testName, stamp)
	}
	return fmt.Sprintf("%s_failure_%s_%d.png", testName, stamp, n)
}

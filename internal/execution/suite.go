package execution

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"

	"sitecheck/internal/browser"
	"sitecheck/internal/domain"
	"sitecheck/internal/report"
)

// ErrSuiteFinished is returned when Execute is called on a suite that already ran
var ErrSuiteFinished = errors.New("suite already ran")

var _ Executor = (*Suite)(nil)

// DriverFactory opens the browser session shared by all test cases
type DriverFactory func(ctx context.Context) (browser.Driver, error)

// OutcomeRecorder records a finished test case into its report entry
type OutcomeRecorder interface {
	RecordOutcome(ctx context.Context, entry report.Entry, result *domain.TestResult) error
}

// RecorderFactory builds the recorder once the browser it photographs exists.
// camera is nil when the browser could not be opened.
type RecorderFactory func(camera browser.Screenshotter) OutcomeRecorder

// Options controls how a suite runs
type Options struct {
	FailFast bool      // Skip the remaining test cases after the first failure
	Out      io.Writer // Console output, defaults to color.Output
}

// Suite runs test cases sequentially against one browser session:
// setup, then every test case, then teardown on every exit path.
type Suite struct {
	newDriver   DriverFactory
	newRecorder RecorderFactory
	sink        report.Sink
	runner      *Runner
	opts        Options
	progress    Progress

	driver    browser.Driver
	recorder  OutcomeRecorder
	lastEntry report.Entry
	ran       bool
}

// NewSuite creates a suite; nothing is opened until Execute
func NewSuite(newDriver DriverFactory, sink report.Sink, newRecorder RecorderFactory, opts Options) *Suite {
	if opts.Out == nil {
		opts.Out = color.Output
	}
	return &Suite{
		newDriver:   newDriver,
		newRecorder: newRecorder,
		sink:        sink,
		runner:      NewRunner(),
		opts:        opts,
	}
}

// SetProgress sets the progress reporter for the suite
func (s *Suite) SetProgress(progress Progress) {
	s.progress = progress
}

// Execute runs every test case once and returns exactly one result per case, in order.
// Step failures never abort the run; the returned error carries setup, evidence
// and teardown failures.
func (s *Suite) Execute(ctx context.Context, cases []TestCase) (results []domain.TestResult, duration time.Duration, err error) {
	if s.ran {
		return nil, 0, ErrSuiteFinished
	}
	s.ran = true

	start := time.Now()
	defer func() {
		err = errors.Join(err, s.teardown())
		duration = time.Since(start)
	}()

	if setupErr := s.setup(ctx); setupErr != nil {
		cause := "browser session unavailable: " + setupErr.Error()
		var recordErr error
		results, recordErr = s.runEach(ctx, cases, cause)
		return results, 0, errors.Join(fmt.Errorf("suite setup: %w", setupErr), recordErr)
	}

	results, err = s.runEach(ctx, cases, "")
	return results, 0, err
}

func (s *Suite) setup(ctx context.Context) error {
	driver, err := s.newDriver(ctx)
	if err != nil {
		s.recorder = s.newRecorder(nil)
		return err
	}
	s.driver = driver
	s.recorder = s.newRecorder(driver)
	return nil
}

// runEach runs the cases in order. A non-empty skipAll skips every case with that cause.
func (s *Suite) runEach(ctx context.Context, cases []TestCase, skipAll string) ([]domain.TestResult, error) {
	results := make([]domain.TestResult, 0, len(cases))
	var errs []error
	var passed, failed, skipped int

	for _, tc := range cases {
		entry := s.sink.CreateEntry(tc.Name, tc.Description)
		s.lastEntry = entry

		var result domain.TestResult
		switch {
		case skipAll != "":
			result = skippedResult(tc, skipAll)
		case ctx.Err() != nil:
			result = skippedResult(tc, "run cancelled: "+ctx.Err().Error())
		case failed > 0 && s.opts.FailFast:
			result = skippedResult(tc, "skipped after an earlier failure (fail-fast)")
		default:
			result = s.runner.Run(ctx, tc, &Session{Driver: s.driver, Entry: entry})
		}

		// Evidence is still captured when the run is being cancelled
		if err := s.recorder.RecordOutcome(context.WithoutCancel(ctx), entry, &result); err != nil {
			result.Outcome = domain.OutcomeFail
			if result.Cause == "" {
				result.Cause = err.Error()
			} else {
				result.Cause += "; " + err.Error()
			}
			errs = append(errs, err)
		}

		switch result.Outcome {
		case domain.OutcomePass:
			passed++
		case domain.OutcomeFail:
			failed++
		case domain.OutcomeSkip:
			skipped++
		}
		if s.progress != nil {
			s.progress.Update(passed, failed, skipped)
		}
		results = append(results, result)
	}

	return results, errors.Join(errs...)
}

// teardown releases the browser and flushes the report, once
func (s *Suite) teardown() error {
	if s.progress != nil {
		s.progress.Finish()
	}
	color.New(color.FgCyan).Fprintln(s.opts.Out, "Test suite completed")
	if s.lastEntry != nil {
		s.lastEntry.Log(report.StatusInfo, "Test suite completed")
	}

	var errs []error
	if s.driver != nil {
		if err := s.driver.Quit(); err != nil {
			errs = append(errs, fmt.Errorf("quit browser: %w", err))
		}
	}
	if err := s.sink.Flush(); err != nil {
		errs = append(errs, fmt.Errorf("flush report: %w", err))
	}
	return errors.Join(errs...)
}

func skippedResult(tc TestCase, cause string) domain.TestResult {
	return domain.TestResult{
		Name:        tc.Name,
		Description: tc.Description,
		Source:      tc.Source,
		Outcome:     domain.OutcomeSkip,
		Cause:       cause,
	}
}

package execution

import (
	"context"
	"errors"
	"fmt"
	"time"

	"sitecheck/internal/domain"
	"sitecheck/internal/report"
)

// Runner executes the steps of a single test case
type Runner struct{}

// NewRunner creates a new Runner
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes tc step by step and classifies the first step error.
// It never returns without a result: panics in a step are turned into failures.
func (r *Runner) Run(ctx context.Context, tc TestCase, session *Session) domain.TestResult {
	start := time.Now()
	result := domain.TestResult{
		Name:        tc.Name,
		Description: tc.Description,
		Source:      tc.Source,
		Outcome:     domain.OutcomePass,
	}
	session.Info("Starting test case " + tc.Name)

	for _, step := range tc.Steps {
		if err := ctx.Err(); err != nil {
			result.Outcome = domain.OutcomeSkip
			result.Cause = "run cancelled: " + err.Error()
			result.Err = err
			break
		}

		err := runStep(ctx, step, session)
		if err == nil {
			session.Entry.Log(report.StatusPass, step.Description)
			result.StepsRun++
			continue
		}

		result.FailedStep = step.Description
		result.Err = err
		result.Cause = err.Error()
		switch {
		case errors.Is(err, ErrSkip):
			result.Outcome = domain.OutcomeSkip
		case ctx.Err() != nil && errors.Is(err, ctx.Err()):
			result.Outcome = domain.OutcomeSkip
			result.Cause = "run cancelled during step: " + err.Error()
		default:
			result.Outcome = domain.OutcomeFail
		}
		break
	}

	result.Duration = time.Since(start)
	return result
}

func runStep(ctx context.Context, step Step, session *Session) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("step %q panicked: %v", step.Description, p)
		}
	}()
	if step.Do == nil {
		return fmt.Errorf("step %q has nothing to do", step.Description)
	}
	return step.Do(ctx, session)
}

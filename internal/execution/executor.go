package execution

import (
	"context"
	"time"

	"sitecheck/internal/domain"
)

// Executor executes test cases and returns one result per case
type Executor interface {
	Execute(ctx context.Context, cases []TestCase) ([]domain.TestResult, time.Duration, error)
}

// Progress receives counters after every finished test case
type Progress interface {
	Update(passed, failed, skipped int)
	Finish()
}

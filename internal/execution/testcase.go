package execution

import (
	"context"
	"errors"
	"fmt"

	"sitecheck/internal/browser"
	"sitecheck/internal/report"
)

// ErrSkip marks a step error that skips the rest of the test case instead of failing it
var ErrSkip = errors.New("test skipped")

// Skip returns an error that makes the running test case skip with reason
func Skip(reason string) error {
	return fmt.Errorf("%w: %s", ErrSkip, reason)
}

// Session is what a step may touch: the shared browser and the test's report entry
type Session struct {
	Driver browser.Driver
	Entry  report.Entry
}

// Info adds an informational line to the test's report entry
func (s *Session) Info(message string) {
	s.Entry.Log(report.StatusInfo, message)
}

// Step is one scripted browser interaction or assertion
type Step struct {
	Description string // Logged as a pass line when the step succeeds
	Do          func(ctx context.Context, s *Session) error
}

// TestCase is an ordered list of steps run against one browser session
type TestCase struct {
	Name        string // Identifier, used in screenshot file names
	Description string
	Source      string // Script path, or "builtin"
	Steps       []Step
}

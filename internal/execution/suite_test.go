package execution

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecheck/internal/browser"
	"sitecheck/internal/browser/browsertest"
	"sitecheck/internal/domain"
	"sitecheck/internal/recorder"
	"sitecheck/internal/report"
	"sitecheck/internal/report/reporttest"
)

const home = "https://zoom.us/"

func newFake() *browsertest.Driver {
	return browsertest.New(map[string]*browsertest.Page{
		home: {Title: "Zoom", Elements: map[string]*browsertest.Element{}},
	})
}

type harness struct {
	driver *browsertest.Driver
	sink   *reporttest.Sink
	suite  *Suite
	dir    string
}

func newHarness(t *testing.T, opts Options) *harness {
	t.Helper()
	h := &harness{driver: newFake(), sink: reporttest.New(), dir: t.TempDir()}
	opts.Out = io.Discard
	h.suite = NewSuite(
		func(ctx context.Context) (browser.Driver, error) { return h.driver, nil },
		h.sink,
		func(camera browser.Screenshotter) OutcomeRecorder { return recorder.New(camera, h.dir, io.Discard) },
		opts,
	)
	return h
}

func navigate(ctx context.Context, s *Session) error {
	return s.Driver.Navigate(ctx, home)
}

func titleIs(want string) func(ctx context.Context, s *Session) error {
	return func(ctx context.Context, s *Session) error {
		got, err := s.Driver.Title(ctx)
		if err != nil {
			return err
		}
		if got != want {
			return errors.New("expected title " + want + " but found " + got)
		}
		return nil
	}
}

func titleCase(name, want string) TestCase {
	return TestCase{
		Name:        name,
		Description: "title check " + name,
		Steps: []Step{
			{Description: "Opened site", Do: navigate},
			{Description: "Title matches", Do: titleIs(want)},
		},
	}
}

type countingProgress struct {
	updates  [][3]int
	finished int
}

func (p *countingProgress) Update(passed, failed, skipped int) {
	p.updates = append(p.updates, [3]int{passed, failed, skipped})
}

func (p *countingProgress) Finish() { p.finished++ }

func TestSuite_TitleMatchPasses(t *testing.T) {
	h := newHarness(t, Options{})

	results, _, err := h.suite.Execute(context.Background(), []TestCase{titleCase("home", "Zoom")})

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, domain.OutcomePass, results[0].Outcome)
	assert.Equal(t, 2, results[0].StepsRun)
	assert.Empty(t, results[0].Screenshot)

	entries := h.sink.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "home", entries[0].Name)
	assert.Empty(t, entries[0].Images())
	lines := entries[0].Lines()
	assert.Equal(t, "Starting test case home", lines[0].Message)
	assert.Equal(t, reporttest.Line{Status: report.StatusPass, Message: "Opened site"}, lines[1])
	assert.Equal(t, reporttest.Line{Status: report.StatusInfo, Message: "Test suite completed"}, entries[0].Last())
	assert.Equal(t, 1, h.sink.Flushes())
	assert.Equal(t, 1, h.driver.Quits())
}

func TestSuite_CompletionLoggedOnLastEntryOnly(t *testing.T) {
	h := newHarness(t, Options{})

	_, _, err := h.suite.Execute(context.Background(), []TestCase{titleCase("a", "Zoom"), titleCase("b", "nope")})

	require.NoError(t, err)
	entries := h.sink.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "Test case a completed", entries[0].Last().Message)
	assert.Equal(t, "Test suite completed", entries[1].Last().Message)
}

func TestSuite_TitleMismatchFailsWithScreenshot(t *testing.T) {
	h := newHarness(t, Options{})

	results, _, err := h.suite.Execute(context.Background(), []TestCase{titleCase("home", "Video Conferencing | Zoom")})

	require.NoError(t, err)
	require.Len(t, results, 1)
	r := results[0]
	assert.Equal(t, domain.OutcomeFail, r.Outcome)
	assert.Equal(t, "Title matches", r.FailedStep)
	assert.Equal(t, 1, r.StepsRun)
	assert.Contains(t, r.Cause, "found Zoom")
	assert.FileExists(t, r.Screenshot)
	assert.Equal(t, []string{r.Screenshot}, h.sink.Entries()[0].Images())
}

func TestSuite_EveryResultRecordedOnce(t *testing.T) {
	h := newHarness(t, Options{})
	progress := &countingProgress{}
	h.suite.SetProgress(progress)

	cases := []TestCase{
		titleCase("a", "nope"),
		titleCase("b", "Zoom"),
		{Name: "c", Steps: []Step{{Description: "skips", Do: func(ctx context.Context, s *Session) error {
			return Skip("not applicable")
		}}}},
		titleCase("d", "nope"),
	}
	results, _, err := h.suite.Execute(context.Background(), cases)

	require.NoError(t, err)
	require.Len(t, results, len(cases))
	var outcomes []domain.Outcome
	for i, r := range results {
		assert.Equal(t, cases[i].Name, r.Name)
		outcomes = append(outcomes, r.Outcome)
		if r.Outcome == domain.OutcomeFail {
			assert.NotEmpty(t, r.Cause)
			assert.FileExists(t, r.Screenshot)
		} else {
			assert.Empty(t, r.Screenshot)
		}
	}
	assert.Equal(t, []domain.Outcome{domain.OutcomeFail, domain.OutcomePass, domain.OutcomeSkip, domain.OutcomeFail}, outcomes)
	assert.Equal(t, [][3]int{{0, 1, 0}, {1, 1, 0}, {1, 1, 1}, {1, 2, 1}}, progress.updates)
	assert.Equal(t, 1, progress.finished)
	assert.Len(t, h.sink.Entries(), len(cases))
}

func TestSuite_AllFailedStillTearsDownOnce(t *testing.T) {
	h := newHarness(t, Options{})

	results, _, err := h.suite.Execute(context.Background(), []TestCase{
		titleCase("a", "x"),
		titleCase("b", "y"),
	})

	require.NoError(t, err)
	for _, r := range results {
		assert.Equal(t, domain.OutcomeFail, r.Outcome)
	}
	assert.Equal(t, 1, h.sink.Flushes())
	assert.Equal(t, 1, h.driver.Quits())
}

func TestSuite_FailFastSkipsRemaining(t *testing.T) {
	h := newHarness(t, Options{FailFast: true})

	results, _, err := h.suite.Execute(context.Background(), []TestCase{
		titleCase("a", "x"),
		titleCase("b", "Zoom"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFail, results[0].Outcome)
	assert.Equal(t, domain.OutcomeSkip, results[1].Outcome)
	assert.Contains(t, results[1].Cause, "fail-fast")
	// the skipped case never touched the browser
	assert.Equal(t, []string{"navigate " + home, "screenshot"}, h.driver.Calls())
}

func TestSuite_PanickingStepFails(t *testing.T) {
	h := newHarness(t, Options{})

	results, _, err := h.suite.Execute(context.Background(), []TestCase{
		{Name: "boom", Steps: []Step{
			{Description: "Opened site", Do: navigate},
			{Description: "explodes", Do: func(ctx context.Context, s *Session) error { panic("nil element") }},
		}},
		titleCase("after", "Zoom"),
	})

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeFail, results[0].Outcome)
	assert.Contains(t, results[0].Cause, "nil element")
	assert.Equal(t, domain.OutcomePass, results[1].Outcome)
}

func TestSuite_EvidenceLossIsSurfaced(t *testing.T) {
	h := newHarness(t, Options{})
	captureErr := errors.New("screenshot: target crashed")
	h.driver.ScreenshotErr = captureErr

	results, _, err := h.suite.Execute(context.Background(), []TestCase{
		titleCase("a", "x"),
		titleCase("b", "Zoom"),
	})

	var evidence *recorder.EvidenceError
	require.ErrorAs(t, err, &evidence)
	assert.ErrorIs(t, err, captureErr)
	assert.Equal(t, domain.OutcomeFail, results[0].Outcome)
	assert.Contains(t, results[0].Cause, "failed to save screenshot")
	assert.Equal(t, domain.OutcomePass, results[1].Outcome)
	assert.Equal(t, 1, h.sink.Flushes())
}

func TestSuite_SetupFailureSkipsAll(t *testing.T) {
	sink := reporttest.New()
	launchErr := errors.New("failed to launch Chrome")
	suite := NewSuite(
		func(ctx context.Context) (browser.Driver, error) { return nil, launchErr },
		sink,
		func(camera browser.Screenshotter) OutcomeRecorder { return recorder.New(camera, t.TempDir(), io.Discard) },
		Options{Out: io.Discard},
	)

	results, _, err := suite.Execute(context.Background(), []TestCase{titleCase("a", "Zoom"), titleCase("b", "Zoom")})

	assert.ErrorIs(t, err, launchErr)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.Equal(t, domain.OutcomeSkip, r.Outcome)
		assert.Contains(t, r.Cause, "browser session unavailable")
	}
	assert.Equal(t, 1, sink.Flushes())
}

func TestSuite_CancelledRunSkipsRemaining(t *testing.T) {
	h := newHarness(t, Options{})
	ctx, cancel := context.WithCancel(context.Background())

	cases := []TestCase{
		{Name: "stops", Steps: []Step{{Description: "cancel", Do: func(_ context.Context, s *Session) error {
			cancel()
			return nil
		}}, {Description: "never", Do: navigate}}},
		titleCase("later", "Zoom"),
	}
	results, _, err := h.suite.Execute(ctx, cases)

	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeSkip, results[0].Outcome)
	assert.Equal(t, 1, results[0].StepsRun)
	assert.Equal(t, domain.OutcomeSkip, results[1].Outcome)
	assert.Contains(t, results[1].Cause, "run cancelled")
	assert.Equal(t, 1, h.driver.Quits())
}

func TestSuite_TeardownErrorsJoined(t *testing.T) {
	h := newHarness(t, Options{})
	flushErr := errors.New("disk full")
	h.sink.FlushErr = flushErr

	_, _, err := h.suite.Execute(context.Background(), []TestCase{titleCase("a", "Zoom")})
	assert.ErrorIs(t, err, flushErr)

	_, _, err = h.suite.Execute(context.Background(), nil)
	assert.ErrorIs(t, err, ErrSuiteFinished)
	assert.Equal(t, 1, h.sink.Flushes())
}

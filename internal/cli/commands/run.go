package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sitecheck/internal/browser"
	"sitecheck/internal/config"
	"sitecheck/internal/discovery"
	"sitecheck/internal/domain"
	"sitecheck/internal/execution"
	"sitecheck/internal/recorder"
	"sitecheck/internal/report"
	"sitecheck/internal/storage"
	"sitecheck/internal/ui"
)

// RunCommand handles the run command
type RunCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter

	// newDriver opens the browser and now stamps the run; replaced in tests
	newDriver execution.DriverFactory
	now       func() time.Time
}

// NewRunCommand creates a new RunCommand
func NewRunCommand(cfg *config.Config, filter *discovery.Filter, formatter *ui.Formatter) *RunCommand {
	rc := &RunCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
		now:       time.Now,
	}
	rc.newDriver = func(ctx context.Context) (browser.Driver, error) {
		driver, err := browser.NewRodDriver(rc.config.Browser)
		if err != nil {
			return nil, err
		}
		return driver, nil
	}
	return rc
}

// Execute runs the command
func (rc *RunCommand) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	cases, _, err := loadCases(rc.config, rc.filter)
	if err != nil {
		return err
	}

	st, closeStorage, err := storage.Open(ctx, rc.config)
	if err != nil {
		return err
	}
	defer closeStorage()

	if rc.config.Flags.OnlyFailed {
		last, err := st.Load()
		if err != nil {
			return fmt.Errorf("failed to load last run: %w", err)
		}
		failed := make(map[string]struct{})
		for _, f := range last.Failures() {
			failed[f.Name] = struct{}{}
		}
		cases = rc.filter.FilterByNames(cases, failed)
	}

	if len(cases) == 0 {
		color.Yellow("No scenarios to execute")
		return nil
	}

	sink, err := report.NewHTMLReport(rc.config.ReportPath, rc.config.ReportTitle)
	if err != nil {
		return err
	}
	suite := execution.NewSuite(rc.newDriver, sink, func(camera browser.Screenshotter) execution.OutcomeRecorder {
		return recorder.New(camera, sink.Dir(), nil)
	}, execution.Options{FailFast: rc.config.Flags.FailFast})
	suite.SetProgress(ui.NewProgressBar(len(cases)))

	started := rc.now()
	results, duration, runErr := suite.Execute(ctx, cases)

	output := domain.NewRunOutput(uuid.NewString(), results, duration, sink.Path(), rc.config.BaseURL, started)
	if err := st.Save(output); err != nil {
		return fmt.Errorf("failed to save results: %w", err)
	}

	rc.formatter.PrintMetaStats(output)
	if runErr != nil {
		return runErr
	}

	if output.Meta.Failed > 0 {
		if rc.config.Flags.OpenFailures {
			if err := ui.NewErrorViewer(st).View(output); err != nil {
				return err
			}
		}
		return ErrScenariosFailed
	}
	return nil
}

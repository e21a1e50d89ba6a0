package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sitecheck/internal/browser"
	"sitecheck/internal/browser/browsertest"
	"sitecheck/internal/cli"
	"sitecheck/internal/config"
	"sitecheck/internal/discovery"
	"sitecheck/internal/domain"
	"sitecheck/internal/parser"
	"sitecheck/internal/storage"
	"sitecheck/internal/ui"
)

const site = "https://example.test/"

func writeScenario(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

// newWorkspace returns a config running only the scripts written into its scenario dir
func newWorkspace(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	cfg := config.New()
	cfg.BaseURL = site
	cfg.Builtin = false
	cfg.ScenarioDir = filepath.Join(root, "scenarios")
	cfg.ReportPath = filepath.Join(root, "out", "report.html")
	cfg.OutputJSONDir = filepath.Join(root, "storage")
	require.NoError(t, os.MkdirAll(cfg.ScenarioDir, 0755))

	writeScenario(t, cfg.ScenarioDir, "home.yaml", `
name: home
description: home page title
steps:
  - action: navigate
    url: /
  - action: assert_title
    title: Example
`)
	writeScenario(t, cfg.ScenarioDir, "about.yaml", `
name: about
description: about page title
steps:
  - action: navigate
    url: /
  - action: assert_title
    title: ${about_title}
vars:
  about_title: About
`)
	return cfg
}

func newRun(cfg *config.Config) (*RunCommand, *browsertest.Driver) {
	driver := browsertest.New(map[string]*browsertest.Page{
		site: {Title: "Example", Elements: map[string]*browsertest.Element{}},
	})
	rc := NewRunCommand(cfg, discovery.NewFilter(), ui.NewFormatter(&bytes.Buffer{}))
	rc.newDriver = func(ctx context.Context) (browser.Driver, error) { return driver, nil }
	return rc, driver
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	return cmd
}

func TestRun_RecordsResultsReportAndEvidence(t *testing.T) {
	cfg := newWorkspace(t)
	rc, driver := newRun(cfg)

	err := rc.Execute(newCmd(), nil)
	assert.ErrorIs(t, err, ErrScenariosFailed)
	assert.Equal(t, 1, driver.Quits())

	output, err := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, err)
	assert.Equal(t, 2, output.Meta.Total)
	assert.Equal(t, 1, output.Meta.Passed)
	assert.Equal(t, 1, output.Meta.Failed)
	assert.NotEmpty(t, output.Meta.RunID)
	assert.Equal(t, cfg.ReportPath, output.Meta.ReportPath)

	// scripts run in path order
	assert.Equal(t, "about", output.Results[0].Name)
	assert.Equal(t, domain.OutcomeFail, output.Results[0].Outcome)
	assert.Contains(t, output.Results[0].Cause, "expected [About] but found [Example]")
	assert.FileExists(t, output.Results[0].Screenshot)
	assert.Equal(t, filepath.Dir(cfg.ReportPath), filepath.Dir(output.Results[0].Screenshot))
	assert.FileExists(t, cfg.ReportPath)
}

func TestRun_VarsFilterAndFailedOnly(t *testing.T) {
	cfg := newWorkspace(t)

	// first run: about fails
	rc, _ := newRun(cfg)
	require.ErrorIs(t, rc.Execute(newCmd(), nil), ErrScenariosFailed)

	// rerun only the failure, fixed with a var override
	cfg.Flags.OnlyFailed = true
	cfg.Vars["about_title"] = "Example"
	rc, driver := newRun(cfg)
	require.NoError(t, rc.Execute(newCmd(), nil))

	output, err := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, err)
	require.Len(t, output.Results, 1)
	assert.Equal(t, "about", output.Results[0].Name)
	assert.Equal(t, domain.OutcomePass, output.Results[0].Outcome)
	assert.Equal(t, []string{"navigate " + site}, driver.Calls())

	// filter that matches nothing runs nothing
	cfg.Flags = config.Flags{NameFilter: "checkout-*"}
	rc, driver = newRun(cfg)
	require.NoError(t, rc.Execute(newCmd(), nil))
	assert.Zero(t, driver.Quits())
}

func TestRun_BrowserUnavailableSkipsAll(t *testing.T) {
	cfg := newWorkspace(t)
	rc, _ := newRun(cfg)
	rc.newDriver = func(ctx context.Context) (browser.Driver, error) {
		return nil, assert.AnError
	}

	err := rc.Execute(newCmd(), nil)
	assert.ErrorIs(t, err, assert.AnError)

	output, loadErr := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, loadErr)
	assert.Equal(t, 2, output.Meta.Skipped)
}

func TestValidate(t *testing.T) {
	dir := t.TempDir()
	good := writeScenario(t, dir, "good.yaml", "name: good\nsteps:\n  - action: maximize\n")
	bad := writeScenario(t, dir, "bad.yaml", "name: bad\nsteps:\n  - action: assert_title\n")

	var out bytes.Buffer
	cmd := newCmd()
	cmd.SetOut(&out)
	vc := NewValidateCommand(parser.NewScriptParser())

	require.NoError(t, vc.Execute(cmd, []string{good}))
	assert.Contains(t, out.String(), "good.yaml (good, 1 steps)")

	out.Reset()
	err := vc.Execute(cmd, []string{good, bad})
	assert.ErrorContains(t, err, "1 of 2 scenario file(s) invalid")
	assert.Contains(t, out.String(), "bad.yaml")
}

func TestRegister_EnvFileFlag(t *testing.T) {
	t.Setenv(config.EnvBaseURL, "")
	os.Unsetenv(config.EnvBaseURL)
	dir := t.TempDir()
	envFile := writeScenario(t, dir, "staging.env", config.EnvBaseURL+"=https://staging.example.test/\n")

	cfg := config.New()
	root := &cobra.Command{Use: "sitecheck", SilenceUsage: true, SilenceErrors: true}
	NewCommands(cfg).Register(root, &cli.Flags{}, cfg)
	root.SetArgs([]string{"list", "--env-file", envFile, "--no-builtin", "-s", dir})

	require.NoError(t, root.ExecuteContext(context.Background()))
	assert.Equal(t, "https://staging.example.test/", cfg.BaseURL)
}

func TestRun_StampsStartTime(t *testing.T) {
	cfg := newWorkspace(t)
	rc, driver := newRun(cfg)
	started := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	rc.now = func() time.Time {
		// the clock is read before any scenario touches the browser
		assert.Empty(t, driver.Calls())
		return started
	}

	require.ErrorIs(t, rc.Execute(newCmd(), nil), ErrScenariosFailed)

	output, err := storage.NewJSONStorage(cfg).Load()
	require.NoError(t, err)
	assert.Equal(t, started.Format(time.RFC3339), output.Meta.Timestamp)
}

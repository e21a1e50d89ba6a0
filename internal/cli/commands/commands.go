package commands

import (
	"errors"

	"github.com/spf13/cobra"

	"sitecheck/internal/cli"
	"sitecheck/internal/config"
	"sitecheck/internal/discovery"
	"sitecheck/internal/domain"
	"sitecheck/internal/execution"
	"sitecheck/internal/parser"
	"sitecheck/internal/scenarios"
	"sitecheck/internal/ui"
)

// ErrScenariosFailed is returned by run when at least one scenario failed
var ErrScenariosFailed = errors.New("one or more scenarios failed")

// Commands holds all CLI commands
type Commands struct {
	Run      *RunCommand
	List     *ListCommand
	Failures *FailuresCommand
	Validate *ValidateCommand
}

// NewCommands creates all commands with dependencies.
// cfg is filled in by each command's PreRunE once flags are parsed.
func NewCommands(cfg *config.Config) *Commands {
	filter := discovery.NewFilter()
	formatter := ui.NewFormatter(nil)

	return &Commands{
		Run:      NewRunCommand(cfg, filter, formatter),
		List:     NewListCommand(cfg, filter, formatter),
		Failures: NewFailuresCommand(cfg),
		Validate: NewValidateCommand(parser.NewScriptParser()),
	}
}

// Register registers all commands with cobra
func (c *Commands) Register(rootCmd *cobra.Command, flags *cli.Flags, cfg *config.Config) {
	loadConfig := func(cmd *cobra.Command, args []string) error {
		configFlags, err := flags.ToConfigFlags(cmd)
		if err != nil {
			return err
		}
		loaded, err := config.Load(configFlags)
		if err != nil {
			return err
		}
		*cfg = *loaded
		return nil
	}

	rootCmd.PersistentFlags().StringVarP(&flags.ConfigFile, "config", "c", "", "Path to the config file (default sitecheck.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&flags.EnvFile, "env-file", "", "Path to the dotenv file (default .env when present)")

	// Run command
	runCmd := &cobra.Command{
		Use:     "run",
		Short:   "Run the browser scenarios",
		Long:    "Run the built-in and discovered scenarios against the site in one browser session and write the HTML report",
		RunE:    c.Run.Execute,
		PreRunE: loadConfig,
	}
	runCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter scenarios by name pattern (supports wildcards, e.g., 'join-*' or '*sales*')")
	runCmd.Flags().StringVarP(&flags.ScenarioDir, "scenarios", "s", "", "Directory scanned for scenario scripts")
	runCmd.Flags().BoolVar(&flags.NoBuiltin, "no-builtin", false, "Do not run the built-in scenarios")
	runCmd.Flags().BoolVar(&flags.FailFast, "fail-fast", false, "Skip the remaining scenarios after the first failure")
	runCmd.Flags().BoolVar(&flags.OnlyFailed, "failed", false, "Run only scenarios that failed in the last run")
	runCmd.Flags().StringVar(&flags.BaseURL, "base-url", "", "Base URL relative scenario URLs resolve against")
	runCmd.Flags().BoolVar(&flags.Headless, "headless", true, "Run Chrome headless")
	runCmd.Flags().StringVar(&flags.ChromeBin, "chrome-bin", "", "Chrome binary to launch")
	runCmd.Flags().StringVar(&flags.ReportPath, "report", "", "HTML report path; screenshots are written next to it")
	runCmd.Flags().StringArrayVar(&flags.Vars, "var", nil, "Scenario variable override as key=value (repeatable)")
	runCmd.Flags().BoolVar(&flags.OpenFailures, "open-failures", false, "Open the failures viewer when the run finishes with failures")
	rootCmd.AddCommand(runCmd)

	// List command
	listCmd := &cobra.Command{
		Use:     "list",
		Short:   "List scenarios",
		Long:    "Load and list the scenarios that run would execute, without opening a browser",
		RunE:    c.List.Execute,
		PreRunE: loadConfig,
	}
	listCmd.Flags().StringVarP(&flags.NameFilter, "filter", "f", "", "Filter scenarios by name pattern (supports wildcards, e.g., 'join-*' or '*sales*')")
	listCmd.Flags().StringVarP(&flags.ScenarioDir, "scenarios", "s", "", "Directory scanned for scenario scripts")
	listCmd.Flags().BoolVar(&flags.NoBuiltin, "no-builtin", false, "Do not list the built-in scenarios")
	listCmd.Flags().StringArrayVar(&flags.Vars, "var", nil, "Scenario variable override as key=value (repeatable)")
	rootCmd.AddCommand(listCmd)

	// Failures command
	failuresCmd := &cobra.Command{
		Use:     "failures",
		Short:   "View scenario failures interactively",
		Long:    "Display scenario failures from the last run in an interactive viewer; R marks a failure resolved",
		RunE:    c.Failures.Execute,
		PreRunE: loadConfig,
	}
	rootCmd.AddCommand(failuresCmd)

	// Validate command
	validateCmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate scenario scripts",
		Long:  "Check scenario scripts against the scenario schema without running them",
		Args:  cobra.MinimumNArgs(1),
		RunE:  c.Validate.Execute,
	}
	rootCmd.AddCommand(validateCmd)
}

// loadCases collects and compiles the scenarios selected by cfg
func loadCases(cfg *config.Config, filter *discovery.Filter) ([]execution.TestCase, []*domain.Script, error) {
	scripts, err := scenarios.Collect(scenarios.Sources{
		Builtin:  cfg.Builtin,
		Dir:      cfg.ScenarioDir,
		SkipDirs: cfg.PathsToIgnore,
	})
	if err != nil {
		return nil, nil, err
	}

	compiler, err := scenarios.NewCompiler(cfg.BaseURL, cfg.Vars)
	if err != nil {
		return nil, nil, err
	}
	cases, err := compiler.CompileAll(scripts)
	if err != nil {
		return nil, nil, err
	}
	return filter.FilterByName(cases, cfg.Flags.NameFilter), scripts, nil
}

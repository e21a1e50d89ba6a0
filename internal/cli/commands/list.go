package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sitecheck/internal/config"
	"sitecheck/internal/discovery"
	"sitecheck/internal/storage"
	"sitecheck/internal/ui"
)

// ListCommand handles the list command
type ListCommand struct {
	config    *config.Config
	filter    *discovery.Filter
	formatter *ui.Formatter
}

// NewListCommand creates a new ListCommand
func NewListCommand(cfg *config.Config, filter *discovery.Filter, formatter *ui.Formatter) *ListCommand {
	return &ListCommand{
		config:    cfg,
		filter:    filter,
		formatter: formatter,
	}
}

// Execute runs the command
func (lc *ListCommand) Execute(cmd *cobra.Command, args []string) error {
	cases, _, err := loadCases(lc.config, lc.filter)
	if err != nil {
		return err
	}
	if len(cases) == 0 {
		color.Yellow("No scenarios found")
		return nil
	}

	// Mark scenarios that failed last time; a missing results file just means no marks
	failed := make(map[string]struct{})
	if last, err := storage.NewJSONStorage(lc.config).Load(); err == nil {
		for _, f := range last.Failures() {
			failed[f.Name] = struct{}{}
		}
	}

	rows := make([]ui.ScenarioRow, 0, len(cases))
	for _, tc := range cases {
		rows = append(rows, ui.ScenarioRow{
			Name:        tc.Name,
			Description: tc.Description,
			Steps:       len(tc.Steps),
			Source:      tc.Source,
		})
	}
	lc.formatter.PrintScenarioList(rows, failed)
	return nil
}

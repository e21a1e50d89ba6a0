package ui

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"sitecheck/internal/domain"
)

// Formatter formats and displays output
type Formatter struct {
	out io.Writer
}

// NewFormatter creates a new Formatter writing to out, color.Output when nil
func NewFormatter(out io.Writer) *Formatter {
	if out == nil {
		out = color.Output
	}
	return &Formatter{out: out}
}

// PrintMetaStats displays the statistics of a finished run
func (f *Formatter) PrintMetaStats(output *domain.RunOutput) {
	meta := output.Meta

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.SetTitle("Scenario Execution Statistics")
	t.AppendRows([]table.Row{
		{"Run ID", meta.RunID},
		{"Base URL", meta.BaseURL},
		{"Total Scenarios", meta.Total},
		{"Passed", color.GreenString("%d", meta.Passed)},
		{"Failed", color.RedString("%d", meta.Failed)},
		{"Skipped", color.BlueString("%d", meta.Skipped)},
		{"Duration", fmt.Sprintf("%.2fs", meta.DurationSeconds)},
		{"Report", meta.ReportPath},
		{"Timestamp", meta.Timestamp},
	})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Colors: text.Colors{text.FgCyan}},
	})
	t.SetStyle(table.StyleLight)
	fmt.Fprintln(f.out)
	t.Render()

	// Print summary line
	fmt.Fprintln(f.out)
	if meta.Failed == 0 {
		color.New(color.FgGreen).Fprintln(f.out, "✓ All scenarios passed!")
		return
	}
	color.New(color.FgRed).Fprintf(f.out, "✗ %d scenario(s) failed\n\n", meta.Failed)
	f.printFailedTree(output.Failures())
}

// printFailedTree prints failed scenarios grouped by where they were defined
func (f *Formatter) printFailedTree(failures []domain.TestResult) {
	bySource := make(map[string][]domain.TestResult)
	for _, failure := range failures {
		bySource[failure.Source] = append(bySource[failure.Source], failure)
	}
	sources := make([]string, 0, len(bySource))
	for source := range bySource {
		sources = append(sources, source)
	}
	sort.Strings(sources)

	cyan := color.New(color.FgCyan)
	red := color.New(color.FgRed)
	for i, source := range sources {
		branch, indent := "├── ", "│   "
		if i == len(sources)-1 {
			branch, indent = "└── ", "    "
		}
		cyan.Fprintf(f.out, "%s%s\n", branch, sourceLabel(source))
		cases := bySource[source]
		for j, failure := range cases {
			leaf := "├── "
			if j == len(cases)-1 {
				leaf = "└── "
			}
			red.Fprintf(f.out, "%s%s%s", indent, leaf, failure.Name)
			if failure.FailedStep != "" {
				fmt.Fprintf(f.out, " (%s)", failure.FailedStep)
			}
			fmt.Fprintln(f.out)
		}
	}
}

// ScenarioRow is one line of the scenario list
type ScenarioRow struct {
	Name        string
	Description string
	Steps       int
	Source      string
}

// PrintScenarioList prints the scenarios that would run.
// failed is optional; scenarios in it are marked with [F] (from last run).
func (f *Formatter) PrintScenarioList(rows []ScenarioRow, failed map[string]struct{}) {
	color.New(color.FgGreen).Fprintf(f.out, "Found %d scenario(s):\n", len(rows))

	t := table.NewWriter()
	t.SetOutputMirror(f.out)
	t.AppendHeader(table.Row{"#", "Name", "Description", "Steps", "Source", "Last"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Description", WidthMax: 60, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Steps", Align: text.AlignRight},
	})
	for i, row := range rows {
		last := ""
		if _, ok := failed[row.Name]; ok {
			last = color.RedString("[F]")
		}
		t.AppendRow(table.Row{i + 1, row.Name, row.Description, row.Steps, sourceLabel(row.Source), last})
	}
	t.SetStyle(table.StyleLight)
	t.Render()
}

func sourceLabel(source string) string {
	if source == "" {
		return "(unknown)"
	}
	return strings.TrimPrefix(source, "./")
}

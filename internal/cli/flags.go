package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"sitecheck/internal/config"
)

// Flags holds command-line flags
type Flags struct {
	ConfigFile   string
	EnvFile      string
	NameFilter   string
	ScenarioDir  string
	FailFast     bool
	OnlyFailed   bool
	BaseURL      string
	Headless     bool
	ChromeBin    string
	ReportPath   string
	Vars         []string
	OpenFailures bool
	NoBuiltin    bool
}

// ToConfigFlags converts CLI flags to config flags.
// Flags not given on the command line stay unset so lower layers apply.
func (f *Flags) ToConfigFlags(cmd *cobra.Command) (config.Flags, error) {
	vars, err := ParseVars(f.Vars)
	if err != nil {
		return config.Flags{}, err
	}

	out := config.Flags{
		ConfigFile:   f.ConfigFile,
		EnvFile:      f.EnvFile,
		NameFilter:   f.NameFilter,
		ScenarioDir:  f.ScenarioDir,
		FailFast:     f.FailFast,
		OnlyFailed:   f.OnlyFailed,
		BaseURL:      f.BaseURL,
		ChromeBin:    f.ChromeBin,
		ReportPath:   f.ReportPath,
		Vars:         vars,
		OpenFailures: f.OpenFailures,
		NoBuiltin:    f.NoBuiltin,
	}
	if cmd != nil && cmd.Flags().Changed("headless") {
		headless := f.Headless
		out.Headless = &headless
	}
	return out, nil
}

// ParseVars parses repeated key=value pairs; later pairs win
func ParseVars(pairs []string) (map[string]string, error) {
	vars := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --var %q, expected key=value", pair)
		}
		vars[key] = value
	}
	return vars, nil
}

package commands

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"sitecheck/internal/parser"
)

// ValidateCommand handles the validate command
type ValidateCommand struct {
	parser parser.Parser
}

// NewValidateCommand creates a new ValidateCommand
func NewValidateCommand(p parser.Parser) *ValidateCommand {
	return &ValidateCommand{parser: p}
}

// Execute validates every file given and reports all invalid ones
func (vc *ValidateCommand) Execute(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	invalid := 0
	for _, path := range args {
		script, err := vc.parser.ParseFile(path)
		if err != nil {
			invalid++
			color.New(color.FgRed).Fprintf(out, "✗ %v\n", err)
			continue
		}
		color.New(color.FgGreen).Fprintf(out, "✓ %s (%s, %d steps)\n", path, script.Name, len(script.Steps))
	}
	if invalid > 0 {
		return fmt.Errorf("%d of %d scenario file(s) invalid", invalid, len(args))
	}
	return nil
}

package commands

import (
	"github.com/spf13/cobra"

	"sitecheck/internal/config"
	"sitecheck/internal/storage"
	"sitecheck/internal/ui"
)

// FailuresCommand handles the failures command
type FailuresCommand struct {
	config *config.Config
}

// NewFailuresCommand creates a new FailuresCommand
func NewFailuresCommand(cfg *config.Config) *FailuresCommand {
	return &FailuresCommand{config: cfg}
}

// Execute runs the command
func (fc *FailuresCommand) Execute(cmd *cobra.Command, args []string) error {
	st, closeStorage, err := storage.Open(cmd.Context(), fc.config)
	if err != nil {
		return err
	}
	defer closeStorage()

	results, err := st.Load()
	if err != nil {
		return err
	}
	return ui.NewErrorViewer(st).View(results)
}

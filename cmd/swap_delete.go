package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/swap"
	"github.com/sysid/rsenv/internal/ui"
)

var swapDeleteCmd = &cobra.Command{
	Use:   "delete <file> [<file> ...]",
	Short: "Remove files from swap management (all-or-nothing)",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Deleting swap records...")
		defer cleanup()

		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("swap needs a bound project: %v", err)
		}

		engine := swap.NewEngine(FS, Logger)
		if err := engine.Delete(binding, args); err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Nothing deleted\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}

		spinner.FinalMSG = color.GreenString("✓") + " Deleted " +
			ui.Highlight.Sprintf("%d", len(args)) + " swap record(s)"
		return nil
	},
}

package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/guard"
	"github.com/sysid/rsenv/internal/ui"
)

var guardRestoreCmd = &cobra.Command{
	Use:   "restore <file> [<file> ...]",
	Short: "Move guarded files back into the project",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Restoring files...")
		defer cleanup()

		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("guard needs a bound project: %v", err)
		}

		engine := guard.NewEngine(FS, Logger)
		for _, path := range args {
			rel, err := engine.Rel(binding, path)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
				return err
			}
			if err := engine.Restore(binding, rel); err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to restore " + ui.Path.Sprint(rel) + "\n" +
					color.RedString("Error: ") + err.Error()
				return err
			}
			Logger.Infof("restored %s", rel)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Restored " +
			ui.Highlight.Sprintf("%d", len(args)) + " file(s)"
		return nil
	},
}

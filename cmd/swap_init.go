package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/swap"
	"github.com/sysid/rsenv/internal/ui"
)

var swapInitCmd = &cobra.Command{
	Use:   "init <file> [<file> ...]",
	Short: "Seed swap management: move the current file into the vault as the alternate version",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Initializing swap files...")
		defer cleanup()

		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("swap needs a bound project: %v", err)
		}

		engine := swap.NewEngine(FS, Logger)
		for _, path := range args {
			if err := engine.Init(binding, path); err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to init swap for " + ui.Path.Sprint(path) + "\n" +
					color.RedString("Error: ") + err.Error()
				return err
			}
			Logger.Infof("swap initialized for %s", path)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Swap initialized for " +
			ui.Highlight.Sprintf("%d", len(args)) + " file(s)\n" +
			color.CyanString("→") + " Edit the vault copy, then run " + ui.Code.Sprint("rsenv swap in")
		return nil
	},
}

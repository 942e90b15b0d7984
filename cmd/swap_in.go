package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/swap"
	"github.com/sysid/rsenv/internal/ui"
)

var swapForce bool

var swapInCmd = &cobra.Command{
	Use:   "in <file> [<file> ...]",
	Short: "Overlay the vault's alternate version onto the project file",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Swapping in...")
		defer cleanup()

		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("swap needs a bound project: %v", err)
		}

		engine := swap.NewEngine(FS, Logger)
		for _, path := range args {
			if err := engine.In(binding, path, swapForce); err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to swap in " + ui.Path.Sprint(path) + "\n" +
					color.RedString("Error: ") + err.Error()
				return err
			}
			Logger.Infof("swapped in %s", path)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Swapped in " +
			ui.Highlight.Sprintf("%d", len(args)) + " file(s) on " + ui.Highlight.Sprint(engine.Host)
		return nil
	},
}

var swapOutCmd = &cobra.Command{
	Use:   "out <file> [<file> ...]",
	Short: "Restore the project original, capturing edits back into the vault",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Swapping out...")
		defer cleanup()

		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("swap needs a bound project: %v", err)
		}

		engine := swap.NewEngine(FS, Logger)
		for _, path := range args {
			if err := engine.Out(binding, path); err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to swap out " + ui.Path.Sprint(path) + "\n" +
					color.RedString("Error: ") + err.Error()
				return err
			}
			Logger.Infof("swapped out %s", path)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Swapped out " +
			ui.Highlight.Sprintf("%d", len(args)) + " file(s)"
		return nil
	},
}

func init() {
	swapInCmd.Flags().BoolVar(&swapForce, "force", false, "override a swap-in held by another host")
}

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/swap"
	"github.com/sysid/rsenv/internal/ui"
)

var swapStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show every swap record with its state and holding host",
	RunE: func(cmd *cobra.Command, args []string) error {
		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("swap needs a bound project: %v", err)
		}

		engine := swap.NewEngine(FS, Logger)
		statuses, err := engine.StatusAll(binding)
		if err != nil {
			return Logger.ErrorfAndReturn("swap status failed: %v", err)
		}

		if len(statuses) == 0 {
			fmt.Println(ui.Muted.Sprint("no swap records"))
			return nil
		}
		for _, s := range statuses {
			if s.State == swap.StateIn {
				fmt.Printf("%s  %s\n", s.Rel, ui.Warning.Sprintf("IN@%s", s.Host))
			} else {
				fmt.Printf("%s  %s\n", s.Rel, ui.Success.Sprint("OUT"))
			}
		}
		return nil
	},
}

var swapAllOutCmd = &cobra.Command{
	Use:   "all-out <base-dir>",
	Short: "Swap out everything held by this host under a base directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Swapping out all projects...")
		defer cleanup()

		binder, err := defaultBinder()
		if err != nil {
			return Logger.ErrorfAndReturn("loading config failed: %v", err)
		}

		engine := swap.NewEngine(FS, Logger)
		reports, err := engine.AllOut(binder, args[0])
		if err != nil {
			spinner.FinalMSG = ui.Error.Sprint("✗") + " Traversal failed: " + err.Error()
			return err
		}

		processed, failed := 0, 0
		for _, r := range reports {
			if r.Err != nil {
				failed++
				Logger.WarnfAlways("%s: %v", r.ProjectDir, r.Err)
				continue
			}
			processed++
			Logger.Infof("%s: swapped out %d file(s)", r.ProjectDir, len(r.SwappedOut))
		}

		msg := ui.Success.Sprint("✓") + " Swapped out " +
			ui.Highlight.Sprintf("%d", processed) + " project(s)"
		if failed > 0 {
			msg += ", " + ui.Error.Sprintf("%d failed", failed)
		}
		spinner.FinalMSG = msg
		return nil
	},
}

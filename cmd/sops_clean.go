package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/ui"
)

var sopsCleanCmd = &cobra.Command{
	Use:   "clean [dir]",
	Short: "Remove plaintext files that have an .enc sibling",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Removing plaintext files...")
		defer cleanup()

		wrapper, dir, isVaultRoot, err := sopsTarget(args)
		if err != nil {
			return Logger.ErrorfAndReturn("sops clean: %v", err)
		}

		removed, err := wrapper.Clean(dir)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Clean failed\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}

		if isVaultRoot {
			if err := wrapper.SyncGitignore(dir); err != nil {
				Logger.WarnfAlways("update .gitignore: %v", err)
			}
		}

		spinner.FinalMSG = color.GreenString("✓") + " Removed " +
			ui.Highlight.Sprintf("%d", len(removed)) + " plaintext file(s)"
		return nil
	},
}

var sopsStatusCmd = &cobra.Command{
	Use:   "status [dir]",
	Short: "Bucket every candidate: current, stale, pending_encrypt, orphaned",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wrapper, dir, _, err := sopsTarget(args)
		if err != nil {
			return Logger.ErrorfAndReturn("sops status: %v", err)
		}

		statuses, err := wrapper.Status(dir)
		if err != nil {
			return Logger.ErrorfAndReturn("sops status: %v", err)
		}

		if len(statuses) == 0 {
			fmt.Println(ui.Muted.Sprint("no candidate files"))
			return nil
		}
		for _, s := range statuses {
			fmt.Printf("%-16s %s\n", s.Bucket, s.Path)
		}
		return nil
	},
}

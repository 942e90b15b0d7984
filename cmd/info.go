package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/swap"
	"github.com/sysid/rsenv/internal/ui"
	"github.com/sysid/rsenv/internal/workflows"
)

var InfoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show the binding status of this project",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := ProjectDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve project directory: %v", err)
		}

		result, err := workflows.Info(cmd.Context(), FS, Logger, workflows.InfoOptions{ProjectDir: dir})
		if err != nil {
			return Logger.ErrorfAndReturn("info failed: %v", err)
		}

		if result.Violation != "" {
			fmt.Println(ui.Error.Sprint("✗") + " Binding violation: " + result.Violation)
			return nil
		}
		if !result.Bound {
			fmt.Println(ui.Muted.Sprint("not bound") + " - run " + ui.Code.Sprint("rsenv init"))
			return nil
		}

		fmt.Println(ui.Success.Sprint("✓") + " Bound")
		fmt.Println("  vault:     " + ui.Path.Sprint(result.VaultPath))
		fmt.Println("  sentinel:  " + ui.Highlight.Sprint(result.Sentinel))
		fmt.Println("  since:     " + result.Timestamp)
		fmt.Println("  source:    " + result.SourceDir)
		fmt.Printf("  guarded:   %d file(s)\n", result.GuardedFiles)
		fmt.Printf("  swap:      %d record(s)\n", len(result.SwapRecords))
		for _, s := range result.SwapRecords {
			if s.State == swap.StateIn {
				fmt.Printf("    %s %s\n", s.Rel, ui.Warning.Sprintf("IN@%s", s.Host))
			}
		}
		return nil
	},
}

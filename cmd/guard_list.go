package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/guard"
	"github.com/sysid/rsenv/internal/ui"
)

var guardListCmd = &cobra.Command{
	Use:   "list",
	Short: "List every guarded file of this project",
	RunE: func(cmd *cobra.Command, args []string) error {
		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("guard needs a bound project: %v", err)
		}

		engine := guard.NewEngine(FS, Logger)
		records, err := engine.List(binding)
		if err != nil {
			return Logger.ErrorfAndReturn("listing guarded files failed: %v", err)
		}

		if len(records) == 0 {
			fmt.Println(ui.Muted.Sprint("no guarded files"))
			return nil
		}
		for _, r := range records {
			fmt.Printf("%s -> %s\n", r.Rel, ui.Path.Sprint(r.VaultPath))
		}
		return nil
	},
}

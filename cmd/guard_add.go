package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/guard"
	"github.com/sysid/rsenv/internal/ui"
	"github.com/sysid/rsenv/internal/vault"
)

var guardAbsolute bool

var guardAddCmd = &cobra.Command{
	Use:   "add <file> [<file> ...]",
	Short: "Move files into the vault and symlink them back",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Guarding files...")
		defer cleanup()

		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("guard needs a bound project: %v", err)
		}

		style := vault.LinkRelative
		if guardAbsolute {
			style = vault.LinkAbsolute
		}

		engine := guard.NewEngine(FS, Logger)
		var guarded []string
		for _, path := range args {
			rel, err := engine.Rel(binding, path)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " " + err.Error()
				return err
			}
			record, err := engine.Add(binding, rel, style)
			if err != nil {
				spinner.FinalMSG = color.RedString("✗") + " Failed to guard " + ui.Path.Sprint(rel) + "\n" +
					color.RedString("Error: ") + err.Error()
				return err
			}
			Logger.Infof("guarded %s -> %s", record.Rel, record.VaultPath)
			guarded = append(guarded, record.Rel)
		}

		spinner.FinalMSG = color.GreenString("✓") + " Guarded " +
			ui.Highlight.Sprintf("%d", len(guarded)) + " file(s)"
		return nil
	},
}

func init() {
	guardAddCmd.Flags().BoolVar(&guardAbsolute, "absolute", false, "use absolute symlink targets")
}

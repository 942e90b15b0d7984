package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/envgraph"
	"github.com/sysid/rsenv/internal/ui"
)

var envEnvrcCmd = &cobra.Command{
	Use:   "envrc <leaf> [envrc-path]",
	Short: "Write the merged variables into an .envrc's managed vars block",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Updating .envrc...")
		defer cleanup()

		var target string
		if len(args) == 2 {
			target = args[1]
		} else {
			binding, err := discoverBinding()
			if err != nil {
				return Logger.ErrorfAndReturn("no envrc path given and %v", err)
			}
			target = binding.Vault.DotEnvrc()
		}

		resolver := envgraph.NewResolver(FS)
		if err := resolver.WriteEnvrc(args[0], target); err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to update " + ui.Path.Sprint(target) + "\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}

		spinner.FinalMSG = color.GreenString("✓") + " Updated vars block in " + ui.Path.Sprint(target)
		return nil
	},
}

var envSelectCmd = &cobra.Command{
	Use:   "select <leaf>",
	Short: "Activate a leaf by rewriting the vault's dot.envrc vars block",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Selecting environment...")
		defer cleanup()

		binding, err := discoverBinding()
		if err != nil {
			return Logger.ErrorfAndReturn("select needs a bound project: %v", err)
		}

		resolver := envgraph.NewResolver(FS)
		if err := resolver.WriteEnvrc(args[0], binding.Vault.DotEnvrc()); err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to select " + ui.Path.Sprint(args[0]) + "\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}

		spinner.FinalMSG = color.GreenString("✓") + " Selected " + ui.Path.Sprint(args[0])
		return nil
	},
}

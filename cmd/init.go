package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/ui"
	"github.com/sysid/rsenv/internal/workflows"
)

var initAbsolute bool

var InitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a vault for this project and bind it via the .envrc symlink",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Initializing vault...")
		defer cleanup()

		dir, err := ProjectDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve project directory: %v", err)
		}

		result, err := workflows.Init(cmd.Context(), FS, Logger, workflows.InitOptions{
			ProjectDir: dir,
			Absolute:   initAbsolute,
		})
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Failed to initialize vault\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}

		spinner.FinalMSG = color.GreenString("✓") + " Vault created at " + ui.Path.Sprint(result.VaultPath) + "\n" +
			color.CyanString("→") + " Sentinel " + ui.Highlight.Sprint(result.Sentinel) + "\n" +
			color.CyanString("→") + " Your " + ui.Path.Sprint(".envrc") + " now points into the vault"
		return nil
	},
}

var initResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Dissolve the binding: restore guarded files and bring .envrc back",
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Resetting project...")
		defer cleanup()

		dir, err := ProjectDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve project directory: %v", err)
		}

		result, err := workflows.Reset(cmd.Context(), FS, Logger, workflows.ResetOptions{ProjectDir: dir})
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Reset failed\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}

		spinner.FinalMSG = color.GreenString("✓") + " Project reset, " +
			ui.Highlight.Sprintf("%d", result.RestoredGuards) + " guarded file(s) restored\n" +
			color.CyanString("→") + " Vault kept at " + ui.Path.Sprint(result.VaultPath) + ", remove it manually when done"
		return nil
	},
}

var initReconnectCmd = &cobra.Command{
	Use:   "reconnect <dot-envrc-path>",
	Short: "Re-create the .envrc symlink to an existing vault",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Reconnecting vault...")
		defer cleanup()

		dir, err := ProjectDir()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to resolve project directory: %v", err)
		}

		result, err := workflows.Reconnect(cmd.Context(), FS, Logger, workflows.ReconnectOptions{
			ProjectDir: dir,
			DotEnvrc:   args[0],
		})
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Reconnect failed\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}

		spinner.FinalMSG = color.GreenString("✓") + " Reconnected to vault " + ui.Path.Sprint(result.VaultPath)
		return nil
	},
}

func init() {
	InitCmd.Flags().BoolVar(&initAbsolute, "absolute", false, "use absolute symlink targets")
	InitCmd.AddCommand(initResetCmd)
	InitCmd.AddCommand(initReconnectCmd)
}

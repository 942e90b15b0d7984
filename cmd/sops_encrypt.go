package cmd

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/ui"
	"github.com/sysid/rsenv/internal/utils"
)

var sopsEncryptCmd = &cobra.Command{
	Use:   "encrypt [dir]",
	Short: "Encrypt every candidate file without an .enc sibling",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Encrypting files...")
		defer cleanup()

		wrapper, dir, isVaultRoot, err := sopsTarget(args)
		if err != nil {
			return Logger.ErrorfAndReturn("sops encrypt: %v", err)
		}

		encrypted, failures, err := wrapper.Encrypt(cmd.Context(), dir)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Encryption failed\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}
		for _, f := range failures {
			Logger.WarnfAlways("%v", f)
		}

		// Keep the vault's .gitignore covering every plaintext pattern.
		if isVaultRoot {
			if err := wrapper.SyncGitignore(dir); err != nil {
				Logger.WarnfAlways("update .gitignore: %v", err)
			}
		}

		msg := color.GreenString("✓") + " Encrypted " +
			ui.Highlight.Sprintf("%d", len(encrypted)) + " file(s)"
		if len(encrypted) > 0 {
			msg += utils.FormatPaths(encrypted)
		}
		if len(failures) > 0 {
			msg += ui.Error.Sprintf("%d file(s) failed", len(failures))
		}
		spinner.FinalMSG = msg
		return nil
	},
}

var sopsDecryptCmd = &cobra.Command{
	Use:   "decrypt [dir]",
	Short: "Decrypt every .enc file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		spinner, cleanup := startSpinner("Decrypting files...")
		defer cleanup()

		wrapper, dir, _, err := sopsTarget(args)
		if err != nil {
			return Logger.ErrorfAndReturn("sops decrypt: %v", err)
		}

		decrypted, failures, err := wrapper.Decrypt(cmd.Context(), dir)
		if err != nil {
			spinner.FinalMSG = color.RedString("✗") + " Decryption failed\n" +
				color.RedString("Error: ") + err.Error()
			return err
		}
		for _, f := range failures {
			Logger.WarnfAlways("%v", f)
		}

		msg := color.GreenString("✓") + " Decrypted " +
			ui.Highlight.Sprintf("%d", len(decrypted)) + " file(s)"
		if len(failures) > 0 {
			msg += ", " + ui.Error.Sprintf("%d failed", len(failures))
		}
		spinner.FinalMSG = msg
		return nil
	},
}

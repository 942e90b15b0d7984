package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/cmd"
)

var rootCmd = &cobra.Command{
	Use:   "rsenv",
	Short: "rsenv - per-project developer workspace manager",
	Long: `rsenv keeps a companion vault directory for each project, outside the
project tree. The vault holds hierarchical env files, relocated
sensitive files (guard), and toggleable alternate file versions (swap).
The only on-disk trace inside the project is the .envrc symlink.

Run 'rsenv help <command>' for details on a specific command.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// isUsageError recognizes cobra's argument and flag parsing failures.
func isUsageError(err error) bool {
	msg := err.Error()
	return strings.HasPrefix(msg, "unknown command") ||
		strings.HasPrefix(msg, "unknown flag") ||
		strings.HasPrefix(msg, "unknown shorthand flag") ||
		strings.Contains(msg, "accepts") ||
		strings.HasPrefix(msg, "requires at least") ||
		strings.HasPrefix(msg, "flag needs an argument") ||
		strings.HasPrefix(msg, "required flag")
}

func main() {
	cmd.SetupGlobalFlags(rootCmd)

	rootCmd.AddCommand(cmd.InitCmd)
	rootCmd.AddCommand(cmd.EnvCmd)
	rootCmd.AddCommand(cmd.GuardCmd)
	rootCmd.AddCommand(cmd.SwapCmd)
	rootCmd.AddCommand(cmd.SopsCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)
	rootCmd.AddCommand(cmd.InfoCmd)
	rootCmd.AddCommand(cmd.CompletionCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "rsenv: %v\n", err)
		if isUsageError(err) {
			os.Exit(cmd.ExitUsage)
		}
		os.Exit(cmd.ExitCode(err))
	}
}

package cmd

import (
	"github.com/spf13/cobra"
)

var GuardCmd = &cobra.Command{
	Use:   "guard",
	Short: "Relocate sensitive files into the vault, leaving symlinks behind",
}

func init() {
	GuardCmd.AddCommand(guardAddCmd)
	GuardCmd.AddCommand(guardListCmd)
	GuardCmd.AddCommand(guardRestoreCmd)
}

package cmd

import (
	"github.com/spf13/cobra"
)

var SwapCmd = &cobra.Command{
	Use:   "swap",
	Short: "Toggle alternate versions of project files, tracked per host",
}

func init() {
	SwapCmd.AddCommand(swapInitCmd)
	SwapCmd.AddCommand(swapInCmd)
	SwapCmd.AddCommand(swapOutCmd)
	SwapCmd.AddCommand(swapStatusCmd)
	SwapCmd.AddCommand(swapAllOutCmd)
	SwapCmd.AddCommand(swapDeleteCmd)
}

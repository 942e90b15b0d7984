package cmd

import (
	"github.com/spf13/cobra"
)

var EnvCmd = &cobra.Command{
	Use:   "env",
	Short: "Build, inspect, and edit hierarchical env files",
	Long: `Env files may name parent files with '# rsenv:' directive lines,
forming a DAG. Building merges the hierarchy bottom-up so the last
writer wins in a deterministic order.`,
}

func init() {
	EnvCmd.AddCommand(envBuildCmd)
	EnvCmd.AddCommand(envFilesCmd)
	EnvCmd.AddCommand(envEnvrcCmd)
	EnvCmd.AddCommand(envSelectCmd)
	EnvCmd.AddCommand(envTreeCmd)
	EnvCmd.AddCommand(envBranchesCmd)
	EnvCmd.AddCommand(envLeavesCmd)
	EnvCmd.AddCommand(envLinkCmd)
	EnvCmd.AddCommand(envUnlinkCmd)
	EnvCmd.AddCommand(envEditCmd)
	EnvCmd.AddCommand(envEditLeafCmd)
	EnvCmd.AddCommand(envTreeEditCmd)
}

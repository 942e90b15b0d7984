package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/envgraph"
)

var envBuildCmd = &cobra.Command{
	Use:   "build <leaf>",
	Short: "Merge the hierarchy rooted at a leaf and print export lines",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		bindings, err := resolver.Build(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("build failed: %v", err)
		}
		fmt.Print(envgraph.Render(bindings))
		return nil
	},
}

var envFilesCmd = &cobra.Command{
	Use:   "files <leaf>",
	Short: "Print the files of the hierarchy in merge order",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		files, err := resolver.Files(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("resolving files failed: %v", err)
		}
		for _, f := range files {
			fmt.Println(f)
		}
		return nil
	},
}

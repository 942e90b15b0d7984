package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/envgraph"
)

// printProblems reports unreadable files inline; the traversal itself
// already continued past them.
func printProblems(problems []string) {
	for _, p := range problems {
		Logger.WarnfAlways("%s", p)
	}
}

var envTreeCmd = &cobra.Command{
	Use:   "tree <dir>",
	Short: "Show the env hierarchy of a directory as an ASCII tree",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		forest, err := resolver.Scan(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("scan failed: %v", err)
		}
		printProblems(forest.Problems)
		fmt.Print(forest.Tree())
		return nil
	},
}

var envBranchesCmd = &cobra.Command{
	Use:   "branches <dir>",
	Short: "List every root-to-leaf path in the env forest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		forest, err := resolver.Scan(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("scan failed: %v", err)
		}
		printProblems(forest.Problems)
		for _, b := range forest.Branches() {
			fmt.Println(b)
		}
		return nil
	},
}

var envLeavesCmd = &cobra.Command{
	Use:   "leaves <dir>",
	Short: "List env files no other file names as parent",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		forest, err := resolver.Scan(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("scan failed: %v", err)
		}
		printProblems(forest.Problems)
		for _, l := range forest.Leaves() {
			fmt.Println(l)
		}
		return nil
	},
}

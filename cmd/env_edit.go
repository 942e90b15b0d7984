package cmd

import (
	"fmt"
	"os"
	"os/exec"
	"sort"

	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/configs"
	"github.com/sysid/rsenv/internal/envgraph"
)

// spawnEditor hands the files to the configured editor. The editor is an
// external collaborator; only argument assembly and exit propagation
// happen here.
func spawnEditor(files []string) error {
	if len(files) == 0 {
		return fmt.Errorf("no env files to edit")
	}
	cfg, err := configs.Load("")
	if err != nil {
		return err
	}

	editor := exec.Command(cfg.Editor, files...)
	editor.Stdin = os.Stdin
	editor.Stdout = os.Stdout
	editor.Stderr = os.Stderr
	if err := editor.Run(); err != nil {
		return fmt.Errorf("editor %s: %w", cfg.Editor, err)
	}
	return nil
}

var envEditCmd = &cobra.Command{
	Use:   "edit <dir>",
	Short: "Open all env files of a directory in the editor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		forest, err := resolver.Scan(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("scan failed: %v", err)
		}
		printProblems(forest.Problems)

		files := make([]string, 0, len(forest.Nodes))
		for path := range forest.Nodes {
			files = append(files, path)
		}
		sort.Strings(files)
		return spawnEditor(files)
	},
}

var envEditLeafCmd = &cobra.Command{
	Use:   "edit-leaf <leaf>",
	Short: "Open a leaf and all its ancestors in the editor",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		files, err := resolver.Files(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("resolving hierarchy failed: %v", err)
		}
		return spawnEditor(files)
	},
}

var envTreeEditCmd = &cobra.Command{
	Use:   "tree-edit <dir>",
	Short: "Open every hierarchy of a directory in the editor, roots first",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		forest, err := resolver.Scan(args[0])
		if err != nil {
			return Logger.ErrorfAndReturn("scan failed: %v", err)
		}
		printProblems(forest.Problems)

		// Roots first, then remaining nodes in path order.
		seen := map[string]bool{}
		var files []string
		for _, root := range forest.Roots {
			files = append(files, root)
			seen[root] = true
		}
		var rest []string
		for path := range forest.Nodes {
			if !seen[path] {
				rest = append(rest, path)
			}
		}
		sort.Strings(rest)
		files = append(files, rest...)
		return spawnEditor(files)
	},
}

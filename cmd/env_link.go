package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sysid/rsenv/internal/envgraph"
	"github.com/sysid/rsenv/internal/ui"
)

var envLinkCmd = &cobra.Command{
	Use:   "link <root> <child> [<grandchild> ...]",
	Short: "Chain env files so each names its predecessor as parent",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		if err := resolver.Link(args); err != nil {
			return Logger.ErrorfAndReturn("link failed: %v", err)
		}
		fmt.Println(ui.Success.Sprint("✓") + " Linked " + ui.Highlight.Sprintf("%d", len(args)) + " files")
		return nil
	},
}

var envUnlinkCmd = &cobra.Command{
	Use:   "unlink <file>",
	Short: "Remove all rsenv parent directives from an env file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		resolver := envgraph.NewResolver(FS)
		if err := resolver.Unlink(args[0]); err != nil {
			return Logger.ErrorfAndReturn("unlink failed: %v", err)
		}
		fmt.Println(color.GreenString("✓") + " Unlinked " + ui.Path.Sprint(args[0]))
		return nil
	},
}

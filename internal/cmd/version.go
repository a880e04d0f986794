package cmd

import (
	"github.com/dendrascience/toolshack/version"
	"github.com/spf13/cobra"
)

// NewVersionCmd creates and returns the version subcommand.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			version.PrintVersion(cmd.OutOrStdout(), "shack")
		},
	}
}

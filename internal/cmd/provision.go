package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
)

// NewProvisionCmd creates and returns the provision subcommand.
func NewProvisionCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create the bucket directories under the storage root",
		Long: `Create every bucket directory under the storage root.

Existing directories are left alone, so provisioning is safe to repeat.
With --dry-run the bucket names are printed instead.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runProvision(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func runProvision(cmd *cobra.Command, verbose bool) {
	logger := newLogger(verbose)
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	m, err := cfg.Mapper(logger)
	if err != nil {
		log.Fatalf("Failed to provision %s: %v", cfg.Root, err)
	}

	out := cmd.OutOrStdout()
	if m.DryRun() {
		fmt.Fprintf(out, "Would create %d buckets under %s:\n", m.Count(), m.Root())
		for _, name := range m.Buckets() {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return
	}
	fmt.Fprintf(out, "Provisioned %d buckets under %s\n", m.Count(), m.Root())
}

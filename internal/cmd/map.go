package cmd

import (
	"fmt"
	"io"
	"log"

	"github.com/dendrascience/toolshack/bucket"
	"github.com/spf13/cobra"
)

// NewMapCmd creates and returns the map subcommand, which prints the physical
// path of each file name without touching the filesystem.
func NewMapCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "map NAME...",
		Short: "Print the bucketed path of file names",
		Long: `Print where each NAME is stored under the storage root.

Nothing is created or moved; the mapping is computed from the name alone.`,
		Args: cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			logger := newLogger(false)
			cfg, err := loadConfig(cmd, logger)
			if err != nil {
				log.Fatalf("Failed to load configuration: %v", err)
			}
			cfg.DryRun = true
			m, err := cfg.Mapper(logger)
			if err != nil {
				log.Fatalf("Failed to create mapper: %v", err)
			}
			if err := runMap(cmd.OutOrStdout(), m, args); err != nil {
				log.Fatal(err)
			}
		},
	}
}

func runMap(w io.Writer, m *bucket.Mapper, names []string) error {
	for _, name := range names {
		path, err := m.Locate(name)
		if err != nil {
			return fmt.Errorf("mapping %q: %w", name, err)
		}
		fmt.Fprintf(w, "%s -> %s\n", name, path)
	}
	return nil
}

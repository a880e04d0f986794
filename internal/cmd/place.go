package cmd

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"path/filepath"

	"github.com/dendrascience/toolshack/bucket"
	"github.com/dendrascience/toolshack/deferred"
	"github.com/spf13/cobra"
)

// NewPlaceCmd creates and returns the place subcommand. It moves the flat
// files sitting directly in the storage root into their buckets.
func NewPlaceCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "place",
		Short: "Move flat files in the storage root into their buckets",
		Long: `Move every regular file sitting directly in the storage root into the
bucket its name hashes to.

Directories and symlinks are skipped. With --manifest a record of every
placement is merged into ` + bucket.ManifestName + ` in the storage root.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runPlace(cmd, verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolP("manifest", "m", false, "Record placements in "+bucket.ManifestName)

	return cmd
}

func runPlace(cmd *cobra.Command, verbose bool) {
	logger := newLogger(verbose)
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	m, err := cfg.Mapper(logger)
	if err != nil {
		log.Fatalf("Failed to create mapper: %v", err)
	}

	out := cmd.OutOrStdout()
	if verbose {
		fmt.Fprintf(out, "Placing files under %s into %d buckets\n", m.Root(), m.Count())
		if m.DryRun() {
			fmt.Fprintln(out, "DRY RUN - no changes will be made")
		}
	}

	placed, err := m.PlaceAll(cmd.Context())
	if err != nil {
		log.Fatalf("Failed to place files: %v", err)
	}

	if m.DryRun() {
		fmt.Fprintln(out, "Files that would be placed:")
		printPlacements(out, placed)
		return
	}
	if verbose {
		printPlacements(out, placed)
	}

	if cfg.Manifest {
		path := filepath.Join(m.Root(), bucket.ManifestName)
		total, err := mergeManifest(path, placed, logger)
		if err != nil {
			log.Printf("Warning: Failed to write manifest: %v", err)
		} else if verbose {
			fmt.Fprintf(out, "Manifest %s now records %d files\n", path, total)
		}
	}

	fmt.Fprintf(out, "Placed %d files\n", placed.Len())
}

func printPlacements(w io.Writer, placed bucket.Manifest) {
	for p := range placed.Iterate {
		fmt.Fprintf(w, "  %s -> %s\n", p.Name, p.Target)
	}
}

// mergeManifest folds placed into the manifest stored at path, keeping the
// latest placement per name, and returns the number of names recorded.
// A missing manifest starts a new one.
func mergeManifest(path string, placed bucket.Manifest, logger *slog.Logger) (int, error) {
	existing, err := deferred.Open(path, deferred.JSON[bucket.Manifest](), deferred.WithLogger(logger))
	if err != nil {
		return 0, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	merged := existing.ValueOr(bucket.Manifest{})
	for p := range placed.Iterate {
		merged.Add(p)
	}
	merged.Collapse()
	if err := merged.Save(path); err != nil {
		return 0, err
	}
	return merged.Len(), nil
}

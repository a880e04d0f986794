package cmd

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dendrascience/toolshack/bucket"
	"github.com/dendrascience/toolshack/deferred"
	"github.com/spf13/cobra"
)

// NewVerifyCmd creates and returns the verify subcommand for the shack CLI.
// It checks a bucketed root for missing buckets and misplaced files.
func NewVerifyCmd() *cobra.Command {
	var (
		verbose bool
		repair  bool
	)

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check that every file sits in the bucket its name maps to",
		Long: `Verify a bucketed storage root for consistency.

This command checks that every bucket directory exists and that every file
is stored in the bucket its name hashes to. With --repair, missing buckets
are created and misplaced files are moved to their correct bucket.
The exit status is 1 when problems remain.`,
		Args: cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			runVerify(cmd, verbose, repair)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	cmd.Flags().BoolVar(&repair, "repair", false, "Create missing buckets and move misplaced files")

	return cmd
}

func runVerify(cmd *cobra.Command, verbose, repair bool) {
	logger := newLogger(verbose)
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if _, err := os.Stat(cfg.Root); os.IsNotExist(err) {
		log.Fatalf("Storage root does not exist: %s", cfg.Root)
	}

	// Scan before provisioning so missing buckets are reported.
	dryRun := cfg.DryRun
	cfg.DryRun = true
	scanner, err := cfg.Mapper(logger)
	if err != nil {
		log.Fatalf("Failed to create mapper: %v", err)
	}
	if verbose {
		fmt.Fprintf(cmd.OutOrStdout(), "Verifying %d buckets under %s\n", scanner.Count(), scanner.Root())
	}
	report, err := scanner.Scan()
	if err != nil {
		log.Fatalf("Error scanning storage root: %v", err)
	}

	problems := printReport(cmd.OutOrStdout(), report, verbose)
	if problems > 0 && repair {
		fmt.Fprintln(cmd.OutOrStdout(), "Attempting repair...")
		problems = runRepair(cmd, report, logger)
	}
	if repair {
		pruned, err := pruneManifest(scanner.Root(), dryRun)
		if err != nil {
			log.Printf("Warning: Failed to prune manifest: %v", err)
		} else if pruned > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Pruned %d stale manifest entries\n", pruned)
		}
	}
	if problems > 0 {
		os.Exit(1)
	}
}

// printReport writes the verification summary and returns the number of
// problems found.
func printReport(w io.Writer, r bucket.Report, verbose bool) int {
	for _, name := range r.Missing {
		fmt.Fprintf(w, "Missing bucket: %s\n", name)
	}
	for _, mp := range r.Misplaced {
		fmt.Fprintf(w, "Misplaced file: %s (belongs at %s)\n", mp.Path, mp.Want)
	}
	if verbose {
		for _, u := range r.Buckets {
			fmt.Fprintf(w, "Bucket %s: %d files, %d bytes\n", u.Name, u.Files, u.Bytes)
		}
	}

	problems := len(r.Missing) + len(r.Misplaced)
	fmt.Fprintf(w, "\nVerification complete:\n")
	fmt.Fprintf(w, "  Buckets checked: %d\n", len(r.Buckets))
	fmt.Fprintf(w, "  Files checked: %d\n", r.Files)
	fmt.Fprintf(w, "  Total problems: %d\n", problems)
	return problems
}

// runRepair provisions missing buckets and relocates misplaced files,
// returning the number of problems left.
func runRepair(cmd *cobra.Command, r bucket.Report, logger *slog.Logger) int {
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	m, err := cfg.Mapper(logger)
	if err != nil {
		log.Printf("Warning: Failed to provision buckets: %v", err)
		return len(r.Missing) + len(r.Misplaced)
	}
	if m.DryRun() {
		fmt.Fprintln(cmd.OutOrStdout(), "DRY RUN - no changes were made")
		return len(r.Missing) + len(r.Misplaced)
	}
	moved, err := m.Relocate(r)
	if err != nil {
		log.Printf("Warning: Relocation stopped early: %v", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created %d buckets, moved %d files\n", len(r.Missing), moved)
	return len(r.Misplaced) - moved
}

// pruneManifest drops manifest entries whose file is gone from root and
// returns how many were dropped. A root without a manifest is left alone.
func pruneManifest(root string, dryRun bool) (int, error) {
	path := filepath.Join(root, bucket.ManifestName)
	loaded, err := deferred.Open(path, deferred.JSON[bucket.Manifest](), deferred.WithLogger(nil))
	if err != nil {
		return 0, err
	}
	if !loaded.Loaded() {
		return 0, nil
	}
	manifest, _ := loaded.Value()
	pruned, err := manifest.Prune(root)
	if err != nil || pruned == 0 || dryRun {
		return pruned, err
	}
	return pruned, manifest.Save(path)
}

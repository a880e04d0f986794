package cmd

import (
	"log/slog"
	"os"

	"github.com/dendrascience/toolshack/internal/config"
	"github.com/dendrascience/toolshack/version"
	"github.com/spf13/cobra"
)

// NewRootCmd creates and returns the root cobra command for the shack CLI.
// It sets up all subcommands, command groups and the persistent flags that
// describe the storage root.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "shack",
		Short: "shack - manage hash-bucketed file storage",
		Long: `shack manages flat file collections spread across hash buckets.

Every file is stored under ROOT/<bucket>/<name>, where the bucket is derived
from the SHA-1 of the file name. This keeps directories small no matter how
many files the collection holds.

Use subcommands to perform different operations:
  - provision: Create the bucket directories under a root
  - map: Print where file names are stored
  - place: Move flat files in the root into their buckets
  - verify: Check that every file sits in the right bucket
  - mount: Expose a bucketed root as one flat read-only directory`,
		Version:      version.GetFullVersion(),
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("root", "r", "", "Storage root holding the bucket directories")
	flags.IntP("buckets", "b", 0, "Number of buckets, a power of two (default 128)")
	flags.StringP("config", "c", config.DefaultPath, "Path to a YAML or JSONC config file")
	flags.Bool("dry-run", false, "Show what would be done without making changes")

	groupUtilities := "utilities"
	groupStorage := "storage"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupStorage,
		Title: "Storage Operations",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	for _, c := range []*cobra.Command{
		NewProvisionCmd(),
		NewMapCmd(),
		NewPlaceCmd(),
		NewVerifyCmd(),
		NewMountCmd(),
	} {
		c.GroupID = groupStorage
		rootCmd.AddCommand(c)
	}
	for _, c := range []*cobra.Command{
		NewStatsCmd(),
		NewSeedCmd(),
		NewVersionCmd(),
	} {
		c.GroupID = groupUtilities
		rootCmd.AddCommand(c)
	}

	return rootCmd
}

// newLogger returns the logger handed to the library packages. Only warnings
// are shown unless verbose is set.
func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// loadConfig resolves the effective configuration for cmd from its flags and
// the config file. A missing default config file is silently ignored; a
// missing file named with --config is reported.
func loadConfig(cmd *cobra.Command, logger *slog.Logger) (config.Config, error) {
	flags := cmd.Flags()

	path, _ := flags.GetString("config")
	fileLogger := logger
	if !flags.Changed("config") {
		fileLogger = nil
	}
	file, err := config.Load(path, fileLogger)
	if err != nil {
		return config.Config{}, err
	}

	var o config.Overrides
	o.Root, _ = flags.GetString("root")
	o.RootSet = flags.Changed("root")
	o.Buckets, _ = flags.GetInt("buckets")
	o.BucketsSet = flags.Changed("buckets")
	o.DryRun, _ = flags.GetBool("dry-run")
	o.DryRunSet = flags.Changed("dry-run")
	if flags.Lookup("manifest") != nil {
		o.Manifest, _ = flags.GetBool("manifest")
		o.ManifestSet = flags.Changed("manifest")
	}
	return config.Resolve(file, o)
}

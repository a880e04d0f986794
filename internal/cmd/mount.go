package cmd

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"bazil.org/fuse"
	"bazil.org/fuse/fs"
	"github.com/dendrascience/toolshack/flatfs"
	"github.com/dendrascience/toolshack/version"
	"github.com/spf13/cobra"
)

// NewMountCmd creates and returns the mount subcommand for the shack CLI.
// It exposes a bucketed storage root as one flat read-only directory.
func NewMountCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "mount MOUNTPOINT",
		Short: "Mount a bucketed storage root as a flat directory",
		Long: `Mount the storage root read-only at MOUNTPOINT.

Every file held in any bucket appears directly in MOUNTPOINT under its own
name. Files sitting in the wrong bucket are hidden; run "shack verify" to
find them. The mountpoint may not lie inside the storage root or contain it.`,
		Args: cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			runMount(cmd, args[0], verbose)
		},
	}

	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	return cmd
}

func runMount(cmd *cobra.Command, mountpoint string, verbose bool) {
	fmt.Printf("shack %s starting...\n", version.GetFullVersion())

	logger := newLogger(verbose)
	cfg, err := loadConfig(cmd, logger)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if err := checkMountpoint(cfg.Root, mountpoint); err != nil {
		log.Fatal(err)
	}
	if _, err := os.Stat(cfg.Root); os.IsNotExist(err) {
		log.Fatalf("Storage root does not exist: %s", cfg.Root)
	}

	// The view is read-only, so buckets are never created here.
	cfg.DryRun = true
	m, err := cfg.Mapper(logger)
	if err != nil {
		log.Fatalf("Failed to create mapper: %v", err)
	}
	filesystem := flatfs.NewFS(m)

	c, err := fuse.Mount(
		mountpoint,
		fuse.FSName("shack"),
		fuse.Subtype("flatfs"),
		fuse.ReadOnly(),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer c.Close()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		log.Println("Received interrupt signal, shutting down...")

		fuse.Unmount(mountpoint)
		c.Close()

		log.Println("Shutdown complete")
		os.Exit(0)
	}()

	log.Printf("shack %s mounted at %s (storage: %s)", version.GetVersion(), mountpoint, cfg.Root)
	if err := fs.Serve(c, filesystem); err != nil {
		log.Fatal(err)
	}
}

// checkMountpoint refuses to serve a root through a mountpoint inside it,
// or to mount over a directory holding the root.
func checkMountpoint(root, mountpoint string) error {
	if pathsOverlap(root, mountpoint) {
		return fmt.Errorf("storage root %s and mountpoint %s overlap", root, mountpoint)
	}
	return nil
}

// pathsOverlap reports whether either path is the other or lies beneath it.
// Relative paths are resolved against the working directory first.
func pathsOverlap(path1, path2 string) bool {
	abs1, err := filepath.Abs(path1)
	if err != nil {
		return false
	}
	abs2, err := filepath.Abs(path2)
	if err != nil {
		return false
	}
	return within(abs1, abs2) || within(abs2, abs1)
}

func within(parent, child string) bool {
	rel, err := filepath.Rel(parent, child)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

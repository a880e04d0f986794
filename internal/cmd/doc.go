// Package cmd provides the command-line interface implementation for shack.
//
// This package contains all the subcommand implementations for the shack CLI tool.
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Main command coordinator, persistent flags and config loading
//   - provision, map, place, verify: bucket layout operations
//   - mount: read-only flat FUSE view of a storage root
//   - stats, seed, version: utilities
//
// Each command is implemented as a separate file with its own constructor function
// that returns a *cobra.Command. Storage settings come from the persistent
// --root, --buckets and --dry-run flags, falling back to the config file.
package cmd

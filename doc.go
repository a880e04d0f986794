// Package main provides the shack command-line interface.
//
// shack manages flat collections of files stored across hash buckets: each
// file lives under ROOT/<bucket>/<name>, where the bucket is chosen from the
// SHA-1 of the name. The layout itself lives in package bucket; package
// deferred supplies the tolerant loading used for the config file and
// placement manifests.
//
// The main binary supports multiple subcommands:
//   - provision: Create the bucket directories under a root
//   - map: Print where file names are stored
//   - place: Move flat files into their buckets
//   - verify: Check and repair bucket placement
//   - mount: Mount a bucketed root as one flat read-only directory
//   - stats, seed, version: utilities
package main

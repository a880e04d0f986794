// Package version reports build information for the shack binary.
//
// Version, Commit and Date are normally injected at build time:
//
//	-ldflags "-X github.com/dendrascience/toolshack/version.Version=v0.3.0 -X github.com/dendrascience/toolshack/version.Commit=abc1234"
//
// When they are not, the values recorded by the Go toolchain in
// debug.ReadBuildInfo are used, falling back to development defaults.
package version

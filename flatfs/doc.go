// Package flatfs implements a read-only FUSE filesystem that shows a
// bucketed storage root as one flat directory.
//
// Files placed by package bucket live in root/<bucket>/<name>. Mounting a
// root through flatfs hides the buckets again: every correctly placed file
// appears directly under the mountpoint, and lookups go straight to the
// right bucket through bucket.Mapper instead of scanning.
//
// The main entry point is NewFS(), whose result can be mounted using the
// bazil.org/fuse library.
package flatfs

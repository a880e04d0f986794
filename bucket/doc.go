// Package bucket maps logical filenames to physical paths inside a fixed
// number of hash buckets under a storage root.
//
// Keeping every file of a large collection in one directory makes lookups
// slow on most filesystems. A Mapper spreads files over N subdirectories
// (N a power of two, 128 by default) chosen from the filename alone, so the
// physical location can always be recomputed from the logical name.
//
// On-disk contract:
//   - Digest: SHA-1 over the raw filename bytes
//   - Bucket index: the last ceil(log2(N)/4) hex characters of the digest,
//     parsed as an integer, modulo N
//   - Bucket directory: the index in lowercase hex, zero padded to the
//     width of N-1 (at least one character), e.g. "00".."7f" for N=128
//
// Changing any of these relocates every stored file. Two different names
// may share a bucket; the filename itself disambiguates them.
//
// Beyond mapping, the package can move flat files into their buckets
// (Place, PlaceAll), record placements in a JSON Manifest, and Scan a root
// for bucket occupancy and misplaced files.
package bucket

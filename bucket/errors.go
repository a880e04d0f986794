package bucket

import "errors"

// Sentinel errors for package bucket.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Construction errors
	ErrInvalidConfiguration = errors.New("invalid bucket configuration")

	// Mapping errors
	ErrPathMismatch = errors.New("path is not directly under the storage root")

	// Placement errors
	ErrExpectedFile      = errors.New("expected file, got directory")
	ErrUnexpectedSymlink = errors.New("expected file, got symlink")

	// Manifest errors
	ErrIndexOutOfRange = errors.New("index out of range")
)

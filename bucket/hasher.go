package bucket

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"math/bits"
)

// NameHash returns the lowercase hex SHA-1 digest of a filename.
// The digest is taken over the raw name bytes, never over file content,
// so a file keeps its bucket no matter how often it is rewritten.
func NameHash(filename string) string {
	sum := sha1.Sum([]byte(filename))
	return hex.EncodeToString(sum[:])
}

// bitsFor returns log2(count) and whether count is a power of two.
func bitsFor(count int) (int, bool) {
	if count <= 0 || count&(count-1) != 0 {
		return 0, false
	}
	return bits.TrailingZeros(uint(count)), true
}

// hexWidth is the number of trailing hex characters needed to hold nbits.
func hexWidth(nbits int) int {
	return (nbits + 3) / 4
}

// IndexFromHash reduces a hex digest to a bucket index.
// It reads the last ceil(nbits/4) hex characters as an integer and takes
// it modulo count. Changing this breaks every previously stored path.
func IndexFromHash(hash string, count int) (int, error) {
	nbits, ok := bitsFor(count)
	if !ok {
		return 0, fmt.Errorf("%w: bucket count %d is not a power of two", ErrInvalidConfiguration, count)
	}
	width := hexWidth(nbits)
	if width == 0 {
		return 0, nil
	}
	if len(hash) < width {
		return 0, fmt.Errorf("%w: hash %q shorter than %d hex characters", ErrInvalidConfiguration, hash, width)
	}
	var index uint64
	for i := len(hash) - width; i < len(hash); i++ {
		index = index*16 + uint64(hexCharToInt(hash[i]))
	}
	return int(index % uint64(count)), nil
}

// hexCharToInt converts a hex character to its integer value.
func hexCharToInt(c byte) int {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	case c >= 'a' && c <= 'f':
		return int(c - 'a' + 10)
	case c >= 'A' && c <= 'F':
		return int(c - 'A' + 10)
	default:
		return 0
	}
}

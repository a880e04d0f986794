package bucket

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// DefaultCount is the number of buckets used when WithCount is not given.
const DefaultCount = 128

// MaxCount caps the number of buckets.
// ext3 tops out around 32000 subdirectories, so stay well under it.
const MaxCount = 1 << 14

// Mapper relocates filenames under a storage root into hash buckets.
// It is immutable after construction and safe for concurrent use.
type Mapper struct {
	root   string
	count  int
	bits   int
	width  int
	dryRun bool
	logger *slog.Logger
}

// Option configures a Mapper.
type Option func(*Mapper)

// WithCount sets the number of buckets. It must be a power of two.
func WithCount(count int) Option {
	return func(m *Mapper) { m.count = count }
}

// WithDryRun skips creating bucket directories and moving files.
func WithDryRun(dryRun bool) Option {
	return func(m *Mapper) { m.dryRun = dryRun }
}

// WithLogger sets the logger used for warnings. A nil logger discards output.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Mapper) {
		if logger == nil {
			logger = slog.New(slog.DiscardHandler)
		}
		m.logger = logger
	}
}

// NewMapper creates a Mapper rooted at root and, unless running dry,
// provisions every bucket directory.
func NewMapper(root string, opts ...Option) (*Mapper, error) {
	m := &Mapper{
		root:   filepath.Clean(root),
		count:  DefaultCount,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}

	nbits, ok := bitsFor(m.count)
	if !ok {
		return nil, fmt.Errorf("%w: bucket count %d is not a power of two", ErrInvalidConfiguration, m.count)
	}
	if m.count > MaxCount {
		return nil, fmt.Errorf("%w: bucket count %d exceeds maximum %d", ErrInvalidConfiguration, m.count, MaxCount)
	}
	if root == "" {
		return nil, fmt.Errorf("%w: empty storage root", ErrInvalidConfiguration)
	}
	m.bits = nbits
	m.width = max(1, hexWidth(nbits))

	if !m.dryRun {
		if err := m.Provision(); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Translate maps filename under root using DefaultCount buckets.
// When provision is false no directories are created.
func Translate(root, filename string, provision bool) (string, error) {
	m, err := NewMapper(root, WithDryRun(!provision))
	if err != nil {
		return "", err
	}
	return m.Locate(filename)
}

// Root returns the cleaned storage root.
func (m *Mapper) Root() string { return m.root }

// Count returns the number of buckets.
func (m *Mapper) Count() int { return m.count }

// Bits returns log2 of the bucket count.
func (m *Mapper) Bits() int { return m.bits }

// DryRun reports whether the mapper leaves the filesystem untouched.
func (m *Mapper) DryRun() bool { return m.dryRun }

// Provision creates every bucket directory. Existing directories are fine.
// Errors from the filesystem are returned as is.
func (m *Mapper) Provision() error {
	for i := range m.count {
		if err := os.MkdirAll(m.BucketDir(i), 0o755); err != nil {
			return err
		}
	}
	return nil
}

// BucketName returns the directory name of bucket i: lowercase hex,
// zero padded to the width of the largest index.
func (m *Mapper) BucketName(i int) string {
	return fmt.Sprintf("%0*x", m.width, i)
}

// BucketDir returns the full path of bucket i.
func (m *Mapper) BucketDir(i int) string {
	return filepath.Join(m.root, m.BucketName(i))
}

// Buckets returns every bucket directory name in index order.
func (m *Mapper) Buckets() []string {
	names := make([]string, m.count)
	for i := range names {
		names[i] = m.BucketName(i)
	}
	return names
}

// Bucket returns the bucket index of filename.
func (m *Mapper) Bucket(filename string) int {
	// count was validated at construction, so this cannot fail
	index, _ := IndexFromHash(NameHash(filename), m.count)
	return index
}

// Map translates root/filename into root/<bucket>/filename.
// Paths whose parent is not the storage root fail with ErrPathMismatch.
func (m *Mapper) Map(path string) (string, error) {
	clean := filepath.Clean(path)
	parent := filepath.Dir(clean)
	if parent != m.root {
		return "", fmt.Errorf("%w: %s is not in %s", ErrPathMismatch, path, m.root)
	}
	return m.Locate(filepath.Base(clean))
}

// Locate is Map for a bare filename.
func (m *Mapper) Locate(filename string) (string, error) {
	if filename == "" || filename == "." || filename == ".." ||
		strings.ContainsRune(filename, filepath.Separator) || strings.ContainsRune(filename, '/') {
		return "", fmt.Errorf("%w: %q is not a plain filename", ErrPathMismatch, filename)
	}
	return m.physical(filename), nil
}

func (m *Mapper) physical(filename string) string {
	return filepath.Join(m.root, m.BucketName(m.Bucket(filename)), filename)
}

// Package config loads the optional shack configuration file.
//
// The file is YAML (.yaml/.yml) or JSON with comments (.jsonc/.json). It is
// loaded through package deferred, so a missing file only produces a warning
// and command-line flags plus built-in defaults take over.
package config

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dendrascience/toolshack/bucket"
	"github.com/dendrascience/toolshack/deferred"
)

// DefaultPath is looked up in the working directory when --config is not given.
const DefaultPath = ".toolshack.yaml"

// Config mirrors the persistent command-line flags.
type Config struct {
	Root     string `json:"root" yaml:"root"`
	Buckets  int    `json:"buckets" yaml:"buckets"`
	DryRun   bool   `json:"dry_run" yaml:"dry_run"`
	Manifest bool   `json:"manifest" yaml:"manifest"`
}

// ErrNoRoot is returned by Resolve when neither a flag nor the file names a root.
var ErrNoRoot = errors.New("no storage root given: use --root or set root in the config file")

// Default returns the built-in configuration.
func Default() Config {
	return Config{Buckets: bucket.DefaultCount}
}

// Load reads path once. A missing file is not an error.
func Load(path string, logger *slog.Logger) (*deferred.Loader[Config], error) {
	l, err := deferred.Open(path, deferred.ForPath[Config](path), deferred.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	return l, nil
}

// Overrides holds flag values together with whether they were set explicitly.
type Overrides struct {
	Root        string
	RootSet     bool
	Buckets     int
	BucketsSet  bool
	DryRun      bool
	DryRunSet   bool
	Manifest    bool
	ManifestSet bool
}

// Resolve merges, in order of precedence, explicit flags, the loaded file
// and the defaults.
func Resolve(file *deferred.Loader[Config], o Overrides) (Config, error) {
	c := Default()
	if file != nil {
		if fc, err := file.Value(); err == nil {
			c = merge(c, fc)
		} else if !errors.Is(err, deferred.ErrResourceNotFound) {
			return c, err
		}
	}
	if o.RootSet {
		c.Root = o.Root
	}
	if o.BucketsSet {
		c.Buckets = o.Buckets
	}
	if o.DryRunSet {
		c.DryRun = o.DryRun
	}
	if o.ManifestSet {
		c.Manifest = o.Manifest
	}
	if c.Root == "" {
		return c, ErrNoRoot
	}
	return c, nil
}

func merge(base, file Config) Config {
	if file.Root != "" {
		base.Root = file.Root
	}
	if file.Buckets != 0 {
		base.Buckets = file.Buckets
	}
	base.DryRun = base.DryRun || file.DryRun
	base.Manifest = base.Manifest || file.Manifest
	return base
}

// Mapper builds a bucket.Mapper from a resolved configuration.
func (c Config) Mapper(logger *slog.Logger) (*bucket.Mapper, error) {
	return bucket.NewMapper(c.Root,
		bucket.WithCount(c.Buckets),
		bucket.WithDryRun(c.DryRun),
		bucket.WithLogger(logger),
	)
}

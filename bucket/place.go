package bucket

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Place moves root/filename into its bucket and returns the placement record.
// In dry-run mode the record is computed but nothing is moved.
func (m *Mapper) Place(path string) (Placement, error) {
	var p Placement
	target, err := m.Map(path)
	if err != nil {
		return p, err
	}
	info, err := os.Lstat(path)
	if err != nil {
		return p, err
	}
	if info.Mode()&os.ModeSymlink == os.ModeSymlink {
		return p, errors.Join(ErrUnexpectedSymlink, fmt.Errorf("skipping unsupported symlink %s", path))
	}
	if info.IsDir() {
		return p, ErrExpectedFile
	}

	name := filepath.Base(target)
	p.Name = name
	p.Bucket = m.BucketName(m.Bucket(name))
	p.Target = filepath.Join(p.Bucket, name)
	p.Size = info.Size()
	p.Modified = info.ModTime()

	if m.dryRun {
		return p, nil
	}
	if _, err := os.Stat(target); err == nil {
		m.logger.Warn("replacing existing file in bucket", "target", target)
	}
	return p, os.Rename(path, target)
}

// PlaceAll places every regular file sitting directly in the root.
// Files are moved by a pool of runtime.NumCPU() workers; the returned
// manifest is sorted by modification time.
func (m *Mapper) PlaceAll(ctx context.Context) (Manifest, error) {
	var manifest Manifest
	dirents, err := os.ReadDir(m.root)
	if err != nil {
		return manifest, err
	}

	var (
		mu      sync.Mutex
		results []Placement
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, d := range dirents {
		if d.IsDir() || d.Name() == ManifestName {
			continue
		}
		path := filepath.Join(m.root, d.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := m.Place(path)
			switch {
			case err == nil:
			case errors.Is(err, os.ErrNotExist):
				return nil
			case errors.Is(err, ErrUnexpectedSymlink):
				m.logger.Warn("skipping symlink", "path", path)
				return nil
			default:
				return fmt.Errorf("placing %s: %w", path, err)
			}
			mu.Lock()
			results = append(results, p)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return manifest, err
	}

	for _, p := range results {
		manifest.Add(p)
	}
	manifest.Sort()
	return manifest, nil
}

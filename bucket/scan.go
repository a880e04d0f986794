package bucket

import (
	"errors"
	"os"
	"path/filepath"
)

type (
	// Usage is the occupancy of one bucket.
	Usage struct {
		Name  string `json:"name"`
		Files int    `json:"files"`
		Bytes int64  `json:"bytes"`
	}
	// Misplacement is a file sitting in the wrong bucket.
	Misplacement struct {
		Path string `json:"path"` // where the file is
		Want string `json:"want"` // where Map puts it
	}
	// Report summarises a scan of every bucket under a root.
	Report struct {
		Buckets   []Usage        `json:"buckets"`
		Files     int            `json:"files"`
		Bytes     int64          `json:"bytes"`
		Min       int            `json:"min"`
		Max       int            `json:"max"`
		Missing   []string       `json:"missing,omitempty"`
		Misplaced []Misplacement `json:"misplaced,omitempty"`
	}
)

// Scan walks every bucket directory and reports occupancy and files that
// do not belong in the bucket they were found in. Missing bucket
// directories are reported, not treated as errors.
func (m *Mapper) Scan() (Report, error) {
	var r Report
	r.Buckets = make([]Usage, 0, m.count)
	r.Min = -1
	for i := range m.count {
		u := Usage{Name: m.BucketName(i)}
		dir := m.BucketDir(i)
		dirents, err := os.ReadDir(dir)
		if errors.Is(err, os.ErrNotExist) {
			r.Missing = append(r.Missing, u.Name)
			r.Buckets = append(r.Buckets, u)
			r.Min = 0
			continue
		}
		if err != nil {
			return r, err
		}
		for _, d := range dirents {
			if d.IsDir() {
				m.logger.Warn("unexpected directory inside bucket", "path", filepath.Join(dir, d.Name()))
				continue
			}
			info, err := d.Info()
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			if err != nil {
				return r, err
			}
			u.Files++
			u.Bytes += info.Size()
			path := filepath.Join(dir, d.Name())
			if want := m.physical(d.Name()); want != path {
				r.Misplaced = append(r.Misplaced, Misplacement{Path: path, Want: want})
			}
		}
		r.Files += u.Files
		r.Bytes += u.Bytes
		if r.Min < 0 || u.Files < r.Min {
			r.Min = u.Files
		}
		r.Max = max(r.Max, u.Files)
		r.Buckets = append(r.Buckets, u)
	}
	return r, nil
}

// Relocate moves every misplaced file in r to its correct bucket and
// returns how many were moved. Dry-run mappers move nothing.
func (m *Mapper) Relocate(r Report) (int, error) {
	if m.dryRun {
		return 0, nil
	}
	moved := 0
	for _, mp := range r.Misplaced {
		if err := os.MkdirAll(filepath.Dir(mp.Want), 0o755); err != nil {
			return moved, err
		}
		if err := os.Rename(mp.Path, mp.Want); err != nil {
			return moved, err
		}
		moved++
	}
	return moved, nil
}

package bucket

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"
)

// ManifestName is the reserved filename of a placement manifest in a storage root.
const ManifestName = "placements.json"

type (
	Placement struct {
		Bucket   string    `json:"bucket"`   // bucket directory name
		Modified time.Time `json:"modified"` // modification time of the file
		Name     string    `json:"name"`     // logical filename
		Size     int64     `json:"size"`     // size of the file in bytes
		Target   string    `json:"target"`   // physical path relative to the root
	}
	Manifest struct {
		entries []Placement
		sorted  bool
	}
)

func (m *Manifest) UnmarshalJSON(data []byte) error {
	var aux struct {
		Entries []Placement `json:"entries"`
		Sorted  bool        `json:"sorted"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	m.entries = aux.Entries
	m.sorted = aux.Sorted
	return nil
}

func (m Manifest) MarshalJSON() ([]byte, error) {
	entries := m.entries
	if entries == nil {
		entries = []Placement{}
	}
	return json.Marshal(struct {
		Entries []Placement `json:"entries"`
		Sorted  bool        `json:"sorted"`
	}{
		Entries: entries,
		Sorted:  m.sorted,
	})
}

func (m Manifest) Iterate(yield func(Placement) bool) {
	for _, entry := range m.entries {
		if !yield(entry) {
			return
		}
	}
}

func (m *Manifest) Add(p Placement) {
	m.sorted = false
	m.entries = append(m.entries, p)
}

func (m *Manifest) Remove(index int) error {
	if index < 0 || index >= len(m.entries) {
		return ErrIndexOutOfRange
	}
	m.entries = slices.Delete(m.entries, index, index+1)
	return nil
}

func (m Manifest) Get(index int) Placement {
	if index < 0 || index >= len(m.entries) {
		return Placement{}
	}
	return m.entries[index]
}

func (m Manifest) Len() int {
	return len(m.entries)
}

// Sort orders placements by modification time, breaking ties by name.
func (m *Manifest) Sort() {
	sort.SliceStable(m.entries, func(i, j int) bool {
		a, b := m.entries[i], m.entries[j]
		if a.Modified.Equal(b.Modified) {
			return a.Name < b.Name
		}
		return a.Modified.Before(b.Modified)
	})
	m.sorted = true
}

// Collapse keeps only the most recent placement of each name.
func (m *Manifest) Collapse() {
	if len(m.entries) <= 1 {
		return
	}
	if !m.sorted {
		m.Sort()
	}

	latest := make(map[string]Placement)
	for _, entry := range m.entries {
		latest[entry.Name] = entry
	}

	m.entries = make([]Placement, 0, len(latest))
	for _, entry := range latest {
		m.entries = append(m.entries, entry)
	}
	m.Sort()
}

// Prune removes placements whose target no longer exists under root and
// returns how many were removed.
func (m *Manifest) Prune(root string) (int, error) {
	removed := 0
	for i := m.Len() - 1; i >= 0; i-- {
		_, err := os.Stat(filepath.Join(root, m.Get(i).Target))
		if err == nil {
			continue
		}
		if !errors.Is(err, os.ErrNotExist) {
			return removed, err
		}
		if err := m.Remove(i); err != nil {
			return removed, err
		}
		removed++
	}
	return removed, nil
}

// TotalSize returns the sum of all placement sizes.
func (m Manifest) TotalSize() int64 {
	var total int64
	for e := range m.Iterate {
		total += e.Size
	}
	return total
}

// BucketCounts returns the number of distinct names placed in each bucket.
func (m Manifest) BucketCounts() map[string]int {
	seen := make(map[string]string)
	for e := range m.Iterate {
		seen[e.Name] = e.Bucket
	}
	counts := make(map[string]int)
	for _, b := range seen {
		counts[b]++
	}
	return counts
}

// Save writes the manifest as JSON. A directory path gets ManifestName appended.
func (m Manifest) Save(path string) error {
	if !strings.HasSuffix(path, ".json") {
		path = filepath.Join(path, ManifestName)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(m); err != nil {
		return fmt.Errorf("encoding manifest %s: %w", path, err)
	}
	return nil
}

package bucket

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMapper_Scan(t *testing.T) {
	root := t.TempDir()
	m, err := NewMapper(root, WithCount(4), WithLogger(nil))
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"a", "b", "hello.txt"} {
		target, err := m.Locate(name)
		if err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(target, []byte("12345"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	// report.csv belongs in bucket 1
	wrong := filepath.Join(root, "0", "report.csv")
	if err := os.WriteFile(wrong, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(m.BucketDir(3)); err != nil {
		t.Fatal(err)
	}

	r, err := m.Scan()
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if r.Files != 4 {
		t.Errorf("Scan().Files = %d, want 4", r.Files)
	}
	if r.Bytes != 16 {
		t.Errorf("Scan().Bytes = %d, want 16", r.Bytes)
	}
	if len(r.Buckets) != 4 {
		t.Errorf("Scan() reported %d buckets, want 4", len(r.Buckets))
	}
	if len(r.Missing) != 1 || r.Missing[0] != "3" {
		t.Errorf("Scan().Missing = %v, want [3]", r.Missing)
	}
	if r.Min != 0 {
		t.Errorf("Scan().Min = %d, want 0", r.Min)
	}
	if len(r.Misplaced) != 1 {
		t.Fatalf("Scan().Misplaced = %v, want one entry", r.Misplaced)
	}
	if want := filepath.Join(root, "1", "report.csv"); r.Misplaced[0].Want != want {
		t.Errorf("Misplaced[0].Want = %q, want %q", r.Misplaced[0].Want, want)
	}

	moved, err := m.Relocate(r)
	if err != nil {
		t.Fatalf("Relocate() error = %v", err)
	}
	if moved != 1 {
		t.Errorf("Relocate() moved %d, want 1", moved)
	}
	again, err := m.Scan()
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Misplaced) != 0 {
		t.Errorf("Scan() after Relocate() still reports %v", again.Misplaced)
	}
}

func TestMapper_RelocateDryRun(t *testing.T) {
	m, err := NewMapper(t.TempDir(), WithDryRun(true))
	if err != nil {
		t.Fatal(err)
	}
	r := Report{Misplaced: []Misplacement{{Path: "/nope/a", Want: "/nope/b"}}}
	moved, err := m.Relocate(r)
	if err != nil || moved != 0 {
		t.Errorf("Relocate() dry run = (%d, %v), want (0, nil)", moved, err)
	}
}

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/dendrascience/toolshack/bucket"
	"github.com/dendrascience/toolshack/deferred"
)

func TestLoad_MissingFile(t *testing.T) {
	l, err := Load(filepath.Join(t.TempDir(), DefaultPath), nil)
	if err != nil {
		t.Fatalf("Load() error = %v, want nil for a missing file", err)
	}
	if l.Loaded() {
		t.Error("Loaded() = true for a missing file")
	}
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shack.yaml")
	if err := os.WriteFile(path, []byte("buckets: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path, nil); err == nil {
		t.Error("Load() error = nil for a malformed file")
	}
}

func TestLoad_CommentedJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".toolshack.json")
	content := "{\n  // storage lives here\n  \"root\": \"/srv/json\",\n  \"buckets\": 16,\n}"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	l, err := Load(path, nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	c, err := l.Value()
	if err != nil {
		t.Fatalf("Value() error = %v", err)
	}
	if c.Root != "/srv/json" || c.Buckets != 16 {
		t.Errorf("Value() = %+v, want root /srv/json with 16 buckets", c)
	}
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "shack.yaml")
	if err := os.WriteFile(yamlPath, []byte("root: /srv/files\nbuckets: 64\nmanifest: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	jsoncPath := filepath.Join(dir, "shack.jsonc")
	if err := os.WriteFile(jsoncPath, []byte("{\n  // only the root\n  \"root\": \"/srv/json\",\n}"), 0o644); err != nil {
		t.Fatal(err)
	}

	yamlFile, err := Load(yamlPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	jsoncFile, err := Load(jsoncPath, nil)
	if err != nil {
		t.Fatal(err)
	}
	missing, err := Load(filepath.Join(dir, "nope.yaml"), nil)
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		file    *deferred.Loader[Config]
		o       Overrides
		want    Config
		wantErr error
	}{
		{
			name: "file only",
			file: yamlFile,
			want: Config{Root: "/srv/files", Buckets: 64, Manifest: true},
		},
		{
			name: "flags win",
			file: yamlFile,
			o:    Overrides{Root: "/tmp/x", RootSet: true, Buckets: 8, BucketsSet: true, Manifest: false, ManifestSet: true},
			want: Config{Root: "/tmp/x", Buckets: 8},
		},
		{
			name: "jsonc keeps default buckets",
			file: jsoncFile,
			want: Config{Root: "/srv/json", Buckets: bucket.DefaultCount},
		},
		{
			name: "missing file uses flags",
			file: missing,
			o:    Overrides{Root: "/data", RootSet: true, DryRun: true, DryRunSet: true},
			want: Config{Root: "/data", Buckets: bucket.DefaultCount, DryRun: true},
		},
		{
			name:    "missing file and no root",
			file:    missing,
			wantErr: ErrNoRoot,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.file, tt.o)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("Resolve() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Resolve() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestConfig_Mapper(t *testing.T) {
	root := t.TempDir()
	m, err := Config{Root: root, Buckets: 4}.Mapper(nil)
	if err != nil {
		t.Fatalf("Mapper() error = %v", err)
	}
	if m.Count() != 4 || m.Root() != root {
		t.Errorf("Mapper() = count %d root %s", m.Count(), m.Root())
	}
	if _, err := (Config{Root: root, Buckets: 3}).Mapper(nil); !errors.Is(err, bucket.ErrInvalidConfiguration) {
		t.Errorf("Mapper() with 3 buckets error = %v, want ErrInvalidConfiguration", err)
	}
}

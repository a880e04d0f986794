package deferred

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type settings struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestOpen_MissingFile(t *testing.T) {
	t.Chdir(t.TempDir())

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	l, err := Open("config.json", JSON[settings](), WithLogger(logger))
	if err != nil {
		t.Fatalf("Open() error = %v, want nil for a missing file", err)
	}
	if l.Loaded() {
		t.Error("Loaded() = true for a missing file")
	}
	if !strings.Contains(logs.String(), "config.json") {
		t.Errorf("warning does not name the resource: %q", logs.String())
	}

	_, first := l.Value()
	_, second := l.Value()
	for i, err := range []error{first, second} {
		if !errors.Is(err, ErrResourceNotFound) {
			t.Errorf("Value() #%d error = %v, want ErrResourceNotFound", i+1, err)
		}
		if !errors.Is(err, fs.ErrNotExist) {
			t.Errorf("Value() #%d error = %v, should unwrap to fs.ErrNotExist", i+1, err)
		}
		var nf *NotFoundError
		if !errors.As(err, &nf) || nf.Identifier != "config.json" {
			t.Errorf("Value() #%d error = %v, want *NotFoundError for config.json", i+1, err)
		}
	}
	if first != second {
		t.Error("Value() returned different errors on repeated access")
	}
	if got := l.Identifier(); got != "config.json" {
		t.Errorf("Identifier() = %q, want config.json", got)
	}
}

func TestOpen_ExistingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"name":"shack","count":3}`), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Open(path, JSON[settings](), WithLogger(nil))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if !l.Loaded() {
		t.Fatal("Loaded() = false for an existing file")
	}
	for i := range 3 {
		v, err := l.Value()
		if err != nil {
			t.Fatalf("Value() #%d error = %v", i+1, err)
		}
		if v.Name != "shack" || v.Count != 3 {
			t.Errorf("Value() #%d = %+v", i+1, v)
		}
	}
}

func TestOpen_ZeroValueIsLoaded(t *testing.T) {
	path := filepath.Join(t.TempDir(), "zero.json")
	if err := os.WriteFile(path, []byte("0"), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := Open(path, JSON[int]())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	v, err := l.Value()
	if err != nil || v != 0 {
		t.Errorf("Value() = (%d, %v), want (0, nil)", v, err)
	}
	if got := l.ValueOr(42); got != 0 {
		t.Errorf("ValueOr(42) = %d, want 0", got)
	}
}

func TestOpen_OtherErrorsPropagate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	if err := os.WriteFile(path, []byte(`{"name":`), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		path string
	}{
		{name: "malformed content", path: path},
		{name: "directory", path: dir},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := Open(tt.path, JSON[settings](), WithLogger(nil))
			if err == nil {
				t.Fatal("Open() error = nil, want a decode error")
			}
			if l != nil {
				t.Error("Open() returned a loader alongside an error")
			}
			if errors.Is(err, ErrResourceNotFound) {
				t.Errorf("Open() error = %v, should not be deferred", err)
			}
		})
	}
}

func TestLoad_CallsOnce(t *testing.T) {
	calls := 0
	l, err := Load("bucket-index", func(id string) (string, error) {
		calls++
		return "", fmt.Errorf("looking up %s: %w", id, fs.ErrNotExist)
	}, WithLogger(nil))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	for range 3 {
		if _, err := l.Value(); !errors.Is(err, ErrResourceNotFound) {
			t.Errorf("Value() error = %v, want ErrResourceNotFound", err)
		}
	}
	if calls != 1 {
		t.Errorf("load function called %d times, want 1", calls)
	}
	if got := l.ValueOr("fallback"); got != "fallback" {
		t.Errorf("ValueOr() = %q, want fallback", got)
	}
}

func TestLoad_Success(t *testing.T) {
	l, err := Load("answer", func(id string) (int, error) { return len(id), nil })
	if err != nil {
		t.Fatal(err)
	}
	if v, err := l.Value(); err != nil || v != 6 {
		t.Errorf("Value() = (%d, %v), want (6, nil)", v, err)
	}
}

func TestLoad_ErrorUnmodified(t *testing.T) {
	boom := errors.New("permission denied")
	_, err := Load("x", func(string) (int, error) { return 0, boom })
	if err != boom {
		t.Errorf("Load() error = %v, want the load error unmodified", err)
	}
}

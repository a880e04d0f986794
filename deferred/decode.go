package deferred

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// JSON decodes a single JSON document.
func JSON[T any]() StreamFunc[T] {
	return func(r io.Reader) (T, error) {
		var v T
		if err := json.NewDecoder(r).Decode(&v); err != nil {
			return v, fmt.Errorf("decoding json: %w", err)
		}
		return v, nil
	}
}

// JSONC decodes JSON extended with comments and trailing commas.
func JSONC[T any]() StreamFunc[T] {
	return func(r io.Reader) (T, error) {
		var v T
		data, err := io.ReadAll(r)
		if err != nil {
			return v, err
		}
		if err := json.Unmarshal(jsonc.ToJSON(data), &v); err != nil {
			return v, fmt.Errorf("decoding jsonc: %w", err)
		}
		return v, nil
	}
}

// YAML decodes a single YAML document. An empty document yields the zero value.
func YAML[T any]() StreamFunc[T] {
	return func(r io.Reader) (T, error) {
		var v T
		if err := yaml.NewDecoder(r).Decode(&v); err != nil && err != io.EOF {
			return v, fmt.Errorf("decoding yaml: %w", err)
		}
		return v, nil
	}
}

// ForPath picks a decoder from the file extension: .yaml and .yml use
// YAML and everything else JSONC, which also accepts plain JSON.
func ForPath[T any](path string) StreamFunc[T] {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return YAML[T]()
	default:
		return JSONC[T]()
	}
}

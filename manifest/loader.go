package manifest

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load parses a single manifest document. JSON and YAML are both accepted,
// selected by file extension (.json, .yaml, .yml).
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %q: %w", path, err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		if err := json.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse manifest %q: %w", path, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &m); err != nil {
			return nil, fmt.Errorf("parse manifest %q: %w", path, err)
		}
	default:
		return nil, fmt.Errorf("manifest %q: unsupported extension %q", path, ext)
	}

	if m.ID == "" {
		return nil, fmt.Errorf("manifest %q: missing id", path)
	}
	if m.Endpoint == "" {
		return nil, fmt.Errorf("manifest %q: missing endpoint", path)
	}
	return &m, nil
}

// LoadDir loads every manifest document in a directory (non-recursive).
// Files are read in lexical order so registration order, and with it the
// first-registered-wins intent resolution, is deterministic. Files with
// unrelated extensions are skipped.
func LoadDir(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read manifest dir %q: %w", dir, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	var manifests []*Manifest
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
		default:
			continue
		}
		m, err := Load(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		manifests = append(manifests, m)
	}

	return NewRegistry(manifests...)
}

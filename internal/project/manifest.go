package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Manifest is a located and parsed doclens.toml.
type Manifest struct {
	Path   string
	Root   string
	Config *Config
}

// FindDoclensToml walks up from startDir to locate doclens.toml.
func FindDoclensToml(startDir string) (path string, ok bool, err error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false, fmt.Errorf("failed to resolve start directory: %w", err)
	}
	for {
		candidate := filepath.Join(dir, "doclens.toml")
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", false, fmt.Errorf("failed to stat %q: %w", candidate, err)
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return "", false, nil
}

// Load locates and parses the nearest manifest. ok is false when no
// doclens.toml exists anywhere up the tree; that is not an error, the tool
// runs on defaults.
func Load(startDir string) (*Manifest, bool, error) {
	path, ok, err := FindDoclensToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   path,
		Root:   filepath.Dir(path),
		Config: cfg,
	}, true, nil
}

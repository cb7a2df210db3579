package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"doclens/internal/driver"
	"doclens/internal/grammar"
	"doclens/internal/project"
)

// resolveTarget normalizes the optional positional path argument.
func resolveTarget(args []string) (path string, isDir bool, err error) {
	path = "."
	if len(args) > 0 && args[0] != "" {
		path = args[0]
	}
	info, err := os.Stat(path)
	if err != nil {
		return "", false, fmt.Errorf("failed to stat %q: %w", path, err)
	}
	return path, info.IsDir(), nil
}

// buildScanOptions собирает driver.Options из глобальных флагов и ближайшего
// doclens.toml. Манифест возвращается отдельно: lint читает из него пороги.
func buildScanOptions(cmd *cobra.Command, startDir string) (driver.Options, *project.Manifest, error) {
	opts := driver.Options{}

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	opts.MaxDiagnostics = maxDiagnostics

	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return opts, nil, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	opts.Jobs = jobs

	manifest, found, err := project.Load(startDir)
	if err != nil {
		return opts, nil, err
	}
	if !found {
		return opts, nil, nil
	}

	reg := grammar.NewRegistry()
	if err := manifest.Config.Apply(reg); err != nil {
		return opts, nil, fmt.Errorf("%s: %w", manifest.Path, err)
	}
	opts.Registry = reg
	opts.ExtraTags = manifest.Config.Annotations.Tags
	return opts, manifest, nil
}

// manifestStartDir picks where the walk-up for doclens.toml begins.
func manifestStartDir(target string, isDir bool) string {
	if isDir {
		return target
	}
	return filepath.Dir(target)
}

package project_test

import (
	"os"
	"path/filepath"
	"testing"

	"doclens/internal/grammar"
	"doclens/internal/project"
)

const sampleToml = `
[annotations]
tags = ["PERF", "SAFETY"]

[lint]
min_coverage = 0.6
fail_on_orphans = true

[[grammar]]
name = "proto"
extensions = [".proto"]
line_comments = ["//"]
doc_line = ["///"]
modifiers = ["repeated", "optional"]

[grammar.decls]
message = "struct"
service = "trait"
rpc = "function"

[[grammar.strings]]
open = "\""
escape = "\\"
`

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "doclens.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleToml)
	cfg, err := project.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(cfg.Annotations.Tags) != 2 || cfg.Annotations.Tags[0] != "PERF" {
		t.Errorf("tags = %v", cfg.Annotations.Tags)
	}
	if cfg.Lint.MinCoverage != 0.6 || !cfg.Lint.FailOnOrphans {
		t.Errorf("lint = %+v", cfg.Lint)
	}
	if len(cfg.Grammars) != 1 {
		t.Fatalf("grammars = %d", len(cfg.Grammars))
	}
}

func TestApplyRegistersGrammar(t *testing.T) {
	path := writeConfig(t, t.TempDir(), sampleToml)
	cfg, err := project.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}

	reg := grammar.NewRegistry()
	if err := cfg.Apply(reg); err != nil {
		t.Fatal(err)
	}

	d, ok := reg.ByExtension(".proto")
	if !ok {
		t.Fatal("configured grammar not registered")
	}
	if d.Decls["message"] != grammar.DeclStruct {
		t.Errorf("message maps to %v", d.Decls["message"])
	}
	if d.Decls["service"] != grammar.DeclTrait {
		t.Errorf("service maps to %v", d.Decls["service"])
	}
	if len(d.Strings) != 1 || d.Strings[0].Close != `"` || d.Strings[0].Escape != '\\' {
		t.Errorf("strings = %+v", d.Strings)
	}
}

func TestApplyRejectsBadDescriptor(t *testing.T) {
	bad := `
[[grammar]]
name = "broken"
extensions = [".brk"]
line_comments = ["//"]
doc_line = ["##"]
`
	path := writeConfig(t, t.TempDir(), bad)
	cfg, err := project.LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := cfg.Apply(grammar.NewRegistry()); err == nil {
		t.Error("doc marker that refines nothing must be rejected")
	}
}

func TestFindWalksUp(t *testing.T) {
	root := t.TempDir()
	writeConfig(t, root, sampleToml)
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	m, ok, err := project.Load(nested)
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("manifest not found from nested dir")
	}
	if m.Root != root {
		t.Errorf("root = %q, want %q", m.Root, root)
	}
}

func TestMissingManifestIsNotAnError(t *testing.T) {
	_, ok, err := project.Load(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if ok {
		t.Error("empty dir reported a manifest")
	}
}

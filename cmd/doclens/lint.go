package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"doclens/internal/driver"
	"doclens/internal/entity"
	"doclens/internal/project"
	"doclens/internal/source"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] [path]",
	Short: "Enforce documentation policy",
	Long: `Lint lists entities without documentation and checks the policy from
doclens.toml: coverage thresholds, orphaned doc comments, and module doc
presence. The command exits non-zero when any finding remains.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

func init() {
	lintCmd.Flags().String("kinds", "", "comma-separated entity kinds to check (e.g. function,struct)")
	lintCmd.Flags().Float64("min-coverage", 0, "per-file coverage that silences undocumented findings, 0..1")
	lintCmd.Flags().Bool("fail-on-orphans", false, "treat orphaned doc comments as failures")
	lintCmd.Flags().Bool("require-module-doc", false, "require a module doc comment in every file")
}

func runLint(cmd *cobra.Command, args []string) error {
	target, isDir, err := resolveTarget(args)
	if err != nil {
		return err
	}

	opts, manifest, err := buildScanOptions(cmd, manifestStartDir(target, isDir))
	if err != nil {
		return err
	}

	policy := lintPolicy(cmd, manifest)
	kinds, err := parseKindFilter(cmd)
	if err != nil {
		return err
	}

	// Lint всегда работает по живой модели: нужен список сущностей,
	// а не только сводка, поэтому кеш здесь не используется.
	var (
		fileSet *source.FileSet
		results []driver.Result
	)
	if isDir {
		fileSet, results, err = driver.ScanDir(cmd.Context(), target, opts)
	} else {
		fileSet = source.NewFileSet()
		var result driver.Result
		result, err = driver.ScanFile(fileSet, target, opts)
		results = []driver.Result{result}
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	findings := 0
	for _, result := range results {
		printResultDiagnostics(cmd, fileSet, result)
		findings += lintResult(os.Stdout, result, policy, kinds)
	}

	if findings > 0 {
		return fmt.Errorf("lint failed with %d finding(s)", findings)
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(os.Stdout, "lint ok: %d file(s)\n", len(results))
	}
	return nil
}

// lintPolicy merges the manifest thresholds with explicit flag overrides.
// Флаг, заданный пользователем, всегда побеждает манифест.
func lintPolicy(cmd *cobra.Command, manifest *project.Manifest) project.LintConfig {
	var policy project.LintConfig
	if manifest != nil {
		policy = manifest.Config.Lint
	}
	if cmd.Flags().Changed("min-coverage") {
		policy.MinCoverage, _ = cmd.Flags().GetFloat64("min-coverage")
	}
	if cmd.Flags().Changed("fail-on-orphans") {
		policy.FailOnOrphans, _ = cmd.Flags().GetBool("fail-on-orphans")
	}
	if cmd.Flags().Changed("require-module-doc") {
		policy.RequireModuleDoc, _ = cmd.Flags().GetBool("require-module-doc")
	}
	return policy
}

func parseKindFilter(cmd *cobra.Command) (map[string]bool, error) {
	value, _ := cmd.Flags().GetString("kinds")
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	known := map[string]bool{}
	for k := entity.Unknown; k <= entity.Test; k++ {
		known[strings.ToLower(k.String())] = true
	}
	filter := make(map[string]bool)
	for _, part := range strings.Split(value, ",") {
		name := strings.ToLower(strings.TrimSpace(part))
		if name == "" {
			continue
		}
		if !known[name] {
			return nil, fmt.Errorf("unknown entity kind %q", part)
		}
		filter[name] = true
	}
	return filter, nil
}

// lintResult prints the findings for one file and returns their count.
// Правило: файл с покрытием не ниже порога не штрафуется за отдельные
// недокументированные сущности, но они всё равно перечисляются.
func lintResult(w io.Writer, result driver.Result, policy project.LintConfig, kinds map[string]bool) int {
	findings := 0
	if result.Bag != nil && result.Bag.HasErrors() {
		fmt.Fprintf(w, "%s: analysis reported errors\n", result.Path)
		findings++
	}
	sum := result.Summary
	if sum == nil || result.Doc == nil {
		return findings
	}
	doc := result.Doc

	missing := 0
	for _, ent := range doc.Undocumented() {
		if kinds != nil && !kinds[strings.ToLower(ent.Kind.String())] {
			continue
		}
		start, _ := doc.Resolve(ent.Span)
		fmt.Fprintf(w, "%s:%d: undocumented %s %s\n", sum.Path, start.Line, ent.Kind, ent.Name)
		missing++
	}
	passesCoverage := policy.MinCoverage > 0 && sum.Coverage() >= policy.MinCoverage
	if missing > 0 && !passesCoverage {
		findings += missing
	}
	if policy.MinCoverage > 0 && sum.Coverage() < policy.MinCoverage {
		fmt.Fprintf(w, "%s: coverage %.0f%% below required %.0f%%\n",
			sum.Path, sum.Coverage()*100, policy.MinCoverage*100)
		findings++
	}
	if policy.FailOnOrphans && sum.Orphans > 0 {
		fmt.Fprintf(w, "%s: %d orphaned doc comment(s)\n", sum.Path, sum.Orphans)
		findings++
	}
	if policy.RequireModuleDoc && !sum.HasModuleDoc {
		fmt.Fprintf(w, "%s: missing module doc comment\n", sum.Path)
		findings++
	}
	return findings
}

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"doclens/internal/driver"
	"doclens/internal/grammar"
	"doclens/internal/modelfmt"
	"doclens/internal/source"
)

var scanCmd = &cobra.Command{
	Use:   "scan [flags] [path]",
	Short: "Extract documentation structure from a file or directory",
	Long: `Scan builds the documentation model for every recognized source file:
entities, attached doc comments, orphans, and annotation markers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	scanCmd.Flags().String("language", "", "force a grammar instead of resolving by extension")
	scanCmd.Flags().Bool("cache", false, "reuse unchanged results from the disk cache")
	scanCmd.Flags().String("ui", "auto", "progress interface for directory scans (auto|on|off)")
	scanCmd.Flags().Bool("text", false, "include doc comment text in pretty output")
}

func runScan(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}

	target, isDir, err := resolveTarget(args)
	if err != nil {
		return err
	}

	opts, _, err := buildScanOptions(cmd, manifestStartDir(target, isDir))
	if err != nil {
		return err
	}
	opts.Language, _ = cmd.Flags().GetString("language")

	if withCache, _ := cmd.Flags().GetBool("cache"); withCache {
		cache, err := driver.OpenDiskCache("doclens")
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: disk cache unavailable: %v\n", err)
		} else {
			opts.Cache = cache
		}
	}

	if !isDir {
		return scanSingleFile(cmd, target, format, opts)
	}
	return scanDirectory(cmd, target, format, opts)
}

func scanSingleFile(cmd *cobra.Command, path, format string, opts driver.Options) error {
	fileSet := source.NewFileSet()
	result, err := driver.ScanFile(fileSet, path, opts)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printResultDiagnostics(cmd, fileSet, result)
	if result.Doc == nil {
		return fmt.Errorf("could not analyze %s", path)
	}

	if format == "json" {
		return modelfmt.DocumentJSONOut(os.Stdout, result.Doc, modelfmt.JSONOpts{
			IncludePositions: true,
			IncludeComments:  true,
		})
	}

	showText, _ := cmd.Flags().GetBool("text")
	return modelfmt.DocumentPretty(os.Stdout, result.Doc, modelfmt.PrettyOpts{
		Color:    useColor(cmd, os.Stdout),
		ShowText: showText,
	})
}

func scanDirectory(cmd *cobra.Command, dir, format string, opts driver.Options) error {
	if opts.Registry == nil {
		opts.Registry = grammar.NewRegistry()
	}

	uiValue, _ := cmd.Flags().GetString("ui")
	uiModeValue, err := readUIMode(uiValue)
	if err != nil {
		return err
	}
	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")

	var (
		fileSet *source.FileSet
		results []driver.Result
	)
	useTUI := shouldUseTUI(uiModeValue) && format == "pretty" && !quiet
	if useTUI {
		files, listErr := driver.ListSourceFiles(dir, opts.Registry)
		if listErr != nil {
			return listErr
		}
		useTUI = len(files) > 0
		if useTUI {
			fileSet, results, err = runScanWithUI(cmd.Context(), "doclens scan", dir, files, opts)
		}
	}
	if !useTUI {
		fileSet, results, err = driver.ScanDir(cmd.Context(), dir, opts)
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	for _, result := range results {
		printResultDiagnostics(cmd, fileSet, result)
	}

	if format == "json" {
		return writeSummariesJSON(os.Stdout, results)
	}
	writeSummariesPretty(os.Stdout, results, quiet)
	return nil
}

func printResultDiagnostics(cmd *cobra.Command, fileSet *source.FileSet, result driver.Result) {
	if result.Bag == nil || (!result.Bag.HasErrors() && !result.Bag.HasWarnings()) {
		return
	}
	modelfmt.DiagnosticsPretty(os.Stderr, result.Bag, fileSet, modelfmt.PrettyOpts{
		Color: useColor(cmd, os.Stderr),
	})
}

// writeSummariesPretty prints one row per file plus aggregate totals.
func writeSummariesPretty(w io.Writer, results []driver.Result, quiet bool) {
	var (
		files, entities, documented, orphans, annotations int
	)
	for _, result := range results {
		sum := result.Summary
		if sum == nil {
			continue
		}
		files++
		entities += sum.Entities
		documented += sum.Documented
		orphans += sum.Orphans
		annotations += len(sum.Annotations)

		if quiet {
			continue
		}
		cached := ""
		if result.FromCache {
			cached = " (cached)"
		}
		fmt.Fprintf(w, "%-48s %-8s %3d entities %5.0f%% documented %2d orphans %2d annotations%s\n",
			sum.Path, sum.Grammar, sum.Entities, sum.Coverage()*100,
			sum.Orphans, len(sum.Annotations), cached)
	}
	if files == 0 {
		fmt.Fprintln(w, "no recognized source files")
		return
	}
	coverage := 1.0
	if entities > 0 {
		coverage = float64(documented) / float64(entities)
	}
	fmt.Fprintf(w, "scanned %d files: %d entities, %.0f%% documented, %d orphans, %d annotations\n",
		files, entities, coverage*100, orphans, annotations)
}

type summaryJSON struct {
	Path         string  `json:"path"`
	Grammar      string  `json:"grammar"`
	Entities     int     `json:"entities"`
	Documented   int     `json:"documented"`
	Coverage     float64 `json:"coverage"`
	Orphans      int     `json:"orphans"`
	Annotations  int     `json:"annotations"`
	HasModuleDoc bool    `json:"has_module_doc"`
	FromCache    bool    `json:"from_cache,omitempty"`
}

func writeSummariesJSON(w io.Writer, results []driver.Result) error {
	out := make([]summaryJSON, 0, len(results))
	for _, result := range results {
		sum := result.Summary
		if sum == nil {
			continue
		}
		out = append(out, summaryJSON{
			Path:         sum.Path,
			Grammar:      sum.Grammar,
			Entities:     sum.Entities,
			Documented:   sum.Documented,
			Coverage:     sum.Coverage(),
			Orphans:      sum.Orphans,
			Annotations:  len(sum.Annotations),
			HasModuleDoc: sum.HasModuleDoc,
			FromCache:    result.FromCache,
		})
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

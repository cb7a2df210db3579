package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"doclens/internal/driver"
	"doclens/internal/modelfmt"
	"doclens/internal/source"
)

var annotationsCmd = &cobra.Command{
	Use:   "annotations [flags] [path]",
	Short: "List TODO/FIXME style markers",
	Long:  `Annotations walks comments for marker tags and prints every hit with its position.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnnotations,
}

func init() {
	annotationsCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	annotationsCmd.Flags().String("tag", "", "show only this tag (exact, case-sensitive)")
	annotationsCmd.Flags().Bool("cache", false, "reuse unchanged results from the disk cache")
}

func runAnnotations(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	tagFilter, _ := cmd.Flags().GetString("tag")

	target, isDir, err := resolveTarget(args)
	if err != nil {
		return err
	}

	opts, _, err := buildScanOptions(cmd, manifestStartDir(target, isDir))
	if err != nil {
		return err
	}
	if withCache, _ := cmd.Flags().GetBool("cache"); withCache {
		cache, cacheErr := driver.OpenDiskCache("doclens")
		if cacheErr != nil {
			fmt.Fprintf(os.Stderr, "warning: disk cache unavailable: %v\n", cacheErr)
		} else {
			opts.Cache = cache
		}
	}

	var results []driver.Result
	if isDir {
		_, results, err = driver.ScanDir(cmd.Context(), target, opts)
	} else {
		var result driver.Result
		result, err = driver.ScanFile(source.NewFileSet(), target, opts)
		results = []driver.Result{result}
	}
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if format == "json" {
		return writeAnnotationsJSON(os.Stdout, results, tagFilter)
	}
	writeAnnotationsPretty(cmd, results, tagFilter)
	return nil
}

func writeAnnotationsPretty(cmd *cobra.Command, results []driver.Result, tagFilter string) {
	color := useColor(cmd, os.Stdout)
	total := 0
	for _, result := range results {
		if result.Summary == nil {
			continue
		}
		lines := make([]modelfmt.AnnotationLine, 0, len(result.Summary.Annotations))
		for _, a := range result.Summary.Annotations {
			if tagFilter != "" && a.Tag != tagFilter {
				continue
			}
			lines = append(lines, modelfmt.AnnotationLine{
				Tag:     a.Tag,
				Message: a.Message,
				Author:  a.Author,
				Line:    a.Line,
				Col:     a.Col,
			})
		}
		total += len(lines)
		modelfmt.AnnotationsPretty(os.Stdout, result.Summary.Path, lines, modelfmt.PrettyOpts{Color: color})
	}
	if total == 0 {
		fmt.Fprintln(os.Stdout, "no annotations found")
	}
}

type annotationJSON struct {
	Path    string `json:"path"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
	Tag     string `json:"tag"`
	Message string `json:"message,omitempty"`
	Author  string `json:"author,omitempty"`
}

func writeAnnotationsJSON(w io.Writer, results []driver.Result, tagFilter string) error {
	out := make([]annotationJSON, 0)
	for _, result := range results {
		if result.Summary == nil {
			continue
		}
		for _, a := range result.Summary.Annotations {
			if tagFilter != "" && a.Tag != tagFilter {
				continue
			}
			out = append(out, annotationJSON{
				Path:    result.Summary.Path,
				Line:    a.Line,
				Col:     a.Col,
				Tag:     a.Tag,
				Message: a.Message,
				Author:  a.Author,
			})
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"doclens/internal/grammar"
)

var grammarsCmd = &cobra.Command{
	Use:   "grammars",
	Short: "List registered language grammars",
	Long:  `Grammars lists every known language, builtin and from doclens.toml, with its extensions and doc markers.`,
	Args:  cobra.NoArgs,
	RunE:  runGrammars,
}

func runGrammars(cmd *cobra.Command, _ []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	opts, _, err := buildScanOptions(cmd, cwd)
	if err != nil {
		return err
	}
	reg := opts.Registry
	if reg == nil {
		reg = grammar.NewRegistry()
	}

	for _, name := range reg.Names() {
		gram, ok := reg.ByName(name)
		if !ok {
			continue
		}
		markers := docMarkers(gram)
		if markers == "" {
			markers = "(plain comments)"
		}
		fmt.Fprintf(os.Stdout, "%-10s %-20s %s\n",
			gram.Name, strings.Join(gram.Extensions, " "), markers)
	}
	return nil
}

func docMarkers(gram *grammar.Descriptor) string {
	var parts []string
	parts = append(parts, gram.DocLine...)
	parts = append(parts, gram.DocBlock...)
	parts = append(parts, gram.ModuleDoc...)
	return strings.Join(parts, " ")
}

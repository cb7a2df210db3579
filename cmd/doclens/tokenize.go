package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"doclens/internal/driver"
	"doclens/internal/modelfmt"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file",
	Short: "Tokenize a source file",
	Long:  `Tokenize splits a source file into code, comment, string, and attribute tokens`,
	Args:  cobra.ExactArgs(1),
	RunE:  runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	tokenizeCmd.Flags().String("language", "", "force a grammar instead of resolving by extension")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	// Получаем флаги
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}

	opts, _, err := buildScanOptions(cmd, manifestStartDir(filePath, false))
	if err != nil {
		return err
	}
	opts.Language, _ = cmd.Flags().GetString("language")

	// Выполняем токенизацию
	result, err := driver.Tokenize(filePath, opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	if result.Bag.HasErrors() || result.Bag.HasWarnings() {
		modelfmt.DiagnosticsPretty(os.Stderr, result.Bag, result.FileSet, modelfmt.PrettyOpts{
			Color: useColor(cmd, os.Stderr),
		})
	}

	// Выводим токены в выбранном формате
	switch format {
	case "pretty":
		return modelfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet)
	case "json":
		return modelfmt.FormatTokensJSON(os.Stdout, result.Tokens)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

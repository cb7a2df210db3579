// Package driver wires the pipeline together: file loading, grammar
// resolution, scanning, model building, the disk cache, and the parallel
// directory walk the CLI commands sit on.
package driver

import (
	"fmt"

	"doclens/internal/diag"
	"doclens/internal/docmodel"
	"doclens/internal/grammar"
	"doclens/internal/scanner"
	"doclens/internal/source"
	"doclens/internal/token"
)

// Options configures a scan.
type Options struct {
	// Registry: nil — только встроенные грамматики.
	Registry *grammar.Registry
	// Language forces a grammar by name instead of resolving the extension.
	Language string
	// ExtraTags расширяет набор маркеров аннотаций.
	ExtraTags []string
	// MaxDiagnostics bounds the per-file bag; <=0 uses the default.
	MaxDiagnostics int
	// Cache: nil — без дискового кеша.
	Cache *DiskCache
	// Events receives progress notifications; may be nil.
	Events EventSink
	// Jobs bounds directory-scan parallelism; <=0 uses GOMAXPROCS.
	Jobs int
}

const defaultMaxDiagnostics = 100

func (o *Options) registry() *grammar.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return grammar.NewRegistry()
}

func (o *Options) maxDiagnostics() int {
	if o.MaxDiagnostics > 0 {
		return o.MaxDiagnostics
	}
	return defaultMaxDiagnostics
}

// Result is the outcome for one file. Doc is nil when the summary was served
// from the disk cache or the file could not be processed; Summary is always
// filled for successfully resolved files.
type Result struct {
	Path      string
	FileID    source.FileID
	Doc       *docmodel.Document
	Summary   *Summary
	Bag       *diag.Bag
	FromCache bool
}

// resolveGrammar picks the descriptor for a path, reporting into the bag on
// failure.
func resolveGrammar(reg *grammar.Registry, path, forced string, bag *diag.Bag) (*grammar.Descriptor, bool) {
	if forced != "" {
		if gram, ok := reg.ByName(forced); ok {
			return gram, true
		}
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.GrammarUnknownLanguage,
			Message:  fmt.Sprintf("unknown language %q", forced),
		})
		return nil, false
	}
	if gram, ok := reg.ForPath(path); ok {
		return gram, true
	}
	bag.Add(diag.Diagnostic{
		Severity: diag.SevError,
		Code:     diag.GrammarUnknownLanguage,
		Message:  fmt.Sprintf("no grammar registered for %q", path),
	})
	return nil, false
}

// buildFile runs scan and model build over an already loaded file.
func buildFile(file *source.File, gram *grammar.Descriptor, opts *Options, bag *diag.Bag) *docmodel.Document {
	toks := scanner.New(file, gram, scanner.Options{
		Reporter: diag.BagReporter{Bag: bag},
	}).Scan()
	return docmodel.Build(file, gram, toks, docmodel.Options{ExtraTags: opts.ExtraTags})
}

// ScanFile loads and analyzes a single file into the given file set.
func ScanFile(fileSet *source.FileSet, path string, opts Options) (Result, error) {
	bag := diag.NewBag(opts.maxDiagnostics())
	res := Result{Path: path, Bag: bag}

	fileID, err := fileSet.Load(path)
	if err != nil {
		bag.Add(diag.Diagnostic{
			Severity: diag.SevError,
			Code:     diag.IOLoadFileError,
			Message:  "failed to load file: " + err.Error(),
		})
		return res, err
	}
	res.FileID = fileID
	file := fileSet.Get(fileID)

	gram, ok := resolveGrammar(opts.registry(), path, opts.Language, bag)
	if !ok {
		return res, nil
	}

	res.Doc = buildFile(file, gram, &opts, bag)
	res.Summary = summarize(res.Doc, path)
	return res, nil
}

// ScanBytes analyzes in-memory content under a virtual file name.
func ScanBytes(name string, content []byte, opts Options) (Result, error) {
	bag := diag.NewBag(opts.maxDiagnostics())
	res := Result{Path: name, Bag: bag}

	fileSet := source.NewFileSet()
	fileID := fileSet.AddVirtual(name, content)
	res.FileID = fileID

	gram, ok := resolveGrammar(opts.registry(), name, opts.Language, bag)
	if !ok {
		return res, nil
	}

	res.Doc = buildFile(fileSet.Get(fileID), gram, &opts, bag)
	res.Summary = summarize(res.Doc, name)
	return res, nil
}

// TokenizeResult carries the raw token stream for the tokenize command.
type TokenizeResult struct {
	FileSet *source.FileSet
	FileID  source.FileID
	Tokens  []token.Token
	Bag     *diag.Bag
}

// Tokenize scans one file and returns its tokens without building a model.
func Tokenize(path string, opts Options) (*TokenizeResult, error) {
	bag := diag.NewBag(opts.maxDiagnostics())
	fileSet := source.NewFileSet()

	fileID, err := fileSet.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	file := fileSet.Get(fileID)

	gram, ok := resolveGrammar(opts.registry(), path, opts.Language, bag)
	if !ok {
		return &TokenizeResult{FileSet: fileSet, FileID: fileID, Bag: bag}, nil
	}

	toks := scanner.New(file, gram, scanner.Options{
		Reporter: diag.BagReporter{Bag: bag},
	}).Scan()
	return &TokenizeResult{
		FileSet: fileSet,
		FileID:  fileID,
		Tokens:  toks,
		Bag:     bag,
	}, nil
}

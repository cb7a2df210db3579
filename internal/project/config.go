// Package project loads doclens.toml: annotation tags, lint policy, and
// user-defined grammar descriptors that extend or shadow the builtins.
package project

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"doclens/internal/grammar"
)

// Config is the parsed doclens.toml.
type Config struct {
	Annotations AnnotationsConfig `toml:"annotations"`
	Lint        LintConfig        `toml:"lint"`
	Grammars    []GrammarConfig   `toml:"grammar"`
}

// AnnotationsConfig extends the builtin marker set.
type AnnotationsConfig struct {
	Tags []string `toml:"tags"`
}

// LintConfig sets the thresholds the lint command enforces.
type LintConfig struct {
	// MinCoverage: минимальная доля документированных сущностей, 0..1.
	MinCoverage float64 `toml:"min_coverage"`
	// FailOnOrphans: осиротевший doc-комментарий — ошибка, а не предупреждение.
	FailOnOrphans bool `toml:"fail_on_orphans"`
	// RequireModuleDoc: каждый файл обязан начинаться с module-doc.
	RequireModuleDoc bool `toml:"require_module_doc"`
}

// GrammarConfig is the TOML mirror of grammar.Descriptor. Declaration kinds
// are spelled as strings ("function", "struct", ...) and mapped on load.
type GrammarConfig struct {
	Name          string            `toml:"name"`
	Extensions    []string          `toml:"extensions"`
	LineComments  []string          `toml:"line_comments"`
	BlockComments []BlockConfig     `toml:"block_comments"`
	DocLine       []string          `toml:"doc_line"`
	DocBlock      []string          `toml:"doc_block"`
	ModuleDoc     []string          `toml:"module_doc"`
	Strings       []QuoteConfig     `toml:"strings"`
	Chars         []QuoteConfig     `toml:"chars"`
	AttrPrefixes  []string          `toml:"attr_prefixes"`
	Modifiers     []string          `toml:"modifiers"`
	Decls         map[string]string `toml:"decls"`
	Refine        map[string]string `toml:"refine"`
	TestAttrs     []string          `toml:"test_attrs"`
	TestPrefixes  []string          `toml:"test_prefixes"`

	PlainDocAttach   bool `toml:"plain_doc_attach"`
	IndentBlocks     bool `toml:"indent_blocks"`
	KeywordlessFuncs bool `toml:"keywordless_funcs"`
}

type BlockConfig struct {
	Open  string `toml:"open"`
	Close string `toml:"close"`
	Nest  bool   `toml:"nest"`
}

type QuoteConfig struct {
	Open      string `toml:"open"`
	Close     string `toml:"close"`
	Escape    string `toml:"escape"`
	Multiline bool   `toml:"multiline"`
}

// LoadConfig parses a doclens.toml file.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	return &cfg, nil
}

// Descriptor converts the TOML form into a validated grammar descriptor.
func (gc *GrammarConfig) Descriptor() (grammar.Descriptor, error) {
	d := grammar.Descriptor{
		Name:             gc.Name,
		Extensions:       gc.Extensions,
		LineComments:     gc.LineComments,
		DocLine:          gc.DocLine,
		DocBlock:         gc.DocBlock,
		ModuleDoc:        gc.ModuleDoc,
		AttrPrefixes:     gc.AttrPrefixes,
		Modifiers:        gc.Modifiers,
		TestAttrs:        gc.TestAttrs,
		TestPrefixes:     gc.TestPrefixes,
		PlainDocAttach:   gc.PlainDocAttach,
		IndentBlocks:     gc.IndentBlocks,
		KeywordlessFuncs: gc.KeywordlessFuncs,
	}
	for _, b := range gc.BlockComments {
		d.BlockComments = append(d.BlockComments, grammar.BlockDelims{
			Open:  b.Open,
			Close: b.Close,
			Nest:  b.Nest,
		})
	}
	var err error
	if d.Strings, err = quotes(gc.Strings); err != nil {
		return d, fmt.Errorf("grammar %s: %w", gc.Name, err)
	}
	if d.Chars, err = quotes(gc.Chars); err != nil {
		return d, fmt.Errorf("grammar %s: %w", gc.Name, err)
	}
	if d.Decls, err = decls(gc.Decls); err != nil {
		return d, fmt.Errorf("grammar %s: %w", gc.Name, err)
	}
	if d.Refine, err = decls(gc.Refine); err != nil {
		return d, fmt.Errorf("grammar %s: %w", gc.Name, err)
	}
	return d, d.Validate()
}

// Apply registers every configured grammar, shadowing builtins on conflict.
func (c *Config) Apply(reg *grammar.Registry) error {
	for i := range c.Grammars {
		d, err := c.Grammars[i].Descriptor()
		if err != nil {
			return err
		}
		if err := reg.Register(d); err != nil {
			return err
		}
	}
	return nil
}

func quotes(in []QuoteConfig) ([]grammar.Quote, error) {
	var out []grammar.Quote
	for _, q := range in {
		var esc byte
		switch len(q.Escape) {
		case 0:
		case 1:
			esc = q.Escape[0]
		default:
			return nil, fmt.Errorf("escape must be a single byte, got %q", q.Escape)
		}
		closeQ := q.Close
		if closeQ == "" {
			closeQ = q.Open
		}
		out = append(out, grammar.Quote{
			Open:      q.Open,
			Close:     closeQ,
			Escape:    esc,
			Multiline: q.Multiline,
		})
	}
	return out, nil
}

func decls(in map[string]string) (map[string]grammar.Decl, error) {
	if len(in) == 0 {
		return nil, nil
	}
	out := make(map[string]grammar.Decl, len(in))
	for kw, name := range in {
		d, err := parseDecl(name)
		if err != nil {
			return nil, fmt.Errorf("keyword %q: %w", kw, err)
		}
		out[kw] = d
	}
	return out, nil
}

func parseDecl(name string) (grammar.Decl, error) {
	switch strings.ToLower(name) {
	case "function":
		return grammar.DeclFunction, nil
	case "struct":
		return grammar.DeclStruct, nil
	case "trait":
		return grammar.DeclTrait, nil
	case "impl":
		return grammar.DeclImpl, nil
	case "const":
		return grammar.DeclConst, nil
	case "unknown":
		return grammar.DeclUnknown, nil
	}
	return grammar.DeclNone, fmt.Errorf("unknown declaration kind %q", name)
}

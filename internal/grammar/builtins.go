package grammar

// Builtin descriptors. Doc markers must be strict refinements of the base
// delimiters ("///" refines "//"); the classifier relies on that ordering.

// Rust: nested block comments, outer/inner doc markers, #[...] attributes.
var rustDescriptor = Descriptor{
	Name:          "rust",
	Extensions:    []string{".rs"},
	LineComments:  []string{"//"},
	BlockComments: []BlockDelims{{Open: "/*", Close: "*/", Nest: true}},
	DocLine:       []string{"///"},
	DocBlock:      []string{"/**"},
	ModuleDoc:     []string{"//!", "/*!"},
	Strings:       []Quote{{Open: `"`, Close: `"`, Escape: '\\'}},
	Chars:         []Quote{{Open: `'`, Close: `'`, Escape: '\\'}},
	AttrPrefixes:  []string{"#![", "#["},
	Modifiers:     []string{"pub", "async", "unsafe", "extern"},
	Decls: map[string]Decl{
		"fn":     DeclFunction,
		"struct": DeclStruct,
		"enum":   DeclStruct,
		"trait":  DeclTrait,
		"impl":   DeclImpl,
		"const":  DeclConst,
		"static": DeclConst,
		"mod":    DeclUnknown,
		"union":  DeclUnknown,
	},
	TestAttrs: []string{"#[test]", "#[tokio::test]"},
}

// Go: no doc markers at all, so plain comments count as doc.
var goDescriptor = Descriptor{
	Name:          "go",
	Extensions:    []string{".go"},
	LineComments:  []string{"//"},
	BlockComments: []BlockDelims{{Open: "/*", Close: "*/"}},
	Strings: []Quote{
		{Open: `"`, Close: `"`, Escape: '\\'},
		{Open: "`", Close: "`", Multiline: true},
	},
	Chars: []Quote{{Open: `'`, Close: `'`, Escape: '\\'}},
	Decls: map[string]Decl{
		"func":  DeclFunction,
		"type":  DeclStruct,
		"const": DeclConst,
		"var":   DeclUnknown,
	},
	Refine: map[string]Decl{
		"struct":    DeclStruct,
		"interface": DeclTrait,
	},
	TestPrefixes:   []string{"Test", "Benchmark", "Fuzz"},
	PlainDocAttach: true,
}

// Python: docstrings are string literals, not comments, so the only comment
// form is "#". Decorator lines are attribute markers.
var pythonDescriptor = Descriptor{
	Name:         "python",
	Extensions:   []string{".py"},
	LineComments: []string{"#"},
	Strings: []Quote{
		{Open: `"""`, Close: `"""`, Escape: '\\', Multiline: true},
		{Open: `'''`, Close: `'''`, Escape: '\\', Multiline: true},
		{Open: `"`, Close: `"`, Escape: '\\'},
		{Open: `'`, Close: `'`, Escape: '\\'},
	},
	AttrPrefixes: []string{"@"},
	Modifiers:    []string{"async"},
	Decls: map[string]Decl{
		"def":   DeclFunction,
		"class": DeclStruct,
	},
	TestPrefixes:   []string{"test_"},
	PlainDocAttach: true,
	IndentBlocks:   true,
}

// C: Doxygen doc markers, keywordless function definitions.
var cDescriptor = Descriptor{
	Name:          "c",
	Extensions:    []string{".c", ".h"},
	LineComments:  []string{"//"},
	BlockComments: []BlockDelims{{Open: "/*", Close: "*/"}},
	DocLine:       []string{"///", "//!"},
	DocBlock:      []string{"/**", "/*!"},
	Strings:       []Quote{{Open: `"`, Close: `"`, Escape: '\\'}},
	Chars:         []Quote{{Open: `'`, Close: `'`, Escape: '\\'}},
	Modifiers:     []string{"static", "extern", "inline"},
	Decls: map[string]Decl{
		"struct":  DeclStruct,
		"enum":    DeclStruct,
		"union":   DeclStruct,
		"typedef": DeclUnknown,
	},
	KeywordlessFuncs: true,
}

var cppDescriptor = Descriptor{
	Name:          "cpp",
	Extensions:    []string{".cpp", ".cc", ".cxx", ".hpp", ".hh"},
	LineComments:  []string{"//"},
	BlockComments: []BlockDelims{{Open: "/*", Close: "*/"}},
	DocLine:       []string{"///", "//!"},
	DocBlock:      []string{"/**", "/*!"},
	Strings:       []Quote{{Open: `"`, Close: `"`, Escape: '\\'}},
	Chars:         []Quote{{Open: `'`, Close: `'`, Escape: '\\'}},
	Modifiers:     []string{"static", "extern", "inline", "virtual", "constexpr", "explicit"},
	Decls: map[string]Decl{
		"class":     DeclStruct,
		"struct":    DeclStruct,
		"enum":      DeclStruct,
		"union":     DeclStruct,
		"namespace": DeclUnknown,
		"typedef":   DeclUnknown,
	},
	KeywordlessFuncs: true,
}

// Java: Javadoc blocks, @Annotation markers, keywordless methods.
var javaDescriptor = Descriptor{
	Name:          "java",
	Extensions:    []string{".java"},
	LineComments:  []string{"//"},
	BlockComments: []BlockDelims{{Open: "/*", Close: "*/"}},
	DocBlock:      []string{"/**"},
	Strings:       []Quote{{Open: `"`, Close: `"`, Escape: '\\'}},
	Chars:         []Quote{{Open: `'`, Close: `'`, Escape: '\\'}},
	AttrPrefixes:  []string{"@"},
	Modifiers: []string{
		"public", "private", "protected", "static", "final",
		"abstract", "synchronized", "native",
	},
	Decls: map[string]Decl{
		"class":     DeclStruct,
		"interface": DeclTrait,
		"enum":      DeclStruct,
		"record":    DeclStruct,
	},
	TestAttrs:        []string{"@Test"},
	KeywordlessFuncs: true,
}

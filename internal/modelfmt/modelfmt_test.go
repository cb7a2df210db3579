package modelfmt_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"doclens/internal/diag"
	"doclens/internal/docmodel"
	"doclens/internal/grammar"
	"doclens/internal/modelfmt"
	"doclens/internal/scanner"
	"doclens/internal/source"
)

func buildDoc(t *testing.T, lang, name, input string) (*docmodel.Document, *source.FileSet, *diag.Bag) {
	t.Helper()
	reg := grammar.NewRegistry()
	gram, ok := reg.ByName(lang)
	if !ok {
		t.Fatalf("no grammar for %s", lang)
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(input)))
	bag := diag.NewBag(16)
	toks := scanner.New(file, gram, scanner.Options{Reporter: diag.BagReporter{Bag: bag}}).Scan()
	return docmodel.Build(file, gram, toks, docmodel.Options{}), fs, bag
}

const sample = `/// Greets the caller.
pub fn greet() {}

pub fn silent() {}
`

func TestDocumentPretty(t *testing.T) {
	doc, _, _ := buildDoc(t, "rust", "greet.rs", sample)
	var buf bytes.Buffer
	if err := modelfmt.DocumentPretty(&buf, doc, modelfmt.PrettyOpts{ShowText: true}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{"module greet (rust)", "function greet", "| Greets the caller.", "function silent", "undocumented"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(strings.SplitN(out, "silent", 2)[0], "undocumented") {
		t.Errorf("documented entity flagged undocumented:\n%s", out)
	}
}

func TestDocumentJSON(t *testing.T) {
	doc, _, _ := buildDoc(t, "rust", "greet.rs", "//! Mod doc.\n\n/// Doc.\npub fn greet() {} // NOTE check\n")
	var buf bytes.Buffer
	if err := modelfmt.DocumentJSONOut(&buf, doc, modelfmt.JSONOpts{IncludePositions: true}); err != nil {
		t.Fatal(err)
	}

	var out modelfmt.DocumentJSON
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatal(err)
	}
	if out.Grammar != "rust" || out.ModuleDoc != "Mod doc." {
		t.Errorf("header = %+v", out)
	}
	if len(out.Root.Children) != 1 || out.Root.Children[0].Doc != "Doc." {
		t.Errorf("root children = %+v", out.Root.Children)
	}
	if len(out.Annotations) != 1 || out.Annotations[0].Tag != "NOTE" {
		t.Errorf("annotations = %+v", out.Annotations)
	}
	if out.Annotations[0].Line != 4 || out.Annotations[0].Col != 22 {
		t.Errorf("annotation position = %d:%d, want 4:22", out.Annotations[0].Line, out.Annotations[0].Col)
	}
	if out.Root.Children[0].Location.StartLine != 4 {
		t.Errorf("positions not included: %+v", out.Root.Children[0].Location)
	}
}

func TestTokensPretty(t *testing.T) {
	reg := grammar.NewRegistry()
	gram, _ := reg.ByName("rust")
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.rs", []byte("fn f() {} // done\n")))
	toks := scanner.New(file, gram, scanner.Options{}).Scan()

	var buf bytes.Buffer
	if err := modelfmt.FormatTokensPretty(&buf, toks, fs); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "LineComment") || !strings.Contains(out, "EOF") {
		t.Errorf("token listing incomplete:\n%s", out)
	}
}

func TestDiagnosticsPretty(t *testing.T) {
	_, fs, bag := buildDoc(t, "rust", "bad.rs", "fn f() {\n    let s = \"unterminated\n}\n")
	if !bag.HasErrors() && !bag.HasWarnings() {
		t.Fatal("expected scan diagnostics")
	}

	var buf bytes.Buffer
	modelfmt.DiagnosticsPretty(&buf, bag, fs, modelfmt.PrettyOpts{})
	out := buf.String()
	if !strings.Contains(out, "bad.rs:2:") {
		t.Errorf("missing location:\n%s", out)
	}
	if !strings.Contains(out, "^") {
		t.Errorf("missing underline:\n%s", out)
	}
	if !strings.Contains(out, "SCAN") {
		t.Errorf("missing code:\n%s", out)
	}
}

func TestAnnotationsPretty(t *testing.T) {
	var buf bytes.Buffer
	modelfmt.AnnotationsPretty(&buf, "src/a.rs", []modelfmt.AnnotationLine{
		{Tag: "TODO", Message: "do it", Line: 3, Col: 4},
		{Tag: "FIXME", Message: "broken", Author: "ana", Line: 9, Col: 12},
	}, modelfmt.PrettyOpts{})
	out := buf.String()
	for _, want := range []string{"src/a.rs", "TODO", "do it", "(ana)", "FIXME", "3:4", "9:12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

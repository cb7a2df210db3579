package comment_test

import (
	"testing"

	"doclens/internal/comment"
	"doclens/internal/grammar"
	"doclens/internal/scanner"
	"doclens/internal/source"
)

func collect(t *testing.T, lang, input string) ([]*comment.Record, *source.File) {
	t.Helper()
	reg := grammar.NewRegistry()
	gram, ok := reg.ByName(lang)
	if !ok {
		t.Fatalf("no grammar for %s", lang)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("test."+lang, []byte(input))
	file := fs.Get(id)
	toks := scanner.New(file, gram, scanner.Options{}).Scan()
	return comment.Collect(file, toks, gram), file
}

func TestClassifyLineKinds(t *testing.T) {
	records, _ := collect(t, "rust",
		"//! module doc\n\n/// doc line\n\n// plain line\n")

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	tests := []struct {
		kind comment.Kind
		text string
	}{
		{comment.ModuleDoc, "module doc"},
		{comment.DocLine, "doc line"},
		{comment.PlainLine, "plain line"},
	}
	for i, tt := range tests {
		if records[i].Kind != tt.kind {
			t.Errorf("record %d: kind %s, want %s", i, records[i].Kind, tt.kind)
		}
		if records[i].Text != tt.text {
			t.Errorf("record %d: text %q, want %q", i, records[i].Text, tt.text)
		}
	}
}

func TestDocMarkerCheckedBeforePlain(t *testing.T) {
	// "///" обязан победить "//", а "//!" — обе
	records, _ := collect(t, "rust", "///x\n")
	if records[0].Kind != comment.DocLine {
		t.Errorf("/// classified as %s", records[0].Kind)
	}

	records, _ = collect(t, "rust", "//!x\n")
	if records[0].Kind != comment.ModuleDoc {
		t.Errorf("//! classified as %s", records[0].Kind)
	}
}

func TestClassifyBlockKinds(t *testing.T) {
	records, _ := collect(t, "rust",
		"/*! module */\ncode();\n/** doc */\ncode();\n/* plain */\n")

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	wantKinds := []comment.Kind{comment.ModuleDoc, comment.DocBlock, comment.PlainBlock}
	for i, want := range wantKinds {
		if records[i].Kind != want {
			t.Errorf("record %d: kind %s, want %s", i, records[i].Kind, want)
		}
	}
}

func TestEmptyBlockIsPlain(t *testing.T) {
	records, _ := collect(t, "rust", "/**/\n")
	if len(records) != 1 || records[0].Kind != comment.PlainBlock {
		t.Fatalf("/**/ must be an empty plain block, got %+v", records[0])
	}
	if records[0].Text != "" {
		t.Errorf("expected empty text, got %q", records[0].Text)
	}
}

func TestLineRunMerging(t *testing.T) {
	records, _ := collect(t, "rust", "/// Doc comment\n/// more\npub fn add() {}\n")

	if len(records) != 1 {
		t.Fatalf("expected merged run, got %d records", len(records))
	}
	r := records[0]
	if r.Kind != comment.DocLine {
		t.Errorf("kind %s, want DocLine", r.Kind)
	}
	if r.Text != "Doc comment\nmore" {
		t.Errorf("text %q, want %q", r.Text, "Doc comment\nmore")
	}
	if r.Raw != "/// Doc comment\n/// more" {
		t.Errorf("raw %q", r.Raw)
	}
}

func TestRunNotMergedAcrossBlankLine(t *testing.T) {
	records, _ := collect(t, "rust", "// first\n\n// second\n")
	if len(records) != 2 {
		t.Fatalf("blank line must split runs, got %d records", len(records))
	}
}

func TestRunNotMergedAcrossKinds(t *testing.T) {
	records, _ := collect(t, "rust", "// plain\n/// doc\n")
	if len(records) != 2 {
		t.Fatalf("kind change must split runs, got %d records", len(records))
	}
	if records[0].Kind != comment.PlainLine || records[1].Kind != comment.DocLine {
		t.Errorf("kinds: %s, %s", records[0].Kind, records[1].Kind)
	}
}

func TestRunNotMergedAcrossCode(t *testing.T) {
	records, _ := collect(t, "rust", "// first\nlet x = 1; // second\n")
	if len(records) != 2 {
		t.Fatalf("code between comments must split runs, got %d records", len(records))
	}
}

func TestTrailingCommentDoesNotOpenRun(t *testing.T) {
	// Хвостовой комментарий не сливается с комментарием следующей строки:
	// иначе общая запись начиналась бы посреди строки кода.
	records, _ := collect(t, "rust", "let x = 1; // trailing\n// own line\n")
	if len(records) != 2 {
		t.Fatalf("trailing comment must not open a run, got %d records", len(records))
	}
	if records[1].Text != "own line" {
		t.Errorf("second record text %q", records[1].Text)
	}
}

func TestBlockGutterStripping(t *testing.T) {
	input := "/*\n * Multi-line block comment\n * describing the User struct\n */\n"
	records, file := collect(t, "rust", input)

	if len(records) != 1 {
		t.Fatalf("expected one block record, got %d", len(records))
	}
	r := records[0]
	if r.Kind != comment.PlainBlock {
		t.Errorf("kind %s, want PlainBlock", r.Kind)
	}
	want := "\nMulti-line block comment\ndescribing the User struct\n"
	if r.Text != want {
		t.Errorf("stripped text %q, want %q", r.Text, want)
	}
	// строки Text соответствуют физическим строкам Raw
	if r.StartLine(file) != 1 || r.EndLine(file) != 4 {
		t.Errorf("lines %d-%d, want 1-4", r.StartLine(file), r.EndLine(file))
	}
}

func TestPythonHashComments(t *testing.T) {
	records, _ := collect(t, "python", "# TODO: Implement user validation\ndef validate(self):\n    pass\n")

	if len(records) != 1 {
		t.Fatalf("expected one record, got %d", len(records))
	}
	if records[0].Kind != comment.PlainLine {
		t.Errorf("kind %s, want PlainLine", records[0].Kind)
	}
	if records[0].Text != "TODO: Implement user validation" {
		t.Errorf("text %q", records[0].Text)
	}
}

func TestJavadocBlock(t *testing.T) {
	input := "/**\n * Constructor comment\n */\npublic User(String name) {}\n"
	records, _ := collect(t, "java", input)

	if len(records) != 1 || records[0].Kind != comment.DocBlock {
		t.Fatalf("expected DocBlock, got %+v", records[0])
	}
	if records[0].Text != "\nConstructor comment\n" {
		t.Errorf("text %q", records[0].Text)
	}
}

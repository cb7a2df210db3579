package assoc_test

import (
	"strings"
	"testing"

	"doclens/internal/assoc"
	"doclens/internal/comment"
	"doclens/internal/entity"
	"doclens/internal/grammar"
	"doclens/internal/scanner"
	"doclens/internal/source"
)

// associate прогоняет весь конвейер: скан, классификация, границы, привязка.
func associate(t *testing.T, lang, name, input string) (*entity.Entity, []*comment.Record) {
	t.Helper()
	reg := grammar.NewRegistry()
	gram, ok := reg.ByName(lang)
	if !ok {
		t.Fatalf("no grammar for %s", lang)
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, []byte(input)))
	toks := scanner.New(file, gram, scanner.Options{}).Scan()
	recs := comment.Collect(file, toks, gram)
	root := entity.Parse(file, toks, gram)
	assoc.Associate(file, toks, recs, root, gram)
	return root, recs
}

func namedChild(t *testing.T, e *entity.Entity, name string) *entity.Entity {
	t.Helper()
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("%s %q has no child %q", e.Kind, e.Name, name)
	return nil
}

func TestDocLineAttachesToNextDecl(t *testing.T) {
	src := `/// Validates the user.
pub fn validate() -> bool {
    true
}
`
	root, recs := associate(t, "rust", "a.rs", src)
	fn := namedChild(t, root, "validate")
	if fn.Doc == nil {
		t.Fatal("doc comment did not attach")
	}
	if fn.Doc.Text != "Validates the user." {
		t.Errorf("doc text = %q", fn.Doc.Text)
	}
	if !recs[0].Attached {
		t.Error("record not marked attached")
	}
}

func TestBlankLineBreaksAttachment(t *testing.T) {
	src := `/// Stale doc.

pub fn target() {}
`
	root, recs := associate(t, "rust", "a.rs", src)
	fn := namedChild(t, root, "target")
	if fn.Doc != nil {
		t.Errorf("doc attached across a blank line: %q", fn.Doc.Text)
	}
	if recs[0].Attached {
		t.Error("orphan record marked attached")
	}
	if len(root.Inline) != 1 {
		t.Fatalf("orphan should land in root inline, got %d records", len(root.Inline))
	}
}

func TestAttributeLinesDoNotBreakAttachment(t *testing.T) {
	src := `/// A user record.
#[derive(Debug, Clone)]
#[serde(rename_all = "camelCase")]
pub struct User {
    pub name: String,
}
`
	root, _ := associate(t, "rust", "a.rs", src)
	user := namedChild(t, root, "User")
	if user.Doc == nil {
		t.Fatal("doc did not skip attribute lines")
	}
	if user.Doc.Text != "A user record." {
		t.Errorf("doc text = %q", user.Doc.Text)
	}
}

func TestPlainCommentAttachesOnlyWithoutDocMarkers(t *testing.T) {
	// В Go нет doc-маркеров, обычный комментарий над декларацией — её doc.
	goSrc := "// Add returns the sum.\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"
	root, _ := associate(t, "go", "a.go", goSrc)
	if namedChild(t, root, "Add").Doc == nil {
		t.Error("plain comment should document a Go declaration")
	}

	// В Rust doc-маркеры есть, обычный // никогда не становится doc.
	rustSrc := "// just a note\npub fn noted() {}\n"
	root, _ = associate(t, "rust", "a.rs", rustSrc)
	if doc := namedChild(t, root, "noted").Doc; doc != nil {
		t.Errorf("plain rust comment attached as doc: %q", doc.Text)
	}
}

func TestModuleDocGoesToRoot(t *testing.T) {
	src := `//! User handling module.
//! Second line.

pub fn helper() {}
`
	root, _ := associate(t, "rust", "m.rs", src)
	if root.Doc == nil {
		t.Fatal("module doc did not reach the root")
	}
	if root.Doc.Kind != comment.ModuleDoc {
		t.Errorf("root doc kind = %s", root.Doc.Kind)
	}
	if !strings.Contains(root.Doc.Text, "Second line.") {
		t.Errorf("module doc lines not merged: %q", root.Doc.Text)
	}
	if namedChild(t, root, "helper").Doc != nil {
		t.Error("module doc must not attach to the following declaration")
	}
}

func TestTrailingCommentNeverAttaches(t *testing.T) {
	src := "var a = 1 // trailing note\nfunc Next() {}\n"
	root, _ := associate(t, "go", "a.go", src)
	if doc := namedChild(t, root, "Next").Doc; doc != nil {
		t.Errorf("trailing comment attached to next declaration: %q", doc.Text)
	}
}

func TestNearestRunWins(t *testing.T) {
	src := `/// Older paragraph.

/// The real doc.
pub fn target() {}
`
	root, recs := associate(t, "rust", "a.rs", src)
	fn := namedChild(t, root, "target")
	if fn.Doc == nil || fn.Doc.Text != "The real doc." {
		t.Fatalf("nearest run must win, got %+v", fn.Doc)
	}
	if recs[0].Attached {
		t.Error("older run still marked attached")
	}
}

func TestDocAtEOFIsOrphan(t *testing.T) {
	src := "pub fn only() {}\n\n/// Dangling doc at end of file.\n"
	root, recs := associate(t, "rust", "a.rs", src)
	if recs[len(recs)-1].Attached {
		t.Error("EOF doc marked attached")
	}
	if len(root.Inline) != 1 {
		t.Fatalf("EOF doc should be a root orphan, inline = %d", len(root.Inline))
	}
}

func TestBodyCommentBecomesInlineOfEnclosing(t *testing.T) {
	src := `pub fn work() {
    // TODO: handle the overflow case
    let x = 1;
}
`
	root, _ := associate(t, "rust", "a.rs", src)
	fn := namedChild(t, root, "work")
	if len(fn.Inline) != 1 {
		t.Fatalf("body comment should be inline of the function, got %d", len(fn.Inline))
	}
	if fn.Inline[0].Attached {
		t.Error("inline record marked attached")
	}
}

func TestFieldDocInsideStruct(t *testing.T) {
	src := `pub struct User {
    /// Display name.
    pub name: String,
}
`
	root, _ := associate(t, "rust", "a.rs", src)
	name := namedChild(t, namedChild(t, root, "User"), "name")
	if name.Doc == nil || name.Doc.Text != "Display name." {
		t.Fatalf("field doc = %+v", name.Doc)
	}
}

func TestTrailingCommentDoesNotBlockNextDoc(t *testing.T) {
	// Хвостовой комментарий после кода не должен сливаться в один прогон с
	// doc-комментарием следующей строки и красть у него привязку.
	goSrc := "var x = 1 // trailing\n// Add sums two ints.\nfunc Add(a, b int) int {\n\treturn a + b\n}\n"
	root, recs := associate(t, "go", "a.go", goSrc)
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2 (no merge across the code line)", len(recs))
	}
	fn := namedChild(t, root, "Add")
	if fn.Doc == nil {
		t.Fatal("doc lost behind a trailing comment")
	}
	if fn.Doc.Text != "Add sums two ints." {
		t.Errorf("doc text = %q", fn.Doc.Text)
	}
}

func TestPlainBlockAttachesAsDoc(t *testing.T) {
	goSrc := `/*
Config holds the knobs.
Loaded once at startup.
*/
type Config struct {
	Path string
}
`
	root, _ := associate(t, "go", "a.go", goSrc)
	cfg := namedChild(t, root, "Config")
	if cfg.Doc == nil {
		t.Fatal("block comment did not attach")
	}
	if cfg.Doc.Kind != comment.PlainBlock {
		t.Errorf("doc kind = %s, want PlainBlock", cfg.Doc.Kind)
	}
	if !strings.Contains(cfg.Doc.Text, "Config holds the knobs.") {
		t.Errorf("doc text = %q", cfg.Doc.Text)
	}
}

func TestSecondModuleDocStaysAtRoot(t *testing.T) {
	src := `//! Real module doc.

mod inner {
    //! Stray module doc.
}
`
	root, recs := associate(t, "rust", "m.rs", src)
	if root.Doc == nil || !strings.Contains(root.Doc.Text, "Real module doc.") {
		t.Fatalf("root doc = %+v", root.Doc)
	}
	// переполнение остаётся у корня, а не у внутренней сущности
	if len(root.Inline) != 1 || !strings.Contains(root.Inline[0].Text, "Stray") {
		t.Fatalf("root inline = %+v", root.Inline)
	}
	inner := namedChild(t, root, "inner")
	if len(inner.Inline) != 0 {
		t.Errorf("stray module doc filed under inner: %+v", inner.Inline)
	}
	if recs[1].Attached {
		t.Error("overflow module doc marked attached")
	}
}

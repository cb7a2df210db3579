package grammar

import (
	"errors"
	"fmt"
	"strings"
)

// Decl names the declaration kind a keyword introduces. The entity layer maps
// these onto its own kinds; grammar stays a pure data table.
type Decl uint8

const (
	DeclNone Decl = iota
	DeclFunction
	DeclStruct
	DeclTrait
	DeclImpl
	DeclConst
	// DeclUnknown marks keywords that open a recognizable boundary the engine
	// cannot classify further (mod, namespace, typedef).
	DeclUnknown
)

// BlockDelims is one block-comment delimiter pair.
type BlockDelims struct {
	Open  string
	Close string
	// Nest: true, если одноимённые открывающие разделители внутри блока
	// требуют парных закрывающих (Rust); иначе первый Close завершает блок.
	Nest bool
}

// Quote describes one string/char literal form.
type Quote struct {
	Open   string
	Close  string
	Escape byte // 0: без экранирования (Go raw strings)
	// Multiline: литерал может содержать перевод строки (""" в Python, ` в Go).
	Multiline bool
}

// Descriptor is a pure value naming how one language spells comments,
// literals, attributes, and declaration-introducing keywords. It carries no
// behavior: adding a language is adding data, never branching code.
type Descriptor struct {
	Name       string
	Extensions []string

	LineComments  []string      // базовые префиксы: "//", "#"
	BlockComments []BlockDelims // "/* */" и т.п.

	DocLine   []string // "///" — уточнение LineComments
	DocBlock  []string // "/**" — уточнение BlockComments
	ModuleDoc []string // "//!", "/*!"

	Strings []Quote
	Chars   []Quote

	// AttrPrefixes: маркеры атрибутов/аннотаций в начале строки ("#[", "@").
	// Сканер выделяет такие строки в отдельные токены, чтобы привязка doc
	// комментариев могла перешагивать через них.
	AttrPrefixes []string

	Modifiers []string        // pub, async, static, ...
	Decls     map[string]Decl // keyword -> вид декларации
	// Refine уточняет вид по слову после имени: в Go "type X struct" против
	// "type X interface".
	Refine map[string]Decl

	TestAttrs    []string // атрибуты, помечающие тест: "#[test]", "@Test"
	TestPrefixes []string // префиксы имён тестов: "test_", "Test"

	// PlainDocAttach: считать ли обычный комментарий перед декларацией её
	// документацией. Включается только для языков без doc-маркеров.
	PlainDocAttach bool
	// IndentBlocks: границы тел определяются отступом, а не скобками (Python).
	IndentBlocks bool
	// KeywordlessFuncs: функции/методы объявляются без вводного ключевого
	// слова (C, C++, Java).
	KeywordlessFuncs bool
}

// MaxDelimLen returns the longest delimiter the scanner must look ahead for.
func (d *Descriptor) MaxDelimLen() int {
	maxLen := 0
	grow := func(s string) {
		if len(s) > maxLen {
			maxLen = len(s)
		}
	}
	for _, p := range d.LineComments {
		grow(p)
	}
	for _, b := range d.BlockComments {
		grow(b.Open)
		grow(b.Close)
	}
	for _, q := range d.Strings {
		grow(q.Open)
		grow(q.Close)
	}
	for _, q := range d.Chars {
		grow(q.Open)
	}
	for _, a := range d.AttrPrefixes {
		grow(a)
	}
	return maxLen
}

// HasDocMarkers reports whether the language declares any doc comment form.
func (d *Descriptor) HasDocMarkers() bool {
	return len(d.DocLine) > 0 || len(d.DocBlock) > 0 || len(d.ModuleDoc) > 0
}

// Validate checks internal consistency. Doc markers must refine a base
// delimiter, otherwise the classifier could never reach them.
func (d *Descriptor) Validate() error {
	if d.Name == "" {
		return errors.New("descriptor has no name")
	}
	if len(d.LineComments) == 0 && len(d.BlockComments) == 0 {
		return fmt.Errorf("%s: descriptor declares no comment forms", d.Name)
	}
	for _, m := range d.DocLine {
		if !refinesAny(m, d.LineComments) {
			return fmt.Errorf("%s: doc-line marker %q does not refine a line-comment prefix", d.Name, m)
		}
	}
	for _, m := range d.DocBlock {
		if !refinesAnyBlock(m, d.BlockComments) {
			return fmt.Errorf("%s: doc-block marker %q does not refine a block-comment opener", d.Name, m)
		}
	}
	for _, m := range d.ModuleDoc {
		if !refinesAny(m, d.LineComments) && !refinesAnyBlock(m, d.BlockComments) {
			return fmt.Errorf("%s: module-doc marker %q does not refine any comment form", d.Name, m)
		}
	}
	for _, b := range d.BlockComments {
		if b.Open == "" || b.Close == "" {
			return fmt.Errorf("%s: block comment delimiters must be non-empty", d.Name)
		}
	}
	if d.PlainDocAttach && d.HasDocMarkers() {
		return fmt.Errorf("%s: PlainDocAttach requires a language without doc markers", d.Name)
	}
	return nil
}

func refinesAny(marker string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(marker) > len(p) && strings.HasPrefix(marker, p) {
			return true
		}
	}
	return false
}

func refinesAnyBlock(marker string, blocks []BlockDelims) bool {
	for _, b := range blocks {
		if len(marker) > len(b.Open) && strings.HasPrefix(marker, b.Open) {
			return true
		}
	}
	return false
}

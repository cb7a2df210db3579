package comment

import (
	"doclens/internal/source"
)

// Kind refines a comment token using the grammar's doc markers.
type Kind uint8

const (
	PlainLine Kind = iota
	PlainBlock
	DocLine
	DocBlock
	ModuleDoc
)

func (k Kind) String() string {
	switch k {
	case PlainLine:
		return "PlainLine"
	case PlainBlock:
		return "PlainBlock"
	case DocLine:
		return "DocLine"
	case DocBlock:
		return "DocBlock"
	case ModuleDoc:
		return "ModuleDoc"
	}
	return "Unknown"
}

// IsDoc reports whether the kind carries documentation markers.
func (k Kind) IsDoc() bool {
	return k == DocLine || k == DocBlock || k == ModuleDoc
}

// Record is one classified comment: a single block comment or a maximal run
// of same-kind line comments on consecutive lines.
//
// Text is the marker-stripped form; its lines map 1:1 onto the physical lines
// of Raw, so annotation positions can be derived by line offset.
type Record struct {
	Span source.Span
	Raw  string
	Text string
	Kind Kind
	// Attached выставляет ассоциатор: запись стала doc какой-то сущности.
	// Запись без Attached — orphan (инлайн-заметка ближайшей сущности).
	Attached bool
}

// StartLine returns the 1-based line of the record's first byte.
func (r *Record) StartLine(f *source.File) uint32 {
	return f.Pos(r.Span.Start).Line
}

// EndLine returns the 1-based line of the record's last byte.
func (r *Record) EndLine(f *source.File) uint32 {
	if r.Span.Empty() {
		return f.Pos(r.Span.Start).Line
	}
	return f.Pos(r.Span.End - 1).Line
}

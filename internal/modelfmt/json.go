package modelfmt

import (
	"encoding/json"
	"io"

	"doclens/internal/docmodel"
	"doclens/internal/entity"
	"doclens/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// EntityJSON представляет сущность с документацией в JSON формате
type EntityJSON struct {
	Kind      string       `json:"kind"`
	Name      string       `json:"name,omitempty"`
	Signature string       `json:"signature,omitempty"`
	Location  LocationJSON `json:"location"`
	Doc       string       `json:"doc,omitempty"`
	DocKind   string       `json:"doc_kind,omitempty"`
	Children  []EntityJSON `json:"children,omitempty"`
}

// AnnotationJSON представляет аннотацию в JSON формате
type AnnotationJSON struct {
	Tag     string `json:"tag"`
	Message string `json:"message,omitempty"`
	Author  string `json:"author,omitempty"`
	Line    uint32 `json:"line"`
	Col     uint32 `json:"col"`
}

// CommentJSON представляет одну запись комментария для JSON
type CommentJSON struct {
	Kind     string       `json:"kind"`
	Text     string       `json:"text"`
	Attached bool         `json:"attached"`
	Location LocationJSON `json:"location"`
}

// DocumentJSON представляет корневую структуру JSON вывода
type DocumentJSON struct {
	Path        string           `json:"path"`
	Grammar     string           `json:"grammar"`
	ModuleDoc   string           `json:"module_doc,omitempty"`
	Root        EntityJSON       `json:"root"`
	Annotations []AnnotationJSON `json:"annotations,omitempty"`
	Comments    []CommentJSON    `json:"comments,omitempty"`
}

func makeLocation(doc *docmodel.Document, sp source.Span, includePositions bool) LocationJSON {
	loc := LocationJSON{
		File:      doc.File.Path,
		StartByte: sp.Start,
		EndByte:   sp.End,
	}
	if includePositions {
		start, end := doc.Resolve(sp)
		loc.StartLine = start.Line
		loc.StartCol = start.Col
		loc.EndLine = end.Line
		loc.EndCol = end.Col
	}
	return loc
}

func makeEntityJSON(doc *docmodel.Document, e *entity.Entity, opts JSONOpts) EntityJSON {
	out := EntityJSON{
		Kind:      e.Kind.String(),
		Name:      e.Name,
		Signature: e.Signature,
		Location:  makeLocation(doc, e.Span, opts.IncludePositions),
	}
	if e.Doc != nil {
		out.Doc = e.Doc.Text
		out.DocKind = e.Doc.Kind.String()
	}
	for _, child := range e.Children {
		out.Children = append(out.Children, makeEntityJSON(doc, child, opts))
	}
	return out
}

// DocumentJSONOut serializes the whole document.
func DocumentJSONOut(w io.Writer, doc *docmodel.Document, opts JSONOpts) error {
	out := DocumentJSON{
		Path:    doc.File.Path,
		Grammar: doc.Grammar,
		Root:    makeEntityJSON(doc, doc.Root, opts),
	}
	if doc.Root.Doc != nil {
		out.ModuleDoc = doc.Root.Doc.Text
	}
	for _, a := range doc.Annotations {
		out.Annotations = append(out.Annotations, AnnotationJSON{
			Tag:     a.Tag,
			Message: a.Message,
			Author:  a.Author,
			Line:    a.Line,
			Col:     a.Col,
		})
	}
	if opts.IncludeComments {
		for _, rec := range doc.Comments {
			out.Comments = append(out.Comments, CommentJSON{
				Kind:     rec.Kind.String(),
				Text:     rec.Text,
				Attached: rec.Attached,
				Location: makeLocation(doc, rec.Span, opts.IncludePositions),
			})
		}
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}

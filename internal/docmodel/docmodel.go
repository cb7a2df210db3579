// Package docmodel assembles the per-file analysis result: the entity tree,
// classified comments, and annotations, with the queries the CLI and lint
// checks are built on.
package docmodel

import (
	"doclens/internal/annotate"
	"doclens/internal/assoc"
	"doclens/internal/comment"
	"doclens/internal/entity"
	"doclens/internal/grammar"
	"doclens/internal/source"
	"doclens/internal/token"
)

// Document is the complete extraction result for one file.
type Document struct {
	File        *source.File
	Grammar     string // имя грамматики, по которой шёл разбор
	Root        *entity.Entity
	Comments    []*comment.Record
	Annotations []annotate.Annotation
}

// Options tunes model building.
type Options struct {
	// ExtraTags расширяет набор маркеров аннотаций из конфигурации.
	ExtraTags []string
}

// Build runs classification, boundary recognition, association, and
// annotation scanning over an already tokenized file.
func Build(file *source.File, gram *grammar.Descriptor, toks []token.Token, opts Options) *Document {
	recs := comment.Collect(file, toks, gram)
	root := entity.Parse(file, toks, gram)
	assoc.Associate(file, toks, recs, root, gram)
	anns := annotate.NewTagger(opts.ExtraTags...).Scan(file, recs)
	return &Document{
		File:        file,
		Grammar:     gram.Name,
		Root:        root,
		Comments:    recs,
		Annotations: anns,
	}
}

// Walk visits every entity in the document, root included.
func (d *Document) Walk(fn func(*entity.Entity) bool) {
	d.Root.Walk(fn)
}

// Undocumented returns entities that carry no documentation comment. Tests,
// impl blocks, and unclassified regions are exempt: documentation belongs on
// the type, not its impl, and nobody documents test cases.
func (d *Document) Undocumented() []*entity.Entity {
	var out []*entity.Entity
	d.Root.Walk(func(e *entity.Entity) bool {
		switch e.Kind {
		case entity.Module, entity.Test, entity.Impl, entity.Unknown:
			return true
		}
		if e.Doc == nil {
			out = append(out, e)
		}
		return true
	})
	return out
}

// Orphans returns doc-marked comments that failed to attach to anything:
// stale documentation separated from its declaration.
func (d *Document) Orphans() []*comment.Record {
	var out []*comment.Record
	for _, rec := range d.Comments {
		if rec.Kind.IsDoc() && !rec.Attached {
			out = append(out, rec)
		}
	}
	return out
}

// ByTag returns annotations carrying the given marker, in file order.
func (d *Document) ByTag(tag string) []annotate.Annotation {
	var out []annotate.Annotation
	for _, a := range d.Annotations {
		if a.Tag == tag {
			out = append(out, a)
		}
	}
	return out
}

// AnnotationsFor returns annotations that belong to the entity: carried by
// its doc comment or by a comment inside its span.
func (d *Document) AnnotationsFor(e *entity.Entity) []annotate.Annotation {
	var out []annotate.Annotation
	for _, a := range d.Annotations {
		if (e.Doc != nil && a.Record == e.Doc) || e.Span.Contains(a.Record.Span) {
			out = append(out, a)
		}
	}
	return out
}

// Stats summarizes documentation coverage for lint reporting.
type Stats struct {
	Entities    int // без корня, тестов и Unknown
	Documented  int
	Annotations int
	Orphans     int
}

func (s Stats) Coverage() float64 {
	if s.Entities == 0 {
		return 1
	}
	return float64(s.Documented) / float64(s.Entities)
}

// Stats computes coverage counters over the document.
func (d *Document) Stats() Stats {
	st := Stats{Annotations: len(d.Annotations), Orphans: len(d.Orphans())}
	d.Root.Walk(func(e *entity.Entity) bool {
		switch e.Kind {
		case entity.Module, entity.Test, entity.Impl, entity.Unknown:
			return true
		}
		st.Entities++
		if e.Doc != nil {
			st.Documented++
		}
		return true
	})
	return st
}

// Resolve maps a span inside the document's file to line/column positions.
func (d *Document) Resolve(sp source.Span) (start, end source.LineCol) {
	start = d.File.Pos(sp.Start)
	if sp.Empty() {
		return start, start
	}
	end = d.File.Pos(sp.End - 1)
	return start, end
}

// Package assoc links classified comment records to the entities they
// document. Attachment is purely textual contiguity: a doc-eligible record
// documents the next declaration when nothing but whitespace and attribute
// lines stand between them, and no whitespace stretch holds a blank line.
package assoc

import (
	"sort"

	"doclens/internal/comment"
	"doclens/internal/entity"
	"doclens/internal/grammar"
	"doclens/internal/source"
	"doclens/internal/token"
)

// Associate walks the records in order and fills Doc and Inline on the entity
// tree. Module-doc records always document the root. Records that attach get
// Attached set; everything else lands in the Inline list of the innermost
// entity whose span contains it (the root if none does).
func Associate(file *source.File, toks []token.Token, recs []*comment.Record, root *entity.Entity, gram *grammar.Descriptor) {
	ents := root.Flatten()[1:] // без корня: он документируется только module-doc

	inline := func(rec *comment.Record) {
		host := root.Enclosing(rec.Span)
		if host == nil {
			host = root
		}
		host.Inline = append(host.Inline, rec)
	}

	for _, rec := range recs {
		if rec.Kind == comment.ModuleDoc {
			if root.Doc == nil {
				root.Doc = rec
				rec.Attached = true
			} else {
				// module-doc всегда принадлежит корню, даже лишний
				root.Inline = append(root.Inline, rec)
			}
			continue
		}

		eligible := rec.Kind.IsDoc() || gram.PlainDocAttach
		if !eligible || !ownLine(file, rec.Span) {
			inline(rec)
			continue
		}

		target := nextEntity(ents, rec.Span.End)
		if target == nil || !contiguous(file, toks, rec.Span.End, target.Span.Start) {
			inline(rec)
			continue
		}

		if prev := target.Doc; prev != nil {
			// более поздняя запись ближе к декларации — она и побеждает
			prev.Attached = false
			inline(prev)
		}
		rec.Attached = true
		target.Doc = rec
	}
}

// ownLine reports whether only blank space precedes the span on its line.
// A trailing comment after code never documents the next declaration.
func ownLine(file *source.File, sp source.Span) bool {
	for i := int(sp.Start) - 1; i >= 0; i-- {
		switch file.Content[i] {
		case '\n':
			return true
		case ' ', '\t':
		default:
			return false
		}
	}
	return true
}

// nextEntity returns the entity with the smallest start offset at or after off.
func nextEntity(ents []*entity.Entity, off uint32) *entity.Entity {
	i := sort.Search(len(ents), func(i int) bool {
		return ents[i].Span.Start >= off
	})
	if i == len(ents) {
		return nil
	}
	return ents[i]
}

// contiguous checks the gap [from, to): attribute lines pass, each whitespace
// stretch may hold at most one newline, and anything else breaks the link.
func contiguous(file *source.File, toks []token.Token, from, to uint32) bool {
	for _, t := range toks {
		if t.Span.End <= from || t.Span.Start >= to || t.Kind == token.EOF {
			continue
		}
		switch t.Kind {
		case token.AttrMarker:
			// допускается между doc-комментарием и декларацией
		case token.Code:
			s, e := t.Span.Start, t.Span.End
			if s < from {
				s = from
			}
			if e > to {
				e = to
			}
			newlines := 0
			for _, b := range file.Content[s:e] {
				switch b {
				case ' ', '\t', '\r':
				case '\n':
					newlines++
				default:
					return false
				}
			}
			if newlines > 1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

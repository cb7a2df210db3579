// Package annotate finds action markers (TODO, FIXME and friends) inside
// classified comments. Matching is byte-exact, case-sensitive, and anchored
// to the start of the stripped comment line: "todo" is prose, and so is a
// TODO buried mid-sentence.
package annotate

import (
	"strings"

	"doclens/internal/comment"
	"doclens/internal/source"
)

// DefaultTags is the built-in marker set, checked in this order.
var DefaultTags = []string{"TODO", "FIXME", "HACK", "NOTE", "XXX", "BUG"}

// Annotation is one marker hit inside a comment record.
type Annotation struct {
	Tag     string
	Message string          // текст после маркера, без ':' и скобок автора
	Author  string          // из формы TODO(name), если была
	Record  *comment.Record // комментарий-носитель
	Line    uint32          // 1-based строка файла с маркером
	Col     uint32          // 1-based колонка маркера в этой строке
}

// Tagger scans comment records for annotation markers.
type Tagger struct {
	tags []string
}

// NewTagger builds a tagger over the default set plus any extra tags from
// configuration. Duplicates and empty strings are dropped.
func NewTagger(extra ...string) *Tagger {
	seen := make(map[string]bool, len(DefaultTags)+len(extra))
	tags := make([]string, 0, len(DefaultTags)+len(extra))
	for _, t := range append(append([]string(nil), DefaultTags...), extra...) {
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return &Tagger{tags: tags}
}

// Tags returns the active marker set.
func (tg *Tagger) Tags() []string {
	return append([]string(nil), tg.tags...)
}

// Scan walks every record line by line. A line yields an annotation only
// when its marker-stripped text begins with a tag, so mid-line prose mentions
// never count. Record text lines map onto physical file lines, so the
// reported line and column are exact.
func (tg *Tagger) Scan(file *source.File, recs []*comment.Record) []Annotation {
	var out []Annotation
	for _, rec := range recs {
		base := rec.StartLine(file)
		for i, line := range strings.Split(rec.Text, "\n") {
			tag, rest, ok := tg.matchLine(line)
			if !ok {
				continue
			}
			author, msg := splitAuthor(rest)
			ln := base + uint32(i)
			out = append(out, Annotation{
				Tag:     tag,
				Message: msg,
				Author:  author,
				Record:  rec,
				Line:    ln,
				Col:     tagColumn(file, rec, ln, tag),
			})
		}
	}
	return out
}

// matchLine: строка (после отступа) начинается с маркера, за которым идёт
// ':', пробел, автор в скобках или конец строки. Среди совпавших побеждает
// самый длинный маркер.
func (tg *Tagger) matchLine(line string) (tag, rest string, ok bool) {
	trimmed := strings.TrimLeft(line, " \t")
	for _, t := range tg.tags {
		if !strings.HasPrefix(trimmed, t) {
			continue
		}
		tail := trimmed[len(t):]
		if tail != "" && tail[0] != ':' && tail[0] != ' ' && tail[0] != '\t' && tail[0] != '(' {
			continue
		}
		if len(t) > len(tag) {
			tag, rest, ok = t, tail, true
		}
	}
	return tag, rest, ok
}

// tagColumn locates the marker inside the physical file line. The search is
// clipped to the record's span, so a same-spelled word in code before a
// trailing comment never shifts the column.
func tagColumn(file *source.File, rec *comment.Record, line uint32, tag string) uint32 {
	start := lineStartOffset(file, line)
	end := lineEndOffset(file, line)

	from := start
	if rec.Span.Start > from {
		from = rec.Span.Start
	}
	to := end
	if rec.Span.End < to {
		to = rec.Span.End
	}
	if from >= to {
		return 1
	}
	if idx := strings.Index(string(file.Content[from:to]), tag); idx >= 0 {
		return from + uint32(idx) - start + 1
	}
	return from - start + 1
}

// lineStartOffset: байтовое смещение начала строки (1-based номер).
func lineStartOffset(file *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	if int(line-2) < len(file.LineIdx) {
		return file.LineIdx[line-2] + 1
	}
	return uint32(len(file.Content))
}

// lineEndOffset: смещение '\n' строки либо конец файла.
func lineEndOffset(file *source.File, line uint32) uint32 {
	if int(line-1) < len(file.LineIdx) {
		return file.LineIdx[line-1]
	}
	return uint32(len(file.Content))
}

// splitAuthor peels the conventional "(name)" suffix and the ':' separator:
// "TODO(alice): fix" yields author alice and message "fix".
func splitAuthor(rest string) (author, msg string) {
	rest = strings.TrimLeft(rest, " \t")
	if strings.HasPrefix(rest, "(") {
		if end := strings.IndexByte(rest, ')'); end > 0 {
			author = rest[1:end]
			rest = rest[end+1:]
		}
	}
	rest = strings.TrimLeft(rest, " \t")
	rest = strings.TrimPrefix(rest, ":")
	return author, strings.TrimSpace(rest)
}

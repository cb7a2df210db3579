package comment

import (
	"sort"
	"strings"

	"doclens/internal/grammar"
	"doclens/internal/source"
	"doclens/internal/token"
)

// Collect classifies every comment token and merges maximal runs of same-kind
// line comments on consecutive lines into single records. Block comments are
// always their own record.
//
// Classification order per token (first match wins): module-doc marker, then
// doc-line/doc-block marker, then the plain kind. Longer markers are checked
// first, so "///" never misclassifies as "//".
func Collect(file *source.File, toks []token.Token, gram *grammar.Descriptor) []*Record {
	var records []*Record

	moduleLine, moduleBlock := splitModuleMarkers(gram)
	docLine := sortByLenDesc(gram.DocLine)
	lineMarkers := sortByLenDesc(gram.LineComments)
	docBlock := sortByLenDesc(gram.DocBlock)

	for _, tok := range toks {
		switch tok.Kind {
		case token.LineComment:
			kind, marker := classifyLine(tok.Text, moduleLine, docLine, lineMarkers)
			rec := &Record{
				Span: tok.Span,
				Raw:  tok.Text,
				Text: stripLine(tok.Text, marker),
				Kind: kind,
			}
			if prev := lastRecord(records); prev != nil && canMergeRun(file, prev, rec) {
				mergeRun(prev, rec)
				continue
			}
			records = append(records, rec)

		case token.BlockComment:
			kind, marker := classifyBlock(tok.Text, moduleBlock, docBlock, gram.BlockComments)
			records = append(records, &Record{
				Span: tok.Span,
				Raw:  tok.Text,
				Text: stripBlock(tok.Text, marker, closeDelimFor(tok.Text, gram.BlockComments)),
				Kind: kind,
			})
		}
	}
	return records
}

func lastRecord(records []*Record) *Record {
	if len(records) == 0 {
		return nil
	}
	return records[len(records)-1]
}

// canMergeRun: одинаковый строчный вид, следующая физическая строка, между
// токенами только пробелы и ровно один перевод строки. Хвостовой комментарий
// после кода прогон не открывает: иначе запись начиналась бы посреди строки
// кода и привязка к следующей декларации терялась бы целиком.
func canMergeRun(file *source.File, prev, next *Record) bool {
	if prev.Kind != next.Kind {
		return false
	}
	if prev.Kind != PlainLine && prev.Kind != DocLine && prev.Kind != ModuleDoc {
		return false
	}
	if !ownsLine(file, prev.Span.Start) {
		return false
	}
	gap := file.Content[prev.Span.End:next.Span.Start]
	newlines := 0
	for _, b := range gap {
		switch b {
		case '\n':
			newlines++
		case ' ', '\t':
		default:
			return false
		}
	}
	return newlines == 1
}

// ownsLine: до смещения на его физической строке только пробельные байты.
func ownsLine(file *source.File, off uint32) bool {
	for i := int(off) - 1; i >= 0; i-- {
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

func mergeRun(prev, next *Record) {
	prev.Span = prev.Span.Cover(next.Span)
	prev.Raw += "\n" + next.Raw
	prev.Text += "\n" + next.Text
}

func splitModuleMarkers(gram *grammar.Descriptor) (line, block []string) {
	for _, m := range gram.ModuleDoc {
		if refinesLine(m, gram.LineComments) {
			line = append(line, m)
		} else {
			block = append(block, m)
		}
	}
	return sortByLenDesc(line), sortByLenDesc(block)
}

func refinesLine(marker string, prefixes []string) bool {
	for _, p := range prefixes {
		if len(marker) > len(p) && strings.HasPrefix(marker, p) {
			return true
		}
	}
	return false
}

func classifyLine(text string, moduleLine, docLine, lineMarkers []string) (Kind, string) {
	if m := matchMarker(text, moduleLine); m != "" {
		return ModuleDoc, m
	}
	if m := matchMarker(text, docLine); m != "" {
		return DocLine, m
	}
	if m := matchMarker(text, lineMarkers); m != "" {
		return PlainLine, m
	}
	return PlainLine, ""
}

func classifyBlock(text string, moduleBlock, docBlock []string, blocks []grammar.BlockDelims) (Kind, string) {
	if m := matchMarker(text, moduleBlock); m != "" {
		return ModuleDoc, m
	}
	if m := matchMarker(text, docBlock); m != "" {
		// "/**/" — пустой обычный комментарий, а не doc-блок
		if !isEmptyBlock(text, m, blocks) {
			return DocBlock, m
		}
	}
	for _, b := range blocks {
		if strings.HasPrefix(text, b.Open) {
			return PlainBlock, b.Open
		}
	}
	return PlainBlock, ""
}

// isEmptyBlock: весь текст — это Open+Close с перекрытием ("/**/" для "/*").
func isEmptyBlock(text, marker string, blocks []grammar.BlockDelims) bool {
	for _, b := range blocks {
		if len(marker) > len(b.Open) && strings.HasPrefix(marker, b.Open) && text == b.Open+b.Close {
			return true
		}
	}
	return false
}

func matchMarker(text string, markers []string) string {
	for _, m := range markers {
		if strings.HasPrefix(text, m) {
			return m
		}
	}
	return ""
}

// stripLine убирает маркер и один пробел после него.
func stripLine(text, marker string) string {
	out := strings.TrimPrefix(text, marker)
	out = strings.TrimPrefix(out, " ")
	return strings.TrimRight(out, " \t")
}

// stripBlock убирает делимитеры и типографскую "звёздную" колонку.
// Количество строк результата совпадает с количеством строк исходника.
func stripBlock(text, marker, closeDelim string) string {
	body := strings.TrimPrefix(text, marker)
	// незакрытый блок на EOF приходит без закрывающего делимитера
	if closeDelim != "" && strings.HasSuffix(body, closeDelim) {
		body = body[:len(body)-len(closeDelim)]
	}

	lines := strings.Split(body, "\n")
	for i, line := range lines {
		if i == 0 {
			lines[i] = strings.TrimPrefix(strings.TrimRight(line, " \t"), " ")
			continue
		}
		lines[i] = stripGutter(line)
	}
	return strings.Join(lines, "\n")
}

// closeDelimFor находит закрывающий делимитер той пары, которой открыт блок.
func closeDelimFor(text string, blocks []grammar.BlockDelims) string {
	bestOpen, bestClose := "", ""
	for _, b := range blocks {
		if strings.HasPrefix(text, b.Open) && len(b.Open) > len(bestOpen) {
			bestOpen, bestClose = b.Open, b.Close
		}
	}
	return bestClose
}

func stripGutter(line string) string {
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "*") {
		trimmed = strings.TrimPrefix(trimmed, "*")
		trimmed = strings.TrimPrefix(trimmed, " ")
	}
	return strings.TrimRight(trimmed, " \t")
}

func sortByLenDesc(in []string) []string {
	out := append([]string(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

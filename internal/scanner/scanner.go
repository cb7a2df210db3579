package scanner

import (
	"sort"
	"unicode/utf8"

	"doclens/internal/diag"
	"doclens/internal/grammar"
	"doclens/internal/source"
	"doclens/internal/token"
)

// Scanner is a single-pass tokenizer driven entirely by a grammar.Descriptor.
// It partitions the whole file into code, comment, literal, and attribute
// spans: every byte lands in exactly one token, in order. Comment delimiters
// inside string/char literals are never recognized, and vice versa.
type Scanner struct {
	file   *source.File
	gram   *grammar.Descriptor
	cursor Cursor
	opts   Options

	toks    []token.Token
	pending uint32 // начало незавершённого Code-прогона

	// разделители, отсортированные длинным-вперёд, чтобы """ побеждало "
	lineComments []string
	blocks       []grammar.BlockDelims
	strings      []grammar.Quote
	chars        []grammar.Quote
	attrs        []string
}

type Options struct {
	Reporter diag.Reporter // может быть nil — тогда диагностики отбрасываются
}

func New(file *source.File, gram *grammar.Descriptor, opts Options) *Scanner {
	s := &Scanner{
		file:   file,
		gram:   gram,
		cursor: NewCursor(file),
		opts:   opts,

		lineComments: sortByLen(gram.LineComments),
		blocks:       sortBlocksByLen(gram.BlockComments),
		strings:      sortQuotesByLen(gram.Strings),
		chars:        gram.Chars,
		attrs:        sortByLen(gram.AttrPrefixes),
	}
	return s
}

// Scan tokenizes the whole file. The returned stream always ends with an EOF
// token whose span is empty; the union of all other spans reconstructs the
// file byte range exactly.
func (s *Scanner) Scan() []token.Token {
	for !s.cursor.EOF() {
		if s.tryLineComment() || s.tryBlockComment() || s.tryString() || s.tryChar() || s.tryAttr() {
			continue
		}
		s.cursor.Bump()
	}
	s.flushCode()
	s.toks = append(s.toks, token.Token{
		Kind: token.EOF,
		Span: source.Span{File: s.file.ID, Start: s.cursor.Off, End: s.cursor.Off},
	})
	return s.toks
}

// flushCode выталкивает накопленный Code-прогон перед специальным токеном.
func (s *Scanner) flushCode() {
	if s.pending < s.cursor.Off {
		sp := source.Span{File: s.file.ID, Start: s.pending, End: s.cursor.Off}
		s.toks = append(s.toks, token.Token{
			Kind: token.Code,
			Span: sp,
			Text: string(s.file.Content[sp.Start:sp.End]),
		})
	}
	s.pending = s.cursor.Off
}

func (s *Scanner) emit(kind token.Kind, start Mark) {
	sp := s.cursor.SpanFrom(start)
	s.toks = append(s.toks, token.Token{
		Kind: kind,
		Span: sp,
		Text: string(s.file.Content[sp.Start:sp.End]),
	})
	s.pending = s.cursor.Off
}

func (s *Scanner) report(code diag.Code, sp source.Span, msg string) {
	if s.opts.Reporter != nil {
		s.opts.Reporter.Report(code, diag.SevWarning, sp, msg)
	}
}

// matchesAny: начинается ли остаток файла с одного из префиксов.
// Списки уже отсортированы длинным-вперёд.
func (s *Scanner) matchesAny(prefixes []string) bool {
	for _, p := range prefixes {
		if s.cursor.HasPrefix(p) {
			return true
		}
	}
	return false
}

// tryLineComment: префикс до конца строки ('\n' не входит в токен).
func (s *Scanner) tryLineComment() bool {
	if !s.matchesAny(s.lineComments) {
		return false
	}
	s.flushCode()
	start := s.cursor.Mark()
	for !s.cursor.EOF() && s.cursor.Peek() != '\n' {
		s.cursor.Bump()
	}
	s.emit(token.LineComment, start)
	return true
}

// tryBlockComment: делимитеры блока; при Nest ведём счётчик глубины.
func (s *Scanner) tryBlockComment() bool {
	var blk *grammar.BlockDelims
	for i := range s.blocks {
		if s.cursor.HasPrefix(s.blocks[i].Open) {
			blk = &s.blocks[i]
			break
		}
	}
	if blk == nil {
		return false
	}

	s.flushCode()
	start := s.cursor.Mark()
	s.cursor.BumpN(uint32(len(blk.Open)))

	depth := 1
	for !s.cursor.EOF() && depth > 0 {
		switch {
		case blk.Nest && s.cursor.HasPrefix(blk.Open):
			depth++
			s.cursor.BumpN(uint32(len(blk.Open)))
		case s.cursor.HasPrefix(blk.Close):
			depth--
			s.cursor.BumpN(uint32(len(blk.Close)))
		default:
			s.cursor.Bump()
		}
	}

	if depth > 0 {
		// незакрытый блок: поглощаем остаток файла и сообщаем
		s.report(diag.ScanUnterminatedBlockComment, s.cursor.SpanFrom(start),
			"unterminated block comment")
	}
	s.emit(token.BlockComment, start)
	return true
}

// tryString: строковый литерал, кавычки входят в токен.
// Экранирующий байт подавляет закрывающий разделитель, который следует за ним.
func (s *Scanner) tryString() bool {
	var q *grammar.Quote
	for i := range s.strings {
		if s.cursor.HasPrefix(s.strings[i].Open) {
			q = &s.strings[i]
			break
		}
	}
	if q == nil {
		return false
	}

	s.flushCode()
	start := s.cursor.Mark()
	s.cursor.BumpN(uint32(len(q.Open)))

	for !s.cursor.EOF() {
		b := s.cursor.Peek()
		if q.Escape != 0 && b == q.Escape {
			s.cursor.Bump()
			if !s.cursor.EOF() {
				s.cursor.Bump()
			}
			continue
		}
		if s.cursor.HasPrefix(q.Close) {
			s.cursor.BumpN(uint32(len(q.Close)))
			s.emit(token.StringLit, start)
			return true
		}
		if !q.Multiline && b == '\n' {
			// литерал обрезается на переводе строки; '\n' уходит в код
			s.report(diag.ScanNewlineInString, s.cursor.SpanFrom(start),
				"newline in string literal")
			s.emit(token.StringLit, start)
			return true
		}
		s.cursor.Bump()
	}

	// EOF без закрывающей кавычки
	s.report(diag.ScanUnterminatedString, s.cursor.SpanFrom(start),
		"unterminated string literal")
	s.emit(token.StringLit, start)
	return true
}

// tryChar: символьный литерал. Тело — ровно одна руна или одна escape
// последовательность, сразу за ней закрывающая кавычка; иначе это не литерал
// (lifetime в Rust), и открывающая кавычка остаётся кодом.
const maxEscapeTail = 10 // '\u{10FFFF}' укладывается

func (s *Scanner) tryChar() bool {
	var q *grammar.Quote
	for i := range s.chars {
		if s.cursor.HasPrefix(s.chars[i].Open) {
			q = &s.chars[i]
			break
		}
	}
	if q == nil {
		return false
	}

	start := s.cursor.Mark()
	s.cursor.BumpN(uint32(len(q.Open)))

	if s.cursor.EOF() {
		s.reset(start)
		s.cursor.Bump()
		return true
	}

	b := s.cursor.Peek()
	switch {
	case q.Escape != 0 && b == q.Escape:
		// escape: байт экранирования, следующий байт, затем хвост из
		// алфавитно-цифровых и {} для \xNN и \u{...}
		s.cursor.Bump()
		if s.cursor.EOF() {
			s.unterminatedChar(start)
			return true
		}
		s.cursor.Bump()
		for n := 0; n < maxEscapeTail && !s.cursor.EOF(); n++ {
			if s.cursor.HasPrefix(q.Close) {
				break
			}
			t := s.cursor.Peek()
			if !isEscapeTailByte(t) {
				break
			}
			s.cursor.Bump()
		}
	case b == '\n':
		s.reset(start)
		s.cursor.Bump()
		return true
	default:
		s.bumpRune()
	}

	if s.cursor.EOF() {
		s.unterminatedChar(start)
		return true
	}
	if !s.cursor.HasPrefix(q.Close) {
		// lifetime или одиночная кавычка в коде
		s.reset(start)
		s.cursor.Bump()
		return true
	}

	end := s.cursor.Off + uint32(len(q.Close))
	s.reset(start)
	s.flushCode()
	s.cursor.Off = end
	s.emit(token.CharLit, start)
	return true
}

// unterminatedChar оформляет литерал, упёршийся в конец файла.
func (s *Scanner) unterminatedChar(start Mark) {
	end := s.cursor.Off
	s.reset(start)
	s.flushCode()
	s.cursor.Off = end
	s.report(diag.ScanUnterminatedChar, s.cursor.SpanFrom(start),
		"unterminated character literal")
	s.emit(token.CharLit, start)
}

func isEscapeTailByte(b byte) bool {
	return b == '{' || b == '}' ||
		(b >= '0' && b <= '9') ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z')
}

// bumpRune перемещает курсор на размер текущей руны.
func (s *Scanner) bumpRune() {
	b := s.cursor.Peek()
	if b < 0x80 {
		s.cursor.Bump()
		return
	}
	_, sz := utf8.DecodeRune(s.file.Content[s.cursor.Off:])
	s.cursor.BumpN(uint32(sz))
}

// tryAttr: атрибут/аннотация в начале строки (после отступа) до конца строки.
func (s *Scanner) tryAttr() bool {
	if !s.atLineStart() {
		return false
	}
	matched := ""
	for _, p := range s.attrs {
		if s.cursor.HasPrefix(p) {
			matched = p
			break
		}
	}
	if matched == "" {
		return false
	}
	// одиночные маркеры (@) требуют имени сразу после себя
	if len(matched) == 1 {
		next := s.cursor.PeekAt(1)
		if !isIdentStartByte(next) {
			return false
		}
	}

	s.flushCode()
	start := s.cursor.Mark()
	for !s.cursor.EOF() && s.cursor.Peek() != '\n' {
		s.cursor.Bump()
	}
	s.emit(token.AttrMarker, start)
	return true
}

// atLineStart: до текущей позиции на строке только пробелы/табы.
func (s *Scanner) atLineStart() bool {
	for i := s.cursor.Off; i > 0; i-- {
		b := s.file.Content[i-1]
		if b == '\n' {
			return true
		}
		if b != ' ' && b != '\t' {
			return false
		}
	}
	return true
}

func (s *Scanner) reset(m Mark) {
	s.cursor.Reset(m)
}

func isIdentStartByte(b byte) bool {
	return b == '_' || (b >= 'A' && b <= 'Z') || (b >= 'a' && b <= 'z')
}

func sortByLen(in []string) []string {
	out := append([]string(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i]) > len(out[j]) })
	return out
}

func sortBlocksByLen(in []grammar.BlockDelims) []grammar.BlockDelims {
	out := append([]grammar.BlockDelims(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Open) > len(out[j].Open) })
	return out
}

func sortQuotesByLen(in []grammar.Quote) []grammar.Quote {
	out := append([]grammar.Quote(nil), in...)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Open) > len(out[j].Open) })
	return out
}

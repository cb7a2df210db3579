package entity

import (
	"path/filepath"
	"strings"

	"doclens/internal/grammar"
	"doclens/internal/source"
	"doclens/internal/token"
)

// Parse recognizes declaration boundaries in one scanned file and returns the
// root Module entity spanning the whole file. This is a boundary recognizer,
// not a real parser: it reads keywords and matches delimiters over a masked
// copy of the source where every non-code token is blanked out, so literals
// and comments can never confuse it. Code it cannot classify stays inside the
// nearest enclosing entity's span.
func Parse(file *source.File, toks []token.Token, gram *grammar.Descriptor) *Entity {
	root := &Entity{
		Kind: Module,
		Name: moduleName(file.Path),
		Span: source.Span{File: file.ID, Start: 0, End: uint32(len(file.Content))},
	}
	p := &parser{
		file: file,
		gram: gram,
		src:  maskNonCode(file.Content, toks),
	}
	for _, t := range toks {
		if t.Kind == token.AttrMarker {
			p.attrs = append(p.attrs, t.Span)
		}
	}
	if gram.IndentBlocks {
		p.parseIndent(root)
	} else {
		p.parseBraces(root)
	}
	return root
}

type parser struct {
	file  *source.File
	gram  *grammar.Descriptor
	src   []byte // содержимое файла, всё кроме Code затёрто пробелами
	attrs []source.Span
}

// maskNonCode blanks every byte of every non-code token, keeping newlines so
// offsets, lines, and indentation survive.
func maskNonCode(content []byte, toks []token.Token) []byte {
	masked := append([]byte(nil), content...)
	for _, t := range toks {
		if t.Kind == token.Code || t.Kind == token.EOF {
			continue
		}
		for i := t.Span.Start; i < t.Span.End && int(i) < len(masked); i++ {
			if masked[i] != '\n' {
				masked[i] = ' '
			}
		}
	}
	return masked
}

func moduleName(path string) string {
	base := filepath.Base(path)
	if ext := filepath.Ext(base); ext != "" {
		base = base[:len(base)-len(ext)]
	}
	return base
}

// parseBraces walks the masked source once. A declaration attempt happens only
// at statement starts; everything else is skipped byte by byte. Entities with
// bodies are pushed on the stack so later declarations nest under them.
func (p *parser) parseBraces(root *Entity) {
	stack := []*Entity{root}
	i := 0
	stmtStart := true
	for i < len(p.src) {
		for len(stack) > 1 && uint32(i) >= stack[len(stack)-1].Span.End {
			stack = stack[:len(stack)-1]
		}
		b := p.src[i]
		switch {
		case b == ' ' || b == '\t' || b == '\r':
			i++
		case b == '\n' || b == ';' || b == '{' || b == '}':
			stmtStart = true
			i++
		case stmtStart && isIdentStart(b):
			parent := stack[len(stack)-1]
			if ent, bodyOpen, ok := p.tryDecl(i, parent); ok {
				if ent.Span.End > parent.Span.End {
					ent.Span.End = parent.Span.End
				}
				parent.Children = append(parent.Children, ent)
				if bodyOpen >= 0 && descendInto(ent.Kind) {
					stack = append(stack, ent)
					i = bodyOpen + 1
				} else {
					i = int(ent.Span.End)
				}
				stmtStart = true
			} else {
				_, i = p.wordAt(i)
				stmtStart = false
			}
		default:
			stmtStart = false
			i++
		}
	}
}

// descendInto reports whether nested declarations are recognized inside the
// entity's body. Function bodies are opaque: locals are not entities.
func descendInto(k Kind) bool {
	switch k {
	case Module, Struct, Trait, Impl, Unknown:
		return true
	}
	return false
}

// tryDecl attempts to recognize one declaration starting at the identifier at
// offset start. It returns the entity, the offset of its body-opening brace
// (-1 when the declaration has no body), and whether recognition succeeded.
func (p *parser) tryDecl(start int, parent *Entity) (*Entity, int, bool) {
	j := p.skipModifiers(start)

	// Цепочка ключевых слов: "const fn" в Rust — побеждает последнее.
	decl := grammar.DeclNone
	w, after := p.wordAt(j)
	for w != "" {
		d, ok := p.gram.Decls[w]
		if !ok {
			break
		}
		decl = d
		j = p.skipHspace(after)
		w, after = p.wordAt(j)
	}

	if decl == grammar.DeclNone {
		return p.tryMember(start, j, parent)
	}

	// Go методы: между func и именем стоит receiver в скобках.
	if decl == grammar.DeclFunction && j < len(p.src) && p.src[j] == '(' {
		j = p.skipHspace(p.skipGroup(j, '(', ')'))
		w, after = p.wordAt(j)
	}

	name := w
	nameEnd := j
	if w != "" {
		nameEnd = after
	}

	if name != "" && len(p.gram.Refine) > 0 {
		rw, _ := p.wordAt(p.skipHspace(nameEnd))
		if refined, ok := p.gram.Refine[rw]; ok {
			decl = refined
		}
	}

	hdrEnd, bodyOpen, end := p.findDeclEnd(nameEnd)

	if decl == grammar.DeclImpl {
		// "impl Trait for Type" именуется по типу.
		words := strings.Fields(string(p.src[j:hdrEnd]))
		for k, fw := range words {
			if fw == "for" && k+1 < len(words) {
				name = trimNonIdent(words[k+1])
				break
			}
		}
	}

	kind := kindOf(decl)
	if kind == Function && p.isTest(name, start) {
		kind = Test
	}

	ent := &Entity{
		Kind:      kind,
		Name:      name,
		Signature: collapseWS(p.src[start:hdrEnd]),
		Span:      source.Span{File: p.file.ID, Start: uint32(start), End: uint32(end)},
	}
	return ent, bodyOpen, true
}

// tryMember recognizes keyword-less declarations: struct fields, interface
// methods, and (for languages that declare functions without an introducing
// keyword) functions and methods. start is the declaration start, j the
// offset after any modifiers, parent the innermost open entity.
func (p *parser) tryMember(start, j int, parent *Entity) (*Entity, int, bool) {
	insideType := parent.Kind == Struct || parent.Kind == Trait
	if parent.Kind == Function || parent.Kind == Test || parent.Kind == Const || parent.Kind == Field {
		return nil, 0, false
	}
	if !insideType && !p.gram.KeywordlessFuncs {
		return nil, 0, false
	}

	var words []string
	depth := 0
	i := j
	lastWordEnd := -1
	for i < len(p.src) {
		b := p.src[i]
		switch {
		case isIdentStart(b) && depth == 0:
			w, after := p.wordAt(i)
			words = append(words, w)
			i = after
			lastWordEnd = after
			continue
		case b == '(' && depth == 0 && i == lastWordEnd && len(words) > 0:
			// ident( — сигнатура функции или метода
			if p.gram.KeywordlessFuncs || parent.Kind == Trait {
				return p.memberFunc(start, words[len(words)-1], i, parent)
			}
			depth++
		case b == ':' && depth == 0:
			// поле в стиле "name: Type"
			if !insideType || len(words) == 0 {
				return nil, 0, false
			}
			end := p.fieldEnd(i)
			return p.fieldEntity(start, words[0], end), -1, true
		case b == '=' && depth == 0:
			if len(words) == 0 {
				return nil, 0, false
			}
			end := p.fieldEnd(i)
			name := words[len(words)-1]
			if insideType {
				return p.fieldEntity(start, name, end), -1, true
			}
			// глобальная переменная в C/C++/Java вне типа
			ent := &Entity{
				Kind:      Unknown,
				Name:      name,
				Signature: collapseWS(p.src[start:i]),
				Span:      source.Span{File: p.file.ID, Start: uint32(start), End: uint32(end)},
			}
			return ent, -1, true
		case b == '(' || b == '[':
			depth++
		case b == ')' || b == ']':
			if depth > 0 {
				depth--
			}
		case (b == ';' || b == ',' || b == '\n' || b == '}' || b == '{') && depth == 0:
			if !insideType || parent.Kind != Struct || len(words) == 0 || b == '{' {
				return nil, 0, false
			}
			// поле без ':' и '=' — "Name Type" в Go, "Type name;" в Java
			name := words[0]
			if p.gram.KeywordlessFuncs {
				name = words[len(words)-1]
			}
			end := i
			if b == ';' || b == ',' {
				end = i + 1
			}
			return p.fieldEntity(start, name, end), -1, true
		}
		i++
	}
	return nil, 0, false
}

func (p *parser) memberFunc(start int, name string, parenOpen int, parent *Entity) (*Entity, int, bool) {
	afterParams := p.skipGroup(parenOpen, '(', ')')
	hdrEnd, bodyOpen, end := p.findDeclEnd(afterParams)
	kind := Function
	if p.isTest(name, start) {
		kind = Test
	}
	ent := &Entity{
		Kind:      kind,
		Name:      name,
		Signature: collapseWS(p.src[start:hdrEnd]),
		Span:      source.Span{File: p.file.ID, Start: uint32(start), End: uint32(end)},
	}
	return ent, bodyOpen, true
}

func (p *parser) fieldEntity(start int, name string, end int) *Entity {
	hdr := end
	if hdr > len(p.src) {
		hdr = len(p.src)
	}
	return &Entity{
		Kind:      Field,
		Name:      name,
		Signature: strings.TrimRight(collapseWS(p.src[start:hdr]), ",;"),
		Span:      source.Span{File: p.file.ID, Start: uint32(start), End: uint32(end)},
	}
}

// fieldEnd scans from offset i to the end of a field declaration: the first
// ',' or ';' (included in the span) or newline (excluded) at delimiter depth 0.
func (p *parser) fieldEnd(i int) int {
	depth := 0
	for ; i < len(p.src); i++ {
		switch p.src[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			if depth == 0 {
				return i
			}
			depth--
		case ',', ';':
			if depth == 0 {
				return i + 1
			}
		case '\n':
			if depth == 0 {
				return i
			}
		}
	}
	return len(p.src)
}

// findDeclEnd scans a declaration header from offset j. It stops at a
// body-opening '{' (depth 0), a ';', or a newline at depth 0 whose next
// non-blank byte is not '{' (so brace-on-next-line styles still find their
// body). Returns the header end, the body brace offset (-1 if none), and the
// entity end offset (after the matching '}' or the terminator).
func (p *parser) findDeclEnd(j int) (hdrEnd, bodyOpen, end int) {
	depth := 0
	for i := j; i < len(p.src); i++ {
		switch b := p.src[i]; b {
		case '(', '[':
			depth++
		case ')', ']':
			if depth > 0 {
				depth--
			}
		case '{':
			if depth == 0 {
				return i, i, p.matchBrace(i)
			}
		case '}':
			if depth == 0 {
				// закрылось тело родителя — декларация без собственного конца
				return i, -1, i
			}
		case ';':
			if depth == 0 {
				return i, -1, i + 1
			}
		case '\n':
			if depth == 0 {
				next := p.skipSpace(i)
				if next < len(p.src) && p.src[next] == '{' {
					i = next - 1
					continue
				}
				return i, -1, i
			}
		}
	}
	return len(p.src), -1, len(p.src)
}

// matchBrace returns the offset just past the '}' matching the '{' at open.
// An unterminated body extends to end of file.
func (p *parser) matchBrace(open int) int {
	depth := 1
	for i := open + 1; i < len(p.src); i++ {
		switch p.src[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(p.src)
}

func (p *parser) skipModifiers(i int) int {
	for {
		w, after := p.wordAt(i)
		if w == "" || !containsWord(p.gram.Modifiers, w) {
			return i
		}
		i = p.skipHspace(after)
		// pub(crate) и подобные уточнения модификаторов
		if i < len(p.src) && p.src[i] == '(' {
			i = p.skipHspace(p.skipGroup(i, '(', ')'))
		}
	}
}

// isTest reports whether the function declared at declStart with the given
// name is a test: either its name carries a test prefix, or an attribute line
// directly above it matches one of the grammar's test attributes. Matching is
// byte-exact and case-sensitive.
func (p *parser) isTest(name string, declStart int) bool {
	for _, pre := range p.gram.TestPrefixes {
		if pre != "" && strings.HasPrefix(name, pre) {
			return true
		}
	}
	if len(p.gram.TestAttrs) == 0 {
		return false
	}
	cur := declStart
	for idx := len(p.attrs) - 1; idx >= 0; idx-- {
		a := p.attrs[idx]
		if int(a.End) > cur {
			continue
		}
		if !isBlank(p.src[a.End:cur]) {
			break
		}
		text := strings.TrimSpace(string(p.file.Content[a.Start:a.End]))
		for _, ta := range p.gram.TestAttrs {
			if strings.HasPrefix(text, ta) {
				return true
			}
		}
		cur = int(a.Start)
	}
	return false
}

func (p *parser) wordAt(i int) (string, int) {
	if i >= len(p.src) || !isIdentStart(p.src[i]) {
		return "", i
	}
	j := i
	for j < len(p.src) && isIdentByte(p.src[j]) {
		j++
	}
	return string(p.src[i:j]), j
}

func (p *parser) skipHspace(i int) int {
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t') {
		i++
	}
	return i
}

func (p *parser) skipSpace(i int) int {
	for i < len(p.src) && (p.src[i] == ' ' || p.src[i] == '\t' || p.src[i] == '\n' || p.src[i] == '\r') {
		i++
	}
	return i
}

// skipGroup skips a balanced delimiter group starting at the open byte.
func (p *parser) skipGroup(i int, open, close byte) int {
	depth := 0
	for ; i < len(p.src); i++ {
		switch p.src[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i + 1
			}
		}
	}
	return len(p.src)
}

func isIdentStart(b byte) bool {
	return b == '_' || b >= 0x80 ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentByte(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

func isBlank(b []byte) bool {
	for _, c := range b {
		if c != ' ' && c != '\t' && c != '\n' && c != '\r' {
			return false
		}
	}
	return true
}

func containsWord(list []string, w string) bool {
	for _, s := range list {
		if s == w {
			return true
		}
	}
	return false
}

func collapseWS(b []byte) string {
	return strings.Join(strings.Fields(string(b)), " ")
}

func trimNonIdent(w string) string {
	end := 0
	for end < len(w) && isIdentByte(w[end]) {
		end++
	}
	return w[:end]
}

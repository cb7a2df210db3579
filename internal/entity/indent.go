package entity

import (
	"strings"

	"doclens/internal/source"
)

// parseIndent recognizes declarations in indentation-structured languages.
// A declaration's body is every following line indented deeper than the
// declaration line; the entity ends at the last such content line. Blank
// lines (including lines holding only masked comments or docstrings) never
// close a block.
func (p *parser) parseIndent(root *Entity) {
	type frame struct {
		ent    *Entity
		indent int
	}
	stack := []frame{{ent: root, indent: -1}}
	lastEnd := 0 // конец последней содержательной строки

	i := 0
	for i < len(p.src) {
		lineEnd := i
		for lineEnd < len(p.src) && p.src[lineEnd] != '\n' {
			lineEnd++
		}

		k := i
		indent := 0
		for k < lineEnd && (p.src[k] == ' ' || p.src[k] == '\t') {
			indent++
			k++
		}
		if k < lineEnd {
			for len(stack) > 1 && indent <= stack[len(stack)-1].indent {
				top := stack[len(stack)-1]
				top.ent.Span.End = uint32(lastEnd)
				stack = stack[:len(stack)-1]
			}
			if ent, ok := p.indentDecl(k, lineEnd); ok {
				parent := stack[len(stack)-1].ent
				parent.Children = append(parent.Children, ent)
				stack = append(stack, frame{ent: ent, indent: indent})
			}
			lastEnd = lineEnd
		}

		i = lineEnd + 1
	}

	for len(stack) > 1 {
		top := stack[len(stack)-1]
		top.ent.Span.End = uint32(lastEnd)
		stack = stack[:len(stack)-1]
	}
}

// indentDecl recognizes one declaration line starting at the first non-blank
// byte. The entity's end offset is filled in later, when the block closes.
func (p *parser) indentDecl(start, lineEnd int) (*Entity, bool) {
	j := p.skipModifiers(start)

	w, after := p.wordAt(j)
	d, ok := p.gram.Decls[w]
	if !ok {
		return nil, false
	}
	name, _ := p.wordAt(p.skipHspace(after))

	kind := kindOf(d)
	if kind == Function && p.isTest(name, start) {
		kind = Test
	}

	sig := collapseWS(p.src[start:lineEnd])
	sig = strings.TrimSuffix(sig, ":")

	ent := &Entity{
		Kind:      kind,
		Name:      name,
		Signature: sig,
		Span:      source.Span{File: p.file.ID, Start: uint32(start), End: uint32(lineEnd)},
	}
	return ent, true
}

package entity

import (
	"doclens/internal/comment"
	"doclens/internal/grammar"
	"doclens/internal/source"
)

// Kind tags a recognized declaration boundary.
type Kind uint8

const (
	Unknown Kind = iota
	Module
	Function
	Struct
	Field
	Trait
	Impl
	Const
	Test
)

func (k Kind) String() string {
	switch k {
	case Module:
		return "Module"
	case Function:
		return "Function"
	case Struct:
		return "Struct"
	case Field:
		return "Field"
	case Trait:
		return "Trait"
	case Impl:
		return "Impl"
	case Const:
		return "Const"
	case Test:
		return "Test"
	case Unknown:
		return "Unknown"
	}
	return "Unknown"
}

// Entity is one recognized declaration. Entities form a rooted tree: the
// Module entity spans the whole file, a child's span lies fully inside its
// parent's, and siblings are ordered by start offset without overlap.
type Entity struct {
	Kind      Kind
	Name      string // может быть пустым у Unknown
	Signature string
	Span      source.Span

	// Doc выставляет ассоциатор; парсер сущностей его не трогает.
	Doc *comment.Record
	// Inline: комментарии внутри спана, не привязанные ни к какому ребёнку.
	Inline []*comment.Record

	Children []*Entity
}

// Walk calls fn for the entity and all descendants in depth-first order.
// Returning false from fn prunes the subtree.
func (e *Entity) Walk(fn func(*Entity) bool) {
	if !fn(e) {
		return
	}
	for _, child := range e.Children {
		child.Walk(fn)
	}
}

// Flatten returns the entity and all descendants ordered by start offset.
func (e *Entity) Flatten() []*Entity {
	var out []*Entity
	e.Walk(func(ent *Entity) bool {
		out = append(out, ent)
		return true
	})
	return out
}

// Enclosing returns the deepest entity whose span contains sp (itself included).
func (e *Entity) Enclosing(sp source.Span) *Entity {
	if !e.Span.Contains(sp) {
		return nil
	}
	for _, child := range e.Children {
		if deeper := child.Enclosing(sp); deeper != nil {
			return deeper
		}
	}
	return e
}

func kindOf(d grammar.Decl) Kind {
	switch d {
	case grammar.DeclFunction:
		return Function
	case grammar.DeclStruct:
		return Struct
	case grammar.DeclTrait:
		return Trait
	case grammar.DeclImpl:
		return Impl
	case grammar.DeclConst:
		return Const
	}
	return Unknown
}

package token

import (
	"doclens/internal/source"
)

// Kind classifies a scanned span of source text.
type Kind uint8

const (
	// Code is any run of source bytes that is not a comment, literal, or marker.
	Code Kind = iota
	// LineComment is a comment from a line prefix to the end of its line.
	LineComment
	// BlockComment is a delimited (possibly nested) comment.
	BlockComment
	// StringLit is a string literal, including its quotes.
	StringLit
	// CharLit is a character literal, including its quotes.
	CharLit
	// AttrMarker is an attribute/annotation line preceding a declaration
	// (#[...], @decorator, @Annotation). Kept distinct so doc attachment can
	// skip over it without treating it as code.
	AttrMarker
	// EOF terminates every token stream; its span is empty.
	EOF
)

func (k Kind) String() string {
	switch k {
	case Code:
		return "Code"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	case StringLit:
		return "StringLit"
	case CharLit:
		return "CharLit"
	case AttrMarker:
		return "AttrMarker"
	case EOF:
		return "EOF"
	}
	return "Unknown"
}

// Token is one contiguous span of the input. A scan of a file yields tokens
// that cover every byte exactly once, in order.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsComment reports whether the token is a line or block comment.
func (t Token) IsComment() bool {
	return t.Kind == LineComment || t.Kind == BlockComment
}

// IsLiteral reports whether the token is a string or character literal.
func (t Token) IsLiteral() bool {
	return t.Kind == StringLit || t.Kind == CharLit
}

package token

import "testing"

func TestKindString(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{Code, "Code"},
		{LineComment, "LineComment"},
		{BlockComment, "BlockComment"},
		{StringLit, "StringLit"},
		{CharLit, "CharLit"},
		{AttrMarker, "AttrMarker"},
		{EOF, "EOF"},
		{Kind(200), "Unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestClassifiers(t *testing.T) {
	if !(Token{Kind: LineComment}).IsComment() || !(Token{Kind: BlockComment}).IsComment() {
		t.Error("comments must report IsComment")
	}
	if (Token{Kind: Code}).IsComment() {
		t.Error("code must not report IsComment")
	}
	if !(Token{Kind: StringLit}).IsLiteral() || !(Token{Kind: CharLit}).IsLiteral() {
		t.Error("literals must report IsLiteral")
	}
	if (Token{Kind: AttrMarker}).IsLiteral() {
		t.Error("attr marker is not a literal")
	}
}

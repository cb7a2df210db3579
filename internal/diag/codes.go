package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка - на первое время
	UnknownCode Code = 0

	// Сканер
	ScanInfo                     Code = 1000
	ScanUnterminatedBlockComment Code = 1001
	ScanUnterminatedString       Code = 1002
	ScanUnterminatedChar         Code = 1003
	ScanNewlineInString          Code = 1004

	// Грамматики
	GrammarUnknownLanguage   Code = 2000
	GrammarBadDescriptor     Code = 2001
	GrammarDuplicateOverride Code = 2002

	// I/O
	IOLoadFileError Code = 4000
)

var codeDescription = map[Code]string{
	UnknownCode: "Unknown diagnostic",

	ScanInfo:                     "Scanner note",
	ScanUnterminatedBlockComment: "Unterminated block comment",
	ScanUnterminatedString:       "Unterminated string literal",
	ScanUnterminatedChar:         "Unterminated character literal",
	ScanNewlineInString:          "Newline in single-line string literal",

	GrammarUnknownLanguage:   "Unknown language",
	GrammarBadDescriptor:     "Invalid grammar descriptor",
	GrammarDuplicateOverride: "Duplicate grammar override",

	IOLoadFileError: "Failed to load file",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("SCAN%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("GRM%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}

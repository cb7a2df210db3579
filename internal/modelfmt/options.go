// Package modelfmt renders documents, annotations, tokens, and diagnostics
// for the CLI, in human-readable and JSON forms.
package modelfmt

// PrettyOpts configures human-readable output.
type PrettyOpts struct {
	Color bool
	// ShowText: печатать текст doc-комментариев, не только наличие.
	ShowText bool
}

// JSONOpts configures JSON output.
type JSONOpts struct {
	IncludePositions bool // добавить line/col
	IncludeComments  bool // включить все комментарии, не только привязанные
}

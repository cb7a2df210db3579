// Package diag defines the diagnostic model shared by all scan phases.
//
// Diagnostic is the central record: Severity (Info/Warning/Error), a compact
// numeric Code with a stable string form, a short human-oriented Message, the
// primary source.Span, and optional Notes for secondary context.
//
// Producers emit through a Reporter so they stay decoupled from storage;
// BagReporter aggregates into a Bag, which supports bounded collection,
// deterministic sorting, and deduplication. Rendering lives in
// internal/modelfmt; this package performs no formatting or IO.
//
// Recoverable scan problems (unterminated comments and literals) are always
// diagnostics, never Go errors: a scan returns the best model it can plus the
// bag, and only I/O failures surface as errors.
package diag

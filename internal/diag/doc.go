// Package diag defines the core diagnostic model shared by all pipeline phases.
//
// # Purpose
//
//   - Provide deterministic, serialisable records for findings produced by the
//     lexer, parser, semantic model, generator and naming analyzer.
//   - Offer light-weight utilities (Reporter, Bag) that let producers emit
//     diagnostics without coupling to storage or formatting.
//   - Model fix suggestions as structured edits that the fix engine or the CLI
//     can materialise and apply.
//
// Package diag does not format or perform IO. Rendering lives in
// internal/diagfmt; applying fixes lives in internal/fix.
//
// # Fix suggestions
//
// Fix carries a Title, a Kind, an Applicability level, an optional
// EquivalenceKey used by hosts to group equivalent fixes, and the concrete
// TextEdits. Producers may attach a Thunk instead of edits; Resolve and
// MaterializeFixes expand thunks deterministically.
//
// TextEdit spans are in source coordinates of the file version the diagnostic
// was computed from. OldText is an optional guard the fix engine checks before
// applying an edit.
package diag

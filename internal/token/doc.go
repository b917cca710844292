// Package token defines lexical token kinds and trivia for the decl language.
// Invariants:
//   - Token.Text is a slice of the original source, except for identifiers,
//     whose Text is NFC-normalised and may differ from the raw bytes.
//   - Token.Span always covers the raw bytes of the token.
//   - Attributes are lexed as '@' (Kind: At) + Ident; no per-attribute token kinds.
//   - Comments and whitespace are leading Trivia and never appear in the main stream.
package token
